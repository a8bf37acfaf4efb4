// Package dragdrop converts pick-and-place interactions into structured move
// intents. It is pure interaction logic: no network calls, no knowledge of
// controllers. The payload attached when a carry begins is a JSON-serialized
// retail.DragData message and must round-trip exactly, because it is the only
// channel carrying move intent from pick-up to drop.
package dragdrop

import (
	"encoding/json"
	"sync"

	"shelfcraft/internal/retail"
)

// NoHover is the Hover state when no drop target is highlighted.
const NoHover = -1

// InventoryPayload serializes the drag-start message for a catalog product.
func InventoryPayload(pid string) string {
	data, _ := json.Marshal(retail.DragData{Origin: retail.OriginInventory, PID: pid})
	return string(data)
}

// SlotPayload serializes the drag-start message for a product picked from an
// occupied slot.
func SlotPayload(pid string, fromSlot int) string {
	data, _ := json.Marshal(retail.DragData{Origin: retail.OriginSlot, PID: pid, FromSlot: &fromSlot})
	return string(data)
}

// Parse deserializes a drag payload. A missing, malformed, or pid-less
// payload returns ok=false: such drops are interaction noise (dragging a
// non-product element), not user-facing errors, and callers must treat them
// as silent no-ops.
func Parse(raw string) (retail.DragData, bool) {
	if raw == "" {
		return retail.DragData{}, false
	}
	var d retail.DragData
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return retail.DragData{}, false
	}
	if d.PID == "" {
		return retail.DragData{}, false
	}
	return d, true
}

// BuildMove computes the request body for a drop at toSlot. Slot-origin drags
// carry their from_slot through; inventory-origin drags never do.
func BuildMove(d retail.DragData, toSlot int) retail.MoveRequest {
	if d.Origin == retail.OriginSlot {
		return retail.MoveRequest{
			Origin:   retail.OriginSlot,
			PID:      d.PID,
			ToSlot:   toSlot,
			FromSlot: d.FromSlot,
		}
	}
	return retail.MoveRequest{
		Origin: retail.OriginInventory,
		PID:    d.PID,
		ToSlot: toSlot,
	}
}

// Coordinator owns one in-flight carry and the hover affordance. The carry
// is held in serialized form and parsed again at drop time, mirroring the
// browser's dataTransfer channel.
type Coordinator struct {
	mu      sync.Mutex
	payload string
	hover   int
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{hover: NoHover}
}

// BeginFromInventory starts carrying a catalog product.
func (c *Coordinator) BeginFromInventory(pid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = InventoryPayload(pid)
}

// BeginFromSlot starts carrying the product occupying fromSlot.
func (c *Coordinator) BeginFromSlot(pid string, fromSlot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = SlotPayload(pid, fromSlot)
}

// Carrying returns the current carry, parsed, without consuming it.
func (c *Coordinator) Carrying() (retail.DragData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Parse(c.payload)
}

// Drop completes the carry at toSlot and returns the move request to send.
// ok is false when nothing valid was being carried; the caller makes no
// request and shows no error in that case. The carry and hover state are
// cleared either way.
func (c *Coordinator) Drop(toSlot int) (retail.MoveRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw := c.payload
	c.payload = ""
	c.hover = NoHover

	d, ok := Parse(raw)
	if !ok {
		return retail.MoveRequest{}, false
	}
	return BuildMove(d, toSlot), true
}

// Cancel abandons the carry without issuing a request.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = ""
	c.hover = NoHover
}

// Enter highlights a drop target. Presentation-only; has no effect on
// request construction.
func (c *Coordinator) Enter(slot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hover = slot
}

// Leave removes the highlight if it is still on slot.
func (c *Coordinator) Leave(slot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hover == slot {
		c.hover = NoHover
	}
}

// Hovered returns the highlighted slot index, or NoHover.
func (c *Coordinator) Hovered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hover
}
