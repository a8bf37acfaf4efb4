package session

import (
	"fmt"
	"strings"

	"shelfcraft/internal/dragdrop"
	"shelfcraft/internal/retail"
)

// SelfCheck runs the startup smoke tests: it exercises the pure plumbing
// (query-string construction and move-payload round-tripping) once and
// returns a status line for the footer. It touches no network.
func SelfCheck() (status string, ok bool) {
	if err := selfCheck(); err != nil {
		return fmt.Sprintf("Tests FAILED: %v", err), false
	}
	return "Tests OK", true
}

func selfCheck() error {
	// Product query construction.
	encoded := retail.ProductFilter{ZoneID: "HOT", Sort: retail.SortScore}.Values().Encode()
	if !strings.Contains(encoded, "zone_id=HOT") {
		return fmt.Errorf("product query missing zone_id: %q", encoded)
	}
	if !strings.Contains(encoded, "sort=score") {
		return fmt.Errorf("product query missing sort: %q", encoded)
	}

	// Drag payload must round-trip through its serialized form.
	d, parsed := dragdrop.Parse(dragdrop.SlotPayload("P1", 2))
	if !parsed {
		return fmt.Errorf("slot payload did not round-trip")
	}
	if d.Origin != retail.OriginSlot || d.PID != "P1" || d.FromSlot == nil || *d.FromSlot != 2 {
		return fmt.Errorf("slot payload decoded wrong: %+v", d)
	}
	if err := dragdrop.BuildMove(d, 5).Validate(); err != nil {
		return fmt.Errorf("slot move invalid: %w", err)
	}

	inv, parsed := dragdrop.Parse(dragdrop.InventoryPayload("P2"))
	if !parsed {
		return fmt.Errorf("inventory payload did not round-trip")
	}
	req := dragdrop.BuildMove(inv, 3)
	if req.FromSlot != nil {
		return fmt.Errorf("inventory move must not carry from_slot")
	}
	return req.Validate()
}
