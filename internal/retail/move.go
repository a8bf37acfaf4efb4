package retail

import (
	"errors"
	"fmt"
	"net/url"
)

// Origin names where a drag gesture started.
type Origin string

const (
	// OriginInventory marks a drag that started on a catalog product.
	OriginInventory Origin = "inventory"
	// OriginSlot marks a drag that started on an occupied shelf slot.
	OriginSlot Origin = "slot"
)

// Valid reports whether o is one of the two known origins.
func (o Origin) Valid() bool {
	return o == OriginInventory || o == OriginSlot
}

// DragData is the move-intent message carried through a single drag gesture,
// serialized at pick-up and parsed back at drop. It is an internal UI
// protocol, not a network format, but it must round-trip exactly because it
// is the only channel between the two interaction points.
//
// Invariant: FromSlot is present if and only if Origin is OriginSlot.
type DragData struct {
	Origin   Origin `json:"origin"`
	PID      string `json:"pid"`
	FromSlot *int   `json:"from_slot,omitempty"`
}

// MoveRequest is the body of a POST /zones/{id}/move call. A slot-origin
// request means "move the product at from_slot to to_slot, displacing or
// swapping as the server sees fit"; an inventory-origin request means "place
// a catalog product into to_slot".
type MoveRequest struct {
	Origin   Origin `json:"origin"`
	PID      string `json:"pid"`
	ToSlot   int    `json:"to_slot"`
	FromSlot *int   `json:"from_slot,omitempty"`
}

var (
	// ErrEmptyPID reports a move intent with no product identity.
	ErrEmptyPID = errors.New("retail: move request has empty pid")
	// ErrBadOrigin reports an origin outside {inventory, slot}.
	ErrBadOrigin = errors.New("retail: move request has unknown origin")
)

// Validate enforces the origin/from_slot pairing in both directions: a
// slot-origin request must carry from_slot, an inventory-origin request must
// not.
func (m MoveRequest) Validate() error {
	if m.PID == "" {
		return ErrEmptyPID
	}
	if !m.Origin.Valid() {
		return ErrBadOrigin
	}
	if m.Origin == OriginSlot && m.FromSlot == nil {
		return fmt.Errorf("retail: slot-origin move for %q missing from_slot", m.PID)
	}
	if m.Origin == OriginInventory && m.FromSlot != nil {
		return fmt.Errorf("retail: inventory-origin move for %q must not carry from_slot", m.PID)
	}
	return nil
}

// SortKey enumerates the product list orderings the service accepts.
type SortKey string

const (
	SortScore        SortKey = "score"
	SortPriceDesc    SortKey = "price_desc"
	SortPriceAsc     SortKey = "price_asc"
	SortMarginDesc   SortKey = "margin_desc"
	SortVelocityDesc SortKey = "velocity_desc"
)

// Valid reports whether k is a known wire value.
func (k SortKey) Valid() bool {
	switch k {
	case SortScore, SortPriceDesc, SortPriceAsc, SortMarginDesc, SortVelocityDesc:
		return true
	}
	return false
}

// ProductFilter is the zone + free-text + category + sort combination a
// product query is keyed to. The zero Query/Category mean "no filter".
type ProductFilter struct {
	ZoneID   string
	Query    string
	Category string
	Sort     SortKey
}

// Values renders the filter as the query string of GET /products. Empty
// fields are omitted, matching the service contract.
func (f ProductFilter) Values() url.Values {
	v := url.Values{}
	if f.ZoneID != "" {
		v.Set("zone_id", f.ZoneID)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.Category != "" {
		v.Set("cat", f.Category)
	}
	if f.Sort != "" {
		v.Set("sort", string(f.Sort))
	}
	return v
}
