package retail

// Layout is the ordered slot-to-product assignment for a zone. Each entry is
// a product ID or "" for an empty slot. Length comes from the server (zone
// capacity) and is not enforced client-side. This is the only mutable,
// order-sensitive structure in the system: slot index identifies a drop
// target, product ID identifies a drag source.
type Layout []string

// At returns the product ID at slot idx, or "" when the index is out of
// range or the slot is empty.
func (l Layout) At(idx int) string {
	if idx < 0 || idx >= len(l) {
		return ""
	}
	return l[idx]
}

// Occupied reports whether slot idx holds a product.
func (l Layout) Occupied(idx int) bool {
	return l.At(idx) != ""
}

// Filled returns the number of occupied slots.
func (l Layout) Filled() int {
	n := 0
	for _, pid := range l {
		if pid != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy so snapshots handed to the UI cannot be
// mutated behind the controller's back.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	copy(out, l)
	return out
}
