package retail

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveRequestValidate(t *testing.T) {
	two := 2

	tests := []struct {
		name    string
		req     MoveRequest
		wantErr bool
	}{
		{"inventory ok", MoveRequest{Origin: OriginInventory, PID: "P1", ToSlot: 3}, false},
		{"slot ok", MoveRequest{Origin: OriginSlot, PID: "P2", ToSlot: 5, FromSlot: &two}, false},
		{"empty pid", MoveRequest{Origin: OriginInventory, ToSlot: 0}, true},
		{"unknown origin", MoveRequest{Origin: "shelf", PID: "P1", ToSlot: 1}, true},
		{"slot missing from_slot", MoveRequest{Origin: OriginSlot, PID: "P1", ToSlot: 1}, true},
		{"inventory with from_slot", MoveRequest{Origin: OriginInventory, PID: "P1", ToSlot: 1, FromSlot: &two}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMoveRequestWireShape(t *testing.T) {
	// Inventory origin must not serialize a from_slot key at all.
	data, err := json.Marshal(MoveRequest{Origin: OriginInventory, PID: "P1", ToSlot: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"origin":"inventory","pid":"P1","to_slot":3}`, string(data))

	from := 2
	data, err = json.Marshal(MoveRequest{Origin: OriginSlot, PID: "P2", ToSlot: 5, FromSlot: &from})
	require.NoError(t, err)
	assert.JSONEq(t, `{"origin":"slot","pid":"P2","to_slot":5,"from_slot":2}`, string(data))
}

func TestProductFilterValues(t *testing.T) {
	f := ProductFilter{ZoneID: "HOT", Query: "cola", Category: "drinks", Sort: SortScore}
	v := f.Values()
	assert.Equal(t, "HOT", v.Get("zone_id"))
	assert.Equal(t, "cola", v.Get("q"))
	assert.Equal(t, "drinks", v.Get("cat"))
	assert.Equal(t, "score", v.Get("sort"))

	// Empty fields stay out of the query string.
	v = ProductFilter{ZoneID: "HOT", Sort: SortScore}.Values()
	assert.NotContains(t, v.Encode(), "q=")
	assert.NotContains(t, v.Encode(), "cat=")
}

func TestSortKeyValid(t *testing.T) {
	for _, k := range []SortKey{SortScore, SortPriceDesc, SortPriceAsc, SortMarginDesc, SortVelocityDesc} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, SortKey("margin_asc").Valid())
	assert.False(t, SortKey("").Valid())
}
