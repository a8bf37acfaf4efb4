package dragdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfcraft/internal/retail"
)

func TestInventoryDragYieldsNoFromSlot(t *testing.T) {
	c := NewCoordinator()
	c.BeginFromInventory("P1")

	req, ok := c.Drop(3)
	require.True(t, ok)
	assert.Equal(t, retail.OriginInventory, req.Origin)
	assert.Equal(t, "P1", req.PID)
	assert.Equal(t, 3, req.ToSlot)
	assert.Nil(t, req.FromSlot)
	assert.NoError(t, req.Validate())
}

func TestSlotDragCarriesFromSlot(t *testing.T) {
	c := NewCoordinator()
	c.BeginFromSlot("P2", 2)

	req, ok := c.Drop(5)
	require.True(t, ok)
	assert.Equal(t, retail.OriginSlot, req.Origin)
	assert.Equal(t, "P2", req.PID)
	assert.Equal(t, 5, req.ToSlot)
	require.NotNil(t, req.FromSlot)
	assert.Equal(t, 2, *req.FromSlot)
	assert.NoError(t, req.Validate())
}

func TestPayloadRoundTripsThroughSerializedForm(t *testing.T) {
	d, ok := Parse(SlotPayload("P7", 4))
	require.True(t, ok)
	assert.Equal(t, retail.OriginSlot, d.Origin)
	assert.Equal(t, "P7", d.PID)
	require.NotNil(t, d.FromSlot)
	assert.Equal(t, 4, *d.FromSlot)
}

func TestMalformedPayloadIsSilentNoOp(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":       "",
		"not json":    "{oops",
		"missing pid": `{"origin":"inventory"}`,
		"blank pid":   `{"origin":"slot","pid":"","from_slot":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := Parse(raw)
			assert.False(t, ok)
		})
	}
}

func TestDropWithoutCarryIsNoOp(t *testing.T) {
	c := NewCoordinator()
	_, ok := c.Drop(0)
	assert.False(t, ok)
}

func TestCancelAbandonsCarry(t *testing.T) {
	c := NewCoordinator()
	c.BeginFromInventory("P1")
	c.Cancel()

	_, ok := c.Drop(0)
	assert.False(t, ok)
}

func TestDropConsumesCarry(t *testing.T) {
	c := NewCoordinator()
	c.BeginFromInventory("P1")

	_, ok := c.Drop(1)
	require.True(t, ok)
	_, ok = c.Drop(1)
	assert.False(t, ok, "a carry completes at most one drop")
}

func TestHoverAffordance(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, NoHover, c.Hovered())

	c.Enter(3)
	assert.Equal(t, 3, c.Hovered())

	// Leaving a different slot keeps the highlight.
	c.Leave(5)
	assert.Equal(t, 3, c.Hovered())

	c.Leave(3)
	assert.Equal(t, NoHover, c.Hovered())

	// Hover has no bearing on the built request.
	c.Enter(7)
	c.BeginFromInventory("P1")
	req, ok := c.Drop(2)
	require.True(t, ok)
	assert.Equal(t, 2, req.ToSlot)
	assert.Equal(t, NoHover, c.Hovered(), "drop clears the highlight")
}
