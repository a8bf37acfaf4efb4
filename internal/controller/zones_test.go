package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfcraft/internal/retail"
)

func TestZonesLoadReplacesList(t *testing.T) {
	catalog := []retail.Zone{{ID: "A", Name: "Endcap A"}, {ID: "B", Name: "Aisle B"}}
	remote := &fakeRemote{zonesFn: func(context.Context) ([]retail.Zone, error) {
		return catalog, nil
	}}
	z := NewZones(remote, nil)

	require.NoError(t, z.Load(context.Background()))
	assert.Equal(t, catalog, z.List())
	assert.False(t, z.Loading())
	assert.NoError(t, z.Err())

	catalog = []retail.Zone{{ID: "C"}}
	require.NoError(t, z.Load(context.Background()))
	assert.Equal(t, []retail.Zone{{ID: "C"}}, z.List(), "reload fully replaces the list")
}

func TestZonesFailedReloadKeepsPriorList(t *testing.T) {
	calls := 0
	remote := &fakeRemote{zonesFn: func(context.Context) ([]retail.Zone, error) {
		calls++
		if calls == 1 {
			return []retail.Zone{{ID: "A"}}, nil
		}
		return nil, errors.New("backend down")
	}}
	z := NewZones(remote, nil)

	require.NoError(t, z.Load(context.Background()))
	require.Error(t, z.Load(context.Background()))

	assert.Equal(t, []retail.Zone{{ID: "A"}}, z.List(), "failed reload must not clobber good data")
	assert.Error(t, z.Err())
	assert.False(t, z.Loading(), "loading flag resets on failure")
}

func TestZonesGet(t *testing.T) {
	remote := &fakeRemote{zonesFn: func(context.Context) ([]retail.Zone, error) {
		return []retail.Zone{{ID: "A", Capacity: 4}}, nil
	}}
	z := NewZones(remote, nil)
	require.NoError(t, z.Load(context.Background()))

	zone, ok := z.Get("A")
	require.True(t, ok)
	assert.Equal(t, 4, zone.Capacity)

	_, ok = z.Get("missing")
	assert.False(t, ok)
}
