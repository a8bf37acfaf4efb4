package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfcraft/internal/retail"
)

func TestProductsDebounceCoalescesKeystrokes(t *testing.T) {
	var calls int32
	var mu sync.Mutex
	var lastFilter retail.ProductFilter

	remote := &fakeRemote{productsFn: func(_ context.Context, f retail.ProductFilter) ([]retail.Product, error) {
		atomic.AddInt32(&calls, 1)
		mu.Lock()
		lastFilter = f
		mu.Unlock()
		return []retail.Product{{ID: "P1"}}, nil
	}}
	p := NewProducts(remote, nil, 80*time.Millisecond)
	defer p.Close()

	// Four keystrokes inside the quiet period; only the last survives.
	ctx := context.Background()
	for _, q := range []string{"c", "co", "col", "cola"} {
		p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT", Query: q, Sort: retail.SortScore})
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1 && len(p.List()) == 1
	}, time.Second, 10*time.Millisecond)

	// No further request fires once quiet.
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "exactly one request for the burst")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "cola", lastFilter.Query, "the request carries the final query value")
}

func TestProductsStaleResponseSuppressed(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var call int32

	remote := &fakeRemote{productsFn: func(_ context.Context, f retail.ProductFilter) ([]retail.Product, error) {
		if atomic.AddInt32(&call, 1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return []retail.Product{{ID: "stale"}}, nil
		}
		return []retail.Product{{ID: "fresh"}}, nil
	}}
	p := NewProducts(remote, nil, 10*time.Millisecond)
	defer p.Close()

	ctx := context.Background()
	p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT", Query: "a"})
	<-firstStarted

	p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT", Query: "ab"})
	require.Eventually(t, func() bool {
		list := p.List()
		return len(list) == 1 && list[0].ID == "fresh"
	}, time.Second, 5*time.Millisecond)

	// Let the superseded request finish late; its result must be ignored.
	close(releaseFirst)
	time.Sleep(50 * time.Millisecond)

	list := p.List()
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].ID, "late response from a superseded request must not apply")
}

func TestProductsEmptyZoneClearsListWithoutQuery(t *testing.T) {
	var calls int32
	remote := &fakeRemote{productsFn: func(context.Context, retail.ProductFilter) ([]retail.Product, error) {
		atomic.AddInt32(&calls, 1)
		return []retail.Product{{ID: "P1"}}, nil
	}}
	p := NewProducts(remote, nil, 10*time.Millisecond)
	defer p.Close()

	ctx := context.Background()
	p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT"})
	require.Eventually(t, func() bool { return len(p.List()) == 1 }, time.Second, 5*time.Millisecond)

	p.SetFilter(ctx, retail.ProductFilter{})
	assert.Empty(t, p.List())

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "an empty zone never queries")
}

func TestProductsFullReplaceSemantics(t *testing.T) {
	lists := [][]retail.Product{
		{{ID: "P1"}, {ID: "P2"}},
		{{ID: "P3"}},
	}
	var call int32
	remote := &fakeRemote{productsFn: func(context.Context, retail.ProductFilter) ([]retail.Product, error) {
		n := atomic.AddInt32(&call, 1)
		return lists[n-1], nil
	}}
	p := NewProducts(remote, nil, 5*time.Millisecond)
	defer p.Close()

	ctx := context.Background()
	p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT", Category: "drinks"})
	require.Eventually(t, func() bool { return len(p.List()) == 2 }, time.Second, 5*time.Millisecond)

	p.SetFilter(ctx, retail.ProductFilter{ZoneID: "HOT", Category: "snacks"})
	require.Eventually(t, func() bool {
		list := p.List()
		return len(list) == 1 && list[0].ID == "P3"
	}, time.Second, 5*time.Millisecond)
}
