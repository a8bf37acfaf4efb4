package controller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shelfcraft/internal/retail"
)

// DefaultSearchDebounce is the quiet period after the last filter change
// before a product query fires.
const DefaultSearchDebounce = 220 * time.Millisecond

// Products owns the filtered product catalog. Filter changes are debounced
// so fast typing produces one request carrying the final filter, and every
// fired request carries a monotonic token: a response is applied only while
// its token is still the newest, so late arrivals from superseded requests
// are ignored regardless of arrival order. Each applied result fully
// replaces the list; nothing is merged or cached across filter changes.
type Products struct {
	mu      sync.Mutex
	backend ProductLister
	logger  *zap.Logger
	pending *debouncer

	seq      uint64
	filter   retail.ProductFilter
	products []retail.Product
	loading  bool
	lastErr  error
	events   chan struct{}
}

// NewProducts builds the product controller. A non-positive delay falls back
// to DefaultSearchDebounce; tests shorten it. logger may be nil.
func NewProducts(backend ProductLister, logger *zap.Logger, delay time.Duration) *Products {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Products{
		backend: backend,
		logger:  logger,
		pending: newDebouncer(delay),
		events:  make(chan struct{}, 1),
	}
}

// Events signals (coalesced) whenever the list settles after a query.
func (p *Products) Events() <-chan struct{} { return p.events }

// SetFilter records the new filter and (re)schedules the query. Every call
// inside the quiet period cancels and restarts the timer, so only the last
// filter value reaches the wire. An empty zone clears the list and fires
// nothing: products are always zone-scoped.
func (p *Products) SetFilter(ctx context.Context, f retail.ProductFilter) {
	p.mu.Lock()
	p.filter = f
	p.mu.Unlock()

	if f.ZoneID == "" {
		p.pending.cancel()
		p.mu.Lock()
		p.seq++ // invalidate anything still in flight
		p.products = nil
		p.loading = false
		p.mu.Unlock()
		p.signal()
		return
	}
	p.pending.debounce(func() { p.fire(ctx) })
}

// fire issues the query for the filter current at fire time.
func (p *Products) fire(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	token := p.seq
	f := p.filter
	p.loading = true
	p.mu.Unlock()

	list, err := p.backend.Products(ctx, f)

	p.mu.Lock()
	if token != p.seq {
		// A newer request owns the state now; this response is stale.
		p.mu.Unlock()
		p.logger.Debug("discarding stale product response", zap.String("zone", f.ZoneID), zap.String("q", f.Query))
		return
	}
	p.loading = false
	if err != nil {
		p.lastErr = err
		p.mu.Unlock()
		p.logger.Warn("product query failed", zap.String("zone", f.ZoneID), zap.Error(err))
		p.signal()
		return
	}
	p.lastErr = nil
	p.products = list
	p.mu.Unlock()
	p.logger.Debug("product list replaced", zap.String("zone", f.ZoneID), zap.Int("count", len(list)))
	p.signal()
}

// List returns a copy of the current product list.
func (p *Products) List() []retail.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]retail.Product, len(p.products))
	copy(out, p.products)
	return out
}

// Filter returns the most recently requested filter.
func (p *Products) Filter() retail.ProductFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Loading reports whether a query is in flight.
func (p *Products) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the failure of the last settled query, if any.
func (p *Products) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Close cancels any pending debounced query.
func (p *Products) Close() {
	p.pending.cancel()
}

func (p *Products) signal() {
	select {
	case p.events <- struct{}{}:
	default:
	}
}
