package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"shelfcraft/internal/retail"
)

// Zones loads and holds the read-only zone catalog. Loads are full-replace:
// a successful load discards the previous list entirely, a failed load
// leaves the previous list untouched so a broken reload never clobbers good
// data.
type Zones struct {
	mu      sync.Mutex
	backend ZoneLister
	logger  *zap.Logger

	zones   []retail.Zone
	loading bool
	lastErr error
}

// NewZones builds a zone catalog controller. logger may be nil.
func NewZones(backend ZoneLister, logger *zap.Logger) *Zones {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zones{backend: backend, logger: logger}
}

// Load fetches the catalog. Blocking; callers run it from their own
// goroutine or command. The loading flag is reset on every path.
func (z *Zones) Load(ctx context.Context) error {
	z.mu.Lock()
	if z.loading {
		z.mu.Unlock()
		return nil
	}
	z.loading = true
	z.lastErr = nil
	z.mu.Unlock()

	zones, err := z.backend.Zones(ctx)

	z.mu.Lock()
	defer z.mu.Unlock()
	z.loading = false
	if err != nil {
		z.lastErr = err
		z.logger.Warn("zone catalog load failed", zap.Error(err))
		return err
	}
	z.zones = zones
	z.logger.Debug("zone catalog loaded", zap.Int("count", len(zones)))
	return nil
}

// List returns a copy of the current catalog in server order.
func (z *Zones) List() []retail.Zone {
	z.mu.Lock()
	defer z.mu.Unlock()
	out := make([]retail.Zone, len(z.zones))
	copy(out, z.zones)
	return out
}

// Get looks a zone up by ID.
func (z *Zones) Get(id string) (retail.Zone, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()
	for _, zone := range z.zones {
		if zone.ID == id {
			return zone, true
		}
	}
	return retail.Zone{}, false
}

// Loading reports whether a load is in flight.
func (z *Zones) Loading() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.loading
}

// Err returns the error of the last load, if it failed.
func (z *Zones) Err() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.lastErr
}
