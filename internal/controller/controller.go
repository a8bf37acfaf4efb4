// Package controller owns the client-side round-trips to the remote service
// and the reactive state they produce: the zone catalog, the active zone's
// layout+metrics pair, and the filtered product list. Controllers are the
// only writers of their state; everything else reads immutable snapshots.
//
// All remote ordering races the client is exposed to are resolved here:
// layout and metrics are fetched as a fan-out pair that applies only when
// both legs succeed, zone switches invalidate in-flight fetches through a
// monotonic epoch, and product queries are debounced with stale responses
// suppressed by a monotonic request token.
package controller

import (
	"context"

	"shelfcraft/internal/retail"
)

// ZoneLister is the slice of the transport client the zone catalog
// controller needs.
type ZoneLister interface {
	Zones(ctx context.Context) ([]retail.Zone, error)
}

// StateFetcher is the slice the zone-state controller needs.
type StateFetcher interface {
	ZoneLayout(ctx context.Context, zoneID string) (retail.Layout, error)
	ZoneMetrics(ctx context.Context, zoneID string) (retail.Metrics, error)
}

// ProductLister is the slice the product catalog controller needs.
type ProductLister interface {
	Products(ctx context.Context, filter retail.ProductFilter) ([]retail.Product, error)
}
