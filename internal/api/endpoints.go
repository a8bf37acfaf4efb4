package api

import (
	"context"
	"fmt"
	"net/url"

	"shelfcraft/internal/retail"
)

// layoutResponse matches GET /zones/{id}/layout.
type layoutResponse struct {
	Layout retail.Layout `json:"layout"`
}

// Zones lists the full zone catalog.
func (c *Client) Zones(ctx context.Context) ([]retail.Zone, error) {
	var zones []retail.Zone
	if err := c.get(ctx, "/zones", &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// ZoneLayout fetches the current layout of one zone.
func (c *Client) ZoneLayout(ctx context.Context, zoneID string) (retail.Layout, error) {
	var resp layoutResponse
	if err := c.get(ctx, "/zones/"+url.PathEscape(zoneID)+"/layout", &resp); err != nil {
		return nil, err
	}
	return resp.Layout, nil
}

// ZoneMetrics fetches the KPI snapshot of one zone.
func (c *Client) ZoneMetrics(ctx context.Context, zoneID string) (retail.Metrics, error) {
	var m retail.Metrics
	if err := c.get(ctx, "/zones/"+url.PathEscape(zoneID)+"/metrics", &m); err != nil {
		return retail.Metrics{}, err
	}
	return m, nil
}

// Predict asks the service for an AI-generated placement. Mutating: the
// response is the new authoritative layout+metrics pair.
func (c *Client) Predict(ctx context.Context, zoneID string) (retail.ZoneState, error) {
	var st retail.ZoneState
	if err := c.post(ctx, "/zones/"+url.PathEscape(zoneID)+"/predict", nil, &st); err != nil {
		return retail.ZoneState{}, err
	}
	return st, nil
}

// Clear empties every slot of the zone. Mutating, same echo contract as
// Predict.
func (c *Client) Clear(ctx context.Context, zoneID string) (retail.ZoneState, error) {
	var st retail.ZoneState
	if err := c.post(ctx, "/zones/"+url.PathEscape(zoneID)+"/clear", nil, &st); err != nil {
		return retail.ZoneState{}, err
	}
	return st, nil
}

// Move submits a product move. The request is validated locally first so a
// malformed intent never reaches the wire.
func (c *Client) Move(ctx context.Context, zoneID string, req retail.MoveRequest) (retail.ZoneState, error) {
	if err := req.Validate(); err != nil {
		return retail.ZoneState{}, fmt.Errorf("invalid move request: %w", err)
	}
	var st retail.ZoneState
	if err := c.post(ctx, "/zones/"+url.PathEscape(zoneID)+"/move", req, &st); err != nil {
		return retail.ZoneState{}, err
	}
	return st, nil
}

// Products lists the catalog filtered by zone, free-text query, category and
// sort key.
func (c *Client) Products(ctx context.Context, filter retail.ProductFilter) ([]retail.Product, error) {
	path := "/products"
	if q := filter.Values().Encode(); q != "" {
		path += "?" + q
	}
	var products []retail.Product
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}
