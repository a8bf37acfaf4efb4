// Package retail defines the domain model for the shelfcraft client: zones,
// products, shelf layouts, server-computed metrics, and the move-intent
// messages exchanged between the interaction layer and the remote service.
//
// The client treats the remote service as the single authority for layout and
// metrics. Nothing in this package computes placements or KPIs; it only gives
// the wire shapes names and enforces the invariants the client relies on.
package retail

// Weight holds the dimensionless scoring coefficients configured per zone.
// No range is enforced client-side.
type Weight struct {
	Velocity float64 `json:"velocity"`
	Margin   float64 `json:"margin"`
	Price    float64 `json:"price"`
	Fit      float64 `json:"fit"`
}

// Zone is a store area with a fixed slot capacity and scoring weights.
// Zones are a read-only catalog from the client's perspective: loaded on
// start, replaced wholesale on reload, never mutated locally.
type Zone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Weight   Weight `json:"weight"`
}

// Product is one catalog entry. Margin and Velocity are fractional rates in
// [0,1] by convention (display multiplies by 100). Score is present only when
// the product was fetched in a zone-scoped, filtered context.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cat      string   `json:"cat"`
	Price    float64  `json:"price"`
	Margin   float64  `json:"margin"`
	Velocity float64  `json:"velocity"`
	Score    *float64 `json:"score,omitempty"`
}

// TopProduct is one entry of the server's top-3 ranking inside Metrics.
type TopProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Metrics is the KPI snapshot the server derives for a specific layout.
// Opaque and read-only: the client displays it and never recomputes it.
type Metrics struct {
	FillRate      float64      `json:"fill_rate"`
	AvgTicket     float64      `json:"avg_ticket"`
	EstDailySales float64      `json:"est_daily_sales"`
	AvgMarginRate float64      `json:"avg_margin_rate"`
	Categories    int          `json:"categories"`
	ScoreSum      float64      `json:"score_sum"`
	Top3          []TopProduct `json:"top3,omitempty"`
}

// ZoneState pairs a layout with the metrics computed for it. The two are
// replaced together, never independently; keeping them in one value is what
// makes a layout that doesn't match its displayed KPIs unrepresentable.
type ZoneState struct {
	Layout  Layout  `json:"layout"`
	Metrics Metrics `json:"metrics"`
}
