package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shelfcraft/internal/retail"
)

// ErrZoneNotFound reports a request against an unknown zone id.
var ErrZoneNotFound = errors.New("zone not found")

// Store holds the mock backend's world: a zone catalog, a product catalog,
// and one layout per zone. All scoring here is a stand-in for the real
// optimization service; it is deterministic so tests can assert on it.
type Store struct {
	mu       sync.Mutex
	zones    []retail.Zone
	products []retail.Product
	layouts  map[string]retail.Layout
	maxPrice float64
}

// NewStore seeds the store with a small but realistic demo world.
func NewStore() *Store {
	s := &Store{
		zones: []retail.Zone{
			{ID: "endcap-1", Name: "Entrance Endcap", Type: "endcap", Capacity: 6,
				Weight: retail.Weight{Velocity: 1.2, Margin: 0.8, Price: 0.5, Fit: 1.0}},
			{ID: "aisle-3", Name: "Snack Aisle", Type: "aisle", Capacity: 8,
				Weight: retail.Weight{Velocity: 1.0, Margin: 1.0, Price: 0.3, Fit: 0.8}},
			{ID: "checkout-2", Name: "Checkout Lane 2", Type: "checkout", Capacity: 4,
				Weight: retail.Weight{Velocity: 1.5, Margin: 1.2, Price: 0.2, Fit: 0.6}},
			{ID: "promo-1", Name: "Seasonal Promo", Type: "promo", Capacity: 6,
				Weight: retail.Weight{Velocity: 0.9, Margin: 1.4, Price: 0.8, Fit: 1.2}},
		},
		products: []retail.Product{
			{ID: "P001", Name: "Cola 330ml", Cat: "beverage", Price: 1.5, Margin: 0.35, Velocity: 0.92},
			{ID: "P002", Name: "Sparkling Water", Cat: "beverage", Price: 1.2, Margin: 0.28, Velocity: 0.74},
			{ID: "P003", Name: "Potato Chips", Cat: "snack", Price: 2.8, Margin: 0.42, Velocity: 0.88},
			{ID: "P004", Name: "Chocolate Bar", Cat: "snack", Price: 1.9, Margin: 0.51, Velocity: 0.81},
			{ID: "P005", Name: "Trail Mix", Cat: "snack", Price: 4.5, Margin: 0.38, Velocity: 0.46},
			{ID: "P006", Name: "Whole Milk 1L", Cat: "dairy", Price: 1.8, Margin: 0.18, Velocity: 0.95},
			{ID: "P007", Name: "Greek Yogurt", Cat: "dairy", Price: 2.4, Margin: 0.33, Velocity: 0.62},
			{ID: "P008", Name: "Cheddar Block", Cat: "dairy", Price: 5.6, Margin: 0.41, Velocity: 0.39},
			{ID: "P009", Name: "Paper Towels", Cat: "household", Price: 6.9, Margin: 0.25, Velocity: 0.52},
			{ID: "P010", Name: "Dish Soap", Cat: "household", Price: 3.2, Margin: 0.44, Velocity: 0.47},
			{ID: "P011", Name: "Energy Drink", Cat: "beverage", Price: 2.9, Margin: 0.48, Velocity: 0.69},
			{ID: "P012", Name: "Granola Bars", Cat: "snack", Price: 3.8, Margin: 0.36, Velocity: 0.58},
		},
		layouts: make(map[string]retail.Layout),
	}
	for _, z := range s.zones {
		s.layouts[z.ID] = make(retail.Layout, z.Capacity)
	}
	for _, p := range s.products {
		if p.Price > s.maxPrice {
			s.maxPrice = p.Price
		}
	}
	// Give the demo something on the shelf out of the box.
	s.layouts["endcap-1"][0] = "P001"
	s.layouts["endcap-1"][1] = "P003"
	return s
}

// fitAffinity approximates how well a category suits a zone type.
var fitAffinity = map[string]map[string]float64{
	"endcap":   {"beverage": 1.0, "snack": 0.9, "dairy": 0.4, "household": 0.3},
	"aisle":    {"beverage": 0.7, "snack": 1.0, "dairy": 0.5, "household": 0.8},
	"checkout": {"beverage": 0.8, "snack": 1.0, "dairy": 0.2, "household": 0.1},
	"promo":    {"beverage": 0.9, "snack": 0.8, "dairy": 0.6, "household": 0.7},
}

// score is the weighted placement score of a product in a zone. Cheap
// products get a small boost on the price axis since they turn over faster.
func (s *Store) score(z retail.Zone, p retail.Product) float64 {
	fit := 0.5
	if m, ok := fitAffinity[z.Type]; ok {
		if f, ok := m[p.Cat]; ok {
			fit = f
		}
	}
	priceTerm := 0.0
	if s.maxPrice > 0 {
		priceTerm = 1 - p.Price/s.maxPrice
	}
	return z.Weight.Velocity*p.Velocity +
		z.Weight.Margin*p.Margin +
		z.Weight.Price*priceTerm +
		z.Weight.Fit*fit
}

func (s *Store) zoneByID(id string) (retail.Zone, bool) {
	for _, z := range s.zones {
		if z.ID == id {
			return z, true
		}
	}
	return retail.Zone{}, false
}

func (s *Store) productByID(id string) (retail.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return retail.Product{}, false
}

// Zones returns the zone catalog.
func (s *Store) Zones() []retail.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]retail.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

// State returns the current layout with freshly computed metrics.
func (s *Store) State(zoneID string) (retail.ZoneState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(zoneID)
}

func (s *Store) stateLocked(zoneID string) (retail.ZoneState, error) {
	z, ok := s.zoneByID(zoneID)
	if !ok {
		return retail.ZoneState{}, fmt.Errorf("zone %q: %w", zoneID, ErrZoneNotFound)
	}
	layout := s.layouts[zoneID].Clone()
	return retail.ZoneState{Layout: layout, Metrics: s.computeMetrics(z, layout)}, nil
}

func (s *Store) computeMetrics(z retail.Zone, layout retail.Layout) retail.Metrics {
	var m retail.Metrics
	var placed []retail.Product
	cats := map[string]bool{}

	for _, pid := range layout {
		if pid == "" {
			continue
		}
		p, ok := s.productByID(pid)
		if !ok {
			continue
		}
		placed = append(placed, p)
		cats[p.Cat] = true
	}

	if len(layout) > 0 {
		m.FillRate = float64(len(placed)) / float64(len(layout))
	}
	m.Categories = len(cats)

	type ranked struct {
		p     retail.Product
		score float64
	}
	var rankings []ranked
	for _, p := range placed {
		sc := s.score(z, p)
		m.AvgTicket += p.Price
		m.AvgMarginRate += p.Margin
		m.EstDailySales += p.Price * p.Velocity * 40 // nominal 40 facings/day
		m.ScoreSum += sc
		rankings = append(rankings, ranked{p, sc})
	}
	if len(placed) > 0 {
		m.AvgTicket /= float64(len(placed))
		m.AvgMarginRate /= float64(len(placed))
	}

	sort.Slice(rankings, func(i, j int) bool { return rankings[i].score > rankings[j].score })
	for i := 0; i < len(rankings) && i < 3; i++ {
		m.Top3 = append(m.Top3, retail.TopProduct{
			ID:    rankings[i].p.ID,
			Name:  rankings[i].p.Name,
			Score: rankings[i].score,
		})
	}
	return m
}

// Predict replaces the zone's layout with the highest scoring products.
func (s *Store) Predict(zoneID string) (retail.ZoneState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := s.zoneByID(zoneID)
	if !ok {
		return retail.ZoneState{}, fmt.Errorf("zone %q: %w", zoneID, ErrZoneNotFound)
	}

	ranked := make([]retail.Product, len(s.products))
	copy(ranked, s.products)
	sort.Slice(ranked, func(i, j int) bool {
		return s.score(z, ranked[i]) > s.score(z, ranked[j])
	})

	layout := make(retail.Layout, z.Capacity)
	for i := 0; i < z.Capacity && i < len(ranked); i++ {
		layout[i] = ranked[i].ID
	}
	s.layouts[zoneID] = layout
	return s.stateLocked(zoneID)
}

// Clear empties the zone's layout.
func (s *Store) Clear(zoneID string) (retail.ZoneState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, ok := s.zoneByID(zoneID)
	if !ok {
		return retail.ZoneState{}, fmt.Errorf("zone %q: %w", zoneID, ErrZoneNotFound)
	}
	s.layouts[zoneID] = make(retail.Layout, z.Capacity)
	return s.stateLocked(zoneID)
}

// Move applies a validated move request. A slot-origin move into an occupied
// slot swaps the two products; an inventory-origin place overwrites the
// occupant (it returns to the catalog, which the mock never depletes).
func (s *Store) Move(zoneID string, req retail.MoveRequest) (retail.ZoneState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.zoneByID(zoneID); !ok {
		return retail.ZoneState{}, fmt.Errorf("zone %q: %w", zoneID, ErrZoneNotFound)
	}
	if err := req.Validate(); err != nil {
		return retail.ZoneState{}, err
	}
	layout := s.layouts[zoneID]
	if req.ToSlot < 0 || req.ToSlot >= len(layout) {
		return retail.ZoneState{}, fmt.Errorf("to_slot %d out of range", req.ToSlot)
	}
	if _, ok := s.productByID(req.PID); !ok {
		return retail.ZoneState{}, fmt.Errorf("product %q not found", req.PID)
	}

	switch req.Origin {
	case retail.OriginSlot:
		from := *req.FromSlot
		if from < 0 || from >= len(layout) {
			return retail.ZoneState{}, fmt.Errorf("from_slot %d out of range", from)
		}
		if layout[from] != req.PID {
			return retail.ZoneState{}, fmt.Errorf("slot %d does not hold %q", from, req.PID)
		}
		layout[from], layout[req.ToSlot] = layout[req.ToSlot], layout[from]
	case retail.OriginInventory:
		// A product can only occupy one slot; placing it again moves it.
		for i, pid := range layout {
			if pid == req.PID {
				layout[i] = ""
			}
		}
		layout[req.ToSlot] = req.PID
	}

	return s.stateLocked(zoneID)
}

// Products returns the catalog filtered and sorted per the query. When a
// zone is given, each product carries its score for that zone and the
// default sort is by that score.
func (s *Store) Products(filter retail.ProductFilter) ([]retail.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zone retail.Zone
	var scoped bool
	if filter.ZoneID != "" {
		z, ok := s.zoneByID(filter.ZoneID)
		if !ok {
			return nil, fmt.Errorf("zone %q: %w", filter.ZoneID, ErrZoneNotFound)
		}
		zone, scoped = z, true
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []retail.Product
	for _, p := range s.products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if filter.Category != "" && p.Cat != filter.Category {
			continue
		}
		if scoped {
			sc := s.score(zone, p)
			p.Score = &sc
		}
		out = append(out, p)
	}

	key := filter.Sort
	if key == "" {
		key = retail.SortScore
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case retail.SortPriceAsc:
			return a.Price < b.Price
		case retail.SortPriceDesc:
			return a.Price > b.Price
		case retail.SortMarginDesc:
			return a.Margin > b.Margin
		case retail.SortVelocityDesc:
			return a.Velocity > b.Velocity
		default: // score
			if a.Score != nil && b.Score != nil {
				return *a.Score > *b.Score
			}
			return a.Velocity > b.Velocity
		}
	})
	return out, nil
}
