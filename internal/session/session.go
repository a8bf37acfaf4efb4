// Package session is the composition root of the placement editor: it wires
// user intents (predict, clear, pick-and-place moves, zone and filter
// changes) to the data controllers, applies server-confirmed responses
// atomically, and surfaces success or failure through the notification
// channel. Errors are transient notices here, never persisted state; a
// failed action always leaves the previously displayed layout and metrics
// untouched.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shelfcraft/internal/controller"
	"shelfcraft/internal/dragdrop"
	"shelfcraft/internal/notify"
	"shelfcraft/internal/retail"
)

// Backend is the full remote surface the session needs. *api.Client
// satisfies it.
type Backend interface {
	Zones(ctx context.Context) ([]retail.Zone, error)
	ZoneLayout(ctx context.Context, zoneID string) (retail.Layout, error)
	ZoneMetrics(ctx context.Context, zoneID string) (retail.Metrics, error)
	Products(ctx context.Context, filter retail.ProductFilter) ([]retail.Product, error)
	Predict(ctx context.Context, zoneID string) (retail.ZoneState, error)
	Clear(ctx context.Context, zoneID string) (retail.ZoneState, error)
	Move(ctx context.Context, zoneID string, req retail.MoveRequest) (retail.ZoneState, error)
	SetBaseURL(raw string)
}

// Recorder receives applied mutations for the action journal. Recording is
// best-effort; a journal failure never disturbs session state.
type Recorder interface {
	Record(ctx context.Context, action, zoneID string, st retail.ZoneState) error
}

// Session owns the controllers and the interaction state machine.
type Session struct {
	backend  Backend
	logger   *zap.Logger
	notifier *notify.Notifier
	journal  Recorder

	zones    *controller.Zones
	state    *controller.ZoneState
	products *controller.Products
	drag     *dragdrop.Coordinator

	mu           sync.Mutex
	autoSelected bool
}

// Option tweaks session construction.
type Option func(*Session)

// WithJournal attaches an action journal.
func WithJournal(r Recorder) Option {
	return func(s *Session) { s.journal = r }
}

// New builds a session. notifier is required; logger may be nil;
// searchDebounce <= 0 uses the controller default.
func New(backend Backend, notifier *notify.Notifier, logger *zap.Logger, searchDebounce time.Duration, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		backend:  backend,
		logger:   logger,
		notifier: notifier,
		zones:    controller.NewZones(backend, logger.Named("zones")),
		state:    controller.NewZoneState(backend, logger.Named("zonestate")),
		products: controller.NewProducts(backend, logger.Named("products"), searchDebounce),
		drag:     dragdrop.NewCoordinator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Component accessors. Read-only for callers; all mutation goes through the
// session's action methods.

func (s *Session) Zones() *controller.Zones       { return s.zones }
func (s *Session) State() *controller.ZoneState   { return s.state }
func (s *Session) Products() *controller.Products { return s.products }
func (s *Session) Drag() *dragdrop.Coordinator    { return s.drag }
func (s *Session) Notifier() *notify.Notifier     { return s.notifier }

// Init performs the mount sequence: load the zone catalog, auto-select the
// first zone when none is selected yet, and load its state and products.
func (s *Session) Init(ctx context.Context) {
	if err := s.zones.Load(ctx); err != nil {
		s.notifier.Error(err.Error())
		return
	}
	s.maybeAutoSelect(ctx)
}

// Reload refreshes the zone catalog and, when a zone is selected, its
// layout+metrics pair.
func (s *Session) Reload(ctx context.Context) {
	if err := s.zones.Load(ctx); err != nil {
		s.notifier.Error(err.Error())
		return
	}
	s.maybeAutoSelect(ctx)
	if s.state.Zone() != "" {
		if err := s.state.Reload(ctx); err != nil {
			s.notifier.Error(err.Error())
		}
	}
}

// maybeAutoSelect picks the first zone in server order, exactly once, and
// only while nothing is selected. It never overrides an explicit selection.
func (s *Session) maybeAutoSelect(ctx context.Context) {
	s.mu.Lock()
	if s.autoSelected || s.state.Zone() != "" {
		s.mu.Unlock()
		return
	}
	list := s.zones.List()
	if len(list) == 0 {
		s.mu.Unlock()
		return
	}
	s.autoSelected = true
	s.mu.Unlock()

	s.logger.Debug("auto-selecting first zone", zap.String("zone", list[0].ID))
	s.SelectZone(ctx, list[0].ID)
}

// SelectZone switches the active zone, refetches its layout+metrics pair and
// reissues the product query under the new zone. Blocking; callers run it
// from a command.
func (s *Session) SelectZone(ctx context.Context, zoneID string) {
	s.state.SetZone(zoneID)

	filter := s.products.Filter()
	filter.ZoneID = zoneID
	if filter.Sort == "" {
		filter.Sort = retail.SortScore
	}
	s.products.SetFilter(ctx, filter)

	if zoneID == "" {
		return
	}
	if err := s.state.Reload(ctx); err != nil {
		s.notifier.Error(err.Error())
	}
}

// SetQuery updates the free-text product filter (debounced downstream).
func (s *Session) SetQuery(ctx context.Context, q string) {
	filter := s.products.Filter()
	filter.Query = q
	s.products.SetFilter(ctx, filter)
}

// SetCategory updates the category filter.
func (s *Session) SetCategory(ctx context.Context, cat string) {
	filter := s.products.Filter()
	filter.Category = cat
	s.products.SetFilter(ctx, filter)
}

// SetSort updates the sort key. Unknown keys are ignored.
func (s *Session) SetSort(ctx context.Context, key retail.SortKey) {
	if !key.Valid() {
		return
	}
	filter := s.products.Filter()
	filter.Sort = key
	s.products.SetFilter(ctx, filter)
}

// SetBaseURL rewires the remote address for all subsequent calls.
func (s *Session) SetBaseURL(raw string) {
	s.backend.SetBaseURL(raw)
	s.logger.Info("base address changed", zap.String("url", raw))
}

// Predict asks the service for an AI placement of the active zone and
// applies the echoed layout+metrics pair atomically.
func (s *Session) Predict(ctx context.Context) {
	s.runAction(ctx, "predict", "Predicted best placement.", s.backend.Predict)
}

// Clear empties the active zone.
func (s *Session) Clear(ctx context.Context) {
	s.runAction(ctx, "clear", "Zone cleared.", s.backend.Clear)
}

// runAction executes one gated mutating round-trip against the active zone.
func (s *Session) runAction(ctx context.Context, name, successText string, call func(context.Context, string) (retail.ZoneState, error)) {
	zone := s.state.Zone()
	if zone == "" {
		return
	}
	token, ok := s.state.BeginAction()
	if !ok {
		s.logger.Debug("action gated, one already outstanding", zap.String("action", name))
		return
	}

	st, err := call(ctx, zone)
	applied := s.state.CompleteAction(token, st, err)
	if err != nil {
		s.notifier.Error(err.Error())
		return
	}
	if applied {
		s.notifier.Info(successText)
		s.record(ctx, name, zone, st)
	}
}

// PickFromInventory starts carrying a catalog product.
func (s *Session) PickFromInventory(pid string) {
	s.drag.BeginFromInventory(pid)
}

// PickFromSlot starts carrying the product occupying fromSlot.
func (s *Session) PickFromSlot(pid string, fromSlot int) {
	s.drag.BeginFromSlot(pid, fromSlot)
}

// Drop completes the current carry at toSlot and submits the move. A drop
// with no valid carry is a silent no-op: no request, no notification. On
// failure the pre-move layout stays on display and one error notice is
// emitted.
func (s *Session) Drop(ctx context.Context, toSlot int) {
	req, ok := s.drag.Drop(toSlot)
	if !ok {
		return
	}
	zone := s.state.Zone()
	if zone == "" {
		return
	}
	token, gated := s.state.BeginAction()
	if !gated {
		s.logger.Debug("move gated, action already outstanding")
		return
	}

	st, err := s.backend.Move(ctx, zone, req)
	applied := s.state.CompleteAction(token, st, err)
	if err != nil {
		s.notifier.Error(err.Error())
		return
	}
	if applied {
		s.record(ctx, "move", zone, st)
	}
}

// CancelCarry abandons the current carry without a request.
func (s *Session) CancelCarry() { s.drag.Cancel() }

// ActiveZone returns the selected zone from the catalog, if known.
func (s *Session) ActiveZone() (retail.Zone, bool) {
	return s.zones.Get(s.state.Zone())
}

// Close releases controller resources (pending debounce timers).
func (s *Session) Close() {
	s.products.Close()
}

func (s *Session) record(ctx context.Context, action, zone string, st retail.ZoneState) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, action, zone, st); err != nil {
		s.logger.Warn("journal write failed", zap.String("action", action), zap.Error(err))
	}
}
