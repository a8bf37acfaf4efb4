package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shelfcraft/internal/retail"
)

// Phase names the zone-state machine states: no zone selected, a fetch or
// mutation in flight, or a settled layout+metrics pair on display.
type Phase int

const (
	PhaseNoZone Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseNoZone:
		return "no-zone"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// Snapshot is the immutable view handed to the UI. Layout and Metrics always
// originate from one server response; Version counts applied pairs, so two
// reads with the same Version saw the same pair.
type Snapshot struct {
	Phase    Phase
	ZoneID   string        // selected zone
	PairZone string        // zone the Layout/Metrics pair belongs to
	Layout   retail.Layout
	Metrics  retail.Metrics
	Version  uint64
}

// ZoneState owns the layout+metrics pair of the selected zone. The pair is a
// single value and is only ever replaced whole, which makes "layout never
// drifts from its KPIs" structural rather than disciplined.
//
// Every write is keyed to an epoch captured when the work was issued; a zone
// switch bumps the epoch, so responses that raced a switch are discarded
// instead of overwriting the newly selected zone's state.
type ZoneState struct {
	mu      sync.Mutex
	backend StateFetcher
	logger  *zap.Logger

	epoch    uint64
	zoneID   string
	pairZone string
	layout   retail.Layout
	metrics  retail.Metrics
	version  uint64
	loading  bool
	lastErr  error
}

// NewZoneState builds the controller. logger may be nil.
func NewZoneState(backend StateFetcher, logger *zap.Logger) *ZoneState {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoneState{backend: backend, logger: logger}
}

// SetZone selects a zone and invalidates everything in flight for the
// previous one. The previous pair stays visible until the new zone's fetch
// settles (no flash-to-empty). Selecting the current zone is a no-op.
func (s *ZoneState) SetZone(zoneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoneID == s.zoneID {
		return
	}
	s.epoch++
	s.zoneID = zoneID
	s.lastErr = nil
	s.loading = zoneID != ""
}

// Zone returns the selected zone ID ("" when none).
func (s *ZoneState) Zone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoneID
}

// Reload fetches layout and metrics for the selected zone concurrently.
// Both legs must succeed before either value is applied; a partial success
// is not a state transition. A response that lost a race with SetZone is
// discarded silently. Blocking; run from a goroutine or command.
func (s *ZoneState) Reload(ctx context.Context) error {
	s.mu.Lock()
	zone, epoch := s.zoneID, s.epoch
	if zone == "" {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	var (
		layout  retail.Layout
		metrics retail.Metrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		layout, err = s.backend.ZoneLayout(gctx, zone)
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = s.backend.ZoneMetrics(gctx, zone)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// A zone switch superseded this fetch; the new epoch owns the
		// loading flag and the pair.
		s.logger.Debug("discarding stale zone fetch", zap.String("zone", zone))
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.logger.Warn("zone state fetch failed", zap.String("zone", zone), zap.Error(err))
		return err
	}
	s.applyLocked(zone, retail.ZoneState{Layout: layout, Metrics: metrics})
	return nil
}

// BeginAction gates mutating actions: it reserves the loading flag and
// returns an epoch token, or ok=false when a fetch or another action is
// already outstanding (or no zone is selected).
func (s *ZoneState) BeginAction() (token uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.zoneID == "" || s.loading {
		return 0, false
	}
	s.loading = true
	return s.epoch, true
}

// CompleteAction settles a mutating action begun with BeginAction. On
// success the server's layout+metrics echo is applied atomically; on failure
// the pre-action pair stays on display and the error is recorded. A
// completion whose token lost a race with a zone switch is dropped whole.
func (s *ZoneState) CompleteAction(token uint64, st retail.ZoneState, actionErr error) (applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.epoch {
		return false
	}
	s.loading = false
	if actionErr != nil {
		s.lastErr = actionErr
		return false
	}
	s.applyLocked(s.zoneID, st)
	return true
}

// UpdateState applies a server-confirmed pair for zoneID, bypassing a reload
// round-trip. Ignored when zoneID is no longer the selected zone.
func (s *ZoneState) UpdateState(zoneID string, st retail.ZoneState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if zoneID != s.zoneID || zoneID == "" {
		return false
	}
	s.applyLocked(zoneID, st)
	return true
}

func (s *ZoneState) applyLocked(zone string, st retail.ZoneState) {
	s.pairZone = zone
	s.layout = st.Layout
	s.metrics = st.Metrics
	s.version++
	s.lastErr = nil
	s.logger.Debug("zone state applied",
		zap.String("zone", zone),
		zap.Uint64("version", s.version),
		zap.Int("slots", len(st.Layout)))
}

// Snapshot returns the current view. The layout is cloned so the caller can
// hold it across updates.
func (s *ZoneState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := PhaseReady
	switch {
	case s.zoneID == "":
		phase = PhaseNoZone
	case s.loading:
		phase = PhaseLoading
	}
	return Snapshot{
		Phase:    phase,
		ZoneID:   s.zoneID,
		PairZone: s.pairZone,
		Layout:   s.layout.Clone(),
		Metrics:  s.metrics,
		Version:  s.version,
	}
}

// Loading reports whether a fetch or mutation is outstanding.
func (s *ZoneState) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded failure, if any.
func (s *ZoneState) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
