package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfcraft/internal/notify"
	"shelfcraft/internal/retail"
)

// fakeBackend implements Backend with canned data plus per-test overrides.
type fakeBackend struct {
	mu      sync.Mutex
	zones   []retail.Zone
	layouts map[string]retail.Layout
	metrics map[string]retail.Metrics

	predictFn func(zoneID string) (retail.ZoneState, error)
	clearFn   func(zoneID string) (retail.ZoneState, error)
	moveFn    func(zoneID string, req retail.MoveRequest) (retail.ZoneState, error)

	calls   map[string]int
	baseURL string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		zones: []retail.Zone{
			{ID: "A", Name: "Endcap A", Capacity: 2},
			{ID: "B", Name: "Aisle B", Capacity: 2},
		},
		layouts: map[string]retail.Layout{
			"A": {"P1", ""},
			"B": {"", "P2"},
		},
		metrics: map[string]retail.Metrics{
			"A": {FillRate: 0.5, ScoreSum: 10},
			"B": {FillRate: 0.5, ScoreSum: 20},
		},
		calls: map[string]int{},
	}
}

func (f *fakeBackend) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeBackend) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) Zones(context.Context) ([]retail.Zone, error) {
	f.count("zones")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zones, nil
}

func (f *fakeBackend) ZoneLayout(_ context.Context, zoneID string) (retail.Layout, error) {
	f.count("layout")
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.layouts[zoneID]
	if !ok {
		return nil, errors.New("no such zone")
	}
	return l, nil
}

func (f *fakeBackend) ZoneMetrics(_ context.Context, zoneID string) (retail.Metrics, error) {
	f.count("metrics")
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.metrics[zoneID]
	if !ok {
		return retail.Metrics{}, errors.New("no such zone")
	}
	return m, nil
}

func (f *fakeBackend) Products(context.Context, retail.ProductFilter) ([]retail.Product, error) {
	f.count("products")
	return nil, nil
}

func (f *fakeBackend) Predict(_ context.Context, zoneID string) (retail.ZoneState, error) {
	f.count("predict")
	if f.predictFn != nil {
		return f.predictFn(zoneID)
	}
	return retail.ZoneState{Layout: retail.Layout{"P1", "P2"}, Metrics: retail.Metrics{FillRate: 1, ScoreSum: 42}}, nil
}

func (f *fakeBackend) Clear(_ context.Context, zoneID string) (retail.ZoneState, error) {
	f.count("clear")
	if f.clearFn != nil {
		return f.clearFn(zoneID)
	}
	return retail.ZoneState{Layout: retail.Layout{"", ""}, Metrics: retail.Metrics{}}, nil
}

func (f *fakeBackend) Move(_ context.Context, zoneID string, req retail.MoveRequest) (retail.ZoneState, error) {
	f.count("move")
	if f.moveFn != nil {
		return f.moveFn(zoneID, req)
	}
	return retail.ZoneState{Layout: retail.Layout{"P1", "P2"}, Metrics: retail.Metrics{FillRate: 1}}, nil
}

func (f *fakeBackend) SetBaseURL(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.baseURL = raw
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []string
}

func (j *fakeJournal) Record(_ context.Context, action, zoneID string, _ retail.ZoneState) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, action+":"+zoneID)
	return nil
}

func newTestSession(t *testing.T, backend Backend, opts ...Option) *Session {
	t.Helper()
	s := New(backend, notify.NewNotifier(time.Minute), nil, 5*time.Millisecond, opts...)
	t.Cleanup(func() {
		s.Close()
		s.Notifier().Close()
	})
	return s
}

func TestInitAutoSelectsFirstZone(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)

	s.Init(context.Background())

	snap := s.State().Snapshot()
	assert.Equal(t, "A", snap.ZoneID, "first zone in server order is auto-selected")
	assert.Equal(t, retail.Layout{"P1", ""}, snap.Layout)
}

func TestReloadDoesNotRevertExplicitSelection(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)

	s.Init(context.Background())
	s.SelectZone(context.Background(), "B")
	require.Equal(t, "B", s.State().Zone())

	s.Reload(context.Background())
	assert.Equal(t, "B", s.State().Zone(), "catalog reload must not revert the user's selection")
}

func TestAutoSelectHappensExactlyOnce(t *testing.T) {
	backend := newFakeBackend()
	backend.mu.Lock()
	backend.zones = nil // empty catalog on first load
	backend.mu.Unlock()
	s := newTestSession(t, backend)

	s.Init(context.Background())
	assert.Empty(t, s.State().Zone())

	backend.mu.Lock()
	backend.zones = []retail.Zone{{ID: "A"}, {ID: "B"}}
	backend.mu.Unlock()
	s.Reload(context.Background())
	assert.Equal(t, "A", s.State().Zone())
}

func TestPredictAppliesPairAndNotifies(t *testing.T) {
	backend := newFakeBackend()
	journal := &fakeJournal{}
	s := newTestSession(t, backend, WithJournal(journal))
	s.Init(context.Background())
	before := s.State().Snapshot().Version

	s.Predict(context.Background())

	snap := s.State().Snapshot()
	assert.Equal(t, retail.Layout{"P1", "P2"}, snap.Layout)
	assert.Equal(t, 42.0, snap.Metrics.ScoreSum, "layout and metrics arrive as one pair")
	assert.Equal(t, before+1, snap.Version)

	notice, ok := s.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, notify.Info, notice.Kind)
	assert.Equal(t, "Predicted best placement.", notice.Text)

	journal.mu.Lock()
	defer journal.mu.Unlock()
	assert.Equal(t, []string{"predict:A"}, journal.entries)
}

func TestPredictFailureLeavesStateAndNotifiesOnce(t *testing.T) {
	backend := newFakeBackend()
	backend.predictFn = func(string) (retail.ZoneState, error) {
		return retail.ZoneState{}, errors.New("500 Internal Server Error: model offline")
	}
	s := newTestSession(t, backend)
	s.Init(context.Background())
	before := s.State().Snapshot()

	s.Predict(context.Background())

	after := s.State().Snapshot()
	assert.Equal(t, before.Layout, after.Layout, "failed predict must not touch the layout")
	assert.Equal(t, before.Metrics, after.Metrics)
	assert.Equal(t, before.Version, after.Version)

	notice, ok := s.Notifier().Current()
	require.True(t, ok)
	assert.Equal(t, notify.Error, notice.Kind)
	assert.Contains(t, notice.Text, "model offline", "notification carries the failure detail")
}

func TestPredictWithoutZoneIsNoOp(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)

	s.Predict(context.Background())
	assert.Zero(t, backend.callCount("predict"))
	_, ok := s.Notifier().Current()
	assert.False(t, ok)
}

func TestPredictGatedWhileOutstanding(t *testing.T) {
	backend := newFakeBackend()
	started := make(chan struct{})
	release := make(chan struct{})
	backend.predictFn = func(string) (retail.ZoneState, error) {
		close(started)
		<-release
		return retail.ZoneState{Layout: retail.Layout{"P1", "P2"}}, nil
	}
	s := newTestSession(t, backend)
	s.Init(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Predict(context.Background())
	}()
	<-started

	s.Predict(context.Background()) // gated: must not reach the backend
	close(release)
	<-done

	assert.Equal(t, 1, backend.callCount("predict"))
}

func TestClearEmptiesZone(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)
	s.Init(context.Background())

	s.Clear(context.Background())

	snap := s.State().Snapshot()
	assert.Equal(t, retail.Layout{"", ""}, snap.Layout)
	notice, _ := s.Notifier().Current()
	assert.Equal(t, "Zone cleared.", notice.Text)
}

func TestDropWithoutCarryMakesNoCallAndNoNotice(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)
	s.Init(context.Background())
	s.Notifier().Dismiss()

	s.Drop(context.Background(), 1)

	assert.Zero(t, backend.callCount("move"), "malformed or absent carry is a silent no-op")
	_, ok := s.Notifier().Current()
	assert.False(t, ok)
}

func TestDropFromInventoryBuildsRequest(t *testing.T) {
	backend := newFakeBackend()
	var got retail.MoveRequest
	backend.moveFn = func(_ string, req retail.MoveRequest) (retail.ZoneState, error) {
		got = req
		return retail.ZoneState{Layout: retail.Layout{"P9", ""}}, nil
	}
	s := newTestSession(t, backend)
	s.Init(context.Background())

	s.PickFromInventory("P9")
	s.Drop(context.Background(), 0)

	assert.Equal(t, retail.OriginInventory, got.Origin)
	assert.Equal(t, "P9", got.PID)
	assert.Equal(t, 0, got.ToSlot)
	assert.Nil(t, got.FromSlot)
	assert.Equal(t, retail.Layout{"P9", ""}, s.State().Snapshot().Layout)
}

func TestDropFromSlotBuildsRequest(t *testing.T) {
	backend := newFakeBackend()
	var got retail.MoveRequest
	backend.moveFn = func(_ string, req retail.MoveRequest) (retail.ZoneState, error) {
		got = req
		return retail.ZoneState{Layout: retail.Layout{"", "P1"}}, nil
	}
	s := newTestSession(t, backend)
	s.Init(context.Background())

	s.PickFromSlot("P1", 0)
	s.Drop(context.Background(), 1)

	assert.Equal(t, retail.OriginSlot, got.Origin)
	require.NotNil(t, got.FromSlot)
	assert.Equal(t, 0, *got.FromSlot)
	assert.Equal(t, 1, got.ToSlot)
}

func TestFailedMoveKeepsPreMoveLayout(t *testing.T) {
	backend := newFakeBackend()
	backend.moveFn = func(string, retail.MoveRequest) (retail.ZoneState, error) {
		return retail.ZoneState{}, errors.New("409 Conflict: slot occupied")
	}
	s := newTestSession(t, backend)
	s.Init(context.Background())
	before := s.State().Snapshot()

	s.PickFromInventory("P9")
	s.Drop(context.Background(), 1)

	after := s.State().Snapshot()
	assert.Equal(t, before.Layout, after.Layout, "the UI must not show a half-applied drag")
	notice, ok := s.Notifier().Current()
	require.True(t, ok)
	assert.Contains(t, notice.Text, "slot occupied")
}

func TestSetBaseURLReachesBackend(t *testing.T) {
	backend := newFakeBackend()
	s := newTestSession(t, backend)

	s.SetBaseURL("http://10.0.0.5:9000")

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, "http://10.0.0.5:9000", backend.baseURL)
}

func TestSelfCheck(t *testing.T) {
	status, ok := SelfCheck()
	assert.True(t, ok)
	assert.Equal(t, "Tests OK", status)
}
