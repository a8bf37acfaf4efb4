// Package notify implements the transient status channel: short-lived,
// dismissible messages surfaced to the user. Info notices expire on their
// own; error notices stay until dismissed or replaced, so a failure is never
// missed between UI refreshes.
package notify

import (
	"sync"
	"time"
)

// DefaultInfoTTL matches the auto-dismiss delay of the original toast line.
const DefaultInfoTTL = 2200 * time.Millisecond

// Kind classifies a notice.
type Kind int

const (
	Info Kind = iota
	Error
)

// Notice is one status message.
type Notice struct {
	Text string
	Kind Kind
	At   time.Time
}

// Notifier holds at most one current notice. It is safe for concurrent use;
// the UI observes changes through Events and reads the value with Current.
type Notifier struct {
	mu      sync.Mutex
	current Notice
	active  bool
	seq     uint64
	ttl     time.Duration
	timer   *time.Timer
	events  chan struct{}
}

// NewNotifier creates a notifier whose info notices expire after ttl.
// A non-positive ttl falls back to DefaultInfoTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultInfoTTL
	}
	return &Notifier{
		ttl:    ttl,
		events: make(chan struct{}, 1),
	}
}

// Events signals (coalesced) whenever the current notice changes.
func (n *Notifier) Events() <-chan struct{} { return n.events }

// Infof is absent on purpose: callers format their own text so the notifier
// stays a dumb channel.

// Info publishes an informational notice that auto-dismisses after the TTL.
func (n *Notifier) Info(text string) { n.publish(text, Info) }

// Error publishes a sticky error notice. It survives until dismissed or
// replaced; remote failures must never disappear unseen.
func (n *Notifier) Error(text string) { n.publish(text, Error) }

func (n *Notifier) publish(text string, kind Kind) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	seq := n.seq
	n.current = Notice{Text: text, Kind: kind, At: time.Now()}
	n.active = true
	if kind != Error {
		n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
	}
	n.mu.Unlock()
	n.signal()
}

// expire clears the notice only if it is still the one the timer was armed
// for; a newer notice must not be wiped by a stale timer.
func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if n.seq != seq || !n.active {
		n.mu.Unlock()
		return
	}
	n.active = false
	n.mu.Unlock()
	n.signal()
}

// Dismiss clears the current notice, if any.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	changed := n.active
	n.active = false
	n.mu.Unlock()
	if changed {
		n.signal()
	}
}

// Current returns the visible notice and whether one is active.
func (n *Notifier) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.active
}

// Close stops any pending expiry timer.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) signal() {
	select {
	case n.events <- struct{}{}:
	default:
	}
}
