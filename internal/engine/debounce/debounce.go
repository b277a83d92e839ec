// Package debounce gates interactions behind a minimum interval.
package debounce

import "time"

const (
	// DefaultWindow is the minimum interval between accepted interactions.
	DefaultWindow = 150 * time.Millisecond
	// MaxWindow caps configured windows.
	MaxWindow = 5 * time.Second
)

// Gate accepts at most one event per window. The comparison is
// boundary-inclusive: an event exactly window after the last accepted one
// is accepted. Not safe for concurrent use; a gate lives inside one
// session's owner context.
type Gate struct {
	window time.Duration
	last   time.Time
	clock  func() time.Time
}

// New creates a gate with the given window, clamped to [0, MaxWindow].
// A negative window becomes 0 (every event accepted).
func New(window time.Duration) *Gate {
	return NewWithClock(window, time.Now)
}

// NewWithClock creates a gate reading time from clock. Tests inject a fake.
func NewWithClock(window time.Duration, clock func() time.Time) *Gate {
	if window < 0 {
		window = 0
	}
	if window > MaxWindow {
		window = MaxWindow
	}
	return &Gate{window: window, clock: clock}
}

// Allow reports whether an event arriving now clears the gate, and records
// it as the last accepted event if so.
func (g *Gate) Allow() bool {
	now := g.clock()
	if !g.last.IsZero() && now.Sub(g.last) < g.window {
		return false
	}
	g.last = now
	return true
}

// Reset forgets the last accepted event.
func (g *Gate) Reset() {
	g.last = time.Time{}
}

// Window returns the effective window after clamping.
func (g *Gate) Window() time.Duration {
	return g.window
}
