// Package cooldown tracks per-owner named cooldowns.
//
// Where the debounce gate rejects accidental double-clicks over a fixed
// window, cooldowns are deliberate per-action throttles an item handler
// opts into: "this button works once per ten seconds". Expired entries
// linger until Sweep runs; Remaining and Try treat them as absent either
// way.
package cooldown

import (
	"sync"
	"time"

	"github.com/Volubles/gridmenu/internal/shared/id"
)

type key struct {
	owner id.OwnerID
	name  string
}

// Tracker records cooldown expiries keyed by owner and action name.
type Tracker struct {
	mu      sync.Mutex
	clock   func() time.Time
	expires map[key]time.Time
}

// New creates a tracker on the wall clock.
func New() *Tracker {
	return NewWithClock(time.Now)
}

// NewWithClock creates a tracker with an injected clock.
func NewWithClock(clock func() time.Time) *Tracker {
	return &Tracker{
		clock:   clock,
		expires: make(map[key]time.Time),
	}
}

// Try starts the named cooldown if it is not already running. It
// returns true when the action may proceed. Non-positive durations
// always proceed and record nothing.
func (t *Tracker) Try(owner id.OwnerID, name string, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	k := key{owner: owner, name: name}
	if expiry, ok := t.expires[k]; ok && now.Before(expiry) {
		return false
	}
	t.expires[k] = now.Add(d)
	return true
}

// Remaining reports how long until the named cooldown expires, zero if
// it is not running.
func (t *Tracker) Remaining(owner id.OwnerID, name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	expiry, ok := t.expires[key{owner: owner, name: name}]
	if !ok {
		return 0
	}
	left := expiry.Sub(t.clock())
	if left < 0 {
		return 0
	}
	return left
}

// Clear cancels one named cooldown.
func (t *Tracker) Clear(owner id.OwnerID, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.expires, key{owner: owner, name: name})
}

// ClearOwner cancels every cooldown belonging to the owner, typically
// on departure.
func (t *Tracker) ClearOwner(owner id.OwnerID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.expires {
		if k.owner == owner {
			delete(t.expires, k)
		}
	}
}

// Sweep drops expired entries and returns how many were removed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock()
	removed := 0
	for k, expiry := range t.expires {
		if !now.Before(expiry) {
			delete(t.expires, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked entries, expired or not.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.expires)
}
