// Package placement validates and sizes insertion of foreign values into
// capability-bound slots.
//
// Selection is an ascending-index scan; the accepted quantity is computed
// before any mutation and is a hard ceiling no path may exceed. Mutations
// themselves are staged through a Txn so a failing insert restores the
// exact pre-event state.
package placement

import (
	"github.com/Volubles/gridmenu/internal/engine/menu"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// Candidate pairs a slot index with its placement-capable item.
type Candidate struct {
	Slot   int
	Placer menu.Placer
}

// Quantity returns how much of s the placer will take in one placement:
// min(declared limit, available count), never negative. Zero means the
// placement is rejected.
func Quantity(p menu.Placer, s types.Stack) int {
	if s.IsEmpty() || !p.CanAccept(s) {
		return 0
	}
	limit := p.AcceptLimit(s)
	if limit <= 0 {
		return 0
	}
	if limit > s.Count {
		limit = s.Count
	}
	return limit
}

// Select returns the lowest-indexed candidate that accepts s together with
// the quantity it will take. Candidates must be sorted ascending by slot;
// the session's slot table iteration guarantees that.
func Select(s types.Stack, candidates []Candidate) (Candidate, int, bool) {
	for _, c := range candidates {
		if q := Quantity(c.Placer, s); q > 0 {
			return c, q, true
		}
	}
	return Candidate{}, 0, false
}

// Txn stages restore closures for provisional mutations. On failure,
// Rollback runs them in reverse order, restoring the pre-event snapshot.
// The zero value is ready to use.
type Txn struct {
	restores []func()
}

// Stage records fn as the undo for a mutation about to be applied.
func (t *Txn) Stage(fn func()) {
	t.restores = append(t.restores, fn)
}

// Rollback undoes every staged mutation, most recent first.
func (t *Txn) Rollback() {
	for i := len(t.restores) - 1; i >= 0; i-- {
		t.restores[i]()
	}
	t.restores = nil
}

// Commit discards the staged undo log.
func (t *Txn) Commit() {
	t.restores = nil
}
