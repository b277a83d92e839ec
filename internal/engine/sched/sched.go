// Package sched supplies the owner-context scheduling contract the session
// engine runs under.
//
// Every session is pinned to one owner execution context; all slot and view
// mutations must happen inside it. The engine consumes the Scheduler
// interface and never spawns its own goroutines for state mutation. Two
// implementations ship: Loop, a tick-driven production scheduler where one
// tick is one quantum, and Manual, a deterministic scheduler for tests and
// embedders that already own a tick loop.
package sched

import (
	"time"

	"github.com/Volubles/gridmenu/internal/shared/id"
)

// Task is a handle to a repeating scheduled job.
type Task interface {
	// Stop cancels the task. Safe to call more than once.
	Stop()
}

// Scheduler marshals work onto owner execution contexts.
type Scheduler interface {
	// Run marshals fn onto the owner's context. Work for one owner executes
	// strictly one job at a time, in submission order.
	Run(owner id.OwnerID, fn func())

	// After runs fn on the owner's context after n quanta have elapsed.
	// n <= 0 behaves like n == 1: the fn never runs inside the current
	// quantum.
	After(owner id.OwnerID, quanta int, fn func())

	// AtFixedRate runs fn on the owner's context repeatedly, approximately
	// every period, until the returned task is stopped.
	AtFixedRate(owner id.OwnerID, period time.Duration, fn func()) Task

	// Async runs fn off any owner context. Results must be marshaled back
	// via Run before touching session state.
	Async(fn func())
}
