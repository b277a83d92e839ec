package sched

import (
	"time"

	"github.com/Volubles/gridmenu/internal/shared/id"
)

// Manual is a deterministic single-context Scheduler for tests and for
// embedders that drive their own tick loop. Run executes inline; deferred
// and fixed-rate work advances only when Advance is called. Not safe for
// concurrent use.
type Manual struct {
	deferred []*deferredJob
	repeats  []*manualRepeat
	async    []func()
}

type manualRepeat struct {
	every int
	since int
	fn    func()
	task  *loopTask
}

// NewManual creates a Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Run executes fn inline. The caller is the owner context.
func (m *Manual) Run(_ id.OwnerID, fn func()) {
	fn()
}

// After defers fn by n quanta (n < 1 is treated as 1).
func (m *Manual) After(_ id.OwnerID, quanta int, fn func()) {
	if quanta < 1 {
		quanta = 1
	}
	m.deferred = append(m.deferred, &deferredJob{remaining: quanta, fn: fn})
}

// AtFixedRate registers fn to run once per Advance step per full period.
// Manual maps one quantum to one step regardless of period; tests control
// time by counting steps.
func (m *Manual) AtFixedRate(_ id.OwnerID, period time.Duration, fn func()) Task {
	_ = period
	t := &loopTask{}
	m.repeats = append(m.repeats, &manualRepeat{every: 1, fn: fn, task: t})
	return t
}

// Async records fn without running it; DrainAsync runs everything recorded.
// Keeping async work explicit keeps tests single-goroutine.
func (m *Manual) Async(fn func()) {
	m.async = append(m.async, fn)
}

// Advance steps n quanta, running every deferred job whose delay has
// elapsed and every due fixed-rate job.
func (m *Manual) Advance(n int) {
	for step := 0; step < n; step++ {
		var batch []func()

		var keep []*deferredJob
		for _, d := range m.deferred {
			d.remaining--
			if d.remaining <= 0 {
				batch = append(batch, d.fn)
			} else {
				keep = append(keep, d)
			}
		}
		m.deferred = keep

		var live []*manualRepeat
		for _, r := range m.repeats {
			if r.task.stopped.Load() {
				continue
			}
			live = append(live, r)
			r.since++
			if r.since >= r.every {
				r.since = 0
				batch = append(batch, r.fn)
			}
		}
		m.repeats = live

		for _, fn := range batch {
			fn()
		}
	}
}

// DrainAsync runs all recorded async work inline.
func (m *Manual) DrainAsync() {
	pending := m.async
	m.async = nil
	for _, fn := range pending {
		fn()
	}
}

// Pending reports how many deferred jobs are waiting.
func (m *Manual) Pending() int {
	return len(m.deferred)
}

var _ Scheduler = (*Manual)(nil)
var _ Scheduler = (*Loop)(nil)
