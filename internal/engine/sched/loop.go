package sched

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Volubles/gridmenu/internal/logging"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"go.uber.org/zap"
)

// DefaultQuantum is the tick period of the production loop.
const DefaultQuantum = 50 * time.Millisecond

// Loop is a tick-driven Scheduler. Each owner gets one goroutine draining a
// run queue; one tick is one quantum. Deferred jobs age by whole ticks, so a
// job deferred by one quantum can never run inside the tick that scheduled
// it.
type Loop struct {
	quantum time.Duration
	log     *logging.Logger

	mu     sync.Mutex
	owners map[id.OwnerID]*ownerLoop
	closed bool
}

// NewLoop creates a Loop ticking at the given quantum. A non-positive
// quantum falls back to DefaultQuantum.
func NewLoop(quantum time.Duration, log *logging.Logger) *Loop {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Loop{
		quantum: quantum,
		log:     log,
		owners:  make(map[id.OwnerID]*ownerLoop),
	}
}

// Run implements Scheduler.
func (l *Loop) Run(owner id.OwnerID, fn func()) {
	if ol := l.ownerLoop(owner); ol != nil {
		ol.enqueue(fn)
	}
}

// After implements Scheduler.
func (l *Loop) After(owner id.OwnerID, quanta int, fn func()) {
	if quanta < 1 {
		quanta = 1
	}
	if ol := l.ownerLoop(owner); ol != nil {
		ol.deferJob(quanta, fn)
	}
}

// AtFixedRate implements Scheduler.
func (l *Loop) AtFixedRate(owner id.OwnerID, period time.Duration, fn func()) Task {
	every := int(period / l.quantum)
	if every < 1 {
		every = 1
	}
	t := &loopTask{}
	ol := l.ownerLoop(owner)
	if ol == nil {
		t.Stop()
		return t
	}
	ol.repeat(every, fn, t)
	return t
}

// Async implements Scheduler.
func (l *Loop) Async(fn func()) {
	go func() {
		defer l.recoverJob("async")
		fn()
	}()
}

// Close stops every owner loop. Queued jobs are discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for _, ol := range l.owners {
		close(ol.quit)
	}
	l.owners = nil
}

func (l *Loop) ownerLoop(owner id.OwnerID) *ownerLoop {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	ol, ok := l.owners[owner]
	if !ok {
		ol = &ownerLoop{
			loop: l,
			quit: make(chan struct{}),
		}
		l.owners[owner] = ol
		go ol.run()
	}
	return ol
}

func (l *Loop) recoverJob(where string) {
	if r := recover(); r != nil {
		l.log.Error("scheduled job panicked",
			zap.String("where", where),
			zap.Any("panic", r),
		)
	}
}

type deferredJob struct {
	remaining int
	fn        func()
}

type repeatJob struct {
	every int
	since int
	fn    func()
	task  *loopTask
}

type ownerLoop struct {
	loop *Loop
	quit chan struct{}

	mu       sync.Mutex
	queue    []func()
	deferred []*deferredJob
	repeats  []*repeatJob
}

func (ol *ownerLoop) enqueue(fn func()) {
	ol.mu.Lock()
	ol.queue = append(ol.queue, fn)
	ol.mu.Unlock()
}

func (ol *ownerLoop) deferJob(quanta int, fn func()) {
	ol.mu.Lock()
	ol.deferred = append(ol.deferred, &deferredJob{remaining: quanta, fn: fn})
	ol.mu.Unlock()
}

func (ol *ownerLoop) repeat(every int, fn func(), t *loopTask) {
	ol.mu.Lock()
	ol.repeats = append(ol.repeats, &repeatJob{every: every, fn: fn, task: t})
	ol.mu.Unlock()
}

// run drains one batch per tick. Jobs submitted while a batch executes wait
// for the next tick, which is what gives After(1) its guarantee.
func (ol *ownerLoop) run() {
	ticker := time.NewTicker(ol.loop.quantum)
	defer ticker.Stop()

	for {
		select {
		case <-ol.quit:
			return
		case <-ticker.C:
			ol.tick()
		}
	}
}

func (ol *ownerLoop) tick() {
	ol.mu.Lock()
	batch := ol.queue
	ol.queue = nil

	var keep []*deferredJob
	for _, d := range ol.deferred {
		d.remaining--
		if d.remaining <= 0 {
			batch = append(batch, d.fn)
		} else {
			keep = append(keep, d)
		}
	}
	ol.deferred = keep

	var liveRepeats []*repeatJob
	for _, r := range ol.repeats {
		if r.task.stopped.Load() {
			continue
		}
		liveRepeats = append(liveRepeats, r)
		r.since++
		if r.since >= r.every {
			r.since = 0
			batch = append(batch, r.fn)
		}
	}
	ol.repeats = liveRepeats
	ol.mu.Unlock()

	for _, fn := range batch {
		ol.runOne(fn)
	}
}

func (ol *ownerLoop) runOne(fn func()) {
	defer ol.loop.recoverJob("owner-loop")
	fn()
}

type loopTask struct {
	stopped atomic.Bool
}

func (t *loopTask) Stop() {
	t.stopped.Store(true)
}
