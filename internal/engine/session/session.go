package session

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/Volubles/gridmenu/internal/engine/backstack"
	"github.com/Volubles/gridmenu/internal/engine/debounce"
	"github.com/Volubles/gridmenu/internal/engine/menu"
	"github.com/Volubles/gridmenu/internal/engine/sched"
	"github.com/Volubles/gridmenu/internal/logging"
	"github.com/Volubles/gridmenu/internal/monitoring"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
	"go.uber.org/zap"
)

var (
	// ErrNoView is returned when a slot operation runs without a live view.
	ErrNoView = errors.New("no live view")
	// ErrSlotRange is returned when a slot index is outside the view.
	ErrSlotRange = errors.New("slot index out of range")
)

// Config tunes one session. Zero values fall back to defaults.
type Config struct {
	// DebounceWindow is the minimum interval between accepted
	// interactions. Clamped to [0, 5s]; zero uses the engine default.
	DebounceWindow time.Duration
	// GraceQuanta is how long interaction handling stays suspended after a
	// view transition. Zero uses 1.
	GraceQuanta int
	// Clock overrides time.Now for the debounce gate. Tests inject fakes.
	Clock func() time.Time

	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// Session is the per-owner orchestrator. Create one via New (or through a
// Registry) and drive it only from the owner's execution context.
type Session struct {
	owner   id.OwnerID
	host    Host
	sched   sched.Scheduler
	log     *logging.Logger
	metrics *monitoring.Metrics

	graceQuanta int

	// token advances exactly once per open/close/reopen transition.
	// Atomic so stats readers off-context stay race-free; all writes
	// happen on the owner context.
	token    atomic.Uint64
	viewOpen atomic.Bool

	view        *View
	slots       map[int]menu.Item
	rendered    map[int]types.Stack
	gate        *debounce.Gate
	back        backstack.Stack
	disposition types.CursorDisposition

	inHandler    bool
	suspended    bool
	resyncQueued bool
	heartbeat    sched.Task
}

// New creates a session pinned to the given owner context.
func New(owner id.OwnerID, host Host, scheduler sched.Scheduler, cfg Config) *Session {
	window := cfg.DebounceWindow
	if window == 0 {
		window = debounce.DefaultWindow
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	grace := cfg.GraceQuanta
	if grace < 1 {
		grace = 1
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Session{
		owner:       owner,
		host:        host,
		sched:       scheduler,
		log:         log.Named("session").With(zap.String("owner", owner.String())),
		metrics:     cfg.Metrics,
		graceQuanta: grace,
		gate:        debounce.NewWithClock(window, clock),
	}
}

// Owner returns the owner this session is pinned to.
func (s *Session) Owner() id.OwnerID { return s.owner }

// Token returns the current view token. Safe off-context.
func (s *Session) Token() uint64 { return s.token.Load() }

// ViewOpen reports whether a view is live. Safe off-context.
func (s *Session) ViewOpen() bool { return s.viewOpen.Load() }

// CurrentView returns the live view, or nil. Owner context only.
func (s *Session) CurrentView() *View { return s.view }

// Open replaces the live view with one described by desc. Called from
// inside interaction dispatch it is deferred by one quantum; mutating the
// grid mid-dispatch desynchronizes client and server.
func (s *Session) Open(desc menu.Descriptor) {
	if s.inHandler {
		s.sched.After(s.owner, 1, func() { s.openNow(desc) })
		return
	}
	s.openNow(desc)
}

// Close dismisses the live view, with the same reentrancy deferral as
// Open. No-op without a view.
func (s *Session) Close() {
	if s.inHandler {
		s.sched.After(s.owner, 1, s.closeNow)
		return
	}
	s.closeNow()
}

func (s *Session) openNow(desc menu.Descriptor) {
	tok := s.token.Add(1)
	s.stopHeartbeatLocked()
	s.suspended = true

	// Sweep the outgoing view before its slots vanish.
	if s.view != nil {
		s.sweepReturnOnClose()
		old := s.view.Handle
		s.view = nil
		s.host.CloseView(s.owner, old)
	}

	s.slots = make(map[int]menu.Item)
	s.rendered = make(map[int]types.Stack)

	handle, err := s.host.OpenView(s.owner, desc.Title, desc.Size)
	if err != nil {
		s.viewOpen.Store(false)
		s.suspended = false
		s.log.Error("view open failed",
			zap.String("title", desc.Title),
			zap.Int("size", desc.Size),
			zap.Error(err),
		)
		return
	}

	s.view = &View{Handle: handle, Title: desc.Title, Size: desc.Size, Token: tok}
	s.disposition = desc.Disposition
	s.viewOpen.Store(true)
	s.metrics.IncViews()

	if desc.OnOpen != nil {
		s.runHook("on-open", func() { desc.OnOpen(s.actions(nil)) })
	}

	// Re-arm after a grace delay so an interaction already in flight for
	// the prior view is rejected rather than misrouted.
	s.sched.After(s.owner, s.graceQuanta, func() {
		if s.token.Load() != tok {
			s.log.Debug("stale re-arm dropped", zap.Uint64("token", tok))
			return
		}
		s.suspended = false
	})

	if desc.Refresh > 0 {
		s.StartRefreshHeartbeat(desc.Refresh)
	}

	s.log.Debug("view opened",
		zap.String("title", desc.Title),
		zap.Int("size", desc.Size),
		zap.Uint64("token", tok),
	)
}

func (s *Session) closeNow() {
	if s.view == nil {
		return
	}
	tok := s.token.Add(1)
	s.stopHeartbeatLocked()
	s.suspended = false

	s.sweepReturnOnClose()
	s.applyDisposition()

	handle := s.view.Handle
	s.view = nil
	s.slots = nil
	s.rendered = nil
	s.viewOpen.Store(false)
	s.host.CloseView(s.owner, handle)

	s.log.Debug("view closed", zap.Uint64("token", tok))
}

// HandleClose is invoked by the host when the owner dismisses the view.
// No-op when the dismissal is part of a reopen or when the session is
// already mid-transition.
func (s *Session) HandleClose(willReopen bool) {
	if willReopen || s.view == nil {
		return
	}
	tok := s.token.Add(1)
	s.stopHeartbeatLocked()
	s.suspended = false

	s.sweepReturnOnClose()
	s.applyDisposition()

	s.view = nil
	s.slots = nil
	s.rendered = nil
	s.viewOpen.Store(false)

	s.log.Debug("view dismissed by host", zap.Uint64("token", tok))
}

// Shutdown tears the session down on owner departure: the live view is
// closed with full disposal semantics.
func (s *Session) Shutdown() {
	s.closeNow()
	s.back.Clear()
}

// SetItem binds item to slot, re-rendering only if the computed visual
// differs from what is displayed.
func (s *Session) SetItem(slot int, item menu.Item) error {
	if s.view == nil {
		return ErrNoView
	}
	if slot < 0 || slot >= s.view.Size {
		return fmt.Errorf("%w: %d (size %d)", ErrSlotRange, slot, s.view.Size)
	}
	if item == nil {
		s.ClearItem(slot)
		return nil
	}
	s.slots[slot] = item
	s.renderSlot(slot)
	return nil
}

// ClearItem unbinds and blanks a slot.
func (s *Session) ClearItem(slot int) {
	if s.view == nil || slot < 0 || slot >= s.view.Size {
		return
	}
	delete(s.slots, slot)
	if !s.rendered[slot].IsEmpty() {
		s.host.SetSlot(s.view.Handle, slot, types.Empty)
		s.rendered[slot] = types.Empty
	}
}

// PushBack records a reopen callback for Back navigation.
func (s *Session) PushBack(reopen func()) {
	s.back.Push(reopen)
}

// GoBack pops and runs the most recent reopen callback. No-op on an empty
// stack.
func (s *Session) GoBack() {
	if reopen, ok := s.back.Pop(); ok {
		reopen()
	}
}

// BackDepth reports the back-stack depth.
func (s *Session) BackDepth() int { return s.back.Len() }

// StartRefreshHeartbeat begins periodic re-rendering of every bound slot.
// The scheduled work is token-gated; after the next transition a stale
// heartbeat cancels itself.
func (s *Session) StartRefreshHeartbeat(period time.Duration) {
	s.stopHeartbeatLocked()
	tok := s.token.Load()

	var task sched.Task
	task = s.sched.AtFixedRate(s.owner, period, func() {
		if s.token.Load() != tok {
			if task != nil {
				task.Stop()
			}
			return
		}
		s.renderAll()
	})
	s.heartbeat = task
}

// StopRefreshHeartbeat cancels the heartbeat if one is running.
func (s *Session) StopRefreshHeartbeat() {
	s.stopHeartbeatLocked()
}

func (s *Session) stopHeartbeatLocked() {
	if s.heartbeat != nil {
		s.heartbeat.Stop()
		s.heartbeat = nil
	}
}

// renderSlot recomputes one slot's visual and pushes it only on change.
func (s *Session) renderSlot(slot int) {
	if s.view == nil {
		return
	}
	item, ok := s.slots[slot]
	if !ok {
		return
	}
	visual := s.renderItem(slot, item)
	if visual.Equal(s.rendered[slot]) {
		return
	}
	s.host.SetSlot(s.view.Handle, slot, visual)
	s.rendered[slot] = visual
}

func (s *Session) renderAll() {
	for _, slot := range s.boundSlots() {
		s.renderSlot(slot)
	}
}

// renderItem guards against panicking render callbacks; a faulting item
// renders blank.
func (s *Session) renderItem(slot int, item menu.Item) (visual types.Stack) {
	defer func() {
		if r := recover(); r != nil {
			visual = types.Empty
			s.metrics.IncFaults()
			s.log.Warn("render fault",
				zap.Int("slot", slot),
				zap.Any("panic", r),
			)
		}
	}()
	return item.Render(s.owner)
}

// boundSlots returns bound slot indices in ascending order; placement
// eligibility scans depend on it.
func (s *Session) boundSlots() []int {
	out := make([]int, 0, len(s.slots))
	for slot := range s.slots {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

// sweepReturnOnClose collects the displayed value of every placement-capable
// slot with return-on-close enabled and returns it to the owner exactly
// once. Values in slots without the flag are discarded; the capability's
// own bookkeeping is authoritative for those.
func (s *Session) sweepReturnOnClose() {
	if s.view == nil {
		return
	}
	for _, slot := range s.boundSlots() {
		placer, ok := s.slots[slot].(menu.Placer)
		if !ok || !placer.ReturnOnClose() {
			continue
		}
		content := s.host.Slot(s.view.Handle, slot)
		if content.IsEmpty() {
			continue
		}
		s.host.SetSlot(s.view.Handle, slot, types.Empty)
		s.returnToOwner(content)
	}
}

// returnToOwner places a stack into the first free personal-grid slot,
// falling back to an environment disown when the grid is full.
func (s *Session) returnToOwner(stack types.Stack) {
	size := s.host.PersonalSize(s.owner)
	for slot := 0; slot < size; slot++ {
		if s.host.Personal(s.owner, slot).IsEmpty() {
			s.host.SetPersonal(s.owner, slot, stack)
			return
		}
	}
	s.host.Disown(s.owner, stack)
}

// applyDisposition disposes of the floating carried value per the view's
// policy. Evaluated once per close.
func (s *Session) applyDisposition() {
	cursor := s.host.Cursor(s.owner)
	if cursor.IsEmpty() {
		return
	}
	s.host.SetCursor(s.owner, types.Empty)

	switch s.disposition {
	case types.DispositionReturn:
		s.returnToOwner(cursor)
	case types.DispositionDrop:
		s.host.Disown(s.owner, cursor)
	case types.DispositionVoid:
		// Discarded.
	}
}

// runHook executes an application callback with a panic guard.
func (s *Session) runHook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.IncFaults()
			s.log.Error("hook fault",
				zap.String("hook", name),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}
