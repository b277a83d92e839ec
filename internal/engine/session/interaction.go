package session

import (
	"fmt"

	"github.com/Volubles/gridmenu/internal/engine/menu"
	"github.com/Volubles/gridmenu/internal/engine/placement"
	"github.com/Volubles/gridmenu/internal/monitoring"
	"github.com/Volubles/gridmenu/internal/shared/types"
	"go.uber.org/zap"
)

// HandleInteraction routes one user action and returns whether the host's
// default behavior must be suppressed. Owner context only.
//
// The gate order is: no view, reentrancy, grace suspension, debounce.
// Everything past the gates runs under the non-reentrant lock, which is
// released unconditionally.
func (s *Session) HandleInteraction(ev types.Interaction) bool {
	if s.view == nil {
		// Not ours; let the host do whatever it does.
		return false
	}
	if s.inHandler {
		s.metrics.ObserveInteraction(monitoring.OutcomeBusy)
		return true
	}
	if s.suspended {
		s.metrics.ObserveInteraction(monitoring.OutcomeSuspended)
		return true
	}
	if !s.gate.Allow() {
		s.metrics.ObserveInteraction(monitoring.OutcomeDebounced)
		return true
	}

	s.inHandler = true
	defer func() { s.inHandler = false }()

	s.metrics.ObserveInteraction(monitoring.OutcomeAccepted)
	return s.route(ev)
}

func (s *Session) route(ev types.Interaction) bool {
	if ev.Kind == types.KindDrag {
		// Drag gestures spilling into the managed grid are cancelled
		// wholesale; per-slot drag placement is not supported.
		return ev.Grid == types.GridManaged && len(ev.DragSlots) > 0
	}

	if ev.Grid == types.GridPersonal {
		if ev.Kind.IsShift() {
			return s.quickMoveFromPersonal(ev.Slot)
		}
		// Plain personal-grid clicks are none of the engine's business.
		return false
	}

	item, bound := s.slots[ev.Slot]
	if !bound {
		// Unbound managed slot: suppress so host default behavior cannot
		// desync engine state.
		return true
	}

	if placer, ok := item.(menu.Placer); ok {
		if done := s.tryPlacement(placer, ev); done {
			return true
		}
	}

	return s.dispatch(item, ev)
}

// quickMoveFromPersonal redirects a shift-move out of the personal grid to
// the lowest-indexed eligible placement slot. When nothing accepts, the
// interaction proceeds unmodified.
func (s *Session) quickMoveFromPersonal(personalSlot int) bool {
	source := s.host.Personal(s.owner, personalSlot)
	if source.IsEmpty() {
		return false
	}

	var candidates []placement.Candidate
	for _, slot := range s.boundSlots() {
		if placer, ok := s.slots[slot].(menu.Placer); ok && placer.AllowQuickMove() {
			candidates = append(candidates, placement.Candidate{Slot: slot, Placer: placer})
		}
	}

	cand, quantity, ok := placement.Select(source, candidates)
	if !ok {
		return false
	}
	s.placeFromPersonal(cand.Placer, cand.Slot, personalSlot, quantity)
	return true
}

// tryPlacement resolves which placement path, if any, applies to ev.
// Returns true when the event was consumed by a placement attempt.
func (s *Session) tryPlacement(placer menu.Placer, ev types.Interaction) bool {
	switch {
	case (ev.Kind == types.KindPrimary || ev.Kind == types.KindSecondary) && !ev.Cursor.IsEmpty():
		cursor := s.host.Cursor(s.owner)
		quantity := placement.Quantity(placer, cursor)
		if quantity == 0 {
			return false
		}
		s.placeFromCursor(placer, ev.Slot, quantity)
		return true

	case ev.Kind == types.KindQuickKey && placer.AllowQuickKey():
		source := s.host.Personal(s.owner, ev.QuickKey)
		quantity := placement.Quantity(placer, source)
		if quantity == 0 {
			return false
		}
		s.placeFromPersonal(placer, ev.Slot, ev.QuickKey, quantity)
		return true
	}
	return false
}

// placeFromCursor debits the floating value and credits the placer with
// exactly quantity. All provisional mutations roll back on failure.
func (s *Session) placeFromCursor(placer menu.Placer, slot, quantity int) {
	var tx placement.Txn

	cursorBefore := s.host.Cursor(s.owner)
	targetBefore := s.rendered[slot]
	tx.Stage(func() {
		s.host.SetCursor(s.owner, cursorBefore)
		s.host.SetSlot(s.view.Handle, slot, targetBefore)
		s.rendered[slot] = targetBefore
	})

	taken, rest := cursorBefore.Split(quantity)
	s.host.SetCursor(s.owner, rest)

	if err := s.insert(placer, taken); err != nil {
		tx.Rollback()
		s.fault(slot, err)
		return
	}
	tx.Commit()
	s.metrics.IncPlacements()
	s.renderSlot(slot)
}

// placeFromPersonal is the quick-move / quick-key variant: the source is a
// personal-grid slot instead of the cursor.
func (s *Session) placeFromPersonal(placer menu.Placer, slot, personalSlot, quantity int) {
	var tx placement.Txn

	sourceBefore := s.host.Personal(s.owner, personalSlot)
	targetBefore := s.rendered[slot]
	tx.Stage(func() {
		s.host.SetPersonal(s.owner, personalSlot, sourceBefore)
		s.host.SetSlot(s.view.Handle, slot, targetBefore)
		s.rendered[slot] = targetBefore
	})

	taken, rest := sourceBefore.Split(quantity)
	s.host.SetPersonal(s.owner, personalSlot, rest)

	if err := s.insert(placer, taken); err != nil {
		tx.Rollback()
		s.fault(slot, err)
		return
	}
	tx.Commit()
	s.metrics.IncPlacements()
	s.renderSlot(slot)
}

// insert invokes the capability's insert callback with a panic guard.
func (s *Session) insert(placer menu.Placer, stack types.Stack) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("insert panicked: %v", r)
		}
	}()
	return placer.Insert(stack)
}

// dispatch runs the non-placement path: the capability's interaction
// handler decides suppression; the touched slot re-renders afterward.
func (s *Session) dispatch(item menu.Item, ev types.Interaction) bool {
	var tx placement.Txn
	cursorBefore := s.host.Cursor(s.owner)
	targetBefore := s.rendered[ev.Slot]
	tx.Stage(func() {
		s.host.SetCursor(s.owner, cursorBefore)
		if s.view != nil {
			s.host.SetSlot(s.view.Handle, ev.Slot, targetBefore)
			s.rendered[ev.Slot] = targetBefore
		}
	})

	dirty := false
	ctx := &menu.Context{
		Owner:   s.owner,
		Kind:    ev.Kind,
		Slot:    ev.Slot,
		Cursor:  cursorBefore,
		Shift:   ev.Shift || ev.Kind.IsShift(),
		Actions: s.actions(&dirty),
	}

	suppress, err := s.invoke(item, ctx)
	if err != nil {
		tx.Rollback()
		s.fault(ev.Slot, err)
		// Facade writes to the personal grid are outside the snapshot and
		// survive the rollback; the client still needs the forced resync.
		if dirty {
			s.scheduleResync()
		}
		return true
	}
	tx.Commit()

	s.renderSlot(ev.Slot)

	if dirty {
		s.scheduleResync()
	}
	return suppress
}

// invoke runs the interaction handler with a panic guard.
func (s *Session) invoke(item menu.Item, ctx *menu.Context) (suppress bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			suppress = true
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return item.Interact(ctx), nil
}

// scheduleResync queues one forced client resync on the next quantum.
// Clients may have optimistically applied default behavior before the
// server veto was observed; only an explicit resync closes that window.
func (s *Session) scheduleResync() {
	if s.resyncQueued {
		return
	}
	s.resyncQueued = true
	tok := s.token.Load()
	s.sched.After(s.owner, 1, func() {
		s.resyncQueued = false
		if s.token.Load() != tok {
			s.log.Debug("stale resync dropped", zap.Uint64("token", tok))
			return
		}
		s.host.Resync(s.owner)
		s.metrics.IncResyncs()
	})
}

func (s *Session) fault(slot int, err error) {
	s.metrics.IncFaults()
	s.log.Error("capability fault; state rolled back",
		zap.Int("slot", slot),
		zap.Error(err),
	)
}

// actions returns the mutation facade handed to capability handlers.
// Writes to the cursor or personal grid through it set *dirty, which
// triggers the post-dispatch resync. A nil dirty pointer (open hooks) skips
// the tracking.
func (s *Session) actions(dirty *bool) menu.Actions {
	return &actionsFacade{s: s, dirty: dirty}
}

type actionsFacade struct {
	s     *Session
	dirty *bool
}

func (a *actionsFacade) markDirty() {
	if a.dirty != nil {
		*a.dirty = true
	}
}

func (a *actionsFacade) SetItem(slot int, item menu.Item) {
	if err := a.s.SetItem(slot, item); err != nil {
		a.s.log.Warn("SetItem rejected", zap.Int("slot", slot), zap.Error(err))
	}
}

func (a *actionsFacade) ClearItem(slot int) {
	a.s.ClearItem(slot)
}

func (a *actionsFacade) SetCursor(stack types.Stack) {
	a.s.host.SetCursor(a.s.owner, stack)
	a.markDirty()
}

func (a *actionsFacade) Personal(slot int) types.Stack {
	return a.s.host.Personal(a.s.owner, slot)
}

func (a *actionsFacade) SetPersonal(slot int, stack types.Stack) {
	a.s.host.SetPersonal(a.s.owner, slot, stack)
	a.markDirty()
}

func (a *actionsFacade) Open(desc menu.Descriptor) {
	a.s.Open(desc)
}

func (a *actionsFacade) Close() {
	a.s.Close()
}

func (a *actionsFacade) PushBack(reopen func()) {
	a.s.PushBack(reopen)
}

func (a *actionsFacade) Back() {
	a.s.GoBack()
}

func (a *actionsFacade) BackDepth() int {
	return a.s.BackDepth()
}
