package session

import (
	"errors"
	"testing"
	"time"

	"github.com/Volubles/gridmenu/internal/engine/menu"
	"github.com/Volubles/gridmenu/internal/engine/sched"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = id.OwnerID("own_test")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	host  *fakeHost
	sched *sched.Manual
	clock *fakeClock
	sess  *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	host := newFakeHost()
	manual := sched.NewManual()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	sess := New(testOwner, host, manual, Config{
		DebounceWindow: 150 * time.Millisecond,
		Clock:          clock.Now,
	})
	return &fixture{host: host, sched: manual, clock: clock, sess: sess}
}

// open opens a view and steps past the grace quantum so interactions are
// armed.
func (f *fixture) open(desc menu.Descriptor) {
	f.sess.Open(desc)
	f.sched.Advance(1)
}

// click submits a managed-grid interaction, advancing the clock past the
// debounce window first.
func (f *fixture) click(kind types.InteractionKind, slot int) bool {
	f.clock.Advance(time.Second)
	return f.sess.HandleInteraction(types.Interaction{
		Kind:   kind,
		Grid:   types.GridManaged,
		Slot:   slot,
		Cursor: f.host.Cursor(testOwner),
	})
}

func gem(n int) types.Stack { return types.Stack{Kind: "gem", Count: n} }

func TestTokenMonotonicity(t *testing.T) {
	f := newFixture(t)
	desc := menu.Descriptor{Title: "a", Size: 9}

	require.Equal(t, uint64(0), f.sess.Token())
	f.open(desc)
	assert.Equal(t, uint64(1), f.sess.Token())
	f.sess.Close()
	assert.Equal(t, uint64(2), f.sess.Token())
	f.open(desc)
	assert.Equal(t, uint64(3), f.sess.Token())
}

func TestDoubleOpenLeavesOneView(t *testing.T) {
	// Scenario: two opens in rapid succession with no intervening close.
	f := newFixture(t)

	f.sess.Open(menu.Descriptor{Title: "first", Size: 9})
	f.sess.Open(menu.Descriptor{Title: "second", Size: 9})

	require.NotNil(t, f.sess.CurrentView())
	assert.Equal(t, "second", f.sess.CurrentView().Title)
	assert.Equal(t, uint64(2), f.sess.Token())
	assert.Equal(t, 1, f.host.liveViews())

	// The first open's re-arm continuation was scheduled under token 1 and
	// must now be a no-op; the second open's re-arm does the arming.
	f.sched.Advance(1)
	assert.True(t, f.click(types.KindPrimary, 0), "unbound slot suppressed once armed")
}

func TestInteractionSuspendedDuringGrace(t *testing.T) {
	f := newFixture(t)
	hits := 0
	f.sess.Open(menu.Descriptor{
		Title: "a",
		Size:  9,
		OnOpen: func(a menu.Actions) {
			a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(*menu.Context) { hits++ }})
		},
	})

	// Still inside the grace window: the in-flight interaction for the
	// prior view must be rejected, not misrouted.
	f.clock.Advance(time.Second)
	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindPrimary, Grid: types.GridManaged, Slot: 0,
	})
	assert.True(t, suppressed)
	assert.Equal(t, 0, hits)

	f.sched.Advance(1)
	f.click(types.KindPrimary, 0)
	assert.Equal(t, 1, hits)
}

func TestDebounceWindow(t *testing.T) {
	f := newFixture(t)
	hits := 0
	f.open(menu.Descriptor{
		Title: "a",
		Size:  9,
		OnOpen: func(a menu.Actions) {
			a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(*menu.Context) { hits++ }})
		},
	})

	ev := types.Interaction{Kind: types.KindPrimary, Grid: types.GridManaged, Slot: 0}

	f.clock.Advance(time.Second)
	f.sess.HandleInteraction(ev)
	require.Equal(t, 1, hits)

	f.clock.Advance(100 * time.Millisecond)
	f.sess.HandleInteraction(ev)
	assert.Equal(t, 1, hits, "inside window: suppressed")

	f.clock.Advance(150 * time.Millisecond)
	f.sess.HandleInteraction(ev)
	assert.Equal(t, 2, hits, "window elapsed from last accepted: accepted")
}

func TestAtMostOneInFlight(t *testing.T) {
	f := newFixture(t)
	nested := 0
	var reentered bool
	f.open(menu.Descriptor{
		Title: "a",
		Size:  9,
		OnOpen: func(a menu.Actions) {
			a.SetItem(1, menu.Button{Stack: gem(1), OnClick: func(*menu.Context) { nested++ }})
			a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(ctx *menu.Context) {
				// A delivery arriving while this handler runs must be
				// rejected without overlapping execution.
				reentered = f.sess.HandleInteraction(types.Interaction{
					Kind: types.KindPrimary, Grid: types.GridManaged, Slot: 1,
				})
			}})
		},
	})

	f.click(types.KindPrimary, 0)
	assert.True(t, reentered, "nested delivery suppressed")
	assert.Equal(t, 0, nested, "nested handler never ran")

	// The lock is released after dispatch.
	f.click(types.KindPrimary, 1)
	assert.Equal(t, 1, nested)
}

func TestPlacementScenario(t *testing.T) {
	// 27-slot grid, slot 13 accepts anything with limit 1, primary click
	// with a floating value of quantity 5.
	f := newFixture(t)
	var inserted []types.Stack
	held := 0

	acceptor := menu.Acceptor{
		Handler: menu.Handler{RenderFunc: func(id.OwnerID) types.Stack {
			if held == 0 {
				return types.Empty
			}
			return gem(held)
		}},
		AcceptLimitFunc: func(types.Stack) int { return 1 },
		InsertFunc: func(s types.Stack) error {
			inserted = append(inserted, s)
			held += s.Count
			return nil
		},
	}

	f.open(menu.Descriptor{
		Title: "bin",
		Size:  27,
		OnOpen: func(a menu.Actions) {
			a.SetItem(13, acceptor)
		},
	})

	f.host.SetCursor(testOwner, gem(5))
	suppressed := f.click(types.KindPrimary, 13)

	assert.True(t, suppressed)
	assert.Equal(t, 4, f.host.Cursor(testOwner).Count, "floating quantity debited")
	require.Len(t, inserted, 1)
	assert.Equal(t, 1, inserted[0].Count, "insert invoked with exactly the accepted quantity")
	assert.Equal(t, gem(1), f.host.Slot(f.sess.CurrentView().Handle, 13), "touched slot re-rendered")
}

func TestPlacementConservation(t *testing.T) {
	f := newFixture(t)
	received := 0
	acceptor := menu.Acceptor{
		AcceptLimitFunc: func(types.Stack) int { return 3 },
		InsertFunc: func(s types.Stack) error {
			received += s.Count
			return nil
		},
	}
	f.open(menu.Descriptor{Title: "bin", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, acceptor)
	}})

	f.host.SetCursor(testOwner, gem(7))
	f.click(types.KindPrimary, 0)

	assert.Equal(t, 7, f.host.Cursor(testOwner).Count+received, "no value created or destroyed")
	assert.Equal(t, 4, f.host.Cursor(testOwner).Count)
	assert.Equal(t, 3, received)
}

func TestRollbackOnInsertError(t *testing.T) {
	f := newFixture(t)
	acceptor := menu.Acceptor{
		InsertFunc: func(types.Stack) error { return errors.New("capability refused") },
	}
	f.open(menu.Descriptor{Title: "bin", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, acceptor)
	}})

	f.host.SetCursor(testOwner, gem(5))
	suppressed := f.click(types.KindPrimary, 0)

	assert.True(t, suppressed)
	assert.Equal(t, gem(5), f.host.Cursor(testOwner), "cursor restored to pre-event snapshot")
	assert.True(t, f.host.Slot(f.sess.CurrentView().Handle, 0).IsEmpty(), "target restored")
}

func TestRollbackOnInsertPanic(t *testing.T) {
	f := newFixture(t)
	acceptor := menu.Acceptor{
		InsertFunc: func(types.Stack) error { panic("capability bug") },
	}
	f.open(menu.Descriptor{Title: "bin", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, acceptor)
	}})

	f.host.SetCursor(testOwner, gem(5))
	assert.NotPanics(t, func() { f.click(types.KindPrimary, 0) })
	assert.Equal(t, gem(5), f.host.Cursor(testOwner))
}

func TestHandlerPanicIsolated(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(*menu.Context) {
			panic("handler bug")
		}})
		a.SetItem(1, menu.Button{Stack: gem(1)})
	}})

	assert.NotPanics(t, func() {
		assert.True(t, f.click(types.KindPrimary, 0))
	})

	// Sibling slots keep working.
	assert.True(t, f.click(types.KindPrimary, 1))
}

func TestUnboundManagedSlotSuppressed(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9})
	assert.True(t, f.click(types.KindPrimary, 4))
}

func TestNoViewNotOurs(t *testing.T) {
	f := newFixture(t)
	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindPrimary, Grid: types.GridManaged, Slot: 0,
	})
	assert.False(t, suppressed)
}

func TestQuickMoveRedirect(t *testing.T) {
	f := newFixture(t)
	var insertedAt []int
	acceptorAt := func(slot int, accept bool) menu.Acceptor {
		return menu.Acceptor{
			QuickMove:     true,
			CanAcceptFunc: func(types.Stack) bool { return accept },
			InsertFunc: func(types.Stack) error {
				insertedAt = append(insertedAt, slot)
				return nil
			},
		}
	}
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(6, acceptorAt(6, true))
		a.SetItem(2, acceptorAt(2, false))
		a.SetItem(4, acceptorAt(4, true))
	}})

	f.host.SetPersonal(testOwner, 3, gem(2))
	f.clock.Advance(time.Second)
	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindShiftPrimary, Grid: types.GridPersonal, Slot: 3,
	})

	assert.True(t, suppressed)
	assert.Equal(t, []int{4}, insertedAt, "lowest-indexed eligible slot wins")
	assert.True(t, f.host.Personal(testOwner, 3).IsEmpty(), "source debited")
}

func TestQuickMoveNoneEligibleProceeds(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Acceptor{QuickMove: true, CanAcceptFunc: func(types.Stack) bool { return false }})
	}})

	f.host.SetPersonal(testOwner, 3, gem(2))
	f.clock.Advance(time.Second)
	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindShiftPrimary, Grid: types.GridPersonal, Slot: 3,
	})

	assert.False(t, suppressed, "interaction proceeds unmodified")
	assert.Equal(t, gem(2), f.host.Personal(testOwner, 3))
}

func TestQuickKeyPlacement(t *testing.T) {
	f := newFixture(t)
	received := 0
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Acceptor{
			QuickKey:   true,
			InsertFunc: func(s types.Stack) error { received += s.Count; return nil },
		})
	}})

	f.host.SetPersonal(testOwner, 7, gem(3))
	f.clock.Advance(time.Second)
	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindQuickKey, Grid: types.GridManaged, Slot: 0, QuickKey: 7,
	})

	assert.True(t, suppressed)
	assert.Equal(t, 3, received)
	assert.True(t, f.host.Personal(testOwner, 7).IsEmpty())
}

func TestDragIntoManagedCancelled(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9})
	f.clock.Advance(time.Second)

	suppressed := f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindDrag, Grid: types.GridManaged, DragSlots: []int{1, 2},
	})
	assert.True(t, suppressed)

	f.clock.Advance(time.Second)
	suppressed = f.sess.HandleInteraction(types.Interaction{
		Kind: types.KindDrag, Grid: types.GridPersonal, DragSlots: []int{1, 2},
	})
	assert.False(t, suppressed)
}

func TestSetItemRendersOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9})

	before := f.host.setSlotCalls
	require.NoError(t, f.sess.SetItem(0, menu.Static{Stack: gem(1)}))
	assert.Equal(t, before+1, f.host.setSlotCalls)

	// Same visual: no re-render.
	require.NoError(t, f.sess.SetItem(0, menu.Static{Stack: gem(1)}))
	assert.Equal(t, before+1, f.host.setSlotCalls)

	require.NoError(t, f.sess.SetItem(0, menu.Static{Stack: gem(2)}))
	assert.Equal(t, before+2, f.host.setSlotCalls)
}

func TestSetItemErrors(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.sess.SetItem(0, menu.Static{}), ErrNoView)

	f.open(menu.Descriptor{Title: "a", Size: 9})
	assert.ErrorIs(t, f.sess.SetItem(9, menu.Static{}), ErrSlotRange)
	assert.ErrorIs(t, f.sess.SetItem(-1, menu.Static{}), ErrSlotRange)
}

func TestClearItemBlanks(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9})
	require.NoError(t, f.sess.SetItem(0, menu.Static{Stack: gem(1)}))

	f.sess.ClearItem(0)
	assert.True(t, f.host.Slot(f.sess.CurrentView().Handle, 0).IsEmpty())

	// Clearing again is quiet.
	calls := f.host.setSlotCalls
	f.sess.ClearItem(0)
	assert.Equal(t, calls, f.host.setSlotCalls)
}

func TestReturnOnCloseToPersonalGrid(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(2, menu.Acceptor{ReturnStacks: true})
		a.SetItem(3, menu.Acceptor{ReturnStacks: false})
	}})

	view := f.sess.CurrentView().Handle
	f.host.SetSlot(view, 2, gem(4))
	f.host.SetSlot(view, 3, types.Stack{Kind: "ore", Count: 2})

	f.sess.Close()

	assert.Equal(t, 4, f.host.personalCount(testOwner, "gem"), "returned exactly once")
	assert.Empty(t, f.host.disowned)
	assert.Equal(t, 0, f.host.personalCount(testOwner, "ore"), "no return-on-close: discarded")
}

func TestReturnOnCloseFallsBackToDisown(t *testing.T) {
	f := newFixture(t)
	// Fill the whole personal grid.
	for i := 0; i < f.host.personalSize; i++ {
		f.host.SetPersonal(testOwner, i, types.Stack{Kind: "junk", Count: 1})
	}
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Acceptor{ReturnStacks: true})
	}})
	f.host.SetSlot(f.sess.CurrentView().Handle, 0, gem(4))

	f.sess.Close()

	require.Len(t, f.host.disowned, 1)
	assert.Equal(t, gem(4), f.host.disowned[0])
	assert.Equal(t, 0, f.host.personalCount(testOwner, "gem"))
}

func TestCursorDispositions(t *testing.T) {
	tests := []struct {
		name        string
		disposition types.CursorDisposition
		wantGrid    int
		wantDisown  int
	}{
		{"return", types.DispositionReturn, 5, 0},
		{"drop", types.DispositionDrop, 0, 1},
		{"void", types.DispositionVoid, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.open(menu.Descriptor{Title: "a", Size: 9, Disposition: tt.disposition})
			f.host.SetCursor(testOwner, gem(5))

			f.sess.Close()

			assert.True(t, f.host.Cursor(testOwner).IsEmpty(), "cursor always cleared")
			assert.Equal(t, tt.wantGrid, f.host.personalCount(testOwner, "gem"))
			assert.Len(t, f.host.disowned, tt.wantDisown)
		})
	}
}

func TestHandleCloseWillReopenNoOp(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9})
	tok := f.sess.Token()

	f.sess.HandleClose(true)
	assert.Equal(t, tok, f.sess.Token())
	assert.True(t, f.sess.ViewOpen())

	f.sess.HandleClose(false)
	assert.Equal(t, tok+1, f.sess.Token())
	assert.False(t, f.sess.ViewOpen())

	// Already closed: a second dismissal is a no-op.
	f.sess.HandleClose(false)
	assert.Equal(t, tok+1, f.sess.Token())
}

func TestOpenFromHandlerDeferred(t *testing.T) {
	f := newFixture(t)
	second := menu.Descriptor{Title: "second", Size: 9}
	f.open(menu.Descriptor{Title: "first", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(ctx *menu.Context) {
			ctx.Actions.Open(second)
		}})
	}})

	f.click(types.KindPrimary, 0)

	// Mid-dispatch the grid must not have changed.
	assert.Equal(t, "first", f.sess.CurrentView().Title)

	f.sched.Advance(1)
	assert.Equal(t, "second", f.sess.CurrentView().Title)
	assert.Equal(t, 1, f.host.liveViews())
}

func TestStaleResyncDropped(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(ctx *menu.Context) {
			ctx.Actions.SetCursor(gem(1))
		}})
	}})

	f.click(types.KindPrimary, 0)
	require.Equal(t, 0, f.host.resyncs)

	// The view transitions before the resync quantum elapses; the
	// continuation captured the old token and must do nothing.
	f.sess.Close()
	f.sched.Advance(1)
	assert.Equal(t, 0, f.host.resyncs)
}

func TestResyncAfterManualMutation(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(ctx *menu.Context) {
			ctx.Actions.SetPersonal(4, gem(1))
		}})
	}})

	f.click(types.KindPrimary, 0)
	assert.Equal(t, 0, f.host.resyncs, "resync waits for the next quantum")

	f.sched.Advance(1)
	assert.Equal(t, 1, f.host.resyncs)
}

func TestResyncAfterFaultedMutation(t *testing.T) {
	f := newFixture(t)
	f.open(menu.Descriptor{Title: "a", Size: 9, OnOpen: func(a menu.Actions) {
		a.SetItem(0, menu.Button{Stack: gem(1), OnClick: func(ctx *menu.Context) {
			ctx.Actions.SetPersonal(4, gem(1))
			panic("handler bug")
		}})
	}})

	assert.True(t, f.click(types.KindPrimary, 0))

	// The personal-grid write is outside the rollback snapshot, so the
	// fault must still force a resync.
	assert.Equal(t, gem(1), f.host.Personal(testOwner, 4))
	f.sched.Advance(1)
	assert.Equal(t, 1, f.host.resyncs)
}

func TestHeartbeatTokenGated(t *testing.T) {
	f := newFixture(t)
	renders := 0
	f.open(menu.Descriptor{
		Title:   "a",
		Size:    9,
		Refresh: time.Second,
		OnOpen: func(a menu.Actions) {
			a.SetItem(0, menu.Handler{RenderFunc: func(id.OwnerID) types.Stack {
				renders++
				return gem(renders)
			}})
		},
	})
	require.Equal(t, 1, renders, "initial bind renders once")

	f.sched.Advance(2)
	assert.Equal(t, 3, renders)

	// After close the heartbeat's token is stale: zero further renders.
	f.sess.Close()
	f.sched.Advance(3)
	assert.Equal(t, 3, renders)
}

func TestBackStackNavigation(t *testing.T) {
	f := newFixture(t)
	first := menu.Descriptor{Title: "first", Size: 9}

	f.open(first)
	f.sess.PushBack(func() { f.sess.Open(first) })
	f.open(menu.Descriptor{Title: "second", Size: 9})

	f.sess.GoBack()
	assert.Equal(t, "first", f.sess.CurrentView().Title)

	// Empty stack: no-op.
	f.sess.GoBack()
	assert.Equal(t, "first", f.sess.CurrentView().Title)
}

func TestOpenFailureLeavesNoView(t *testing.T) {
	f := newFixture(t)
	f.host.openErr = errors.New("bad geometry")

	f.sess.Open(menu.Descriptor{Title: "a", Size: 9})
	assert.Nil(t, f.sess.CurrentView())
	assert.False(t, f.sess.ViewOpen())
}
