package menu

import (
	"time"

	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// Item is the behavior bound to one slot.
type Item interface {
	// Render computes the visual for the given viewer. Must be pure.
	Render(viewer id.OwnerID) types.Stack

	// Interact handles one interaction. Returning true suppresses the
	// host's default behavior for the event.
	Interact(ctx *Context) bool
}

// Placer is implemented by items that accept placement of foreign values.
type Placer interface {
	Item

	// CanAccept reports whether the item accepts any amount of s.
	CanAccept(s types.Stack) bool

	// AcceptLimit returns the maximum quantity of s the item will take in
	// one placement. Zero or negative rejects the placement.
	AcceptLimit(s types.Stack) int

	// Insert receives exactly the accepted quantity. An error aborts the
	// placement and rolls back every provisional mutation.
	Insert(s types.Stack) error

	// ReturnOnClose reports whether the slot's displayed value is returned
	// to the owner when the view closes. When false the value is discarded;
	// the item's own bookkeeping is authoritative.
	ReturnOnClose() bool

	// AllowQuickMove enables the shift-move redirect path into this slot.
	AllowQuickMove() bool

	// AllowQuickKey enables the quick-key placement path into this slot.
	AllowQuickKey() bool
}

// Context is the bundle passed to Item.Interact.
type Context struct {
	Owner  id.OwnerID
	Kind   types.InteractionKind
	Slot   int
	Cursor types.Stack
	Shift  bool

	// Actions is the facade for everything a handler may do to the session.
	Actions Actions
}

// Actions is the mutation surface a capability sees during dispatch.
// Cursor and personal-grid writes through this facade are tracked: the
// session schedules a forced client resync on the next quantum after any of
// them, closing the optimistic-apply desync window.
type Actions interface {
	SetItem(slot int, item Item)
	ClearItem(slot int)

	SetCursor(s types.Stack)
	Personal(slot int) types.Stack
	SetPersonal(slot int, s types.Stack)

	Open(desc Descriptor)
	Close()
	PushBack(reopen func())
	Back()
	BackDepth() int
}

// Descriptor declares one view: its size, title, open hook, and close-time
// cursor policy.
type Descriptor struct {
	Title string
	// Size is the managed grid's slot count.
	Size int
	// OnOpen populates the fresh view. Runs on the owner context with the
	// slot table already cleared.
	OnOpen func(a Actions)
	// Disposition applies to the floating carried value when the view
	// closes.
	Disposition types.CursorDisposition
	// Refresh, when positive, starts a re-render heartbeat at this period.
	Refresh time.Duration
}
