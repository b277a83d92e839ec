package session

import (
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// ViewHandle is the host's opaque reference to one rendered container.
type ViewHandle string

// Host is the rendering and grid primitive the engine drives. The engine
// defines no wire format and persists nothing; the host owns pixels,
// packets, and the user's personal grid.
//
// All methods are invoked on the owner's execution context.
type Host interface {
	// OpenView opens a container of the given size for the owner and
	// returns its handle. Fails fast on invalid geometry.
	OpenView(owner id.OwnerID, title string, size int) (ViewHandle, error)

	// CloseView dismisses a previously opened view. Closing an already
	// dismissed handle is a no-op.
	CloseView(owner id.OwnerID, h ViewHandle)

	// SetSlot and Slot access a view slot's displayed value.
	SetSlot(h ViewHandle, slot int, s types.Stack)
	Slot(h ViewHandle, slot int) types.Stack

	// Cursor and SetCursor access the owner's floating carried value.
	Cursor(owner id.OwnerID) types.Stack
	SetCursor(owner id.OwnerID, s types.Stack)

	// Personal-grid access, independent of any managed view.
	PersonalSize(owner id.OwnerID) int
	Personal(owner id.OwnerID, slot int) types.Stack
	SetPersonal(owner id.OwnerID, slot int, s types.Stack)

	// Disown releases a stack to the environment (dropped at the owner's
	// position, or whatever the host deems equivalent).
	Disown(owner id.OwnerID, s types.Stack)

	// Resync forces the client back to the server's view of the cursor and
	// personal grid. Scheduled after handlers mutate either manually,
	// because the client may have optimistically applied the default
	// behavior before the server veto arrived.
	Resync(owner id.OwnerID)
}

// View is one rendered container instance, tagged with the token that was
// current at its creation.
type View struct {
	Handle ViewHandle
	Title  string
	Size   int
	Token  uint64
}
