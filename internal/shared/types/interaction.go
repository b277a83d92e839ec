package types

// InteractionKind is the closed set of user actions the engine routes.
// Dispatch is always over this enum, never over dynamic event types.
type InteractionKind int

const (
	KindPrimary InteractionKind = iota
	KindSecondary
	KindShiftPrimary
	KindShiftSecondary
	KindQuickKey
	KindDrag
)

// String returns the string representation of the kind.
func (k InteractionKind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindSecondary:
		return "secondary"
	case KindShiftPrimary:
		return "shift-primary"
	case KindShiftSecondary:
		return "shift-secondary"
	case KindQuickKey:
		return "quick-key"
	case KindDrag:
		return "drag"
	default:
		return "unknown"
	}
}

// IsShift reports whether the kind is a shift variant (quick-move intent).
func (k InteractionKind) IsShift() bool {
	return k == KindShiftPrimary || k == KindShiftSecondary
}

// GridRef identifies which grid an event targets.
type GridRef int

const (
	// GridManaged is the engine-owned container view.
	GridManaged GridRef = iota
	// GridPersonal is the user's own grid, independent of any view.
	GridPersonal
)

// String returns the string representation of the grid reference.
func (g GridRef) String() string {
	if g == GridPersonal {
		return "personal"
	}
	return "managed"
}

// Interaction describes one discrete user action, fully deserialized by the
// host before delivery. Cursor carries the floating value at event time.
type Interaction struct {
	Kind     InteractionKind
	Grid     GridRef
	Slot     int
	QuickKey int // personal-grid index for KindQuickKey
	Cursor   Stack
	Shift    bool
	// DragSlots lists every slot touched by a KindDrag gesture, in the
	// grid named by Grid. Empty for all other kinds.
	DragSlots []int
}

// CursorDisposition is the policy applied to a floating carried value when
// the view closes.
type CursorDisposition int

const (
	// DispositionReturn places the value into the first free personal-grid
	// slot, falling back to an environment disown when none is free.
	DispositionReturn CursorDisposition = iota
	// DispositionDrop always disowns the value to the environment.
	DispositionDrop
	// DispositionVoid discards the value.
	DispositionVoid
)

// String returns the string representation of the disposition.
func (d CursorDisposition) String() string {
	switch d {
	case DispositionDrop:
		return "drop"
	case DispositionVoid:
		return "void"
	default:
		return "return"
	}
}
