package menu

import (
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// Static is a fixed decorative item. It renders the same stack for every
// viewer and suppresses all interactions.
type Static struct {
	Stack types.Stack
}

func (s Static) Render(id.OwnerID) types.Stack { return s.Stack }
func (s Static) Interact(*Context) bool        { return true }

// Button renders a fixed stack and invokes OnClick. Interactions are always
// suppressed; the click is the whole point.
type Button struct {
	Stack   types.Stack
	OnClick func(ctx *Context)
}

func (b Button) Render(id.OwnerID) types.Stack { return b.Stack }

func (b Button) Interact(ctx *Context) bool {
	if b.OnClick != nil {
		b.OnClick(ctx)
	}
	return true
}

// Handler adapts a pair of callbacks into an Item. Nil callbacks default to
// an empty render and a suppressed interaction.
type Handler struct {
	RenderFunc   func(viewer id.OwnerID) types.Stack
	InteractFunc func(ctx *Context) bool
}

func (h Handler) Render(viewer id.OwnerID) types.Stack {
	if h.RenderFunc == nil {
		return types.Empty
	}
	return h.RenderFunc(viewer)
}

func (h Handler) Interact(ctx *Context) bool {
	if h.InteractFunc == nil {
		return true
	}
	return h.InteractFunc(ctx)
}

// Acceptor adapts optional callbacks into a Placer.
//
// Defaults: a nil CanAcceptFunc accepts everything, a nil AcceptLimitFunc
// takes the whole stack, a nil InsertFunc absorbs the value silently.
type Acceptor struct {
	Handler

	CanAcceptFunc   func(s types.Stack) bool
	AcceptLimitFunc func(s types.Stack) int
	InsertFunc      func(s types.Stack) error

	ReturnStacks bool
	QuickMove    bool
	QuickKey     bool
}

func (a Acceptor) CanAccept(s types.Stack) bool {
	if a.CanAcceptFunc == nil {
		return true
	}
	return a.CanAcceptFunc(s)
}

func (a Acceptor) AcceptLimit(s types.Stack) int {
	if a.AcceptLimitFunc == nil {
		return s.Count
	}
	return a.AcceptLimitFunc(s)
}

func (a Acceptor) Insert(s types.Stack) error {
	if a.InsertFunc == nil {
		return nil
	}
	return a.InsertFunc(s)
}

func (a Acceptor) ReturnOnClose() bool  { return a.ReturnStacks }
func (a Acceptor) AllowQuickMove() bool { return a.QuickMove }
func (a Acceptor) AllowQuickKey() bool  { return a.QuickKey }

var (
	_ Item   = Static{}
	_ Item   = Button{}
	_ Item   = Handler{}
	_ Placer = Acceptor{}
)
