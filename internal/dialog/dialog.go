// Package dialog builds small interaction workflows on top of the session
// engine.
//
// A dialog is just a menu.Descriptor assembled from options; the engine
// treats it like any other view. Builders here never touch session state
// directly, they only declare it.
package dialog

import (
	"github.com/Volubles/gridmenu/internal/engine/menu"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// Confirm describes a yes/no decision view.
type Confirm struct {
	Title string
	// Prompt is the decorative stack shown between the choices.
	Prompt types.Stack
	// Accept and Decline are the visuals for the two buttons. Empty
	// stacks fall back to bare markers.
	Accept  types.Stack
	Decline types.Stack
	// OnResult receives the decision. The view closes (or navigates back)
	// before OnResult's effects are observable, since the engine defers
	// transitions out of handler dispatch.
	OnResult func(accepted bool)
	// ReturnOnCancel reopens the previous view on decline when the back
	// stack has one; with an empty stack decline closes instead.
	ReturnOnCancel bool
}

// Dialog grid geometry: one row, choices on the ends, prompt centered.
const (
	confirmSize = 9
	acceptSlot  = 2
	promptSlot  = 4
	declineSlot = 6
)

// Descriptor assembles the view descriptor for the dialog.
func (c Confirm) Descriptor() menu.Descriptor {
	accept := c.Accept
	if accept.IsEmpty() {
		accept = types.Stack{Kind: "confirm.accept", Name: "Accept", Count: 1}
	}
	decline := c.Decline
	if decline.IsEmpty() {
		decline = types.Stack{Kind: "confirm.decline", Name: "Decline", Count: 1}
	}

	return menu.Descriptor{
		Title: c.Title,
		Size:  confirmSize,
		OnOpen: func(a menu.Actions) {
			if !c.Prompt.IsEmpty() {
				a.SetItem(promptSlot, menu.Static{Stack: c.Prompt})
			}
			a.SetItem(acceptSlot, menu.Button{Stack: accept, OnClick: func(ctx *menu.Context) {
				ctx.Actions.Close()
				if c.OnResult != nil {
					c.OnResult(true)
				}
			}})
			a.SetItem(declineSlot, menu.Button{Stack: decline, OnClick: func(ctx *menu.Context) {
				if c.ReturnOnCancel && ctx.Actions.BackDepth() > 0 {
					ctx.Actions.Back()
				} else {
					ctx.Actions.Close()
				}
				if c.OnResult != nil {
					c.OnResult(false)
				}
			}})
		},
	}
}
