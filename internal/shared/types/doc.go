// Package types provides the shared data model for the grid session engine.
//
// Everything here is plain data: stacks (quantified polymorphic values),
// interaction events as delivered by the host, and the closed enums the
// engine dispatches over. No package in the engine interprets a stack's
// kind; that is application territory.
//
// Core Types:
//   - Stack: Quantified opaque value occupying a slot or the cursor
//   - Interaction: One discrete user action against a grid
//   - InteractionKind: Closed enum of recognized action kinds
//   - GridRef: Which grid (managed view vs. personal) an event targets
//   - CursorDisposition: Policy for a carried value when a view closes
//
// Example Usage:
//
//	ev := types.Interaction{
//	    Kind:   types.KindPrimary,
//	    Grid:   types.GridManaged,
//	    Slot:   13,
//	    Cursor: types.Stack{Kind: "gem", Count: 5},
//	}
package types
