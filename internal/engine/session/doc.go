// Package session implements the per-user orchestrator behind the grid
// container UI.
//
// A Session owns at most one live view, its slot-to-capability table, the
// debounce gate, the back stack, and the cursor disposition applied on
// close. Every view transition advances a monotonic view token; deferred
// and asynchronous continuations capture the token at schedule time and
// re-check it before mutating, so work scheduled against a stale view
// silently becomes a no-op. That token gate is the engine's substitute for
// cancellation.
//
// Threading: all Session methods must run on the owner's execution context
// (see the sched package). The host delivers interaction and close events
// on that context already; anything else must marshal via the scheduler.
// Within the context, interactions are processed strictly one at a time.
// A reentrant delivery is suppressed, and Open/Close calls made from
// inside a handler are deferred by one quantum so the grid is never
// mutated mid-dispatch.
//
// Capability faults (panics or insert errors) are caught at the session
// boundary: provisional mutations are rolled back to the pre-event
// snapshot, the fault is logged, and the interaction is suppressed. A
// misbehaving capability cannot crash the session or corrupt sibling
// slots.
package session
