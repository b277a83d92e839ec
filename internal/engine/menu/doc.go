// Package menu defines the per-slot capability contract.
//
// An Item is the polymorphic occupant of a slot: it renders a per-viewer
// visual and handles interactions. Items that accept foreign values
// additionally implement Placer; the session discovers placement support by
// type assertion, so plain items pay nothing for it.
//
// Item instances are owned by application code and are typically shared
// read-only across sessions. Render and Interact must be safe to invoke per
// viewer; the engine provides no synchronization for author-owned state.
package menu
