package session

import (
	"errors"
	"fmt"

	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
)

// fakeHost is an in-memory Host for tests: one personal grid per owner,
// per-view slot arrays, and counters for every observable side effect.
type fakeHost struct {
	personalSize int
	nextHandle   int

	views    map[ViewHandle][]types.Stack
	live     map[ViewHandle]bool
	cursor   map[id.OwnerID]types.Stack
	personal map[id.OwnerID][]types.Stack
	disowned []types.Stack

	openErr      error
	setSlotCalls int
	resyncs      int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		personalSize: 36,
		views:        make(map[ViewHandle][]types.Stack),
		live:         make(map[ViewHandle]bool),
		cursor:       make(map[id.OwnerID]types.Stack),
		personal:     make(map[id.OwnerID][]types.Stack),
	}
}

func (h *fakeHost) OpenView(owner id.OwnerID, title string, size int) (ViewHandle, error) {
	if h.openErr != nil {
		return "", h.openErr
	}
	if size <= 0 {
		return "", errors.New("invalid view size")
	}
	h.nextHandle++
	handle := ViewHandle(fmt.Sprintf("view-%d", h.nextHandle))
	h.views[handle] = make([]types.Stack, size)
	h.live[handle] = true
	return handle, nil
}

func (h *fakeHost) CloseView(owner id.OwnerID, handle ViewHandle) {
	h.live[handle] = false
}

func (h *fakeHost) SetSlot(handle ViewHandle, slot int, s types.Stack) {
	if grid, ok := h.views[handle]; ok && slot >= 0 && slot < len(grid) {
		grid[slot] = s
		h.setSlotCalls++
	}
}

func (h *fakeHost) Slot(handle ViewHandle, slot int) types.Stack {
	if grid, ok := h.views[handle]; ok && slot >= 0 && slot < len(grid) {
		return grid[slot]
	}
	return types.Empty
}

func (h *fakeHost) Cursor(owner id.OwnerID) types.Stack {
	return h.cursor[owner]
}

func (h *fakeHost) SetCursor(owner id.OwnerID, s types.Stack) {
	h.cursor[owner] = s
}

func (h *fakeHost) PersonalSize(owner id.OwnerID) int {
	return h.personalSize
}

func (h *fakeHost) grid(owner id.OwnerID) []types.Stack {
	if _, ok := h.personal[owner]; !ok {
		h.personal[owner] = make([]types.Stack, h.personalSize)
	}
	return h.personal[owner]
}

func (h *fakeHost) Personal(owner id.OwnerID, slot int) types.Stack {
	grid := h.grid(owner)
	if slot < 0 || slot >= len(grid) {
		return types.Empty
	}
	return grid[slot]
}

func (h *fakeHost) SetPersonal(owner id.OwnerID, slot int, s types.Stack) {
	grid := h.grid(owner)
	if slot >= 0 && slot < len(grid) {
		grid[slot] = s
	}
}

func (h *fakeHost) Disown(owner id.OwnerID, s types.Stack) {
	h.disowned = append(h.disowned, s)
}

func (h *fakeHost) Resync(owner id.OwnerID) {
	h.resyncs++
}

// liveViews counts views that are open and not yet closed.
func (h *fakeHost) liveViews() int {
	n := 0
	for _, alive := range h.live {
		if alive {
			n++
		}
	}
	return n
}

// personalCount sums how many grid slots hold the given kind.
func (h *fakeHost) personalCount(owner id.OwnerID, kind string) int {
	n := 0
	for _, s := range h.grid(owner) {
		if s.Kind == kind {
			n += s.Count
		}
	}
	return n
}

var _ Host = (*fakeHost)(nil)
