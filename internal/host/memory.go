// Package host provides an in-memory session.Host.
//
// The memory host backs the standalone daemon and soak setups where no
// real client is attached: views, cursors, and personal grids live in
// process memory, and disowned stacks are counted instead of dropped
// into a world. Production embeddings supply their own Host.
package host

import (
	"fmt"
	"sync"

	"github.com/Volubles/gridmenu/internal/engine/session"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/Volubles/gridmenu/internal/shared/types"
	"github.com/google/uuid"
)

// DefaultPersonalSize matches the common client personal grid.
const DefaultPersonalSize = 36

type view struct {
	owner id.OwnerID
	slots map[int]types.Stack
}

type ownerState struct {
	cursor   types.Stack
	personal []types.Stack
	resyncs  int
	disowned []types.Stack
}

// Memory is a thread-safe in-memory Host.
type Memory struct {
	mu           sync.Mutex
	personalSize int
	views        map[session.ViewHandle]*view
	owners       map[id.OwnerID]*ownerState
}

// NewMemory creates a memory host with the default personal grid size.
func NewMemory() *Memory {
	return NewMemorySized(DefaultPersonalSize)
}

// NewMemorySized creates a memory host with the given personal grid size.
func NewMemorySized(personalSize int) *Memory {
	return &Memory{
		personalSize: personalSize,
		views:        make(map[session.ViewHandle]*view),
		owners:       make(map[id.OwnerID]*ownerState),
	}
}

func (m *Memory) owner(o id.OwnerID) *ownerState {
	st, ok := m.owners[o]
	if !ok {
		st = &ownerState{personal: make([]types.Stack, m.personalSize)}
		m.owners[o] = st
	}
	return st
}

// OpenView allocates a view handle. Size must be positive.
func (m *Memory) OpenView(owner id.OwnerID, title string, size int) (session.ViewHandle, error) {
	if size <= 0 {
		return "", fmt.Errorf("view size %d out of range", size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h := session.ViewHandle("vh_" + uuid.NewString())
	m.views[h] = &view{owner: owner, slots: make(map[int]types.Stack, size)}
	return h, nil
}

func (m *Memory) CloseView(owner id.OwnerID, h session.ViewHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.views, h)
}

func (m *Memory) SetSlot(h session.ViewHandle, slot int, s types.Stack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.views[h]; ok {
		if s.IsEmpty() {
			delete(v.slots, slot)
		} else {
			v.slots[slot] = s
		}
	}
}

func (m *Memory) Slot(h session.ViewHandle, slot int) types.Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.views[h]; ok {
		return v.slots[slot]
	}
	return types.Empty
}

func (m *Memory) Cursor(owner id.OwnerID) types.Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner(owner).cursor
}

func (m *Memory) SetCursor(owner id.OwnerID, s types.Stack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owner(owner).cursor = s
}

func (m *Memory) PersonalSize(owner id.OwnerID) int {
	return m.personalSize
}

func (m *Memory) Personal(owner id.OwnerID, slot int) types.Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.owner(owner)
	if slot < 0 || slot >= len(st.personal) {
		return types.Empty
	}
	return st.personal[slot]
}

func (m *Memory) SetPersonal(owner id.OwnerID, slot int, s types.Stack) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.owner(owner)
	if slot >= 0 && slot < len(st.personal) {
		st.personal[slot] = s
	}
}

func (m *Memory) Disown(owner id.OwnerID, s types.Stack) {
	if s.IsEmpty() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.owner(owner)
	st.disowned = append(st.disowned, s)
}

func (m *Memory) Resync(owner id.OwnerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owner(owner).resyncs++
}

// LiveViews reports how many views are currently open across all owners.
func (m *Memory) LiveViews() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

// Disowned returns the stacks released to the environment for an owner.
func (m *Memory) Disowned(owner id.OwnerID) []types.Stack {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.owner(owner)
	out := make([]types.Stack, len(st.disowned))
	copy(out, st.disowned)
	return out
}

// Resyncs reports how many forced resyncs the owner received.
func (m *Memory) Resyncs(owner id.OwnerID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner(owner).resyncs
}

var _ session.Host = (*Memory)(nil)
