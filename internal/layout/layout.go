// Package layout provides declarative slot-set helpers for populating
// views.
//
// Grids are row-major with a fixed row width of 9 slots, the native shape
// of the host's container UI. Helpers compute slot index sets; Apply binds
// one item to every slot in a set. Invalid geometry fails fast: it is a
// build-time configuration error, never retried.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Volubles/gridmenu/internal/engine/menu"
)

// RowWidth is the managed grid's row width.
const RowWidth = 9

var (
	// ErrBadSize is returned for sizes that are not positive multiples of
	// RowWidth.
	ErrBadSize = errors.New("size must be a positive multiple of the row width")
	// ErrBadIndex is returned for row/column indices outside the grid.
	ErrBadIndex = errors.New("index outside grid")
	// ErrBadPattern is returned when a pattern mask does not match the
	// grid's shape.
	ErrBadPattern = errors.New("pattern does not match grid shape")
)

// Binder is the slot-binding surface layout helpers drive. *session.Session
// satisfies it.
type Binder interface {
	SetItem(slot int, item menu.Item) error
}

// Validate checks that size is usable grid geometry.
func Validate(size int) error {
	if size <= 0 || size%RowWidth != 0 {
		return fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	return nil
}

// Rows returns the number of rows in a grid of the given size.
func Rows(size int) int {
	return size / RowWidth
}

// Fill returns every slot of the grid.
func Fill(size int) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	out := make([]int, size)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// Border returns the outer ring of the grid. A single-row grid's border is
// the whole row.
func Border(size int) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	rows := Rows(size)
	set := make(map[int]struct{})
	for col := 0; col < RowWidth; col++ {
		set[col] = struct{}{}
		set[(rows-1)*RowWidth+col] = struct{}{}
	}
	for row := 0; row < rows; row++ {
		set[row*RowWidth] = struct{}{}
		set[row*RowWidth+RowWidth-1] = struct{}{}
	}
	return sorted(set), nil
}

// Row returns the slots of one row (zero-based).
func Row(size, row int) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	if row < 0 || row >= Rows(size) {
		return nil, fmt.Errorf("%w: row %d", ErrBadIndex, row)
	}
	out := make([]int, RowWidth)
	for col := 0; col < RowWidth; col++ {
		out[col] = row*RowWidth + col
	}
	return out, nil
}

// Column returns the slots of one column (zero-based).
func Column(size, col int) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	if col < 0 || col >= RowWidth {
		return nil, fmt.Errorf("%w: column %d", ErrBadIndex, col)
	}
	rows := Rows(size)
	out := make([]int, rows)
	for row := 0; row < rows; row++ {
		out[row] = row*RowWidth + col
	}
	return out, nil
}

// Checker returns every slot whose row+column parity matches even.
func Checker(size int, even bool) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	var out []int
	for slot := 0; slot < size; slot++ {
		row, col := slot/RowWidth, slot%RowWidth
		if ((row+col)%2 == 0) == even {
			out = append(out, slot)
		}
	}
	return out, nil
}

// Pattern maps a string mask onto the grid: one string per row, one rune
// per column. Every slot whose rune equals marker is included.
//
//	slots, err := layout.Pattern(27, 'x',
//	    "xxxxxxxxx",
//	    "x       x",
//	    "xxxxxxxxx",
//	)
func Pattern(size int, marker rune, rows ...string) ([]int, error) {
	if err := Validate(size); err != nil {
		return nil, err
	}
	if len(rows) != Rows(size) {
		return nil, fmt.Errorf("%w: %d rows for size %d", ErrBadPattern, len(rows), size)
	}
	var out []int
	for rowIdx, row := range rows {
		runes := []rune(row)
		if len(runes) != RowWidth {
			return nil, fmt.Errorf("%w: row %d has width %d", ErrBadPattern, rowIdx, len(runes))
		}
		for col, r := range runes {
			if r == marker {
				out = append(out, rowIdx*RowWidth+col)
			}
		}
	}
	return out, nil
}

// Apply binds item to every slot in the set, stopping at the first error.
func Apply(b Binder, slots []int, item menu.Item) error {
	for _, slot := range slots {
		if err := b.SetItem(slot, item); err != nil {
			return fmt.Errorf("slot %d: %w", slot, err)
		}
	}
	return nil
}

func sorted(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for slot := range set {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}
