// Package hands represents sets of the 169 canonical starting hands as a
// 13x13 boolean grid.
//
// Row/column i is the rank at position i of "AKQJT98765432". Cell (i,j) is
// the suited combo of the two ranks when i<j, the offsuit combo when i>j and
// the pocket pair when i==j.
package hands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/cards"
)

// Size is the side length of the grid.
const Size = cards.NumRanks

// NumCells is the number of canonical starting hands.
const NumCells = Size * Size

// ErrIndex is matched by every IndexError.
var ErrIndex = errors.New("cell index out of range")

// IndexError reports a cell coordinate outside [0,12].
type IndexError struct {
	Row, Col int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("cell (%d,%d) out of range [0,%d]", e.Row, e.Col, Size-1)
}

// Is reports whether target is ErrIndex.
func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// Matrix is a subset of the 169 starting hands. The zero value is the empty
// range. Matrix is a value type: assignment copies every cell.
type Matrix [Size][Size]bool

// Full returns the range containing every hand.
func Full() Matrix {
	var m Matrix
	for i := range m {
		for j := range m[i] {
			m[i][j] = true
		}
	}
	return m
}

func checkIndex(i, j int) error {
	if i < 0 || i >= Size || j < 0 || j >= Size {
		return &IndexError{Row: i, Col: j}
	}
	return nil
}

// At returns the value of cell (i,j).
func (m Matrix) At(i, j int) (bool, error) {
	if err := checkIndex(i, j); err != nil {
		return false, err
	}
	return m[i][j], nil
}

// Has reports whether c is in the range. Invalid cells are never in a range.
func (m Matrix) Has(c Cell) bool {
	if !c.Valid() {
		return false
	}
	return m[c.Row][c.Col]
}

// Set assigns cell (i,j).
func (m *Matrix) Set(i, j int, v bool) error {
	if err := checkIndex(i, j); err != nil {
		return err
	}
	m[i][j] = v
	return nil
}

// Toggle flips cell (i,j) and returns its new value.
func (m *Matrix) Toggle(i, j int) (bool, error) {
	if err := checkIndex(i, j); err != nil {
		return false, err
	}
	m[i][j] = !m[i][j]
	return m[i][j], nil
}

// Invert returns the complement of m. m is not modified.
func (m Matrix) Invert() Matrix {
	for i := range m {
		for j := range m[i] {
			m[i][j] = !m[i][j]
		}
	}
	return m
}

// Union returns the cellwise OR of m and other.
func (m Matrix) Union(other Matrix) Matrix {
	for i := range m {
		for j := range m[i] {
			m[i][j] = m[i][j] || other[i][j]
		}
	}
	return m
}

// Intersect returns the cellwise AND of m and other.
func (m Matrix) Intersect(other Matrix) Matrix {
	for i := range m {
		for j := range m[i] {
			m[i][j] = m[i][j] && other[i][j]
		}
	}
	return m
}

// Count returns the number of hands (cells) in the range.
func (m Matrix) Count() int {
	n := 0
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				n++
			}
		}
	}
	return n
}

// Combos returns the number of concrete two-card combinations in the range
// (6 per pair, 4 per suited hand, 12 per offsuit hand).
func (m Matrix) Combos() int {
	n := 0
	for _, c := range m.Cells() {
		n += c.NumCombos()
	}
	return n
}

// IsEmpty reports whether no hand is in the range.
func (m Matrix) IsEmpty() bool {
	return m.Count() == 0
}

// Cells returns the hands in the range in row-major order.
func (m Matrix) Cells() []Cell {
	var out []Cell
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				out = append(out, Cell{Row: i, Col: j})
			}
		}
	}
	return out
}

// String renders the grid one row per line, 'x' for hands in the range.
func (m Matrix) String() string {
	var b strings.Builder
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		if i < Size-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Comparison is the outcome of grading an entered range against a reference.
type Comparison struct {
	Over  Matrix // entered but not in the reference
	Under Matrix // in the reference but not entered
	Match Matrix // entered and in the reference
}

// Diff grades entered against reference. The three results are pairwise
// disjoint.
func Diff(entered, reference Matrix) Comparison {
	var c Comparison
	for i := range entered {
		for j := range entered[i] {
			e, r := entered[i][j], reference[i][j]
			c.Over[i][j] = e && !r
			c.Under[i][j] = !e && r
			c.Match[i][j] = e && r
		}
	}
	return c
}

// Perfect reports whether the entered range equalled the reference.
func (c Comparison) Perfect() bool {
	return c.Over.IsEmpty() && c.Under.IsEmpty()
}
