package hands

import (
	"fmt"
	"strings"

	"github.com/behrlich/range-trainer/pkg/cards"
)

// Kind classifies a starting hand.
type Kind uint8

const (
	Pair Kind = iota
	Suited
	Offsuit
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Pair:
		return "pair"
	case Suited:
		return "suited"
	case Offsuit:
		return "offsuit"
	default:
		return "unknown"
	}
}

// Cell addresses one starting hand in the grid.
type Cell struct {
	Row int
	Col int
}

// Valid reports whether both coordinates are in [0,12].
func (c Cell) Valid() bool {
	return checkIndex(c.Row, c.Col) == nil
}

// Kind returns whether c is a pair, suited or offsuit hand.
func (c Cell) Kind() Kind {
	switch {
	case c.Row == c.Col:
		return Pair
	case c.Row < c.Col:
		return Suited
	default:
		return Offsuit
	}
}

// High returns the higher rank of the hand.
func (c Cell) High() cards.Rank {
	return cards.RankAt(min(c.Row, c.Col))
}

// Low returns the lower rank of the hand.
func (c Cell) Low() cards.Rank {
	return cards.RankAt(max(c.Row, c.Col))
}

// NumCombos returns how many concrete card combinations the hand covers.
func (c Cell) NumCombos() int {
	switch c.Kind() {
	case Pair:
		return 6
	case Suited:
		return 4
	default:
		return 12
	}
}

// String returns the hand name, e.g. "AA", "AKs", "72o".
func (c Cell) String() string {
	if !c.Valid() {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	name := c.High().String() + c.Low().String()
	switch c.Kind() {
	case Suited:
		name += "s"
	case Offsuit:
		name += "o"
	}
	return name
}

// CellOf returns the cell for two ranks. suited is ignored for pairs.
func CellOf(r1, r2 cards.Rank, suited bool) Cell {
	hi, lo := cards.GridIndex(r1), cards.GridIndex(r2)
	if hi > lo {
		hi, lo = lo, hi
	}
	if suited {
		return Cell{Row: hi, Col: lo}
	}
	return Cell{Row: lo, Col: hi}
}

// ParseCell parses a hand name such as "AA", "AKs" or "t9o".
func ParseCell(s string) (Cell, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Cell{}, fmt.Errorf("invalid hand notation: %q", s)
	}
	r1, err := cards.ParseRank(s[0])
	if err != nil {
		return Cell{}, err
	}
	r2, err := cards.ParseRank(s[1])
	if err != nil {
		return Cell{}, err
	}
	if r1 == r2 {
		if len(s) == 3 {
			return Cell{}, fmt.Errorf("pair %q cannot have suited/offsuit indicator", s)
		}
		return CellOf(r1, r2, false), nil
	}
	if len(s) == 2 {
		return Cell{}, fmt.Errorf("ambiguous hand %q (use 's' for suited or 'o' for offsuit)", s)
	}
	switch s[2] {
	case 's', 'S':
		return CellOf(r1, r2, true), nil
	case 'o', 'O':
		return CellOf(r1, r2, false), nil
	default:
		return Cell{}, fmt.Errorf("invalid suited/offsuit indicator: %c (expected 's' or 'o')", s[2])
	}
}

// AllCells returns the 169 cells in row-major order.
func AllCells() []Cell {
	out := make([]Cell, 0, NumCells)
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out = append(out, Cell{Row: i, Col: j})
		}
	}
	return out
}
