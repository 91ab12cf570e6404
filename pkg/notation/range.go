// Package notation converts between hand matrices and the comma-separated
// range notation used by most poker tools ("22+,A2s+,KTo+,QJs-Q9s").
package notation

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/behrlich/range-trainer/pkg/cards"
	"github.com/behrlich/range-trainer/pkg/hands"
)

// Combo represents a specific 2-card combination (hole cards)
type Combo struct {
	Card1 cards.Card
	Card2 cards.Card
}

// String returns the combo in standard notation (e.g., "AsKh")
func (c Combo) String() string {
	return c.Card1.String() + c.Card2.String()
}

// ParseRange parses a range string into a hand matrix.
// Examples:
//   - "AA" → the AA cell
//   - "AKs" / "AKo" → one cell; "AK" → both AKs and AKo
//   - "KK-JJ" → KK, QQ, JJ
//   - "AKs-ATs" → AKs, AQs, AJs, ATs
//   - "77+" → 77 through AA; "ATs+" → ATs through AKs
//
// An empty string is the empty range.
func ParseRange(rangeStr string) (hands.Matrix, error) {
	var m hands.Matrix

	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var cells []hands.Cell
		var err error
		switch {
		case strings.Contains(part, "-"):
			cells, err = parseDashRange(part)
		case strings.HasSuffix(part, "+"):
			cells, err = parsePlusRange(strings.TrimSuffix(part, "+"))
		default:
			cells, err = parseToken(part)
		}
		if err != nil {
			return hands.Matrix{}, fmt.Errorf("error parsing %q: %w", part, err)
		}
		for _, c := range cells {
			m[c.Row][c.Col] = true
		}
	}

	return m, nil
}

// MustParseRange is like ParseRange but panics on error. Intended for
// static tables and tests.
func MustParseRange(rangeStr string) hands.Matrix {
	m, err := ParseRange(rangeStr)
	if err != nil {
		panic(err)
	}
	return m
}

// handSpec is a parsed hand token. For non-pairs, suited and offsuit say
// which of the two cells the token covers.
type handSpec struct {
	hi, lo          cards.Rank
	suited, offsuit bool
}

func (h handSpec) pair() bool { return h.hi == h.lo }

func (h handSpec) cells() []hands.Cell {
	if h.pair() {
		return []hands.Cell{hands.CellOf(h.hi, h.lo, false)}
	}
	var out []hands.Cell
	if h.suited {
		out = append(out, hands.CellOf(h.hi, h.lo, true))
	}
	if h.offsuit {
		out = append(out, hands.CellOf(h.hi, h.lo, false))
	}
	return out
}

// parseHandSpec parses "AA", "AKs", "AKo" or "AK" (both suits).
func parseHandSpec(hand string) (handSpec, error) {
	hand = strings.TrimSpace(hand)
	if len(hand) < 2 || len(hand) > 3 {
		return handSpec{}, fmt.Errorf("invalid hand notation: %q", hand)
	}

	rank1, err := cards.ParseRank(hand[0])
	if err != nil {
		return handSpec{}, err
	}
	rank2, err := cards.ParseRank(hand[1])
	if err != nil {
		return handSpec{}, err
	}
	if rank2 > rank1 {
		rank1, rank2 = rank2, rank1
	}
	h := handSpec{hi: rank1, lo: rank2}

	if len(hand) == 2 {
		h.suited, h.offsuit = true, true
		return h, nil
	}
	if h.pair() {
		return handSpec{}, fmt.Errorf("pair %q cannot have suited/offsuit indicator", hand)
	}
	switch hand[2] {
	case 's', 'S':
		h.suited = true
	case 'o', 'O':
		h.offsuit = true
	default:
		return handSpec{}, fmt.Errorf("invalid suited/offsuit indicator: %c (expected 's' or 'o')", hand[2])
	}
	return h, nil
}

func parseToken(tok string) ([]hands.Cell, error) {
	h, err := parseHandSpec(tok)
	if err != nil {
		return nil, err
	}
	return h.cells(), nil
}

// parsePlusRange expands "77" to 77..AA and "ATs" to ATs..AKs.
func parsePlusRange(tok string) ([]hands.Cell, error) {
	h, err := parseHandSpec(tok)
	if err != nil {
		return nil, err
	}

	var out []hands.Cell
	if h.pair() {
		for r := h.lo; r <= cards.Ace; r++ {
			out = append(out, hands.CellOf(r, r, false))
		}
		return out, nil
	}
	for r := h.lo; r < h.hi; r++ {
		out = append(out, handSpec{hi: h.hi, lo: r, suited: h.suited, offsuit: h.offsuit}.cells()...)
	}
	return out, nil
}

// parseDashRange parses "KK-JJ" or "AKs-ATs". Endpoints may come in either order.
func parseDashRange(rangeStr string) ([]hands.Cell, error) {
	parts := strings.Split(rangeStr, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range format: %q (expected format: AA-KK)", rangeStr)
	}

	start, err := parseHandSpec(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid start hand %q: %w", parts[0], err)
	}
	end, err := parseHandSpec(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid end hand %q: %w", parts[1], err)
	}

	var out []hands.Cell

	if start.pair() && end.pair() {
		lo, hi := start.hi, end.hi
		if lo > hi {
			lo, hi = hi, lo
		}
		for r := lo; r <= hi; r++ {
			out = append(out, hands.CellOf(r, r, false))
		}
		return out, nil
	}

	if start.pair() || end.pair() {
		return nil, fmt.Errorf("cannot mix pairs and non-pairs in range %q", rangeStr)
	}
	if start.hi != end.hi {
		return nil, fmt.Errorf("invalid range %q (first rank must match)", rangeStr)
	}
	if start.suited != end.suited || start.offsuit != end.offsuit {
		return nil, fmt.Errorf("mismatched suited/offsuit in range %q", rangeStr)
	}

	lo, hi := start.lo, end.lo
	if lo > hi {
		lo, hi = hi, lo
	}
	for r := lo; r <= hi; r++ {
		out = append(out, handSpec{hi: start.hi, lo: r, suited: start.suited, offsuit: start.offsuit}.cells()...)
	}
	return out, nil
}

// FormatRange returns the canonical compact notation for m: pair runs first,
// then suited and offsuit runs per high card. ParseRange(FormatRange(m)) == m.
func FormatRange(m hands.Matrix) string {
	var parts []string

	// Pairs live on the diagonal; index 0 is AA.
	parts = append(parts, formatRuns(func(i int) bool { return m[i][i] }, 0, hands.Size,
		func(i int) string { r := cards.RankAt(i).String(); return r + r }, "")...)

	for _, suffix := range []string{"s", "o"} {
		for hi := 0; hi < hands.Size-1; hi++ {
			hiStr := cards.RankAt(hi).String()
			has := func(lo int) bool {
				if suffix == "s" {
					return m[hi][lo]
				}
				return m[lo][hi]
			}
			parts = append(parts, formatRuns(has, hi+1, hands.Size,
				func(lo int) string { return hiStr + cards.RankAt(lo).String() }, suffix)...)
		}
	}

	return strings.Join(parts, ",")
}

// formatRuns emits one token per maximal run of set indices in [from,to).
// A run that starts at from (the strongest hand in the group) and covers
// more than one hand is written with "+".
func formatRuns(has func(int) bool, from, to int, name func(int) string, suffix string) []string {
	var out []string
	for i := from; i < to; {
		if !has(i) {
			i++
			continue
		}
		j := i
		for j+1 < to && has(j+1) {
			j++
		}
		switch {
		case i == j:
			out = append(out, name(i)+suffix)
		case i == from:
			out = append(out, name(j)+suffix+"+")
		default:
			out = append(out, name(i)+suffix+"-"+name(j)+suffix)
		}
		i = j + 1
	}
	return out
}

// Combos returns every concrete card combination for a cell: 6 for a pair,
// 4 suited, 12 offsuit.
func Combos(c hands.Cell) []Combo {
	var combos []Combo
	hi, lo := c.High(), c.Low()

	switch c.Kind() {
	case hands.Pair:
		for i := 0; i < len(cards.Suits); i++ {
			for j := i + 1; j < len(cards.Suits); j++ {
				combos = append(combos, Combo{
					Card1: cards.NewCard(hi, cards.Suits[i]),
					Card2: cards.NewCard(lo, cards.Suits[j]),
				})
			}
		}
	case hands.Suited:
		for _, suit := range cards.Suits {
			combos = append(combos, Combo{
				Card1: cards.NewCard(hi, suit),
				Card2: cards.NewCard(lo, suit),
			})
		}
	default:
		for _, suit1 := range cards.Suits {
			for _, suit2 := range cards.Suits {
				if suit1 != suit2 {
					combos = append(combos, Combo{
						Card1: cards.NewCard(hi, suit1),
						Card2: cards.NewCard(lo, suit2),
					})
				}
			}
		}
	}

	return combos
}

// Deal picks one concrete combo of c uniformly at random.
func Deal(c hands.Cell, rng *rand.Rand) Combo {
	combos := Combos(c)
	return combos[rng.Intn(len(combos))]
}
