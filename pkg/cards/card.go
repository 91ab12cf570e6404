// Package cards models ranks, suits and hole cards, and maps ranks onto the
// rows and columns of the 13x13 starting-hand grid.
package cards

import (
	"fmt"
	"strings"
)

// Rank represents a card rank (2-A)
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks, and the side length of the hand grid.
const NumRanks = 13

// RankOrder lists rank characters in grid order: row/column 0 is the ace.
const RankOrder = "AKQJT98765432"

// Suit represents a card suit
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in a fixed order.
var Suits = [4]Suit{Spades, Hearts, Diamonds, Clubs}

// Card represents a single playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// GridIndex returns the row/column of r in the hand grid (Ace=0 ... Two=12).
func GridIndex(r Rank) int {
	return int(Ace) - int(r)
}

// RankAt is the inverse of GridIndex. It panics on an index outside [0,12].
func RankAt(i int) Rank {
	if i < 0 || i >= NumRanks {
		panic(fmt.Sprintf("cards: grid index %d out of range", i))
	}
	return Ace - Rank(i)
}

// ParseRank converts a rank character ("A", "t", "9", ...) to a Rank.
func ParseRank(b byte) (Rank, error) {
	i := strings.IndexByte(RankOrder, upper(b))
	if i < 0 {
		return 0, fmt.Errorf("invalid rank: %c", b)
	}
	return RankAt(i), nil
}

// ParseSuit converts a suit character to a Suit.
func ParseSuit(b byte) (Suit, error) {
	switch b {
	case 's', 'S':
		return Spades, nil
	case 'h', 'H':
		return Hearts, nil
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	default:
		return 0, fmt.Errorf("invalid suit: %c", b)
	}
}

// ParseCard parses a card from string notation (e.g., "As", "Kh", "Td")
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string: %q (must be 2 characters)", s)
	}

	rank, err := ParseRank(s[0])
	if err != nil {
		return Card{}, err
	}

	suit, err := ParseSuit(s[1])
	if err != nil {
		return Card{}, err
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses multiple cards from a string (e.g., "AsKh")
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid cards string: %q (must have even length)", s)
	}

	out := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("error parsing card at position %d: %w", i, err)
		}
		out = append(out, card)
	}

	return out, nil
}

// String returns the card in standard notation (e.g., "As", "Kh")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// String returns the rank as a single character
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(RankOrder[GridIndex(r)])
}

// String returns the suit as a single character
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
