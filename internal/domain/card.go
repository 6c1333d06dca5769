package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Suit is one of the four card suits.
type Suit int

const (
	SuitDiamond Suit = iota
	SuitSpade
	SuitHeart
	SuitClub
)

// Suits lists every suit in canonical deck order.
var Suits = [4]Suit{SuitDiamond, SuitSpade, SuitHeart, SuitClub}

func (s Suit) String() string {
	switch s {
	case SuitDiamond:
		return "♦"
	case SuitSpade:
		return "♠"
	case SuitHeart:
		return "♥"
	case SuitClub:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the lowercase suit name used on the wire.
func (s Suit) Name() string {
	switch s {
	case SuitDiamond:
		return "diamond"
	case SuitSpade:
		return "spade"
	case SuitHeart:
		return "heart"
	case SuitClub:
		return "club"
	default:
		return ""
	}
}

// ParseSuit accepts a suit name or symbol.
func ParseSuit(s string) (Suit, error) {
	switch s {
	case "diamond", "D", "d", "♦":
		return SuitDiamond, nil
	case "spade", "S", "s", "♠":
		return SuitSpade, nil
	case "heart", "H", "h", "♥":
		return SuitHeart, nil
	case "club", "C", "c", "♣":
		return SuitClub, nil
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}

// Rank is a card rank: 1 (Ace) through 13 (King).
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Value is the low-ace numeric value of the rank (A=1, J=11, Q=12, K=13).
func (r Rank) Value() int {
	return int(r)
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r >= 2 && r <= 10 {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// ParseRank accepts "A", "2".."10", "J", "Q", "K".
func ParseRank(s string) (Rank, error) {
	switch s {
	case "A", "a":
		return Ace, nil
	case "J", "j":
		return Jack, nil
	case "Q", "q":
		return Queen, nil
	case "K", "k":
		return King, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 2 && n <= 10 {
		return Rank(n), nil
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// Card is a single physical card. Several cards may share a suit and rank when more
// than one deck is in play, so cards are always handled by pointer and compared by
// identity. ID is the stable key presentation and wire layers use to refer to it.
type Card struct {
	ID   uuid.UUID
	Suit Suit
	Rank Rank
}

// NewCard allocates a card with a fresh identity.
func NewCard(suit Suit, rank Rank) *Card {
	return &Card{ID: uuid.New(), Suit: suit, Rank: rank}
}

func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Rank.String() + c.Suit.String()
}
