package domain

import "math/rand"

const (
	// CardsPerSet is the size of one full French deck.
	CardsPerSet = 52
	// DefaultHandSize is how many cards each player is dealt.
	DefaultHandSize = 7
	// LargeTablePlayers is the player count from which a third deck is added.
	LargeTablePlayers = 5
)

// DeckCountFor returns how many full sets are shuffled together for a player count.
func DeckCountFor(players int) int {
	if players >= LargeTablePlayers {
		return 3
	}
	return 2
}

// Deck is the draw pile. The top of the pile is the end of Cards.
type Deck struct {
	Cards []*Card
}

// NewDeck returns deckCount full sets in canonical order: suit-major, rank-minor.
func NewDeck(deckCount int) *Deck {
	cards := make([]*Card, 0, deckCount*CardsPerSet)
	for d := 0; d < deckCount; d++ {
		for _, s := range Suits {
			for r := Ace; r <= King; r++ {
				cards = append(cards, NewCard(s, r))
			}
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle permutes the deck in place. rand.Shuffle walks from the last index down to 1
// and swaps each position with a uniformly chosen index in [0, i].
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) { d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i] })
}

// Len returns the number of cards left to draw.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Cards)
}

// Empty reports whether no card is left.
func (d *Deck) Empty() bool {
	return d.Len() == 0
}

// Pop removes and returns the top card, or nil when the deck is empty.
func (d *Deck) Pop() *Card {
	if d.Empty() {
		return nil
	}
	n := len(d.Cards) - 1
	c := d.Cards[n]
	d.Cards[n] = nil
	d.Cards = d.Cards[:n]
	return c
}
