package internal

import "sandwich/internal/domain"

// HandProfile summarizes how close the cards left in a hand are to forming groups.
type HandProfile struct {
	TotalCards int
	Pairs      int // same rank, different suits: one card short of a sandwich
	Links      int // same suit, one or two ranks apart: one card short of a run
	Singles    int // cards with no partner at all
}

// ProfileHand counts partial groups in hand. Each unordered pair of cards is counted
// at most once.
func ProfileHand(hand []*domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand)}
	partnered := make([]bool, len(hand))

	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			a, b := hand[i], hand[j]
			switch {
			case a.Rank == b.Rank && a.Suit != b.Suit:
				profile.Pairs++
			case a.Suit == b.Suit && linked(a.Rank, b.Rank):
				profile.Links++
			default:
				continue
			}
			partnered[i] = true
			partnered[j] = true
		}
	}
	for _, ok := range partnered {
		if !ok {
			profile.Singles++
		}
	}
	return profile
}

// Structure scores a profile: partial groups count for, loose cards against.
func (p HandProfile) Structure() float64 {
	return float64(p.Pairs+p.Links) - 0.5*float64(p.Singles)
}

func linked(a, b domain.Rank) bool {
	d := a.Value() - b.Value()
	if d < 0 {
		d = -d
	}
	if d == 1 || d == 2 {
		return true
	}
	// Ace sits next to the king as well as the two.
	return (a == domain.Ace || b == domain.Ace) && (d == 11 || d == 12)
}
