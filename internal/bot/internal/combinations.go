package internal

import (
	"math/bits"

	"sandwich/internal/domain"
)

// DefaultBudget bounds how many anchor cards or pairs one table search may try.
const DefaultBudget = 4000

// highAce is the value an Ace takes above the King.
const highAce = 14

// Budget counts down the checks a search may still perform.
type Budget struct {
	left int
}

// NewBudget returns a budget of n checks. n <= 0 selects DefaultBudget.
func NewBudget(n int) *Budget {
	if n <= 0 {
		n = DefaultBudget
	}
	return &Budget{left: n}
}

// Spend consumes one check and reports whether it was available.
func (b *Budget) Spend() bool {
	if b.left <= 0 {
		return false
	}
	b.left--
	return true
}

// Groups lists every valid group that can be built from cards. Copies of one card are
// interchangeable, so a group always uses the first copy in cards; callers put the
// cards a group must contain first.
func Groups(cards []*domain.Card) [][]*domain.Card {
	return append(sandwiches(cards), runs(cards)...)
}

// sandwiches picks one card per suit for each rank. With four suits a rank yields at
// most five groups.
func sandwiches(cards []*domain.Card) [][]*domain.Card {
	first := make(map[domain.Rank]map[domain.Suit]*domain.Card)
	for _, c := range cards {
		if first[c.Rank] == nil {
			first[c.Rank] = make(map[domain.Suit]*domain.Card)
		}
		if _, ok := first[c.Rank][c.Suit]; !ok {
			first[c.Rank][c.Suit] = c
		}
	}

	var out [][]*domain.Card
	for r := domain.Ace; r <= domain.King; r++ {
		var suited []*domain.Card
		for _, s := range domain.Suits {
			if c, ok := first[r][s]; ok {
				suited = append(suited, c)
			}
		}
		if len(suited) < domain.MinGroupSize {
			continue
		}
		for mask := uint(1); mask < 1<<len(suited); mask++ {
			if bits.OnesCount(mask) < domain.MinGroupSize {
				continue
			}
			g := make([]*domain.Card, 0, len(suited))
			for i, c := range suited {
				if mask&(1<<i) != 0 {
					g = append(g, c)
				}
			}
			out = append(out, g)
		}
	}
	return out
}

// runs lists every window of consecutive values present in one suit. The Ace sits at
// both ends of the value line but a window never wraps through it twice.
func runs(cards []*domain.Card) [][]*domain.Card {
	var out [][]*domain.Card
	for _, s := range domain.Suits {
		var at [highAce + 1]*domain.Card
		for _, c := range cards {
			if c.Suit == s && at[c.Rank.Value()] == nil {
				at[c.Rank.Value()] = c
			}
		}
		at[highAce] = at[domain.Ace.Value()]

		for lo := 1; lo <= highAce-domain.MinGroupSize+1; lo++ {
			for hi := lo; hi <= highAce && at[hi] != nil; hi++ {
				if lo == 1 && hi == highAce {
					break
				}
				if hi-lo+1 >= domain.MinGroupSize {
					out = append(out, append([]*domain.Card(nil), at[lo:hi+1]...))
				}
			}
		}
	}
	return out
}

// Partners returns the cards that could share a group with every card in anchors:
// cards of the anchors' rank when they share one, and cards of the anchors' suit when
// they share one. Each card appears once.
func Partners(cards []*domain.Card, anchors ...*domain.Card) []*domain.Card {
	if len(anchors) == 0 {
		return nil
	}
	sameRank, sameSuit := true, true
	for _, a := range anchors[1:] {
		sameRank = sameRank && a.Rank == anchors[0].Rank
		sameSuit = sameSuit && a.Suit == anchors[0].Suit
	}

	var out []*domain.Card
	for _, c := range cards {
		if (sameRank && c.Rank == anchors[0].Rank) || (sameSuit && c.Suit == anchors[0].Suit) {
			out = append(out, c)
		}
	}
	return out
}

// groupsWith lists the groups that contain every anchor plus at least one hand card.
// The hand part of each candidate is the group without its anchors.
func groupsWith(hand []*domain.Card, kind MoveKind, anchors ...*domain.Card) []Candidate {
	pool := append(append([]*domain.Card(nil), anchors...), Partners(hand, anchors...)...)

	var out []Candidate
	for _, g := range Groups(pool) {
		var fromHand []*domain.Card
		held := 0
		for _, c := range g {
			if domain.IndexOf(anchors, c) >= 0 {
				held++
			} else {
				fromHand = append(fromHand, c)
			}
		}
		if held != len(anchors) || len(fromHand) == 0 {
			continue
		}
		out = append(out, Candidate{
			Kind:     kind,
			Hand:     fromHand,
			Extract:  append([]*domain.Card(nil), anchors...),
			NewGroup: g,
		})
	}
	return out
}
