package domain

import "sort"

// MinGroupSize is the smallest legal table group.
const MinGroupSize = 3

// highAceValue is the value an Ace takes when it sits above the King in a run.
const highAceValue = 14

// GroupKind classifies a set of cards.
type GroupKind int

const (
	GroupInvalid GroupKind = iota
	GroupSandwich            // one rank, pairwise distinct suits
	GroupRun                 // one suit, consecutive ranks
)

func (k GroupKind) String() string {
	switch k {
	case GroupSandwich:
		return "sandwich"
	case GroupRun:
		return "run"
	default:
		return "invalid"
	}
}

// IsValidGroup reports whether the cards form a legal sandwich or run.
// The result does not depend on the order of cards.
func IsValidGroup(cards []*Card) bool {
	return ClassifyGroup(cards) != GroupInvalid
}

// ClassifyGroup returns which rule, if any, the cards satisfy.
func ClassifyGroup(cards []*Card) GroupKind {
	if len(cards) < MinGroupSize {
		return GroupInvalid
	}
	if isSandwich(cards) {
		return GroupSandwich
	}
	if isRun(cards) {
		return GroupRun
	}
	return GroupInvalid
}

func isSandwich(cards []*Card) bool {
	if !allSameRank(cards) {
		return false
	}
	seen := make(map[Suit]struct{}, len(cards))
	for _, c := range cards {
		seen[c.Suit] = struct{}{}
	}
	return len(seen) == len(cards)
}

func isRun(cards []*Card) bool {
	if !allSameSuit(cards) {
		return false
	}
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Rank.Value()
	}
	sort.Ints(values)
	if contiguous(values) {
		return true
	}
	if values[0] != Ace.Value() {
		return false
	}

	// Retry with every ace counted high. The low interpretation has already failed in full.
	high := make([]int, len(values))
	for i, v := range values {
		if v == Ace.Value() {
			v = highAceValue
		}
		high[i] = v
	}
	sort.Ints(high)
	return contiguous(high)
}

func contiguous(sorted []int) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return false // duplicate rank
		}
		if sorted[i] != sorted[i-1]+1 {
			return false
		}
	}
	return true
}

func allSameRank(cards []*Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards {
		if c.Rank != r {
			return false
		}
	}
	return true
}

func allSameSuit(cards []*Card) bool {
	if len(cards) == 0 {
		return false
	}
	s := cards[0].Suit
	for _, c := range cards {
		if c.Suit != s {
			return false
		}
	}
	return true
}
