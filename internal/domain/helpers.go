package domain

import "sort"

// IndexOf returns the position of card in cards by identity, or -1.
func IndexOf(cards []*Card, card *Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}

// RemoveCards returns hand without the given card instances. Cards that are not in
// hand are ignored; duplicates by value are never confused since identity is compared.
func RemoveCards(hand []*Card, toRemove []*Card) []*Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}
	drop := make(map[*Card]struct{}, len(toRemove))
	for _, c := range toRemove {
		drop[c] = struct{}{}
	}
	updated := make([]*Card, 0, len(hand))
	for _, c := range hand {
		if _, ok := drop[c]; ok {
			continue
		}
		updated = append(updated, c)
	}
	return updated
}

// HasDuplicates reports whether the same card instance appears twice.
func HasDuplicates(cards []*Card) bool {
	seen := make(map[*Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// SortHand orders cards by suit then rank for display. Rules never depend on hand order.
func SortHand(cards []*Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
}

// FormatCards renders cards as a space separated list.
func FormatCards(cards []*Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
