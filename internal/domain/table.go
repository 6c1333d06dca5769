package domain

import (
	"errors"
	"fmt"
)

// ErrNoSuchGroup is returned when a group or card index does not exist.
var ErrNoSuchGroup = errors.New("no such table group")

// Group is an ordered cluster of cards on the table.
type Group []*Card

// Table holds every group in play. Mutators keep groups non-empty but do not enforce
// group validity: a turn may leave groups invalid until it ends.
type Table struct {
	Groups []Group
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// IsValid reports whether every group is legal. An empty table is valid.
func (t *Table) IsValid() bool {
	for _, g := range t.Groups {
		if len(g) == 0 || !IsValidGroup(g) {
			return false
		}
	}
	return true
}

// InvalidGroups returns the indexes of groups that would block the end of a turn.
func (t *Table) InvalidGroups() []int {
	var out []int
	for i, g := range t.Groups {
		if !IsValidGroup(g) {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of groups.
func (t *Table) Len() int {
	return len(t.Groups)
}

// CardCount returns the number of cards on the table.
func (t *Table) CardCount() int {
	n := 0
	for _, g := range t.Groups {
		n += len(g)
	}
	return n
}

// AddGroup appends a new group holding a copy of cards and returns its index.
func (t *Table) AddGroup(cards []*Card) (int, error) {
	if len(cards) == 0 {
		return -1, errors.New("cannot add an empty group")
	}
	g := make(Group, len(cards))
	copy(g, cards)
	t.Groups = append(t.Groups, g)
	return len(t.Groups) - 1, nil
}

// RemoveGroup deletes the group at index and returns its cards.
func (t *Table) RemoveGroup(index int) (Group, error) {
	if index < 0 || index >= len(t.Groups) {
		return nil, fmt.Errorf("%w: group %d", ErrNoSuchGroup, index)
	}
	g := t.Groups[index]
	t.Groups = append(t.Groups[:index], t.Groups[index+1:]...)
	return g, nil
}

// AddToGroup appends card to the group at groupIndex.
func (t *Table) AddToGroup(groupIndex int, card *Card) error {
	if groupIndex < 0 || groupIndex >= len(t.Groups) {
		return fmt.Errorf("%w: group %d", ErrNoSuchGroup, groupIndex)
	}
	t.Groups[groupIndex] = append(t.Groups[groupIndex], card)
	return nil
}

// RemoveFromGroup takes the card at cardIndex out of a group. A group left empty is
// deleted, shifting later group indexes down by one.
func (t *Table) RemoveFromGroup(groupIndex, cardIndex int) (*Card, error) {
	if groupIndex < 0 || groupIndex >= len(t.Groups) {
		return nil, fmt.Errorf("%w: group %d", ErrNoSuchGroup, groupIndex)
	}
	g := t.Groups[groupIndex]
	if cardIndex < 0 || cardIndex >= len(g) {
		return nil, fmt.Errorf("%w: card %d in group %d", ErrNoSuchGroup, cardIndex, groupIndex)
	}
	card := g[cardIndex]
	rest := make(Group, 0, len(g)-1)
	rest = append(rest, g[:cardIndex]...)
	rest = append(rest, g[cardIndex+1:]...)
	if len(rest) == 0 {
		t.Groups = append(t.Groups[:groupIndex], t.Groups[groupIndex+1:]...)
	} else {
		t.Groups[groupIndex] = rest
	}
	return card, nil
}

// Locate returns the group and position of card, compared by identity.
func (t *Table) Locate(card *Card) (group, index int, ok bool) {
	for gi, g := range t.Groups {
		for ci, c := range g {
			if c == card {
				return gi, ci, true
			}
		}
	}
	return -1, -1, false
}

// Contains reports whether card is on the table.
func (t *Table) Contains(card *Card) bool {
	_, _, ok := t.Locate(card)
	return ok
}

// Clone copies the group structure. Cards are shared, since they are identities.
func (t *Table) Clone() *Table {
	out := &Table{Groups: make([]Group, len(t.Groups))}
	for i, g := range t.Groups {
		out.Groups[i] = append(Group(nil), g...)
	}
	return out
}
