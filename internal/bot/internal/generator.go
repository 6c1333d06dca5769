package internal

import "sandwich/internal/domain"

// MoveKind classifies a candidate by how much of the table it touches.
type MoveKind int

const (
	// MovePlay lays a new group straight from the hand.
	MovePlay MoveKind = iota
	// MoveAdd appends one hand card to an existing group.
	MoveAdd
	// MoveReorganize pulls one card off a group and builds a new group with hand cards.
	MoveReorganize
	// MoveComplex pulls one card off each of two groups into a new group.
	MoveComplex
)

func (k MoveKind) String() string {
	switch k {
	case MovePlay:
		return "play"
	case MoveAdd:
		return "add"
	case MoveReorganize:
		return "reorganize"
	case MoveComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Candidate is one possible action over the current hand and table.
type Candidate struct {
	Kind     MoveKind
	Hand     []*domain.Card // hand cards the move places
	Group    int            // target group for MoveAdd
	Extract  []*domain.Card // table cards pulled into NewGroup
	NewGroup []*domain.Card // the group built by play, reorganize and complex moves
}

// Reduction is how many cards the move takes out of the hand.
func (c Candidate) Reduction() int {
	return len(c.Hand)
}

// HandGroups lists every valid group that can be laid straight from the hand.
func HandGroups(hand []*domain.Card) []Candidate {
	var out []Candidate
	for _, g := range Groups(hand) {
		out = append(out, Candidate{Kind: MovePlay, Hand: g, NewGroup: g})
	}
	return out
}

// Additions lists every (group, hand card) pair where appending the card keeps the
// group valid.
func Additions(hand []*domain.Card, table *domain.Table) []Candidate {
	var out []Candidate
	for gi, g := range table.Groups {
		for _, c := range hand {
			extended := append(append(make([]*domain.Card, 0, len(g)+1), g...), c)
			if domain.IsValidGroup(extended) {
				out = append(out, Candidate{Kind: MoveAdd, Hand: []*domain.Card{c}, Group: gi})
			}
		}
	}
	return out
}

// Removable returns the indexes of cards that can leave g while the rest stays valid.
func Removable(g domain.Group) []int {
	if len(g) <= domain.MinGroupSize {
		return nil
	}
	var out []int
	rest := make([]*domain.Card, 0, len(g)-1)
	for i := range g {
		rest = rest[:0]
		rest = append(rest, g[:i]...)
		rest = append(rest, g[i+1:]...)
		if domain.IsValidGroup(rest) {
			out = append(out, i)
		}
	}
	return out
}

// Reorganizations lists moves that take one removable card off a group and build a
// new group from it and at least two hand cards. Each removable card spends one check.
func Reorganizations(hand []*domain.Card, table *domain.Table, budget *Budget) []Candidate {
	var out []Candidate
	for _, g := range table.Groups {
		for _, i := range Removable(g) {
			if !budget.Spend() {
				return out
			}
			out = append(out, groupsWith(hand, MoveReorganize, g[i])...)
		}
	}
	return out
}

// ComplexMoves lists moves that take one removable card off each of two groups and
// build a new group from both and at least one hand card. Each pair that shares a rank
// or a suit spends one check.
func ComplexMoves(hand []*domain.Card, table *domain.Table, budget *Budget) []Candidate {
	var out []Candidate
	for a := 0; a < len(table.Groups); a++ {
		for b := a + 1; b < len(table.Groups); b++ {
			ga, gb := table.Groups[a], table.Groups[b]
			for _, i := range Removable(ga) {
				for _, j := range Removable(gb) {
					x, y := ga[i], gb[j]
					if x.Rank != y.Rank && x.Suit != y.Suit {
						continue
					}
					if !budget.Spend() {
						return out
					}
					out = append(out, groupsWith(hand, MoveComplex, x, y)...)
				}
			}
		}
	}
	return out
}
