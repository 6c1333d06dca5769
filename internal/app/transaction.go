package app

import (
	"fmt"

	"sandwich/internal/domain"
)

// proposal is a speculative copy of the table and the active hand. Moves are applied to
// the proposal, checked, and then either committed in one step or dropped, so a
// rejected move never touches the live game.
type proposal struct {
	game     *domain.Game
	player   *domain.Player
	before   *domain.Table
	table    *domain.Table
	hand     []*domain.Card
	resolved []*domain.Card
}

func newProposal(game *domain.Game) *proposal {
	player := game.ActivePlayer()
	return &proposal{
		game:   game,
		player: player,
		before: game.Table,
		table:  game.Table.Clone(),
		hand:   append([]*domain.Card(nil), player.Hand...),
	}
}

// placeFromHand removes hand cards that are about to land on the table.
func (p *proposal) placeFromHand(cards []*domain.Card) {
	p.hand = domain.RemoveCards(p.hand, cards)
	for _, c := range cards {
		if _, ok := p.game.Pending[c]; ok {
			p.resolved = append(p.resolved, c)
		}
	}
}

// check rejects the proposal when it leaves an invalid group that was not already
// sitting unchanged on the table before the move.
func (p *proposal) check() error {
	for i, g := range p.table.Groups {
		if domain.IsValidGroup(g) || p.unchanged(g) {
			continue
		}
		return fmt.Errorf("%w: group %d (%s) is not a sandwich or a run", ErrMoveRejected, i, domain.FormatCards(g))
	}
	return nil
}

func (p *proposal) unchanged(g domain.Group) bool {
	for _, old := range p.before.Groups {
		if sameGroup(old, g) {
			return true
		}
	}
	return false
}

func (p *proposal) commit() {
	p.game.Table = p.table
	p.player.Hand = p.hand
	for _, c := range p.resolved {
		delete(p.game.Pending, c)
	}
}

func sameGroup(a, b domain.Group) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
