package app

import "sandwich/internal/domain"

// restoreTurn puts the table and the active hand back where the snapshot found them.
// Only the active player can have moved cards, and a turn that drew cannot be restored,
// so every card currently on the table or in the active hand has a snapshot position.
func restoreTurn(game *domain.Game) {
	snap := game.TurnStart
	player := game.PlayerAt(snap.Seat)

	sizes := make([]int, snap.Groups)
	handSize := 0
	for _, loc := range snap.Positions {
		switch {
		case loc.Zone == domain.ZoneTable:
			sizes[loc.Group]++
		case loc.Zone == domain.ZoneHand && loc.Seat == snap.Seat:
			handSize++
		}
	}

	groups := make([]domain.Group, snap.Groups)
	for i, n := range sizes {
		groups[i] = make(domain.Group, n)
	}
	hand := make([]*domain.Card, handSize)
	for c, loc := range snap.Positions {
		switch {
		case loc.Zone == domain.ZoneTable:
			groups[loc.Group][loc.Index] = c
		case loc.Zone == domain.ZoneHand && loc.Seat == snap.Seat:
			hand[loc.Index] = c
		}
	}

	game.Table.Groups = groups
	if player != nil {
		player.Hand = hand
	}
}

// beginTurn hands the turn to seat with fresh flags and a new position snapshot.
func beginTurn(game *domain.Game, seat int) {
	game.CurrentTurn = seat
	game.TurnNumber++
	game.Flags = domain.TurnFlags{}
	game.Pending = make(map[*domain.Card]domain.Location)
	game.TurnStart = game.Snapshot(seat)
}
