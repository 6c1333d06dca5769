package bot

import (
	"sandwich/internal/app"
	"sandwich/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID    string
	Name  string
	Level Difficulty
	Brain Brain
}

// Play takes the agent's turn if it is seated at the active seat.
func (a *Agent) Play(game *domain.Game) (Outcome, []app.Event, error) {
	seat := a.Seat(game)
	if seat < 0 {
		return Outcome{}, nil, app.ErrNotYourTurn
	}
	return a.Brain.TakeTurn(game, seat)
}

// Seat returns the agent's seat in game, or -1 when it is not seated.
func (a *Agent) Seat(game *domain.Game) int {
	for _, p := range game.Players {
		if p.UserID == a.ID {
			return p.Seat
		}
	}
	return -1
}
