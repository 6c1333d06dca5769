package internal

import "sandwich/internal/domain"

// GamePhase describes the current strategic stage of a game.
type GamePhase int

const (
	// PhaseOpening covers the first round, before anyone has had a second turn.
	PhaseOpening GamePhase = iota
	// PhaseMid indicates no one has reached the endgame threshold yet.
	PhaseMid
	// PhaseEnd indicates some player is down to EndgameCards or fewer.
	PhaseEnd
)

// EndgameCards is the hand size at which the game counts as nearly over.
const EndgameCards = 3

func (p GamePhase) String() string {
	switch p {
	case PhaseOpening:
		return "opening"
	case PhaseEnd:
		return "end"
	default:
		return "mid"
	}
}

// DetectPhase infers the phase from turn count and hand sizes.
func DetectPhase(game *domain.Game) GamePhase {
	if game == nil || len(game.Players) == 0 {
		return PhaseMid
	}
	for _, p := range game.Players {
		if p != nil && len(p.Hand) <= EndgameCards {
			return PhaseEnd
		}
	}
	if game.TurnNumber <= len(game.Players) {
		return PhaseOpening
	}
	return PhaseMid
}
