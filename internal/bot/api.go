package bot

import (
	"sandwich/internal/app"
	"sandwich/internal/domain"
)

// Engine is the set of turn operations a bot may call. *app.Service implements it, so
// bots go through exactly the same checks as human players.
type Engine interface {
	CanDraw(game *domain.Game) error
	Draw(game *domain.Game, seat int) ([]app.Event, error)
	PlayGroup(game *domain.Game, seat int, cards []*domain.Card) ([]app.Event, error)
	AddToGroup(game *domain.Game, seat int, card *domain.Card, groupIndex int) ([]app.Event, error)
	Reorganize(game *domain.Game, seat int, r app.Reorganization) ([]app.Event, error)
	EndTurn(game *domain.Game, seat int) ([]app.Event, error)
	ResetTurn(game *domain.Game, seat int) ([]app.Event, error)
	Pass(game *domain.Game, seat int) ([]app.Event, error)
}

// Action is the committed action a bot turn ended with.
type Action string

const (
	ActionPlay Action = "play"
	ActionDraw Action = "draw"
	ActionPass Action = "pass"
	ActionEnd  Action = "end"
)

// Outcome reports what a bot turn did.
type Outcome struct {
	Action   Action
	Move     string // candidate kind for ActionPlay
	Cards    []*domain.Card
	Attempts int
	Won      bool
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	TakeTurn(game *domain.Game, seat int) (Outcome, []app.Event, error)
	ThinkSeconds() int
}
