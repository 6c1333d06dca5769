package main

import (
	"fmt"
	"math/rand"

	"github.com/heroiclabs/nakama-common/runtime"

	"sandwich/internal/app"
	"sandwich/internal/bot"
	"sandwich/internal/config"
	"sandwich/internal/domain"
)

// seating describes who sits at a seat before the game starts.
type seating struct {
	UserID string
	Name   string
	Bot    bool
	Level  bot.Difficulty
}

// session is one local game: the engine, the game and the bots driving their seats.
type session struct {
	svc    *app.Service
	game   *domain.Game
	agents map[int]*bot.Agent
	logger runtime.Logger
	turns  int
}

func newSession(seats []seating, rng *rand.Rand, logger runtime.Logger) (*session, []app.Event, error) {
	cfg := config.GetGameConfig()
	if len(seats) > cfg.MaxPlayers {
		return nil, nil, fmt.Errorf("%d seats, the table holds at most %d", len(seats), cfg.MaxPlayers)
	}

	svc := app.NewService(rng)
	players := make([]*domain.Player, len(seats))
	for i, s := range seats {
		players[i] = &domain.Player{UserID: s.UserID, Name: s.Name, IsBot: s.Bot}
	}
	game, events, err := svc.StartGame(players, app.GameOptions{HandSize: cfg.HandSize, DeckCount: cfg.DeckCount})
	if err != nil {
		return nil, nil, err
	}

	s := &session{
		svc:    svc,
		game:   game,
		agents: make(map[int]*bot.Agent),
		logger: logger.WithField("game_id", game.ID.String()),
	}
	for i, st := range seats {
		if !st.Bot {
			continue
		}
		agent, err := bot.NewAgent(st.UserID, st.Name, st.Level, bot.Options{Engine: svc, Rng: rng, Logger: s.logger})
		if err != nil {
			return nil, nil, err
		}
		s.agents[i] = agent
	}
	return s, events, nil
}

// botSeat returns the agent playing the active seat, or nil for a human.
func (s *session) botSeat() *bot.Agent {
	return s.agents[s.game.CurrentTurn]
}

// playBot lets the bot at the active seat take its whole turn.
func (s *session) playBot() (bot.Outcome, []app.Event, error) {
	agent := s.botSeat()
	if agent == nil {
		return bot.Outcome{}, nil, fmt.Errorf("seat %d is not a bot", s.game.CurrentTurn)
	}
	before := s.game.TurnNumber
	outcome, events, err := agent.Play(s.game)
	if err != nil {
		s.logger.WithField("seat", s.game.CurrentTurn).Error("bot turn failed: %v", err)
		return outcome, events, err
	}
	if s.game.TurnNumber != before || s.game.Finished() {
		s.turns++
	}
	s.logger.Debug("%s: %s %s after %d attempt(s)", agent.Name, outcome.Action, outcome.Move, outcome.Attempts)
	return outcome, events, nil
}

// apply runs a human command for the active seat.
func (s *session) apply(cmd command) ([]app.Event, error) {
	before := s.game.TurnNumber
	events, err := cmd.run(s.svc, s.game, s.game.CurrentTurn)
	if err != nil {
		return nil, err
	}
	if s.game.TurnNumber != before || s.game.Finished() {
		s.turns++
	}
	return events, nil
}

// turnLimit bounds a bots-only game. Every turn draws from the deck, places a hand
// card or counts a pass, and only a placement clears the pass count.
func turnLimit(game *domain.Game) int {
	return 2 * game.TotalCards() * (len(game.Players) + 1)
}

type gameResult struct {
	Winner    string
	Stalemate bool
	Finished  bool
	Turns     int
	Groups    int
}

// runBots plays a game where every seat is a bot until it ends or hits the turn limit.
func runBots(seats []seating, rng *rand.Rand, logger runtime.Logger) (gameResult, error) {
	s, _, err := newSession(seats, rng, logger)
	if err != nil {
		return gameResult{}, err
	}
	if len(s.agents) != len(seats) {
		return gameResult{}, fmt.Errorf("every seat needs a bot")
	}

	limit := turnLimit(s.game)
	for !s.game.Finished() && s.turns < limit {
		if _, _, err := s.playBot(); err != nil {
			return gameResult{}, err
		}
	}

	result := gameResult{
		Finished:  s.game.Finished(),
		Stalemate: s.game.Finished() && s.game.Winner == domain.NoWinner,
		Turns:     s.turns,
		Groups:    s.game.Table.Len(),
	}
	if w := s.game.PlayerAt(s.game.Winner); w != nil {
		result.Winner = w.Name
	}
	if !result.Finished {
		s.logger.Warn("game stopped after %d turns without a winner", s.turns)
	}
	return result, nil
}

// botSeats fills n seats from the identity pool. A non-nil level overrides each
// identity's own difficulty.
func botSeats(n int, level *bot.Difficulty) []seating {
	seats := make([]seating, n)
	for i := range seats {
		identity := bot.GetBotIdentity(i)
		name := identity.DisplayName
		if name == "" {
			name = identity.Username
		}
		id := identity.UserID
		if id == "" {
			id = fmt.Sprintf("bot-%d", i)
		}
		seats[i] = seating{UserID: id, Name: name, Bot: true, Level: identity.Level()}
		if level != nil {
			seats[i].Level = *level
		}
	}
	return seats
}
