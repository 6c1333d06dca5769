package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"sandwich/internal/app"
	"sandwich/internal/domain"
	"sandwich/internal/logging"
)

func mustCards(specs ...string) []*domain.Card {
	out := make([]*domain.Card, 0, len(specs))
	for _, s := range specs {
		rank, err := domain.ParseRank(s[:len(s)-1])
		if err != nil {
			panic(err)
		}
		suit, err := domain.ParseSuit(s[len(s)-1:])
		if err != nil {
			panic(err)
		}
		out = append(out, domain.NewCard(suit, rank))
	}
	return out
}

// newLayout seats one player per hand and starts seat 0's turn on a fixed table.
func newLayout(hands [][]string, table [][]string, deck []string) *domain.Game {
	players := make([]*domain.Player, len(hands))
	for i, h := range hands {
		players[i] = &domain.Player{UserID: fmt.Sprintf("bot-%d", i), IsBot: true, Hand: mustCards(h...)}
	}
	game := domain.NewGame(players)
	for _, g := range table {
		_, _ = game.Table.AddGroup(mustCards(g...))
	}
	game.Deck = &domain.Deck{Cards: mustCards(deck...)}
	game.TurnNumber = 1
	game.TurnStart = game.Snapshot(0)
	return game
}

func newTestPlanner(t *testing.T, level Difficulty, engine Engine) *Planner {
	t.Helper()
	planner, err := NewPlanner(level, Options{
		Engine: engine,
		Rng:    rand.New(rand.NewSource(7)),
		Logger: logging.Nop(),
	})
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}
	return planner
}

func TestTakeTurnGoesOutImmediately(t *testing.T) {
	game := newLayout([][]string{{"7C", "8C", "9C"}, {"KD", "KS"}}, [][]string{{"2H", "3H", "4H"}}, []string{"5S"})
	planner := newTestPlanner(t, DifficultyEasy, app.NewService(nil))

	outcome, events, err := planner.TakeTurn(game, 0)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if !outcome.Won || outcome.Action != ActionPlay || !game.Finished() || game.Winner != 0 {
		t.Fatalf("outcome = %+v phase = %s, want a win for seat 0", outcome, game.Phase)
	}
	if events[len(events)-1].Kind != app.EventGameEnded {
		t.Fatalf("last event = %s, want game_ended", events[len(events)-1].Kind)
	}
}

func TestTakeTurnPlaysLongRunInOneTurn(t *testing.T) {
	run := []string{"2S", "3S", "4S", "5S", "6S", "7S", "8S", "9S", "10S", "JS", "QS", "KS"}
	tests := []struct {
		name   string
		budget int
		table  [][]string
	}{
		{name: "Empty table", budget: 0},
		{name: "Busy table small budget", budget: 1, table: [][]string{{"4D", "4H", "4C"}, {"5D", "6D", "7D", "8D", "9D"}, {"JD", "JH", "JC"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newLayout([][]string{run, {"KD", "KH"}}, tt.table, []string{"5C"})
			planner, err := NewPlanner(DifficultyHard, Options{
				Engine:       app.NewService(nil),
				Rng:          rand.New(rand.NewSource(7)),
				Logger:       logging.Nop(),
				SearchBudget: tt.budget,
			})
			if err != nil {
				t.Fatalf("NewPlanner: %v", err)
			}

			outcome, _, err := planner.TakeTurn(game, 0)
			if err != nil {
				t.Fatalf("TakeTurn: %v", err)
			}
			if !outcome.Won || !game.Finished() || game.Winner != 0 {
				t.Fatalf("outcome = %+v phase = %s, want seat 0 out in one turn", outcome, game.Phase)
			}
		})
	}
}

func TestTakeTurnPlaysAndEnds(t *testing.T) {
	tests := []struct {
		name     string
		hand     []string
		table    [][]string
		wantMove string
		wantHand int
	}{
		{name: "Hand group", hand: []string{"9D", "9H", "9S", "2C", "KD"}, wantMove: "play", wantHand: 2},
		{name: "Addition", hand: []string{"8C", "2D", "KS"}, table: [][]string{{"5C", "6C", "7C"}}, wantMove: "add", wantHand: 2},
		{name: "Reorganization", hand: []string{"8D", "8H", "KS", "2D"}, table: [][]string{{"5C", "6C", "7C", "8C"}}, wantMove: "reorganize", wantHand: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := newLayout([][]string{tt.hand, {"KD"}}, tt.table, []string{"5S"})
			total := game.TotalCards()
			planner := newTestPlanner(t, DifficultyHard, app.NewService(nil))

			outcome, _, err := planner.TakeTurn(game, 0)
			if err != nil {
				t.Fatalf("TakeTurn: %v", err)
			}
			if outcome.Action != ActionPlay || outcome.Move != tt.wantMove {
				t.Fatalf("outcome = %+v, want %s", outcome, tt.wantMove)
			}
			if got := len(game.Players[0].Hand); got != tt.wantHand {
				t.Fatalf("hand = %d, want %d", got, tt.wantHand)
			}
			if game.CurrentTurn != 1 || !game.Table.IsValid() || game.TotalCards() != total {
				t.Fatalf("turn = %d valid = %v cards = %d", game.CurrentTurn, game.Table.IsValid(), game.TotalCards())
			}
		})
	}
}

func TestTakeTurnFallsBack(t *testing.T) {
	t.Run("Draw", func(t *testing.T) {
		game := newLayout([][]string{{"2C", "9D", "KH"}, {"KD"}}, nil, []string{"5S"})
		planner := newTestPlanner(t, DifficultyMedium, app.NewService(nil))

		outcome, _, err := planner.TakeTurn(game, 0)
		if err != nil {
			t.Fatalf("TakeTurn: %v", err)
		}
		if outcome.Action != ActionDraw || len(game.Players[0].Hand) != 4 || game.CurrentTurn != 1 {
			t.Fatalf("outcome = %+v hand = %d turn = %d", outcome, len(game.Players[0].Hand), game.CurrentTurn)
		}
	})

	t.Run("Pass", func(t *testing.T) {
		game := newLayout([][]string{{"2C", "9D", "KH"}, {"KD"}}, nil, nil)
		planner := newTestPlanner(t, DifficultyMedium, app.NewService(nil))

		outcome, _, err := planner.TakeTurn(game, 0)
		if err != nil {
			t.Fatalf("TakeTurn: %v", err)
		}
		if outcome.Action != ActionPass || game.ConsecutivePasses != 1 || game.CurrentTurn != 1 {
			t.Fatalf("outcome = %+v passes = %d turn = %d", outcome, game.ConsecutivePasses, game.CurrentTurn)
		}
	})
}

// rejectingEngine refuses every placement, counting the attempts.
type rejectingEngine struct {
	*app.Service
	attempts int
}

func (e *rejectingEngine) PlayGroup(*domain.Game, int, []*domain.Card) ([]app.Event, error) {
	e.attempts++
	return nil, app.ErrMoveRejected
}

func (e *rejectingEngine) AddToGroup(*domain.Game, int, *domain.Card, int) ([]app.Event, error) {
	e.attempts++
	return nil, app.ErrMoveRejected
}

func (e *rejectingEngine) Reorganize(*domain.Game, int, app.Reorganization) ([]app.Event, error) {
	e.attempts++
	return nil, app.ErrMoveRejected
}

func TestTakeTurnAttemptCap(t *testing.T) {
	// Plenty of candidates: every subset of the four sevens and the club run.
	game := newLayout([][]string{{"7C", "7D", "7H", "7S", "3C", "4C", "5C", "6C"}, {"KD"}}, nil, []string{"5S"})
	engine := &rejectingEngine{Service: app.NewService(nil)}
	planner, err := NewPlanner(DifficultyEasy, Options{
		Engine:     engine,
		Rng:        rand.New(rand.NewSource(3)),
		Logger:     logging.Nop(),
		AttemptCap: 4,
	})
	if err != nil {
		t.Fatalf("NewPlanner: %v", err)
	}

	outcome, _, err := planner.TakeTurn(game, 0)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if engine.attempts != 4 {
		t.Fatalf("attempts = %d, want 4", engine.attempts)
	}
	if outcome.Action != ActionDraw || game.CurrentTurn != 1 {
		t.Fatalf("outcome = %+v turn = %d, want a draw and the next seat", outcome, game.CurrentTurn)
	}
}

func TestTakeTurnRejectsWrongSeat(t *testing.T) {
	game := newLayout([][]string{{"2C"}, {"KD"}}, nil, []string{"5S"})
	planner := newTestPlanner(t, DifficultyHard, app.NewService(nil))

	if _, _, err := planner.TakeTurn(game, 1); !errors.Is(err, app.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	game.Phase = domain.PhaseFinished
	if _, _, err := planner.TakeTurn(game, 0); !errors.Is(err, app.ErrGameFinished) {
		t.Fatalf("err = %v, want ErrGameFinished", err)
	}
}

func TestTakeTurnFinishesHalfDoneTurn(t *testing.T) {
	game := newLayout([][]string{{"9D", "9H", "9S", "2C"}, {"KD"}}, [][]string{{"5C", "6C", "7C"}}, []string{"5S"})
	svc := app.NewService(nil)
	if _, err := svc.TakeFromTable(game, 0, 0, 0); err != nil {
		t.Fatalf("take: %v", err)
	}
	planner := newTestPlanner(t, DifficultyHard, svc)

	outcome, _, err := planner.TakeTurn(game, 0)
	if err != nil {
		t.Fatalf("TakeTurn: %v", err)
	}
	if outcome.Action != ActionPlay || game.CurrentTurn != 1 || !game.Table.IsValid() {
		t.Fatalf("outcome = %+v turn = %d valid = %v", outcome, game.CurrentTurn, game.Table.IsValid())
	}
	if game.Table.CardCount() != 6 {
		t.Fatalf("table cards = %d, want the run restored plus the nines", game.Table.CardCount())
	}
}

func TestSelectionRules(t *testing.T) {
	svc := app.NewService(nil)
	planner := newTestPlanner(t, DifficultyEasy, svc)
	game := newLayout([][]string{{"7C", "8C", "9C", "10C"}, {"KD"}}, nil, []string{"5S"})

	// The full run empties the hand, so the pool collapses to it.
	for i := 0; i < 10; i++ {
		c := planner.choose(game, 0, planner.candidates(game, true), logging.Nop())
		if c.Reduction() != 4 {
			t.Fatalf("choice %d placed %d cards, want all 4", i, c.Reduction())
		}
	}

	ctx := &SelectionContext{Pool: 3, Threat: true}
	if !(&ThreatRule{}).Apply(ctx) || ctx.Pool != 2 {
		t.Fatalf("pool under threat = %d, want 2", ctx.Pool)
	}
	if (&ThreatRule{}).Apply(&SelectionContext{Pool: 1, Threat: true}) {
		t.Fatal("threat rule narrowed a pool of one")
	}
	if (&FinishRule{}).Apply(&SelectionContext{Pool: 3, HandSize: 5}) {
		t.Fatal("finish rule applied without a winning candidate")
	}
}

func TestThinkSecondsWithinProfile(t *testing.T) {
	for _, level := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		planner := newTestPlanner(t, level, app.NewService(nil))
		profile, _ := ProfileFor(level)
		for i := 0; i < 20; i++ {
			if s := planner.ThinkSeconds(); s < profile.MinThinkSec || s > profile.MaxThinkSec {
				t.Fatalf("%s think = %d, want %d..%d", level, s, profile.MinThinkSec, profile.MaxThinkSec)
			}
		}
	}
}

func TestNewPlannerValidates(t *testing.T) {
	if _, err := NewPlanner(Difficulty(9), Options{Engine: app.NewService(nil), Logger: logging.Nop()}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := NewPlanner(DifficultyEasy, Options{Logger: logging.Nop()}); err == nil {
		t.Fatal("expected error without engine")
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    Difficulty
		wantErr bool
	}{
		{in: "easy", want: DifficultyEasy},
		{in: " Hard ", want: DifficultyHard},
		{in: "", want: DifficultyMedium},
		{in: "god", want: DifficultyMedium, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDifficulty(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestAgentPlay(t *testing.T) {
	game := newLayout([][]string{{"2C", "9D", "KH"}, {"KD"}}, nil, []string{"5S"})
	agent, err := NewAgent("bot-1", "Second", DifficultyHard, Options{Engine: app.NewService(nil), Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}

	if _, _, err := agent.Play(game); !errors.Is(err, app.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	game.CurrentTurn = 1
	outcome, _, err := agent.Play(game)
	if err != nil || outcome.Action != ActionDraw {
		t.Fatalf("outcome = %+v err = %v, want a draw", outcome, err)
	}

	stranger := &Agent{ID: "nobody", Brain: agent.Brain}
	if stranger.Seat(game) != -1 {
		t.Fatal("unseated agent reported a seat")
	}
}
