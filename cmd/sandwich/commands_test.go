package main

import (
	"math/rand"
	"strings"
	"testing"

	"sandwich/internal/app"
	"sandwich/internal/bot"
	"sandwich/internal/domain"
	"sandwich/internal/logging"
)

func testGame() *domain.Game {
	hand := []*domain.Card{
		domain.NewCard(domain.SuitHeart, 5),
		domain.NewCard(domain.SuitSpade, 5),
		domain.NewCard(domain.SuitClub, 5),
		domain.NewCard(domain.SuitDiamond, 9),
	}
	game := domain.NewGame([]*domain.Player{
		{UserID: "human-1", Name: "Ann", Hand: hand},
		{UserID: "human-2", Name: "Bob", Hand: []*domain.Card{domain.NewCard(domain.SuitClub, 2)}},
	})
	game.Table.Groups = []domain.Group{{
		domain.NewCard(domain.SuitDiamond, 6),
		domain.NewCard(domain.SuitDiamond, 7),
		domain.NewCard(domain.SuitDiamond, 8),
	}}
	game.Deck = domain.NewDeck(1)
	game.TurnStart = game.Snapshot(0)
	return game
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		verb    string
		wantErr string
	}{
		{line: "draw", verb: "draw"},
		{line: "s", verb: "sort"},
		{line: "  PLAY 1 2 3 ", verb: "play"},
		{line: "add 4 1", verb: "add"},
		{line: "take 1 3", verb: "take"},
		{line: "move 1 1 new", verb: "move"},
		{line: "reorg h4 t1.1 t1.2 t1.3", verb: "reorg"},
		{line: "?", verb: "help"},
		{line: "exit", verb: "quit"},
		{line: "", wantErr: "unknown command"},
		{line: "dance", wantErr: "unknown command"},
		{line: "play", wantErr: "needs hand card"},
		{line: "play 0", wantErr: "not a card"},
		{line: "play 9", wantErr: "no hand card 9"},
		{line: "add 1 2", wantErr: "no group 2"},
		{line: "take 1 4", wantErr: "group 1 has no card 4"},
		{line: "move 1 1", wantErr: "usage"},
		{line: "reorg h1 x2", wantErr: "unknown card reference"},
		{line: "reorg t1", wantErr: "t<group>.<card>"},
		{line: "reorg |", wantErr: "at least one group"},
	}

	game := testGame()
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			cmd, err := parseCommand(test.line, game)
			if test.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("parseCommand(%q) error = %v, want %q", test.line, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCommand(%q): %v", test.line, err)
			}
			if cmd.verb != test.verb {
				t.Fatalf("verb = %q, want %q", cmd.verb, test.verb)
			}
		})
	}
}

func TestParseReorganization(t *testing.T) {
	game := testGame()
	hand := game.Players[0].Hand
	table := game.Table.Groups[0]

	r, err := parseReorganization(game, strings.Fields("h4 t1.1 t1.2|t1.3 h1 h2"))
	if err != nil {
		t.Fatalf("parseReorganization: %v", err)
	}
	if len(r.NewGroups) != 2 || len(r.NewGroups[0]) != 3 || len(r.NewGroups[1]) != 3 {
		t.Fatalf("groups = %v", r.NewGroups)
	}
	if r.NewGroups[0][0] != hand[3] || r.NewGroups[1][0] != table[2] {
		t.Fatalf("groups resolved to the wrong cards: %v", r.NewGroups)
	}
	if len(r.Hand) != 3 || len(r.Extract) != 3 {
		t.Fatalf("hand = %v extract = %v", r.Hand, r.Extract)
	}
}

func TestCommandsDriveTheEngine(t *testing.T) {
	game := testGame()
	svc := app.NewService(rand.New(rand.NewSource(1)))

	run := func(line string) []app.Event {
		t.Helper()
		cmd, err := parseCommand(line, game)
		if err != nil {
			t.Fatalf("parseCommand(%q): %v", line, err)
		}
		events, err := cmd.run(svc, game, game.CurrentTurn)
		if err != nil {
			t.Fatalf("%q: %v", line, err)
		}
		return events
	}

	run("play 1 2 3")
	if line := describeEvent(game, run("reset")[0]); line != "Ann resets the turn" {
		t.Fatalf("reset event = %q", line)
	}
	run("play 1 2 3")
	events := run("add 1 1") // the 9 of diamonds extends the run and empties the hand
	if game.Table.Len() != 2 || len(game.Table.Groups[0]) != 4 {
		t.Fatalf("table = %v", game.Table.Groups)
	}
	if !game.Finished() || game.Winner != 0 {
		t.Fatalf("finished = %t winner = %d", game.Finished(), game.Winner)
	}
	if line := describeEvent(game, events[len(events)-1]); line != "Ann wins!" {
		t.Fatalf("last event = %q", line)
	}
}

func TestSortCommand(t *testing.T) {
	game := testGame()
	hand := game.Players[0].Hand
	nine := hand[3]

	cmd, err := parseCommand("sort", game)
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	events, err := cmd.run(app.NewService(nil), game, 0)
	if err != nil || len(events) != 0 {
		t.Fatalf("sort = %v, %v", events, err)
	}
	// suits sort in declaration order, diamonds first
	if hand[0] != nine || hand[1].Suit != domain.SuitSpade || hand[3].Suit != domain.SuitClub {
		t.Fatalf("sorted hand = %s", domain.FormatCards(hand))
	}

	// play numbers follow the new order
	cmd, err = parseCommand("play 2 3 4", game)
	if err != nil {
		t.Fatalf("parseCommand: %v", err)
	}
	if _, err := cmd.run(app.NewService(nil), game, 0); err != nil {
		t.Fatalf("play after sort: %v", err)
	}
	if len(game.Players[0].Hand) != 1 || game.Players[0].Hand[0] != nine {
		t.Fatalf("hand after play = %s", domain.FormatCards(game.Players[0].Hand))
	}
}

func TestSplitKeep(t *testing.T) {
	got := strings.Join(splitKeep("h1|t2.1|", "|"), " ")
	if got != "h1 | t2.1 |" {
		t.Fatalf("splitKeep = %q", got)
	}
}

func TestRunBots(t *testing.T) {
	level := bot.DifficultyHard
	seats := botSeats(3, &level)
	for _, s := range seats {
		if !s.Bot || s.Level != bot.DifficultyHard {
			t.Fatalf("seat %+v", s)
		}
	}

	for seed := int64(1); seed <= 3; seed++ {
		result, err := runBots(seats, rand.New(rand.NewSource(seed)), logging.Nop())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !result.Finished {
			t.Fatalf("seed %d: game did not finish in %d turns", seed, result.Turns)
		}
		if !result.Stalemate && result.Winner == "" {
			t.Fatalf("seed %d: finished without a winner or stalemate", seed)
		}
	}
}
