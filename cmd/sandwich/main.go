// Command sandwich plays the card game in a terminal, against bots or hot-seat
// with friends, and can simulate bots-only games in bulk.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"sandwich/internal/app"
	"sandwich/internal/bot"
	"sandwich/internal/config"
	"sandwich/internal/logging"
)

func main() {
	players := flag.Int("players", 3, "number of seats")
	humans := flag.Int("humans", 1, "human seats, seated first")
	auto := flag.Bool("auto", false, "let bots play every seat")
	games := flag.Int("games", 1, "games to simulate with -auto")
	difficulty := flag.String("difficulty", "", "bot difficulty: easy, medium or hard (default: per bot identity)")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one")
	pace := flag.Duration("pace", 400*time.Millisecond, "pause per second of bot thinking time")
	configPath := flag.String("config", "data/game_config.json", "game config file")
	identitiesPath := flag.String("bots", "data/bot_identities.json", "bot identities file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := pterm.LogLevelWarn
	if *verbose {
		level = pterm.LogLevelDebug
	}
	logger := logging.NewPtermLogger(os.Stderr, level)

	if err := config.LoadGameConfig(*configPath); err != nil {
		logger.Warn("using default game config: %v", err)
	}
	if err := bot.LoadIdentities(*identitiesPath); err != nil {
		logger.Warn("using generated bot identities: %v", err)
	}

	var override *bot.Difficulty
	if *difficulty != "" {
		d, err := bot.ParseDifficulty(*difficulty)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(2)
		}
		override = &d
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger.Info("seed %d", *seed)

	if *auto {
		if err := simulate(*games, *players, override, *seed, logger); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		return
	}

	if *humans < 1 || *humans > *players {
		pterm.Error.Printfln("-humans must be between 1 and %d", *players)
		os.Exit(2)
	}
	if err := play(*players, *humans, override, *seed, *pace, logger); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// simulate runs bots-only games and prints a summary table.
func simulate(games, players int, level *bot.Difficulty, seed int64, logger runtime.Logger) error {
	seats := botSeats(players, level)
	data := pterm.TableData{{"Game", "Winner", "Turns", "Groups on table"}}
	wins := make(map[string]int)

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Simulating %d game(s) with %d bots", games, players))
	for i := 0; i < games; i++ {
		result, err := runBots(seats, rand.New(rand.NewSource(seed+int64(i))), logger)
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}
		winner := result.Winner
		switch {
		case !result.Finished:
			winner = pterm.LightYellow("unfinished")
		case result.Stalemate:
			winner = pterm.Gray("stalemate")
		default:
			wins[result.Winner]++
		}
		data = append(data, []string{fmt.Sprint(i + 1), winner, fmt.Sprint(result.Turns), fmt.Sprint(result.Groups)})
	}
	spinner.Success("Done")

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	names := make([]string, 0, len(seats))
	for _, s := range seats {
		names = append(names, s.Name)
	}
	sort.SliceStable(names, func(i, j int) bool { return wins[names[i]] > wins[names[j]] })
	for _, name := range names {
		pterm.Info.Printfln("%-16s %d win(s)", name, wins[name])
	}
	return nil
}

// play runs one interactive game in the terminal.
func play(players, humans int, level *bot.Difficulty, seed int64, pace time.Duration, logger runtime.Logger) error {
	_ = pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("SAND", pterm.FgYellow.ToStyle()),
		putils.LettersFromStringWithStyle("WICH", pterm.FgLightGreen.ToStyle()),
	).Render()

	seats := make([]seating, 0, players)
	for i := 0; i < humans; i++ {
		name, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(fmt.Sprintf("Player %d", i+1)).
			Show(fmt.Sprintf("Name for seat %d", i+1))
		if err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		seats = append(seats, seating{UserID: fmt.Sprintf("human-%d", i+1), Name: name})
	}
	seats = append(seats, botSeats(players-humans, level)...)

	s, events, err := newSession(seats, rand.New(rand.NewSource(seed)), logger)
	if err != nil {
		return err
	}
	printEvents(s, events)

	lastHuman := -1
	for !s.game.Finished() {
		if agent := s.botSeat(); agent != nil {
			spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("%s is thinking...", agent.Name))
			time.Sleep(time.Duration(agent.Brain.ThinkSeconds()) * pace)
			outcome, events, err := s.playBot()
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}
			spinner.Success(fmt.Sprintf("%s: %s", agent.Name, outcome.Action))
			printEvents(s, events)
			continue
		}

		seat := s.game.CurrentTurn
		player := s.game.ActivePlayer()
		if humans > 1 && seat != lastHuman {
			_, _ = pterm.DefaultInteractiveTextInput.Show(fmt.Sprintf("Hand the keyboard to %s and press enter", player.Name))
		}
		lastHuman = seat

		printState(s.game, seat)
		line, err := pterm.DefaultInteractiveTextInput.Show(player.Name)
		if err != nil {
			return err
		}
		cmd, err := parseCommand(line, s.game)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		switch cmd.verb {
		case "help":
			pterm.Info.Println("\n" + helpText)
			continue
		case "quit":
			pterm.Warning.Println("Game abandoned")
			return nil
		}

		events, err := s.apply(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		printEvents(s, events)
	}

	printState(s.game, -1)
	winner := "Nobody"
	if w := s.game.PlayerAt(s.game.Winner); w != nil {
		winner = w.Name
	}
	pterm.Println(pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1).
		WithTitle(pterm.LightYellow("|GAME OVER|")).WithTitleTopCenter().
		Sprintf("%s wins after %d turns", winner, s.turns))
	return nil
}

func printEvents(s *session, events []app.Event) {
	for _, ev := range events {
		if line := describeEvent(s.game, ev); line != "" {
			pterm.Info.Println(line)
		}
	}
}
