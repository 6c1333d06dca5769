package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sandwich/internal/app"
	"sandwich/internal/domain"
)

var errUsage = errors.New("unknown command, type help")

// action runs one engine operation for the active seat.
type action func(svc *app.Service, game *domain.Game, seat int) ([]app.Event, error)

// command is a parsed input line. Card references are resolved when the line is
// parsed, so later table changes cannot shift them.
type command struct {
	verb string
	run  action
}

const helpText = `draw                      draw a card and end the turn
play 1 2 3                lay hand cards 1, 2 and 3 as a new group
add 4 2                   add hand card 4 to group 2
take 2 1                  take card 1 of group 2 into your hand
move 2 1 3                move card 1 of group 2 to group 3 ("new" starts a group)
reorg h1 h2 t1.3 | t1.1 t1.2 h3
                          rebuild groups from hand cards (hN) and table cards (tG.I)
end                       end the turn after placing cards
reset                     undo everything placed this turn
sort                      order your hand by suit and rank
pass                      pass (only when the deck is empty)
help, quit`

// parseCommand turns an input line into a command. Card and group numbers are 1-based
// as shown on screen.
func parseCommand(line string, game *domain.Game) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{}, errUsage
	}
	verb, args := fields[0], fields[1:]

	switch verb {
	case "help", "?", "quit", "exit":
		if verb == "?" {
			verb = "help"
		}
		if verb == "exit" {
			verb = "quit"
		}
		return command{verb: verb}, nil

	case "draw", "d":
		return command{verb: "draw", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.Draw(g, seat)
		}}, nil

	case "end", "e":
		return command{verb: "end", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.EndTurn(g, seat)
		}}, nil

	case "reset":
		return command{verb: "reset", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.ResetTurn(g, seat)
		}}, nil

	case "sort", "s":
		return command{verb: "sort", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			if p := g.PlayerAt(seat); p != nil {
				domain.SortHand(p.Hand)
			}
			return nil, nil
		}}, nil

	case "pass":
		return command{verb: "pass", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.Pass(g, seat)
		}}, nil

	case "play", "p":
		if len(args) == 0 {
			return command{}, fmt.Errorf("play needs hand card numbers")
		}
		cards := make([]*domain.Card, 0, len(args))
		for _, a := range args {
			c, err := handCard(game, a)
			if err != nil {
				return command{}, err
			}
			cards = append(cards, c)
		}
		return command{verb: "play", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.PlayGroup(g, seat, cards)
		}}, nil

	case "add", "a":
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: add <hand card> <group>")
		}
		c, err := handCard(game, args[0])
		if err != nil {
			return command{}, err
		}
		group, err := groupNumber(game, args[1])
		if err != nil {
			return command{}, err
		}
		return command{verb: "add", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.AddToGroup(g, seat, c, group)
		}}, nil

	case "take", "t":
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: take <group> <card>")
		}
		group, index, err := tablePosition(game, args[0], args[1])
		if err != nil {
			return command{}, err
		}
		return command{verb: "take", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.TakeFromTable(g, seat, group, index)
		}}, nil

	case "move", "m":
		if len(args) != 3 {
			return command{}, fmt.Errorf("usage: move <group> <card> <group|new>")
		}
		from, index, err := tablePosition(game, args[0], args[1])
		if err != nil {
			return command{}, err
		}
		to := -1
		if args[2] != "new" {
			if to, err = groupNumber(game, args[2]); err != nil {
				return command{}, err
			}
		}
		return command{verb: "move", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.MoveTableCard(g, seat, from, index, to)
		}}, nil

	case "reorg", "r":
		r, err := parseReorganization(game, args)
		if err != nil {
			return command{}, err
		}
		return command{verb: "reorg", run: func(svc *app.Service, g *domain.Game, seat int) ([]app.Event, error) {
			return svc.Reorganize(g, seat, r)
		}}, nil
	}

	return command{}, errUsage
}

// parseReorganization reads groups of hN / tG.I tokens separated by "|".
func parseReorganization(game *domain.Game, args []string) (app.Reorganization, error) {
	var r app.Reorganization
	current := []*domain.Card{}
	flush := func() {
		if len(current) > 0 {
			r.NewGroups = append(r.NewGroups, current)
			current = []*domain.Card{}
		}
	}

	for _, tok := range args {
		for _, part := range splitKeep(tok, "|") {
			switch {
			case part == "|":
				flush()
			case strings.HasPrefix(part, "h"):
				c, err := handCard(game, part[1:])
				if err != nil {
					return r, err
				}
				r.Hand = append(r.Hand, c)
				current = append(current, c)
			case strings.HasPrefix(part, "t"):
				g, i, ok := strings.Cut(part[1:], ".")
				if !ok {
					return r, fmt.Errorf("table card %q must look like t<group>.<card>", part)
				}
				group, index, err := tablePosition(game, g, i)
				if err != nil {
					return r, err
				}
				c := game.Table.Groups[group][index]
				r.Extract = append(r.Extract, c)
				current = append(current, c)
			default:
				return r, fmt.Errorf("unknown card reference %q", part)
			}
		}
	}
	flush()

	if len(r.NewGroups) == 0 {
		return r, fmt.Errorf("reorg needs at least one group")
	}
	return r, nil
}

// splitKeep splits s around sep, keeping sep as its own element.
func splitKeep(s, sep string) []string {
	var out []string
	for {
		before, after, found := strings.Cut(s, sep)
		if before != "" {
			out = append(out, before)
		}
		if !found {
			return out
		}
		out = append(out, sep)
		s = after
	}
}

func number(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a card or group number", s)
	}
	return n, nil
}

func handCard(game *domain.Game, s string) (*domain.Card, error) {
	n, err := number(s)
	if err != nil {
		return nil, err
	}
	hand := game.ActivePlayer().Hand
	if n > len(hand) {
		return nil, fmt.Errorf("no hand card %d, you hold %d", n, len(hand))
	}
	return hand[n-1], nil
}

func groupNumber(game *domain.Game, s string) (int, error) {
	n, err := number(s)
	if err != nil {
		return 0, err
	}
	if n > game.Table.Len() {
		return 0, fmt.Errorf("no group %d on the table", n)
	}
	return n - 1, nil
}

func tablePosition(game *domain.Game, group, card string) (int, int, error) {
	g, err := groupNumber(game, group)
	if err != nil {
		return 0, 0, err
	}
	i, err := number(card)
	if err != nil {
		return 0, 0, err
	}
	if i > len(game.Table.Groups[g]) {
		return 0, 0, fmt.Errorf("group %d has no card %d", g+1, i)
	}
	return g, i - 1, nil
}
