package main

import (
	"fmt"
	"strings"

	"sandwich/internal/app"
	"sandwich/internal/domain"

	"github.com/pterm/pterm"
)

func cardStyle(c *domain.Card) string {
	switch c.Suit {
	case domain.SuitDiamond, domain.SuitHeart:
		return pterm.LightRed(c.String())
	default:
		return pterm.LightWhite(c.String())
	}
}

func numberedCards(cards []*domain.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%s:%s", pterm.Gray(i+1), cardStyle(c))
	}
	return strings.Join(parts, "  ")
}

func printPlayerInfo(game *domain.Game, p *domain.Player) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2)
	title := p.Name
	if p.IsBot {
		title += pterm.Gray(" (bot)")
	}
	status := pterm.Gray("waiting")
	if p.Seat == game.CurrentTurn && !game.Finished() {
		status = pterm.LightGreen("playing")
	}
	if game.Finished() && p.Seat == game.Winner {
		status = pterm.LightYellow("winner")
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s\nCards: %d", status, len(p.Hand))
}

func printTableInfo(game *domain.Game) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(1).WithBottomPadding(1)
	var b strings.Builder
	if game.Table.Len() == 0 {
		b.WriteString(pterm.Gray("(empty table)"))
	}
	for i, g := range game.Table.Groups {
		marker := pterm.LightGreen(domain.ClassifyGroup(g).String())
		if !domain.IsValidGroup(g) {
			marker = pterm.LightRed("invalid")
		}
		fmt.Fprintf(&b, "%2d  %s  %s\n", i+1, numberedCards(g), marker)
	}
	fmt.Fprintf(&b, "\nDeck: %d   Turn: %d", game.Deck.Len(), game.TurnNumber)
	if n := len(game.Pending); n > 0 {
		fmt.Fprintf(&b, "   %s", pterm.LightYellow(fmt.Sprintf("%d taken card(s) to place", n)))
	}
	return pbox.WithTitle(pterm.LightYellow("|TABLE|")).WithTitleTopCenter().Sprint(b.String())
}

func printHandInfo(game *domain.Game, p *domain.Player) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	flags := []string{}
	if game.Flags.Drawn {
		flags = append(flags, "drawn")
	}
	if game.Flags.Placed {
		flags = append(flags, "placed")
	}
	if game.Flags.TurnValid {
		flags = append(flags, pterm.LightGreen("can end"))
	}
	return pbox.WithTitle(pterm.LightCyan("|"+p.Name+"|")).WithTitleTopLeft().
		Sprintf("%s\n\n%s", numberedCards(p.Hand), strings.Join(flags, ", "))
}

// printState renders the opponents, the table and the viewer's hand.
func printState(game *domain.Game, viewer int) {
	var others []pterm.Panel
	for _, p := range game.Players {
		if p.Seat != viewer {
			others = append(others, pterm.Panel{Data: printPlayerInfo(game, p)})
		}
	}
	rows := [][]pterm.Panel{others, {{Data: printTableInfo(game)}}}
	if viewer >= 0 {
		rows = append(rows, []pterm.Panel{{Data: printHandInfo(game, game.Players[viewer])}})
	}
	pterm.DefaultPanel.WithPanels(rows).Render()
}

// describeEvent is the one-line log of an event as seen by everybody.
func describeEvent(game *domain.Game, ev app.Event) string {
	name := func(seat int) string {
		if p := game.PlayerAt(seat); p != nil {
			return p.Name
		}
		return fmt.Sprintf("seat %d", seat)
	}

	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return fmt.Sprintf("Game started, %s opens, %d cards in the deck", name(p.FirstTurnSeat), p.DeckRemaining)
	case app.CardDrawnPayload:
		return fmt.Sprintf("%s draws (%d left)", name(p.Seat), p.DeckRemaining)
	case app.GroupPlayedPayload:
		return fmt.Sprintf("%s plays %s", name(p.Seat), domain.FormatCards(p.Cards))
	case app.CardAddedPayload:
		return fmt.Sprintf("%s adds %s to group %d", name(p.Seat), p.Card, p.GroupIndex+1)
	case app.TableReorganizedPayload:
		groups := make([]string, len(p.NewGroups))
		for i, g := range p.NewGroups {
			groups[i] = domain.FormatCards(g)
		}
		return fmt.Sprintf("%s rebuilds the table into %s", name(p.Seat), strings.Join(groups, " | "))
	case app.CardTakenPayload:
		return fmt.Sprintf("%s takes %s from group %d", name(p.Seat), p.Card, p.FromGroup+1)
	case app.CardMovedPayload:
		return fmt.Sprintf("%s moves %s", name(p.Seat), p.Card)
	case app.TurnEndedPayload:
		return fmt.Sprintf("%s ends the turn", name(p.Seat))
	case app.TurnResetPayload:
		return fmt.Sprintf("%s resets the turn", name(p.Seat))
	case app.TurnPassedPayload:
		return fmt.Sprintf("%s passes", name(p.Seat))
	case app.GameEndedPayload:
		if p.Stalemate {
			return "Everybody passed, the game is a draw"
		}
		return fmt.Sprintf("%s wins!", name(p.WinnerSeat))
	}
	return ""
}
