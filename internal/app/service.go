package app

import (
	"fmt"
	"math/rand"
	"time"

	"sandwich/internal/domain"
)

// MinPlayersToStartGame and MaxPlayersPerGame bound the seats of one table.
const (
	MinPlayersToStartGame = 2
	MaxPlayersPerGame     = 5
)

// Service implements the turn engine: every player action, human or bot, goes through
// it. Operations either succeed and return events, or fail with a reason and leave the
// game untouched.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// GameOptions tunes a new game. Zero values select the standard rules.
type GameOptions struct {
	HandSize  int
	DeckCount int
}

// Reorganization rebuilds part of the table: Extract cards leave their current groups,
// and together with Hand cards they form the NewGroups. Every extracted and hand card
// must appear in exactly one new group.
type Reorganization struct {
	Extract   []*domain.Card
	Hand      []*domain.Card
	NewGroups [][]*domain.Card
}

// StartGame builds, shuffles and deals a fresh game for the players in seat order.
func (s *Service) StartGame(players []*domain.Player, opts GameOptions) (*domain.Game, []Event, error) {
	if len(players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}
	if len(players) > MaxPlayersPerGame {
		return nil, nil, ErrTooManyPlayers
	}
	handSize := opts.HandSize
	if handSize <= 0 {
		handSize = domain.DefaultHandSize
	}
	deckCount := opts.DeckCount
	if deckCount <= 0 {
		deckCount = domain.DeckCountFor(len(players))
	}

	game := domain.NewGame(players)
	game.Deck = domain.NewDeck(deckCount)
	if handSize*len(players) >= game.Deck.Len() {
		return nil, nil, fmt.Errorf("%w: %d cards cannot deal %d hands of %d", ErrTooManyPlayers, game.Deck.Len(), len(players), handSize)
	}
	game.Deck.Shuffle(s.rng)
	s.Deal(game, handSize)
	beginTurn(game, 0)

	events := make([]Event, 0, len(players)+1)
	seats := make([]string, len(players))
	for i, pl := range players {
		seats[i] = pl.UserID
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: pl.Seat, Hand: append([]*domain.Card(nil), pl.Hand...)},
			Recipients: []string{pl.UserID},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:        game.ID.String(),
			Seats:         seats,
			FirstTurnSeat: game.CurrentTurn,
			DeckRemaining: game.Deck.Len(),
		},
	})
	return game, events, nil
}

// Deal gives handSize cards to every player, one per player per round, from the top.
func (s *Service) Deal(game *domain.Game, handSize int) {
	for round := 0; round < handSize; round++ {
		for _, pl := range game.Players {
			card := game.Deck.Pop()
			if card == nil {
				return
			}
			pl.Hand = append(pl.Hand, card)
		}
	}
}

// CanDraw explains why the active player may not draw, or returns nil.
func (s *Service) CanDraw(game *domain.Game) error {
	switch {
	case game.Finished():
		return ErrGameFinished
	case game.Deck.Empty():
		return ErrDeckEmpty
	case game.Flags.Drawn:
		return ErrAlreadyDrawn
	case game.Flags.Placed:
		return ErrAlreadyPlaced
	case game.HasPendingTableCards():
		return ErrPendingTableCards
	case !game.Table.IsValid():
		return ErrTableInvalid
	}
	return nil
}

// Draw moves the top card of the deck into the active hand.
func (s *Service) Draw(game *domain.Game, seat int) ([]Event, error) {
	if err := checkTurn(game, seat); err != nil {
		return nil, err
	}
	if err := s.CanDraw(game); err != nil {
		return nil, err
	}

	pl := game.ActivePlayer()
	card := game.Deck.Pop()
	pl.Hand = append(pl.Hand, card)
	game.Flags.Drawn = true
	game.Flags.TurnValid = true
	game.ConsecutivePasses = 0

	return []Event{
		{Kind: EventCardDrawn, Payload: CardDrawnPayload{Seat: seat, DeckRemaining: game.Deck.Len()}},
		{Kind: EventCardReceived, Payload: CardReceivedPayload{Seat: seat, Card: card}, Recipients: []string{pl.UserID}},
	}, nil
}

// PlayGroup lays hand cards down as a new table group.
func (s *Service) PlayGroup(game *domain.Game, seat int, cards []*domain.Card) ([]Event, error) {
	if err := checkPlacement(game, seat); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrEmptyMove
	}
	if err := checkHandCards(game, cards); err != nil {
		return nil, err
	}

	p := newProposal(game)
	p.placeFromHand(cards)
	index, err := p.table.AddGroup(cards)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMoveRejected, err)
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	p.commit()
	markPlaced(game)

	events := []Event{{
		Kind:    EventGroupPlayed,
		Payload: GroupPlayedPayload{Seat: seat, GroupIndex: index, Cards: append([]*domain.Card(nil), cards...)},
	}}
	return append(events, checkWin(game, seat)...), nil
}

// AddToGroup appends one hand card to an existing table group.
func (s *Service) AddToGroup(game *domain.Game, seat int, card *domain.Card, groupIndex int) ([]Event, error) {
	if err := checkPlacement(game, seat); err != nil {
		return nil, err
	}
	if err := checkHandCards(game, []*domain.Card{card}); err != nil {
		return nil, err
	}
	if groupIndex < 0 || groupIndex >= game.Table.Len() {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, groupIndex)
	}

	p := newProposal(game)
	p.placeFromHand([]*domain.Card{card})
	if err := p.table.AddToGroup(groupIndex, card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMoveRejected, err)
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	p.commit()
	markPlaced(game)

	events := []Event{{
		Kind:    EventCardAdded,
		Payload: CardAddedPayload{Seat: seat, GroupIndex: groupIndex, Card: card},
	}}
	return append(events, checkWin(game, seat)...), nil
}

// Reorganize applies a multi-group move as one transaction.
func (s *Service) Reorganize(game *domain.Game, seat int, r Reorganization) ([]Event, error) {
	if err := checkPlacement(game, seat); err != nil {
		return nil, err
	}
	if len(r.Hand) == 0 {
		return nil, ErrEmptyMove
	}
	if err := checkHandCards(game, r.Hand); err != nil {
		return nil, err
	}
	for _, c := range r.Extract {
		if !game.Table.Contains(c) {
			return nil, fmt.Errorf("%w: %s", ErrCardNotOnTable, c)
		}
	}
	if err := checkCoverage(r); err != nil {
		return nil, err
	}

	p := newProposal(game)
	for _, c := range r.Extract {
		gi, ci, _ := p.table.Locate(c)
		if _, err := p.table.RemoveFromGroup(gi, ci); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMoveRejected, err)
		}
	}
	p.placeFromHand(r.Hand)
	for _, g := range r.NewGroups {
		if _, err := p.table.AddGroup(g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMoveRejected, err)
		}
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	p.commit()
	markPlaced(game)

	newGroups := make([][]*domain.Card, len(r.NewGroups))
	for i, g := range r.NewGroups {
		newGroups[i] = append([]*domain.Card(nil), g...)
	}
	events := []Event{{
		Kind: EventTableReorganized,
		Payload: TableReorganizedPayload{
			Seat:      seat,
			HandCards: append([]*domain.Card(nil), r.Hand...),
			Extracted: append([]*domain.Card(nil), r.Extract...),
			NewGroups: newGroups,
		},
	}}
	return append(events, checkWin(game, seat)...), nil
}

// TakeFromTable pulls a table card into the active hand. The table may be left invalid;
// the card has to be placed again before the turn can end or a card can be drawn.
func (s *Service) TakeFromTable(game *domain.Game, seat, groupIndex, cardIndex int) ([]Event, error) {
	if err := checkPlacement(game, seat); err != nil {
		return nil, err
	}
	card, err := game.Table.RemoveFromGroup(groupIndex, cardIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupNotFound, err)
	}

	pl := game.ActivePlayer()
	pl.Hand = append(pl.Hand, card)
	if origin, ok := game.TurnStart.Positions[card]; !ok || origin.Zone != domain.ZoneHand {
		game.Pending[card] = domain.Location{Zone: domain.ZoneTable, Group: groupIndex, Index: cardIndex}
	}
	markPlaced(game)

	return []Event{{
		Kind:    EventCardTaken,
		Payload: CardTakenPayload{Seat: seat, Card: card, FromGroup: groupIndex},
	}}, nil
}

// MoveTableCard drags a card between table groups without validating the result.
// toGroup -1 starts a new group.
func (s *Service) MoveTableCard(game *domain.Game, seat, fromGroup, cardIndex, toGroup int) ([]Event, error) {
	if err := checkPlacement(game, seat); err != nil {
		return nil, err
	}
	if fromGroup < 0 || fromGroup >= game.Table.Len() || cardIndex < 0 || cardIndex >= len(game.Table.Groups[fromGroup]) {
		return nil, fmt.Errorf("%w: %d/%d", ErrGroupNotFound, fromGroup, cardIndex)
	}
	if toGroup == fromGroup || toGroup < -1 || toGroup >= game.Table.Len() {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, toGroup)
	}

	emptied := len(game.Table.Groups[fromGroup]) == 1
	card, err := game.Table.RemoveFromGroup(fromGroup, cardIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupNotFound, err)
	}
	if toGroup == -1 {
		toGroup, _ = game.Table.AddGroup([]*domain.Card{card})
	} else {
		if emptied && toGroup > fromGroup {
			toGroup--
		}
		_ = game.Table.AddToGroup(toGroup, card)
	}
	markPlaced(game)

	return []Event{{
		Kind:    EventCardMoved,
		Payload: CardMovedPayload{Seat: seat, Card: card, FromGroup: fromGroup, ToGroup: toGroup},
	}}, nil
}

// EndTurn hands the turn to the next seat once the current turn is complete.
func (s *Service) EndTurn(game *domain.Game, seat int) ([]Event, error) {
	if err := checkTurn(game, seat); err != nil {
		return nil, err
	}
	if !game.Flags.Drawn {
		if !game.Flags.Placed {
			return nil, ErrMustDrawOrPlace
		}
		if game.HasPendingTableCards() {
			return nil, ErrPendingTableCards
		}
		if !game.Table.IsValid() {
			return nil, ErrTableInvalid
		}
	}

	if won := checkWin(game, seat); len(won) > 0 {
		return won, nil
	}
	if game.Flags.Placed {
		game.ConsecutivePasses = 0
	}
	next := game.NextSeat(seat)
	beginTurn(game, next)

	return []Event{{Kind: EventTurnEnded, Payload: TurnEndedPayload{Seat: seat, NextSeat: next}}}, nil
}

// ResetTurn undoes every move of the current turn. A turn that drew cannot be reset.
func (s *Service) ResetTurn(game *domain.Game, seat int) ([]Event, error) {
	if err := checkTurn(game, seat); err != nil {
		return nil, err
	}
	if game.Flags.Drawn {
		return nil, ErrAlreadyDrawn
	}

	restoreTurn(game)
	game.Flags = domain.TurnFlags{}
	game.Pending = make(map[*domain.Card]domain.Location)

	return []Event{{Kind: EventTurnReset, Payload: TurnResetPayload{Seat: seat}}}, nil
}

// Pass ends an untouched turn once the deck has run out. If every player passes in a
// row the game ends without a winner.
func (s *Service) Pass(game *domain.Game, seat int) ([]Event, error) {
	if err := checkTurn(game, seat); err != nil {
		return nil, err
	}
	if !game.Deck.Empty() || game.Flags.Drawn || game.Flags.Placed {
		return nil, ErrCannotPass
	}

	game.ConsecutivePasses++
	if game.ConsecutivePasses >= len(game.Players) {
		game.Phase = domain.PhaseFinished
		game.Winner = domain.NoWinner
		return []Event{{Kind: EventGameEnded, Payload: GameEndedPayload{WinnerSeat: domain.NoWinner, Stalemate: true}}}, nil
	}

	next := game.NextSeat(seat)
	beginTurn(game, next)
	return []Event{{Kind: EventTurnPassed, Payload: TurnPassedPayload{Seat: seat, NextSeat: next}}}, nil
}

func checkTurn(game *domain.Game, seat int) error {
	if game.Finished() {
		return ErrGameFinished
	}
	if seat != game.CurrentTurn {
		return fmt.Errorf("%w: seat %d, active seat %d", ErrNotYourTurn, seat, game.CurrentTurn)
	}
	return nil
}

func checkPlacement(game *domain.Game, seat int) error {
	if err := checkTurn(game, seat); err != nil {
		return err
	}
	if game.Flags.Drawn {
		return ErrAlreadyDrawn
	}
	return nil
}

func checkHandCards(game *domain.Game, cards []*domain.Card) error {
	if domain.HasDuplicates(cards) {
		return fmt.Errorf("%w: card listed twice", ErrCardNotInHand)
	}
	hand := game.ActivePlayer().Hand
	for _, c := range cards {
		if c == nil || domain.IndexOf(hand, c) < 0 {
			return fmt.Errorf("%w: %s", ErrCardNotInHand, c)
		}
	}
	return nil
}

// checkCoverage verifies the new groups use each extracted and hand card exactly once.
func checkCoverage(r Reorganization) error {
	moving := make(map[*domain.Card]int, len(r.Extract)+len(r.Hand))
	for _, c := range r.Extract {
		moving[c]++
	}
	for _, c := range r.Hand {
		moving[c]++
	}
	for c, n := range moving {
		if n > 1 {
			return fmt.Errorf("%w: %s listed twice", ErrMoveRejected, c)
		}
	}
	for _, g := range r.NewGroups {
		for _, c := range g {
			if moving[c] != 1 {
				return fmt.Errorf("%w: %s placed without being moved", ErrMoveRejected, c)
			}
			moving[c]++
		}
	}
	for c, n := range moving {
		if n != 2 {
			return fmt.Errorf("%w: %s left without a group", ErrMoveRejected, c)
		}
	}
	return nil
}

func markPlaced(game *domain.Game) {
	game.Flags.Placed = true
	game.Flags.TurnValid = game.Table.IsValid() && !game.HasPendingTableCards()
}

// checkWin finishes the game when seat emptied its hand on a valid table.
func checkWin(game *domain.Game, seat int) []Event {
	pl := game.PlayerAt(seat)
	if pl == nil || len(pl.Hand) > 0 || !game.Table.IsValid() || game.HasPendingTableCards() {
		return nil
	}
	game.Phase = domain.PhaseFinished
	game.Winner = seat
	return []Event{{Kind: EventGameEnded, Payload: GameEndedPayload{WinnerSeat: seat}}}
}
