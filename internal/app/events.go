package app

import "sandwich/internal/domain"

// EventKind identifies emitted domain events for host dispatch.
type EventKind string

const (
	EventGameStarted      EventKind = "game_started"
	EventHandDealt        EventKind = "hand_dealt"
	EventCardDrawn        EventKind = "card_drawn"
	EventCardReceived     EventKind = "card_received"
	EventGroupPlayed      EventKind = "group_played"
	EventCardAdded        EventKind = "card_added"
	EventTableReorganized EventKind = "table_reorganized"
	EventCardTaken        EventKind = "card_taken"
	EventCardMoved        EventKind = "card_moved"
	EventTurnEnded        EventKind = "turn_ended"
	EventTurnReset        EventKind = "turn_reset"
	EventTurnPassed       EventKind = "turn_passed"
	EventGameEnded        EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type GameStartedPayload struct {
	GameID        string
	Seats         []string
	FirstTurnSeat int
	DeckRemaining int
}

type HandDealtPayload struct {
	Seat int
	Hand []*domain.Card
}

type CardDrawnPayload struct {
	Seat          int
	DeckRemaining int
}

type CardReceivedPayload struct {
	Seat int
	Card *domain.Card
}

type GroupPlayedPayload struct {
	Seat       int
	GroupIndex int
	Cards      []*domain.Card
}

type CardAddedPayload struct {
	Seat       int
	GroupIndex int
	Card       *domain.Card
}

type TableReorganizedPayload struct {
	Seat      int
	HandCards []*domain.Card
	Extracted []*domain.Card
	NewGroups [][]*domain.Card
}

type CardTakenPayload struct {
	Seat      int
	Card      *domain.Card
	FromGroup int
}

type CardMovedPayload struct {
	Seat      int
	Card      *domain.Card
	FromGroup int
	ToGroup   int
}

type TurnEndedPayload struct {
	Seat     int
	NextSeat int
}

type TurnResetPayload struct {
	Seat int
}

type TurnPassedPayload struct {
	Seat     int
	NextSeat int
}

type GameEndedPayload struct {
	WinnerSeat int // domain.NoWinner on a stalemate
	Stalemate  bool
}
