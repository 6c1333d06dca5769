package app

import "errors"

var (
	ErrTooFewPlayers     = errors.New("not enough players to start")
	ErrTooManyPlayers    = errors.New("too many players for one table")
	ErrGameFinished      = errors.New("game already finished")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrAlreadyDrawn      = errors.New("a card was already drawn this turn")
	ErrAlreadyPlaced     = errors.New("cards were already placed this turn")
	ErrDeckEmpty         = errors.New("deck is empty")
	ErrPendingTableCards = errors.New("cards taken from the table must go back first")
	ErrTableInvalid      = errors.New("table groups are not all valid")
	ErrMustDrawOrPlace   = errors.New("draw or place a card before ending the turn")
	ErrCardNotInHand     = errors.New("card is not in the active hand")
	ErrCardNotOnTable    = errors.New("card is not on the table")
	ErrGroupNotFound     = errors.New("table group not found")
	ErrEmptyMove         = errors.New("move places no card from the hand")
	ErrMoveRejected      = errors.New("move rejected")
	ErrCannotPass        = errors.New("passing is only allowed on an untouched turn with an empty deck")
)

// Reason codes are stable identifiers for rejected actions, used by hosts on the wire.
const (
	ReasonNone            = ""
	ReasonFinished        = "game_finished"
	ReasonNotYourTurn     = "not_your_turn"
	ReasonAlreadyDrawn    = "already_drawn"
	ReasonAlreadyPlaced   = "already_placed"
	ReasonDeckEmpty       = "deck_empty"
	ReasonPendingCards    = "pending_table_cards"
	ReasonTableInvalid    = "table_invalid"
	ReasonMustDrawOrPlace = "must_draw_or_place"
	ReasonBadCard         = "bad_card"
	ReasonBadGroup        = "bad_group"
	ReasonMoveRejected    = "move_rejected"
	ReasonCannotPass      = "cannot_pass"
	ReasonPlayers         = "player_count"
	ReasonUnknown         = "unknown"
)

// ReasonCode maps an engine error to its reason code.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMoveRejected):
		return ReasonMoveRejected
	case errors.Is(err, ErrGameFinished):
		return ReasonFinished
	case errors.Is(err, ErrNotYourTurn):
		return ReasonNotYourTurn
	case errors.Is(err, ErrAlreadyDrawn):
		return ReasonAlreadyDrawn
	case errors.Is(err, ErrAlreadyPlaced):
		return ReasonAlreadyPlaced
	case errors.Is(err, ErrDeckEmpty):
		return ReasonDeckEmpty
	case errors.Is(err, ErrPendingTableCards):
		return ReasonPendingCards
	case errors.Is(err, ErrTableInvalid):
		return ReasonTableInvalid
	case errors.Is(err, ErrMustDrawOrPlace):
		return ReasonMustDrawOrPlace
	case errors.Is(err, ErrCardNotInHand), errors.Is(err, ErrCardNotOnTable), errors.Is(err, ErrEmptyMove):
		return ReasonBadCard
	case errors.Is(err, ErrGroupNotFound):
		return ReasonBadGroup
	case errors.Is(err, ErrCannotPass):
		return ReasonCannotPass
	case errors.Is(err, ErrTooFewPlayers), errors.Is(err, ErrTooManyPlayers):
		return ReasonPlayers
	default:
		return ReasonUnknown
	}
}
