package domain

import "github.com/google/uuid"

// Phase represents the lifecycle stage of a game.
type Phase string

const (
	// PhasePlaying is the active game state where turns are taken.
	PhasePlaying Phase = "playing"
	// PhaseFinished is terminal: a player emptied their hand or everybody passed.
	PhaseFinished Phase = "finished"
)

// NoWinner marks a finished game that ended in a stalemate.
const NoWinner = -1

// Player holds the domain state for a seated player.
type Player struct {
	UserID string
	Name   string
	Seat   int // 0-based, equal to the index in Game.Players
	IsBot  bool
	Hand   []*Card
}

// TurnFlags gate which action the current turn may still take.
type TurnFlags struct {
	Drawn     bool // a card was drawn this turn
	Placed    bool // a card was moved to or within the table this turn
	TurnValid bool // the turn may end now
}

// Zone is where a card can sit.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneTable
)

func (z Zone) String() string {
	switch z {
	case ZoneHand:
		return "hand"
	case ZoneTable:
		return "table"
	default:
		return "deck"
	}
}

// Location pins a card to a zone. Seat is set for hands, Group for the table;
// Index is the position inside the hand or group.
type Location struct {
	Zone  Zone
	Seat  int
	Group int
	Index int
}

// TurnSnapshot records where every hand and table card sat when the turn began.
type TurnSnapshot struct {
	Seat      int
	Positions map[*Card]Location
	Groups    int
}

// Game is the whole session aggregate: deck, hands, table and turn state.
// It is not safe for concurrent use; callers serialize access by turn.
type Game struct {
	ID          uuid.UUID
	Phase       Phase
	Players     []*Player
	Deck        *Deck
	Table       *Table
	CurrentTurn int
	TurnNumber  int
	Flags       TurnFlags
	Winner      int

	// Pending maps cards the active player pulled off the table this turn to the
	// location they came from. It is cleared at every turn boundary.
	Pending map[*Card]Location

	// TurnStart is the position snapshot ResetTurn restores.
	TurnStart TurnSnapshot

	// ConsecutivePasses counts passes in a row since the deck ran out.
	ConsecutivePasses int
}

// NewGame returns an empty game in the playing phase for the given players.
func NewGame(players []*Player) *Game {
	for i, p := range players {
		p.Seat = i
	}
	return &Game{
		ID:      uuid.New(),
		Phase:   PhasePlaying,
		Players: players,
		Deck:    &Deck{},
		Table:   NewTable(),
		Winner:  NoWinner,
		Pending: make(map[*Card]Location),
	}
}

// ActivePlayer returns the player whose turn it is.
func (g *Game) ActivePlayer() *Player {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentTurn]
}

// PlayerAt returns the player seated at seat, or nil.
func (g *Game) PlayerAt(seat int) *Player {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return g.Players[seat]
}

// NextSeat returns the seat after seat in turn order.
func (g *Game) NextSeat(seat int) int {
	if len(g.Players) == 0 {
		return 0
	}
	return (seat + 1) % len(g.Players)
}

// Finished reports whether the game reached its terminal phase.
func (g *Game) Finished() bool {
	return g.Phase == PhaseFinished
}

// TotalCards counts every card in the deck, hands and table.
func (g *Game) TotalCards() int {
	n := g.Deck.Len() + g.Table.CardCount()
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

// HasPendingTableCards reports whether the active hand holds a card pulled off the table
// this turn.
func (g *Game) HasPendingTableCards() bool {
	p := g.ActivePlayer()
	if p == nil {
		return false
	}
	for _, c := range p.Hand {
		if _, ok := g.Pending[c]; ok {
			return true
		}
	}
	return false
}

// Snapshot records the position of every hand and table card for seat's turn.
func (g *Game) Snapshot(seat int) TurnSnapshot {
	snap := TurnSnapshot{
		Seat:      seat,
		Positions: make(map[*Card]Location, g.TotalCards()),
		Groups:    g.Table.Len(),
	}
	for gi, grp := range g.Table.Groups {
		for ci, c := range grp {
			snap.Positions[c] = Location{Zone: ZoneTable, Group: gi, Index: ci}
		}
	}
	for _, p := range g.Players {
		for i, c := range p.Hand {
			snap.Positions[c] = Location{Zone: ZoneHand, Seat: p.Seat, Index: i}
		}
	}
	return snap
}

// FindCard resolves a card identity in the active hand or on the table.
func (g *Game) FindCard(id uuid.UUID) *Card {
	if p := g.ActivePlayer(); p != nil {
		for _, c := range p.Hand {
			if c.ID == id {
				return c
			}
		}
	}
	for _, grp := range g.Table.Groups {
		for _, c := range grp {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}
