package nakama

import (
	"errors"
	"testing"

	"sandwich/internal/app"
	"sandwich/internal/domain"
)

func TestEncodeEvent(t *testing.T) {
	card := domain.NewCard(domain.SuitSpade, domain.Queen)

	tests := []struct {
		name   string
		event  app.Event
		opCode int64
		check  func(t *testing.T, payload map[string]interface{})
	}{
		{
			name:   "CardReceived",
			event:  app.Event{Kind: app.EventCardReceived, Payload: app.CardReceivedPayload{Seat: 2, Card: card}},
			opCode: OpCardReceived,
			check: func(t *testing.T, payload map[string]interface{}) {
				got := payload["card"].(map[string]interface{})
				if got["id"] != card.ID.String() || got["rank"] != "Q" || got["suit"] != "spade" {
					t.Fatalf("card = %v", got)
				}
			},
		},
		{
			name: "TableReorganized",
			event: app.Event{Kind: app.EventTableReorganized, Payload: app.TableReorganizedPayload{
				Seat:      1,
				HandCards: []*domain.Card{card},
				NewGroups: [][]*domain.Card{{card}, {card, card}},
			}},
			opCode: OpTableReorganized,
			check: func(t *testing.T, payload map[string]interface{}) {
				groups := payload["groups"].([]interface{})
				if len(groups) != 2 || len(groups[1].([]interface{})) != 2 {
					t.Fatalf("groups = %v", groups)
				}
				if extracted := payload["extracted"].([]interface{}); len(extracted) != 0 {
					t.Fatalf("extracted = %v", extracted)
				}
			},
		},
		{
			name:   "Stalemate",
			event:  app.Event{Kind: app.EventGameEnded, Payload: app.GameEndedPayload{WinnerSeat: domain.NoWinner, Stalemate: true}},
			opCode: OpGameEnded,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["winner_seat"] != float64(-1) || payload["stalemate"] != true {
					t.Fatalf("payload = %v", payload)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opCode, data, err := encodeEvent(test.event)
			if err != nil {
				t.Fatalf("encodeEvent: %v", err)
			}
			if opCode != test.opCode {
				t.Fatalf("opCode = %d, want %d", opCode, test.opCode)
			}
			test.check(t, decodePayload(t, data))
		})
	}

	if _, _, err := encodeEvent(app.Event{Kind: "mystery", Payload: 42}); err == nil {
		t.Fatal("unknown payload encoded")
	}
}

func TestDecodeRequest(t *testing.T) {
	hand := []*domain.Card{
		domain.NewCard(domain.SuitClub, 7),
		domain.NewCard(domain.SuitClub, 8),
	}
	onTable := domain.NewCard(domain.SuitClub, 9)
	game := domain.NewGame([]*domain.Player{{UserID: "user-1", Hand: hand}, {UserID: "user-2"}})
	game.Table.Groups = []domain.Group{{onTable}}

	payload := `{"hand": ["` + hand[0].ID.String() + `", "` + hand[1].ID.String() + `"],
		"extract": ["` + onTable.ID.String() + `"],
		"groups": [["` + hand[0].ID.String() + `", "` + hand[1].ID.String() + `", "` + onTable.ID.String() + `"]],
		"group": 2, "half": 1.5, "name": "x"}`
	req, err := decodeRequest([]byte(payload))
	if err != nil {
		t.Fatalf("decodeRequest: %v", err)
	}

	cards, err := req.cards(game, "hand")
	if err != nil || len(cards) != 2 || cards[0] != hand[0] || cards[1] != hand[1] {
		t.Fatalf("cards(hand) = %v, %v", cards, err)
	}
	extract, err := req.cards(game, "extract")
	if err != nil || len(extract) != 1 || extract[0] != onTable {
		t.Fatalf("cards(extract) = %v, %v", extract, err)
	}
	groups, err := req.cardGroups(game, "groups")
	if err != nil || len(groups) != 1 || len(groups[0]) != 3 || groups[0][2] != onTable {
		t.Fatalf("cardGroups = %v, %v", groups, err)
	}
	if n, err := req.int("group"); err != nil || n != 2 {
		t.Fatalf("int(group) = %d, %v", n, err)
	}

	badRequest := []struct {
		name string
		call func() error
	}{
		{name: "Fraction", call: func() error { _, err := req.int("half"); return err }},
		{name: "StringAsInt", call: func() error { _, err := req.int("name"); return err }},
		{name: "Missing", call: func() error { _, err := req.int("nothing"); return err }},
		{name: "StringAsList", call: func() error { _, err := req.cards(game, "name"); return err }},
		{name: "NumberAsCard", call: func() error { _, err := req.card(game, "group"); return err }},
		{name: "BadUUID", call: func() error { _, err := req.card(game, "name"); return err }},
	}
	for _, test := range badRequest {
		t.Run(test.name, func(t *testing.T) {
			if err := test.call(); !errors.Is(err, errBadRequest) || reasonFor(err) != reasonBadRequest {
				t.Fatalf("err = %v, want errBadRequest", err)
			}
		})
	}

	// A card held by another player is not addressable.
	other := domain.NewCard(domain.SuitHeart, 2)
	game.Players[1].Hand = []*domain.Card{other}
	req, _ = decodeRequest([]byte(`{"card": "` + other.ID.String() + `"}`))
	if _, err := req.card(game, "card"); !errors.Is(err, app.ErrCardNotInHand) {
		t.Fatalf("err = %v, want ErrCardNotInHand", err)
	}

	if req, err := decodeRequest(nil); err != nil || len(req.fields) != 0 {
		t.Fatalf("empty payload = %v, %v", req, err)
	}
}
