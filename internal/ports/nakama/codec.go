package nakama

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"sandwich/internal/app"
	"sandwich/internal/domain"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// errBadRequest marks a client payload that could not be decoded.
var errBadRequest = errors.New("malformed request")

const reasonBadRequest = "bad_request"

var wireJSON = protojson.MarshalOptions{EmitUnpopulated: true}

// marshalFields encodes a JSON object through structpb so every payload on the wire
// goes through one canonical encoder.
func marshalFields(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return wireJSON.Marshal(s)
}

func cardToWire(c *domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"id":   c.ID.String(),
		"rank": c.Rank.String(),
		"suit": c.Suit.Name(),
	}
}

func cardsToWire(cards []*domain.Card) []interface{} {
	out := make([]interface{}, len(cards))
	for i, c := range cards {
		out[i] = cardToWire(c)
	}
	return out
}

func groupsToWire[G ~[]*domain.Card](groups []G) []interface{} {
	out := make([]interface{}, len(groups))
	for i, g := range groups {
		out[i] = cardsToWire(g)
	}
	return out
}

func intsToWire(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func stringsToWire(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// encodeEvent maps an app event to its op code and wire payload.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	var opCode int64
	var fields map[string]interface{}

	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		opCode = OpGameStarted
		fields = map[string]interface{}{
			"game_id":         p.GameID,
			"seats":           stringsToWire(p.Seats),
			"first_turn_seat": p.FirstTurnSeat,
			"deck_remaining":  p.DeckRemaining,
		}
	case app.HandDealtPayload:
		opCode = OpHandDealt
		fields = map[string]interface{}{"seat": p.Seat, "hand": cardsToWire(p.Hand)}
	case app.CardDrawnPayload:
		opCode = OpCardDrawn
		fields = map[string]interface{}{"seat": p.Seat, "deck_remaining": p.DeckRemaining}
	case app.CardReceivedPayload:
		opCode = OpCardReceived
		fields = map[string]interface{}{"seat": p.Seat, "card": cardToWire(p.Card)}
	case app.GroupPlayedPayload:
		opCode = OpGroupPlayed
		fields = map[string]interface{}{"seat": p.Seat, "group": p.GroupIndex, "cards": cardsToWire(p.Cards)}
	case app.CardAddedPayload:
		opCode = OpCardAdded
		fields = map[string]interface{}{"seat": p.Seat, "group": p.GroupIndex, "card": cardToWire(p.Card)}
	case app.TableReorganizedPayload:
		opCode = OpTableReorganized
		fields = map[string]interface{}{
			"seat":      p.Seat,
			"hand":      cardsToWire(p.HandCards),
			"extracted": cardsToWire(p.Extracted),
			"groups":    groupsToWire(p.NewGroups),
		}
	case app.CardTakenPayload:
		opCode = OpCardTaken
		fields = map[string]interface{}{"seat": p.Seat, "card": cardToWire(p.Card), "from_group": p.FromGroup}
	case app.CardMovedPayload:
		opCode = OpCardMoved
		fields = map[string]interface{}{
			"seat":       p.Seat,
			"card":       cardToWire(p.Card),
			"from_group": p.FromGroup,
			"to_group":   p.ToGroup,
		}
	case app.TurnEndedPayload:
		opCode = OpTurnEnded
		fields = map[string]interface{}{"seat": p.Seat, "next_seat": p.NextSeat}
	case app.TurnResetPayload:
		opCode = OpTurnReset
		fields = map[string]interface{}{"seat": p.Seat}
	case app.TurnPassedPayload:
		opCode = OpTurnPassed
		fields = map[string]interface{}{"seat": p.Seat, "next_seat": p.NextSeat}
	case app.GameEndedPayload:
		opCode = OpGameEnded
		fields = map[string]interface{}{"winner_seat": p.WinnerSeat, "stalemate": p.Stalemate}
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	data, err := marshalFields(fields)
	if err != nil {
		return 0, nil, err
	}
	return opCode, data, nil
}

// encodeTable describes the public game state every client re-reads after an action.
func encodeTable(game *domain.Game) ([]byte, error) {
	handCounts := make([]int, len(game.Players))
	for i, p := range game.Players {
		handCounts[i] = len(p.Hand)
	}
	return marshalFields(map[string]interface{}{
		"groups":         groupsToWire(game.Table.Groups),
		"valid":          game.Table.IsValid(),
		"invalid_groups": intsToWire(game.Table.InvalidGroups()),
		"deck_remaining": game.Deck.Len(),
		"current_turn":   game.CurrentTurn,
		"turn_number":    game.TurnNumber,
		"hand_counts":    intsToWire(handCounts),
		"flags": map[string]interface{}{
			"drawn":      game.Flags.Drawn,
			"placed":     game.Flags.Placed,
			"turn_valid": game.Flags.TurnValid,
		},
	})
}

func encodeHand(p *domain.Player) ([]byte, error) {
	return marshalFields(map[string]interface{}{"seat": p.Seat, "hand": cardsToWire(p.Hand)})
}

func encodeError(reason, message string) ([]byte, error) {
	return marshalFields(map[string]interface{}{"reason": reason, "message": message})
}

// request is a decoded client payload. Cards are referenced by their ID.
type request struct {
	fields map[string]*structpb.Value
}

func decodeRequest(data []byte) (*request, error) {
	s := &structpb.Struct{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := protojson.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	return &request{fields: s.GetFields()}, nil
}

func (r *request) value(key string) (*structpb.Value, error) {
	v, ok := r.fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", errBadRequest, key)
	}
	return v, nil
}

func (r *request) int(key string) (int, error) {
	v, err := r.value(key)
	if err != nil {
		return 0, err
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%w: %q is not an integer", errBadRequest, key)
	}
	return int(n.NumberValue), nil
}

func (r *request) card(game *domain.Game, key string) (*domain.Card, error) {
	v, err := r.value(key)
	if err != nil {
		return nil, err
	}
	return resolveCard(game, v)
}

func (r *request) cards(game *domain.Game, key string) ([]*domain.Card, error) {
	v, err := r.value(key)
	if err != nil {
		return nil, err
	}
	return resolveCards(game, v)
}

func (r *request) cardGroups(game *domain.Game, key string) ([][]*domain.Card, error) {
	v, err := r.value(key)
	if err != nil {
		return nil, err
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %q is not a list", errBadRequest, key)
	}
	groups := make([][]*domain.Card, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		group, err := resolveCards(game, item)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func resolveCards(game *domain.Game, v *structpb.Value) ([]*domain.Card, error) {
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: expected a list of card ids", errBadRequest)
	}
	cards := make([]*domain.Card, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		c, err := resolveCard(game, item)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// resolveCard looks a card ID up in the active hand and on the table.
func resolveCard(game *domain.Game, v *structpb.Value) (*domain.Card, error) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%w: card id must be a string", errBadRequest)
	}
	id, err := uuid.Parse(s.StringValue)
	if err != nil {
		return nil, fmt.Errorf("%w: card id %q: %v", errBadRequest, s.StringValue, err)
	}
	c := game.FindCard(id)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", app.ErrCardNotInHand, id)
	}
	return c, nil
}

// reasonFor maps a handler error to the reason code sent to the client.
func reasonFor(err error) string {
	if errors.Is(err, errBadRequest) {
		return reasonBadRequest
	}
	return app.ReasonCode(err)
}
