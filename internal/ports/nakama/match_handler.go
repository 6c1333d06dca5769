package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"strconv"
	"time"

	"sandwich/internal/app"
	"sandwich/internal/bot"
	"sandwich/internal/config"
	"sandwich/internal/domain"
	"sandwich/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label

	tickRate = 1 // ticks per second; bot delays are counted in ticks
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [app.MaxPlayersPerGame]string `json:"seats"`                   // User IDs, empty string means seat is empty
	OwnerSeat            int                           `json:"owner_seat"`              // Seat index of the match owner
	Tick                 int64                         `json:"tick"`                    // Current tick of the match
	Presences            map[string]runtime.Presence   `json:"-"`                       // Map UserId -> Presence for targeted messaging
	App                  *app.Service                  `json:"-"`                       // Rules engine
	Game                 *domain.Game                  `json:"-"`                       // Current game (nil while in lobby)
	Rng                  *rand.Rand                    `json:"-"`                       // Bot delays and bot planners
	BotsEnabled          bool                          `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                           `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                           `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                           `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotDifficulty        string                        `json:"bot_difficulty"`          // Level for auto-filled bots, from the owner's preferences
	LastSinglePlayerTick int64                         `json:"last_single_player_tick"` // Tick when a single player started waiting
	Scheduler            bot.Scheduler                 `json:"-"`                       // Pending bot turn
	BotStalledTurn       int                           `json:"bot_stalled_turn"`        // Turn number no bot may retry, 0 when none
	Bots                 map[string]*bot.Agent         `json:"-"`                       // Active bot agents
	Preferences          ports.PreferencesPort         `json:"-"`                       // Owner preferences lookup
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// gameSeat returns the in-game seat of userID, or -1 when no game is running or the
// user is not playing in it. Game seats are the occupied lobby seats in order.
func (ms *MatchState) gameSeat(userID string) int {
	if ms.Game == nil {
		return -1
	}
	for _, p := range ms.Game.Players {
		if p.UserID == userID {
			return p.Seat
		}
	}
	return -1
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// envInt reads a positive integer runtime env var, keeping fallback when unset or bad.
func envInt(env map[string]string, key string, fallback int) int {
	if val, ok := env[key]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

type matchHandler struct {
	preferences ports.PreferencesPort
}

func newMatchHandler(preferences ports.PreferencesPort) *matchHandler {
	return &matchHandler{preferences: preferences}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state := &MatchState{
		Presences:     make(map[string]runtime.Presence),
		App:           app.NewService(rng),
		Rng:           rng,
		OwnerSeat:     -1,
		Bots:          make(map[string]*bot.Agent),
		Preferences:   mh.preferences,
		BotDifficulty: cfg.BotDifficulty,
	}

	// Runtime env overrides the file config.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	state.BotsEnabled = env["sandwich_bots_enabled"] == "true"
	state.BotMinDelay = envInt(env, "sandwich_bot_min_delay_sec", cfg.BotMinDelaySec)
	state.BotMaxDelay = envInt(env, "sandwich_bot_max_delay_sec", cfg.BotMaxDelaySec)
	state.BotAutoFillDelay = envInt(env, "sandwich_bot_auto_fill_delay_sec", cfg.BotAutoFillDelaySeconds)
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Players already seated may reconnect at any time.
	for _, seat := range matchState.Seats {
		if seat == presence.GetUserId() {
			return state, true, ""
		}
	}
	if matchState.Game != nil {
		return state, false, "Game in progress"
	}

	// Allow join if there is an empty seat or a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		for _, seat := range matchState.Seats {
			if isBotUserId(seat) {
				return state, true, ""
			}
		}
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if !mh.assignSeat(matchState, logger, p.GetUserId()) {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
			mh.loadOwnerDifficulty(ctx, matchState, logger)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	// A reconnecting player gets the table and their hand back.
	if matchState.Game != nil {
		for _, p := range presences {
			mh.sendHand(matchState, dispatcher, logger, p.GetUserId())
		}
		mh.broadcastTable(matchState, dispatcher, logger)
	}

	return matchState
}

// assignSeat seats userID: a seat they already hold, then an empty seat, then a bot's
// seat while in the lobby.
func (mh *matchHandler) assignSeat(state *MatchState, logger runtime.Logger, userID string) bool {
	for _, seatUserId := range state.Seats {
		if seatUserId == userID {
			return true
		}
	}
	if state.Game != nil {
		return false
	}
	for i, seatUserId := range state.Seats {
		if seatUserId == "" {
			state.Seats[i] = userID
			return true
		}
	}
	for i, seatUserId := range state.Seats {
		if isBotUserId(seatUserId) {
			logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
			delete(state.Bots, seatUserId)
			state.Seats[i] = userID
			return true
		}
	}
	return false
}

// loadOwnerDifficulty uses the owner's preferred bot difficulty for auto-filled bots.
func (mh *matchHandler) loadOwnerDifficulty(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Preferences == nil || state.OwnerSeat < 0 {
		return
	}
	ownerID := state.Seats[state.OwnerSeat]
	prefs, err := state.Preferences.Load(ctx, ownerID)
	if err != nil {
		logger.Warn("MatchJoin: Could not load preferences for owner %s: %v", ownerID, err)
		return
	}
	state.BotDifficulty = prefs.BotDifficulty
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// Mid-game the seat is kept so the player can reconnect; their hand stays in play.
		if matchState.Game != nil {
			continue
		}
		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				break
			}
		}
	}

	if matchState.Game == nil {
		newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
		if newOwnerSeat != matchState.OwnerSeat {
			matchState.OwnerSeat = newOwnerSeat
			if newOwnerSeat >= 0 {
				logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
				mh.loadOwnerDifficulty(ctx, matchState, logger)
			}
		}
	}

	if len(matchState.Presences) == 0 || shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetOpCode() == OpStartGame {
			mh.handleStartGame(matchState, dispatcher, logger, msg)
			continue
		}
		action, ok := actions[msg.GetOpCode()]
		if !ok {
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
			continue
		}
		mh.handleAction(matchState, dispatcher, logger, msg, action)
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots if there's only one human player after delay.
	if state.Game == nil {
		if state.GetHumanPlayerCount() != 1 {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
			mh.fillBots(state, dispatcher, logger)
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game.
	if state.Game.Finished() {
		return
	}
	seat := state.Game.CurrentTurn
	userID := state.Game.Players[seat].UserID
	agent, isBot := state.Bots[userID]
	if !isBot {
		state.Scheduler.Cancel()
		return
	}

	if state.BotStalledTurn == state.Game.TurnNumber {
		return
	}

	if !state.Scheduler.Pending() {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += state.Rng.Intn(span + 1)
		}
		if think := agent.Brain.ThinkSeconds(); think > delay {
			delay = think
		}
		state.Scheduler.Schedule(seat, state.Game.TurnNumber, state.Tick, int64(delay*tickRate))
		logger.Debug("processBots: Bot %s (seat %d) will act in %d ticks", userID, seat, delay*tickRate)
	}

	dueSeat, dueTurn, ok := state.Scheduler.Due(state.Tick)
	if !ok {
		return
	}
	if dueSeat != state.Game.CurrentTurn || dueTurn != state.Game.TurnNumber {
		logger.Debug("processBots: Dropping stale bot turn for seat %d turn %d", dueSeat, dueTurn)
		return
	}

	outcome, events, err := agent.Play(state.Game)
	// Whatever the bot managed before an error is already applied; publish it.
	mh.dispatchEvents(state, dispatcher, logger, events)
	if err != nil {
		logger.Error("processBots: Bot %s failed to take its turn: %v", userID, err)
		events, err = forceTurnEnd(state.App, state.Game, seat)
		mh.dispatchEvents(state, dispatcher, logger, events)
		if err != nil {
			// Retrying would fail the same way every tick.
			state.BotStalledTurn = state.Game.TurnNumber
			logger.Error("processBots: Turn %d of bot %s is stuck: %v", state.Game.TurnNumber, userID, err)
			mh.broadcastTable(state, dispatcher, logger)
			return
		}
		logger.Warn("processBots: Ended turn %d for bot %s", dueTurn, userID)
	} else {
		logger.Debug("processBots: Bot %s finished turn with %s after %d attempts", userID, outcome.Action, outcome.Attempts)
	}
	mh.afterAction(state, dispatcher, logger, userID)
}

// forceTurnEnd gives up seat's turn with the plainest legal action: it undoes any
// placements, then draws or passes.
func forceTurnEnd(svc *app.Service, game *domain.Game, seat int) ([]app.Event, error) {
	if game.Finished() || game.CurrentTurn != seat {
		return nil, nil
	}

	var events []app.Event
	if game.Flags.Placed && !game.Flags.Drawn {
		evs, err := svc.ResetTurn(game, seat)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	if svc.CanDraw(game) == nil {
		evs, err := svc.Draw(game, seat)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	if game.Flags.Drawn {
		evs, err := svc.EndTurn(game, seat)
		return append(events, evs...), err
	}
	evs, err := svc.Pass(game, seat)
	return append(events, evs...), err
}

// fillBots seats a bot in every empty seat.
func (mh *matchHandler) fillBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	level, err := bot.ParseDifficulty(state.BotDifficulty)
	if err != nil {
		logger.Warn("processBots: %v", err)
	}

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		if _, taken := state.Bots[identity.UserID]; taken {
			continue
		}
		agent, err := bot.NewAgent(identity.UserID, bot.GetBotDisplayName(identity.UserID), level, bot.Options{
			Engine: state.App,
			Rng:    state.Rng,
			Logger: logger.WithField("bot", identity.UserID),
		})
		if err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		state.Seats[i] = identity.UserID
		state.Bots[identity.UserID] = agent
		logger.Info("processBots: Added %s bot %s (%s) to seat %d", level, identity.Username, identity.UserID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	}
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := -1
	for i, seatUserId := range state.Seats {
		if seatUserId == senderID {
			senderSeat = i
			break
		}
	}

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil && !state.Game.Finished() {
		logger.Warn("StartGame: Game already running.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	cfg := config.GetGameConfig()
	players := make([]*domain.Player, 0, len(state.Seats))
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		name := bot.GetBotDisplayName(userID)
		if p, ok := state.Presences[userID]; ok {
			name = p.GetUsername()
		}
		players = append(players, &domain.Player{UserID: userID, Name: name, IsBot: isBotUserId(userID)})
	}
	if len(players) < cfg.MinPlayers {
		mh.sendError(state, dispatcher, logger, senderID, app.ReasonPlayers, app.ErrTooFewPlayers.Error())
		return
	}

	game, events, err := state.App.StartGame(players, app.GameOptions{HandSize: cfg.HandSize, DeckCount: cfg.DeckCount})
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, reasonFor(err), err.Error())
		return
	}

	state.Game = game
	state.Scheduler.Cancel()
	state.BotStalledTurn = 0

	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(state, dispatcher, logger, events)
	mh.broadcastTable(state, dispatcher, logger)

	logger.Info("StartGame: Game %s started with %d players.", game.ID, len(players))
}

// action performs one engine operation for seat from a decoded client request.
type action func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error)

var actions = map[int64]action{
	OpDraw: func(svc *app.Service, game *domain.Game, seat int, _ *request) ([]app.Event, error) {
		return svc.Draw(game, seat)
	},
	OpPlayGroup: func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error) {
		cards, err := req.cards(game, "cards")
		if err != nil {
			return nil, err
		}
		return svc.PlayGroup(game, seat, cards)
	},
	OpAddToGroup: func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error) {
		card, err := req.card(game, "card")
		if err != nil {
			return nil, err
		}
		group, err := req.int("group")
		if err != nil {
			return nil, err
		}
		return svc.AddToGroup(game, seat, card, group)
	},
	OpReorganize: func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error) {
		extract, err := req.cards(game, "extract")
		if err != nil {
			return nil, err
		}
		hand, err := req.cards(game, "hand")
		if err != nil {
			return nil, err
		}
		groups, err := req.cardGroups(game, "groups")
		if err != nil {
			return nil, err
		}
		return svc.Reorganize(game, seat, app.Reorganization{Extract: extract, Hand: hand, NewGroups: groups})
	},
	OpTakeFromTable: func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error) {
		group, err := req.int("group")
		if err != nil {
			return nil, err
		}
		index, err := req.int("index")
		if err != nil {
			return nil, err
		}
		return svc.TakeFromTable(game, seat, group, index)
	},
	OpMoveTableCard: func(svc *app.Service, game *domain.Game, seat int, req *request) ([]app.Event, error) {
		from, err := req.int("from")
		if err != nil {
			return nil, err
		}
		index, err := req.int("index")
		if err != nil {
			return nil, err
		}
		to, err := req.int("to")
		if err != nil {
			return nil, err
		}
		return svc.MoveTableCard(game, seat, from, index, to)
	},
	OpEndTurn: func(svc *app.Service, game *domain.Game, seat int, _ *request) ([]app.Event, error) {
		return svc.EndTurn(game, seat)
	},
	OpResetTurn: func(svc *app.Service, game *domain.Game, seat int, _ *request) ([]app.Event, error) {
		return svc.ResetTurn(game, seat)
	},
	OpPass: func(svc *app.Service, game *domain.Game, seat int, _ *request) ([]app.Event, error) {
		return svc.Pass(game, seat)
	},
}

func (mh *matchHandler) handleAction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, act action) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleAction: Game not started (op %d from %s).", msg.GetOpCode(), senderID)
		mh.sendError(state, dispatcher, logger, senderID, app.ReasonFinished, "no game in progress")
		return
	}
	seat := state.gameSeat(senderID)
	if seat < 0 {
		mh.sendError(state, dispatcher, logger, senderID, app.ReasonNotYourTurn, app.ErrNotYourTurn.Error())
		return
	}

	req, err := decodeRequest(msg.GetData())
	if err == nil {
		var events []app.Event
		events, err = act(state.App, state.Game, seat, req)
		if err == nil {
			mh.dispatchEvents(state, dispatcher, logger, events)
			mh.afterAction(state, dispatcher, logger, senderID)
			return
		}
	}

	logger.Warn("handleAction: User %s (seat %d) op %d rejected: %v", senderID, seat, msg.GetOpCode(), err)
	mh.sendError(state, dispatcher, logger, senderID, reasonFor(err), err.Error())
}

// afterAction publishes the table to everyone and the hand to its owner, then returns
// the match to the lobby once the game is over.
func (mh *matchHandler) afterAction(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	mh.broadcastTable(state, dispatcher, logger)
	mh.sendHand(state, dispatcher, logger, userID)

	if state.Game.Finished() {
		logger.Info("Game %s finished (winner seat %d).", state.Game.ID, state.Game.Winner)
		state.Game = nil
		state.Scheduler.Cancel()
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	}
}

// dispatchEvents sends each event to its recipients, or to everyone when it has none.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		opCode, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Failed to encode event %v: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := state.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Private events for absent players (bots) must not fall back to a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}

		if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
			logger.Error("Failed to dispatch event %v: %v", ev.Kind, err)
		}
	}
}

func (mh *matchHandler) broadcastTable(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	data, err := encodeTable(state.Game)
	if err != nil {
		logger.Error("Failed to encode table: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpTableState, data, nil, nil, true)
}

func (mh *matchHandler) sendHand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok || state.Game == nil {
		return
	}
	seat := state.gameSeat(userID)
	if seat < 0 {
		return
	}
	data, err := encodeHand(state.Game.Players[seat])
	if err != nil {
		logger.Error("Failed to encode hand for %s: %v", userID, err)
		return
	}
	dispatcher.BroadcastMessage(OpHandState, data, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, len(state.Seats))
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		avatar := 0
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if identity, ok := bot.GetBotConfig(userId); ok {
			displayName = bot.GetBotDisplayName(userId)
			avatar = identity.AvatarIndex
		}

		cardsRemaining := 0
		if seat := state.gameSeat(userId); seat >= 0 {
			cardsRemaining = len(state.Game.Players[seat].Hand)
		}

		players = append(players, map[string]interface{}{
			"user_id":         userId,
			"seat":            i,
			"is_owner":        i == state.OwnerSeat,
			"is_bot":          isBotUserId(userId),
			"cards_remaining": cardsRemaining,
			"display_name":    displayName,
			"avatar_index":    avatar,
		})
	}

	data, err := marshalFields(map[string]interface{}{
		"seats":          stringsToWire(state.Seats[:]),
		"owner_seat":     state.OwnerSeat,
		"tick":           state.Tick,
		"players":        players,
		"in_game":        state.Game != nil,
		"bot_difficulty": state.BotDifficulty,
	})
	if err != nil {
		logger.Error("Failed to encode match state: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchState, data, nil, nil, true)
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, reason, message string) {
	data, err := encodeError(reason, message)
	if err != nil {
		logger.Error("Failed to encode game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true)
}

// matchLabel is the JSON label quick match filters on.
func matchLabel(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Game != nil {
		phase = "playing"
	}
	data, err := marshalFields(map[string]interface{}{
		"game":                  gameLabel,
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		"phase":                 phase,
		"players":               state.GetOccupiedSeatCount(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
