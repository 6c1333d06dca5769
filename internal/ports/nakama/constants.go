package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcGetPreferences returns the caller's stored preferences.
	RpcGetPreferences = "get_preferences"
	// RpcSavePreferences validates and stores the caller's preferences.
	RpcSavePreferences = "save_preferences"

	// MatchNameSandwich is the authoritative match handler name registered with Nakama.
	MatchNameSandwich = "sandwich_match"

	// gameLabel is the label.game value quick match searches for.
	gameLabel = "sandwich"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame     int64 = 1
	OpDraw          int64 = 2
	OpPlayGroup     int64 = 3
	OpAddToGroup    int64 = 4
	OpReorganize    int64 = 5
	OpTakeFromTable int64 = 6
	OpMoveTableCard int64 = 7
	OpEndTurn       int64 = 8
	OpResetTurn     int64 = 9
	OpPass          int64 = 10

	// Server -> Client events
	OpMatchState       int64 = 100
	OpGameStarted      int64 = 101
	OpHandDealt        int64 = 102 // send privately
	OpCardDrawn        int64 = 103
	OpCardReceived     int64 = 104 // send privately
	OpGroupPlayed      int64 = 105
	OpCardAdded        int64 = 106
	OpTableReorganized int64 = 107
	OpCardTaken        int64 = 108
	OpCardMoved        int64 = 109
	OpTurnEnded        int64 = 110
	OpTurnReset        int64 = 111
	OpTurnPassed       int64 = 112
	OpGameEnded        int64 = 113
	OpGameError        int64 = 114
	OpTableState       int64 = 115
	OpHandState        int64 = 116 // send privately
)
