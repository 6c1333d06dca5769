package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"sandwich/internal/app"
	"sandwich/internal/domain"
)

type GameConfig struct {
	HandSize int `json:"hand_size"`
	// DeckCount forces the number of 52-card sets; 0 picks 2, or 3 from five players.
	DeckCount  int `json:"deck_count"`
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`

	BotDifficulty   string `json:"bot_difficulty"`
	BotAttemptCap   int    `json:"bot_attempt_cap"`
	BotSearchBudget int    `json:"bot_search_budget"`
	BotMinDelaySec  int    `json:"bot_min_delay_seconds"`
	BotMaxDelaySec  int    `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

// Defaults returns the standard rules.
func Defaults() GameConfig {
	return GameConfig{
		HandSize:                7,
		MinPlayers:              2,
		MaxPlayers:              5,
		BotDifficulty:           "medium",
		BotAttemptCap:           5,
		BotSearchBudget:         4000,
		BotMinDelaySec:          1,
		BotMaxDelaySec:          3,
		BotAutoFillDelaySeconds: 5,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Fields missing from
// the file keep their defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c := Defaults()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = fmt.Errorf("invalid game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		d := Defaults()
		return &d
	}
	return cfg
}

// Validate rejects settings the engine cannot play with.
func (c GameConfig) Validate() error {
	switch {
	case c.HandSize < 1:
		return fmt.Errorf("hand_size %d must be positive", c.HandSize)
	case c.DeckCount < 0:
		return fmt.Errorf("deck_count %d must not be negative", c.DeckCount)
	case c.MinPlayers < app.MinPlayersToStartGame || c.MaxPlayers < c.MinPlayers || c.MaxPlayers > app.MaxPlayersPerGame:
		return fmt.Errorf("players %d..%d out of range %d..%d", c.MinPlayers, c.MaxPlayers, app.MinPlayersToStartGame, app.MaxPlayersPerGame)
	case c.DeckCount > 0 && c.DeckCount < domain.DeckCountFor(c.MaxPlayers):
		return fmt.Errorf("deck_count %d is below the %d decks %d players need", c.DeckCount, domain.DeckCountFor(c.MaxPlayers), c.MaxPlayers)
	case c.HandSize*c.MaxPlayers >= c.decks()*domain.CardsPerSet:
		return fmt.Errorf("hand_size %d leaves no deck for %d players", c.HandSize, c.MaxPlayers)
	case c.BotAttemptCap < 1:
		return fmt.Errorf("bot_attempt_cap %d must be positive", c.BotAttemptCap)
	case c.BotMinDelaySec < 0 || c.BotMaxDelaySec < c.BotMinDelaySec:
		return fmt.Errorf("bot delay %d..%d out of range", c.BotMinDelaySec, c.BotMaxDelaySec)
	}
	return nil
}

// decks is the number of 52-card sets a full table plays with.
func (c GameConfig) decks() int {
	if c.DeckCount > 0 {
		return c.DeckCount
	}
	return domain.DeckCountFor(c.MaxPlayers)
}
