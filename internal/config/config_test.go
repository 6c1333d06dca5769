package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetForTest() {
	cfg = nil
	loadErr = nil
	loadOnce = sync.Once{}
}

func TestGetGameConfigDefaults(t *testing.T) {
	resetForTest()
	got := GetGameConfig()
	if got.HandSize != 7 || got.MaxPlayers != 5 || got.BotAttemptCap < 1 {
		t.Fatalf("defaults = %+v", got)
	}
}

func TestLoadGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, c *GameConfig)
	}{
		{
			name: "Partial file keeps defaults",
			body: `{"hand_size": 9, "bot_difficulty": "hard"}`,
			check: func(t *testing.T, c *GameConfig) {
				if c.HandSize != 9 || c.BotDifficulty != "hard" || c.MaxPlayers != 5 {
					t.Fatalf("config = %+v", c)
				}
			},
		},
		{name: "Bad json", body: `{"hand_size": `, wantErr: true},
		{name: "Bad players", body: `{"min_players": 4, "max_players": 3}`, wantErr: true},
		{name: "Too many players", body: `{"max_players": 8}`, wantErr: true},
		{name: "Too few decks", body: `{"deck_count": 2}`, wantErr: true},
		{name: "Bad delay", body: `{"bot_min_delay_seconds": 5, "bot_max_delay_seconds": 1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetForTest()
			path := filepath.Join(t.TempDir(), "game_config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			err := LoadGameConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if GetGameConfig().HandSize != 7 {
					t.Fatal("failed load should leave defaults in place")
				}
				return
			}
			if err != nil {
				t.Fatalf("load error: %v", err)
			}
			tt.check(t, GetGameConfig())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(c *GameConfig)
		wantErr bool
	}{
		{name: "Defaults", edit: func(c *GameConfig) {}},
		{name: "Full table", edit: func(c *GameConfig) { c.MinPlayers, c.MaxPlayers = 5, 5 }},
		{name: "Six seats", edit: func(c *GameConfig) { c.MaxPlayers = 6 }, wantErr: true},
		{name: "One seat", edit: func(c *GameConfig) { c.MinPlayers = 1 }, wantErr: true},
		{name: "Enough decks", edit: func(c *GameConfig) { c.DeckCount = 3 }},
		{name: "Two decks for five", edit: func(c *GameConfig) { c.DeckCount = 2 }, wantErr: true},
		{name: "Two decks for four", edit: func(c *GameConfig) { c.DeckCount, c.MaxPlayers = 2, 4 }},
		{name: "One deck", edit: func(c *GameConfig) { c.DeckCount, c.MaxPlayers = 1, 2 }, wantErr: true},
		{name: "Hands eat the deck", edit: func(c *GameConfig) { c.HandSize = 32 }, wantErr: true},
		{name: "Zero hand", edit: func(c *GameConfig) { c.HandSize = 0 }, wantErr: true},
		{name: "Zero attempts", edit: func(c *GameConfig) { c.BotAttemptCap = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.edit(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadGameConfigMissingFile(t *testing.T) {
	resetForTest()
	if err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
