package ports

import (
	"context"
	"errors"
	"fmt"
)

// Volume bounds for Preferences.Volume.
const (
	MinVolume = 0
	MaxVolume = 100
)

// ErrInvalidPreferences is returned when a preferences value is out of range.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Preferences are the per-user settings the server keeps between sessions.
// Mid-game state is never persisted.
type Preferences struct {
	Volume        int    `json:"volume"`
	BotDifficulty string `json:"bot_difficulty"`
}

// DefaultPreferences returns the settings a fresh account starts with.
func DefaultPreferences() Preferences {
	return Preferences{Volume: 80, BotDifficulty: "medium"}
}

// Validate checks the volume range and that a difficulty is set.
func (p Preferences) Validate() error {
	if p.Volume < MinVolume || p.Volume > MaxVolume {
		return fmt.Errorf("%w: volume %d outside %d..%d", ErrInvalidPreferences, p.Volume, MinVolume, MaxVolume)
	}
	switch p.BotDifficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: bot difficulty %q", ErrInvalidPreferences, p.BotDifficulty)
	}
	return nil
}

// PreferencesPort loads and stores user preferences.
type PreferencesPort interface {
	// Load returns the stored preferences, or DefaultPreferences when none exist.
	Load(ctx context.Context, userID string) (Preferences, error)

	// Save overwrites the stored preferences.
	Save(ctx context.Context, userID string, prefs Preferences) error

	// InitOnce stores prefs only when the user has nothing stored yet.
	// Returns created=false when preferences already existed.
	InitOnce(ctx context.Context, userID string, prefs Preferences) (bool, error)
}
