package bot

import (
	"fmt"
	"strings"

	botinternal "sandwich/internal/bot/internal"
)

// Difficulty selects how carefully a bot picks among its candidates.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty accepts "easy", "medium" or "hard", in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium", "":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("unknown bot difficulty: %q", s)
}

// Profile holds everything a difficulty changes.
type Profile struct {
	// TopK is how many of the best candidates the bot samples from.
	TopK int
	// MinThinkSec and MaxThinkSec bound the cosmetic delay before acting.
	MinThinkSec int
	MaxThinkSec int
	Tuning      botinternal.BotTuning
}

// DefaultTuning balances new groups against table work by phase.
var DefaultTuning = botinternal.BotTuning{
	Opening: botinternal.TypeWeights{
		Play:       1.0,
		Add:        0.8,
		Reorganize: 0.9,
		Complex:    0.7,
	},
	Mid: botinternal.TypeWeights{
		Play:       1.0,
		Add:        1.0,
		Reorganize: 1.1,
		Complex:    1.0,
	},
	End: botinternal.TypeWeights{
		Play:       1.0,
		Add:        1.2,
		Reorganize: 1.3,
		Complex:    1.3,
	},
	ThreatThreshold:   2,
	ThreatBias:        2.0,
	StructureTieBreak: true,
}

var profiles = map[Difficulty]Profile{
	DifficultyEasy:   {TopK: 3, MinThinkSec: 2, MaxThinkSec: 4, Tuning: withoutTieBreak(DefaultTuning)},
	DifficultyMedium: {TopK: 2, MinThinkSec: 1, MaxThinkSec: 3, Tuning: DefaultTuning},
	DifficultyHard:   {TopK: 1, MinThinkSec: 1, MaxThinkSec: 2, Tuning: DefaultTuning},
}

// ProfileFor returns the profile of a difficulty.
func ProfileFor(d Difficulty) (Profile, bool) {
	p, ok := profiles[d]
	return p, ok
}

func withoutTieBreak(t botinternal.BotTuning) botinternal.BotTuning {
	t.StructureTieBreak = false
	return t
}
