package bot

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"sandwich/internal/config"
)

// Options wires a planner to its engine and surroundings. Zero fields get defaults.
type Options struct {
	Engine       Engine
	Rng          *rand.Rand
	Logger       runtime.Logger
	AttemptCap   int
	SearchBudget int
}

// NewPlanner creates a planner for the specified level.
func NewPlanner(level Difficulty, opts Options) (*Planner, error) {
	profile, ok := ProfileFor(level)
	if !ok {
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("bot planner needs an engine")
	}
	cfg := config.GetGameConfig()
	if opts.AttemptCap <= 0 {
		opts.AttemptCap = cfg.BotAttemptCap
	}
	if opts.SearchBudget <= 0 {
		opts.SearchBudget = cfg.BotSearchBudget
	}
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("bot planner needs a logger")
	}

	return &Planner{
		engine:     opts.Engine,
		level:      level,
		profile:    profile,
		rng:        opts.Rng,
		logger:     opts.Logger.WithField("bot_level", level.String()),
		attemptCap: opts.AttemptCap,
		budget:     opts.SearchBudget,
		rules:      DefaultRules(),
	}, nil
}

// NewAgent creates a bot agent for a seat with a planner of the given level.
func NewAgent(id, name string, level Difficulty, opts Options) (*Agent, error) {
	planner, err := NewPlanner(level, opts)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: id, Name: name, Level: level, Brain: planner}, nil
}
