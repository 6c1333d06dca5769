package bot

import (
	botinternal "sandwich/internal/bot/internal"
)

// SelectionContext holds the ranked candidates and the sampling pool size while the
// selection rules run.
type SelectionContext struct {
	Candidates []botinternal.ScoredCandidate
	Pool       int
	HandSize   int
	Threat     bool
}

// SelectionRule represents a logic unit that can influence which candidate is chosen.
// Apply reports whether the rule changed the context.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext) bool
}

// DefaultRules returns the rules every planner applies, in order.
func DefaultRules() []SelectionRule {
	return []SelectionRule{&FinishRule{}, &ThreatRule{}}
}

// FinishRule plays a candidate that empties the hand, whatever the scores say.
type FinishRule struct{}

func (r *FinishRule) Name() string { return "Finish" }

func (r *FinishRule) Apply(ctx *SelectionContext) bool {
	for i, sc := range ctx.Candidates {
		if ctx.HandSize > 0 && sc.Candidate.Reduction() == ctx.HandSize {
			ctx.Candidates[0], ctx.Candidates[i] = ctx.Candidates[i], ctx.Candidates[0]
			ctx.Pool = 1
			return true
		}
	}
	return false
}

// ThreatRule narrows the pool by one while an opponent is close to going out.
type ThreatRule struct{}

func (r *ThreatRule) Name() string { return "Threat" }

func (r *ThreatRule) Apply(ctx *SelectionContext) bool {
	if ctx.Threat && ctx.Pool > 1 {
		ctx.Pool--
		return true
	}
	return false
}
