package internal

import (
	"sort"

	"sandwich/internal/domain"
)

// TypeWeights scale candidate priority by move kind.
type TypeWeights struct {
	Play       float64
	Add        float64
	Reorganize float64
	Complex    float64
}

// For returns the weight of kind.
func (w TypeWeights) For(kind MoveKind) float64 {
	switch kind {
	case MovePlay:
		return w.Play
	case MoveAdd:
		return w.Add
	case MoveReorganize:
		return w.Reorganize
	case MoveComplex:
		return w.Complex
	default:
		return 0
	}
}

// BotTuning defines phase weights and thresholds for a bot difficulty.
type BotTuning struct {
	Opening TypeWeights
	Mid     TypeWeights
	End     TypeWeights

	// ThreatThreshold is the opponent hand size that makes hand reduction urgent.
	ThreatThreshold int
	// ThreatBias multiplies the hand-reduction term while a threat is detected.
	ThreatBias float64
	// StructureTieBreak orders equal scores by the shape of the hand left behind.
	StructureTieBreak bool
}

// ForPhase returns the weights that match the supplied phase.
func (t BotTuning) ForPhase(phase GamePhase) TypeWeights {
	switch phase {
	case PhaseOpening:
		return t.Opening
	case PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// ScoredCandidate holds a candidate with its computed priority.
type ScoredCandidate struct {
	Candidate        Candidate
	Score            float64
	Remaining        []*domain.Card
	RemainingProfile HandProfile
}

// CardWeight rates a card by rank: aces and face cards count more.
func CardWeight(c *domain.Card) float64 {
	switch {
	case c.Rank == domain.Ace:
		return 1.5
	case c.Rank >= domain.Jack:
		return 1.25
	default:
		return 1.0
	}
}

// BaseValue sums the weights of the hand cards a candidate places.
func BaseValue(c Candidate) float64 {
	v := 0.0
	for _, card := range c.Hand {
		v += CardWeight(card)
	}
	return v
}

// Priority is base value × type weight × (1 + bias × reduction / hand size).
func Priority(c Candidate, handSize int, weights TypeWeights, bias float64) float64 {
	if handSize <= 0 {
		handSize = 1
	}
	if bias <= 0 {
		bias = 1
	}
	reduction := float64(c.Reduction()) / float64(handSize)
	return BaseValue(c) * weights.For(c.Kind) * (1 + bias*reduction)
}

// BuildScored scores every candidate against hand and sorts them best first.
func BuildScored(hand []*domain.Card, cands []Candidate, weights TypeWeights, bias float64, tieBreak bool) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		remaining := domain.RemoveCards(hand, c.Hand)
		scored = append(scored, ScoredCandidate{
			Candidate:        c,
			Score:            Priority(c, len(hand), weights, bias),
			Remaining:        remaining,
			RemainingProfile: ProfileHand(remaining),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if tieBreak {
			return scored[i].RemainingProfile.Structure() > scored[j].RemainingProfile.Structure()
		}
		return false
	})
	return scored
}

// DetectThreat reports whether any opponent is at or below the supplied card threshold.
func DetectThreat(game *domain.Game, seat int, threshold int) bool {
	if threshold <= 0 || game == nil {
		return false
	}
	for _, player := range game.Players {
		if player == nil || player.Seat == seat || len(player.Hand) == 0 {
			continue
		}
		if len(player.Hand) <= threshold {
			return true
		}
	}
	return false
}
