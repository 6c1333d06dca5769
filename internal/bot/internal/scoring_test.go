package internal

import (
	"math"
	"testing"

	"sandwich/internal/domain"
)

var flatWeights = TypeWeights{Play: 1, Add: 1, Reorganize: 1, Complex: 1}

func TestPriority(t *testing.T) {
	hand := cards("5C", "6C", "7C", "KD")
	play := Candidate{Kind: MovePlay, Hand: hand[:3]}

	// base 3 × weight 1 × (1 + 3/4)
	if got := Priority(play, len(hand), flatWeights, 1); math.Abs(got-5.25) > 1e-9 {
		t.Fatalf("priority = %v, want 5.25", got)
	}
	weighted := TypeWeights{Play: 2}
	if got := Priority(play, len(hand), weighted, 1); math.Abs(got-10.5) > 1e-9 {
		t.Fatalf("weighted priority = %v, want 10.5", got)
	}
	if got := Priority(play, len(hand), flatWeights, 2); math.Abs(got-7.5) > 1e-9 {
		t.Fatalf("threat priority = %v, want 7.5", got)
	}
}

func TestCardWeightFavorsHighCards(t *testing.T) {
	c := cards("5C", "QC", "AC")
	low, face, ace := c[0], c[1], c[2]
	if !(CardWeight(ace) > CardWeight(face) && CardWeight(face) > CardWeight(low)) {
		t.Fatalf("weights ace %.2f face %.2f low %.2f", CardWeight(ace), CardWeight(face), CardWeight(low))
	}
}

func TestBuildScoredOrdersBestFirst(t *testing.T) {
	hand := cards("5C", "6C", "7C", "8C", "KD")
	cands := []Candidate{
		{Kind: MoveAdd, Hand: hand[4:5]},
		{Kind: MovePlay, Hand: hand[:4]},
		{Kind: MovePlay, Hand: hand[:3]},
	}

	scored := BuildScored(hand, cands, flatWeights, 1, false)
	if scored[0].Candidate.Reduction() != 4 || scored[2].Candidate.Kind != MoveAdd {
		t.Fatalf("order = %v %v %v", scored[0].Score, scored[1].Score, scored[2].Score)
	}
	if len(scored[0].Remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(scored[0].Remaining))
	}
}

func TestBuildScoredStructureTieBreak(t *testing.T) {
	hand := cards("5C", "5D", "5H", "9D", "9S", "9C", "6H")
	// Both plays score the same; only playing the nines leaves 6H linked to 5H.
	cands := []Candidate{
		{Kind: MovePlay, Hand: hand[:3]},
		{Kind: MovePlay, Hand: hand[3:6]},
	}

	scored := BuildScored(hand, cands, flatWeights, 1, true)
	if scored[0].Candidate.Hand[0] != hand[3] {
		t.Fatalf("tie-break kept %s first", domain.FormatCards(scored[0].Candidate.Hand))
	}
	scored = BuildScored(hand, cands, flatWeights, 1, false)
	if scored[0].Candidate.Hand[0] != hand[0] {
		t.Fatal("stable order changed without tie-break")
	}
}

func TestDetectThreat(t *testing.T) {
	game := &domain.Game{Players: []*domain.Player{
		{Seat: 0, Hand: make([]*domain.Card, 1)},
		{Seat: 1, Hand: make([]*domain.Card, 5)},
		{Seat: 2, Hand: make([]*domain.Card, 2)},
	}}

	if !DetectThreat(game, 2, 1) {
		t.Fatal("seat 0 holds one card and should be a threat to seat 2")
	}
	if DetectThreat(game, 0, 1) {
		t.Fatal("a player is never a threat to itself")
	}
	if DetectThreat(game, 0, 0) {
		t.Fatal("zero threshold disables detection")
	}
}
