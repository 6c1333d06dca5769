package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"

	"sandwich/internal/app"
	botinternal "sandwich/internal/bot/internal"
	"sandwich/internal/domain"
)

// ErrNoAction is returned when a bot could neither play, draw nor pass. It only happens
// on a turn a human left half done with cards drawn and an invalid table.
var ErrNoAction = errors.New("bot found no legal action")

// Planner searches the hand and table for the best move and plays one full turn.
type Planner struct {
	engine     Engine
	level      Difficulty
	profile    Profile
	rng        *rand.Rand
	logger     runtime.Logger
	attemptCap int
	budget     int
	rules      []SelectionRule
}

// Level returns the planner's difficulty.
func (p *Planner) Level() Difficulty {
	return p.level
}

// ThinkSeconds picks the cosmetic delay before the bot acts.
func (p *Planner) ThinkSeconds() int {
	lo, hi := p.profile.MinThinkSec, p.profile.MaxThinkSec
	if hi <= lo {
		return lo
	}
	return lo + p.rng.Intn(hi-lo+1)
}

// TakeTurn commits exactly one action for seat (a play, a draw or a pass) and ends the
// turn. Candidates the engine rejects are skipped; after attemptCap rejections the bot
// draws, and with an empty deck it passes.
func (p *Planner) TakeTurn(game *domain.Game, seat int) (Outcome, []app.Event, error) {
	if game.Finished() {
		return Outcome{}, nil, app.ErrGameFinished
	}
	if seat != game.CurrentTurn {
		return Outcome{}, nil, app.ErrNotYourTurn
	}
	logger := p.logger.WithFields(map[string]interface{}{"seat": seat, "turn": game.TurnNumber})

	var events []app.Event
	if game.Flags.TurnValid {
		evs, err := p.engine.EndTurn(game, seat)
		if err == nil {
			return Outcome{Action: ActionEnd}, evs, nil
		}
	}
	if !game.Flags.Drawn && game.Flags.Placed {
		evs, err := p.engine.ResetTurn(game, seat)
		if err != nil {
			return Outcome{}, nil, err
		}
		events = append(events, evs...)
	}

	rejected := make(map[string]bool)
	for attempt := 0; attempt < p.attemptCap && !game.Flags.Drawn; attempt++ {
		cands := p.candidates(game, attempt == 0)
		cands = skipRejected(cands, rejected)
		if len(cands) == 0 {
			break
		}

		choice := p.choose(game, seat, cands, logger)
		evs, err := p.execute(game, seat, choice)
		if err != nil {
			logger.Debug("TakeTurn: %s %s rejected: %v", choice.Kind, domain.FormatCards(choice.Hand), err)
			rejected[candidateKey(choice)] = true
			continue
		}
		events = append(events, evs...)
		outcome := Outcome{
			Action:   ActionPlay,
			Move:     choice.Kind.String(),
			Cards:    choice.Hand,
			Attempts: attempt + 1,
			Won:      game.Finished() && game.Winner == seat,
		}
		if outcome.Won {
			logger.Info("TakeTurn: bot went out with %s %s", choice.Kind, domain.FormatCards(choice.Hand))
			return outcome, events, nil
		}

		endEvs, err := p.engine.EndTurn(game, seat)
		if err == nil {
			return outcome, append(events, endEvs...), nil
		}
		logger.Warn("TakeTurn: could not end turn after %s: %v", choice.Kind, err)
		resetEvs, resetErr := p.engine.ResetTurn(game, seat)
		if resetErr != nil {
			return Outcome{}, events, resetErr
		}
		events = append(events, resetEvs...)
		rejected[candidateKey(choice)] = true
	}

	return p.fallback(game, seat, events, logger)
}

func (p *Planner) fallback(game *domain.Game, seat int, events []app.Event, logger runtime.Logger) (Outcome, []app.Event, error) {
	if err := p.engine.CanDraw(game); err == nil {
		evs, err := p.engine.Draw(game, seat)
		if err != nil {
			return Outcome{}, events, err
		}
		events = append(events, evs...)
		endEvs, err := p.engine.EndTurn(game, seat)
		if err != nil {
			return Outcome{}, events, err
		}
		return Outcome{Action: ActionDraw}, append(events, endEvs...), nil
	}

	evs, err := p.engine.Pass(game, seat)
	if err == nil {
		return Outcome{Action: ActionPass}, append(events, evs...), nil
	}
	logger.Error("TakeTurn: no legal action: %v", err)
	return Outcome{}, events, fmt.Errorf("%w: %v", ErrNoAction, err)
}

// candidates enumerates plays in order: hand groups, additions, single-group
// reorganizations and, on the first attempt only, two-group moves. Hand groups and
// additions are exhaustive; each table search gets its own budget.
func (p *Planner) candidates(game *domain.Game, withComplex bool) []botinternal.Candidate {
	hand := game.ActivePlayer().Hand

	cands := botinternal.HandGroups(hand)
	cands = append(cands, botinternal.Additions(hand, game.Table)...)
	cands = append(cands, botinternal.Reorganizations(hand, game.Table, botinternal.NewBudget(p.budget))...)
	if withComplex {
		cands = append(cands, botinternal.ComplexMoves(hand, game.Table, botinternal.NewBudget(p.budget))...)
	}
	return cands
}

func (p *Planner) choose(game *domain.Game, seat int, cands []botinternal.Candidate, logger runtime.Logger) botinternal.Candidate {
	hand := game.ActivePlayer().Hand
	tuning := p.profile.Tuning
	weights := tuning.ForPhase(botinternal.DetectPhase(game))
	threat := botinternal.DetectThreat(game, seat, tuning.ThreatThreshold)
	bias := 1.0
	if threat {
		bias = tuning.ThreatBias
	}

	ctx := &SelectionContext{
		Candidates: botinternal.BuildScored(hand, cands, weights, bias, tuning.StructureTieBreak),
		Pool:       p.profile.TopK,
		HandSize:   len(hand),
		Threat:     threat,
	}
	for _, rule := range p.rules {
		if rule.Apply(ctx) {
			logger.Debug("choose: %s rule left a pool of %d", rule.Name(), ctx.Pool)
		}
	}

	pool := ctx.Pool
	if pool > len(ctx.Candidates) {
		pool = len(ctx.Candidates)
	}
	if pool < 1 {
		pool = 1
	}
	return ctx.Candidates[p.rng.Intn(pool)].Candidate
}

func (p *Planner) execute(game *domain.Game, seat int, c botinternal.Candidate) ([]app.Event, error) {
	switch c.Kind {
	case botinternal.MovePlay:
		return p.engine.PlayGroup(game, seat, c.Hand)
	case botinternal.MoveAdd:
		return p.engine.AddToGroup(game, seat, c.Hand[0], c.Group)
	case botinternal.MoveReorganize, botinternal.MoveComplex:
		return p.engine.Reorganize(game, seat, app.Reorganization{
			Extract:   c.Extract,
			Hand:      c.Hand,
			NewGroups: [][]*domain.Card{c.NewGroup},
		})
	default:
		return nil, fmt.Errorf("unknown move kind %d", c.Kind)
	}
}

func skipRejected(cands []botinternal.Candidate, rejected map[string]bool) []botinternal.Candidate {
	if len(rejected) == 0 {
		return cands
	}
	out := cands[:0]
	for _, c := range cands {
		if !rejected[candidateKey(c)] {
			out = append(out, c)
		}
	}
	return out
}

func candidateKey(c botinternal.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d", c.Kind, c.Group)
	for _, card := range c.Hand {
		b.WriteString("/h" + card.ID.String())
	}
	for _, card := range c.Extract {
		b.WriteString("/x" + card.ID.String())
	}
	return b.String()
}
