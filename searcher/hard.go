package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"xiangqi/game"
)

const hardSafetyChance = 0.9

const (
	captureWeight   = 10
	threatWeight    = 2
	exposureWeight  = 10
	safeSquareBonus = 2
	escapeWeight    = 8
)

// Hard scores every legal move with a one-ply heuristic.
type Hard struct{}

func (Hard) Name() string { return "hard" }

func (Hard) Decide(view View, rng *rand.Rand) (Decision, bool) {
	start := time.Now()
	plans := Candidates(view)
	if len(plans) == 0 {
		return Decision{}, false
	}

	if KingAttacked(view) && rng.Float64() < hardSafetyChance {
		if safe := SafetyMoves(view, plans); len(safe) > 0 {
			return Decision{Plan: pick(rng, safe), Branch: BranchSafety, Candidates: len(plans), Duration: time.Since(start)}, true
		}
	}

	threatened := threatenedEnemies(view.Board, view.Rules, view.Team)
	for i := range plans {
		plans[i].Score = Score(view, plans[i], threatened)
	}
	return Decision{Plan: best(rng, plans), Branch: BranchScored, Candidates: len(plans), Duration: time.Since(start)}, true
}

// Score rates a single move. threatened lists the enemy pieces already under
// attack before the move; nil recomputes it.
func Score(view View, p MovePlan, threatened map[game.PieceID]bool) float64 {
	if threatened == nil {
		threatened = threatenedEnemies(view.Board, view.Rules, view.Team)
	}
	opponent := view.Team.Opponent()
	own := float64(game.Value(p.Piece.Type))
	after := simulate(view.Board, p)

	score := float64(p.Capture * captureWeight)
	for id := range threatenedEnemies(after, view.Rules, view.Team) {
		if !threatened[id] {
			pos, _ := after.Find(id)
			enemy, _ := after.Get(pos)
			score += float64(game.Value(enemy.Type) * threatWeight)
		}
	}
	if view.Rules.IsAttacked(p.To, opponent, after) {
		score -= own * exposureWeight
	} else {
		score += safeSquareBonus
	}
	if view.Rules.IsAttacked(p.From, opponent, view.Board) {
		score += own * escapeWeight
	}
	return score + game.PositionalBonus(after, p.Piece, p.To)
}

// threatenedEnemies returns the opponent pieces that team attacks on b.
func threatenedEnemies(b *game.Board, rules game.Rules, team game.Team) map[game.PieceID]bool {
	out := make(map[game.PieceID]bool)
	for _, pl := range b.Pieces() {
		if pl.Piece.Team == team {
			continue
		}
		if rules.IsAttacked(pl.At, team, b) {
			out[pl.Piece.ID] = true
		}
	}
	return out
}
