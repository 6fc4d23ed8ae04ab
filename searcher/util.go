package searcher

import (
	"golang.org/x/exp/rand"

	"xiangqi/game"
)

// FindKing returns the position of team's General.
func FindKing(b *game.Board, team game.Team) (game.Position, bool) {
	for _, pl := range b.Pieces() {
		if pl.Piece.Team == team && pl.Piece.Type == game.General {
			return pl.At, true
		}
	}
	return game.Position{}, false
}

// Candidates enumerates every legal move of the view's team, skipping pieces
// in flight.
func Candidates(view View) []MovePlan {
	return enumerate(view.Board, view.Rules, view.Team, view.Moving)
}

func enumerate(b *game.Board, rules game.Rules, team game.Team, moving map[game.PieceID]bool) []MovePlan {
	var plans []MovePlan
	for _, pl := range b.Pieces() {
		if pl.Piece.Team != team || moving[pl.Piece.ID] {
			continue
		}
		for _, to := range rules.LegalMoves(pl.Piece, pl.At, b) {
			capture := 0
			if target, ok := b.Get(to); ok && target.Team != team {
				capture = game.Value(target.Type)
			}
			plans = append(plans, MovePlan{Piece: pl.Piece, From: pl.At, To: to, Capture: capture})
		}
	}
	return plans
}

// KingAttacked reports whether the view's General stands on an attacked cell.
func KingAttacked(view View) bool {
	king, ok := FindKing(view.Board, view.Team)
	if !ok {
		return false
	}
	return view.Rules.IsAttacked(king, view.Team.Opponent(), view.Board)
}

// SafetyMoves keeps the General's moves whose destination is not attacked once
// the move is played.
func SafetyMoves(view View, plans []MovePlan) []MovePlan {
	var safe []MovePlan
	for _, p := range plans {
		if p.Piece.Type != game.General {
			continue
		}
		after := simulate(view.Board, p)
		if !view.Rules.IsAttacked(p.To, view.Team.Opponent(), after) {
			safe = append(safe, p)
		}
	}
	return safe
}

// RescueMoves keeps moves of threatened pieces, the General excluded, that
// land on a cell the opponent does not attack.
func RescueMoves(view View, plans []MovePlan) []MovePlan {
	opponent := view.Team.Opponent()
	threatened := make(map[game.PieceID]bool)
	var rescues []MovePlan
	for _, p := range plans {
		if p.Piece.Type == game.General {
			continue
		}
		hit, seen := threatened[p.Piece.ID]
		if !seen {
			hit = view.Rules.IsAttacked(p.From, opponent, view.Board)
			threatened[p.Piece.ID] = hit
		}
		if !hit {
			continue
		}
		if !view.Rules.IsAttacked(p.To, opponent, simulate(view.Board, p)) {
			rescues = append(rescues, p)
		}
	}
	return rescues
}

func captures(plans []MovePlan) []MovePlan {
	var out []MovePlan
	for _, p := range plans {
		if p.Capture > 0 {
			out = append(out, p)
		}
	}
	return out
}

// simulate plays p on a copy of b as if the move completed instantly.
func simulate(b *game.Board, p MovePlan) *game.Board {
	after := b.Clone()
	after.Move(p.From, p.To)
	return after
}

func pick(rng *rand.Rand, plans []MovePlan) MovePlan {
	return plans[rng.Intn(len(plans))]
}

// best returns a highest-scored plan, ties broken uniformly at random.
func best(rng *rand.Rand, plans []MovePlan) MovePlan {
	var top []MovePlan
	for _, p := range plans {
		switch {
		case len(top) == 0 || p.Score > top[0].Score:
			top = append(top[:0], p)
		case p.Score == top[0].Score:
			top = append(top, p)
		}
	}
	return pick(rng, top)
}
