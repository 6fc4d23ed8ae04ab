package engine

import (
	"xiangqi/game"
)

// Combatant is one living piece as seen by the combat pass.
type Combatant struct {
	Piece      game.Piece
	X, Y       float64
	Attacking  bool
	Vulnerable bool
}

// StaticCombatant returns the combatant for a piece resting on a cell: it can
// be hit but does not strike.
func StaticCombatant(piece game.Piece, at game.Position) Combatant {
	return Combatant{
		Piece:      piece,
		X:          float64(at.Col),
		Y:          float64(at.Row),
		Vulnerable: true,
	}
}

// TransitCombatant returns the combatant for an in-flight piece.
func TransitCombatant(t Transit) Combatant {
	x, y := t.Point()
	return Combatant{
		Piece:      t.Piece,
		X:          x,
		Y:          y,
		Attacking:  t.Attacking,
		Vulnerable: t.Vulnerable,
	}
}

// Resolver finds kills among combatants closer than a fixed radius.
type Resolver struct {
	radiusSq float64
}

func NewResolver(radius float64) Resolver {
	if radius <= 0 {
		panic("collision radius must be positive")
	}
	return Resolver{radiusSq: radius * radius}
}

// Resolve tests every pair once and returns the IDs to kill, each at most once,
// in the order they were first decided. All pairs see the same pre-kill state.
func (r Resolver) Resolve(cs []Combatant) []game.PieceID {
	var kills []game.PieceID
	marked := make(map[game.PieceID]bool)
	mark := func(id game.PieceID) {
		if !marked[id] {
			marked[id] = true
			kills = append(kills, id)
		}
	}

	for i := 0; i < len(cs); i++ {
		for j := i + 1; j < len(cs); j++ {
			a, b := cs[i], cs[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			if dx*dx+dy*dy >= r.radiusSq {
				continue
			}
			killA, killB := ResolvePair(a, b)
			if killA {
				mark(a.Piece.ID)
			}
			if killB {
				mark(b.Piece.ID)
			}
		}
	}
	return kills
}

// ResolvePair decides the outcome of two pieces in contact.
func ResolvePair(a, b Combatant) (killA, killB bool) {
	aHits := a.Attacking && b.Vulnerable
	bHits := b.Attacking && a.Vulnerable

	if a.Piece.Team != b.Piece.Team {
		return bHits, aHits
	}

	if !aHits && !bHits {
		return false, false
	}
	va, vb := game.Value(a.Piece.Type), game.Value(b.Piece.Type)
	switch {
	case va < vb:
		return true, false
	case vb < va:
		return false, true
	}
	return true, true
}
