package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
)

func moving(id game.PieceID, team game.Team, pt game.PieceType, x, y, progress float64) Combatant {
	attacking, vulnerable := Exposure(pt, progress, false)
	return Combatant{
		Piece:      game.Piece{ID: id, Type: pt, Team: team},
		X:          x,
		Y:          y,
		Attacking:  attacking,
		Vulnerable: vulnerable,
	}
}

func resting(id game.PieceID, team game.Team, pt game.PieceType, col, row int) Combatant {
	return StaticCombatant(game.Piece{ID: id, Type: pt, Team: team}, game.Position{Col: col, Row: row})
}

func TestResolve(t *testing.T) {
	r := NewResolver(0.5)

	t.Run("opposing grounded pieces kill each other", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Chariot, 0, 2.0, 0.5),
			moving(2, game.Black, game.Chariot, 0, 2.3, 0.5),
		})
		require.ElementsMatch(t, []game.PieceID{1, 2}, kills)
	})

	t.Run("a piece hit twice is reported once", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			resting(1, game.Black, game.Soldier, 3, 3),
			moving(2, game.Red, game.Chariot, 3, 3.2, 0.5),
			moving(3, game.Red, game.Soldier, 3.2, 3, 0.5),
		})
		require.Equal(t, 1, countOf(kills, 1))
	})

	t.Run("resting pieces never strike", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			resting(1, game.Red, game.Chariot, 0, 0),
			moving(2, game.Black, game.Cannon, 0, 0.3, 0.5),
		})
		require.Empty(t, kills, "Cannon without a capture is not attacking")
	})

	t.Run("airborne horse passes through", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Horse, 1, 1, 0.5),
			moving(2, game.Black, game.Chariot, 1.2, 1, 0.5),
		})
		require.Empty(t, kills)
	})

	t.Run("landing horse strikes", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Horse, 1, 1, 0.9),
			resting(2, game.Black, game.Advisor, 1, 1),
		})
		require.Equal(t, []game.PieceID{2}, kills)
	})

	t.Run("contact threshold is strict", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Chariot, 0, 0, 0.5),
			moving(2, game.Black, game.Chariot, 0, 0.5, 0.5),
		})
		require.Empty(t, kills)
	})

	t.Run("same team loses the lower value", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Chariot, 2, 2, 0.5),
			resting(2, game.Red, game.Soldier, 2, 2),
		})
		require.Equal(t, []game.PieceID{2}, kills)
	})

	t.Run("same team equal value loses both", func(t *testing.T) {
		kills := r.Resolve([]Combatant{
			moving(1, game.Red, game.Soldier, 2, 2, 0.5),
			moving(2, game.Red, game.Soldier, 2, 2.1, 0.5),
		})
		require.ElementsMatch(t, []game.PieceID{1, 2}, kills)
	})
}

func TestResolvePair(t *testing.T) {
	chariot := moving(1, game.Red, game.Chariot, 0, 0, 0.5)
	soldier := resting(2, game.Black, game.Soldier, 0, 0)

	killA, killB := ResolvePair(chariot, soldier)
	require.False(t, killA)
	require.True(t, killB)

	killA, killB = ResolvePair(soldier, chariot)
	require.True(t, killA)
	require.False(t, killB)

	require.Panics(t, func() { NewResolver(0) })
}

func countOf(ids []game.PieceID, id game.PieceID) int {
	n := 0
	for _, x := range ids {
		if x == id {
			n++
		}
	}
	return n
}
