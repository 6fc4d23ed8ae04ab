package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/game"
)

func TestExposure(t *testing.T) {
	type flags struct{ attacking, vulnerable bool }
	cases := []struct {
		name     string
		pt       game.PieceType
		progress float64
		capture  bool
		want     flags
	}{
		{"chariot always engaged", game.Chariot, 0.5, false, flags{true, true}},
		{"soldier always engaged", game.Soldier, 0, false, flags{true, true}},
		{"horse on takeoff", game.Horse, 0.05, false, flags{false, true}},
		{"horse in the air", game.Horse, 0.5, false, flags{false, false}},
		{"horse landing window wins the overlap", game.Horse, 0.7, false, flags{true, true}},
		{"elephant landing", game.Elephant, 0.95, false, flags{true, true}},
		{"cannon early", game.Cannon, 0.5, true, flags{false, true}},
		{"cannon strikes late on capture", game.Cannon, 0.95, true, flags{true, true}},
		{"cannon without capture never strikes", game.Cannon, 0.95, false, flags{false, true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			attacking, vulnerable := Exposure(c.pt, c.progress, c.capture)
			require.Equal(t, c.want, flags{attacking, vulnerable})
		})
	}
}

func TestLifecycle(t *testing.T) {
	chariot := game.Piece{ID: 1, Type: game.Chariot, Team: game.Red}
	horse := game.Piece{ID: 2, Type: game.Horse, Team: game.Red}

	t.Run("staged until the next advance", func(t *testing.T) {
		l := NewLifecycle(2.5)
		tr, ok := l.Start(chariot, game.Position{Col: 0, Row: 0}, game.Position{Col: 0, Row: 5}, false)
		require.True(t, ok)
		require.Equal(t, TransitID(1), tr.ID)
		require.Equal(t, 1, l.Len())

		_, ok = l.Start(chariot, game.Position{Col: 0, Row: 0}, game.Position{Col: 0, Row: 1}, false)
		require.False(t, ok, "A piece can only have one transit")

		moved, landed := l.Advance(0.1)
		require.Empty(t, landed)
		require.Len(t, moved, 1)
		require.InDelta(t, 0.05, moved[0].Progress, 1e-9)
	})

	t.Run("lands and leaves the set", func(t *testing.T) {
		l := NewLifecycle(2.5)
		l.Start(horse, game.Position{Col: 1, Row: 0}, game.Position{Col: 2, Row: 2}, false)

		var landed []Transit
		for i := 0; i < 120 && len(landed) == 0; i++ {
			_, landed = l.Advance(1.0 / 60)
		}
		require.Len(t, landed, 1)
		require.Equal(t, 1.0, landed[0].Progress)
		require.Equal(t, game.Position{Col: 2, Row: 2}, landed[0].Cell())
		require.Zero(t, l.Len())
		_, ok := l.Active(horse.ID)
		require.False(t, ok)
	})

	t.Run("cell rounds the interpolated point", func(t *testing.T) {
		tr := Transit{From: game.Position{Col: 0, Row: 0}, To: game.Position{Col: 0, Row: 4}, Progress: 0.5}
		require.Equal(t, game.Position{Col: 0, Row: 2}, tr.Cell())
		x, y := tr.Point()
		require.Equal(t, 0.0, x)
		require.Equal(t, 2.0, y)
	})

	t.Run("remove mid-flight", func(t *testing.T) {
		l := NewLifecycle(2.5)
		l.Start(chariot, game.Position{Col: 0, Row: 0}, game.Position{Col: 0, Row: 5}, false)
		l.Start(horse, game.Position{Col: 1, Row: 0}, game.Position{Col: 2, Row: 2}, false)
		l.Advance(0.1)

		removed, ok := l.Remove(chariot.ID)
		require.True(t, ok)
		require.Equal(t, chariot, removed.Piece)
		_, ok = l.Remove(chariot.ID)
		require.False(t, ok)

		ts := l.Transits()
		require.Len(t, ts, 1)
		require.Equal(t, horse, ts[0].Piece)
	})

	t.Run("rejects non-positive speed", func(t *testing.T) {
		require.Panics(t, func() { NewLifecycle(0) })
	})
}
