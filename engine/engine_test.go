package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/searcher"
)

const dt = 1.0 / 60

func pos(col, row int) game.Position {
	return game.Position{Col: col, Row: row}
}

func boardOf(placements ...game.Placement) *game.Board {
	b := game.NewStandardBoard()
	for _, pl := range placements {
		b.Set(pl.At, pl.Piece)
	}
	return b
}

func at(id game.PieceID, team game.Team, pt game.PieceType, col, row int) game.Placement {
	return game.Placement{Piece: game.Piece{ID: id, Type: pt, Team: team}, At: pos(col, row)}
}

func run(e *Engine, seconds float64) []Event {
	var events []Event
	for i := 0; i < int(seconds/dt); i++ {
		events = append(events, e.Tick(dt)...)
	}
	return events
}

func ofKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestRequestMove(t *testing.T) {
	t.Run("accepted move charges the pool and starts a transit", func(t *testing.T) {
		e := New()
		id, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 2)})
		require.NoError(t, err)
		require.NotZero(t, id)
		require.Equal(t, 1.0, e.Pool(game.Red).Current)
		require.Equal(t, 2.0, e.Pool(game.Black).Current)

		tr, ok := e.Transit(1)
		require.True(t, ok)
		require.Equal(t, id, tr.ID)
		require.Nil(t, e.ValidMoves(tr.Piece, pos(0, 0)), "Moving pieces have no moves")

		events := e.Tick(dt)
		require.Len(t, ofKind(events, TransitStarted), 1)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name string
			cmd  MoveCommand
			want error
		}{
			{"off the board", MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 10)}, ErrOutOfBounds},
			{"empty origin", MoveCommand{Team: game.Red, From: pos(4, 4), To: pos(4, 5)}, ErrUnknownPiece},
			{"opponent piece", MoveCommand{Team: game.Red, From: pos(0, 9), To: pos(0, 8)}, ErrUnknownPiece},
			{"no team", MoveCommand{Team: game.NoTeam, From: pos(0, 0), To: pos(0, 1)}, ErrUnknownPiece},
			{"illegal destination", MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(1, 1)}, ErrInvalidMove},
			{"friendly destination", MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(1, 0)}, ErrInvalidMove},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				e := New()
				before := e.Snapshot()
				_, err := e.RequestMove(c.cmd)
				require.ErrorIs(t, err, c.want)

				var rejection *RejectError
				require.True(t, errors.As(err, &rejection))
				require.Equal(t, c.cmd, rejection.Command)
				require.Equal(t, before, e.Snapshot(), "Rejected request should not change state")
			})
		}
	})

	t.Run("insufficient resource leaves state unchanged", func(t *testing.T) {
		e := New(WithPool(Pool{Current: 0.5, Max: 4, RegenRate: 0.3, MoveCost: 1}))
		before := e.Snapshot()

		_, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 2)})
		require.ErrorIs(t, err, ErrInsufficientResource)
		require.Equal(t, before, e.Snapshot())
		_, moving := e.Transit(1)
		require.False(t, moving)
	})

	t.Run("piece already transiting", func(t *testing.T) {
		e := New()
		_, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 2)})
		require.NoError(t, err)

		_, err = e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 1)})
		require.ErrorIs(t, err, ErrPieceAlreadyTransiting)
		require.Equal(t, 1.0, e.Pool(game.Red).Current, "Rejected request should not be charged")
	})
}

func TestTransitCompletes(t *testing.T) {
	e := New()
	_, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 2)})
	require.NoError(t, err)

	events := run(e, 1)
	require.Len(t, ofKind(events, TransitComplete), 1)
	require.Empty(t, ofKind(events, PieceKilled))

	piece, ok := e.PieceAt(pos(0, 2))
	require.True(t, ok)
	require.Equal(t, game.PieceID(1), piece.ID)
	_, ok = e.PieceAt(pos(0, 0))
	require.False(t, ok)
	_, moving := e.Transit(1)
	require.False(t, moving)

	require.ElementsMatch(t, []game.Position{pos(0, 0), pos(0, 1)}, e.ValidMoves(piece, pos(0, 2)),
		"Soldier above and cannon beside block the chariot")
}

func TestCaptureInFlight(t *testing.T) {
	e := New(WithBoard(boardOf(
		at(1, game.Red, game.General, 3, 0),
		at(2, game.Red, game.Chariot, 0, 0),
		at(3, game.Black, game.General, 4, 9),
		at(4, game.Black, game.Soldier, 0, 3),
	)))

	_, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(0, 3)})
	require.NoError(t, err)

	events := run(e, 2)
	kills := ofKind(events, PieceKilled)
	require.Len(t, kills, 1, "Soldier should die exactly once")
	require.Equal(t, game.PieceID(4), kills[0].Piece.ID)
	require.False(t, e.Alive(4))
	require.True(t, e.Alive(2))

	piece, ok := e.PieceAt(pos(0, 3))
	require.True(t, ok)
	require.Equal(t, game.PieceID(2), piece.ID)
	require.False(t, e.Over())
}

func TestGameEnd(t *testing.T) {
	newMatch := func() *Engine {
		return New(WithBoard(boardOf(
			at(1, game.Red, game.General, 3, 0),
			at(2, game.Red, game.Chariot, 4, 5),
			at(3, game.Black, game.General, 4, 9),
		)))
	}

	t.Run("general kill ends the match", func(t *testing.T) {
		e := newMatch()
		_, err := e.RequestMove(MoveCommand{Team: game.Red, From: pos(4, 5), To: pos(4, 9)})
		require.NoError(t, err)

		events := run(e, 3)
		ended := ofKind(events, GameEnded)
		require.Len(t, ended, 1)
		require.Equal(t, game.Red, ended[0].Winner)

		winner, over := e.Winner()
		require.True(t, over)
		require.Equal(t, game.Red, winner)

		_, err = e.RequestMove(MoveCommand{Team: game.Red, From: pos(3, 0), To: pos(3, 1)})
		require.ErrorIs(t, err, ErrGameOver)

		e.Submit(MoveCommand{Team: game.Red, From: pos(3, 0), To: pos(3, 1)})
		rejected := ofKind(e.Tick(dt), MoveRejected)
		require.Len(t, rejected, 1)
		require.ErrorIs(t, rejected[0].Err, ErrGameOver)
	})

	t.Run("both generals in one tick is a draw", func(t *testing.T) {
		e := newMatch()
		require.True(t, e.Kill(1))
		require.True(t, e.Kill(3))
		e.Tick(dt)

		winner, over := e.Winner()
		require.True(t, over)
		require.Equal(t, game.NoTeam, winner)
	})

	t.Run("kill is idempotent", func(t *testing.T) {
		e := newMatch()
		require.True(t, e.Kill(2))
		require.False(t, e.Kill(2))
		require.False(t, e.Kill(99))
		events := e.Tick(dt)
		require.Len(t, ofKind(events, PieceKilled), 1)
		require.False(t, e.Over())
	})
}

func TestSubmit(t *testing.T) {
	e := New()
	e.Submit(MoveCommand{Team: game.Red, From: pos(0, 0), To: pos(1, 1)})
	e.Submit(MoveCommand{Team: game.Black, From: pos(0, 9), To: pos(0, 7)})

	events := e.Tick(dt)
	rejected := ofKind(events, MoveRejected)
	require.Len(t, rejected, 1)
	require.ErrorIs(t, rejected[0].Err, ErrInvalidMove)
	require.Len(t, ofKind(events, TransitStarted), 1)

	require.Empty(t, e.queue.drain(), "Requests should never stay pending across ticks")
}

func TestQueries(t *testing.T) {
	e := New()
	require.True(t, e.IsPositionUnderAttack(pos(0, 7), game.Black))
	require.False(t, e.IsPositionUnderAttack(pos(4, 4), game.Black))

	piece, ok := e.PieceAt(pos(4, 0))
	require.True(t, ok)
	require.Equal(t, game.General, piece.Type)

	snap := e.Snapshot()
	require.Len(t, snap.Pieces, 32)
	require.Empty(t, snap.Transits)
	require.Equal(t, 2.0, snap.Pools[game.Black].Current)
}

type stubAgent struct {
	team  game.Team
	plan  searcher.MovePlan
	polls int
	fired bool
}

func (a *stubAgent) Team() game.Team { return a.team }
func (a *stubAgent) Name() string    { return "stub" }

func (a *stubAgent) Poll(dt float64, view searcher.View, canAfford bool) (searcher.Decision, bool) {
	a.polls++
	if a.fired || !canAfford {
		return searcher.Decision{}, false
	}
	a.fired = true
	return searcher.Decision{Plan: a.plan, Branch: searcher.BranchRandom, Candidates: 1}, true
}

func TestAgents(t *testing.T) {
	collector := metrics.NewCollector()
	collector.Start("stub", "none")
	agent := &stubAgent{team: game.Red, plan: searcher.MovePlan{From: pos(0, 0), To: pos(0, 2)}}
	e := New(WithAgent(agent), WithMetrics(collector))

	e.Tick(dt)
	e.Tick(dt)
	require.Equal(t, 2, agent.polls)
	_, moving := e.Transit(1)
	require.True(t, moving)

	summary, decisions := collector.Complete("", 2, 2*dt)
	require.Equal(t, 1, summary.Moves)
	require.Len(t, decisions, 1)
	require.True(t, decisions[0].Accepted)
	require.Equal(t, "stub", decisions[0].Strategy)
	require.Equal(t, "red", decisions[0].Team)
}

// TestInvariants plays two AIs against each other and checks the state after
// every tick.
func TestInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 3; seed++ {
		red := searcher.NewController(game.Red, searcher.Easy{}, searcher.WithSeed(seed))
		black := searcher.NewController(game.Black, searcher.Hard{}, searcher.WithSeed(seed+100))
		e := New(WithAgent(red), WithAgent(black))

		for i := 0; i < 60*60 && !e.Over(); i++ {
			e.Tick(dt)

			for _, team := range game.Teams {
				pool := e.Pool(team)
				require.GreaterOrEqual(t, pool.Current, 0.0)
				require.LessOrEqual(t, pool.Current, pool.Max)
			}
			living := 0
			for id := range e.roster {
				if e.Alive(id) {
					living++
				}
			}
			transits := e.transits.Transits()
			require.Equal(t, living, e.board.Count()+len(transits), "Every living piece is either placed or in flight")
			for _, tr := range transits {
				_, placed := e.board.Find(tr.Piece.ID)
				require.False(t, placed, "%s is both placed and in flight", tr.Piece)
				require.False(t, e.dead[tr.Piece.ID])
			}
		}
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	b := boardOf(at(1, game.Red, game.General, 4, 0), at(1, game.Black, game.General, 4, 9))
	require.Panics(t, func() { New(WithBoard(b)) })
}
