package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/communication"
	"xiangqi/communication/server"
	"xiangqi/engine"
	"xiangqi/game"
)

var (
	_ communication.Communicator = (*ClientCommunicator)(nil)
	_ communication.Communicator = (*server.ServerCommunicator)(nil)
)

func TestRoundTrip(t *testing.T) {
	e := engine.New()
	runner := engine.NewRunner(e, 60)
	sc := server.NewServerCommunicator(runner, 1, 2)
	ts := httptest.NewServer(sc.Handler())
	defer ts.Close()

	ctx := context.Background()
	cc := NewClientCommunicator(ts.URL+"/", ts.Client())

	snap, err := cc.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Pieces, 32)
	require.Equal(t, 2.0, snap.Pools[game.Red].Current)
	require.Equal(t, game.General, snap.Pieces[4].Piece.Type)

	move := engine.MoveCommand{Team: game.Red, From: game.Position{Col: 0, Row: 0}, To: game.Position{Col: 0, Row: 2}}
	require.NoError(t, cc.SendMove(ctx, move))

	e.Tick(1.0 / 60)
	_, moving := e.Transit(1)
	require.True(t, moving, "Queued move should start on the next tick")
}

func TestRateLimit(t *testing.T) {
	runner := engine.NewRunner(engine.New(), 60)
	ts := httptest.NewServer(server.NewServerCommunicator(runner, 0.001, 2).Handler())
	defer ts.Close()

	ctx := context.Background()
	cc := NewClientCommunicator(ts.URL, nil)
	red := engine.MoveCommand{Team: game.Red, From: game.Position{Col: 0, Row: 0}, To: game.Position{Col: 0, Row: 1}}
	black := engine.MoveCommand{Team: game.Black, From: game.Position{Col: 0, Row: 9}, To: game.Position{Col: 0, Row: 8}}

	require.NoError(t, cc.SendMove(ctx, red))
	require.NoError(t, cc.SendMove(ctx, red))
	require.ErrorIs(t, cc.SendMove(ctx, red), communication.ErrRateLimited)
	require.NoError(t, cc.SendMove(ctx, black), "Teams are limited independently")

	err := cc.SendMove(ctx, engine.MoveCommand{Team: game.NoTeam})
	require.ErrorContains(t, err, "400")
}
