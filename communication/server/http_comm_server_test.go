package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"xiangqi/engine"
	"xiangqi/game"
)

type recordingHost struct {
	submitted []engine.MoveCommand
}

func (h *recordingHost) Snapshot() engine.Snapshot { return engine.Snapshot{Tick: 7} }
func (h *recordingHost) Submit(cmd engine.MoveCommand) {
	h.submitted = append(h.submitted, cmd)
}

func TestHandler(t *testing.T) {
	host := &recordingHost{}
	handler := NewServerCommunicator(host, 10, 10).Handler()

	t.Run("snapshot", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), `"tick":7`)
	})

	t.Run("move is queued", func(t *testing.T) {
		body := `{"team":"black","from":{"col":0,"row":9},"to":{"col":0,"row":7}}`
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(body)))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, []engine.MoveCommand{{Team: game.Black, From: game.Position{Col: 0, Row: 9}, To: game.Position{Col: 0, Row: 7}}}, host.submitted)
	})

	t.Run("malformed move", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(`{"team":"green"}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/move", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServerCommunicator(&recordingHost{}, 1, 1).Start(ctx, "127.0.0.1:0")
	}()
	cancel()
	require.NoError(t, <-done)
}
