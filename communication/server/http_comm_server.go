package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"xiangqi/communication"
	"xiangqi/engine"
	"xiangqi/game"
)

// Host is the running match behind the server.
type Host interface {
	Snapshot() engine.Snapshot
	Submit(cmd engine.MoveCommand)
}

// ServerCommunicator exposes a match over HTTP. Moves are only queued; the
// outcome is visible in later snapshots.
type ServerCommunicator struct {
	host  Host
	limit rate.Limit
	burst int

	mutex    sync.Mutex
	limiters map[game.Team]*rate.Limiter
}

// NewServerCommunicator allows each team perSecond moves with the given burst.
func NewServerCommunicator(host Host, perSecond float64, burst int) *ServerCommunicator {
	return &ServerCommunicator{
		host:     host,
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[game.Team]*rate.Limiter),
	}
}

func (sc *ServerCommunicator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", sc.handleGetSnapshot)
	mux.HandleFunc("POST /move", sc.handleSendMove)
	return mux
}

// Start serves on addr until ctx is cancelled.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           sc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (sc *ServerCommunicator) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sc.host.Snapshot()); err != nil {
		log.Error().Err(err).Msg("encode snapshot")
	}
}

func (sc *ServerCommunicator) handleSendMove(w http.ResponseWriter, r *http.Request) {
	var cmd engine.MoveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, fmt.Sprintf("decode move: %v", err), http.StatusBadRequest)
		return
	}
	switch err := sc.SendMove(r.Context(), cmd); {
	case errors.Is(err, communication.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

func (sc *ServerCommunicator) limiter(team game.Team) *rate.Limiter {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	limiter, exists := sc.limiters[team]
	if !exists {
		limiter = rate.NewLimiter(sc.limit, sc.burst)
		sc.limiters[team] = limiter
	}
	return limiter
}

func (sc *ServerCommunicator) GetSnapshot(context.Context) (engine.Snapshot, error) {
	return sc.host.Snapshot(), nil
}

// SendMove queues cmd for the host after the per-team rate check.
func (sc *ServerCommunicator) SendMove(_ context.Context, cmd engine.MoveCommand) error {
	if !cmd.Team.Valid() {
		return fmt.Errorf("move for %s: %w", cmd.Team, engine.ErrUnknownPiece)
	}
	if !sc.limiter(cmd.Team).Allow() {
		return fmt.Errorf("%s: %w", cmd.Team, communication.ErrRateLimited)
	}
	sc.host.Submit(cmd)
	return nil
}
