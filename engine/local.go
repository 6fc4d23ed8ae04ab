package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"xiangqi/game"
)

// Runner drives an Engine's tick loop, either as fast as possible or paced by
// the wall clock, and publishes a snapshot after every tick.
type Runner struct {
	engine   *Engine
	tickRate int
	maxTicks uint64
	listener func(Event)
	latest   atomic.Pointer[Snapshot]
}

type RunnerOption func(r *Runner)

// WithMaxDuration stops a match that has not ended after d of simulated time.
func WithMaxDuration(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.maxTicks = uint64(d.Seconds() * float64(r.tickRate))
		}
	}
}

// WithListener receives every event in order, on the loop goroutine.
func WithListener(fn func(Event)) RunnerOption {
	return func(r *Runner) {
		r.listener = fn
	}
}

func NewRunner(e *Engine, tickRate int, options ...RunnerOption) *Runner {
	if tickRate <= 0 {
		panic("tick rate must be positive")
	}
	r := &Runner{
		engine:   e,
		tickRate: tickRate,
	}
	for _, option := range options {
		option(r)
	}
	r.publish()
	return r
}

// Run plays the match to the end without pacing. It returns the winner and
// false if the duration limit was reached first.
func (r *Runner) Run() (game.Team, bool) {
	dt := 1 / float64(r.tickRate)
	for !r.engine.Over() && !r.exhausted() {
		r.step(dt)
	}
	return r.result()
}

// RunRealtime ticks once per wall-clock period until the match ends, the
// limit is reached or ctx is cancelled.
func (r *Runner) RunRealtime(ctx context.Context) (game.Team, bool, error) {
	period := time.Second / time.Duration(r.tickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	last := time.Now()
	for !r.engine.Over() && !r.exhausted() {
		select {
		case <-ctx.Done():
			winner, over := r.result()
			return winner, over, ctx.Err()
		case now := <-ticker.C:
			r.step(now.Sub(last).Seconds())
			last = now
		}
	}
	winner, over := r.result()
	return winner, over, nil
}

func (r *Runner) step(dt float64) {
	for _, ev := range r.engine.Tick(dt) {
		if r.listener != nil {
			r.listener(ev)
		}
	}
	r.publish()
}

func (r *Runner) exhausted() bool {
	ticks, _ := r.engine.Clock()
	return r.maxTicks > 0 && ticks >= r.maxTicks
}

func (r *Runner) result() (game.Team, bool) {
	winner, over := r.engine.Winner()
	ticks, elapsed := r.engine.Clock()
	if over {
		log.Info().Msgf("match over after %d ticks (%.1fs), winner: %s", ticks, elapsed, winner)
	} else {
		log.Info().Msgf("match stopped after %d ticks (%.1fs) without a winner", ticks, elapsed)
	}
	return winner, over
}

func (r *Runner) publish() {
	snap := r.engine.Snapshot()
	r.latest.Store(&snap)
}

// Snapshot returns the state published after the latest tick. It is safe to
// call from any goroutine.
func (r *Runner) Snapshot() Snapshot {
	return *r.latest.Load()
}

// Submit queues a move for the next tick. It is safe to call from any goroutine.
func (r *Runner) Submit(cmd MoveCommand) {
	r.engine.Submit(cmd)
}
