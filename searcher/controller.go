package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"xiangqi/game"
	"xiangqi/meta"
)

type ControllerOption func(c *Controller)

// WithSeed makes the controller's timing and tie-breaks reproducible.
func WithSeed(seed uint64) ControllerOption {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithInterval overrides the poll range, in seconds.
func WithInterval(iv meta.Interval) ControllerOption {
	return func(c *Controller) {
		if iv.Min > 0 && iv.Max >= iv.Min {
			c.interval = iv
		}
	}
}

// Controller drives a Strategy for one team on a randomized cadence. Once its
// timer expires it waits for the team to afford a move, decides, and rearms.
type Controller struct {
	team     game.Team
	strategy Strategy
	interval meta.Interval
	rng      *rand.Rand
	wait     float64
}

func NewController(team game.Team, strategy Strategy, options ...ControllerOption) *Controller {
	c := &Controller{ // Default values
		team:     team,
		strategy: strategy,
		interval: meta.DefaultIntervals[strategy.Name()],
		rng:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	if c.interval.Max <= 0 {
		c.interval = meta.Interval{Min: 1, Max: 2}
	}
	for _, option := range options {
		option(c)
	}
	c.rearm()
	return c
}

func (c *Controller) Team() game.Team { return c.team }

func (c *Controller) Name() string { return c.strategy.Name() }

// Poll advances the timer by dt seconds and returns a decision when one is due.
func (c *Controller) Poll(dt float64, view View, canAfford bool) (Decision, bool) {
	if dt > 0 {
		c.wait -= dt
	}
	if c.wait > 0 || !canAfford {
		return Decision{}, false
	}
	view.Team = c.team
	decision, ok := c.strategy.Decide(view, c.rng)
	c.rearm()
	return decision, ok
}

func (c *Controller) rearm() {
	c.wait = c.interval.Min + c.rng.Float64()*(c.interval.Max-c.interval.Min)
}
