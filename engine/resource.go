package engine

import (
	"fmt"

	"xiangqi/game"
)

// Pool is a team's regenerating move resource.
type Pool struct {
	Current   float64 `json:"current"`
	Max       float64 `json:"max"`
	RegenRate float64 `json:"regenRate"` // units per second
	MoveCost  int     `json:"moveCost"`
}

// Tick regenerates the pool by dt seconds, clamped to [0, Max].
func (p Pool) Tick(dt float64) Pool {
	if dt <= 0 {
		return p
	}
	p.Current = min(p.Max, p.Current+p.RegenRate*dt)
	return p
}

// CanSpend reports whether the pool holds at least one move's cost.
func (p Pool) CanSpend() bool {
	return p.Current >= float64(p.MoveCost)
}

// Spend charges one move. Callers must check CanSpend first.
func (p Pool) Spend() Pool {
	if !p.CanSpend() {
		panic(fmt.Sprintf("spend without resource: current=%.3f cost=%d", p.Current, p.MoveCost))
	}
	p.Current -= float64(p.MoveCost)
	return p
}

// Economy holds one pool per team.
type Economy struct {
	pools [2]Pool
}

// NewEconomy gives both teams a copy of the same starting pool.
func NewEconomy(start Pool) *Economy {
	if start.Max < 0 || start.MoveCost < 0 || start.RegenRate < 0 {
		panic("economy parameters must be non-negative")
	}
	start.Current = max(0, min(start.Max, start.Current))
	return &Economy{pools: [2]Pool{start, start}}
}

func (e *Economy) Tick(dt float64) {
	for i := range e.pools {
		e.pools[i] = e.pools[i].Tick(dt)
	}
}

func (e *Economy) Pool(team game.Team) Pool {
	if !team.Valid() {
		return Pool{}
	}
	return e.pools[team.Index()]
}

func (e *Economy) CanSpend(team game.Team) bool {
	return team.Valid() && e.pools[team.Index()].CanSpend()
}

func (e *Economy) Spend(team game.Team) {
	e.pools[team.Index()] = e.pools[team.Index()].Spend()
}

// set overrides a team's pool; used by tests and resynchronization.
func (e *Economy) set(team game.Team, p Pool) {
	e.pools[team.Index()] = p
}
