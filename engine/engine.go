package engine

import (
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"xiangqi/experiments/metrics"
	"xiangqi/game"
	"xiangqi/meta"
	"xiangqi/searcher"
)

// Agent proposes moves for one team. The engine polls every agent once per
// tick during the command stage.
type Agent interface {
	Team() game.Team
	Name() string
	Poll(dt float64, view searcher.View, canAfford bool) (searcher.Decision, bool)
}

type Option func(e *Engine)

// WithConfig applies the match parameters of cfg.
func WithConfig(cfg meta.Config) Option {
	return func(e *Engine) {
		e.rules = game.Rules{CannonScreen: cfg.CannonScreen, ElephantEye: cfg.ElephantEye}
		e.pool = Pool{
			Current:   cfg.StartResource,
			Max:       cfg.MaxResource,
			RegenRate: cfg.RegenRate,
			MoveCost:  cfg.MoveCost,
		}
		if cfg.TransitSpeed > 0 {
			e.speed = cfg.TransitSpeed
		}
		if cfg.CollisionRadius > 0 {
			e.radius = cfg.CollisionRadius
		}
	}
}

// WithRules selects the movement rule variant.
func WithRules(rules game.Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithBoard starts the match from a copy of b instead of the standard layout.
func WithBoard(b *game.Board) Option {
	return func(e *Engine) {
		if b != nil {
			e.board = b.Clone()
		}
	}
}

// WithPool sets the starting pool of both teams.
func WithPool(p Pool) Option {
	return func(e *Engine) {
		e.pool = p
	}
}

// WithTransitSpeed sets how many cells per second a piece travels.
func WithTransitSpeed(speed float64) Option {
	return func(e *Engine) {
		if speed > 0 {
			e.speed = speed
		}
	}
}

// WithCollisionRadius sets the contact distance, in cells, of the combat pass.
func WithCollisionRadius(radius float64) Option {
	return func(e *Engine) {
		if radius > 0 {
			e.radius = radius
		}
	}
}

// WithAgent adds an AI (or any other) move source polled every tick.
func WithAgent(a Agent) Option {
	return func(e *Engine) {
		if a != nil {
			e.agents = append(e.agents, a)
		}
	}
}

// WithMetrics records moves, kills and AI decisions into c.
func WithMetrics(c metrics.Collector) Option {
	return func(e *Engine) {
		if c != nil {
			e.metrics = c
		}
	}
}

// Engine is the simulation context of one match and the only writer of the
// board and the resource pools. It is not safe for concurrent use except for
// Submit.
type Engine struct {
	rules  game.Rules
	pool   Pool
	speed  float64
	radius float64

	board    *game.Board
	roster   map[game.PieceID]game.Piece
	dead     map[game.PieceID]bool
	economy  *Economy
	transits *Lifecycle
	combat   Resolver
	agents   []Agent
	metrics  metrics.Collector

	queue   commandQueue
	logical *game.Board
	events  []Event

	tick    uint64
	elapsed float64
	fallen  [2]bool
	over    bool
	winner  game.Team
}

// New creates a match with the standard layout and default parameters.
func New(options ...Option) *Engine {
	e := &Engine{ // Default values
		rules: game.NewStandardRules(),
		pool: Pool{
			Current:   meta.StartResource,
			Max:       meta.MaxResource,
			RegenRate: meta.RegenRate,
			MoveCost:  meta.MoveCost,
		},
		speed:   meta.TransitSpeed,
		radius:  meta.CollisionRadius,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	if e.board == nil {
		e.board = game.CreateStandardBoard()
	}

	e.roster = make(map[game.PieceID]game.Piece)
	for _, pl := range e.board.Pieces() {
		if _, dup := e.roster[pl.Piece.ID]; dup {
			panic("duplicate piece id on starting board")
		}
		e.roster[pl.Piece.ID] = pl.Piece
	}
	e.dead = make(map[game.PieceID]bool)
	e.economy = NewEconomy(e.pool)
	e.transits = NewLifecycle(e.speed)
	e.combat = NewResolver(e.radius)
	return e
}

// Tick advances the simulation by dt seconds and returns the events raised
// since the previous call. Stages run in a fixed order: regeneration, transit
// advancement and landing, combat, then commands (queued requests and agents).
func (e *Engine) Tick(dt float64) []Event {
	if e.over {
		e.rejectQueued()
		return e.drain()
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	e.tick++
	e.elapsed += dt

	e.economy.Tick(dt)

	moved, landed := e.transits.Advance(dt)
	for _, t := range moved {
		e.emit(Event{Kind: TransitProgress, Piece: t.Piece, Transit: t.ID, Progress: t.Progress, At: t.Cell()})
	}
	for _, t := range landed {
		e.land(t)
	}
	e.invalidate()

	for _, id := range e.combat.Resolve(e.combatants()) {
		e.Kill(id)
	}
	e.settle()

	if !e.over {
		e.applyQueued()
		e.pollAgents(dt)
	}
	return e.drain()
}

func (e *Engine) combatants() []Combatant {
	placed := e.board.Pieces()
	moving := e.transits.Transits()
	cs := make([]Combatant, 0, len(placed)+len(moving))
	for _, pl := range placed {
		cs = append(cs, StaticCombatant(pl.Piece, pl.At))
	}
	for _, t := range moving {
		cs = append(cs, TransitCombatant(t))
	}
	return cs
}

func (e *Engine) applyQueued() {
	for _, cmd := range e.queue.drain() {
		if _, err := e.RequestMove(cmd); err != nil {
			e.emit(Event{Kind: MoveRejected, At: cmd.From, Err: err})
			e.metrics.AddRejection()
			log.Debug().Msgf("queued request rejected: %v", err)
			continue
		}
		e.metrics.AddMove()
	}
}

func (e *Engine) rejectQueued() {
	for _, cmd := range e.queue.drain() {
		e.emit(Event{Kind: MoveRejected, At: cmd.From, Err: reject(cmd, ErrGameOver, "winner %s", e.winner)})
	}
}

func (e *Engine) pollAgents(dt float64) {
	for _, a := range e.agents {
		team := a.Team()
		decision, ok := a.Poll(dt, e.view(team), e.economy.CanSpend(team))
		if !ok {
			continue
		}
		cmd := MoveCommand{Team: team, From: decision.Plan.From, To: decision.Plan.To}
		_, err := e.RequestMove(cmd)

		record := metrics.DecisionMetric{
			Tick:       e.tick,
			Team:       team.String(),
			Strategy:   a.Name(),
			Branch:     string(decision.Branch),
			Candidates: decision.Candidates,
			Score:      decision.Plan.Score,
			Duration:   decision.Duration,
			Accepted:   err == nil,
		}
		if err != nil {
			record.Reason = err.Error()
			e.metrics.AddRejection()
			log.Debug().Msgf("%s agent move rejected: %v", a.Name(), err)
		} else {
			e.metrics.AddMove()
		}
		e.metrics.AddDecision(record)
		if e.over {
			return
		}
	}
}

func (e *Engine) view(team game.Team) searcher.View {
	moving := make(map[game.PieceID]bool, e.transits.Len())
	for _, t := range e.transits.Transits() {
		moving[t.Piece.ID] = true
	}
	return searcher.View{
		Board:  e.logicalBoard(),
		Rules:  e.rules,
		Team:   team,
		Moving: moving,
	}
}

func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	if ev.Kind == PieceKilled {
		e.metrics.AddKill()
	}
	e.events = append(e.events, ev)
}

func (e *Engine) drain() []Event {
	out := e.events
	e.events = nil
	return out
}

func (e *Engine) invalidate() {
	e.logical = nil
}

// logicalBoard merges the static board with in-flight pieces at their rounded
// positions. A piece whose cell is already taken passes through and is left
// out for this tick.
func (e *Engine) logicalBoard() *game.Board {
	if e.logical != nil {
		return e.logical
	}
	b := e.board.Clone()
	for _, t := range e.transits.Transits() {
		cell := t.Cell()
		if _, taken := b.Get(cell); taken || !b.InBounds(cell) {
			continue
		}
		b.Set(cell, t.Piece)
	}
	e.logical = b
	return b
}

// LogicalBoard returns a copy of the current logical board.
func (e *Engine) LogicalBoard() *game.Board {
	return e.logicalBoard().Clone()
}

// PieceAt returns the piece occupying pos on the logical board.
func (e *Engine) PieceAt(pos game.Position) (game.Piece, bool) {
	return e.logicalBoard().Get(pos)
}

// ValidMoves returns the legal destinations of piece at pos on the logical
// board. Pieces in flight have none.
func (e *Engine) ValidMoves(piece game.Piece, pos game.Position) []game.Position {
	if _, moving := e.transits.Active(piece.ID); moving || e.dead[piece.ID] {
		return nil
	}
	return e.rules.LegalMoves(piece, pos, e.logicalBoard())
}

// IsPositionUnderAttack reports whether byTeam attacks pos on the logical board.
func (e *Engine) IsPositionUnderAttack(pos game.Position, byTeam game.Team) bool {
	return e.rules.IsAttacked(pos, byTeam, e.logicalBoard())
}

func (e *Engine) Pool(team game.Team) Pool {
	return e.economy.Pool(team)
}

// Transit returns the active transit of a piece.
func (e *Engine) Transit(id game.PieceID) (Transit, bool) {
	return e.transits.Active(id)
}

// Alive reports whether the piece is still in play.
func (e *Engine) Alive(id game.PieceID) bool {
	_, known := e.roster[id]
	return known && !e.dead[id]
}

// Winner returns the winning team once the game is over. A draw reports NoTeam.
func (e *Engine) Winner() (game.Team, bool) {
	return e.winner, e.over
}

// Clock returns the number of ticks run and the simulated seconds elapsed.
func (e *Engine) Clock() (uint64, float64) {
	return e.tick, e.elapsed
}

func (e *Engine) Over() bool {
	return e.over
}

func (e *Engine) Rules() game.Rules {
	return e.rules
}

// Snapshot is a read-only copy of the authoritative state.
type Snapshot struct {
	Tick     uint64             `json:"tick"`
	Elapsed  float64            `json:"elapsed"`
	Cols     int                `json:"cols"`
	Rows     int                `json:"rows"`
	Rules    game.Rules         `json:"rules"`
	Pieces   []game.Placement   `json:"pieces"`
	Transits []Transit          `json:"transits"`
	Pools    map[game.Team]Pool `json:"pools"`
	Over     bool               `json:"over"`
	Winner   game.Team          `json:"winner"`
	Board    *game.Board        `json:"-"` // logical board
}

// Snapshot copies the logical board, transits and pools.
func (e *Engine) Snapshot() Snapshot {
	board := e.LogicalBoard()
	return Snapshot{
		Tick:     e.tick,
		Elapsed:  e.elapsed,
		Cols:     board.Cols(),
		Rows:     board.Rows(),
		Rules:    e.rules,
		Pieces:   board.Pieces(),
		Transits: e.transits.Transits(),
		Pools: map[game.Team]Pool{
			game.Red:   e.economy.Pool(game.Red),
			game.Black: e.economy.Pool(game.Black),
		},
		Over:   e.over,
		Winner: e.winner,
		Board:  board,
	}
}

// Restore rebuilds the logical board of a snapshot received without one.
func (s *Snapshot) Restore() *game.Board {
	if s.Board == nil {
		s.Board = game.NewBoard(s.Cols, s.Rows)
		for _, pl := range s.Pieces {
			s.Board.Set(pl.At, pl.Piece)
		}
	}
	return s.Board
}

type commandQueue struct {
	mu      sync.Mutex
	pending []MoveCommand
}

func (q *commandQueue) push(cmd MoveCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, cmd)
}

func (q *commandQueue) drain() []MoveCommand {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}
