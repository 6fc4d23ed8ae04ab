package engine

import (
	"math"

	"xiangqi/game"
)

// TransitID identifies one admitted move.
type TransitID uint64

// Transit is the in-flight state of a moving piece.
type Transit struct {
	ID         TransitID     `json:"id"`
	Piece      game.Piece    `json:"piece"`
	From       game.Position `json:"from"`
	To         game.Position `json:"to"`
	Progress   float64       `json:"progress"`
	Capture    bool          `json:"capture"`
	Attacking  bool          `json:"attacking"`
	Vulnerable bool          `json:"vulnerable"`
}

// Point is the interpolated board-space location of the transit.
func (t Transit) Point() (x, y float64) {
	x = float64(t.From.Col) + (float64(t.To.Col)-float64(t.From.Col))*t.Progress
	y = float64(t.From.Row) + (float64(t.To.Row)-float64(t.From.Row))*t.Progress
	return x, y
}

// Cell is the interpolated location rounded to the nearest cell.
func (t Transit) Cell() game.Position {
	x, y := t.Point()
	return game.Position{Col: int(math.Round(x)), Row: int(math.Round(y))}
}

func (t Transit) distance() float64 {
	dc := float64(t.To.Col - t.From.Col)
	dr := float64(t.To.Row - t.From.Row)
	return math.Sqrt(dc*dc + dr*dr)
}

// exposure maps a piece type and progress to its combat flags.
type exposure func(progress float64, capture bool) (attacking, vulnerable bool)

func grounded(float64, bool) (bool, bool) {
	return true, true
}

func cannonExposure(progress float64, capture bool) (bool, bool) {
	return progress > 0.9 && capture, true
}

// leaping pieces are untouchable mid-air and strike on landing. The windows
// overlap on (0.6, 0.8); the landing assignment is applied last and wins.
func leaping(progress float64, _ bool) (attacking, vulnerable bool) {
	attacking, vulnerable = false, true
	if progress > 0.1 && progress < 0.8 {
		attacking, vulnerable = false, false
	}
	if progress > 0.6 {
		attacking, vulnerable = true, true
	}
	return attacking, vulnerable
}

var profiles = map[game.PieceType]exposure{
	game.General:  grounded,
	game.Advisor:  grounded,
	game.Chariot:  grounded,
	game.Soldier:  grounded,
	game.Cannon:   cannonExposure,
	game.Horse:    leaping,
	game.Elephant: leaping,
}

// Exposure returns the combat flags of a piece of type pt at the given progress.
func Exposure(pt game.PieceType, progress float64, capture bool) (attacking, vulnerable bool) {
	profile, ok := profiles[pt]
	if !ok {
		return false, true
	}
	return profile(progress, capture)
}

// Lifecycle owns every in-flight transit. Transits started during a tick are
// staged and join the active set on the next Advance.
type Lifecycle struct {
	speed   float64 // cells per second
	nextID  TransitID
	active  []*Transit
	staged  []*Transit
	byPiece map[game.PieceID]*Transit
}

func NewLifecycle(speed float64) *Lifecycle {
	if speed <= 0 {
		panic("transit speed must be positive")
	}
	return &Lifecycle{
		speed:   speed,
		byPiece: make(map[game.PieceID]*Transit),
	}
}

// Start records a new transit for piece. It returns false if the piece is
// already in flight.
func (l *Lifecycle) Start(piece game.Piece, from, to game.Position, capture bool) (Transit, bool) {
	if _, busy := l.byPiece[piece.ID]; busy {
		return Transit{}, false
	}
	l.nextID++
	t := &Transit{
		ID:      l.nextID,
		Piece:   piece,
		From:    from,
		To:      to,
		Capture: capture,
	}
	t.Attacking, t.Vulnerable = Exposure(piece.Type, 0, capture)
	l.staged = append(l.staged, t)
	l.byPiece[piece.ID] = t
	return *t, true
}

// Advance merges staged transits, moves every active transit forward by dt and
// returns the transits that progressed and those that reached their target.
// Landed transits are removed from the set.
func (l *Lifecycle) Advance(dt float64) (moved, landed []Transit) {
	l.active = append(l.active, l.staged...)
	l.staged = nil

	kept := l.active[:0]
	for _, t := range l.active {
		if dt > 0 {
			if dist := t.distance(); dist > 0 {
				t.Progress = min(1, t.Progress+dt*l.speed/dist)
			} else {
				t.Progress = 1
			}
		}
		t.Attacking, t.Vulnerable = Exposure(t.Piece.Type, t.Progress, t.Capture)

		if t.Progress >= 1 {
			delete(l.byPiece, t.Piece.ID)
			landed = append(landed, *t)
			continue
		}
		moved = append(moved, *t)
		kept = append(kept, t)
	}
	clear(l.active[len(kept):])
	l.active = kept
	return moved, landed
}

// Remove drops the transit of a piece killed mid-flight.
func (l *Lifecycle) Remove(id game.PieceID) (Transit, bool) {
	t, ok := l.byPiece[id]
	if !ok {
		return Transit{}, false
	}
	delete(l.byPiece, id)
	l.active = without(l.active, t)
	l.staged = without(l.staged, t)
	return *t, true
}

func without(ts []*Transit, target *Transit) []*Transit {
	for i, t := range ts {
		if t == target {
			return append(ts[:i], ts[i+1:]...)
		}
	}
	return ts
}

// Active returns the transit of a piece, staged or active.
func (l *Lifecycle) Active(id game.PieceID) (Transit, bool) {
	t, ok := l.byPiece[id]
	if !ok {
		return Transit{}, false
	}
	return *t, true
}

// Transits returns copies of all transits in start order, active before staged.
func (l *Lifecycle) Transits() []Transit {
	out := make([]Transit, 0, len(l.active)+len(l.staged))
	for _, t := range l.active {
		out = append(out, *t)
	}
	for _, t := range l.staged {
		out = append(out, *t)
	}
	return out
}

func (l *Lifecycle) Len() int {
	return len(l.byPiece)
}
