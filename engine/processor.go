package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"xiangqi/game"
)

// MoveCommand asks for the piece of Team at From to travel to To.
type MoveCommand struct {
	Team game.Team     `json:"team"`
	From game.Position `json:"from"`
	To   game.Position `json:"to"`
}

func (c MoveCommand) String() string {
	return fmt.Sprintf("%s %s->%s", c.Team, c.From, c.To)
}

// RequestMove validates and applies a move synchronously. Checks run in a fixed
// order: bounds, ownership and transit state, legality on the logical board,
// then resource. On success the pool is charged and a transit started; on
// rejection nothing changes.
func (e *Engine) RequestMove(cmd MoveCommand) (TransitID, error) {
	if e.over {
		return 0, reject(cmd, ErrGameOver, "winner %s", e.winner)
	}
	if !cmd.Team.Valid() {
		return 0, reject(cmd, ErrUnknownPiece, "team %s cannot move", cmd.Team)
	}
	if !e.board.InBounds(cmd.From) || !e.board.InBounds(cmd.To) {
		return 0, reject(cmd, ErrOutOfBounds, "")
	}

	piece, ok := e.board.Get(cmd.From)
	if !ok || piece.Team != cmd.Team {
		if t, moving := e.transitAt(cmd.Team, cmd.From); moving {
			return 0, reject(cmd, ErrPieceAlreadyTransiting, "%s is in transit %d", t.Piece, t.ID)
		}
		return 0, reject(cmd, ErrUnknownPiece, "no %s piece at %s", cmd.Team, cmd.From)
	}
	if t, moving := e.transits.Active(piece.ID); moving {
		return 0, reject(cmd, ErrPieceAlreadyTransiting, "%s is in transit %d", piece, t.ID)
	}

	logical := e.logicalBoard()
	if !e.rules.IsLegal(piece, cmd.From, cmd.To, logical) {
		return 0, reject(cmd, ErrInvalidMove, "%s cannot reach %s", piece, cmd.To)
	}
	if !e.economy.CanSpend(cmd.Team) {
		return 0, reject(cmd, ErrInsufficientResource, "have %.2f", e.economy.Pool(cmd.Team).Current)
	}

	target, occupied := logical.Get(cmd.To)
	capture := occupied && target.Team != piece.Team

	e.economy.Spend(cmd.Team)
	e.board.Remove(cmd.From)
	t, _ := e.transits.Start(piece, cmd.From, cmd.To, capture)
	e.invalidate()

	e.emit(Event{Kind: TransitStarted, Piece: piece, Transit: t.ID, At: cmd.From})
	log.Debug().Msgf("accepted %s as transit %d (capture=%t)", cmd, t.ID, capture)
	return t.ID, nil
}

// Submit queues a command from any goroutine. It is applied during the command
// stage of the next tick; a rejection surfaces as a MoveRejected event.
func (e *Engine) Submit(cmd MoveCommand) {
	e.queue.push(cmd)
}

// transitAt finds a moving piece of team that left from pos or currently
// stands on pos logically.
func (e *Engine) transitAt(team game.Team, pos game.Position) (Transit, bool) {
	for _, t := range e.transits.Transits() {
		if t.Piece.Team == team && (t.From == pos || t.Cell() == pos) {
			return t, true
		}
	}
	return Transit{}, false
}

// Kill removes a piece from play. Killing a dead or unknown piece is a no-op
// and returns false.
func (e *Engine) Kill(id game.PieceID) bool {
	if e.dead[id] {
		return false
	}
	piece, ok := e.roster[id]
	if !ok {
		return false
	}

	var at game.Position
	if t, moving := e.transits.Remove(id); moving {
		at = t.Cell()
	} else if pos, placed := e.board.Find(id); placed {
		e.board.Remove(pos)
		at = pos
	}
	e.dead[id] = true
	e.invalidate()

	e.emit(Event{Kind: PieceKilled, Piece: piece, At: at})
	log.Info().Msgf("%s killed at %s", piece, at)

	if piece.Type == game.General {
		e.fallen[piece.Team.Index()] = true
	}
	return true
}

// land writes an arrived piece back onto the board. An occupied target is
// settled with the pair rule; if both survive the arriving piece is destroyed.
func (e *Engine) land(t Transit) {
	if e.dead[t.Piece.ID] {
		return
	}
	if occupant, ok := e.board.Get(t.To); ok {
		killArriving, killOccupant := ResolvePair(TransitCombatant(t), StaticCombatant(occupant, t.To))
		if killOccupant {
			e.Kill(occupant.ID)
		}
		if killArriving || !killOccupant {
			log.Debug().Msgf("%s blocked landing on %s held by %s", t.Piece, t.To, occupant)
			e.Kill(t.Piece.ID)
			return
		}
	}
	e.board.Set(t.To, t.Piece)
	e.invalidate()
	e.emit(Event{Kind: TransitComplete, Piece: t.Piece, Transit: t.ID, Progress: 1, At: t.To})
}

// settle ends the match once a General has fallen.
func (e *Engine) settle() {
	if e.over {
		return
	}
	redDown, blackDown := e.fallen[game.Red.Index()], e.fallen[game.Black.Index()]
	if !redDown && !blackDown {
		return
	}
	e.over = true
	switch {
	case redDown && blackDown:
		e.winner = game.NoTeam
	case redDown:
		e.winner = game.Black
	default:
		e.winner = game.Red
	}
	e.emit(Event{Kind: GameEnded, Winner: e.winner})
	log.Info().Msgf("game ended at tick %d, winner: %s", e.tick, e.winner)
}
