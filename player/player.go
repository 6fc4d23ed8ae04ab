package player

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"xiangqi/communication"
	"xiangqi/engine"
	"xiangqi/game"
	"xiangqi/searcher"
)

// Player is a remote AI that follows a match through a Communicator.
type Player struct {
	Team         game.Team
	Strategy     searcher.Strategy
	Communicator communication.Communicator
	Interval     time.Duration // between snapshot polls

	rng *rand.Rand
}

// NewPlayer creates a new Player instance.
func NewPlayer(team game.Team, strategy searcher.Strategy, comm communication.Communicator, seed uint64) *Player {
	return &Player{
		Team:         team,
		Strategy:     strategy,
		Communicator: comm,
		Interval:     500 * time.Millisecond,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Play polls the match and sends a move whenever the team can afford one,
// until the match ends or ctx is cancelled.
func (p *Player) Play(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		snap, err := p.Communicator.GetSnapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("sync %s: %w", p.Team, err)
		}
		if snap.Over {
			log.Info().Msgf("%s player done, winner: %s", p.Team, snap.Winner)
			return nil
		}

		if cmd, ok := p.TakeTurn(snap); ok {
			if err := p.Communicator.SendMove(ctx, cmd); err != nil {
				log.Warn().Err(err).Msgf("%s player move not sent", p.Team)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// TakeTurn decides on a move for the snapshot, if the team can pay for one.
func (p *Player) TakeTurn(snap engine.Snapshot) (engine.MoveCommand, bool) {
	if !snap.Pools[p.Team].CanSpend() {
		return engine.MoveCommand{}, false
	}
	moving := make(map[game.PieceID]bool, len(snap.Transits))
	for _, t := range snap.Transits {
		moving[t.Piece.ID] = true
	}
	view := searcher.View{
		Board:  snap.Restore(),
		Rules:  snap.Rules,
		Team:   p.Team,
		Moving: moving,
	}
	decision, ok := p.Strategy.Decide(view, p.rng)
	if !ok {
		return engine.MoveCommand{}, false
	}
	log.Debug().Msgf("%s player chose %s (%s)", p.Team, decision.Plan, decision.Branch)
	return engine.MoveCommand{Team: p.Team, From: decision.Plan.From, To: decision.Plan.To}, true
}
