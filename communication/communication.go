package communication

import (
	"context"
	"errors"

	"xiangqi/engine"
)

// ErrRateLimited is returned when a team submits moves faster than allowed.
var ErrRateLimited = errors.New("rate limited")

// Communicator abstracts how a player reaches a running match.
type Communicator interface {
	GetSnapshot(ctx context.Context) (engine.Snapshot, error)
	SendMove(ctx context.Context, cmd engine.MoveCommand) error
}
