package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove            = errors.New("invalid move")
	ErrInsufficientResource   = errors.New("insufficient resource")
	ErrPieceAlreadyTransiting = errors.New("piece already transiting")
	ErrUnknownPiece           = errors.New("unknown piece")
	ErrOutOfBounds            = errors.New("out of bounds")
	ErrGameOver               = errors.New("game over")
)

// RejectError is returned for every refused move request. State is unchanged
// when it is returned.
type RejectError struct {
	Command MoveCommand
	Reason  error
	Detail  string
}

func reject(cmd MoveCommand, reason error, format string, args ...any) *RejectError {
	return &RejectError{Command: cmd, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func (e *RejectError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("move %s: %v", e.Command, e.Reason)
	}
	return fmt.Sprintf("move %s: %v: %s", e.Command, e.Reason, e.Detail)
}

func (e *RejectError) Unwrap() error {
	return e.Reason
}
