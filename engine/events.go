package engine

import (
	"fmt"

	"xiangqi/game"
)

// EventKind tags an Event.
type EventKind int

const (
	TransitStarted EventKind = iota
	TransitProgress
	TransitComplete
	PieceKilled
	GameEnded
	MoveRejected
)

var eventNames = [...]string{
	TransitStarted:  "transit_started",
	TransitProgress: "transit_progress",
	TransitComplete: "transit_complete",
	PieceKilled:     "piece_killed",
	GameEnded:       "game_ended",
	MoveRejected:    "move_rejected",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a notification for collaborators (rendering, replication). Events
// are collected during a tick and returned by Tick; fields unrelated to Kind
// are zero.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Tick     uint64        `json:"tick"`
	Piece    game.Piece    `json:"piece"`
	Transit  TransitID     `json:"transit,omitempty"`
	Progress float64       `json:"progress,omitempty"`
	At       game.Position `json:"at"`
	Winner   game.Team     `json:"winner,omitempty"`
	Err      error         `json:"-"`
}

func (e Event) String() string {
	switch e.Kind {
	case TransitProgress:
		return fmt.Sprintf("%s %s %.2f", e.Kind, e.Piece, e.Progress)
	case GameEnded:
		return fmt.Sprintf("%s winner=%s", e.Kind, e.Winner)
	case MoveRejected:
		return fmt.Sprintf("%s %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s at %s", e.Kind, e.Piece, e.At)
}
