package game

import (
	"fmt"
	"strings"
)

// Team identifies a side of the board.
type Team int8

const (
	NoTeam Team = iota
	Red
	Black
)

var teamNames = [...]string{NoTeam: "none", Red: "red", Black: "black"}

func (t Team) String() string {
	if t < 0 || int(t) >= len(teamNames) {
		return fmt.Sprintf("Team(%d)", int8(t))
	}
	return teamNames[t]
}

// Opponent returns the other team, or NoTeam for NoTeam.
func (t Team) Opponent() Team {
	switch t {
	case Red:
		return Black
	case Black:
		return Red
	}
	return NoTeam
}

// Index maps Red and Black to 0 and 1 for per-team arrays.
func (t Team) Index() int {
	return int(t) - 1
}

func (t Team) Valid() bool {
	return t == Red || t == Black
}

func (t Team) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Team) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "none", "":
		*t = NoTeam
	case "red":
		*t = Red
	case "black":
		*t = Black
	default:
		return fmt.Errorf("unknown team %q", text)
	}
	return nil
}

// Teams lists the playable teams in a stable order.
var Teams = [2]Team{Red, Black}

// PieceType is the tag that selects a piece's movement rule and combat profile.
type PieceType int8

const (
	NoType PieceType = iota
	General
	Advisor
	Elephant
	Horse
	Chariot
	Cannon
	Soldier

	numPieceTypes = iota
)

var typeNames = [numPieceTypes]string{
	NoType:   "none",
	General:  "general",
	Advisor:  "advisor",
	Elephant: "elephant",
	Horse:    "horse",
	Chariot:  "chariot",
	Cannon:   "cannon",
	Soldier:  "soldier",
}

func (pt PieceType) String() string {
	if pt < 0 || int(pt) >= len(typeNames) {
		return fmt.Sprintf("PieceType(%d)", int8(pt))
	}
	return typeNames[pt]
}

func (pt PieceType) MarshalText() ([]byte, error) {
	return []byte(pt.String()), nil
}

func (pt *PieceType) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range typeNames {
		if i != int(NoType) && n == name {
			*pt = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// PieceID is the stable identity of a piece for the whole match. Zero means no piece.
type PieceID uint16

// Piece is an immutable identity value. Transient movement and combat state
// lives in the engine, keyed by ID.
type Piece struct {
	ID   PieceID   `json:"id"`
	Type PieceType `json:"type"`
	Team Team      `json:"team"`
}

// IsZero reports whether p is the empty cell value.
func (p Piece) IsZero() bool {
	return p.ID == 0
}

func (p Piece) String() string {
	if p.IsZero() {
		return "empty"
	}
	return fmt.Sprintf("%s %s #%d", p.Team, p.Type, p.ID)
}

// Position is a board cell. Row 0 is Red's back rank.
type Position struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Add offsets p by (dc, dr).
func (p Position) Add(dc, dr int) Position {
	return Position{Col: p.Col + dc, Row: p.Row + dr}
}

// Placement pairs a piece with the cell it occupies.
type Placement struct {
	Piece Piece    `json:"piece"`
	At    Position `json:"at"`
}
