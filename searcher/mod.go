package searcher

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"xiangqi/game"
)

// MovePlan is a candidate move. Capture holds the value of the piece on the
// destination, zero if empty.
type MovePlan struct {
	Piece   game.Piece
	From    game.Position
	To      game.Position
	Capture int
	Score   float64
}

func (p MovePlan) String() string {
	return fmt.Sprintf("%s %s->%s", p.Piece, p.From, p.To)
}

// View is the read-only state an AI decides on. Board is the logical board;
// pieces in Moving are in flight and cannot be ordered.
type View struct {
	Board  *game.Board
	Rules  game.Rules
	Team   game.Team
	Moving map[game.PieceID]bool
}

// Branch names the rule that produced a decision.
type Branch string

const (
	BranchSafety  Branch = "safety"
	BranchCapture Branch = "capture"
	BranchRescue  Branch = "rescue"
	BranchRandom  Branch = "random"
	BranchScored  Branch = "scored"
	BranchOpening Branch = "opening"
	BranchMinimax Branch = "minimax"
)

type Decision struct {
	Plan       MovePlan
	Branch     Branch
	Candidates int
	Duration   time.Duration
}

// Strategy picks one move for view.Team. It returns false when the team has no
// legal move.
type Strategy interface {
	Name() string
	Decide(view View, rng *rand.Rand) (Decision, bool)
}

// New returns the strategy registered under a difficulty name.
func New(difficulty string, options ...Option) (Strategy, error) {
	switch difficulty {
	case "easy":
		return Easy{}, nil
	case "hard":
		return Hard{}, nil
	case "veryhard":
		return NewVeryHard(options...), nil
	}
	return nil, fmt.Errorf("unknown difficulty %q", difficulty)
}

// Difficulties lists the registered strategy names, weakest first.
var Difficulties = []string{"easy", "hard", "veryhard"}
