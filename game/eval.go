package game

// Evaluate scores a board from team's perspective; higher is better for team.
type Evaluate func(b *Board, team Team) float64

// pieceValues orders General > Chariot > Cannon > Horse > Elephant > Advisor > Soldier.
var pieceValues = [numPieceTypes]int{
	General:  100,
	Chariot:  9,
	Cannon:   5,
	Horse:    4,
	Elephant: 3,
	Advisor:  2,
	Soldier:  1,
}

// Value returns the static material value of a piece type.
func Value(pt PieceType) int {
	if pt <= NoType || int(pt) >= len(pieceValues) {
		return 0
	}
	return pieceValues[pt]
}

const (
	centerFileBonus   = 0.5
	crossedRiverBonus = 1.0
	advanceBonus      = 0.5
)

// PositionalBonus rewards central files and soldiers that have crossed the
// river, scaled by how far past the river they stand.
func PositionalBonus(b *Board, piece Piece, pos Position) float64 {
	bonus := 0.0
	if piece.Type != General && piece.Type != Advisor {
		dist := pos.Col - b.Cols()/2
		if dist < 0 {
			dist = -dist
		}
		if dist < 2 {
			bonus += centerFileBonus * float64(2-dist)
		}
	}
	if piece.Type == Soldier {
		if past := RiverDistance(b, piece.Team, pos); past > 0 {
			bonus += crossedRiverBonus + advanceBonus*float64(past)
		}
	}
	return bonus
}

// EvaluateMaterial sums piece values plus positional bonus, positive for team's
// pieces and negative for the opponent's.
func EvaluateMaterial(b *Board, team Team) float64 {
	score := 0.0
	for _, pl := range b.Pieces() {
		v := float64(Value(pl.Piece.Type)) + PositionalBonus(b, pl.Piece, pl.At)
		if pl.Piece.Team == team {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
