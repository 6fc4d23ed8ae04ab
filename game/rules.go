package game

// Rules selects the movement rule variant. The zero value is the variant
// observed in play: cannons slide like chariots and elephants ignore the eye.
type Rules struct {
	// CannonScreen requires exactly one piece between a cannon and its capture.
	CannonScreen bool `json:"cannonScreen" yaml:"cannon_screen"`
	// ElephantEye blocks an elephant jump when the midpoint cell is occupied.
	ElephantEye bool `json:"elephantEye" yaml:"elephant_eye"`
}

func NewStandardRules() Rules {
	return Rules{}
}

type generator func(r Rules, piece Piece, pos Position, b *Board) []Position

// generators is indexed by PieceType.
var generators = [numPieceTypes]generator{
	General:  generalMoves,
	Advisor:  advisorMoves,
	Elephant: elephantMoves,
	Horse:    horseMoves,
	Chariot:  chariotMoves,
	Cannon:   cannonMoves,
	Soldier:  soldierMoves,
}

var (
	orthogonal   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal     = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	elephantJump = [4][2]int{{2, 2}, {2, -2}, {-2, 2}, {-2, -2}}
	knight       = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// LegalMoves returns the destinations available to piece standing at pos.
// The result never contains out-of-bounds cells or duplicates.
func (r Rules) LegalMoves(piece Piece, pos Position, b *Board) []Position {
	if piece.IsZero() || piece.Type <= NoType || int(piece.Type) >= len(generators) || !b.InBounds(pos) {
		return nil
	}
	return generators[piece.Type](r, piece, pos, b)
}

// IsLegal reports whether to is among piece's legal destinations.
func (r Rules) IsLegal(piece Piece, from, to Position, b *Board) bool {
	for _, dst := range r.LegalMoves(piece, from, b) {
		if dst == to {
			return true
		}
	}
	return false
}

// IsAttacked is true iff some piece of byTeam has pos among its legal moves.
func (r Rules) IsAttacked(pos Position, byTeam Team, b *Board) bool {
	if !b.InBounds(pos) {
		return false
	}
	for _, pl := range b.Pieces() {
		if pl.Piece.Team != byTeam {
			continue
		}
		if r.IsLegal(pl.Piece, pl.At, pos, b) {
			return true
		}
	}
	return false
}

// InPalace reports whether pos is inside team's 3x3 palace.
func InPalace(b *Board, team Team, pos Position) bool {
	center := b.Cols() / 2
	if pos.Col < center-1 || pos.Col > center+1 {
		return false
	}
	switch team {
	case Red:
		return pos.Row >= 0 && pos.Row <= 2
	case Black:
		return pos.Row >= b.Rows()-3 && pos.Row < b.Rows()
	}
	return false
}

// OwnHalf reports whether pos is on team's side of the river.
func OwnHalf(b *Board, team Team, pos Position) bool {
	river := b.Rows() / 2
	if team == Red {
		return pos.Row < river
	}
	return pos.Row >= river
}

// CrossedRiver reports whether pos is on the opponent's side of the river.
func CrossedRiver(b *Board, team Team, pos Position) bool {
	return b.InBounds(pos) && !OwnHalf(b, team, pos)
}

// Forward is the row direction team advances in.
func Forward(team Team) int {
	if team == Black {
		return -1
	}
	return 1
}

// RiverDistance is how many rows past the river pos is for team; zero on its own half.
func RiverDistance(b *Board, team Team, pos Position) int {
	if OwnHalf(b, team, pos) {
		return 0
	}
	river := b.Rows() / 2
	if team == Red {
		return pos.Row - river + 1
	}
	return river - pos.Row
}

// enterable reports whether piece may finish a move on pos: on the board and
// not held by a friendly piece.
func enterable(piece Piece, pos Position, b *Board) bool {
	if !b.InBounds(pos) {
		return false
	}
	occupant, ok := b.Get(pos)
	return !ok || occupant.Team != piece.Team
}

func steps(piece Piece, pos Position, b *Board, offsets [][2]int, keep func(Position) bool) []Position {
	var moves []Position
	for _, d := range offsets {
		dst := pos.Add(d[0], d[1])
		if !enterable(piece, dst, b) {
			continue
		}
		if keep != nil && !keep(dst) {
			continue
		}
		moves = append(moves, dst)
	}
	return moves
}

func generalMoves(_ Rules, piece Piece, pos Position, b *Board) []Position {
	return steps(piece, pos, b, orthogonal[:], func(dst Position) bool {
		return InPalace(b, piece.Team, dst)
	})
}

func advisorMoves(_ Rules, piece Piece, pos Position, b *Board) []Position {
	return steps(piece, pos, b, diagonal[:], func(dst Position) bool {
		return InPalace(b, piece.Team, dst)
	})
}

func elephantMoves(r Rules, piece Piece, pos Position, b *Board) []Position {
	return steps(piece, pos, b, elephantJump[:], func(dst Position) bool {
		if !OwnHalf(b, piece.Team, dst) {
			return false
		}
		if r.ElephantEye {
			eye := Position{Col: (pos.Col + dst.Col) / 2, Row: (pos.Row + dst.Row) / 2}
			if _, blocked := b.Get(eye); blocked {
				return false
			}
		}
		return true
	})
}

func horseMoves(_ Rules, piece Piece, pos Position, b *Board) []Position {
	return steps(piece, pos, b, knight[:], nil)
}

func soldierMoves(_ Rules, piece Piece, pos Position, b *Board) []Position {
	fwd := Forward(piece.Team)
	offsets := [][2]int{{0, fwd}}
	if CrossedRiver(b, piece.Team, pos) {
		offsets = append(offsets, [2]int{-1, 0}, [2]int{1, 0})
	}
	return steps(piece, pos, b, offsets, nil)
}

// slide walks each orthogonal ray until the edge or the first occupied cell,
// which is included only if it holds an opponent.
func slide(piece Piece, pos Position, b *Board) []Position {
	var moves []Position
	for _, d := range orthogonal {
		dst := pos.Add(d[0], d[1])
		for b.InBounds(dst) {
			occupant, ok := b.Get(dst)
			if ok {
				if occupant.Team != piece.Team {
					moves = append(moves, dst)
				}
				break
			}
			moves = append(moves, dst)
			dst = dst.Add(d[0], d[1])
		}
	}
	return moves
}

func chariotMoves(_ Rules, piece Piece, pos Position, b *Board) []Position {
	return slide(piece, pos, b)
}

func cannonMoves(r Rules, piece Piece, pos Position, b *Board) []Position {
	if !r.CannonScreen {
		return slide(piece, pos, b)
	}

	var moves []Position
	for _, d := range orthogonal {
		dst := pos.Add(d[0], d[1])
		screened := false
		for b.InBounds(dst) {
			occupant, ok := b.Get(dst)
			if !screened {
				if ok {
					screened = true
				} else {
					moves = append(moves, dst)
				}
			} else if ok {
				if occupant.Team != piece.Team {
					moves = append(moves, dst)
				}
				break
			}
			dst = dst.Add(d[0], d[1])
		}
	}
	return moves
}
