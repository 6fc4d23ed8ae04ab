package game

// backRank lists the pieces on each side's home row, left to right from Red's view.
var backRank = [StandardCols]PieceType{
	Chariot, Horse, Elephant, Advisor, General, Advisor, Elephant, Horse, Chariot,
}

var cannonCols = []int{1, 7}
var soldierCols = []int{0, 2, 4, 6, 8}

// CreateStandardBoard returns the standard starting layout on a 9x10 board.
// Piece IDs are assigned in placement order starting at 1, Red first.
func CreateStandardBoard() *Board {
	b := NewStandardBoard()
	var next PieceID

	place := func(team Team, pt PieceType, col, redRow int) {
		next++
		row := redRow
		if team == Black {
			row = StandardRows - 1 - redRow
		}
		b.Set(Position{Col: col, Row: row}, Piece{ID: next, Type: pt, Team: team})
	}

	for _, team := range Teams {
		for col, pt := range backRank {
			place(team, pt, col, 0)
		}
		for _, col := range cannonCols {
			place(team, Cannon, col, 2)
		}
		for _, col := range soldierCols {
			place(team, Soldier, col, 3)
		}
	}
	return b
}

// Mirror maps a Red-perspective position to the same cell from team's side.
func Mirror(b *Board, team Team, pos Position) Position {
	if team == Black {
		return Position{Col: pos.Col, Row: b.Rows() - 1 - pos.Row}
	}
	return pos
}
