package game

// Standard board dimensions.
const (
	StandardCols = 9
	StandardRows = 10
)

// Board is the canonical grid of static pieces. It is plain data: the engine is
// its only writer, everything else works on clones.
type Board struct {
	cols, rows int
	cells      []Piece
}

// NewBoard creates an empty board. It panics on non-positive dimensions.
func NewBoard(cols, rows int) *Board {
	if cols <= 0 || rows <= 0 {
		panic("board dimensions must be positive")
	}
	return &Board{
		cols:  cols,
		rows:  rows,
		cells: make([]Piece, cols*rows),
	}
}

// NewStandardBoard creates an empty 9x10 board.
func NewStandardBoard() *Board {
	return NewBoard(StandardCols, StandardRows)
}

func (b *Board) Cols() int { return b.cols }
func (b *Board) Rows() int { return b.rows }

// InBounds returns true if pos lies on the board.
func (b *Board) InBounds(pos Position) bool {
	return pos.Col >= 0 && pos.Col < b.cols && pos.Row >= 0 && pos.Row < b.rows
}

func (b *Board) index(pos Position) int {
	return pos.Row*b.cols + pos.Col
}

// Get returns the piece at pos. Empty or out-of-bounds cells return false.
func (b *Board) Get(pos Position) (Piece, bool) {
	if !b.InBounds(pos) {
		return Piece{}, false
	}
	p := b.cells[b.index(pos)]
	return p, !p.IsZero()
}

// Set places piece at pos, replacing any occupant. It returns false when pos is
// out of bounds.
func (b *Board) Set(pos Position, piece Piece) bool {
	if !b.InBounds(pos) {
		return false
	}
	b.cells[b.index(pos)] = piece
	return true
}

// Remove clears pos and returns what was there.
func (b *Board) Remove(pos Position) (Piece, bool) {
	p, ok := b.Get(pos)
	if !ok {
		return Piece{}, false
	}
	b.cells[b.index(pos)] = Piece{}
	return p, true
}

// Move relocates the piece at from to to, overwriting to. Used to finalize a
// completed transit and by search simulations.
func (b *Board) Move(from, to Position) bool {
	if !b.InBounds(to) {
		return false
	}
	p, ok := b.Remove(from)
	if !ok {
		return false
	}
	b.cells[b.index(to)] = p
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)
	return &Board{
		cols:  b.cols,
		rows:  b.rows,
		cells: cells,
	}
}

// Pieces returns every placed piece in row-major order.
func (b *Board) Pieces() []Placement {
	var placed []Placement
	for i, p := range b.cells {
		if p.IsZero() {
			continue
		}
		placed = append(placed, Placement{
			Piece: p,
			At:    Position{Col: i % b.cols, Row: i / b.cols},
		})
	}
	return placed
}

// Find scans the board for the piece with the given id.
func (b *Board) Find(id PieceID) (Position, bool) {
	if id == 0 {
		return Position{}, false
	}
	for i, p := range b.cells {
		if p.ID == id {
			return Position{Col: i % b.cols, Row: i / b.cols}, true
		}
	}
	return Position{}, false
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, p := range b.cells {
		if !p.IsZero() {
			n++
		}
	}
	return n
}
