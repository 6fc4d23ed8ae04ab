package searcher

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"xiangqi/game"
)

//go:embed openings.yaml
var defaultOpening []byte

// BookMove is one scripted move, written from Red's side of the board.
type BookMove struct {
	Piece game.PieceType `yaml:"piece"`
	From  game.Position  `yaml:"from"`
	To    game.Position  `yaml:"to"`
}

// Book is a fixed opening sequence.
type Book struct {
	Name  string     `yaml:"name"`
	Moves []BookMove `yaml:"moves"`
}

// ParseBook decodes a YAML opening book.
func ParseBook(data []byte) (Book, error) {
	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return Book{}, fmt.Errorf("parse opening book: %w", err)
	}
	for i, m := range book.Moves {
		if m.Piece == game.NoType {
			return Book{}, fmt.Errorf("opening %q move %d: missing piece", book.Name, i)
		}
	}
	return book, nil
}

// DefaultBook returns the embedded opening.
func DefaultBook() Book {
	book, err := ParseBook(defaultOpening)
	if err != nil {
		panic(err)
	}
	return book
}

// Len is the number of plies in the book.
func (b Book) Len() int {
	return len(b.Moves)
}

// Next validates ply against the current position. It returns the matching
// legal plan, or false when the position has diverged from the book.
func (b Book) Next(ply int, view View, plans []MovePlan) (MovePlan, bool) {
	if ply < 0 || ply >= len(b.Moves) {
		return MovePlan{}, false
	}
	m := b.Moves[ply]
	from := game.Mirror(view.Board, view.Team, m.From)
	to := game.Mirror(view.Board, view.Team, m.To)
	for _, p := range plans {
		if p.From == from && p.To == to && p.Piece.Type == m.Piece {
			return p, true
		}
	}
	return MovePlan{}, false
}
