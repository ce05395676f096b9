package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Four scan axes: horizontal, vertical, rising diagonal and falling diagonal
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// Board is the full state of a game: the grid, the number of stones placed and the outcome.
// A Board is mutated in place by Play; search code works on clones.
type Board struct {
	rows    int
	cols    int
	cells   []Player // Row-major, row 0 at the bottom
	height  []int    // Stones per column, i.e. the next open row
	moves   int      // Stones placed so far
	outcome Outcome  // Write-once, set by the move that ends the game
	winning []Cell   // Cells of the winning line, nil unless outcome is a win
	history []int    // Columns played in order
}

// NewBoard returns an empty board with the given dimensions.
func NewBoard(rows, cols int) *Board {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("invalid board size %dx%d", rows, cols))
	}
	return &Board{
		rows:   rows,
		cols:   cols,
		cells:  make([]Player, rows*cols),
		height: make([]int, cols),
	}
}

// NewStandardBoard returns an empty 6x7 board.
func NewStandardBoard() *Board {
	return NewBoard(DefaultRows, DefaultCols)
}

// ParseMoves builds a board by playing a whitespace separated list of columns.
func ParseMoves(rows, cols int, moves string) (*Board, error) {
	b := NewBoard(rows, cols)
	for _, field := range strings.Fields(moves) {
		col, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parsing move %q: %w", field, err)
		}
		if err := b.Play(col); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Clone returns a deep copy that shares nothing with b.
func (b *Board) Clone() *Board {
	c := &Board{
		rows:    b.rows,
		cols:    b.cols,
		cells:   make([]Player, len(b.cells)),
		height:  make([]int, len(b.height)),
		moves:   b.moves,
		outcome: b.outcome,
	}
	copy(c.cells, b.cells)
	copy(c.height, b.height)
	if b.winning != nil {
		c.winning = make([]Cell, len(b.winning))
		copy(c.winning, b.winning)
	}
	if b.history != nil {
		c.history = make([]int, len(b.history))
		copy(c.history, b.history)
	}
	return c
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Moves returns the number of stones placed.
func (b *Board) Moves() int { return b.moves }

func (b *Board) Outcome() Outcome { return b.outcome }

func (b *Board) IsTerminal() bool { return b.outcome.IsTerminal() }

// Cell returns the content of (row, col). Out of range positions read as Empty.
func (b *Board) Cell(row, col int) Player {
	if !b.inBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.cols+col]
}

// WinningCells returns a copy of the winning line, or nil if nobody has won.
func (b *Board) WinningCells() []Cell {
	if b.winning == nil {
		return nil
	}
	cells := make([]Cell, len(b.winning))
	copy(cells, b.winning)
	return cells
}

// History returns the columns played so far.
func (b *Board) History() []int {
	history := make([]int, len(b.history))
	copy(history, b.history)
	return history
}

// Turn returns the player to move.
func (b *Board) Turn() Player {
	if b.moves%2 == 0 {
		return PlayerA
	}
	return PlayerB
}

// LastPlayer returns the player who placed the most recent stone
// (PlayerB on an empty board, as if it had just passed to PlayerA).
func (b *Board) LastPlayer() Player {
	return b.Turn().Opponent()
}

// IsLegal reports whether col can be played: in range, not full, game not over.
func (b *Board) IsLegal(col int) bool {
	return !b.IsTerminal() && col >= 0 && col < b.cols && b.height[col] < b.rows
}

// LegalMoves returns the playable columns in ascending order. It is empty once the game is over.
func (b *Board) LegalMoves() []int {
	if b.IsTerminal() {
		return nil
	}
	moves := make([]int, 0, b.cols)
	for col := 0; col < b.cols; col++ {
		if b.height[col] < b.rows {
			moves = append(moves, col)
		}
	}
	return moves
}

// Play drops the current player's stone into col and updates the outcome.
// An illegal move returns an *IllegalMoveError and leaves the board untouched.
func (b *Board) Play(col int) error {
	switch {
	case b.IsTerminal():
		return &IllegalMoveError{Column: col, Reason: "game is over"}
	case col < 0 || col >= b.cols:
		return &IllegalMoveError{Column: col, Reason: "column out of range"}
	case b.height[col] >= b.rows:
		return &IllegalMoveError{Column: col, Reason: "column is full"}
	}

	player := b.Turn()
	row := b.height[col]
	b.cells[row*b.cols+col] = player
	b.height[col]++
	b.moves++
	b.history = append(b.history, col)

	// A winning move that fills the board is still a win
	if b.checkWin(row, col, player) {
		b.outcome = Won(player)
	} else if b.moves == b.rows*b.cols {
		b.outcome = Drawn()
	}
	return nil
}

// checkWin looks for a run of ConnectN through the stone just placed at (row, col).
// On success the run is stored in b.winning: forward cells furthest first, the
// placed cell, then backward cells nearest first.
func (b *Board) checkWin(row, col int, player Player) bool {
	for _, d := range directions {
		forward := b.run(row, col, d[0], d[1], player)
		backward := b.run(row, col, -d[0], -d[1], player)
		if len(forward)+1+len(backward) < ConnectN {
			continue
		}

		line := make([]Cell, 0, len(forward)+1+len(backward))
		for i := len(forward) - 1; i >= 0; i-- {
			line = append(line, forward[i])
		}
		line = append(line, Cell{Row: row, Col: col})
		line = append(line, backward...)
		b.winning = line
		return true
	}
	return false
}

// run collects up to ConnectN-1 consecutive cells of player starting next to (row, col)
// in direction (dr, dc), nearest first. It stops at the first gap or the board edge.
func (b *Board) run(row, col, dr, dc int, player Player) []Cell {
	var cells []Cell
	for step := 1; step < ConnectN; step++ {
		r, c := row+step*dr, col+step*dc
		if !b.inBounds(r, c) || b.cells[r*b.cols+c] != player {
			break
		}
		cells = append(cells, Cell{Row: r, Col: c})
	}
	return cells
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}
