package game

import (
	"errors"
	"fmt"
)

const (
	DefaultRows = 6
	DefaultCols = 7
	// Stones in a row needed to win
	ConnectN = 4
)

// Player is the content of a board cell: empty or a player's stone.
type Player int8

const (
	Empty Player = iota
	PlayerA
	PlayerB
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Symbol is the marker drawn on the board for this player.
func (p Player) Symbol() string {
	switch p {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	default:
		return " "
	}
}

func (p Player) String() string {
	switch p {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	default:
		return "empty"
	}
}

type Status int

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Outcome of a game. Winner is only meaningful when Status is Win.
type Outcome struct {
	Status Status
	Winner Player
}

func Won(p Player) Outcome {
	return Outcome{Status: Win, Winner: p}
}

func Drawn() Outcome {
	return Outcome{Status: Draw}
}

func (o Outcome) IsTerminal() bool {
	return o.Status != InProgress
}

func (o Outcome) String() string {
	switch o.Status {
	case Win:
		return fmt.Sprintf("win(%s)", o.Winner)
	case Draw:
		return "draw"
	default:
		return "in progress"
	}
}

// Cell addresses a board position. Row 0 is the bottom row.
type Cell struct {
	Row int
	Col int
}

var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError reports a rejected move. It matches ErrIllegalMove with errors.Is.
type IllegalMoveError struct {
	Column int
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move in column %d: %s", e.Column, e.Reason)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}
