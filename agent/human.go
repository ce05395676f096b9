package agent

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/game"
	"connect4/searcher"
)

var ErrNoInput = errors.New("no more input")

type humanAgent struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewHumanAgent returns an agent that reads zero-indexed columns, one per line, from in
// and prompts on out until it gets a legal one.
func NewHumanAgent(in io.Reader, out io.Writer) Agent {
	return &humanAgent{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (a *humanAgent) ChooseMove(state *game.Board) (int, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return -1, searcher.ErrNoLegalMoves
	}

	fmt.Fprintf(a.out, "Player %s, choose a column %v: ", state.Turn(), moves)
	for {
		if !a.in.Scan() {
			if err := a.in.Err(); err != nil {
				return -1, fmt.Errorf("reading move: %w", err)
			}
			return -1, ErrNoInput
		}

		line := strings.TrimSpace(a.in.Text())
		col, err := strconv.Atoi(line)
		switch {
		case err != nil:
			fmt.Fprintf(a.out, "%q is not a column number, choose one of %v: ", line, moves)
		case !state.IsLegal(col):
			fmt.Fprintf(a.out, "Sorry, %d is invalid, choose one of %v: ", col, moves)
		default:
			return col, nil
		}
	}
}
