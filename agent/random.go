package agent

import (
	"connect4/game"
	"connect4/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that picks uniformly among the legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) ChooseMove(state *game.Board) (int, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return -1, searcher.ErrNoLegalMoves
	}
	return moves[a.rng.Intn(len(moves))], nil
}
