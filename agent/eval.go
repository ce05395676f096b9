package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
	last metrics.SearchMetric
}

// NewMCTSAgent returns an agent that plays the most visited move of each search.
func NewMCTSAgent(mcts *searcher.MCTS) Agent {
	return &evaluationAgent{mcts: mcts}
}

func (a *evaluationAgent) ChooseMove(state *game.Board) (int, error) {
	result, err := a.mcts.Search(state)
	if err != nil {
		return -1, err
	}
	a.last = result.Metric
	return result.Move, nil
}

func (a *evaluationAgent) LastMetric() metrics.SearchMetric {
	return a.last
}
