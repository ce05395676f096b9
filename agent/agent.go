package agent

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

type Agent interface {
	// ChooseMove returns the column to play. The state is the agent's own copy.
	ChooseMove(state *game.Board) (int, error)
}

// MetricsReporter is implemented by agents that search before moving.
type MetricsReporter interface {
	// LastMetric returns the metrics of the most recent ChooseMove call
	LastMetric() metrics.SearchMetric
}
