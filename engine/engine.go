package engine

import (
	"connect4/experiments/metrics"
	"connect4/game"
)

type Engine interface {
	// Run plays a game until it is won or drawn
	Run() (outcome game.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
