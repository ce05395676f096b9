package searcher

import (
	"math"

	"connect4/game"
)

// Hyperparameters for MCTS

const DefaultExploration = 1.4 // Exploration constant c in UCB1

// Rewards from the perspective of the player who moved into a node
const WIN = 1.0
const DRAW = 0.5
const LOSS = 0.0

// ucb1 = wins/visits + c*sqrt(ln(N)/visits). Unvisited children and children of
// an unvisited parent score +Inf so every child is tried before any is revisited.
func ucb1(wins float64, visits int, c float64, parentVisits int) float64 {
	if visits == 0 || parentVisits == 0 {
		return math.Inf(1)
	}

	return wins/float64(visits) + c*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
}

func reward(outcome game.Outcome, player game.Player) float64 {
	switch {
	case outcome.Status == game.Draw:
		return DRAW
	case outcome.Status == game.Win && outcome.Winner == player:
		return WIN
	default:
		return LOSS
	}
}
