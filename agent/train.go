package agent

import (
	"maps"
	"math"
	"slices"

	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
	last        metrics.SearchMetric
}

// NewSamplingAgent returns an agent that samples its move from the search's visit
// policy sharpened by temperature. A temperature of 0 or less always plays the most
// visited move.
func NewSamplingAgent(mcts *searcher.MCTS, temperature float64, seed uint64) Agent {
	return &samplingAgent{
		mcts:        mcts,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *samplingAgent) ChooseMove(state *game.Board) (int, error) {
	result, err := a.mcts.Search(state)
	if err != nil {
		return -1, err
	}
	a.last = result.Metric
	if a.temperature <= 0 {
		return result.Move, nil
	}
	policy := adjustTemperature(result.Policy, a.temperature)
	return sample(policy, a.rng.Float64()), nil
}

func (a *samplingAgent) LastMetric() metrics.SearchMetric {
	return a.last
}

func adjustTemperature(policy map[int]float64, temperature float64) map[int]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[int]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	if sum == 0 {
		return policy
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample walks the columns in ascending order so a given draw always maps to the same move.
func sample(policy map[int]float64, sampled float64) int {
	moves := slices.Sorted(maps.Keys(policy))
	cumulative := 0.0
	for _, move := range moves {
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return moves[len(moves)-1] // Fallback in case of rounding errors
}
