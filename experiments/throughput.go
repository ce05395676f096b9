package experiments

import (
	"time"

	"connect4/experiments/metrics"
	"connect4/game"
)

// ThroughputConfig has each time budget play itself, for the same playing strength
// and similar game length on both sides.
func ThroughputConfig() Config {
	budgets := []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 50 * time.Millisecond, 100 * time.Millisecond}

	configs := []metrics.AgentConfig{}
	matchUps := [][]int{}
	for i, budget := range budgets {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Kind: "mcts", Duration: budget, Seed: uint64(i)})
		matchUps = append(matchUps, []int{i + 1, i + 1})
	}

	return Config{
		Name:     "throughput",
		Rows:     game.DefaultRows,
		Cols:     game.DefaultCols,
		Games:    1,
		Agents:   configs,
		MatchUps: matchUps,
	}
}

// Throughput returns the mean search iterations per second of each agent id, over
// the moves it searched.
func Throughput(records []metrics.MoveRecord) map[int]float64 {
	episodes := map[int]int{}
	elapsed := map[int]time.Duration{}
	for _, record := range records {
		if record.Episodes == 0 {
			continue
		}
		episodes[record.Agent] += record.Episodes
		elapsed[record.Agent] += record.Duration
	}

	throughput := make(map[int]float64, len(episodes))
	for id, n := range episodes {
		if elapsed[id] <= 0 {
			continue
		}
		throughput[id] = float64(n) / elapsed[id].Seconds()
	}
	return throughput
}
