package experiments

import (
	"errors"
	"fmt"
	"os"
	"time"

	"connect4/agent"
	"connect4/engine"
	"connect4/experiments/metrics"
	"connect4/game"
	"connect4/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

const (
	NumGames   = 20 // Per match up
	TimeBudget = 50 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// Config describes one experiment: the agents taking part and which of them play each other.
type Config struct {
	Name     string                `yaml:"name"`
	Rows     int                   `yaml:"rows"`
	Cols     int                   `yaml:"cols"`
	Games    int                   `yaml:"games"` // Per match up
	Agents   []metrics.AgentConfig `yaml:"agents"`
	MatchUps [][]int               `yaml:"matchups"` // Pairs of agent ids
}

// LoadConfig reads a YAML experiment config. Missing board dimensions and game counts fall
// back to the standard board and NumGames.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read experiment config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse experiment config %s: %w", path, err)
	}
	if config.Rows == 0 {
		config.Rows = game.DefaultRows
	}
	if config.Cols == 0 {
		config.Cols = game.DefaultCols
	}
	if config.Games == 0 {
		config.Games = NumGames
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be positive, got %d", ErrInvalidConfig, c.Games)
	}

	ids := map[int]bool{}
	for _, config := range c.Agents {
		if ids[config.ID] {
			return fmt.Errorf("%w: duplicate agent id %d", ErrInvalidConfig, config.ID)
		}
		ids[config.ID] = true
		switch config.Kind {
		case "mcts", "sampling":
			if config.Duration <= 0 && config.Episodes <= 0 {
				return fmt.Errorf("%w: agent %d: %w", ErrInvalidConfig, config.ID, searcher.ErrInvalidBudget)
			}
			if config.Exploration < 0 || config.Temperature < 0 {
				return fmt.Errorf("%w: agent %d has a negative exploration constant or temperature", ErrInvalidConfig, config.ID)
			}
		case "random":
		default:
			return fmt.Errorf("%w: agent %d has unknown kind %q", ErrInvalidConfig, config.ID, config.Kind)
		}
	}

	if len(c.MatchUps) == 0 {
		return fmt.Errorf("%w: no match ups", ErrInvalidConfig)
	}
	for _, matchUp := range c.MatchUps {
		if len(matchUp) != 2 {
			return fmt.Errorf("%w: match up %v must name two agents", ErrInvalidConfig, matchUp)
		}
		for _, id := range matchUp {
			if !ids[id] {
				return fmt.Errorf("%w: match up %v names unknown agent %d", ErrInvalidConfig, matchUp, id)
			}
		}
	}
	return nil
}

func (c Config) agent(id int) metrics.AgentConfig {
	for _, config := range c.Agents {
		if config.ID == id {
			return config
		}
	}
	panic(fmt.Sprintf("unknown agent id %d", id))
}

// DefaultConfig pits a range of exploration constants, a random agent and a sampling
// agent against the standard 1.4 agent.
func DefaultConfig() Config {
	baseline := metrics.AgentConfig{ID: 0, Kind: "mcts", Duration: TimeBudget, Exploration: searcher.DefaultExploration}
	configs := []metrics.AgentConfig{
		baseline,
		{ID: 1, Kind: "random"},
		{ID: 2, Kind: "mcts", Duration: TimeBudget, Exploration: 0.5},
		{ID: 3, Kind: "mcts", Duration: TimeBudget, Exploration: 1.0},
		{ID: 4, Kind: "mcts", Duration: TimeBudget, Exploration: 2.0},
		{ID: 5, Kind: "sampling", Duration: TimeBudget, Exploration: searcher.DefaultExploration, Temperature: 1.0},
	}

	// Each matchup pairs the baseline agent against another config
	matchUps := [][]int{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, []int{baseline.ID, config.ID})
	}

	return Config{
		Name:     "exploration",
		Rows:     game.DefaultRows,
		Cols:     game.DefaultCols,
		Games:    NumGames,
		Agents:   configs,
		MatchUps: matchUps,
	}
}

// Preset returns a built-in experiment by name.
func Preset(name string) (Config, bool) {
	switch name {
	case "exploration":
		return DefaultConfig(), true
	case "throughput":
		return ThroughputConfig(), true
	default:
		return Config{}, false
	}
}

// Run plays every match up and writes the records under root. It returns the directory
// holding the CSV files.
func Run(config Config, root string) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	gameRecords, moveRecords, err := play(config)
	if err != nil {
		return "", err
	}
	for id, rate := range Throughput(moveRecords) {
		log.Info().Msgf("agent %d searched %.0f iterations per second", id, rate)
	}

	writer, err := metrics.NewWriter(root, config.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

func play(config Config) ([]metrics.GameRecord, []metrics.MoveRecord, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", config.Name)

	for mi, matchUp := range config.MatchUps {
		config1 := config.agent(matchUp[0])
		config2 := config.agent(matchUp[1])

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(config.MatchUps), config1, config2)

		for i := 0; i < config.Games; i++ {
			// Alternate the starting agent
			first, second := config1, config2
			if i%2 == 1 {
				first, second = config2, config1
			}

			count++
			outcome, gameMetric, moveMetrics, err := runGame(config, first, second, uint64(count))
			if err != nil {
				return nil, nil, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     first.ID,
				Agent2:     second.ID,
				GameMetric: gameMetric,
			})
			for j, mm := range moveMetrics {
				id := first.ID
				if j%2 == 1 {
					id = second.ID
				}
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					Agent:      id,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d of %d: %s", mi+1, len(config.MatchUps), i+1, config.Games, outcome)
		}
	}

	log.Info().Msgf("completed %s experiment", config.Name)
	return gameRecords, moveRecords, nil
}

// runGame plays first against second on a fresh board. The game number offsets every
// seed, so repeated games differ but an experiment can be replayed.
func runGame(config Config, first, second metrics.AgentConfig, number uint64) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := []agent.Agent{
		NewAgent(first, 2*number),
		NewAgent(second, 2*number+1),
	}
	e := engine.NewLocalEngine(agents, engine.WithBoardSize(config.Rows, config.Cols))
	return e.Run()
}

// NewAgent builds the agent described by config. Unknown kinds play randomly.
// Every agent derives its randomness from Seed+offset.
func NewAgent(config metrics.AgentConfig, offset uint64) agent.Agent {
	seed := config.Seed + offset
	switch config.Kind {
	case "mcts":
		return agent.NewMCTSAgent(createMCTS(config, rand.New(rand.NewSource(seed))))
	case "sampling":
		return agent.NewSamplingAgent(createMCTS(config, rand.New(rand.NewSource(seed))), config.Temperature, seed+1)
	default:
		return agent.NewRandomAgent(seed)
	}
}

func createMCTS(config metrics.AgentConfig, rng *rand.Rand) *searcher.MCTS {
	options := []searcher.Option{}

	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExplorationConstant(config.Exploration))
	}

	options = append(options, searcher.WithRand(rng), searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}
