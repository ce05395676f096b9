package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"connect4/agent"
	"connect4/engine"
	"connect4/experiments"
	"connect4/game"
	"connect4/searcher"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultDuration    = time.Second
	DefaultTemperature = 1.0
	DefaultOutDir      = "results"
)

var ErrNegativeParameter = errors.New("exploration constant and temperature must not be negative")

func main() {
	mode := flag.String("mode", "play", "play a single game or run an experiment (play|experiment)")
	p1 := flag.String("p1", "human", "first player, plays X (mcts|sampling|random|human)")
	p2 := flag.String("p2", "mcts", "second player, plays O (mcts|sampling|random|human)")
	d1 := flag.Duration("d1", DefaultDuration, "search time per move of the first player")
	d2 := flag.Duration("d2", DefaultDuration, "search time per move of the second player")
	exploration := flag.Float64("c", searcher.DefaultExploration, "UCB1 exploration constant")
	temperature := flag.Float64("t", DefaultTemperature, "sampling temperature, 0 plays the most visited move")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	rows := flag.Int("rows", game.DefaultRows, "board rows")
	cols := flag.Int("cols", game.DefaultCols, "board columns")
	configPath := flag.String("config", "exploration", "experiment YAML config or preset (exploration|throughput)")
	out := flag.String("out", DefaultOutDir, "directory for experiment records")
	level := flag.String("log-level", "info", "log level (debug|info|warn|error)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	logLevel, err := zerolog.ParseLevel(*level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(logLevel)

	switch *mode {
	case "play":
		if *rows < 1 || *cols < 1 {
			log.Fatal().Msgf("board must be at least 1x1, got %dx%d", *rows, *cols)
		}
		factory := newAgentFactory(os.Stdin, os.Stdout, *exploration, *temperature)
		agents := make([]agent.Agent, 2)
		for i, p := range []struct {
			kind     string
			duration time.Duration
		}{{*p1, *d1}, {*p2, *d2}} {
			agents[i], err = factory.build(p.kind, p.duration, *seed+uint64(i))
			if err != nil {
				log.Fatal().Err(err).Msgf("invalid player %d", i+1)
			}
		}

		e := engine.NewLocalEngine(agents,
			engine.WithBoardSize(*rows, *cols),
			engine.WithOutput(os.Stdout, termenv.EnvColorProfile()),
		)
		if _, _, _, err := e.Run(); err != nil {
			log.Fatal().Err(err).Msg("game aborted")
		}

	case "experiment":
		config, err := loadExperiment(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load experiment")
		}
		dir, err := experiments.Run(config, *out)
		if err != nil {
			log.Fatal().Err(err).Msgf("experiment %s failed", config.Name)
		}
		fmt.Printf("Experiment records written to %s\n", dir)

	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

// loadExperiment resolves a preset name first, then falls back to a YAML file.
func loadExperiment(nameOrPath string) (experiments.Config, error) {
	if config, ok := experiments.Preset(nameOrPath); ok {
		return config, nil
	}
	return experiments.LoadConfig(nameOrPath)
}

// agentFactory builds the players of an interactive game. Human players share one
// agent so that both read from the same buffered input.
type agentFactory struct {
	in          io.Reader
	out         io.Writer
	exploration float64
	temperature float64
	human       agent.Agent
}

func newAgentFactory(in io.Reader, out io.Writer, exploration, temperature float64) *agentFactory {
	return &agentFactory{
		in:          in,
		out:         out,
		exploration: exploration,
		temperature: temperature,
	}
}

func (f *agentFactory) build(kind string, duration time.Duration, seed uint64) (agent.Agent, error) {
	switch kind {
	case "mcts", "sampling":
		if f.exploration < 0 || f.temperature < 0 {
			return nil, fmt.Errorf("%w: c=%g t=%g", ErrNegativeParameter, f.exploration, f.temperature)
		}
		mcts := searcher.NewMCTS(
			searcher.WithDuration(duration),
			searcher.WithExplorationConstant(f.exploration),
			searcher.WithSeed(seed),
		)
		if kind == "sampling" {
			return agent.NewSamplingAgent(mcts, f.temperature, seed), nil
		}
		return agent.NewMCTSAgent(mcts), nil
	case "random":
		return agent.NewRandomAgent(seed), nil
	case "human":
		if f.human == nil {
			f.human = agent.NewHumanAgent(f.in, f.out)
		}
		return f.human, nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}
