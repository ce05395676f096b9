package engine

import (
	"fmt"
	"io"
	"time"

	"connect4/agent"
	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
)

type Option func(e *LocalEngine)

// WithBoardSize plays on a rows x cols board instead of the standard 6x7.
func WithBoardSize(rows, cols int) Option {
	return func(e *LocalEngine) {
		e.board = game.NewBoard(rows, cols)
	}
}

// WithOutput prints every position and move to w.
func WithOutput(w io.Writer, profile termenv.Profile) Option {
	return func(e *LocalEngine) {
		e.out = w
		e.profile = profile
	}
}

// LocalEngine owns the authoritative board and alternates two in-process agents.
// The first agent plays X and moves first.
type LocalEngine struct {
	board   *game.Board
	agents  []agent.Agent
	out     io.Writer
	profile termenv.Profile
}

func NewLocalEngine(agents []agent.Agent, options ...Option) *LocalEngine {
	if len(agents) != 2 {
		panic(fmt.Sprintf("need exactly two agents, got %d", len(agents)))
	}

	e := &LocalEngine{
		board:   game.NewStandardBoard(),
		agents:  agents,
		profile: termenv.Ascii,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Board returns a copy of the authoritative board.
func (e *LocalEngine) Board() *game.Board {
	return e.board.Clone()
}

// Run executes the game loop until the board is decided.
func (e *LocalEngine) Run() (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %s is starting on a %dx%d board", e.board.Turn(), e.board.Rows(), e.board.Cols())
	if err := e.render(); err != nil {
		return game.Outcome{}, gameMetric, moveMetrics, err
	}

	for !e.board.IsTerminal() {
		player := e.board.Turn()
		index := e.board.Moves() % len(e.agents)
		current := e.agents[index]

		move, err := current.ChooseMove(e.board.Clone())
		if err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("agent %d (%s) failed to choose a move: %w", index+1, player, err)
		}
		if err := e.board.Play(move); err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, fmt.Errorf("agent %d (%s): %w", index+1, player, err)
		}

		moveMetric := metrics.MoveMetric{
			Step:   e.board.Moves(),
			Player: player,
			Column: move,
		}
		if reporter, ok := current.(agent.MetricsReporter); ok {
			moveMetric.SearchMetric = reporter.LastMetric()
		}
		moveMetrics = append(moveMetrics, moveMetric)

		log.Debug().Msgf("step %d: player %s played column %d", moveMetric.Step, player, move)
		if e.out != nil {
			fmt.Fprintf(e.out, "Player %d played in column %d\n", index+1, move)
		}
		if err := e.render(); err != nil {
			return game.Outcome{}, gameMetric, moveMetrics, err
		}
	}

	outcome := e.board.Outcome()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Outcome = outcome
	gameMetric.TotalMoves = e.board.Moves()
	gameMetric.History = e.board.History()

	log.Info().Msgf("game over after %d moves: %s", e.board.Moves(), outcome)
	if e.out != nil {
		fmt.Fprintf(e.out, "Game over. Result: %s\n", outcome)
	}

	return outcome, gameMetric, moveMetrics, nil
}

func (e *LocalEngine) render() error {
	if e.out == nil {
		return nil
	}
	return e.board.Render(e.out, e.profile)
}
