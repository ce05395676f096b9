package searcher

import (
	"errors"
	"time"

	"connect4/experiments/metrics"
	"connect4/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	ErrInvalidBudget = errors.New("search budget must be a positive duration or episode count")
	ErrNoLegalMoves  = errors.New("no legal moves: game is over")
)

type Option func(mcts *MCTS)

type MCTS struct {
	duration    time.Duration
	episodes    int
	exploration float64
	rng         *rand.Rand
	metrics     metrics.Collector
}

// Result of one search from a root position.
type Result struct {
	Move   int
	Policy map[int]float64 // Visit share per column at the root
	Metric metrics.SearchMetric
}

// WithDuration sets the wall clock budget per move. The budget is checked between
// iterations, so a search may overrun it by up to one iteration.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		m.duration = duration
	}
}

// WithEpisodes runs a fixed number of iterations instead of a time budget.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		m.episodes = episodes
	}
}

// WithExplorationConstant sets c in UCB1. Negative values are logged and ignored.
func WithExplorationConstant(c float64) Option {
	return func(m *MCTS) {
		if c < 0 {
			log.Warn().Msgf("ignoring negative exploration constant %g, keeping %g", c, m.exploration)
			return
		}
		m.exploration = c
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand draws rollouts from rng, which may be shared with other consumers.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		exploration: DefaultExploration,
		rng:         rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics:     metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// ChooseMove searches from a copy of state and returns the most visited column.
func (m *MCTS) ChooseMove(state *game.Board) (int, error) {
	result, err := m.Search(state)
	if err != nil {
		return -1, err
	}
	return result.Move, nil
}

// Search builds a fresh tree rooted at a copy of state. The caller's board is never touched
// and the tree is discarded when Search returns.
func (m *MCTS) Search(state *game.Board) (Result, error) {
	if m.episodes <= 0 && m.duration <= 0 {
		return Result{}, ErrInvalidBudget
	}
	if state.IsTerminal() {
		return Result{}, ErrNoLegalMoves
	}

	root := newNode(nil, -1, state.Clone())

	m.metrics.Start(m.duration, m.exploration)
	if m.episodes > 0 {
		m.iterate(root)
	} else {
		m.countdown(root)
	}
	metric := m.metrics.Complete()

	move := root.bestMove()
	log.Debug().Msgf("player %s chose column %d after %d iterations", state.Turn(), move, root.visits)

	return Result{
		Move:   move,
		Policy: root.policy(),
		Metric: metric,
	}, nil
}

func (m *MCTS) iterate(root *node) {
	for i := 0; i < m.episodes; i++ {
		m.simulate(root)
	}
}

// countdown runs at least one iteration, then stops once the duration has elapsed.
func (m *MCTS) countdown(root *node) {
	start := time.Now()
	for {
		m.simulate(root)
		if time.Since(start) >= m.duration {
			return
		}
	}
}

func (m *MCTS) simulate(root *node) {
	leaf := selectLeaf(root, m.exploration)

	if leaf.expand() {
		m.metrics.AddNodes(len(leaf.children))
		child := leaf.selectBestChild(m.exploration)
		outcome := child.rollout(m.rng)
		m.metrics.AddRollout()
		child.backPropagate(outcome)
	} else {
		// Decided positions are scored exactly, without a playout
		m.metrics.AddTerminalHit()
		leaf.backPropagate(leaf.state.Outcome())
	}

	m.metrics.AddEpisode()
}

func selectLeaf(root *node, c float64) *node {
	n := root
	for !n.isLeaf() && !n.isTerminal() {
		n = n.selectBestChild(c)
	}
	return n
}
