package metrics

import (
	"sync/atomic"
	"time"

	"connect4/game"
)

type SearchMetric struct {
	Budget       time.Duration
	Duration     time.Duration
	Exploration  float64
	Episodes     int
	Rollouts     int // Iterations that ended in a random playout
	TerminalHits int // Iterations that reached an already decided position
	TreeSize     int // Nodes created, root included
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Column int
	SearchMetric
}

type GameMetric struct {
	Outcome    game.Outcome
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	History    []int // Columns played in order
}

type Collector interface {
	Start(budget time.Duration, exploration float64)
	AddEpisode()
	AddRollout()
	AddTerminalHit()
	AddNodes(n int)
	Complete() SearchMetric
}

type collector struct {
	budget       time.Duration
	exploration  float64
	startTime    time.Time
	episodes     atomic.Int32
	rollouts     atomic.Int32
	terminalHits atomic.Int32
	nodes        atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget time.Duration, exploration float64) {
	m.startTime = time.Now()
	m.budget = budget
	m.exploration = exploration
	m.episodes.Store(0)
	m.rollouts.Store(0)
	m.terminalHits.Store(0)
	m.nodes.Store(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddTerminalHit() {
	m.terminalHits.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int32(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Duration:     time.Since(m.startTime),
		Exploration:  m.exploration,
		Episodes:     int(m.episodes.Load()),
		Rollouts:     int(m.rollouts.Load()),
		TerminalHits: int(m.terminalHits.Load()),
		TreeSize:     int(m.nodes.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget time.Duration, exploration float64) {}
func (m *dummyCollector) AddEpisode()                                     {}
func (m *dummyCollector) AddRollout()                                     {}
func (m *dummyCollector) AddTerminalHit()                                 {}
func (m *dummyCollector) AddNodes(n int)                                  {}
func (m *dummyCollector) Complete() SearchMetric                          { return SearchMetric{} }
