package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth       int
	Pruning     bool
	Duration    time.Duration
	Nodes       int
	Evaluations int
	Cutoffs     int
	Score       float64 // backed-up value of the chosen move
}

type MoveMetric struct {
	Step   int
	Agent  int
	Action string
	SearchMetric
}

type GameMetric struct {
	Winner     string // "red", "blue" or "" on a tie
	Score      int    // red minus blue
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(depth int, pruning bool)
	AddNode()
	AddEvaluation()
	AddCutoff()
	Complete(score float64) SearchMetric
}

type collector struct {
	depth       int
	pruning     bool
	startTime   time.Time
	nodes       atomic.Int64
	evaluations atomic.Int64
	cutoffs     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth int, pruning bool) {
	m.startTime = time.Now()
	m.depth = depth
	m.pruning = pruning
	m.nodes.Store(0)
	m.evaluations.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete(score float64) SearchMetric {
	return SearchMetric{
		Depth:       m.depth,
		Pruning:     m.pruning,
		Duration:    time.Since(m.startTime),
		Nodes:       int(m.nodes.Load()),
		Evaluations: int(m.evaluations.Load()),
		Cutoffs:     int(m.cutoffs.Load()),
		Score:       score,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int, pruning bool)       {}
func (m *dummyCollector) AddNode()                            {}
func (m *dummyCollector) AddEvaluation()                      {}
func (m *dummyCollector) AddCutoff()                          {}
func (m *dummyCollector) Complete(score float64) SearchMetric { return SearchMetric{} }
