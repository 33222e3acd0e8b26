package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Workers    int
	Iterations int // Requested playout budget
	PerBatch   int // Playouts per batch after truncation
	Batches    int
	Playouts   int
	Duration   time.Duration
}

type MoveMetric struct {
	Step  int
	Move  string
	Score int64 // Game score after the move
	SearchMetric
}

type GameMetric struct {
	Seed       uint64
	Score      int64
	MaxTile    int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Fallbacks  int // Recommended moves that changed nothing
}

// AgentConfig describes one advisor setup in an experiment.
type AgentConfig struct {
	ID         int
	Workers    int
	Iterations int
	MaxWorkers int
}

// Collector counts search work. Add* methods are safe for concurrent use.
type Collector interface {
	Start(workers, iterations, perBatch int)
	AddBatch()
	AddPlayout()
	Complete() SearchMetric
}

type collector struct {
	workers    int
	iterations int
	perBatch   int
	startTime  time.Time
	batches    atomic.Int32
	playouts   atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(workers, iterations, perBatch int) {
	m.startTime = time.Now()
	m.workers = workers
	m.iterations = iterations
	m.perBatch = perBatch
	m.batches.Store(0)
	m.playouts.Store(0)
}

func (m *collector) AddBatch() {
	m.batches.Add(1)
}

func (m *collector) AddPlayout() {
	m.playouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Workers:    m.workers,
		Iterations: m.iterations,
		PerBatch:   m.perBatch,
		Batches:    int(m.batches.Load()),
		Playouts:   int(m.playouts.Load()),
		Duration:   time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers, iterations, perBatch int) {}
func (m *dummyCollector) AddBatch()                                {}
func (m *dummyCollector) AddPlayout()                              {}
func (m *dummyCollector) Complete() SearchMetric                   { return SearchMetric{} }
