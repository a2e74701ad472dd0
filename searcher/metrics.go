package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes the work done by one Plan call.
type SearchMetric struct {
	Goroutines int
	Depth      int
	Duration   time.Duration
	Episodes   int
	Terminals  int // Episodes ending in a collision or loss
}

type Collector interface {
	Start(goroutines, depth int)
	AddEpisode()
	AddTerminal()
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	depth      int
	startTime  time.Time
	episodes   atomic.Int32
	terminals  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, depth int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.depth = depth
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddTerminal() {
	m.terminals.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines: m.goroutines,
		Depth:      m.depth,
		Duration:   time.Since(m.startTime),
		Episodes:   int(m.episodes.Load()),
		Terminals:  int(m.terminals.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, depth int) {}
func (m *dummyCollector) AddEpisode()                 {}
func (m *dummyCollector) AddTerminal()                {}
func (m *dummyCollector) Complete() SearchMetric      { return SearchMetric{} }
