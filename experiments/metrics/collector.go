package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// DecisionMetric is one AI poll that produced a move.
type DecisionMetric struct {
	Tick       uint64
	Team       string
	Strategy   string
	Branch     string
	Candidates int
	Score      float64
	Duration   time.Duration
	Accepted   bool
	Reason     string // rejection reason when not accepted
}

type GameMetric struct {
	Red        string // strategy name
	Black      string // strategy name
	Winner     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration // wall clock
	Ticks      uint64
	Simulated  float64 // seconds of simulated time
	Moves      int
	Rejections int
	Kills      int
}

type Collector interface {
	Start(red, black string)
	AddMove()
	AddRejection()
	AddKill()
	AddDecision(d DecisionMetric)
	Complete(winner string, ticks uint64, simulated float64) (GameMetric, []DecisionMetric)
}

type collector struct {
	red        string
	black      string
	startTime  time.Time
	moves      atomic.Int32
	rejections atomic.Int32
	kills      atomic.Int32

	mu        sync.Mutex
	decisions []DecisionMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(red, black string) {
	m.startTime = time.Now()
	m.red = red
	m.black = black
	m.moves.Store(0)
	m.rejections.Store(0)
	m.kills.Store(0)

	m.mu.Lock()
	m.decisions = nil
	m.mu.Unlock()
}

func (m *collector) AddMove() {
	m.moves.Add(1)
}

func (m *collector) AddRejection() {
	m.rejections.Add(1)
}

func (m *collector) AddKill() {
	m.kills.Add(1)
}

func (m *collector) AddDecision(d DecisionMetric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, d)
}

func (m *collector) Complete(winner string, ticks uint64, simulated float64) (GameMetric, []DecisionMetric) {
	end := time.Now()

	m.mu.Lock()
	decisions := m.decisions
	m.decisions = nil
	m.mu.Unlock()

	return GameMetric{
		Red:        m.red,
		Black:      m.black,
		Winner:     winner,
		StartTime:  m.startTime,
		EndTime:    end,
		Duration:   end.Sub(m.startTime),
		Ticks:      ticks,
		Simulated:  simulated,
		Moves:      int(m.moves.Load()),
		Rejections: int(m.rejections.Load()),
		Kills:      int(m.kills.Load()),
	}, decisions
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(red, black string)    {}
func (m *dummyCollector) AddMove()                   {}
func (m *dummyCollector) AddRejection()              {}
func (m *dummyCollector) AddKill()                   {}
func (m *dummyCollector) AddDecision(DecisionMetric) {}
func (m *dummyCollector) Complete(string, uint64, float64) (GameMetric, []DecisionMetric) {
	return GameMetric{}, nil
}
