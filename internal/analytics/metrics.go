package analytics

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Metrics aggregates game_judged events.
type Metrics struct {
	mu            sync.Mutex
	outcomeCounts map[string]int
	viaCounts     map[string]int
	runsPerDay    map[string]int
	totalMoves    int
	totalRuns     int
}

// Summary is a point-in-time copy of Metrics.
type Summary struct {
	TotalRuns     int
	AverageMoves  float64
	OutcomeCounts map[string]int
	ViaCounts     map[string]int
	RunsPerDay    map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{
		outcomeCounts: make(map[string]int),
		viaCounts:     make(map[string]int),
		runsPerDay:    make(map[string]int),
	}
}

// Record adds one event. Events other than game_judged are ignored.
func (m *Metrics) Record(e Event) {
	if e.Event != EventGameJudged {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns++
	if outcome, ok := e.Payload["outcome"].(string); ok && outcome != "" {
		m.outcomeCounts[outcome]++
	}
	if via, ok := e.Payload["via"].(string); ok && via != "" {
		m.viaCounts[via]++
	}
	// JSON numbers decode as float64.
	switch moves := e.Payload["moves"].(type) {
	case float64:
		m.totalMoves += int(moves)
	case int:
		m.totalMoves += moves
	}
	m.runsPerDay[e.Timestamp.Format(time.DateOnly)]++
}

func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Summary{
		TotalRuns:     m.totalRuns,
		OutcomeCounts: copyCounts(m.outcomeCounts),
		ViaCounts:     copyCounts(m.viaCounts),
		RunsPerDay:    copyCounts(m.runsPerDay),
	}
	if m.totalRuns > 0 {
		s.AverageMoves = float64(m.totalMoves) / float64(m.totalRuns)
	}
	return s
}

func (m *Metrics) PrintStats() {
	s := m.Summary()
	log.Printf("=== ANALYTICS SUMMARY ===")
	log.Printf("Total Runs: %d", s.TotalRuns)
	log.Printf("Average Accepted Moves: %.2f", s.AverageMoves)
	log.Printf("Outcomes: %v", s.OutcomeCounts)
	log.Printf("Runs By Front-end: %v", s.ViaCounts)
	log.Printf("Runs Per Day: %v", s.RunsPerDay)
	log.Printf("========================")
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
