package detect

import (
	"fmt"
	"sync"

	"scrubber/internal/core/pii"
)

// Stats accumulates counters across pipeline runs for the lifetime of
// the process. Safe for concurrent use
type Stats struct {
	mu         sync.Mutex
	scans      int
	candidates int
	byDetector map[string]int
	byType     map[pii.EntityType]int
	buckets    [10]int
}

// NewStats returns zeroed counters
func NewStats() *Stats {
	return &Stats{
		byDetector: map[string]int{},
		byType:     map[pii.EntityType]int{},
	}
}

// Record folds one run's output into the counters. Merged candidates
// count once per contributing detector
func (s *Stats) Record(cands []pii.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scans++
	s.candidates += len(cands)
	for _, c := range cands {
		s.byType[c.Type]++

		if len(c.Sources) > 0 {
			for _, src := range c.Sources {
				s.byDetector[src]++
			}
		} else {
			s.byDetector[c.Source]++
		}

		b := int(c.Confidence * 10)
		if b > 9 {
			b = 9
		}
		if b < 0 {
			b = 0
		}
		s.buckets[b]++
	}
}

// Snapshot is a point-in-time copy of the counters, shaped for reporting
type Snapshot struct {
	Scans      int            `json:"scans"`
	Candidates int            `json:"candidates"`
	ByDetector map[string]int `json:"by_detector"`
	ByType     map[string]int `json:"by_type"`
	Confidence map[string]int `json:"confidence"`
}

// Snapshot copies the counters. Confidence keys are decile labels like
// "70%-79%"; empty deciles are omitted
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Scans:      s.scans,
		Candidates: s.candidates,
		ByDetector: make(map[string]int, len(s.byDetector)),
		ByType:     make(map[string]int, len(s.byType)),
		Confidence: map[string]int{},
	}
	for k, v := range s.byDetector {
		snap.ByDetector[k] = v
	}
	for k, v := range s.byType {
		snap.ByType[string(k)] = v
	}
	for i, n := range s.buckets {
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%d%%-%d%%", i*10, i*10+9)
		if i == 9 {
			label = "90%-100%"
		}
		snap.Confidence[label] = n
	}
	return snap
}

// Reset zeroes every counter
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = 0
	s.candidates = 0
	s.byDetector = map[string]int{}
	s.byType = map[pii.EntityType]int{}
	s.buckets = [10]int{}
}
