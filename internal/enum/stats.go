package enum

import (
	"sync"
	"time"
)

// Stats tracks the outcome of every lookup in a scan.
type Stats struct {
	mu         sync.Mutex
	startTime  time.Time
	endTime    time.Time
	total      int
	processed  int
	found      int
	filtered   int
	failed     int
	duplicates int
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Total            int     `json:"total"`
	Processed        int     `json:"processed"`
	Found            int     `json:"found"`
	WildcardFiltered int     `json:"wildcard_filtered"`
	Failed           int     `json:"failed"`
	Duplicates       int     `json:"duplicates"`
	Running          bool    `json:"running"`
	DurationSeconds  float64 `json:"duration_seconds"`
	DomainsPerSecond float64 `json:"domains_per_second"`
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) Start(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Now()
	s.total = total
}

func (s *Stats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endTime = time.Now()
}

func (s *Stats) IncrementFound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	s.found++
}

func (s *Stats) IncrementFiltered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	s.filtered++
}

func (s *Stats) IncrementFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	s.failed++
}

func (s *Stats) IncrementDuplicates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	s.duplicates++
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Total:            s.total,
		Processed:        s.processed,
		Found:            s.found,
		WildcardFiltered: s.filtered,
		Failed:           s.failed,
		Duplicates:       s.duplicates,
		Running:          !s.startTime.IsZero() && s.endTime.IsZero(),
	}
	if s.startTime.IsZero() {
		return snap
	}

	end := s.endTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(s.startTime).Seconds()
	snap.DurationSeconds = elapsed
	if elapsed > 0 {
		snap.DomainsPerSecond = float64(s.processed) / elapsed
	}
	return snap
}
