package materializer

import (
	"sync"
	"time"
)

// Stats counts materializer outcomes for the run summary.
type Stats struct {
	mutex        sync.RWMutex
	skipped      int
	written      int
	failed       int
	fallbacks    int
	bytesWritten int64
	started      time.Time
}

// Snapshot is an immutable copy of Stats.
type Snapshot struct {
	Skipped      int
	Written      int
	Failed       int
	Fallbacks    int
	BytesWritten int64
	Elapsed      time.Duration
}

func newStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) recordSkip() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.skipped++
}

func (s *Stats) recordWrite(n int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.written++
	s.bytesWritten += int64(n)
}

func (s *Stats) recordFailure() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failed++
}

func (s *Stats) recordFallback() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.fallbacks++
}

func (s *Stats) snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return Snapshot{
		Skipped:      s.skipped,
		Written:      s.written,
		Failed:       s.failed,
		Fallbacks:    s.fallbacks,
		BytesWritten: s.bytesWritten,
		Elapsed:      time.Since(s.started),
	}
}

// Total is the number of artifacts the run looked at.
func (s Snapshot) Total() int {
	return s.Skipped + s.Written + s.Failed
}
