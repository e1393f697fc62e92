// Package monitor computes mission analytics from parsed rows and tracks
// processing statistics for the pipeline.
package monitor

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Stats collects pipeline processing counters in a lock-free manner.
type Stats struct {
	totalRows atomic.Uint64
	keptRows  atomic.Uint64
	loads     atomic.Uint64
	startTime time.Time
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
	}
}

// RecordRows adds n decoded rows to the total.
func (s *Stats) RecordRows(n int) {
	s.totalRows.Add(uint64(n))
}

// RecordKept adds n rows that passed the row filters.
func (s *Stats) RecordKept(n int) {
	s.keptRows.Add(uint64(n))
}

// RecordLoad counts one completed load of the input.
func (s *Stats) RecordLoad() {
	s.loads.Add(1)
}

// Total returns the number of decoded rows.
func (s *Stats) Total() uint64 {
	return s.totalRows.Load()
}

// Kept returns the number of rows that reached analysis.
func (s *Stats) Kept() uint64 {
	return s.keptRows.Load()
}

// Loads returns the number of completed loads.
func (s *Stats) Loads() uint64 {
	return s.loads.Load()
}

// Elapsed returns the time since monitoring started.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// Rate returns decoded rows per second.
func (s *Stats) Rate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.Total()) / elapsed
}

// Summary returns a formatted summary string.
func (s *Stats) Summary() string {
	elapsed := s.Elapsed()
	total := s.Total()
	kept := s.Kept()

	keptRate := float64(0)
	if total > 0 {
		keptRate = float64(kept) / float64(total) * 100
	}

	return fmt.Sprintf(
		"── Summary ──\n"+
			"  Loads:         %d\n"+
			"  Total rows:    %d\n"+
			"  Analyzed rows: %d (%.1f%%)\n"+
			"  Duration:      %s\n"+
			"  Throughput:    %.0f rows/s\n"+
			"─────────────",
		s.Loads(), total, kept, keptRate,
		elapsed.Round(time.Millisecond),
		s.Rate(),
	)
}
