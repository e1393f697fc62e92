// Package buffer holds the dataset currently on display and a short history of loads.
package buffer

import (
	"sync"

	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// Slot holds the single current report. Loads take a ticket with Begin and
// publish with Commit; only the most recently issued ticket may publish, so a
// load superseded by a newer one is never shown, even if it finishes first.
// All operations are goroutine-safe.
type Slot struct {
	mu        sync.RWMutex
	issued    uint64
	committed uint64
	report    *monitor.Report
	changed   chan struct{}
}

// NewSlot creates an empty slot.
func NewSlot() *Slot {
	return &Slot{changed: make(chan struct{})}
}

// Begin issues the ticket for a new load.
func (s *Slot) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit publishes r under ticket. It returns false, leaving the slot
// unchanged, when a newer ticket has been issued since.
func (s *Slot) Commit(ticket uint64, r *monitor.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued || ticket <= s.committed {
		return false
	}
	r.Generation = ticket
	s.committed = ticket
	s.report = r
	close(s.changed)
	s.changed = make(chan struct{})
	return true
}

// Changed returns a channel that is closed at the next successful commit.
// Callers re-read Changed after each wake-up.
func (s *Slot) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// Current returns the published report. ok is false until the first commit.
func (s *Slot) Current() (r *monitor.Report, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.report != nil
}

// Latest reports whether ticket is the most recently issued one.
func (s *Slot) Latest(ticket uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ticket == s.issued
}
