package buffer

import (
	"sync"
	"time"
)

// Load records the outcome of one dataset load.
type Load struct {
	Generation uint64        `json:"generation"`
	Source     string        `json:"source"`
	At         time.Time     `json:"at"`
	Rows       int           `json:"rows"`
	Duration   time.Duration `json:"duration"`
	Err        string        `json:"error,omitempty"`
	// Stale is set when a newer load was published first.
	Stale bool `json:"stale,omitempty"`
}

// History is a fixed-capacity circular buffer of loads.
// When full, the oldest loads are silently evicted.
// All operations are goroutine-safe.
type History struct {
	mu       sync.RWMutex
	loads    []Load
	head     int // next write position
	count    int
	capacity int
	dropped  uint64
}

// NewHistory creates a history with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 32
	}
	return &History{
		loads:    make([]Load, capacity),
		capacity: capacity,
	}
}

// Push adds a load. If full, the oldest load is evicted.
func (h *History) Push(l Load) {
	h.mu.Lock()
	h.loads[h.head] = l
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	} else {
		h.dropped++
	}
	h.mu.Unlock()
}

// Snapshot returns a copy of the buffered loads, oldest first.
func (h *History) Snapshot() []Load {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Load, h.count)
	if h.count < h.capacity {
		copy(result, h.loads[:h.count])
	} else {
		start := h.head % h.capacity
		n := copy(result, h.loads[start:])
		copy(result[n:], h.loads[:start])
	}
	return result
}

// Last returns the most recent load.
func (h *History) Last() (Load, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.count == 0 {
		return Load{}, false
	}
	return h.loads[(h.head-1+h.capacity)%h.capacity], true
}

// Len returns the number of buffered loads.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Dropped returns the number of evicted loads.
func (h *History) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return h.capacity
}
