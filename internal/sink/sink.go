// Package sink defines the Sink interface for report output.
package sink

import (
	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// Sink receives analysis reports and writes them to an output destination.
type Sink interface {
	// Write outputs one report.
	Write(r *monitor.Report) error

	// Flush ensures all buffered output is written.
	Flush() error

	// Close releases resources held by the sink.
	Close() error

	// Name returns a human-readable identifier for this sink.
	Name() string
}
