package sink

import (
	"fmt"
	"os"

	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// Output formats accepted by NewFileSink.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatFunnel = "funnel-csv"
)

// FileSink writes reports to a file through an inner formatter.
type FileSink struct {
	inner Sink
	file  *os.File
}

// NewFileSink creates a sink that writes to the given file path, truncating it.
// The format parameter selects the inner formatter: "json", "funnel-csv" or "text" (default).
func NewFileSink(path string, format string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}

	var inner Sink
	switch format {
	case FormatJSON:
		inner = NewJSONSink(f, true)
	case FormatFunnel:
		inner = NewFunnelCSVSink(f)
	default:
		inner = NewTerminalSink(f, false)
	}

	return &FileSink{inner: inner, file: f}, nil
}

// Write delegates to the inner sink.
func (s *FileSink) Write(r *monitor.Report) error {
	return s.inner.Write(r)
}

// Flush flushes the inner sink and syncs the file to disk.
func (s *FileSink) Flush() error {
	if err := s.inner.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

// Name returns the sink identifier.
func (s *FileSink) Name() string {
	return "file:" + s.file.Name()
}
