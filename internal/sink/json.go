package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/goccy/go-json"
)

// JSONSink writes each report as one JSON document.
type JSONSink struct {
	w   io.Writer
	enc *json.Encoder
}

// NewJSONSink creates a JSON sink writing to the given writer.
// If pretty is true, documents are indented.
func NewJSONSink(w io.Writer, pretty bool) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &JSONSink{w: w, enc: enc}
}

// Write serializes the report view.
func (s *JSONSink) Write(r *monitor.Report) error {
	if err := s.enc.Encode(NewView(r)); err != nil {
		return fmt.Errorf("sink: encode report: %w", err)
	}
	return nil
}

// Flush is a no-op for JSON sink.
func (s *JSONSink) Flush() error { return nil }

// Close is a no-op for JSON sink.
func (s *JSONSink) Close() error { return nil }

// Name returns the sink identifier.
func (s *JSONSink) Name() string { return "json" }
