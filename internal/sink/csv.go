package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Geun-Oh/uxlog/internal/monitor"
)

// FunnelHeader is the header row written by FunnelCSVSink.
var FunnelHeader = []string{"key", "name", "mission", "value", "percent"}

// FunnelCSVSink writes the cross-mission funnel as CSV, one row per step.
type FunnelCSVSink struct {
	w *csv.Writer
}

// NewFunnelCSVSink creates a funnel CSV sink writing to the given writer.
func NewFunnelCSVSink(w io.Writer) *FunnelCSVSink {
	if w == nil {
		w = os.Stdout
	}
	return &FunnelCSVSink{w: csv.NewWriter(w)}
}

// Write emits the header and one row per funnel step.
func (s *FunnelCSVSink) Write(r *monitor.Report) error {
	if err := s.w.Write(FunnelHeader); err != nil {
		return fmt.Errorf("sink: write funnel header: %w", err)
	}
	for _, st := range r.Overall.Funnel {
		rec := []string{st.Key, st.Name, st.MissionID, strconv.Itoa(st.Value), Round1(st.Percent)}
		if err := s.w.Write(rec); err != nil {
			return fmt.Errorf("sink: write funnel row: %w", err)
		}
	}
	return s.Flush()
}

// Flush writes buffered rows.
func (s *FunnelCSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// Close flushes the writer.
func (s *FunnelCSVSink) Close() error { return s.Flush() }

// Name returns the sink identifier.
func (s *FunnelCSVSink) Name() string { return "funnel-csv" }
