// Package pipeline orchestrates Source → Parse → Filter → Analyze → Sink processing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/core"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/metrics"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/parser"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/Geun-Oh/uxlog/internal/source"
)

var (
	// ErrNoSource is returned when no input was chosen.
	ErrNoSource = errors.New("pipeline: no source")
	// ErrNoData is returned when the input has no header line.
	ErrNoData = errors.New("pipeline: no data")
	// ErrEmptyData is returned when the input has a header but no data rows.
	ErrEmptyData = errors.New("pipeline: header without rows")
	// ErrStale is returned when a newer load started while this one ran.
	ErrStale = errors.New("pipeline: superseded by a newer load")
)

// Config holds pipeline configuration.
type Config struct {
	Source   source.Source
	Registry *mission.Registry // nil means mission.Default()
	Filters  *filter.Chain     // optional row filters applied before analysis
	Sinks    []sink.Sink
	Stats    *monitor.Stats
	// Slot, when set, receives the report; loads superseded by a newer one
	// return ErrStale.
	Slot      *buffer.Slot
	History   *buffer.History
	ShowStats bool
}

// Analyze parses CSV text and analyzes it. It fails only with ErrNoData or
// ErrEmptyData.
func Analyze(text string, reg *mission.Registry, filters *filter.Chain) (*monitor.Report, error) {
	return analyzeTable(parser.Parse(text), reg, filters)
}

func analyzeTable(t *parser.Table, reg *mission.Registry, filters *filter.Chain) (*monitor.Report, error) {
	if reg == nil {
		reg = mission.Default()
	}
	if !t.HasHeader() {
		return nil, ErrNoData
	}
	if t.Empty() {
		return nil, ErrEmptyData
	}

	rows := core.Decode(t)
	if filters != nil && filters.Len() > 0 {
		rows = filter.Apply(rows, filters)
	}
	return core.Analyze(rows, reg), nil
}

// Run loads the source once, analyzes it and writes the report to every sink.
// Every sink is flushed and closed before Run returns, on success or failure.
// Only source read failures and sink failures are returned as wrapped errors;
// unusable input yields ErrNoData or ErrEmptyData.
func Run(ctx context.Context, cfg *Config) (*monitor.Report, error) {
	defer closeSinks(cfg.Sinks)
	if cfg.Source == nil {
		return nil, ErrNoSource
	}
	if cfg.Stats == nil {
		cfg.Stats = monitor.NewStats()
	}
	log := logging.With().Str("component", "pipeline").Str("source", cfg.Source.Name()).Logger()

	var ticket uint64
	if cfg.Slot != nil {
		ticket = cfg.Slot.Begin()
	}
	start := time.Now()
	kind := sourceKind(cfg.Source.Name())

	report, err := load(ctx, cfg)
	elapsed := time.Since(start)
	rec := buffer.Load{Generation: ticket, Source: cfg.Source.Name(), At: start, Duration: elapsed}

	if err != nil {
		metrics.RecordLoad(kind, resultOf(err), elapsed, 0)
		rec.Err = err.Error()
		if cfg.History != nil {
			cfg.History.Push(rec)
		}
		log.Warn().Err(err).Uint64("generation", ticket).Msg("load failed")
		return nil, err
	}

	report.Source = cfg.Source.Name()
	report.GeneratedAt = start
	rec.Rows = report.Rows
	metrics.RecordLoad(kind, metrics.ResultOK, elapsed, report.Rows)
	for _, w := range report.Warnings {
		metrics.RecordWarning(w.Rule, w.Count)
	}

	if cfg.Slot != nil && !cfg.Slot.Commit(ticket, report) {
		metrics.StaleLoads.Inc()
		rec.Stale = true
		if cfg.History != nil {
			cfg.History.Push(rec)
		}
		log.Debug().Uint64("generation", ticket).Msg("discarding stale load")
		return nil, ErrStale
	}
	if cfg.History != nil {
		cfg.History.Push(rec)
	}
	log.Info().
		Uint64("generation", ticket).
		Int("rows", report.Rows).
		Int("sessions", report.Overall.TotalSessions).
		Dur("took", elapsed).
		Msg("dataset analyzed")

	for _, s := range cfg.Sinks {
		if err := s.Write(report); err != nil {
			return report, fmt.Errorf("pipeline: write to %s: %w", s.Name(), err)
		}
	}

	if cfg.ShowStats {
		fmt.Println()
		fmt.Println(cfg.Stats.Summary())
	}

	return report, nil
}

// closeSinks flushes and closes every sink, whether or not the run wrote to it.
func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		_ = s.Flush()
		_ = s.Close()
	}
}

func load(ctx context.Context, cfg *Config) (*monitor.Report, error) {
	data, err := cfg.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load %s: %w", cfg.Source.Name(), err)
	}

	t := parser.Parse(string(data))
	cfg.Stats.RecordLoad()
	cfg.Stats.RecordRows(t.Len())

	report, err := analyzeTable(t, cfg.Registry, cfg.Filters)
	if err != nil {
		return nil, err
	}
	cfg.Stats.RecordKept(report.Rows)
	return report, nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrNoData):
		return metrics.ResultNoData
	case errors.Is(err, ErrEmptyData):
		return metrics.ResultEmptyData
	default:
		return metrics.ResultError
	}
}

// sourceKind is the prefix of a source name, e.g. "file" for "file:/tmp/x.csv".
func sourceKind(name string) string {
	if i := strings.IndexByte(name, ':'); i > 0 {
		return name[:i]
	}
	return name
}
