package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/pipeline"
	"github.com/Geun-Oh/uxlog/internal/source"
	tea "github.com/charmbracelet/bubbletea"
)

// RunConfig holds configuration for the dashboard.
type RunConfig struct {
	Source   source.Source
	Registry *mission.Registry
	Filters  *filter.Chain
	Stats    *monitor.Stats
	Slot     *buffer.Slot
	History  *buffer.History
	// WatchPath, when set, reloads the dataset whenever the file changes.
	WatchPath string
	Debounce  time.Duration
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg.Source == nil {
		return pipeline.ErrNoSource
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Stats == nil {
		cfg.Stats = monitor.NewStats()
	}
	if cfg.Slot == nil {
		cfg.Slot = buffer.NewSlot()
	}
	if cfg.History == nil {
		cfg.History = buffer.NewHistory(0)
	}

	triggers := make(chan struct{}, 1)
	trigger := func() {
		select {
		case triggers <- struct{}{}:
		default:
		}
	}

	model := NewModel(cfg.Stats, cfg.History, cfg.Source.Name(), trigger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	var changes <-chan struct{}
	if cfg.WatchPath != "" {
		ch, err := source.NewWatcher(cfg.WatchPath, cfg.Debounce).Watch(ctx)
		if err != nil {
			return fmt.Errorf("tui: watch: %w", err)
		}
		changes = ch
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop(ctx, cfg, program, triggers, changes, &wg)
	}()

	trigger()
	_, err := program.Run()

	cancel()
	wg.Wait()

	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// loop starts a load for every trigger and file change. Loads run
// concurrently; the slot keeps only the newest one.
func loop(ctx context.Context, cfg *RunConfig, p *tea.Program, triggers, changes <-chan struct{}, wg *sync.WaitGroup) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-triggers:
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
		}
		p.Send(LoadingMsg{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if msg := load(ctx, cfg); msg != nil {
				p.Send(msg)
			}
		}()
	}
}

// load runs one pipeline pass and converts the outcome into a message.
func load(ctx context.Context, cfg *RunConfig) tea.Msg {
	report, err := pipeline.Run(ctx, &pipeline.Config{
		Source:   cfg.Source,
		Registry: cfg.Registry,
		Filters:  cfg.Filters,
		Stats:    cfg.Stats,
		Slot:     cfg.Slot,
		History:  cfg.History,
	})
	switch {
	case err == nil:
		return ReportMsg{Report: report}
	case errors.Is(err, pipeline.ErrStale):
		return nil
	default:
		logging.Debug().Err(err).Str("source", cfg.Source.Name()).Msg("dashboard load failed")
		return LoadErrMsg{Err: err}
	}
}
