package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/source"
)

// Reloader keeps a slot current with a source, reloading whenever the
// watched file changes. It runs as a supervised service.
type Reloader struct {
	base     Config
	path     string
	debounce time.Duration
}

// NewReloader creates a reloader that runs base on every change to path.
// base should carry a Slot so concurrent loads resolve newest-wins.
func NewReloader(base Config, path string, debounce time.Duration) *Reloader {
	return &Reloader{base: base, path: path, debounce: debounce}
}

// Load runs the pipeline once. Stale loads are not errors.
func (r *Reloader) Load(ctx context.Context) error {
	c := r.base
	_, err := Run(ctx, &c)
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// Serve loads once, then again after each debounced change, until ctx is cancelled.
// Failed loads are logged and keep the previous report.
func (r *Reloader) Serve(ctx context.Context) error {
	changes, err := source.NewWatcher(r.path, r.debounce).Watch(ctx)
	if err != nil {
		return err
	}
	log := logging.With().Str("component", "reloader").Str("path", r.path).Logger()

	if err := r.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load failed")
	}
	for range changes {
		if err := r.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("reload failed; keeping previous report")
		}
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (r *Reloader) String() string {
	return "reloader:" + r.path
}
