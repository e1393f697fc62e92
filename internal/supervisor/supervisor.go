// Package supervisor runs long-lived services under a suture supervisor
// that restarts them with backoff and logs lifecycle events.
package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/thejerf/suture/v4"
)

// Config holds supervisor restart settings.
type Config struct {
	// FailureThreshold is the number of failures before entering backoff. Default 5.
	FailureThreshold float64
	// FailureDecay is the rate in seconds at which failures decay. Default 30.
	FailureDecay float64
	// FailureBackoff is how long to wait once the threshold is exceeded. Default 15s.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long each service may take to stop. Default 10s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns suture's documented defaults.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Supervisor owns a set of services.
type Supervisor struct {
	root *suture.Supervisor
}

// New creates a supervisor. Zero config fields take their defaults.
func New(name string, cfg Config) *Supervisor {
	def := DefaultConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	return &Supervisor{
		root: suture.New(name, suture.Spec{
			EventHook:        logEvent,
			FailureThreshold: cfg.FailureThreshold,
			FailureDecay:     cfg.FailureDecay,
			FailureBackoff:   cfg.FailureBackoff,
			Timeout:          cfg.ShutdownTimeout,
		}),
	}
}

// Add registers a service. Services added after Serve starts are started immediately.
func (s *Supervisor) Add(svc suture.Service) suture.ServiceToken {
	return s.root.Add(svc)
}

// Serve runs every service until ctx is cancelled or a service terminates the
// tree. Cancellation is a clean stop and returns nil.
func (s *Supervisor) Serve(ctx context.Context) error {
	err := s.root.Serve(ctx)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	if unstopped, rerr := s.root.UnstoppedServiceReport(); rerr == nil {
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("service failed to stop")
		}
	}
	return err
}

// logEvent writes suture lifecycle events to the component logger.
func logEvent(e suture.Event) {
	log := logging.With().Str("component", "supervisor").Logger()
	ev := log.Info()
	switch e.Type() {
	case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
		ev = log.Warn()
	case suture.EventTypeBackoff:
		ev = log.Error()
	}
	ev.Fields(e.Map()).Msg(e.String())
}
