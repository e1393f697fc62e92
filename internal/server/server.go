// Package server exposes the analytics engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/subtitle"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thejerf/suture/v4"
)

// Options holds server dependencies and limits.
type Options struct {
	Registry  *mission.Registry
	Filters   *filter.Chain
	Slot      *buffer.Slot
	History   *buffer.History
	Stats     *monitor.Stats
	Subtitles *subtitle.Client

	MaxUploadBytes int64
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit   int
	CORSOrigins []string
}

// Server holds dependencies for API handlers.
type Server struct {
	opts    Options
	started time.Time

	closing   chan struct{}
	closeOnce sync.Once
}

// New creates a server. Missing dependencies get defaults.
func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = mission.Default()
	}
	if opts.Slot == nil {
		opts.Slot = buffer.NewSlot()
	}
	if opts.History == nil {
		opts.History = buffer.NewHistory(0)
	}
	if opts.Stats == nil {
		opts.Stats = monitor.NewStats()
	}
	if opts.Subtitles == nil {
		opts.Subtitles = subtitle.New(subtitle.Config{})
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{opts: opts, started: time.Now(), closing: make(chan struct{})}
}

// Close ends open /api/live connections. Register it with
// http.Server.RegisterOnShutdown; hijacked connections are not closed by Shutdown.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// Slot returns the slot the server publishes reports to.
func (s *Server) Slot() *buffer.Slot {
	return s.opts.Slot
}

// Routes configures HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		r.Use(decompressBody)

		r.Get("/missions", s.handleMissions)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/report", s.handleReport)
		r.Get("/report/funnel.csv", s.handleFunnelCSV)
		r.Get("/report/missions/{id}", s.handleMission)
		r.Get("/loads", s.handleLoads)
		r.Get("/status", s.handleStatus)
		r.Post("/subtitles", s.handleSubtitles)
		r.Get("/live", s.handleLive)
	})

	return r
}

// HTTPService runs an http.Server as a supervised service.
type HTTPService struct {
	srv             *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPService wraps srv. shutdownTimeout bounds graceful shutdown; zero means 10s.
func NewHTTPService(srv *http.Server, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{srv: srv, shutdownTimeout: shutdownTimeout}
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
// A listen failure terminates the supervisor tree.
func (h *HTTPService) Serve(ctx context.Context) error {
	log := logging.With().Str("component", "server").Logger()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", h.srv.Addr).Msg("listening")
		if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: listen: %w: %w", err, suture.ErrTerminateSupervisorTree)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	if err := h.srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errCh
	return ctx.Err()
}

// String names the service in supervisor logs.
func (h *HTTPService) String() string {
	return "http-server"
}
