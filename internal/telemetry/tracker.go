// Package telemetry sends interaction events in the mission log format.
// A Tracker is configured explicitly; there is no package-level session.
package telemetry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/metrics"
	"github.com/Geun-Oh/uxlog/internal/parser"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrNoEndpoint is returned by Track when no endpoint is configured.
	ErrNoEndpoint = errors.New("telemetry: endpoint not configured")
	// ErrRateLimited is returned when an event is dropped by the rate limiter.
	ErrRateLimited = errors.New("telemetry: rate limited")
)

// Config holds tracker configuration.
type Config struct {
	Endpoint string
	// SessionID is written as 사용자ID. Empty means a generated UUID.
	SessionID string
	// RatePerSecond caps sends; excess events are dropped. Zero means unlimited.
	RatePerSecond float64
	Timeout       time.Duration
	HTTPClient    *http.Client
	// Now overrides the clock.
	Now func() time.Time
}

// Event is one interaction to record.
type Event struct {
	Screen  string
	Kind    entry.Kind
	Target  string
	Value   string
	Device  string
	DwellMs int64 // recorded when positive
}

// Tracker posts events for one session.
type Tracker struct {
	endpoint string
	session  string
	limiter  *rate.Limiter
	http     *http.Client
	now      func() time.Time
}

// NewTracker creates a tracker.
func NewTracker(cfg Config) *Tracker {
	session := cfg.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		endpoint: cfg.Endpoint,
		session:  session,
		limiter:  rate.NewLimiter(limit, burst),
		http:     hc,
		now:      now,
	}
}

// SessionID returns the id written into every record.
func (t *Tracker) SessionID() string {
	return t.session
}

// Record builds the log record for e, keyed by the export column headers.
func (t *Tracker) Record(e Event) map[string]string {
	rec := map[string]string{
		entry.ColUserID:    t.session,
		entry.ColTimestamp: parser.FormatTimestamp(t.now()),
		entry.ColScreen:    e.Screen,
		entry.ColEvent:     e.Kind.Label(),
		entry.ColTarget:    e.Target,
		entry.ColValue:     e.Value,
		entry.ColDevice:    e.Device,
	}
	if e.DwellMs > 0 {
		rec[entry.ColDwellMs] = strconv.FormatInt(e.DwellMs, 10)
	}
	return rec
}

// Track posts e. Events over the rate limit are dropped with ErrRateLimited.
func (t *Tracker) Track(ctx context.Context, e Event) error {
	if t.endpoint == "" {
		return ErrNoEndpoint
	}
	if !t.limiter.Allow() {
		metrics.TelemetryEvents.WithLabelValues("dropped").Inc()
		return ErrRateLimited
	}

	if err := t.post(ctx, t.Record(e)); err != nil {
		metrics.TelemetryEvents.WithLabelValues("failed").Inc()
		return err
	}
	metrics.TelemetryEvents.WithLabelValues("sent").Inc()
	return nil
}

func (t *Tracker) post(ctx context.Context, rec map[string]string) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("telemetry: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telemetry: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("telemetry: unexpected status %d", resp.StatusCode)
	}
	return nil
}
