// Package subtitle is the client for the AI subtitle suggestion service.
// Suggest never fails: any problem yields the fixed default subtitles.
package subtitle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Count is the number of subtitles a suggestion carries.
const Count = 3

var defaultSubtitles = [Count]string{
	"오늘의 하이라이트 장면",
	"이 순간을 놓치지 마세요",
	"함께 만든 특별한 기록",
}

// ErrNotConfigured is reported when no endpoint is set.
var ErrNotConfigured = errors.New("subtitle: endpoint not configured")

// DefaultSubtitles returns the fallback suggestions.
func DefaultSubtitles() []string {
	out := make([]string, Count)
	copy(out, defaultSubtitles[:])
	return out
}

// Request is the body sent to the service.
type Request struct {
	CutTitle       string `json:"cutTitle"`
	CutDescription string `json:"cutDescription"`
	Memo           string `json:"memo"`
	ImageBase64    string `json:"imageBase64,omitempty"`
}

// Response is the service's answer.
type Response struct {
	Subtitles  []string `json:"subtitles"`
	UsedVision bool     `json:"usedVision"`
}

// Result is what Suggest returns. Fallback is set when the defaults were used;
// Err then holds the cause.
type Result struct {
	Subtitles  []string `json:"subtitles"`
	UsedVision bool     `json:"usedVision"`
	Fallback   bool     `json:"fallback"`
	Err        error    `json:"-"`
}

// Config holds client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	// MaxFailures consecutive errors open the breaker. Zero means 3.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open. Zero means 30s.
	OpenTimeout time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Client calls the subtitle service through a circuit breaker.
type Client struct {
	endpoint string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker[Response]
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	maxFailures := cfg.MaxFailures
	cb := gobreaker.NewCircuitBreaker[Response](gobreaker.Settings{
		Name:        "subtitle",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Client{endpoint: cfg.Endpoint, http: hc, cb: cb}
}

// Suggest asks the service for subtitles. It always returns three subtitles.
func (c *Client) Suggest(ctx context.Context, req Request) Result {
	if c.endpoint == "" {
		return c.fallback(ErrNotConfigured)
	}

	resp, err := c.cb.Execute(func() (Response, error) {
		return c.call(ctx, req)
	})
	if err != nil {
		return c.fallback(err)
	}

	metrics.SubtitleRequests.WithLabelValues("ok").Inc()
	return Result{Subtitles: resp.Subtitles[:Count], UsedVision: resp.UsedVision}
}

// State reports the breaker state, e.g. "closed" or "open".
func (c *Client) State() string {
	return c.cb.State().String()
}

func (c *Client) call(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("subtitle: encode request: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("subtitle: build request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")

	hresp, err := c.http.Do(hreq)
	if err != nil {
		return Response{}, fmt.Errorf("subtitle: post: %w", err)
	}
	defer hresp.Body.Close()

	if hresp.StatusCode < 200 || hresp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, hresp.Body)
		return Response{}, fmt.Errorf("subtitle: unexpected status %d", hresp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(hresp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("subtitle: decode response: %w", err)
	}
	if len(out.Subtitles) < Count {
		return Response{}, fmt.Errorf("subtitle: got %d subtitles, want %d", len(out.Subtitles), Count)
	}
	for i, s := range out.Subtitles[:Count] {
		if strings.TrimSpace(s) == "" {
			return Response{}, fmt.Errorf("subtitle: subtitle %d is blank", i)
		}
	}
	return out, nil
}

func (c *Client) fallback(err error) Result {
	metrics.SubtitleRequests.WithLabelValues("fallback").Inc()
	logging.Warn().Err(err).Msg("using default subtitles")
	return Result{Subtitles: DefaultSubtitles(), Fallback: true, Err: err}
}
