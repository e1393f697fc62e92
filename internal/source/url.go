package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxBytes caps remote downloads.
const DefaultMaxBytes = 32 << 20

// URLSource downloads a CSV export over HTTP, e.g. a published spreadsheet.
type URLSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// NewURLSource creates a source that GETs url. A zero timeout means 30s.
func NewURLSource(url string, timeout time.Duration) *URLSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &URLSource{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxBytes,
	}
}

// WithMaxBytes overrides the download limit.
func (s *URLSource) WithMaxBytes(n int64) *URLSource {
	s.maxBytes = n
	return s
}

// Name returns the source identifier.
func (s *URLSource) Name() string {
	return fmt.Sprintf("url:%s", s.url)
}

// Load fetches the body. Non-2xx responses and bodies over the limit are errors.
func (s *URLSource) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrTooLarge, s.maxBytes, s.url)
	}
	return data, nil
}
