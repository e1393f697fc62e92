package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ReaderSource reads a CSV export from a stream, e.g. stdin or an upload.
type ReaderSource struct {
	name string
	r    io.Reader
}

// NewStdinSource creates a source that reads from os.Stdin.
func NewStdinSource() *ReaderSource {
	return &ReaderSource{name: "stdin", r: os.Stdin}
}

// NewReaderSource creates a named source over any reader. It can be loaded once.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, r: r}
}

// Name returns the source identifier.
func (s *ReaderSource) Name() string {
	return s.name
}

// Load reads until EOF.
func (s *ReaderSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	return data, nil
}
