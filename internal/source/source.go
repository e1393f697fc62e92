// Package source defines the Source interface and the inputs a dataset can be loaded from.
package source

import (
	"context"
	"errors"
)

// ErrTooLarge is returned when an input exceeds its size limit.
var ErrTooLarge = errors.New("source: input too large")

// Source loads a whole CSV export. A load either returns the complete input
// or an error; partial reads are never returned.
type Source interface {
	// Load reads the entire input.
	Load(ctx context.Context) ([]byte, error)

	// Name returns a human-readable identifier for this source.
	Name() string
}
