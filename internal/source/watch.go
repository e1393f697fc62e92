package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a reload fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher signals when a file changes. Bursts of writes collapse into one signal.
type Watcher struct {
	path     string
	debounce time.Duration
}

// NewWatcher creates a watcher for path. A zero debounce uses DefaultDebounce.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: filepath.Clean(path), debounce: debounce}
}

// Watch starts watching. The returned channel receives a value after each
// settled change and is closed when ctx is cancelled. The parent directory is
// watched so editors that replace the file by rename are still seen.
func (w *Watcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("source: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("source: watch %s: %w", w.path, err)
	}

	log := logging.With().Str("component", "watcher").Str("path", w.path).Logger()
	out := make(chan struct{}, 1)

	go func() {
		var (
			timer   *time.Timer
			settled <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
			_ = fw.Close()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-settled:
				settled = nil
				select {
				case out <- struct{}{}:
				default:
				}
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				log.Debug().Str("op", ev.Op.String()).Msg("file changed")
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(w.debounce)
				settled = timer.C
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("watch error")
			}
		}
	}()

	return out, nil
}
