// Package watch re-runs a callback whenever a file is written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses editor write bursts into one callback.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a single file
type Watcher struct {
	file     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New watches file. The directory is watched so that editors which replace
// the file on save are still seen.
func New(file string, debounce time.Duration) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{file: absPath, debounce: debounce, watcher: w}, nil
}

// Run calls fn once the file settles after each write or create, until ctx
// is done. Callback and watcher errors go to onError and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func() error, onError func(error)) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if p, err := filepath.Abs(event.Name); err != nil || p != w.file {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}
