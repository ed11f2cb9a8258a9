// Package watch re-renders views when the documents of a local data directory change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wctc-net-database/gradedash/internal/contract"
)

// Watcher calls back once per burst of document changes in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New starts watching dir. Close must be called to release the watch.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = contract.DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, fsw: fsw}, nil
}

// Close stops the underlying watch.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is canceled, calling onChange after each quiet period
// that follows a change to a .json document.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// Restart the quiet period on every change of the burst.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("Watcher error", err)

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

// relevantEvent reports whether the event touches a snapshot document.
func relevantEvent(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false // editor and rsync temp files
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
