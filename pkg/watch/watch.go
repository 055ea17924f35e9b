// Package watch re-runs a callback when a file changes on disk.
//
// It backs "meshgrad export --watch": the state document is re-rendered
// each time it is saved. Bursts of events (editors often write, chmod and
// rename in quick succession) collapse into one callback per Debounce.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a File watch.
type Options struct {
	// Debounce defaults to DefaultDebounce when zero or negative.
	Debounce time.Duration

	// OnChange runs once per debounced burst of changes.
	OnChange func() error

	// OnError receives watcher errors and OnChange failures. Errors are
	// dropped when nil.
	OnError func(error)
}

// File watches path until ctx is canceled.
//
// The parent directory is watched instead of the file so that atomic saves
// (write to temp, rename over) are still seen. File returns nil on
// cancellation and an error only if the watch cannot be set up.
func File(ctx context.Context, path string, opts Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	report := func(err error) {
		if err != nil && opts.OnError != nil {
			opts.OnError(err)
		}
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !matches(ev, abs) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if opts.OnChange != nil {
				report(opts.OnChange())
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(err)
		}
	}
}

// matches reports whether ev is a content change of the file at abs.
func matches(ev fsnotify.Event, abs string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == abs
}
