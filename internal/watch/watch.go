// Package watch re-runs generation whenever the input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit for a single save.
const DefaultDebounce = 300 * time.Millisecond

// Func is one generation pass.
type Func func(ctx context.Context) error

// Watcher runs a Func once and again after every change to a file.
type Watcher struct {
	path     string
	debounce time.Duration
	run      Func
}

// New creates a Watcher for path.
func New(path string, run Func) *Watcher {
	return &Watcher{path: path, debounce: DefaultDebounce, run: run}
}

// WithDebounce overrides the quiet period before a change triggers a run.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run blocks until ctx is cancelled. Runs happen on the calling goroutine, one at a time.
// A failing run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	log := clog.FromContext(ctx).With("path", w.path)

	absPath, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors often replace the file rather than write to it.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	w.runOnce(ctx, log)
	log.Infof("watching for changes")

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
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != absPath {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Infof("input changed, regenerating")
			w.runOnce(ctx, log)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, log *clog.Logger) {
	if err := w.run(ctx); err != nil {
		log.Errorf("generation failed: %v", err)
	}
}
