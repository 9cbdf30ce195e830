// Package watcher re-imports network files when they change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeFunc is called with the absolute path of a changed file
type ChangeFunc func(ctx context.Context, path string)

// Watcher watches files for changes. Changes are debounced per file and
// handlers run one at a time on the watching goroutine.
type Watcher struct {
	paths    []string
	onChange ChangeFunc
	debounce time.Duration
	logger   *zap.Logger
	ready    chan struct{}
}

// New creates a new file watcher
func New(paths []string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   zap.NewNop(),
		ready:    make(chan struct{}),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(logger *zap.Logger) *Watcher {
	if logger != nil {
		w.logger = logger
	}
	return w
}

// Ready is closed once the watched directories are registered
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch blocks until ctx is cancelled or the underlying watcher fails.
// Directories are watched rather than files so that editors replacing a
// file by rename are still noticed.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	files := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	for _, path := range w.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := fsw.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		files[abs] = true
		w.logger.Info("watching for changes", zap.String("path", abs))
	}
	close(w.ready)

	deb := newDebouncer(w.debounce)
	defer deb.stop()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			deb.touch(abs)

		case f := <-deb.fired:
			if !deb.accept(f) {
				continue
			}
			w.logger.Info("file changed", zap.String("path", f.path))
			w.onChange(ctx, f.path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// firing is a debounce timer going off for one generation of a file
type firing struct {
	path string
	gen  uint64
}

// debouncer coalesces bursts of events per file. It is owned by the
// watching goroutine; only the timers run elsewhere.
type debouncer struct {
	delay  time.Duration
	fired  chan firing
	done   chan struct{}
	timers map[string]*time.Timer
	gens   map[string]uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		fired:  make(chan firing),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]uint64),
	}
}

// touch restarts the timer of path under a new generation
func (d *debouncer) touch(path string) {
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.gens[path]++
	f := firing{path: path, gen: d.gens[path]}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		select {
		case d.fired <- f:
		case <-d.done:
		}
	})
}

// accept reports whether f belongs to the latest timer of its file.
// A stopped timer may still deliver; its firing is discarded.
func (d *debouncer) accept(f firing) bool {
	if d.gens[f.path] != f.gen {
		return false
	}
	delete(d.timers, f.path)
	return true
}

func (d *debouncer) stop() {
	close(d.done)
	for _, t := range d.timers {
		t.Stop()
	}
}
