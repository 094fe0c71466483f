// Package watch regenerates output when input headers change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period after the last change before
// the callback runs. Preprocessors often write a header in several chunks.
const DefaultDebounceInterval = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Paths are the files to watch.
	Paths []string

	// DebounceInterval is the time to wait after the last change
	// (default: DefaultDebounceInterval).
	DebounceInterval time.Duration
}

// Watcher watches header files and runs a callback when one changes.
//
// The parent directory of each file is watched rather than the file itself,
// so that editors and build tools that replace a file by renaming over it
// keep triggering events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	files    map[string]struct{}
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Watcher. A nil logger uses slog.Default.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	files := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		files[abs] = struct{}{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		files:    files,
		debounce: NewDebouncer(cfg.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, running onChange
// after each burst of changes to a watched file. Errors from onChange are
// logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "path", dir)
	}

	w.logger.Info("watching for changes", "files", len(w.files))

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			path := event.Name
			w.logger.Debug("file event", "path", path, "op", event.Op.String())

			w.debounce.Trigger(func() {
				if err := onChange(path); err != nil {
					w.logger.Error("regeneration failed", "path", path, "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops a running Watch and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("closing watcher: %w", err)
	}
	return nil
}

// relevant reports whether event touches a watched file with new content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Debouncer collects rapid events and runs the latest callback only after
// a quiet period. Callbacks never overlap: one that fires while another is
// still running waits for it.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	runMu    sync.Mutex
	callback func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger records callback and restarts the quiet period.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
		}

		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()

		if cb == nil {
			return
		}

		d.runMu.Lock()
		defer d.runMu.Unlock()
		cb()
	})
}

// Stop cancels any pending callback. It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
