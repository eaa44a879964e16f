// Package watch re-runs the pre-flight check whenever source files in a
// tree change. Events are debounced and coalesced into a single
// re-check: the check operates on the whole batch, so there is nothing
// to gain from per-file incremental work.
package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/packlint/packlint/pkg/parser"
)

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last event before the
	// re-check fires. Zero selects 200ms.
	Debounce time.Duration

	// Ignore lists directory names that are never watched.
	Ignore []string
}

// DefaultOptions returns the usual ignore set for JS/TS trees.
func DefaultOptions() Options {
	return Options{
		Debounce: 200 * time.Millisecond,
		Ignore:   []string{"node_modules", ".git", "dist", "build"},
	}
}

// Watcher monitors a directory tree and invokes a callback after
// changes settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	options  Options
	onChange func(changed []string)

	// pending collects changed paths between debounce firings.
	pending   map[string]struct{}
	timer     *time.Timer
	pendingMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New creates a Watcher. onChange receives the paths that changed since
// the previous invocation; callers typically invalidate those in their
// loader and re-run the whole check.
func New(options Options, onChange func(changed []string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Debounce == 0 {
		options.Debounce = 200 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger,
		options:  options,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}, nil
}

// Start watches rootPath and all its non-ignored subdirectories, then
// processes events in a background goroutine until Stop.
func (w *Watcher) Start(rootPath string) error {
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set up watches: %w", err)
	}

	w.logger.Info("watching for changes", "root", rootPath)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()

	return w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	// New directories need watches of their own.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	// Only source files trigger a re-check.
	if parser.DetectLanguage(path) == parser.LanguageUnknown {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	w.schedule(path)
}

// schedule records a changed path and (re)arms the debounce timer.
func (w *Watcher) schedule(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.options.Debounce, w.fire)
}

// fire drains the pending set and invokes the callback once.
func (w *Watcher) fire() {
	w.pendingMu.Lock()
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(changed) == 0 {
		return
	}
	w.onChange(changed)
}

func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	for _, name := range w.options.Ignore {
		if base == name || strings.Contains(path, string(filepath.Separator)+name+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
