// Package watch re-runs collection when source files change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doccollect/internal/foundation/errors"
	"git.home.luguber.info/inful/doccollect/internal/logfields"
)

// ChangeFunc receives the files changed since the previous call, sorted.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher monitors a fixed set of files and reports debounced changes.
type Watcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}

	// runMu serializes onChange calls; debounce timers fire on their own goroutines.
	runMu sync.Mutex
}

// New creates a Watcher for paths. The parent directories are watched, so
// files replaced by editors through rename are still tracked.
func New(paths []string, debounce time.Duration, onChange ChangeFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
				WithContext("path", p).
				Build()
		}
		files[abs] = struct{}{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}

	return &Watcher{
		files:    files,
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}, nil
}

// Run watches until ctx is done. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", dir).
				Build()
		}
	}
	w.logger.Info("Watching source files", logfields.Count(len(w.files)))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// handleEvent records event when it concerns a watched file and reports
// whether a re-run is due.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if _, ok := w.files[name]; !ok {
		return false
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
		w.logger.Debug("Source change detected", logfields.File(name), slog.String("op", event.Op.String()))
	case event.Has(fsnotify.Remove):
		w.logger.Warn("Source file removed", logfields.File(name))
		return false
	default:
		return false
	}

	w.mu.Lock()
	w.pending[name] = struct{}{}
	w.mu.Unlock()
	return true
}

// flush reports the pending changes. Changes arriving while onChange runs are
// reported by the next flush.
func (w *Watcher) flush(ctx context.Context) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(changed) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(changed)
	w.onChange(ctx, changed)
}
