// Package watch reloads word-list files when they change on disk.
//
// Editors typically replace files (write to temp, rename over), so the
// watcher monitors each file's parent directory and matches events back to
// the registered file name.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher dispatches change callbacks for registered files.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger

	mu        sync.Mutex
	callbacks map[string]func() // absolute file path -> on-change callback
	watched   map[string]bool   // directories already added to fsnotify
}

// New creates a watcher. Call Start to begin dispatching.
func New(logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:       fsw,
		logger:    logger,
		callbacks: make(map[string]func()),
		watched:   make(map[string]bool),
	}, nil
}

// Add registers a file and the callback to run when it changes.
func (w *Watcher) Add(path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.watched[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.watched[dir] = true
	}
	w.callbacks[abs] = onChange
	return nil
}

// Start dispatches events until the context is canceled.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.dispatch(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Stop closes the underlying watcher and its channels.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

func (w *Watcher) dispatch(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	cb := w.callbacks[abs]
	w.mu.Unlock()

	if cb == nil {
		return
	}
	w.logger.Info("watched file changed, reloading", "path", abs, "op", event.Op.String())
	cb()
}
