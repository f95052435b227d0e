package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay unchanged before re-import.
// Editors and sync tools write catalog files in several bursts.
const settleDelay = 500 * time.Millisecond

// Watcher re-imports catalog files when they change on disk.
type Watcher struct {
	importer *Importer
	dir      string
	logger   *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a watcher over one catalog directory.
func NewWatcher(importer *Importer, dir string, logger *slog.Logger) *Watcher {
	return &Watcher{
		importer: importer,
		dir:      dir,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Run imports the directory once, then watches it until the context is
// canceled. Blocks; run it in its own goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.importer.ImportDir(ctx, w.dir); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching catalog directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("catalog watcher error", "error", err)
		}
	}
}

// handleEvent debounces write bursts: each change restarts the file's settle
// timer, and the import fires only after the file has been quiet.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if err := w.importer.ImportFile(ctx, path); err != nil {
			w.logger.Error("catalog re-import failed", "path", path, "error", err)
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	clear(w.timers)
}
