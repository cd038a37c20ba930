// Package inbox watches a directory for import files and hands each one to a
// handler once it has stopped changing.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/extract"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
)

const (
	// DefaultDebounce is how long a file must be quiet before it is handled.
	DefaultDebounce = 500 * time.Millisecond

	ImportedSuffix = ".imported"
	FailedSuffix   = ".failed"
)

// Handler processes one file. The watcher renames the file afterwards.
type Handler func(ctx context.Context, path string) error

// Watcher feeds files dropped into a directory to a Handler.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler
	logger   logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewWatcher(dir string, debounce time.Duration, handle Handler, logger logging.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handle:   handle,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Accepts reports whether path looks like an import file.
func Accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, err := extract.ForFile(path)
	return err == nil
}

// Run watches until ctx is done. Files already present are handled first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	ready := make(chan string, 16)
	defer w.stopTimers()

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			w.schedule(ctx, filepath.Join(w.dir, e.Name()), ready)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name, ready)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "inbox watcher error", "error", err)

		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	if !Accepts(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	suffix := ImportedSuffix
	if err := w.handle(ctx, path); err != nil {
		w.logger.Error(ctx, "failed to import file", "path", path, "error", err)
		suffix = FailedSuffix
	} else {
		w.logger.Info(ctx, "imported file", "path", path)
	}

	if err := os.Rename(path, path+suffix); err != nil {
		w.logger.Warn(ctx, "failed to rename processed file", "path", path, "error", err)
	}
}
