package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes a settled image file
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher
type Options struct {
	// Extensions limits processing to these file extensions, all when empty
	Extensions []string
	// Settle is how long a file must be quiet before it is processed
	Settle time.Duration
	// Recursive also watches subdirectories, including ones created later
	Recursive bool
}

// Watcher reports on images that appear in a set of directories
type Watcher struct {
	fs      *fsnotify.Watcher
	dirs    []string
	options Options
	handler Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a watcher over dirs. Paths that are not directories are
// skipped with a warning; at least one must be valid.
func New(dirs []string, options Options, handler Handler) (*Watcher, error) {
	var validDirs []string
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			slog.Warn("Skipping invalid directory", "dir", dir, "error", err)
			continue
		}
		if !info.IsDir() {
			slog.Warn("Skipping non-directory path", "path", dir)
			continue
		}
		validDirs = append(validDirs, dir)
	}
	if len(validDirs) == 0 {
		return nil, errors.New("no valid directories to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.Settle <= 0 {
		options.Settle = 500 * time.Millisecond
	}

	return &Watcher{
		fs:      fsWatcher,
		dirs:    validDirs,
		options: options,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run watches until ctx is done, then waits for in-flight handlers
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	for _, dir := range w.dirs {
		if err := w.add(dir); err != nil {
			return err
		}
	}
	slog.Info("Watching for images", "dirs", w.dirs, "recursive", w.options.Recursive)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				w.stop()
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				w.stop()
				return nil
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) add(dir string) error {
	if !w.options.Recursive {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Error accessing path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			slog.Warn("Failed to watch directory", "dir", path, "error", err)
			return nil
		}
		slog.Debug("Watching directory", "dir", path)
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if w.options.Recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.add(path); err != nil {
				slog.Warn("Failed to watch new directory", "dir", path, "error", err)
			}
			return
		}
	}

	if !w.Matches(path) {
		return
	}
	w.schedule(ctx, path)
}

// Matches reports whether path has one of the configured extensions
func (w *Watcher) Matches(path string) bool {
	if len(w.options.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(w.options.Extensions, func(allowed string) bool {
		return strings.ToLower(allowed) == ext
	})
}

// schedule (re)starts the settle timer of path, so a burst of writes
// produces a single handler call.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.arm(ctx, path)
}

// arm must be called with w.mu held.
func (w *Watcher) arm(ctx context.Context, path string) {
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.options.Settle)
		return
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.options.Settle, func() {
		defer w.wg.Done()

		// a newer timer may already own the entry
		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}

		slog.Debug("Processing file", "path", path)
		if err := w.handler(ctx, path); err != nil {
			slog.Error("Failed to process file", "path", path, "error", err)
		}
	})
	w.pending[path] = timer
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	slog.Info("File watcher stopped")
}
