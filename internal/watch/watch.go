// Package watch monitors a directory for new media files and feeds each one
// to a handler, bounding how many run at once.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNotADirectory indicates the watch target is not a directory.
var ErrNotADirectory = errors.New("watch target is not a directory")

// defaultSettleDelay is how long a file must sit unchanged before it is
// considered fully written. Media files arrive over seconds, not instantly.
const defaultSettleDelay = 2 * time.Second

// mediaExtensions lists the file types worth processing.
var mediaExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".webm": true, ".mov": true, ".avi": true,
	".mp3": true, ".m4a": true, ".ogg": true, ".wav": true, ".flac": true,
}

// Handler processes one media file. Errors are reported, not fatal: the
// watcher keeps running.
type Handler func(ctx context.Context, path string) error

// Watcher watches a directory and dispatches new media files to a Handler.
type Watcher struct {
	dir         string
	handler     Handler
	maxParallel int
	settleDelay time.Duration

	onEvent func(msg string)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithMaxParallel bounds concurrently processed files.
func WithMaxParallel(n int) WatcherOption {
	return func(w *Watcher) {
		if n > 0 {
			w.maxParallel = n
		}
	}
}

// WithSettleDelay sets how long a file must be quiet before processing.
func WithSettleDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.settleDelay = d
		}
	}
}

// WithEventFunc sets a callback for human-readable watcher events.
func WithEventFunc(fn func(msg string)) WatcherOption {
	return func(w *Watcher) {
		w.onEvent = fn
	}
}

// NewWatcher creates a Watcher over dir.
func NewWatcher(dir string, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	w := &Watcher{
		dir:         dir,
		handler:     handler,
		maxParallel: 1,
		settleDelay: defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Watcher) event(format string, args ...any) {
	if w.onEvent != nil {
		w.onEvent(fmt.Sprintf(format, args...))
	}
}

// Run watches until the context is cancelled. Each new media file is
// processed once after it settles; failures are reported via the event
// callback and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("cannot watch %s: %w", w.dir, err)
	}
	w.event("Watching %s", w.dir)

	// Pending settle timers per path; resets on every write to the file.
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	sem := make(chan struct{}, w.maxParallel)
	var wg sync.WaitGroup

	dispatch := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			w.event("Processing %s", filepath.Base(path))
			if err := w.handler(ctx, path); err != nil {
				w.event("Failed %s: %v", filepath.Base(path), err)
				return
			}
			w.event("Finished %s", filepath.Base(path))
		}()
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
			wg.Wait()
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				wg.Wait()
				return nil
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			if !isMediaFile(ev.Name) {
				continue
			}

			path := ev.Name
			mu.Lock()
			if t, exists := pending[path]; exists {
				t.Reset(w.settleDelay)
			} else {
				pending[path] = time.AfterFunc(w.settleDelay, func() { dispatch(path) })
			}
			mu.Unlock()

		case err, ok := <-fw.Errors:
			if !ok {
				wg.Wait()
				return nil
			}
			w.event("Watch error: %v", err)
		}
	}
}

// isMediaFile reports whether the path has a recognized media extension.
// Dotfiles and partial-download suffixes are skipped.
func isMediaFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return mediaExtensions[strings.ToLower(filepath.Ext(base))]
}
