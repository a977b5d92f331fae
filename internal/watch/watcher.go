// Package watch renders analysis files dropped into an inbox directory
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/abhilashtyagiii/sentivoxfullcode-sub001/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// HandleFunc processes a debounced batch of new or changed files
type HandleFunc func(ctx context.Context, paths []string)

// Options configure a Watcher
type Options struct {
	// Debounce is the quiet period after the last event before a batch is handled
	Debounce time.Duration
	// Accept filters file names; nil accepts every file
	Accept func(name string) bool
	// ScanExisting handles files already present when the watcher starts
	ScanExisting bool
}

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher watches one directory and hands changed files to a HandleFunc
type Watcher struct {
	dir    string
	opts   Options
	handle HandleFunc
	logger *errors.Logger

	// owned by the Run goroutine
	pending map[string]struct{}
	seen    map[string]fileState
}

// New creates a watcher for dir
func New(dir string, opts Options, handle HandleFunc, logger *errors.Logger) (*Watcher, error) {
	if handle == nil {
		return nil, fmt.Errorf("watch handler is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", dir)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &Watcher{
		dir:     dir,
		opts:    opts,
		handle:  handle,
		logger:  logger,
		pending: make(map[string]struct{}),
		seen:    make(map[string]fileState),
	}, nil
}

// Run watches until ctx is cancelled. Batches are handled on the calling
// goroutine, so a slow handler delays, but does not drop, later events.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fsw.Close(); err != nil {
			w.logger.LogError(err, "Failed to close file watcher")
		}
	}()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.dir, err)
	}

	flush := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	schedule := func(delay time.Duration) {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case flush <- struct{}{}:
			default:
			}
		})
	}

	if w.opts.ScanExisting {
		if err := w.scanExisting(); err != nil {
			return err
		}
		if len(w.pending) > 0 {
			schedule(0)
		}
	}

	w.logger.Info("Inbox watcher started", "directory", w.dir, "debounce", w.opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Inbox watcher stopped", "directory", w.dir)
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.shouldProcessEvent(event) {
				w.pending[event.Name] = struct{}{}
				schedule(w.opts.Debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.LogError(err, "File watcher error")

		case <-flush:
			if batch := w.takeChanged(); len(batch) > 0 {
				w.logger.Debug("Handling changed files", "count", len(batch))
				w.handle(ctx, batch)
			}
		}
	}
}

func (w *Watcher) scanExisting() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !w.accepts(e.Name()) {
			continue
		}
		w.pending[filepath.Join(w.dir, e.Name())] = struct{}{}
	}
	return nil
}

func (w *Watcher) accepts(name string) bool {
	return w.opts.Accept == nil || w.opts.Accept(name)
}

// shouldProcessEvent keeps writes, creates and renames of accepted files
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !w.accepts(filepath.Base(event.Name)) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// takeChanged drains the pending set and keeps regular files whose size or
// modification time differs from the last handled version
func (w *Watcher) takeChanged() []string {
	var batch []string
	for path := range w.pending {
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			delete(w.seen, path)
			continue
		}
		state := fileState{modTime: info.ModTime(), size: info.Size()}
		if prev, ok := w.seen[path]; ok && prev.size == state.size && prev.modTime.Equal(state.modTime) {
			continue
		}
		w.seen[path] = state
		batch = append(batch, path)
	}
	slices.Sort(batch)
	return batch
}
