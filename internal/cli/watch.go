// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/chatpdf/internal/config"
)

// =============================================================================
// EXPORT WATCHER
// =============================================================================

// Watcher reports *.json files under a directory once writes to them have
// settled. Handlers run one at a time on the Run goroutine.
type Watcher struct {
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	handle   func(ctx context.Context, path string)
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time // File path -> last change time
}

// NewWatcher watches root and its subdirectories.
func NewWatcher(root string, debounce time.Duration, handle func(ctx context.Context, path string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		watcher:  fw,
		handle:   handle,
		logger:   logger,
		pending:  make(map[string]time.Time),
	}
	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive adds a directory and its visible subdirectories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || skipDirs[d.Name()]) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			w.logger.Debug("cannot watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.handle(ctx, path)
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Debug("cannot watch new directory", "path", event.Name, "error", err)
			}
			w.queueExisting(event.Name)
			return
		}
		w.touch(event.Name, time.Now())
	case event.Has(fsnotify.Write):
		w.touch(event.Name, time.Now())
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.pending, event.Name)
		w.mu.Unlock()
	}
}

// queueExisting queues exports already inside a directory that appeared
// in one step (moved in or extracted).
func (w *Watcher) queueExisting(dir string) {
	found, err := Discover(dir, 0, 0)
	if err != nil {
		return
	}
	now := time.Now()
	for _, path := range found {
		w.touch(path, now)
	}
}

// touch records a change to path if it is an export candidate.
func (w *Watcher) touch(path string, at time.Time) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return
	}
	w.mu.Lock()
	w.pending[path] = at
	w.mu.Unlock()
}

// due removes and returns the paths unchanged for the debounce interval,
// sorted.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// =============================================================================
// WATCH COMMAND
// =============================================================================

// HandleWatch converts exports as they appear under a directory. Failed
// conversions are reported and watching continues.
//
// Usage: chatpdf watch DIR [-d DEST] [--open]
func HandleWatch(ctx context.Context, app *App, p *ArgParser) error {
	dir := p.Positional(0)
	if dir == "" {
		return ErrMissingArgument("directory", "chatpdf watch ~/Downloads")
	}
	dir = config.ExpandPath(dir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ErrNotFound("directory", dir)
	}

	var overrides PipelineOverrides
	overrides.Dest = p.Flag("destination", "dest", "d")
	overrides.Locale = p.Flag("locale")
	if p.HasFlag("open") {
		open := p.BoolFlag("open")
		overrides.Open = &open
	}
	pipeline := app.Pipeline(overrides)

	handle := func(ctx context.Context, path string) {
		res, err := pipeline.Run(ctx, path)
		if err != nil {
			DisplayError(app.Err, err)
			return
		}
		PrintResult(app.Out, res, publishedEntry(ctx, app, res))
		fmt.Fprintln(app.Out)
	}

	debounce := time.Duration(app.Config.Watch.DebounceMs) * time.Millisecond
	w, err := NewWatcher(dir, debounce, handle, app.Logger)
	if err != nil {
		return NewCommandError("watch", "start", dir, err)
	}
	defer w.Close()

	fmt.Fprintf(app.Out, "%s %s\n", RenderConditional(TitleStyle, "Watching"), dir)
	fmt.Fprintln(app.Out, RenderConditional(DimStyle, "Press Ctrl-C to stop."))

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
