// Package watch reports changes to backing files using fsnotify.
//
// fsnotify watches directories, so the watcher subscribes to the parent
// directory of every added file and filters events down to the files that
// were added. Files replaced by rename show up as a create of the target.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher is an fsnotify-backed driven.FileWatcher.
type Watcher struct {
	mu    sync.RWMutex
	fsw   *fsnotify.Watcher
	files map[string]bool
	dirs  map[string]bool
}

// New creates a watcher.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		fsw:   fsw,
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
	}, nil
}

// Add starts watching path. The file need not exist yet; its directory is
// created if missing.
func (w *Watcher) Add(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.files[path] = true
	if w.dirs[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// Run delivers events for added files until ctx is cancelled or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, fn func(domain.FileEvent)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if fileEvent, ok := w.handleEvent(event); ok {
				fn(fileEvent)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent maps an fsnotify event to a file event for a watched file.
func (w *Watcher) handleEvent(event fsnotify.Event) (domain.FileEvent, bool) {
	path := filepath.Clean(event.Name)

	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return domain.FileEvent{}, false
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return domain.FileEvent{Path: path, Kind: domain.FileChanged}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.FileEvent{Path: path, Kind: domain.FileRemoved}, true
	default:
		return domain.FileEvent{}, false
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
