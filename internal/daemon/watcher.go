package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
)

// Watcher monitors content roots and triggers a rebuild callback after a
// debounce window. A failed rebuild keeps the last good registry; the
// callback owns that policy.
type Watcher struct {
	roots    []string
	debounce time.Duration
	rebuild  func(ctx context.Context)
	watcher  *fsnotify.Watcher
	changes  chan struct{}
}

// NewWatcher creates a watcher over the given content roots.
func NewWatcher(roots []string, debounce time.Duration, rebuild func(ctx context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to create file watcher").Build()
	}
	return &Watcher{
		roots:    roots,
		debounce: debounce,
		rebuild:  rebuild,
		watcher:  fsw,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Start registers all content root directories (recursively) and begins
// watching. It returns after starting the background loops.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			w.watcher.Close()
			return err
		}
		slog.Info("Watching content root", logfields.Path(root))
	}

	go w.watchLoop(ctx)
	go w.rebuildLoop(ctx)
	return nil
}

// Stop closes the underlying file system watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// addRecursive watches a directory tree. fsnotify has no recursive mode,
// so every subdirectory is registered individually.
func (w *Watcher) addRecursive(root string) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to watch content root").
			WithContext("root", root).
			Build()
	}
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// New directories must be registered to keep recursion alive.
			if event.Op.Has(fsnotify.Create) {
				_ = w.addRecursive(event.Name)
			}
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// relevant filters events down to markdown content changes and directory
// creation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, ".md") {
		return true
	}
	// Directory create/remove also changes the content set.
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
}

// rebuildLoop collapses bursts of change events into one rebuild per
// debounce window.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changes:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			slog.Debug("Content changed, rebuilding registry")
			w.rebuild(ctx)
		}
	}
}
