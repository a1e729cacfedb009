// Package watch reports changes to workspace files. Events are filtered by
// extension and batched over a short window so an editor's save sequence
// triggers a single reload.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/specialistvlad/equigrid/internal/fsutil"
)

// DefaultWindow is the batching window for file events.
const DefaultWindow = 100 * time.Millisecond

// Handler receives the sorted, deduplicated paths that changed in a batch.
type Handler func(ctx context.Context, paths []string)

// Options configure a Watcher.
type Options struct {
	// Extensions limits events to files with these extensions.
	Extensions []string
	// Window is the batching window. Zero means DefaultWindow.
	Window time.Duration
}

// Watcher watches files and directories for changes.
type Watcher struct {
	fsw     *fsnotify.Watcher
	handler Handler
	opts    Options
	// files restricts events inside a directory added for a single file.
	files map[string]bool
	dirs  map[string]bool
}

// New starts watching paths. Directories are watched recursively. For a file
// path its directory is watched and events are limited to that file.
func New(paths []string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		handler: handler,
		opts:    opts,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(path)] = true
		return w.fsw.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		w.dirs[filepath.Clean(p)] = true
		return w.fsw.Add(p)
	})
}

// relevant reports whether an event on path should trigger the handler.
func (w *Watcher) relevant(path string) bool {
	if len(w.opts.Extensions) > 0 && !fsutil.HasExtension(path, w.opts.Extensions...) {
		return false
	}
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if w.dirs[dir] {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer w.fsw.Close()

	batch := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) == 0 {
			return
		}
		paths := make([]string, 0, len(batch))
		for p := range batch {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		clear(batch)
		logger.Debug("Workspace files changed.", "count", len(paths))
		w.handler(ctx, paths)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.relevantDir(event.Name) {
					if err := w.add(event.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			logger.Debug("File event.", "path", event.Name, "op", event.Op.String())
			batch[filepath.Clean(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Window)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Window)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}

// relevantDir reports whether a newly created directory lies inside a
// recursively watched directory.
func (w *Watcher) relevantDir(path string) bool {
	return w.dirs[filepath.Dir(filepath.Clean(path))]
}
