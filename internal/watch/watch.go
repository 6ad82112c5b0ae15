// Package watch reruns a check whenever fixture sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Op describes what happened to a watched file.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is a change to a watched file.
type Event struct {
	Path string
	Op   Op
}

func fromFSNotify(ev fsnotify.Event) Event {
	var op Op
	if ev.Op&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if ev.Op&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if ev.Op&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if ev.Op&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if ev.Op&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return Event{Path: ev.Name, Op: op}
}

// relevant reports whether e may change a check result.
func relevant(e Event) bool {
	if e.Op == OpChmod {
		return false
	}
	switch filepath.Ext(e.Path) {
	case ".rs", ".yaml", ".yml":
		return true
	}
	return false
}

// RunFunc performs one check. It should return promptly once ctx is done.
type RunFunc func(ctx context.Context)

// Watcher debounces file events and restarts a RunFunc after each burst.
type Watcher struct {
	w        *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	run      RunFunc
	dirs     map[string]bool
}

// New creates a watcher. Call Add for the paths to watch, then Run.
func New(logger *zap.Logger, debounce time.Duration, run RunFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{w: w, logger: logger, debounce: debounce, run: run, dirs: make(map[string]bool)}, nil
}

// Add watches the directory of each file, or each directory and its
// subdirectories.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if !info.IsDir() {
			if err := w.addDir(filepath.Dir(p)); err != nil {
				return err
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.addDir(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
	}

	return nil
}

func (w *Watcher) addDir(dir string) error {
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return nil
	}
	if err := w.w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	w.logger.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// Close releases the watcher without running it. Run closes it on return.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// Run starts a check at once and again after every quiet period following
// relevant changes, cancelling a check still in flight. It returns when ctx
// is done and the last check has stopped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	var (
		wg     sync.WaitGroup
		cancel context.CancelFunc = func() {}
	)
	start := func() {
		cancel()
		wg.Wait()

		var runCtx context.Context
		runCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(runCtx)
		}()
	}
	defer func() {
		cancel()
		wg.Wait()
	}()

	start()

	var quiet <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			e := fromFSNotify(ev)
			if !relevant(e) {
				continue
			}
			w.logger.Debug("change detected", zap.String("path", e.Path), zap.Uint32("op", uint32(e.Op)))
			quiet = time.After(w.debounce)

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-quiet:
			quiet = nil
			w.logger.Info("sources changed, checking again")
			start()
		}
	}
}
