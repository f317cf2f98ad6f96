// Package watch implements an optional dev-loop: re-run a plan whenever
// one of the paths it depends on changes. Grounded on
// internal/runtime/vfs.FSNotifyWatcher's use of fsnotify, generalized from
// watching an in-process virtual filesystem to watching the real one for
// the handful of paths a plan actually reads from disk.
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// PlanFunc produces a fresh plan result of type T and the set of paths
// that plan depends on (module interfaces, module maps, source files).
// Generic over the result type so callers are not forced to import the
// planner package just to use this loop.
type PlanFunc[T any] func() (result T, watchedPaths []string, err error)

// Watcher re-runs fn whenever a previously returned watched path changes,
// sending each new result (or error) on Results/Errors. Callers read from
// those channels in a select loop and call Close when done.
type Watcher[T any] struct {
	fn      PlanFunc[T]
	w       *fsnotify.Watcher
	results chan T
	errs    chan error
	tracked map[string]bool
}

// New creates a Watcher, runs fn once to seed the initial watch set, and
// starts the background event loop.
func New[T any](fn PlanFunc[T]) (*Watcher[T], error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher[T]{
		fn:      fn,
		w:       w,
		results: make(chan T, 1),
		errs:    make(chan error, 1),
		tracked: make(map[string]bool),
	}
	if err := watcher.runAndTrack(); err != nil {
		_ = w.Close()
		return nil, err
	}
	go watcher.loop()
	return watcher, nil
}

func (w *Watcher[T]) runAndTrack() error {
	result, paths, err := w.fn()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if w.tracked[p] {
			continue
		}
		if err := w.w.Add(p); err != nil {
			continue // a path that no longer exists yet is not fatal to watching
		}
		w.tracked[p] = true
	}
	w.results <- result
	return nil
}

func (w *Watcher[T]) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := w.runAndTrack(); err != nil {
				w.errs <- err
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.errs <- err
		}
	}
}

// Results yields a fresh result every time a watched path changes,
// including the initial run.
func (w *Watcher[T]) Results() <-chan T { return w.results }

// Errors yields re-plan failures and underlying fsnotify errors.
func (w *Watcher[T]) Errors() <-chan error { return w.errs }

// Close stops the watch loop and releases the underlying OS handles.
func (w *Watcher[T]) Close() error { return w.w.Close() }
