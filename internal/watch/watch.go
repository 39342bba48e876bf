// Package watch rebuilds the site when content or layout files change.
// Incremental rebuilds are debounced behind fsnotify events; an optional
// gocron schedule forces periodic full rebuilds to pick up anything the
// watcher missed.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/atterbury/sitepress/internal/logfields"
)

const debounceWindow = 300 * time.Millisecond

// RebuildFunc runs one build pass. full is true for scheduled rebuilds,
// false for change-triggered incremental ones.
type RebuildFunc func(ctx context.Context, full bool) error

// Watcher drives rebuilds from filesystem events.
type Watcher struct {
	dirs            []string
	rebuild         RebuildFunc
	rebuildInterval time.Duration // zero disables the periodic full rebuild
}

// New creates a watcher over the given directories. Directories that do
// not exist are skipped.
func New(dirs []string, rebuild RebuildFunc) *Watcher {
	return &Watcher{dirs: dirs, rebuild: rebuild}
}

// WithRebuildInterval enables a periodic full rebuild.
func (w *Watcher) WithRebuildInterval(interval time.Duration) *Watcher {
	w.rebuildInterval = interval
	return w
}

// Run watches until the context is canceled. It performs an initial full
// build before entering the event loop.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.rebuild(ctx, true); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range w.dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			slog.Debug("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		if err := addDirsRecursive(watcher, dir); err != nil {
			return err
		}
	}

	rebuildReq, trigger := newDebouncer()
	w.startRebuildWorker(ctx, rebuildReq)

	scheduler, err := w.startSchedule(ctx)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching for changes", slog.Any("dirs", w.dirs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// startSchedule registers the periodic full rebuild, when enabled.
func (w *Watcher) startSchedule(ctx context.Context) (gocron.Scheduler, error) {
	if w.rebuildInterval <= 0 {
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(w.rebuildInterval),
		gocron.NewTask(func() {
			slog.Info("Scheduled full rebuild")
			if err := w.rebuild(ctx, true); err != nil {
				slog.Error("Scheduled rebuild failed", logfields.Error(err))
			}
		}),
		gocron.WithName("full-rebuild"),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

// newDebouncer coalesces bursts of filesystem events into one request.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceWindow, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// startRebuildWorker serializes rebuilds. Builds run on this goroutine,
// so the request channel's single slot is what coalesces changes landing
// mid-build into exactly one follow-up pass.
func (w *Watcher) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				slog.Info("Change detected; rebuilding site")
				if err := w.rebuild(ctx, false); err != nil {
					slog.Warn("Rebuild failed", logfields.Error(err))
				}
			}
		}
	}()
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnore(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// shouldIgnore filters editor temp files and hidden paths.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}
	return false
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}
