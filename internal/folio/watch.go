package folio

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounceInterval = 150 * time.Millisecond

// Watcher reports settled changes below a loaded folder so it can be
// reloaded. Changes are coalesced: at most one notification is buffered.
type Watcher struct {
	root     string
	fs       FileSystem
	ignore   map[string]struct{}
	logger   *slog.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	watched map[string]struct{}
	changes chan struct{}
	done    chan struct{}
	closeMu sync.Once
	wg      sync.WaitGroup
}

// NewWatcher starts watching root and every non-ignored directory below it.
func NewWatcher(root string, opts ScanOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     filepath.Clean(root),
		fs:       OSFileSystem{},
		ignore:   make(map[string]struct{}, len(opts.IgnoreDirs)),
		logger:   logger,
		debounce: watchDebounceInterval,
		watcher:  fw,
		watched:  make(map[string]struct{}),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, dir := range opts.IgnoreDirs {
		if d := strings.Trim(strings.TrimSpace(dir), "/"); d != "" {
			w.ignore[filepath.ToSlash(d)] = struct{}{}
		}
	}

	if err := w.addRecursiveWatch(w.root); err != nil {
		fw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.run()
	logger.Info("Watch mode active", "root", w.root, "debounce", w.debounce.String())
	return w, nil
}

// Root returns the watched folder.
func (w *Watcher) Root() string { return w.root }

// Changes delivers one value per settled burst of filesystem events. It is
// closed when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeMu.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.changes)

	var debounceTimer *time.Timer
	defer stopTimer(&debounceTimer)

	for {
		var debounceC <-chan time.Time
		if debounceTimer != nil {
			debounceC = debounceTimer.C
		}

		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				w.scheduleSync(&debounceTimer)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Error("Watcher error", "error", err)
			}
		case <-debounceC:
			stopTimer(&debounceTimer)
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

// handleEvent updates the watch set and reports whether the event should
// trigger a reload.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := filepath.Clean(event.Name)
	rel := w.relativePath(path)
	if w.isIgnored(rel) {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		info, err := w.fs.Stat(path)
		if err == nil && info.IsDir() {
			if err := w.addRecursiveWatch(path); err != nil {
				w.logger.Error("Failed to watch new directory", "path", rel, "error", err)
			}
		}
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, ok := w.watched[path]; ok {
			_ = w.watcher.Remove(path)
			delete(w.watched, path)
			w.logger.Debug("Stopped watching directory", "path", rel)
		}
	}

	return shouldTriggerReload(event.Op)
}

func (w *Watcher) addRecursiveWatch(start string) error {
	return w.fs.WalkDir(start, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		clean := filepath.Clean(path)
		if w.isIgnored(w.relativePath(clean)) {
			return fs.SkipDir
		}
		if _, ok := w.watched[clean]; ok {
			return nil
		}
		if err := w.watcher.Add(clean); err != nil {
			return fmt.Errorf("watch directory %s: %w", clean, err)
		}
		w.watched[clean] = struct{}{}
		w.logger.Debug("Watching directory", "path", w.relativePath(clean))
		return nil
	})
}

func (w *Watcher) relativePath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if _, ok := w.ignore[seg]; ok {
			return true
		}
	}
	_, ok := w.ignore[rel]
	return ok
}

func shouldTriggerReload(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) scheduleSync(timer **time.Timer) {
	if *timer == nil {
		*timer = time.NewTimer(w.debounce)
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	(*timer).Reset(w.debounce)
}

func stopTimer(timer **time.Timer) {
	if *timer == nil {
		return
	}
	if !(*timer).Stop() {
		select {
		case <-(*timer).C:
		default:
		}
	}
	*timer = nil
}
