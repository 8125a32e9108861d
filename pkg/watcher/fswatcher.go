package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/logging"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

const (
	defaultDebounce     = 100 * time.Millisecond
	defaultRenameWindow = 50 * time.Millisecond
	eventBuffer         = 64
)

type timerFire struct {
	path   string
	gen    uint64
	rename bool
}

type pendingRename struct {
	path  string
	isDir bool
	gen   uint64
	timer *time.Timer
}

// FSWatcher is a ChangeWatcher backed by fsnotify.
type FSWatcher struct {
	opts    Options
	logger  *logrus.Entry
	matcher *patternmatcher.PatternMatcher

	fs        *fsnotify.Watcher
	root      string
	recursive bool
	dirs      map[string]bool
	// moved holds directories renamed in pairs whose own move notification
	// has not arrived yet.
	moved map[string]bool

	debouncer *debouncer
	pending   *pendingRename
	renameGen uint64

	events chan ChangeEvent
	fires  chan timerFire
	done   chan struct{}
	wg     sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewFSWatcher creates an unstarted watcher.
func NewFSWatcher(opts Options) *FSWatcher {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.RenameWindow <= 0 {
		opts.RenameWindow = defaultRenameWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("hotload.watcher")
	}

	return &FSWatcher{
		opts:      opts,
		logger:    logger,
		dirs:      make(map[string]bool),
		moved:     make(map[string]bool),
		debouncer: newDebouncer(opts.Debounce),
		events:    make(chan ChangeEvent, eventBuffer),
		fires:     make(chan timerFire, eventBuffer),
		done:      make(chan struct{}),
	}
}

// NewFactory returns a Factory producing FSWatchers with opts.
func NewFactory(opts Options) Factory {
	return func() ChangeWatcher { return NewFSWatcher(opts) }
}

// Start watches root, and every directory below it when recursive is set.
func (w *FSWatcher) Start(root string, recursive bool) error {
	var err error = errors.WatchFailed(root, errors.New(errors.ErrCodeInvalidInput, "watcher already started"))
	w.startOnce.Do(func() {
		err = w.start(root, recursive)
	})
	return err
}

func (w *FSWatcher) start(root string, recursive bool) error {
	matcher, err := patternmatcher.New(w.opts.Ignore)
	if err != nil {
		return errors.WatchFailed(root, err)
	}
	w.matcher = matcher

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WatchFailed(root, err)
	}
	w.fs = fs
	w.root = filepath.Clean(root)
	w.recursive = recursive

	if err := w.addDir(w.root); err != nil {
		fs.Close()
		w.fs = nil
		return errors.WatchFailed(root, err)
	}

	// run owns w.dirs from here on.
	w.logger.WithFields(logrus.Fields{
		"root":      w.root,
		"recursive": recursive,
		"dirs":      len(w.dirs),
	}).Debug("Watcher started")

	w.wg.Add(1)
	go w.run()
	return nil
}

// Events delivers observed changes.
func (w *FSWatcher) Events() <-chan ChangeEvent {
	return w.events
}

// Stop ends the watch and waits for the event loop to exit. Pending debounced
// events are dropped.
func (w *FSWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fs != nil {
			err = w.fs.Close()
		}
		w.wg.Wait()

		w.debouncer.stop()
		if w.pending != nil {
			w.pending.timer.Stop()
			w.pending = nil
		}
	})
	return err
}

func (w *FSWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Watcher error")
		case f := <-w.fires:
			w.fire(f)
		case <-w.done:
			return
		}
	}
}

func (w *FSWatcher) handle(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if w.ignored(path) {
		return
	}
	w.logger.Debugf("fsnotify event: %s op=%v", path, ev.Op)

	switch {
	case ev.Has(fsnotify.Create):
		w.handleCreate(path)
	case ev.Has(fsnotify.Remove):
		w.flushRename()
		w.handleRemove(path)
	case ev.Has(fsnotify.Rename):
		if w.moved[path] {
			delete(w.moved, path)
			return
		}
		if w.pending != nil && w.pending.path == path {
			return
		}
		w.flushRename()
		w.debouncer.cancel(path)
		w.renameGen++
		gen := w.renameGen
		w.pending = &pendingRename{
			path:  path,
			isDir: w.isWatchedDir(path),
			gen:   gen,
			timer: time.AfterFunc(w.opts.RenameWindow, func() {
				w.post(timerFire{path: path, gen: gen, rename: true})
			}),
		}
	case ev.Has(fsnotify.Write):
		w.debouncer.schedule(path, ChangeEvent{Path: path, Action: Modified}, func(p string, gen uint64) {
			w.post(timerFire{path: p, gen: gen})
		})
	}
	// Chmod is noise for asset sources.
}

func (w *FSWatcher) handleCreate(path string) {
	info, statErr := os.Stat(path)
	isDir := statErr == nil && info.IsDir()

	var renamed *pendingRename
	if p := w.pending; p != nil {
		if p.timer.Stop() {
			w.pending = nil
			renamed = p
			if p.isDir {
				// Old watches go first; the moved inode keeps its watch descriptor.
				w.dropDirs(p.path)
				w.moved[p.path] = true
			}
		} else {
			// The window already closed; its fire is still queued.
			w.flushRename()
		}
	}

	if isDir && w.recursive {
		if err := w.addDir(path); err != nil {
			w.logger.WithError(err).WithField("path", path).Warn("Failed to watch new directory")
		}
	}

	switch {
	case renamed != nil:
		w.emit(ChangeEvent{Path: renamed.path, NewPath: path, Action: Renamed})
	case isDir:
		w.emit(ChangeEvent{Path: path, Action: Added})
	default:
		w.debouncer.schedule(path, ChangeEvent{Path: path, Action: Added}, func(p string, gen uint64) {
			w.post(timerFire{path: p, gen: gen})
		})
	}
}

func (w *FSWatcher) handleRemove(path string) {
	if pending, ok := w.debouncer.cancel(path); ok && pending.Action == Added {
		// Created and removed within the debounce window.
		return
	}
	w.dropDirs(path)
	w.emit(ChangeEvent{Path: path, Action: Removed})
}

func (w *FSWatcher) fire(f timerFire) {
	if f.rename {
		if w.pending != nil && w.pending.gen == f.gen {
			w.flushRename()
		}
		return
	}
	if ev, ok := w.debouncer.pop(f.path, f.gen); ok {
		w.emit(ev)
	}
}

// flushRename reports an unpaired rename as a removal.
func (w *FSWatcher) flushRename() {
	p := w.pending
	if p == nil {
		return
	}
	w.pending = nil
	p.timer.Stop()
	if p.isDir {
		w.dropDirs(p.path)
	}
	w.emit(ChangeEvent{Path: p.path, Action: Removed})
}

func (w *FSWatcher) post(f timerFire) {
	select {
	case w.fires <- f:
	case <-w.done:
	}
}

func (w *FSWatcher) emit(ev ChangeEvent) {
	w.logger.WithFields(logrus.Fields{
		"path":     ev.Path,
		"new_path": ev.NewPath,
		"action":   ev.Action.String(),
	}).Debug("Change detected")

	select {
	case w.events <- ev:
	case <-w.done:
	}
}

// addDir watches dir and, in recursive mode, every directory below it.
func (w *FSWatcher) addDir(dir string) error {
	if !w.recursive {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			if path == dir {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Warn("Failed to watch directory")
			return nil
		}
		w.dirs[path] = true
		return nil
	})
}

// dropDirs forgets the watches at and below a removed or renamed directory.
func (w *FSWatcher) dropDirs(path string) {
	prefix := path + string(filepath.Separator)
	for dir := range w.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			_ = w.fs.Remove(dir)
			delete(w.dirs, dir)
		}
	}
}

func (w *FSWatcher) isWatchedDir(path string) bool {
	return w.dirs[path]
}

func (w *FSWatcher) ignored(path string) bool {
	if w.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	matched, err := w.matcher.MatchesOrParentMatches(filepath.ToSlash(rel))
	return err == nil && matched
}
