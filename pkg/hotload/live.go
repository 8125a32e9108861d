// Package hotload keeps a compiled drawable and its texture dictionaries in
// sync with their sources while a consumer keeps rendering them.
//
// A LiveDrawable owns one asset worker goroutine. The worker compiles the
// asset, watches its workspace and applies every change inside a Gate window.
// The consumer calls Poll once per frame to admit at most one window and then
// reads Snapshot; it never observes a partially applied change.
package hotload

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/grovetools/hotload/config"
	"github.com/grovetools/hotload/logging"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/compiler"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/pkg/watcher"
	"github.com/sirupsen/logrus"
)

// Options wires a LiveDrawable to its collaborators.
type Options struct {
	Compiler compiler.Compiler
	Store    asset.Store
	Watchers watcher.Factory
	Logger   *logrus.Entry
}

// DefaultOptions builds the filesystem-backed collaborators from cfg.
func DefaultOptions(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	watchOpts := watcher.OptionsFromConfig(cfg.Watch)
	watchOpts.Logger = logging.NewLogger("hotload.watcher")

	return Options{
		Compiler: compiler.NewDefault(cfg.Compiler),
		Store:    asset.NewFileStore(cfg.Assets.EmbedDictName, logging.NewLogger("hotload.store")),
		Watchers: watcher.NewFactory(watchOpts),
		Logger:   logging.NewLogger("hotload.worker"),
	}
}

type loadRequest struct {
	path string
	keep bool
}

// published is the state the consumer reads. The worker writes it only inside
// gate windows.
type published struct {
	drawable *drawable.Drawable
	info     asset.DrawableAsset
	txds     map[uint64]*LiveTxd
	orphans  *MissingRegistry
	flags    ChangeFlags
}

// LiveDrawable is a hot-reloaded drawable.
type LiveDrawable struct {
	id     string
	gate   *Gate
	logger *logrus.Entry

	compiler compiler.Compiler
	store    asset.Store
	watchers watcher.Factory

	pub published

	requests chan loadRequest
	// pending counts requests queued or being loaded.
	pending atomic.Int32
	state   atomic.Int32

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup

	// Worker-private.
	asset     *asset.DrawableAsset
	watch     watcher.ChangeWatcher
	watchRoot string
}

// New creates an idle LiveDrawable. The worker starts with the first RequestLoad.
func New(opts Options) *LiveDrawable {
	if opts.Compiler == nil || opts.Store == nil || opts.Watchers == nil {
		defaults := DefaultOptions(nil)
		if opts.Compiler == nil {
			opts.Compiler = defaults.Compiler
		}
		if opts.Store == nil {
			opts.Store = defaults.Store
		}
		if opts.Watchers == nil {
			opts.Watchers = defaults.Watchers
		}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger("hotload.worker")
	}

	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())
	return &LiveDrawable{
		id:       id,
		gate:     NewGate(),
		logger:   opts.Logger.WithField("instance", id[:8]),
		compiler: opts.Compiler,
		store:    opts.Store,
		watchers: opts.Watchers,
		pub: published{
			txds:    make(map[uint64]*LiveTxd),
			orphans: NewMissingRegistry(),
		},
		requests: make(chan loadRequest, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID identifies the instance; loggers carry its first eight characters.
func (l *LiveDrawable) ID() string {
	return l.id
}

// RequestLoad asks the worker to (re)load the drawable at path. A request
// still queued is replaced. keepExistingMetadata reuses tune records of an
// asset already loaded from the same path.
func (l *LiveDrawable) RequestLoad(path string, keepExistingMetadata bool) {
	if l.closed.Load() {
		return
	}
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go l.run()
	})

	l.pending.Add(1)
	req := loadRequest{path: path, keep: keepExistingMetadata}
	for {
		select {
		case l.requests <- req:
			return
		default:
		}
		// Latest request wins.
		select {
		case <-l.requests:
			l.pending.Add(-1)
		default:
		}
	}
}

// Poll is the consumer half of the gate. It admits at most one pending
// change and returns the flags raised since the previous Poll.
func (l *LiveDrawable) Poll() ChangeFlags {
	if !l.gate.Admit() {
		return FlagNone
	}
	flags := l.pub.flags
	l.pub.flags = FlagNone
	return flags
}

// State returns the worker state.
func (l *LiveDrawable) State() State {
	return State(l.state.Load())
}

// IsLoading reports whether a load is queued or running.
func (l *LiveDrawable) IsLoading() bool {
	return l.pending.Load() > 0
}

// TxdView is the consumer's view of one dictionary.
type TxdView struct {
	Path     string
	Name     string
	Embedded bool
	// Dict is nil when the dictionary is degraded.
	Dict *texture.Dictionary
}

// Snapshot is the consumer-visible state after a Poll.
type Snapshot struct {
	Drawable     *drawable.Drawable
	Asset        asset.DrawableAsset
	Dictionaries []TxdView
	Orphans      []string
	IsLoading    bool
}

// Snapshot returns the published state. It must be called from the goroutine
// that calls Poll, and the returned objects are valid until the next Poll.
func (l *LiveDrawable) Snapshot() Snapshot {
	snap := Snapshot{
		Drawable:  l.pub.drawable,
		Asset:     l.pub.info,
		Orphans:   l.pub.orphans.Names(),
		IsLoading: l.IsLoading(),
	}
	for _, t := range l.pub.txds {
		snap.Dictionaries = append(snap.Dictionaries, TxdView{
			Path:     t.path,
			Name:     asset.TextureName(t.path),
			Embedded: t.embedded,
			Dict:     t.dict,
		})
	}
	sort.Slice(snap.Dictionaries, func(i, j int) bool {
		a, b := snap.Dictionaries[i], snap.Dictionaries[j]
		if a.Embedded != b.Embedded {
			return a.Embedded
		}
		return a.Path < b.Path
	})
	return snap
}

// Close stops the worker and its watcher and waits for the worker to exit.
// A worker blocked in a gate window exits without it being admitted.
func (l *LiveDrawable) Close() error {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		l.cancel()
		l.wg.Wait()
		l.pending.Store(0)
	})
	return nil
}
