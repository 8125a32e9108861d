package hotload

import (
	"os"
	"sort"

	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/profiling"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/pkg/watcher"
	"github.com/sirupsen/logrus"
)

func (l *LiveDrawable) setState(s State) {
	l.state.Store(int32(s))
}

// run is the asset worker. Every blocking point also waits on the context.
func (l *LiveDrawable) run() {
	defer l.wg.Done()
	defer l.setState(Exiting)
	defer l.stopWatcher()

	for {
		var events <-chan watcher.ChangeEvent
		if l.watch != nil && l.asset != nil {
			events = l.watch.Events()
			l.setState(Watching)
		} else {
			l.setState(Idle)
		}

		select {
		case <-l.ctx.Done():
			return
		case req := <-l.requests:
			l.setState(Loading)
			err := l.load(req)
			l.pending.Add(-1)
			if err != nil && l.ctx.Err() != nil {
				return
			}
		case ev := <-events:
			l.setState(Dispatching)
			if err := l.dispatch(ev); err != nil && l.ctx.Err() != nil {
				return
			}
		}
	}
}

// publish runs apply inside a gate window.
func (l *LiveDrawable) publish(flags ChangeFlags, apply func()) error {
	return l.gate.Publish(l.ctx, func() {
		apply()
		l.pub.flags |= flags
	})
}

// load compiles the whole asset and publishes it in one window. Only a
// geometry failure fails the load; dictionaries that fail stay degraded.
func (l *LiveDrawable) load(req loadRequest) error {
	defer profiling.Start("load").Stop()
	log := l.logger.WithField("path", req.path)
	log.Info("Loading drawable")
	l.stopWatcher()

	previous := l.asset
	var meta *asset.DrawableAsset
	if req.keep && previous != nil && asset.SamePath(previous.Path, req.path) {
		meta = previous
	} else {
		var err error
		if meta, err = l.store.LoadDrawable(req.path); err != nil {
			log.WithError(err).Error("Failed to load drawable")
			return l.failLoad()
		}
	}

	span := profiling.Start("compile.geometry")
	d, err := l.compiler.CompileGeometry(meta)
	span.Stop()
	if err != nil {
		log.WithError(err).Error("Failed to compile geometry")
		return l.failLoad()
	}

	var keepTxds map[uint64]*LiveTxd
	if meta == previous {
		keepTxds = l.pub.txds
	}

	txds := make(map[uint64]*LiveTxd)
	var embedded *LiveTxd
	if info, err := os.Stat(meta.EmbedDictPath); err == nil && info.IsDir() {
		embedded = l.loadTxd(meta.EmbedDictPath, true, keepTxds)
		txds[embedded.key()] = embedded
	}
	workspaceTxds, err := l.store.WorkspaceTxds(meta.WorkspacePath)
	if err != nil {
		log.WithError(err).Warn("Failed to list workspace dictionaries")
	}
	for _, path := range workspaceTxds {
		t := l.loadTxd(path, false, keepTxds)
		txds[t.key()] = t
	}

	orphans := NewMissingRegistry()
	bindDrawable(d, orderedTxds(txds), nil, orphans)
	if embedded != nil {
		d.EmbeddedDict = embedded.dict
	}

	err = l.publish(DrawableCompiled|TxdModified, func() {
		l.pub.drawable = d
		l.pub.info = meta.Info()
		l.pub.txds = txds
		l.pub.orphans = orphans
	})
	if err != nil {
		return err
	}
	l.asset = meta

	log.WithFields(logrus.Fields{
		"dictionaries": len(txds),
		"orphans":      orphans.Len(),
	}).Info("Drawable loaded")

	l.startWatcher(meta.WatchRoot())
	return nil
}

// failLoad returns the worker to Idle, dropping anything still published.
func (l *LiveDrawable) failLoad() error {
	if l.asset == nil && l.pub.drawable == nil {
		return nil
	}
	return l.unload()
}

// unload drops the drawable and every dictionary in one window.
func (l *LiveDrawable) unload() error {
	l.stopWatcher()
	l.asset = nil
	return l.publish(DrawableUnloaded, func() {
		l.pub.drawable = nil
		l.pub.info = asset.DrawableAsset{}
		l.pub.txds = make(map[uint64]*LiveTxd)
		l.pub.orphans = NewMissingRegistry()
	})
}

// loadTxd loads and compiles one dictionary. Failures leave it degraded.
func (l *LiveDrawable) loadTxd(path string, embedded bool, keep map[uint64]*LiveTxd) *LiveTxd {
	log := l.logger.WithField("path", path)

	var meta *asset.TxdAsset
	if prev, ok := keep[asset.PathHash(path)]; ok {
		meta = prev.asset
	} else {
		var err error
		if meta, err = l.store.LoadTxd(path); err != nil {
			log.WithError(err).Error("Failed to load dictionary metadata")
			return newLiveTxd(asset.NewTxdAsset(path), nil, embedded)
		}
	}

	span := profiling.Start("compile.dictionary")
	dict, err := l.compiler.CompileDictionary(meta)
	span.Stop()
	if err != nil {
		log.WithError(err).Error("Failed to compile dictionary, keeping it degraded")
		return newLiveTxd(meta, nil, embedded)
	}
	log.WithField("textures", dict.Len()).Debug("Compiled dictionary")
	return newLiveTxd(meta, dict, embedded)
}

// orderedTxds returns dictionaries in lookup order: embedded first, then by path.
func orderedTxds(txds map[uint64]*LiveTxd) []*LiveTxd {
	out := make([]*LiveTxd, 0, len(txds))
	for _, t := range txds {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].embedded != out[j].embedded {
			return out[i].embedded
		}
		return out[i].path < out[j].path
	})
	return out
}

// bindDrawable binds the placeholders of a freshly compiled drawable to
// dictionary textures. Names no dictionary supplies share one orphan,
// reusing the orphan from prev when there is one.
func bindDrawable(d *drawable.Drawable, txds []*LiveTxd, prev, orphans *MissingRegistry) {
	d.EachTextureVar(func(_ *drawable.Material, v *drawable.TextureVar) {
		name, ok := v.Texture.Missing()
		if !ok {
			return
		}
		var slot *texture.Texture
		for _, t := range txds {
			tex := t.dict.Find(name)
			if tex != nil && !tex.IsPlaceholder() {
				v.Texture = tex
				return
			}
			if slot == nil {
				slot = tex
			}
		}
		if slot != nil {
			v.Texture = slot
			return
		}
		if orphan := orphans.Get(name); orphan != nil {
			v.Texture = orphan
			return
		}
		if orphan := prev.Get(name); orphan != nil {
			v.Texture = orphan
		}
		orphans.Add(v.Texture)
	})
}

func (l *LiveDrawable) txd(path string) *LiveTxd {
	return l.pub.txds[asset.PathHash(path)]
}

func (l *LiveDrawable) embeddedTxd() *LiveTxd {
	for _, t := range l.pub.txds {
		if t.embedded {
			return t
		}
	}
	return nil
}

func (l *LiveDrawable) startWatcher(root string) {
	if l.watch != nil && asset.SamePath(l.watchRoot, root) {
		return
	}
	l.stopWatcher()

	w := l.watchers()
	if err := w.Start(root, true); err != nil {
		l.logger.WithError(err).WithField("root", root).Error("Failed to start watcher, changes will not be picked up")
		return
	}
	l.watch = w
	l.watchRoot = root
	l.logger.WithField("root", root).Debug("Watching for changes")
}

func (l *LiveDrawable) stopWatcher() {
	if l.watch == nil {
		return
	}
	if err := l.watch.Stop(); err != nil {
		l.logger.WithError(err).Warn("Failed to stop watcher")
	}
	l.watch = nil
	l.watchRoot = ""
}
