package hotload

import (
	"os"
	"path/filepath"

	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/profiling"
	"github.com/grovetools/hotload/pkg/watcher"
	"github.com/sirupsen/logrus"
)

// dispatch routes one change to its handler. Changes to the asset directory
// win over the scene, the scene over dictionaries, dictionaries over textures.
func (l *LiveDrawable) dispatch(ev watcher.ChangeEvent) error {
	a := l.asset
	if a == nil {
		return nil
	}
	l.logger.WithFields(logrus.Fields{
		"path":     ev.Path,
		"new_path": ev.NewPath,
		"action":   ev.Action.String(),
	}).Debug("Dispatching change")
	defer profiling.Start("dispatch." + ev.Action.String()).Stop()

	renamed := ev.Action == watcher.Renamed
	switch {
	case ev.Action != watcher.Added && ev.Action != watcher.Modified && asset.IsWithin(ev.Path, a.Path):
		return l.assetMoved(ev)
	case asset.SamePath(ev.Path, a.ScenePath) || (renamed && asset.SamePath(ev.NewPath, a.ScenePath)):
		return l.sceneChanged(ev)
	case asset.IsTxdPath(ev.Path) || (renamed && asset.IsTxdPath(ev.NewPath)):
		return l.txdChanged(ev.Path, ev.NewPath, ev.Action)
	case asset.IsTuneFile(ev.Path) || (renamed && asset.IsTuneFile(ev.NewPath)):
		return l.tuneChanged(ev)
	case l.inTxd(ev.Path) || (renamed && l.inTxd(ev.NewPath)):
		return l.textureChanged(ev)
	default:
		return l.containerChanged(ev)
	}
}

// inTxd reports whether path is a file directly inside a dictionary directory.
func (l *LiveDrawable) inTxd(path string) bool {
	_, ok := asset.TxdPathFromTexture(path)
	return ok
}

// assetMoved handles the drawable directory, or a directory above it, being
// renamed or removed.
func (l *LiveDrawable) assetMoved(ev watcher.ChangeEvent) error {
	a := l.asset
	log := l.logger.WithField("path", a.Path)

	if ev.Action != watcher.Renamed {
		log.Warn("Drawable directory removed, unloading")
		return l.unload()
	}

	newPath := asset.Rebase(a.Path, ev.Path, ev.NewPath)
	if !asset.IsDrawablePath(newPath) {
		log.WithField("new_path", newPath).Warn("Drawable directory renamed away from a drawable path, unloading")
		return l.unload()
	}

	oldRoot := a.WatchRoot()
	a.SetPath(newPath)
	if a.WorkspacePath != "" && asset.IsWithin(ev.Path, a.WorkspacePath) {
		a.WorkspacePath = asset.Rebase(a.WorkspacePath, ev.Path, ev.NewPath)
	}

	if err := l.publish(TxdModified, func() {
		l.pub.info = a.Info()
		l.rebaseTxds(ev.Path, ev.NewPath)
	}); err != nil {
		return err
	}
	log.WithField("new_path", newPath).Info("Drawable relocated")

	if root := a.WatchRoot(); !asset.SamePath(root, oldRoot) {
		l.startWatcher(root)
	}
	return nil
}

// sceneChanged recompiles the drawable, or follows or drops its scene source.
func (l *LiveDrawable) sceneChanged(ev watcher.ChangeEvent) error {
	a := l.asset
	log := l.logger.WithField("path", a.ScenePath)

	switch {
	case ev.Action == watcher.Removed:
		log.Warn("Scene source removed, unloading")
		return l.unload()
	case ev.Action == watcher.Renamed && asset.SamePath(ev.Path, a.ScenePath):
		if !asset.IsSceneFile(ev.NewPath) || !asset.SamePath(filepath.Dir(ev.NewPath), a.Path) {
			log.WithField("new_path", ev.NewPath).Warn("Scene source renamed away, unloading")
			return l.unload()
		}
		a.SetScenePath(ev.NewPath)
		log.WithField("new_path", ev.NewPath).Info("Scene source renamed")
		return l.publish(FlagNone, func() {
			l.pub.info = a.Info()
		})
	}

	return l.recompileScene()
}

// recompileScene swaps in a freshly compiled drawable bound to the current
// dictionaries. A failed compile keeps the previous drawable.
func (l *LiveDrawable) recompileScene() error {
	a := l.asset
	span := profiling.Start("compile.geometry")
	d, err := l.compiler.CompileGeometry(a)
	span.Stop()
	if err != nil {
		l.logger.WithError(err).WithField("path", a.ScenePath).Error("Failed to recompile geometry, keeping the previous drawable")
		return nil
	}

	orphans := NewMissingRegistry()
	bindDrawable(d, orderedTxds(l.pub.txds), l.pub.orphans, orphans)
	if emb := l.embeddedTxd(); emb != nil {
		d.EmbeddedDict = emb.dict
	}

	if err := l.publish(DrawableCompiled, func() {
		l.pub.drawable = d
		l.pub.orphans = orphans
	}); err != nil {
		return err
	}
	l.logger.WithFields(logrus.Fields{
		"materials": len(d.Materials),
		"orphans":   orphans.Len(),
	}).Info("Geometry recompiled")
	return nil
}

// containerChanged handles directories that are neither the asset nor a
// dictionary but may hold dictionaries.
func (l *LiveDrawable) containerChanged(ev watcher.ChangeEvent) error {
	switch ev.Action {
	case watcher.Added:
		info, err := os.Stat(ev.Path)
		if err != nil || !info.IsDir() {
			return nil
		}
		paths, err := l.store.WorkspaceTxds(ev.Path)
		if err != nil {
			l.logger.WithError(err).WithField("path", ev.Path).Warn("Failed to scan new directory")
			return nil
		}
		for _, path := range paths {
			if err := l.txdChanged(path, "", watcher.Added); err != nil {
				return err
			}
		}
	case watcher.Removed:
		for _, lt := range l.txdsWithin(ev.Path) {
			if err := l.txdChanged(lt.path, "", watcher.Removed); err != nil {
				return err
			}
		}
	case watcher.Renamed:
		for _, lt := range l.txdsWithin(ev.Path) {
			newPath := asset.Rebase(lt.path, ev.Path, ev.NewPath)
			if err := l.txdChanged(lt.path, newPath, watcher.Renamed); err != nil {
				return err
			}
		}
		// Dictionaries moved in from outside the known set.
		if info, err := os.Stat(ev.NewPath); err == nil && info.IsDir() {
			paths, _ := l.store.WorkspaceTxds(ev.NewPath)
			for _, path := range paths {
				if l.txd(path) == nil {
					if err := l.txdChanged(path, "", watcher.Added); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// txdsWithin returns the known dictionaries strictly below dir.
func (l *LiveDrawable) txdsWithin(dir string) []*LiveTxd {
	var out []*LiveTxd
	for _, lt := range orderedTxds(l.pub.txds) {
		if !asset.SamePath(lt.path, dir) && asset.IsWithin(dir, lt.path) {
			out = append(out, lt)
		}
	}
	return out
}

// rebaseTxds moves every dictionary below oldRoot to newRoot. It runs inside a
// gate window.
func (l *LiveDrawable) rebaseTxds(oldRoot, newRoot string) {
	for _, lt := range orderedTxds(l.pub.txds) {
		if !asset.IsWithin(oldRoot, lt.path) {
			continue
		}
		delete(l.pub.txds, lt.key())
		lt.asset.SetPath(asset.Rebase(lt.path, oldRoot, newRoot))
		lt.path = lt.asset.Path
		if lt.dict != nil {
			lt.dict.Name = lt.asset.Name
		}
		l.pub.txds[lt.key()] = lt
	}
}
