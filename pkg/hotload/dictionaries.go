package hotload

import (
	"path/filepath"

	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/profiling"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/pkg/watcher"
)

// acceptsTxd reports whether a dictionary at path belongs to the drawable:
// it is the embedded dictionary, or a workspace dictionary outside any
// drawable directory.
func (l *LiveDrawable) acceptsTxd(path string) bool {
	a := l.asset
	if a.IsEmbedDictPath(path) {
		return true
	}
	ws := a.WorkspacePath
	if ws == "" || !asset.IsWithin(ws, path) || asset.SamePath(ws, path) {
		return false
	}
	for dir := filepath.Dir(path); !asset.SamePath(dir, ws); dir = filepath.Dir(dir) {
		if asset.IsDrawablePath(dir) {
			return false
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	return true
}

func (l *LiveDrawable) txdChanged(path, newPath string, action watcher.Action) error {
	switch action {
	case watcher.Added:
		return l.txdAdded(path)
	case watcher.Removed:
		return l.txdRemoved(path)
	case watcher.Renamed:
		return l.txdRenamed(path, newPath)
	}
	return nil
}

func (l *LiveDrawable) txdAdded(path string) error {
	log := l.logger.WithField("path", path)
	if !l.acceptsTxd(path) {
		log.Debug("Ignoring dictionary outside the drawable's scope")
		return nil
	}
	if lt := l.txd(path); lt != nil {
		return l.reloadTxd(lt)
	}

	embedded := l.asset.IsEmbedDictPath(path)
	lt := l.loadTxd(path, embedded, nil)
	if err := l.publish(TxdModified, func() {
		l.pub.txds[lt.key()] = lt
		if embedded {
			l.pub.drawable.EmbeddedDict = lt.dict
		}
		for _, tex := range lt.dict.Textures() {
			l.resolveMissing(tex)
		}
	}); err != nil {
		return err
	}
	log.WithField("embedded", embedded).Info("Dictionary added")
	return nil
}

func (l *LiveDrawable) txdRemoved(path string) error {
	lt := l.txd(path)
	if lt == nil {
		return nil
	}
	if err := l.publish(TxdModified, func() {
		l.dropTxd(lt)
	}); err != nil {
		return err
	}
	l.logger.WithField("path", path).Info("Dictionary removed")
	return nil
}

// dropTxd orphans everything bound to lt's textures and forgets lt. It runs
// inside a gate window.
func (l *LiveDrawable) dropTxd(lt *LiveTxd) {
	for _, tex := range lt.dict.Textures() {
		l.orphanize(tex)
	}
	if lt.embedded && l.pub.drawable != nil {
		l.pub.drawable.EmbeddedDict = nil
	}
	delete(l.pub.txds, lt.key())
}

func (l *LiveDrawable) txdRenamed(oldPath, newPath string) error {
	lt := l.txd(oldPath)
	if lt == nil {
		if asset.IsTxdPath(newPath) {
			return l.txdAdded(newPath)
		}
		return nil
	}

	log := l.logger.WithField("path", oldPath).WithField("new_path", newPath)
	if !asset.IsTxdPath(newPath) || !l.acceptsTxd(newPath) {
		if lt.embedded && asset.IsTxdPath(newPath) && asset.IsWithin(l.asset.Path, newPath) {
			err := errors.EmbedNameInvalid(newPath, l.asset.EmbedDictName())
			log.WithError(err).Error("Embedded dictionary renamed, it no longer belongs to the drawable")
		}
		return l.txdRemoved(oldPath)
	}

	wasEmbedded := lt.embedded
	embedded := l.asset.IsEmbedDictPath(newPath)
	existing := l.txd(newPath)
	if existing == lt {
		existing = nil
	}

	if err := l.publish(TxdModified, func() {
		if existing != nil {
			l.dropTxd(existing)
		}
		delete(l.pub.txds, lt.key())
		lt.asset.SetPath(newPath)
		lt.path = lt.asset.Path
		lt.embedded = embedded
		if lt.dict != nil {
			lt.dict.Name = lt.asset.Name
		}
		l.pub.txds[lt.key()] = lt

		switch {
		case embedded:
			l.pub.drawable.EmbeddedDict = lt.dict
		case wasEmbedded:
			l.pub.drawable.EmbeddedDict = nil
		}
	}); err != nil {
		return err
	}
	log.WithField("embedded", embedded).Info("Dictionary renamed")
	return nil
}

// tuneChanged reloads the dictionary whose tune file changed.
func (l *LiveDrawable) tuneChanged(ev watcher.ChangeEvent) error {
	dir := filepath.Dir(ev.Path)
	if lt := l.txd(dir); lt != nil {
		return l.reloadTxd(lt)
	}
	if ev.Action == watcher.Renamed {
		if lt := l.txd(filepath.Dir(ev.NewPath)); lt != nil {
			return l.reloadTxd(lt)
		}
	}
	return nil
}

// reloadTxd reloads and recompiles a whole dictionary. When it fails a healthy
// dictionary becomes degraded; a degraded one stays as it is.
func (l *LiveDrawable) reloadTxd(lt *LiveTxd) error {
	log := l.logger.WithField("path", lt.path)

	meta, err := l.store.LoadTxd(lt.path)
	if err != nil {
		log.WithError(err).Error("Failed to reload dictionary metadata")
		return nil
	}
	if lt.asset != nil {
		meta.Tunes.KeepMissing(lt.asset.Tunes)
	}
	lt.asset = meta

	span := profiling.Start("compile.dictionary")
	dict, err := l.compiler.CompileDictionary(meta)
	span.Stop()
	if err != nil {
		log.WithError(err).Error("Failed to recompile dictionary")
		if lt.dict == nil {
			return nil
		}
		dict = nil
	}

	if err := l.publish(TxdModified, func() {
		l.swapDict(lt, dict)
	}); err != nil {
		return err
	}
	log.WithField("degraded", dict == nil).Info("Dictionary reloaded")
	return nil
}

// swapDict replaces lt's dictionary, moving bindings to the same-named
// textures of dict and orphaning those dict lacks. It runs inside a gate
// window.
func (l *LiveDrawable) swapDict(lt *LiveTxd, dict *texture.Dictionary) {
	d := l.pub.drawable
	for _, tex := range lt.dict.Textures() {
		if repl := dict.Find(tex.OriginalName()); repl != nil {
			d.Replace(tex, repl)
		} else {
			l.orphanize(tex)
		}
	}
	lt.dict = dict
	if lt.embedded && d != nil {
		d.EmbeddedDict = dict
	}
	for _, tex := range dict.Textures() {
		l.resolveMissing(tex)
	}
}
