package hotload

import (
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/profiling"
	"github.com/grovetools/hotload/pkg/texture"
	"github.com/grovetools/hotload/pkg/watcher"
)

// ownerOf returns the known dictionary a texture file lives in.
func (l *LiveDrawable) ownerOf(path string) *LiveTxd {
	dir, ok := asset.TxdPathFromTexture(path)
	if !ok {
		return nil
	}
	return l.txd(dir)
}

func (l *LiveDrawable) textureChanged(ev watcher.ChangeEvent) error {
	if ev.Action == watcher.Renamed {
		return l.textureRenamed(ev.Path, ev.NewPath)
	}

	owner := l.ownerOf(ev.Path)
	if owner == nil {
		l.logger.WithField("path", ev.Path).Debug("Texture change outside any known dictionary, dropping")
		return nil
	}
	if owner.dict == nil {
		return l.reloadTxd(owner)
	}

	switch ev.Action {
	case watcher.Added, watcher.Modified:
		return l.textureUpdated(owner, ev.Path)
	case watcher.Removed:
		return l.textureRemoved(owner, ev.Path)
	}
	return nil
}

// textureUpdated compiles a new or modified source into owner. A failed compile
// leaves a placeholder in the slot.
func (l *LiveDrawable) textureUpdated(owner *LiveTxd, path string) error {
	if !asset.IsSupportedTexture(path) {
		return nil
	}
	log := l.logger.WithField("path", path)

	rec, err := owner.asset.Tunes.GetOrCreate(path)
	if err != nil {
		log.WithError(err).Warn("Cannot track texture, dropping change")
		return nil
	}
	rec.Missing = false

	span := profiling.Start("compile.texture")
	tex, err := l.compiler.CompileTexture(rec)
	span.Stop()
	if err != nil {
		log.WithError(err).Error("Failed to compile texture, using a placeholder")
		return l.publish(TxdModified, func() {
			l.markMissing(rec.Name(), owner)
		})
	}

	if err := l.publish(TxdModified, func() {
		l.installTexture(owner, tex)
	}); err != nil {
		return err
	}
	log.WithField("name", tex.Name).Debug("Texture updated")
	return nil
}

// installTexture puts tex into owner's slot for its name and binds every
// reference waiting for it. It runs inside a gate window.
func (l *LiveDrawable) installTexture(owner *LiveTxd, tex *texture.Texture) {
	if old := owner.dict.Find(tex.OriginalName()); old != nil {
		l.pub.drawable.Replace(old, tex)
	}
	l.resolveMissing(tex)
	owner.dict.Insert(tex)
}

// textureRemoved keeps the tune record, flagged missing, and puts a
// placeholder in the slot.
func (l *LiveDrawable) textureRemoved(owner *LiveTxd, path string) error {
	rec := owner.asset.Tunes.FindByPath(path)
	if rec == nil {
		if asset.IsSupportedTexture(path) {
			l.logger.WithField("path", path).Warn("Removed texture has no record, dropping")
		}
		return nil
	}
	rec.Missing = true

	if err := l.publish(TxdModified, func() {
		l.markMissing(rec.Name(), owner)
	}); err != nil {
		return err
	}
	l.logger.WithField("path", path).Info("Texture removed")
	return nil
}

func (l *LiveDrawable) textureRenamed(oldPath, newPath string) error {
	from, to := l.ownerOf(oldPath), l.ownerOf(newPath)
	if from == nil && to == nil {
		return nil
	}
	if from != to {
		if from != nil {
			if err := l.textureChanged(watcher.ChangeEvent{Path: oldPath, Action: watcher.Removed}); err != nil {
				return err
			}
		}
		if to != nil {
			return l.textureChanged(watcher.ChangeEvent{Path: newPath, Action: watcher.Added})
		}
		return nil
	}

	owner := from
	if owner.dict == nil {
		return l.reloadTxd(owner)
	}

	log := l.logger.WithField("path", oldPath).WithField("new_path", newPath)
	switch {
	case !asset.IsSupportedTexture(newPath):
		return l.textureRemoved(owner, oldPath)
	case !asset.IsSupportedTexture(oldPath):
		return l.textureUpdated(owner, newPath)
	}

	if owner.asset.Tunes.FindByPath(oldPath) == nil {
		return l.textureUpdated(owner, newPath)
	}
	rec, err := owner.asset.Tunes.Rename(oldPath, newPath)
	if err != nil {
		log.WithError(err).Warn("Cannot rename texture record, treating as removed")
		return l.textureRemoved(owner, oldPath)
	}

	oldName := asset.TextureName(oldPath)
	newName := rec.Name()
	cur := owner.dict.Find(oldName)

	// A slot without a real texture is compiled from the renamed source.
	var compiled *texture.Texture
	if cur == nil || cur.IsPlaceholder() || rec.Missing {
		rec.Missing = false
		compiled, err = l.compiler.CompileTexture(rec)
		if err != nil {
			rec.Missing = true
			log.WithError(err).Error("Failed to compile renamed texture")
		}
	}

	if err := l.publish(TxdModified, func() {
		if cur != nil {
			owner.dict.Remove(oldName)
		}
		switch {
		case compiled != nil:
			if cur != nil {
				l.pub.drawable.Replace(cur, compiled)
			}
			l.installTexture(owner, compiled)
		case cur != nil:
			cur.SetName(newName)
			l.resolveMissing(cur)
			owner.dict.Insert(cur)
		default:
			l.markMissing(newName, owner)
		}
	}); err != nil {
		return err
	}
	log.Info("Texture renamed")
	return nil
}
