package asset

import (
	"path/filepath"
	"strings"
)

// TxdAsset is the metadata of one texture dictionary directory.
type TxdAsset struct {
	Path  string
	Name  string
	Tunes *TuneStore
}

// NewTxdAsset creates the metadata for the dictionary at path with no records.
func NewTxdAsset(path string) *TxdAsset {
	path = filepath.Clean(path)
	return &TxdAsset{Path: path, Name: TextureName(path), Tunes: NewTuneStore()}
}

// SetPath relocates the dictionary and every tune record below it.
func (t *TxdAsset) SetPath(path string) {
	path = filepath.Clean(path)
	t.Tunes.Rebase(t.Path, path)
	t.Path = path
	t.Name = TextureName(path)
}

// DrawableAsset is the metadata of a drawable directory.
type DrawableAsset struct {
	Path          string
	Name          string
	ScenePath     string
	EmbedDictPath string
	// WorkspacePath is empty when the drawable is not inside a workspace.
	WorkspacePath string
}

// Info returns a copy for publication to the consumer.
func (d *DrawableAsset) Info() DrawableAsset {
	return *d
}

// WatchRoot is the directory the watcher is rooted at.
func (d *DrawableAsset) WatchRoot() string {
	if d.WorkspacePath != "" {
		return d.WorkspacePath
	}
	return d.Path
}

// IsEmbedDictPath reports whether path is the embedded dictionary location.
func (d *DrawableAsset) IsEmbedDictPath(path string) bool {
	return SamePath(path, d.EmbedDictPath)
}

// SetPath relocates the drawable root, moving the scene and embedded
// dictionary paths along with it.
func (d *DrawableAsset) SetPath(path string) {
	path = filepath.Clean(path)
	d.ScenePath = Rebase(d.ScenePath, d.Path, path)
	d.EmbedDictPath = Rebase(d.EmbedDictPath, d.Path, path)
	d.Path = path
	d.Name = TextureName(path)
}

// SetScenePath records a renamed scene source.
func (d *DrawableAsset) SetScenePath(path string) {
	d.ScenePath = filepath.Clean(path)
}

// EmbedDictName returns the directory name the embedded dictionary must have.
func (d *DrawableAsset) EmbedDictName() string {
	return strings.TrimSuffix(filepath.Base(d.EmbedDictPath), filepath.Ext(d.EmbedDictPath))
}
