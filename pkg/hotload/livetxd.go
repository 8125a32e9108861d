package hotload

import (
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/texture"
)

// LiveTxd is one loaded texture dictionary. The compiled dictionary is
// published; the metadata is private to the worker.
type LiveTxd struct {
	path     string
	embedded bool
	// dict is nil while the dictionary is degraded: it exists but failed to compile.
	dict *texture.Dictionary

	asset *asset.TxdAsset
}

func newLiveTxd(meta *asset.TxdAsset, dict *texture.Dictionary, embedded bool) *LiveTxd {
	return &LiveTxd{path: meta.Path, embedded: embedded, dict: dict, asset: meta}
}

// key is the LiveDrawable map key of the dictionary.
func (t *LiveTxd) key() uint64 {
	return asset.PathHash(t.path)
}
