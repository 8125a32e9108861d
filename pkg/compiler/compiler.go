// Package compiler turns asset sources into textures, dictionaries and drawables.
package compiler

import (
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/drawable"
	"github.com/grovetools/hotload/pkg/texture"
)

// Compiler compiles assets. Implementations must be safe to call from the
// asset worker goroutine while the consumer reads previously returned artifacts.
type Compiler interface {
	CompileTexture(rec *asset.TuneRecord) (*texture.Texture, error)
	// CompileDictionary fails only when the dictionary itself is unusable.
	// Textures that fail to compile occupy their slot as placeholders.
	CompileDictionary(txd *asset.TxdAsset) (*texture.Dictionary, error)
	CompileGeometry(d *asset.DrawableAsset) (*drawable.Drawable, error)
}
