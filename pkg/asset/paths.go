// Package asset classifies paths of the on-disk asset layout and holds the
// worker-private metadata of drawables, texture dictionaries and their tune records.
//
// Layout:
//
//	level.pack/                 workspace
//	  car.idr/                  drawable
//	    car.gltf                scene source
//	    textures.itd/           embedded dictionary
//	      body.png
//	      tune.yaml
//	  shared/common.itd/        workspace dictionary
package asset

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/grovetools/hotload/errors"
)

const (
	DrawableExt  = ".idr"
	TxdExt       = ".itd"
	WorkspaceExt = ".pack"

	// DefaultEmbedDictName is the directory name (without TxdExt) of the dictionary
	// bundled inside a drawable.
	DefaultEmbedDictName = "textures"

	// TuneFileName holds per-texture options inside a dictionary directory.
	TuneFileName = "tune.yaml"
)

// textureExts are the formats the default compiler has decoders for.
var textureExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".webp": true, ".tif": true, ".tiff": true,
}

var sceneExts = map[string]bool{
	".gltf": true, ".glb": true, ".fbx": true, ".obj": true,
}

// PathHash returns the key used for paths in dictionary and tune maps.
// Paths are compared case-insensitively.
func PathHash(path string) uint64 {
	return xxhash.Sum64String(strings.ToLower(filepath.Clean(path)))
}

// SamePath reports whether a and b name the same file.
func SamePath(a, b string) bool {
	return PathHash(a) == PathHash(b)
}

func hasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

func IsTxdPath(path string) bool       { return hasExt(path, TxdExt) }
func IsDrawablePath(path string) bool  { return hasExt(path, DrawableExt) }
func IsWorkspacePath(path string) bool { return hasExt(path, WorkspaceExt) }

// IsSupportedTexture reports whether path has an image extension the compiler accepts.
func IsSupportedTexture(path string) bool {
	return textureExts[strings.ToLower(filepath.Ext(path))]
}

// IsSceneFile reports whether path has a geometry source extension.
func IsSceneFile(path string) bool {
	return sceneExts[strings.ToLower(filepath.Ext(path))]
}

// IsTuneFile reports whether path is a dictionary's tune file.
func IsTuneFile(path string) bool {
	return strings.EqualFold(filepath.Base(path), TuneFileName)
}

// TextureName is the dictionary entry name of a texture file: its base name
// without extension.
func TextureName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ValidateTextureName rejects names that cannot be stored in a dictionary.
func ValidateTextureName(name string) error {
	if name == "" {
		return errors.AssetInvalid(name, "empty texture name")
	}
	if strings.Contains(name, "##") {
		return errors.AssetInvalid(name, "texture name contains reserved sequence \"##\"")
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return errors.AssetInvalid(name, "texture name must be printable ASCII")
		}
	}
	return nil
}

// TxdPathFromTexture returns the dictionary directory a texture file lives in.
func TxdPathFromTexture(path string) (string, bool) {
	dir := filepath.Dir(path)
	if !IsTxdPath(dir) {
		return "", false
	}
	return dir, true
}

// WorkspaceOf returns the closest workspace directory enclosing path, or "".
func WorkspaceOf(path string) string {
	dir := filepath.Clean(path)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
		if IsWorkspacePath(dir) {
			return dir
		}
	}
}

// IsWithin reports whether path is root or lies below it.
func IsWithin(root, path string) bool {
	if root == "" {
		return false
	}
	rel, err := filepath.Rel(strings.ToLower(filepath.Clean(root)), strings.ToLower(filepath.Clean(path)))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Rebase moves path from below oldRoot to the same place below newRoot.
// Paths outside oldRoot are returned unchanged.
func Rebase(path, oldRoot, newRoot string) string {
	if !IsWithin(oldRoot, path) {
		return path
	}
	p, r := filepath.Clean(path), filepath.Clean(oldRoot)
	rest := strings.TrimPrefix(p[len(r):], string(filepath.Separator))
	if rest == "" {
		return filepath.Clean(newRoot)
	}
	return filepath.Join(newRoot, rest)
}
