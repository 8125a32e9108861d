package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *HotloadError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *HotloadError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// AssetNotFound creates an asset not found error
func AssetNotFound(path string) *HotloadError {
	return New(ErrCodeAssetNotFound, fmt.Sprintf("asset not found: %s", path)).
		WithDetail("path", path)
}

// AssetInvalid creates an error for an asset that exists but cannot be used
func AssetInvalid(path, reason string) *HotloadError {
	return New(ErrCodeAssetInvalid, fmt.Sprintf("invalid asset '%s': %s", path, reason)).
		WithDetail("path", path)
}

// UnsupportedFormat creates an error for a file whose format cannot be compiled
func UnsupportedFormat(path string) *HotloadError {
	return New(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported file format: %s", path)).
		WithDetail("path", path)
}

// DuplicateTexture creates an error for two texture files resolving to the same name
func DuplicateTexture(name, existing, path string) *HotloadError {
	return New(ErrCodeDuplicateTexture,
		fmt.Sprintf("texture '%s' already exists in dictionary", name)).
		WithDetail("name", name).
		WithDetail("existing", existing).
		WithDetail("path", path)
}

// TuneNotFound creates an error for a texture path without a tune record
func TuneNotFound(path string) *HotloadError {
	return New(ErrCodeTuneNotFound, fmt.Sprintf("no tune record for: %s", path)).
		WithDetail("path", path)
}

// EmbedNameInvalid creates an error for an embedded dictionary with a wrong name
func EmbedNameInvalid(path, expected string) *HotloadError {
	return New(ErrCodeEmbedNameInvalid,
		fmt.Sprintf("embedded dictionary must be called '%s'", expected)).
		WithDetail("path", path).
		WithDetail("expected", expected)
}

// TextureCompileFailed wraps a texture compiler failure
func TextureCompileFailed(path string, err error) *HotloadError {
	return Wrap(err, ErrCodeTextureCompile, fmt.Sprintf("failed to compile texture: %s", path)).
		WithDetail("path", path)
}

// TxdCompileFailed wraps a dictionary compiler failure
func TxdCompileFailed(path string, err error) *HotloadError {
	return Wrap(err, ErrCodeTxdCompile, fmt.Sprintf("failed to compile dictionary: %s", path)).
		WithDetail("path", path)
}

// SceneCompileFailed wraps a geometry compiler failure
func SceneCompileFailed(path string, err error) *HotloadError {
	return Wrap(err, ErrCodeSceneCompile, fmt.Sprintf("failed to compile scene: %s", path)).
		WithDetail("path", path)
}

// WatchFailed wraps a failure to start or keep a filesystem watch
func WatchFailed(path string, err error) *HotloadError {
	return Wrap(err, ErrCodeWatchFailed, fmt.Sprintf("failed to watch: %s", path)).
		WithDetail("path", path)
}
