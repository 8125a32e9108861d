package asset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/hotload/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Store loads asset metadata from disk.
type Store interface {
	LoadDrawable(path string) (*DrawableAsset, error)
	LoadTxd(path string) (*TxdAsset, error)
	// WorkspaceTxds lists the dictionaries of a workspace, excluding those
	// embedded in drawables.
	WorkspaceTxds(workspace string) ([]string, error)
}

// tuneFile is the on-disk shape of tune.yaml, keyed by texture name.
type tuneFile struct {
	Textures map[string]TuneOptions `yaml:"textures"`
}

// FileStore is the Store backed by the filesystem.
type FileStore struct {
	EmbedDictName string
	Logger        *logrus.Entry
}

// NewFileStore creates a store using embedName for embedded dictionaries.
func NewFileStore(embedName string, logger *logrus.Entry) *FileStore {
	if embedName == "" {
		embedName = DefaultEmbedDictName
	}
	return &FileStore{EmbedDictName: embedName, Logger: logger}
}

// LoadDrawable reads the drawable directory at path and picks its scene source.
func (s *FileStore) LoadDrawable(path string) (*DrawableAsset, error) {
	path = filepath.Clean(path)
	if !IsDrawablePath(path) {
		return nil, errors.AssetInvalid(path, "drawable directories must end in "+DrawableExt)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AssetNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeAssetInvalid, "failed to read drawable").
			WithDetail("path", path)
	}

	name := TextureName(path)
	var scenes []string
	for _, entry := range entries {
		if !entry.IsDir() && IsSceneFile(entry.Name()) {
			scenes = append(scenes, entry.Name())
		}
	}
	if len(scenes) == 0 {
		return nil, errors.AssetInvalid(path, "no scene file found")
	}

	// Prefer a scene named after the drawable, then the first one by name.
	sort.Strings(scenes)
	scene := scenes[0]
	for _, candidate := range scenes {
		if strings.EqualFold(TextureName(candidate), name) {
			scene = candidate
			break
		}
	}

	return &DrawableAsset{
		Path:          path,
		Name:          name,
		ScenePath:     filepath.Join(path, scene),
		EmbedDictPath: filepath.Join(path, s.EmbedDictName+TxdExt),
		WorkspacePath: WorkspaceOf(path),
	}, nil
}

// LoadTxd reads a dictionary directory, creating one tune record per
// supported texture. Options come from the dictionary's tune.yaml.
func (s *FileStore) LoadTxd(path string) (*TxdAsset, error) {
	path = filepath.Clean(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AssetNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeAssetInvalid, "failed to read dictionary").
			WithDetail("path", path)
	}

	tunes, err := readTuneFile(filepath.Join(path, TuneFileName))
	if err != nil {
		return nil, err
	}

	txd := NewTxdAsset(path)
	for _, entry := range entries {
		if entry.IsDir() || !IsSupportedTexture(entry.Name()) {
			continue
		}
		texPath := filepath.Join(path, entry.Name())
		if _, err := txd.Tunes.Create(texPath, tunes.lookup(TextureName(texPath))); err != nil {
			s.logger().WithError(err).WithField("path", texPath).Warn("Skipping texture")
		}
	}

	return txd, nil
}

// WorkspaceTxds walks the workspace and returns every dictionary that is not
// inside a drawable.
func (s *FileStore) WorkspaceTxds(workspace string) ([]string, error) {
	if workspace == "" {
		return nil, nil
	}

	var txds []string
	err := filepath.WalkDir(workspace, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == workspace {
				return err
			}
			return nil
		}
		if !d.IsDir() || path == workspace {
			return nil
		}
		if IsDrawablePath(path) {
			return filepath.SkipDir
		}
		if IsTxdPath(path) {
			txds = append(txds, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAssetNotFound, "failed to scan workspace").
			WithDetail("path", workspace)
	}
	return txds, nil
}

func (s *FileStore) logger() *logrus.Entry {
	if s.Logger == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return s.Logger
}

func readTuneFile(path string) (*tuneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &tuneFile{}, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeAssetInvalid, "failed to read tune file").
			WithDetail("path", path)
	}

	var tf tuneFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAssetInvalid, "failed to parse tune file").
			WithDetail("path", path)
	}
	return &tf, nil
}

func (tf *tuneFile) lookup(name string) TuneOptions {
	for key, opts := range tf.Textures {
		if strings.EqualFold(key, name) {
			return opts
		}
	}
	return TuneOptions{}
}
