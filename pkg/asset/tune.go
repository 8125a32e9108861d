package asset

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/hotload/errors"
)

// TuneOptions are the per-texture compile options read from tune.yaml.
type TuneOptions struct {
	MaxSize      int    `yaml:"max_size,omitempty"`
	GenerateMips *bool  `yaml:"generate_mips,omitempty"`
	Format       string `yaml:"format,omitempty"`
}

// TuneRecord is the configuration of one texture, keyed by its source path.
type TuneRecord struct {
	Path    string
	Options TuneOptions
	// Missing is set while the source file is gone. The record is kept so the
	// options survive the file coming back.
	Missing bool
}

// Name is the effective dictionary entry name of the record.
func (r *TuneRecord) Name() string {
	return TextureName(r.Path)
}

// TuneStore maps texture source paths to tune records for one dictionary.
// Effective names are unique within a store, compared case-insensitively.
type TuneStore struct {
	byPath map[uint64]*TuneRecord
}

// NewTuneStore creates an empty store.
func NewTuneStore() *TuneStore {
	return &TuneStore{byPath: make(map[uint64]*TuneRecord)}
}

// Create adds a record for path. It fails when the path is already known or
// another record resolves to the same name.
func (s *TuneStore) Create(path string, opts TuneOptions) (*TuneRecord, error) {
	name := TextureName(path)
	if err := ValidateTextureName(name); err != nil {
		return nil, err
	}
	if existing, ok := s.byPath[PathHash(path)]; ok {
		return nil, errors.DuplicateTexture(name, existing.Path, path)
	}
	if other := s.FindByName(name); other != nil {
		return nil, errors.DuplicateTexture(name, other.Path, path)
	}

	rec := &TuneRecord{Path: filepath.Clean(path), Options: opts}
	s.byPath[PathHash(path)] = rec
	return rec, nil
}

// GetOrCreate returns the record for path, creating it with default options
// the first time a compatible file is seen.
func (s *TuneStore) GetOrCreate(path string) (*TuneRecord, error) {
	if rec := s.FindByPath(path); rec != nil {
		return rec, nil
	}
	return s.Create(path, TuneOptions{})
}

// FindByPath returns the record for path or nil.
func (s *TuneStore) FindByPath(path string) *TuneRecord {
	return s.byPath[PathHash(path)]
}

// FindByName returns the record whose effective name matches name, ignoring case.
func (s *TuneStore) FindByName(name string) *TuneRecord {
	for _, rec := range s.byPath {
		if strings.EqualFold(rec.Name(), name) {
			return rec
		}
	}
	return nil
}

// Rename moves the record at oldPath to newPath, keeping its options.
func (s *TuneStore) Rename(oldPath, newPath string) (*TuneRecord, error) {
	rec := s.FindByPath(oldPath)
	if rec == nil {
		return nil, errors.TuneNotFound(oldPath)
	}

	newName := TextureName(newPath)
	if err := ValidateTextureName(newName); err != nil {
		return nil, err
	}
	if other := s.FindByPath(newPath); other != nil && other != rec {
		return nil, errors.DuplicateTexture(newName, other.Path, newPath)
	}
	if other := s.FindByName(newName); other != nil && other != rec {
		return nil, errors.DuplicateTexture(newName, other.Path, newPath)
	}

	delete(s.byPath, PathHash(oldPath))
	rec.Path = filepath.Clean(newPath)
	s.byPath[PathHash(newPath)] = rec
	return rec, nil
}

// Rebase moves every record below oldDir to newDir, after the dictionary
// directory itself was renamed.
func (s *TuneStore) Rebase(oldDir, newDir string) {
	rebased := make(map[uint64]*TuneRecord, len(s.byPath))
	for _, rec := range s.byPath {
		rec.Path = Rebase(rec.Path, oldDir, newDir)
		rebased[PathHash(rec.Path)] = rec
	}
	s.byPath = rebased
}

// KeepMissing carries over the records of prev that are marked missing and
// have no counterpart in s, so a reload from disk does not forget them.
func (s *TuneStore) KeepMissing(prev *TuneStore) int {
	n := 0
	for _, rec := range prev.All() {
		if !rec.Missing || s.FindByPath(rec.Path) != nil || s.FindByName(rec.Name()) != nil {
			continue
		}
		kept := *rec
		s.byPath[PathHash(rec.Path)] = &kept
		n++
	}
	return n
}

// All returns the records sorted by path.
func (s *TuneStore) All() []*TuneRecord {
	records := make([]*TuneRecord, 0, len(s.byPath))
	for _, rec := range s.byPath {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}

func (s *TuneStore) Len() int {
	return len(s.byPath)
}
