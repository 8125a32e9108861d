// Package watcher turns filesystem notifications into change events for the
// asset worker.
package watcher

import (
	"time"

	"github.com/grovetools/hotload/config"
	"github.com/sirupsen/logrus"
)

// Action is the kind of change a ChangeEvent reports.
type Action int

const (
	Added Action = iota
	Removed
	Modified
	Renamed
)

func (a Action) String() string {
	switch a {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one change below the watch root. NewPath is set for Renamed only.
type ChangeEvent struct {
	Path    string
	NewPath string
	Action  Action
}

// ChangeWatcher yields change events below a root directory.
type ChangeWatcher interface {
	Start(root string, recursive bool) error
	// Events delivers changes in the order they were observed. The channel is
	// not closed by Stop.
	Events() <-chan ChangeEvent
	Stop() error
}

// Factory creates an unstarted watcher.
type Factory func() ChangeWatcher

// Options configures an FSWatcher.
type Options struct {
	// Debounce coalesces writes to the same file.
	Debounce time.Duration
	// RenameWindow is how long a rename waits for the create of its new name
	// before it is reported as a removal.
	RenameWindow time.Duration
	// Ignore holds dockerignore-style patterns relative to the root.
	Ignore []string
	Logger *logrus.Entry
}

// OptionsFromConfig maps the watch config section to watcher options.
func OptionsFromConfig(cfg config.WatchConfig) Options {
	return Options{
		Debounce:     cfg.Debounce(),
		RenameWindow: cfg.RenameWindow(),
		Ignore:       cfg.Ignore,
	}
}
