// Package paths resolves hotload's per-user directories.
//
// Resolution order:
// 1. HOTLOAD_HOME (portable root) → $HOTLOAD_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/hotload
// 3. Platform defaults → ~/.config/hotload, ~/.local/state/hotload
package paths

import (
	"os"
	"path/filepath"
)

const appName = "hotload"

func home(sub, xdgVar string, fallback ...string) string {
	if root := os.Getenv("HOTLOAD_HOME"); root != "" {
		return filepath.Join(root, sub)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir holds the user-wide hotload.yml.
func ConfigDir() string {
	return home("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir holds logs.
func StateDir() string {
	return home("state", "XDG_STATE_HOME", ".local", "state")
}

// GlobalConfigFile is the user-wide configuration used when a project has none.
func GlobalConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "hotload.yml")
}

// DefaultLogFile is where the file sink writes when no path is configured.
func DefaultLogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "hotload.log")
}
