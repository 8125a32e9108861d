package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHotloadHomeWins(t *testing.T) {
	t.Setenv("HOTLOAD_HOME", "/portable")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/portable", "config"), ConfigDir())
	assert.Equal(t, filepath.Join("/portable", "config", "hotload.yml"), GlobalConfigFile())
	assert.Equal(t, filepath.Join("/portable", "state", "hotload.log"), DefaultLogFile())
}

func TestXDGDirectories(t *testing.T) {
	t.Setenv("HOTLOAD_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, filepath.Join("/xdg/config", "hotload"), ConfigDir())
	assert.Equal(t, filepath.Join("/xdg/state", "hotload"), StateDir())
}

func TestPlatformDefaults(t *testing.T) {
	t.Setenv("HOTLOAD_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/artist")

	assert.Equal(t, filepath.Join("/home/artist", ".config", "hotload"), ConfigDir())
	assert.Equal(t, filepath.Join("/home/artist", ".local", "state", "hotload"), StateDir())
}
