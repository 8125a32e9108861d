package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Default values applied by SetDefaults.
const (
	DefaultVersion        = "1.0"
	DefaultDebounceMs     = 100
	DefaultRenameWindowMs = 50
	DefaultEmbedDictName  = "textures"
	DefaultMaxTextureSize = 4096
)

// DefaultIgnorePatterns are dockerignore-style patterns for editor and OS noise.
var DefaultIgnorePatterns = []string{
	"**/*.tmp",
	"**/~*",
	"**/.DS_Store",
	"**/*.swp",
}

// WatchConfig controls the filesystem watcher.
type WatchConfig struct {
	// DebounceMs coalesces bursts of writes to the same file.
	DebounceMs int `yaml:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" jsonschema:"minimum=0,description=Trailing debounce for file writes in milliseconds"`
	// RenameWindowMs is how long a rename waits for its matching create.
	RenameWindowMs int `yaml:"rename_window_ms" toml:"rename_window_ms" json:"rename_window_ms" jsonschema:"minimum=0,description=How long a rename waits for its new name in milliseconds"`
	// Ignore lists dockerignore-style patterns, relative to the watch root.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty" json:"ignore,omitempty" jsonschema:"description=Patterns of paths the watcher drops"`
}

// AssetsConfig controls asset layout conventions.
type AssetsConfig struct {
	// EmbedDictName is the mandatory name of the dictionary bundled in a drawable.
	EmbedDictName string `yaml:"embed_dict_name" toml:"embed_dict_name" json:"embed_dict_name" jsonschema:"pattern=^[A-Za-z0-9_-]*$,description=Name of the embedded texture dictionary directory (without extension)"`
}

// CompilerConfig controls the default asset compiler.
type CompilerConfig struct {
	MaxTextureSize int   `yaml:"max_texture_size" toml:"max_texture_size" json:"max_texture_size" jsonschema:"minimum=0,maximum=16384,description=Largest texture dimension after compilation"`
	GenerateMips   *bool `yaml:"generate_mips,omitempty" toml:"generate_mips,omitempty" json:"generate_mips,omitempty" jsonschema:"description=Whether compiled textures carry a mip chain (default: true)"`
}

// Config is the hotload.yml configuration.
type Config struct {
	Version  string         `yaml:"version" toml:"version" json:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch" json:"watch"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets" json:"assets"`
	Compiler CompilerConfig `yaml:"compiler" toml:"compiler" json:"compiler"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.Watch.RenameWindowMs == 0 {
		c.Watch.RenameWindowMs = DefaultRenameWindowMs
	}
	if c.Watch.Ignore == nil {
		c.Watch.Ignore = append([]string(nil), DefaultIgnorePatterns...)
	}
	if c.Assets.EmbedDictName == "" {
		c.Assets.EmbedDictName = DefaultEmbedDictName
	}
	if c.Compiler.MaxTextureSize == 0 {
		c.Compiler.MaxTextureSize = DefaultMaxTextureSize
	}
	if c.Compiler.GenerateMips == nil {
		trueVal := true
		c.Compiler.GenerateMips = &trueVal
	}
}

// Debounce returns the write debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// RenameWindow returns the rename pairing window as a duration.
func (w WatchConfig) RenameWindow() time.Duration {
	return time.Duration(w.RenameWindowMs) * time.Millisecond
}

// MipsEnabled reports whether mips are generated, defaulting to true.
func (c CompilerConfig) MipsEnabled() bool {
	return c.GenerateMips == nil || *c.GenerateMips
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded hotload.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
