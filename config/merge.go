package config

import (
	"os"
	"path/filepath"
)

// overrideNames are local, usually untracked, files layered over the main
// configuration in the same directory.
var overrideNames = []string{
	"hotload.override.yml",
	"hotload.override.yaml",
	"hotload.override.toml",
	".hotload.override.yml",
	".hotload.override.yaml",
}

// LoadWithOverrides loads baseFile and merges every override file next to it
// before applying defaults and validating.
func LoadWithOverrides(baseFile string) (*Config, error) {
	cfg, err := readConfig(baseFile)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(baseFile)
	for _, name := range overrideNames {
		overrideFile := filepath.Join(dir, name)
		if info, err := os.Stat(overrideFile); err != nil || info.IsDir() {
			continue
		}
		override, err := readConfig(overrideFile)
		if err != nil {
			return nil, err
		}
		cfg = mergeConfigs(cfg, override)
	}

	return finish(cfg, baseFile)
}

// mergeConfigs overlays the values set in override onto base.
func mergeConfigs(base, override *Config) *Config {
	merged := *base

	if override.Version != "" {
		merged.Version = override.Version
	}

	if override.Watch.DebounceMs != 0 {
		merged.Watch.DebounceMs = override.Watch.DebounceMs
	}
	if override.Watch.RenameWindowMs != 0 {
		merged.Watch.RenameWindowMs = override.Watch.RenameWindowMs
	}
	if override.Watch.Ignore != nil {
		merged.Watch.Ignore = append(append([]string(nil), base.Watch.Ignore...), override.Watch.Ignore...)
	}

	if override.Assets.EmbedDictName != "" {
		merged.Assets.EmbedDictName = override.Assets.EmbedDictName
	}

	if override.Compiler.MaxTextureSize != 0 {
		merged.Compiler.MaxTextureSize = override.Compiler.MaxTextureSize
	}
	if override.Compiler.GenerateMips != nil {
		merged.Compiler.GenerateMips = override.Compiler.GenerateMips
	}

	// Extension sections are replaced whole.
	if len(override.Extensions) > 0 {
		merged.Extensions = make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			merged.Extensions[k] = v
		}
		for k, v := range override.Extensions {
			merged.Extensions[k] = v
		}
	}

	return &merged
}
