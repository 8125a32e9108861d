package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/hotload/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`version: "1.0"`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
	assert.Equal(t, DefaultRenameWindowMs, cfg.Watch.RenameWindowMs)
	assert.Equal(t, DefaultIgnorePatterns, cfg.Watch.Ignore)
	assert.Equal(t, DefaultEmbedDictName, cfg.Assets.EmbedDictName)
	assert.Equal(t, DefaultMaxTextureSize, cfg.Compiler.MaxTextureSize)
	assert.True(t, cfg.Compiler.MipsEnabled())
}

// TestExtensions verifies that custom sections in hotload.yml are properly loaded
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
watch:
  debounce_ms: 250

logging:
  level: debug
  report_caller: true
`)

	cfg, err := LoadFromBytes(yamlContent, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)

	type loggingSection struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}

	var logCfg loggingSection
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	var missing loggingSection
	require.NoError(t, cfg.UnmarshalExtension("nope", &missing))
	assert.Empty(t, missing.Level)
}

func TestLoadTOML(t *testing.T) {
	tomlContent := []byte(`
version = "1.0"

[assets]
embed_dict_name = "embed"

[compiler]
max_texture_size = 1024
generate_mips = false

[logging]
level = "warn"
`)

	cfg, err := LoadFromBytes(tomlContent, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "embed", cfg.Assets.EmbedDictName)
	assert.Equal(t, 1024, cfg.Compiler.MaxTextureSize)
	assert.False(t, cfg.Compiler.MipsEnabled())

	var logCfg struct {
		Level string `yaml:"level"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "warn", logCfg.Level)
	assert.NotContains(t, cfg.Extensions, "compiler")
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"texture size not power of two", "compiler:\n  max_texture_size: 1000\n"},
		{"texture size too large", "compiler:\n  max_texture_size: 32768\n"},
		{"negative debounce", "watch:\n  debounce_ms: -5\n"},
		{"bad embed name", "assets:\n  embed_dict_name: \"a/b\"\n"},
		{"bad ignore pattern", "watch:\n  ignore: [\"[\"]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tc.content), FormatYAML)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation), "got %v", err)
		})
	}
}

func TestEnvExpansion(t *testing.T) {
	t.Setenv("HOTLOAD_TEST_EMBED", "bundled")

	cfg, err := LoadFromBytes([]byte("assets:\n  embed_dict_name: ${HOTLOAD_TEST_EMBED}\nversion: \"${HOTLOAD_TEST_UNSET:-2.0}\"\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "bundled", cfg.Assets.EmbedDictName)
	assert.Equal(t, "2.0", cfg.Version)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hotload.toml"), []byte("version = \"1.0\"\n"), 0644))

	path, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "hotload.toml"), path)

	cfg, err := LoadFrom(nested)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Version)
}

func TestLoadFromWithoutConfigReturnsDefaults(t *testing.T) {
	t.Setenv("HOTLOAD_HOME", t.TempDir())

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFallsBackToGlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOTLOAD_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "hotload.yml"),
		[]byte("watch:\n  debounce_ms: 250\n"), 0644))

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "hotload.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce_ms")
	assert.Contains(t, string(data), "embed_dict_name")
}
