package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Format identifies the syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// configNames lists the file names FindConfigFile looks for, in priority order.
var configNames = []string{
	"hotload.yml",
	"hotload.yaml",
	"hotload.toml",
	".hotload.yml",
	".hotload.yaml",
}

// Load reads and parses a hotload configuration file
func Load(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg, path)
}

// readConfig parses a file without applying defaults.
func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := parse(data, formatFromPath(path))
	if err != nil {
		return nil, withPath(err, path)
	}
	return cfg, nil
}

// finish applies defaults and validates.
func finish(cfg *Config, path string) (*Config, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, withPath(err, path)
	}
	return cfg, nil
}

func withPath(err error, path string) error {
	if hotErr, ok := err.(*errors.HotloadError); ok && path != "" {
		return hotErr.WithDetail("path", path)
	}
	return err
}

// LoadDefault finds and loads the configuration starting from the working directory.
// When no file exists the defaults are returned.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads the nearest configuration file above startDir, then the
// user-wide one, then the defaults.
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with an explicit logger for discovery messages.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeConfigNotFound) {
			return nil, err
		}
		global := paths.GlobalConfigFile()
		if info, statErr := os.Stat(global); global == "" || statErr != nil || info.IsDir() {
			logger.WithField("searchPath", startDir).Debug("No hotload config found, using defaults")
			return Default(), nil
		}
		path = global
	}

	logger.WithField("path", path).Debug("Loading hotload configuration")
	return LoadWithOverrides(path)
}

// LoadFromBytes parses configuration data in the given format, applies
// defaults and validates the result.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	cfg, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return finish(cfg, "")
}

func parse(data []byte, format Format) (*Config, error) {
	// Expand environment variables
	expanded := []byte(expandEnvVars(string(data)))

	var config Config
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(expanded, &config); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		extensions, err := tomlExtensions(expanded)
		if err != nil {
			return nil, err
		}
		config.Extensions = extensions
	default:
		if err := yaml.Unmarshal(expanded, &config); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return &config, nil
}

// tomlExtensions collects the top-level tables that are not part of Config.
func tomlExtensions(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}

	known := map[string]bool{"version": true, "watch": true, "assets": true, "compiler": true}
	extensions := make(map[string]interface{})
	for key, value := range raw {
		if !known[key] {
			extensions[key] = value
		}
	}
	return extensions, nil
}

// FindConfigFile searches from startDir up to the filesystem root for a hotload config.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func formatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
