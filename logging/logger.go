package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/hotload/config"
	"github.com/grovetools/hotload/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	cfg, err := config.LoadDefault()
	if err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			// Log a warning if parsing fails, but continue with defaults
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newConfiguredLogger(logCfg).WithField("component", component)
	loggers[component] = entry
	return entry
}

// NewDiscardLogger returns a component logger that writes nothing, for tests
// and embedders that bring their own sinks.
func NewDiscardLogger(component string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", component)
}

func newConfiguredLogger(logCfg Config) *logrus.Logger {
	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if env := os.Getenv("HOTLOAD_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("HOTLOAD_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	logFilePath := expandPath(logCfg.File.Path)
	if logFilePath == "" {
		logFilePath = paths.DefaultLogFile()
	}
	if logCfg.File.Enabled && logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", dir, err)
		} else if file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err == nil {
			writers = append(writers, file)
		} else {
			logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
		}
	}

	if shouldLogToStderr(logger, logCfg.Format.StructuredToStderr) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

func shouldLogToStderr(logger *logrus.Logger, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// "auto": log to stderr when debugging, or when stderr is not a terminal
		isDebug := os.Getenv("HOTLOAD_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
