package logging

// Config is the `logging` extension section of hotload.yml. HOTLOAD_LOG_LEVEL
// and HOTLOAD_LOG_CALLER override Level and ReportCaller.
type Config struct {
	// Level is a logrus level name; unknown names fall back to info.
	Level        string `yaml:"level"`
	ReportCaller bool   `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig appends log lines to a file. An empty Path means hotload.log
// under the state directory.
type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type FormatConfig struct {
	// Preset selects the formatter: "default", "simple" or "json".
	Preset           string `yaml:"preset"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// StructuredToStderr is "auto", "always" or "never". In auto mode stderr
	// gets entries when debugging or when it is not a terminal.
	StructuredToStderr string `yaml:"structured_to_stderr"`
}
