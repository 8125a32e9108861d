package cli

import (
	"os"

	"github.com/grovetools/hotload/config"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for hotload commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard hotload flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Loggers are created lazily, so the level must be in place first.
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose && os.Getenv("HOTLOAD_LOG_LEVEL") == "" {
				os.Setenv("HOTLOAD_LOG_LEVEL", "debug")
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to hotload.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or the nearest hotload config
// above the working directory, or the defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path := GetOptions(cmd).ConfigFile; path != "" {
		return config.LoadWithOverrides(path)
	}
	return config.LoadDefault()
}

// Execute runs the root command and reports a failure through the error handler.
func Execute(root *cobra.Command) int {
	ApplyStyledHelpRecursive(root)
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	NewErrorHandler(verbose).Handle(cmd, err)
	return 1
}
