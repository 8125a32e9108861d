package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/hotload/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the per-user locations hotload reads and writes.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	StateDir     string `json:"state_dir"`
	GlobalConfig string `json:"global_config"`
	LogFile      string `json:"log_file"`
}

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the per-user paths used by hotload",
		Long: `Print the per-user paths used by hotload as JSON.

HOTLOAD_HOME moves every path under one root; otherwise XDG_CONFIG_HOME and
XDG_STATE_HOME are honored:
- config_dir: holds the user-wide hotload.yml
- global_config: used when no project config is found
- state_dir: holds logs
- log_file: default target of the logging file sink`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				StateDir:     paths.StateDir(),
				GlobalConfig: paths.GlobalConfigFile(),
				LogFile:      paths.DefaultLogFile(),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}
