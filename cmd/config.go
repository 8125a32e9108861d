package cmd

import (
	"fmt"

	"github.com/grovetools/hotload/cli"
	"github.com/grovetools/hotload/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd prints the effective configuration or its JSON schema.
func NewConfigCmd() *cobra.Command {
	var schema bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the effective hotload configuration",
		Long: `Shows the configuration hotload runs with: the nearest hotload.yml,
hotload.yaml or hotload.toml above the working directory (or the file given with
--config) with every default applied. Extension sections such as 'logging' are
printed as they were read.

Examples:
  # Show the merged configuration
  hotload config

  # Print the JSON schema for editor completion
  hotload config --schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if schema {
				data, err := config.GenerateSchema()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if path, err := config.FindConfigFile("."); err == nil && cli.GetOptions(cmd).ConfigFile == "" {
				fmt.Fprintf(out, "# Source: %s\n", path)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "Print the JSON schema instead of the configuration")
	return cmd
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return cli.NewVersionCommand()
}
