package main

import (
	"os"

	"github.com/grovetools/hotload/cli"
	"github.com/grovetools/hotload/cmd"
	"github.com/grovetools/hotload/pkg/profiling"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"hotload",
		"Hot reload drawables and their texture dictionaries",
	)
	cli.SetVersionTemplate(rootCmd)

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(rootCmd)
	preRun := rootCmd.PersistentPreRun
	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		preRun(c, args)
		return profiler.PreRun(c, args)
	}
	rootCmd.PersistentPostRun = profiler.PostRun

	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewViewCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	os.Exit(cli.Execute(rootCmd))
}
