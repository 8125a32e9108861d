package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/tui"
	"github.com/grovetools/hotload/tui/assetview"
	"github.com/spf13/cobra"
)

// NewViewCmd opens the interactive asset viewer.
func NewViewCmd() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view <asset.idr>",
		Short: "Open an interactive viewer for a hot-reloaded drawable",
		Long: `Shows the drawable's material bindings, dictionaries and missing
textures, refreshed every frame as sources change on disk.

Examples:
  hotload view level.pack/car.idr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsInteractive() {
				return errors.New(errors.ErrCodeInvalidInput, "hotload view needs a terminal, use 'hotload watch' instead")
			}
			live, path, err := openLive(cmd, args[0])
			if err != nil {
				return err
			}
			defer live.Close()

			tui.InitializeTUI()
			live.RequestLoad(path, false)

			model := assetview.New(live, path).WithFrameInterval(time.Second / time.Duration(max(1, fps)))
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 20, "Frames per second")
	return cmd
}
