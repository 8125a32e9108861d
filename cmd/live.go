package cmd

import (
	"path/filepath"

	"github.com/grovetools/hotload/cli"
	"github.com/grovetools/hotload/errors"
	"github.com/grovetools/hotload/pkg/asset"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/spf13/cobra"
)

// openLive validates the drawable path and creates a LiveDrawable configured
// from the command's config.
func openLive(cmd *cobra.Command, arg string) (*hotload.LiveDrawable, string, error) {
	path, err := filepath.Abs(arg)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to resolve path").
			WithDetail("path", arg)
	}
	if !asset.IsDrawablePath(path) {
		return nil, "", errors.AssetInvalid(path, "not a "+asset.DrawableExt+" directory")
	}

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, "", err
	}

	opts := hotload.DefaultOptions(cfg)
	// Surface a missing or empty drawable before the worker starts.
	if _, err := opts.Store.LoadDrawable(path); err != nil {
		return nil, "", err
	}
	return hotload.New(opts), path, nil
}
