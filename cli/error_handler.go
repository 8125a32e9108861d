package cli

import (
	"fmt"

	"github.com/grovetools/hotload/errors"
	"github.com/spf13/cobra"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle prints err with a hint matching its code and returns it.
func (h *ErrorHandler) Handle(cmd *cobra.Command, err error) error {
	out := cmd.ErrOrStderr()
	PrintError(cmd, err)

	hotErr, _ := err.(*errors.HotloadError)
	detail := func(key string) interface{} {
		if hotErr == nil {
			return ""
		}
		return hotErr.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintln(out, "Pass --config or create hotload.yml in the project root.")
	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintln(out, "Run 'hotload config --schema' to see the accepted settings.")
	case errors.ErrCodeAssetNotFound:
		fmt.Fprintf(out, "No asset at %v.\n", detail("path"))
	case errors.ErrCodeAssetInvalid:
		fmt.Fprintln(out, "A drawable is a .idr directory holding a .gltf or .glb scene.")
	case errors.ErrCodeWatchFailed:
		fmt.Fprintln(out, "Check that the directory exists and the inotify watch limit is not exhausted.")
	}

	if h.Verbose && hotErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", hotErr.ToJSON())
	}
	return err
}
