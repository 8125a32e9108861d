package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/hotload/logging"
	"github.com/grovetools/hotload/pkg/hotload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewWatchCmd loads a drawable and logs every change applied to it.
func NewWatchCmd() *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "watch <asset.idr>",
		Short: "Load a drawable and log every hot-reloaded change",
		Long: `Loads the drawable, watches its workspace and polls for published
changes like a render loop would, logging each one with a summary of the
dictionaries and missing textures.

Examples:
  hotload watch level.pack/car.idr
  hotload watch level.pack/car.idr --fps 30 -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			live, path, err := openLive(cmd, args[0])
			if err != nil {
				return err
			}
			defer live.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			live.RequestLoad(path, false)
			return pollLoop(ctx, live, time.Second/time.Duration(max(1, fps)), logging.NewLogger("hotload.cli"))
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 60, "Polls per second")
	return cmd
}

// pollLoop is a headless consumer: one Poll per frame until ctx ends.
func pollLoop(ctx context.Context, live *hotload.LiveDrawable, frame time.Duration, log *logrus.Entry) error {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	log = log.WithField("instance", live.ID()[:8])

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping")
			return nil
		case <-ticker.C:
			flags := live.Poll()
			if flags == hotload.FlagNone {
				continue
			}
			snap := live.Snapshot()
			entry := log.WithFields(logrus.Fields{
				"flags":        flags.String(),
				"dictionaries": len(snap.Dictionaries),
				"missing":      len(snap.Orphans),
			})
			if snap.Drawable != nil {
				entry = entry.WithFields(logrus.Fields{
					"asset":        snap.Asset.Name,
					"materials":    len(snap.Drawable.Materials),
					"placeholders": len(snap.Drawable.Placeholders()),
				})
			}
			if flags.Has(hotload.DrawableUnloaded) {
				entry.Warn("Drawable unloaded")
				continue
			}
			entry.Info("Change applied")
		}
	}
}
