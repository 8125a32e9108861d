package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/grovetools/hotload/logging"
	"github.com/spf13/cobra"
)

// CobraProfiler adds pprof and timing flags to a command tree.
type CobraProfiler struct {
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

// NewCobraProfiler creates a new profiler for Cobra integration.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags adds the profiling flags to the given Cobra command.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print compile and dispatch timings on exit")
}

// PreRun starts profiling. Use it from a PersistentPreRunE hook.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}

	if p.cpuProfilePath != "" {
		f, err := os.Create(p.cpuProfilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		p.cpuProfileFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			p.cpuProfileFile = nil
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
	}
	return nil
}

// PostRun writes the profiles and the timing summary. Use it from a
// PersistentPostRun hook.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	log := logging.NewLogger("hotload.profiling")

	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		log.WithField("path", p.cpuProfilePath).Info("CPU profile written")
	}

	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			log.WithError(err).Error("Could not create memory profile")
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.WithError(err).Error("Could not write memory profile")
			return
		}
		log.WithField("path", p.memProfilePath).Info("Memory profile written")
	}

	if p.timing {
		Summarize(cmd.ErrOrStderr())
	}
}
