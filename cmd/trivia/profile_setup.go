package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trivia/internal/observ"
	"trivia/internal/prof"
)

var (
	profSession *prof.Session
	// timer is nil unless --timings is set; observ.Timer is nil-safe.
	timer *observ.Timer
)

// setupProfiling starts the profilers requested by the persistent flags
// and enables phase timings.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	timer = nil
	if timings, _ := flags.GetBool("timings"); timings {
		timer = observ.NewTimer()
	}
	if !opts.Enabled() {
		return nil
	}
	profSession, err = prof.Start(opts)
	return err
}

func stopProfiling() {
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	if timer != nil {
		_ = timer.WriteSummary(os.Stderr)
	}
}
