package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"trivia/internal/version"
)

// errSilent означает, что диагностики уже напечатаны и нужен только код выхода.
var errSilent = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Comment and whitespace trivia scanner",
	Long: `trivia finds the comments that lead or trail a position in JavaScript-like
source text, reports shebang and pinned (/*!) comments, and evaluates text span
arithmetic.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupProfiling(cmd); err != nil {
			return err
		}
		return setupTracing(cmd, args)
	},
}

func init() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(spanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off), overrides trivia.toml")
	rootCmd.PersistentFlags().String("config", "", "path to trivia.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug); without --trace events are kept in memory and printed on failure")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime/trace to file")
}

func main() {
	err := rootCmd.Execute()
	closeTracing(rootCmd, err != nil)
	stopProfiling()
	if err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
