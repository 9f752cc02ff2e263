package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"trivia/internal/diagfmt"
	"trivia/internal/driver"
	"trivia/internal/project"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [path...]",
	Short: "Scan files and directories for header comments",
	Long: `scan walks the given paths (default: the project root or "."), scans every
file with a configured extension in parallel and reports the comments found at
each --pos offset together with diagnostics.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	scanCmd.Flags().Int("jobs", 0, "max parallel files (0=GOMAXPROCS)")
	scanCmd.Flags().StringSlice("ext", nil, "file extensions to include (repeatable)")
	scanCmd.Flags().String("cache", "", "cache directory for scan results")
	scanCmd.Flags().Bool("no-cache", false, "do not use the result cache")
	scanCmd.Flags().String("mode", "", "leading|trailing|both (default from trivia.toml)")
	scanCmd.Flags().UintSlice("pos", nil, "byte offsets to query in every file")
	scanCmd.Flags().String("format", "", "output format (pretty|json|yaml|msgpack|short)")
	scanCmd.Flags().Bool("summary", true, "print a summary line to stderr (pretty format only)")
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	uiValue, _ := flags.GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	o := project.Overrides{}
	o.Extensions, _ = flags.GetStringSlice("ext")
	o.Mode, _ = flags.GetString("mode")
	o.Format, _ = flags.GetString("format")
	o.Cache, _ = flags.GetString("cache")
	if flags.Changed("jobs") {
		o.Jobs, _ = flags.GetInt("jobs")
		o.JobsSet = true
	}
	endConfig := timer.Begin("config")
	cfg, manifest, err := loadSettings(cmd, o)
	if err != nil {
		return err
	}
	if manifest != nil {
		endConfig(manifest.Path)
	} else {
		endConfig("defaults")
	}

	scanMode, err := driver.ParseMode(cfg.Scan.Mode)
	if err != nil {
		return err
	}
	offsets, err := scanOffsets(cmd)
	if err != nil {
		return err
	}
	minSev, err := minSeverity(cmd)
	if err != nil {
		return err
	}

	opts := driver.ScanOptions{
		Request: driver.ScanRequest{
			Mode:           scanMode,
			Offsets:        offsets,
			MaxDiagnostics: maxDiagnostics(cmd),
			MinSeverity:    minSev,
		},
		Extensions: cfg.Scan.Extensions,
		Jobs:       cfg.Scan.Jobs,
	}
	if noCache, _ := flags.GetBool("no-cache"); !noCache && cfg.Scan.Cache != "" {
		cache, err := driver.OpenDiskCache(cfg.Scan.Cache)
		if err != nil {
			return err
		}
		opts.Cache = cache
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
		if manifest != nil {
			paths = []string{manifest.Root}
		}
	}

	endScan := timer.Begin("scan")
	var res *driver.ScanResult
	if shouldUseTUI(mode, cfg.Output.Format) {
		files, err := driver.ListFiles(paths, opts.Extensions)
		if err != nil {
			return err
		}
		res, err = runScanWithUI(cmd.Context(), "scanning", files, paths, opts)
		if err != nil {
			return err
		}
	} else {
		res, err = driver.ScanPaths(cmd.Context(), paths, opts)
		if err != nil {
			return err
		}
	}

	endScan(fmt.Sprintf("%d files", len(res.Files)))

	endRender := timer.Begin("render")
	defer endRender(cfg.Output.Format)
	pretty := diagfmt.PrettyOpts{
		Color:      colorEnabled(cfg.Output.Color, os.Stdout),
		ShowNotes:  true,
		ShowSource: true,
	}
	if err := diagfmt.Write(cmd.OutOrStdout(), cfg.Output.Format, res, pretty); err != nil {
		return err
	}
	if summary, _ := flags.GetBool("summary"); summary && isPrettyFormat(cfg.Output.Format) {
		printScanSummary(cmd, res, opts.Cache)
	}

	if res.HasErrors() {
		return errSilent
	}
	return nil
}

func scanOffsets(cmd *cobra.Command) ([]uint32, error) {
	raw, err := cmd.Flags().GetUintSlice("pos")
	if err != nil {
		return nil, err
	}
	offsets := make([]uint32, 0, len(raw))
	for _, p := range raw {
		off, err := safecast.Conv[uint32](p)
		if err != nil {
			return nil, fmt.Errorf("--pos %d: %w", p, err)
		}
		offsets = append(offsets, off)
	}
	return offsets, nil
}

func printScanSummary(cmd *cobra.Command, res *driver.ScanResult, cache *driver.DiskCache) {
	comments, cached := 0, 0
	for i := range res.Files {
		comments += len(res.Files[i].Comments())
		if res.Files[i].Cached {
			cached++
		}
	}
	line := fmt.Sprintf("%d files, %d comments, %d diagnostics in %s",
		len(res.Files), comments, len(res.Diagnostics()), res.Elapsed.Round(time.Millisecond))
	if cache != nil {
		line += fmt.Sprintf(" (%d cached, cache %s)", cached, filepath.ToSlash(cache.Dir()))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), line)
}
