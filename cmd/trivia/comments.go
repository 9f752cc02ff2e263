package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"trivia/internal/diagfmt"
	"trivia/internal/driver"
	"trivia/internal/project"
	"trivia/internal/source"
)

var commentsCmd = &cobra.Command{
	Use:   "comments [flags] <file|->",
	Short: "List comments leading or trailing positions in one file",
	Long: `comments prints the comment ranges found at each --pos offset (default 0,
the file header). Leading mode collects comments on the following lines; trailing
mode stops at the end of the current line. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runComments,
}

func init() {
	commentsCmd.Flags().UintSlice("pos", nil, "byte offsets to query (repeatable)")
	commentsCmd.Flags().Uint("line", 0, "1-based line to query (with --col)")
	commentsCmd.Flags().Uint("col", 1, "1-based byte column for --line")
	commentsCmd.Flags().String("mode", "", "leading|trailing|both (default from trivia.toml)")
	commentsCmd.Flags().Bool("trailing", false, "shorthand for --mode trailing")
	commentsCmd.Flags().Bool("both", false, "shorthand for --mode both")
	commentsCmd.Flags().String("format", "", "output format (pretty|json|yaml|msgpack|short)")
	commentsCmd.Flags().Int("width", 0, "comment preview width (0 = 60 columns)")
}

func runComments(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	o := project.Overrides{}
	o.Mode, _ = flags.GetString("mode")
	if trailing, _ := flags.GetBool("trailing"); trailing {
		o.Mode = project.ModeTrailing
	}
	if both, _ := flags.GetBool("both"); both {
		o.Mode = project.ModeBoth
	}
	o.Format, _ = flags.GetString("format")

	cfg, _, err := loadSettings(cmd, o)
	if err != nil {
		return err
	}
	mode, err := driver.ParseMode(cfg.Scan.Mode)
	if err != nil {
		return err
	}
	minSev, err := minSeverity(cmd)
	if err != nil {
		return err
	}
	offsets, lines, err := queryPositions(cmd)
	if err != nil {
		return err
	}
	req := driver.ScanRequest{
		Mode:           mode,
		Offsets:        offsets,
		Lines:          lines,
		MaxDiagnostics: maxDiagnostics(cmd),
		MinSeverity:    minSev,
	}

	endScan := timer.Begin("scan")
	started := time.Now()
	fs, fileRes, err := scanInput(cmd, args[0], req)
	if err != nil {
		return err
	}
	res := &driver.ScanResult{FileSet: fs, Files: []driver.FileResult{*fileRes}, Elapsed: time.Since(started)}
	endScan(fmt.Sprintf("%d queries", len(fileRes.Queries)))

	width, _ := flags.GetInt("width")
	opts := diagfmt.PrettyOpts{
		Color:      colorEnabled(cfg.Output.Color, os.Stdout),
		Width:      width,
		ShowNotes:  true,
		ShowSource: true,
	}
	if err := diagfmt.Write(cmd.OutOrStdout(), cfg.Output.Format, res, opts); err != nil {
		return err
	}
	if res.HasErrors() {
		return errSilent
	}
	return nil
}

// scanInput scans a file from disk, or stdin when arg is "-".
func scanInput(cmd *cobra.Command, arg string, req driver.ScanRequest) (*source.FileSet, *driver.FileResult, error) {
	if arg != "-" {
		return driver.ScanFile(cmd.Context(), arg, req)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if _, err := safecast.Conv[uint32](len(data)); err != nil {
		return nil, nil, fmt.Errorf("stdin is too large: %w", err)
	}
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("<stdin>", data)
	return fs, driver.ScanText(cmd.Context(), fs.Get(fileID), req), nil
}

// queryPositions собирает --pos и --line/--col; без них запрос идёт по offset 0.
func queryPositions(cmd *cobra.Command) ([]uint32, []source.LineCol, error) {
	flags := cmd.Flags()
	raw, err := flags.GetUintSlice("pos")
	if err != nil {
		return nil, nil, err
	}
	offsets := make([]uint32, 0, len(raw))
	for _, p := range raw {
		off, err := safecast.Conv[uint32](p)
		if err != nil {
			return nil, nil, fmt.Errorf("--pos %d: %w", p, err)
		}
		offsets = append(offsets, off)
	}

	if !flags.Changed("line") {
		return offsets, nil, nil
	}
	line, _ := flags.GetUint("line")
	col, _ := flags.GetUint("col")
	lc := source.LineCol{}
	if lc.Line, err = safecast.Conv[uint32](line); err != nil || lc.Line == 0 {
		return nil, nil, fmt.Errorf("--line %d: must be between 1 and %d", line, uint32(math.MaxUint32))
	}
	if lc.Col, err = safecast.Conv[uint32](col); err != nil || lc.Col == 0 {
		return nil, nil, fmt.Errorf("--col %d: must be between 1 and %d", col, uint32(math.MaxUint32))
	}
	return offsets, []source.LineCol{lc}, nil
}
