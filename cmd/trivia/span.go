package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"trivia/internal/diag"
	"trivia/internal/diagfmt"
	"trivia/internal/project"
	"trivia/internal/source"
)

var spanCmd = &cobra.Command{
	Use:   "span <op> <span> [span|pos]",
	Short: "Evaluate text span arithmetic",
	Long: `span evaluates one text span operation. Spans are written start:length or
start..end (end exclusive); positions are plain byte offsets.

Operations:
  info           <span>
  contains       <span> <span>   second span lies inside the first
  contains-pos   <span> <pos>    start <= pos < end
  intersects     <span> <span>   spans touch or overlap
  intersects-pos <span> <pos>    start <= pos <= end
  overlaps       <span> <span>   spans share at least one byte
  intersection   <span> <span>
  overlap        <span> <span>`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSpan,
}

func init() {
	spanCmd.Flags().String("format", "", "output format (pretty|json|yaml|msgpack)")
}

var errBadSpanSyntax = errors.New("bad span syntax")

type argKind uint8

const (
	argNone argKind = iota
	argSpan
	argPos
)

var spanOps = map[string]argKind{
	"info":           argNone,
	"contains":       argSpan,
	"contains-pos":   argPos,
	"intersects":     argSpan,
	"intersects-pos": argPos,
	"overlaps":       argSpan,
	"intersection":   argSpan,
	"overlap":        argSpan,
}

func runSpan(cmd *cobra.Command, args []string) error {
	o := project.Overrides{}
	o.Format, _ = cmd.Flags().GetString("format")
	cfg, _, err := loadSettings(cmd, o)
	if err != nil {
		return err
	}

	report, diags, fs, err := evalSpanArgs(args)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		opts := diagfmt.PrettyOpts{Color: colorEnabled(cfg.Output.Color, os.Stderr), ShowSource: true}
		if err := diagfmt.PrettyDiagnostics(cmd.ErrOrStderr(), diags, fs, opts); err != nil {
			return err
		}
		return errSilent
	}
	opts := diagfmt.PrettyOpts{Color: colorEnabled(cfg.Output.Color, os.Stdout)}
	return diagfmt.WriteSpanReport(cmd.OutOrStdout(), cfg.Output.Format, report, opts)
}

// evalSpanArgs parses "<op> <span> [span|pos]" and evaluates it. Malformed
// operands come back as diagnostics pointing into a virtual file holding
// the joined arguments; unknown operations and arity errors are plain errors.
func evalSpanArgs(args []string) (diagfmt.SpanReport, []diag.Diagnostic, *source.FileSet, error) {
	op := strings.ToLower(args[0])
	kind, ok := spanOps[op]
	if !ok {
		names := make([]string, 0, len(spanOps))
		for name := range spanOps {
			names = append(names, name)
		}
		slices.Sort(names)
		return diagfmt.SpanReport{}, nil, nil, fmt.Errorf("unknown span operation %q (expected %s)", args[0], strings.Join(names, "|"))
	}
	want := 2
	if kind != argNone {
		want = 3
	}
	if len(args) != want {
		return diagfmt.SpanReport{}, nil, nil, fmt.Errorf("%s takes %d operand(s), got %d", op, want-1, len(args)-1)
	}

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("<args>", []byte(strings.Join(args, " ")))
	bag := diag.NewBag(len(args))
	reporter := diag.BagReporter{Bag: bag}

	// смещения аргументов в склеенной строке
	offsets := make([]uint32, len(args))
	var off uint32
	for i, a := range args {
		offsets[i] = off
		off += uint32(len(a)) + 1 // аргументы cobra короче 4 ГиБ
	}
	spanOf := func(i int) source.Span {
		return source.NewTextSpan(offsets[i], uint32(len(args[i]))).In(fileID)
	}

	report := diagfmt.SpanReport{Op: op}
	a, err := parseSpanArg(args[1])
	if err != nil {
		reportSpanError(reporter, spanOf(1), err)
	}
	report.A = diagfmt.MakeSpan(a)

	var b source.TextSpan
	var pos uint32
	switch kind {
	case argSpan:
		if b, err = parseSpanArg(args[2]); err != nil {
			reportSpanError(reporter, spanOf(2), err)
		}
		bj := diagfmt.MakeSpan(b)
		report.B = &bj
	case argPos:
		if pos, err = parsePos(args[2]); err != nil {
			reportSpanError(reporter, spanOf(2), err)
		}
		report.Pos = &pos
	}
	if bag.Len() > 0 {
		bag.Sort()
		return diagfmt.SpanReport{}, bag.Items(), fs, nil
	}

	setBool := func(v bool) { report.Bool = &v }
	setSpan := func(s source.TextSpan, found bool) {
		report.Found = &found
		if found {
			sj := diagfmt.MakeSpan(s)
			report.Span = &sj
		}
	}
	switch op {
	case "contains":
		setBool(a.ContainsTextSpan(b))
	case "contains-pos":
		setBool(a.ContainsPosition(pos))
	case "intersects":
		setBool(a.IntersectsWith(b))
	case "intersects-pos":
		setBool(a.IntersectsWithPosition(pos))
	case "overlaps":
		setBool(a.OverlapsWith(b))
	case "intersection":
		setSpan(a.Intersection(b))
	case "overlap":
		setSpan(a.Overlap(b))
	}
	return report, nil, fs, nil
}

// parseSpanArg accepts "start:length" or "start..end".
func parseSpanArg(s string) (source.TextSpan, error) {
	if lo, hi, ok := strings.Cut(s, ".."); ok {
		start, end, err := parseIntPair(lo, hi)
		if err != nil {
			return source.TextSpan{}, err
		}
		if start >= 0 && end >= 0 {
			ustart, err1 := safecast.Conv[uint32](start)
			uend, err2 := safecast.Conv[uint32](end)
			if err := errors.Join(err1, err2); err != nil {
				return source.TextSpan{}, fmt.Errorf("%w: %q: %w", errBadSpanSyntax, s, err)
			}
			return source.TextSpanFromBounds(ustart, uend)
		}
		return source.CreateTextSpanFromBounds(start, end)
	}
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		start, length, err := parseIntPair(lo, hi)
		if err != nil {
			return source.TextSpan{}, err
		}
		sp, err := source.CreateTextSpan(start, length)
		if err != nil && !errors.Is(err, source.ErrNegativeInput) {
			return source.TextSpan{}, fmt.Errorf("%w: %w", errBadSpanSyntax, err)
		}
		return sp, err
	}
	return source.TextSpan{}, fmt.Errorf("%w: %q (expected start:length or start..end)", errBadSpanSyntax, s)
}

func parseIntPair(a, b string) (int, int, error) {
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not an integer", errBadSpanSyntax, a)
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not an integer", errBadSpanSyntax, b)
	}
	return x, y, nil
}

func parsePos(s string) (uint32, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: position %q is not an integer", errBadSpanSyntax, s)
	}
	if v < 0 {
		return 0, &source.NegativeInputError{Field: "pos", Value: v}
	}
	pos, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, fmt.Errorf("%w: position %d: %w", errBadSpanSyntax, v, err)
	}
	return pos, nil
}

func reportSpanError(r diag.Reporter, sp source.Span, err error) {
	code := diag.SpanBadSyntax
	switch {
	case errors.Is(err, source.ErrNegativeInput):
		code = diag.SpanNegativeInput
	case errors.Is(err, source.ErrEndBeforeStart):
		code = diag.SpanEndBeforeStart
	}
	diag.ReportError(r, code, sp, err.Error()).Emit()
}
