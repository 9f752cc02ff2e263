package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"trivia/internal/diag"
	"trivia/internal/driver"
	"trivia/internal/source"
)

// PrettyScan печатает результаты сканирования в человекочитаемом виде:
//
//	src/a.ts (412 bytes)
//	  @0 leading
//	    1:1  MultiLine [0,24) +nl pinned  /*! MIT license */
//
// затем список диагностик.
func PrettyScan(w io.Writer, res *driver.ScanResult, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder

	for i := range res.Files {
		f := &res.Files[i]
		file := res.FileSet.Get(f.FileID)
		b.WriteString(p.path.Sprint(f.Path))
		b.WriteString(p.dim.Sprintf(" (%d bytes)", f.Size))
		if f.Cached {
			b.WriteString(p.dim.Sprint(" cached"))
		}
		b.WriteByte('\n')
		if f.Shebang != "" {
			fmt.Fprintf(&b, "  %s %s\n", p.dim.Sprint("shebang"), truncate(f.Shebang, opts.previewWidth()))
		}
		for _, q := range f.Queries {
			if q.OutOfRange && q.Line != 0 {
				fmt.Fprintf(&b, "  @%d:%d %s\n", q.Line, q.Col, p.error.Sprint("out of range"))
				continue
			}
			if q.OutOfRange {
				fmt.Fprintf(&b, "  @%d %s\n", q.Offset, p.error.Sprint("out of range"))
				continue
			}
			writeGroup(&b, p, file, q.Offset, "leading", q.Leading, opts)
			writeGroup(&b, p, file, q.Offset, "trailing", q.Trailing, opts)
			if len(q.Leading) == 0 && len(q.Trailing) == 0 {
				fmt.Fprintf(&b, "  @%d %s\n", q.Offset, p.dim.Sprint("no comments"))
			}
		}
	}

	if diags := res.Diagnostics(); len(diags) > 0 {
		b.WriteByte('\n')
		writeDiagnostics(&b, p, diags, res.FileSet, opts)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeGroup(b *strings.Builder, p palette, file *source.File, offset uint32, label string, infos []driver.CommentInfo, opts PrettyOpts) {
	if len(infos) == 0 {
		return
	}
	fmt.Fprintf(b, "  @%d %s\n", offset, p.accent.Sprint(label))
	for _, c := range infos {
		pos := ""
		if file != nil {
			lc := file.LineColOf(c.Range.Pos)
			pos = fmt.Sprintf("%d:%d", lc.Line, lc.Col)
		}
		flags := make([]string, 0, 3)
		if c.Range.HasTrailingNewLine {
			flags = append(flags, "+nl")
		}
		if c.Pinned {
			flags = append(flags, p.info.Sprint("pinned"))
		}
		if !c.Terminated {
			flags = append(flags, p.warning.Sprint("unterminated"))
		}
		fmt.Fprintf(b, "    %-8s %s %s", pos, c.Range.Kind, c.Range.TextSpan())
		if len(flags) > 0 {
			b.WriteString(" ")
			b.WriteString(strings.Join(flags, " "))
		}
		fmt.Fprintf(b, "  %s\n", p.dim.Sprint(previewText(c.Text, opts.previewWidth())))
	}
}

// PrettyDiagnostics форматирует диагностики в человекочитаемый вид.
// Для каждой печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем (ShowSource) строку с подчёркиванием ^~~~ по Span, затем Notes.
func PrettyDiagnostics(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	var b strings.Builder
	writeDiagnostics(&b, newPalette(opts.Color), diags, fs, opts)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiagnostics(b *strings.Builder, p palette, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range diags {
		file := fs.Get(d.Primary.File)
		loc := "<unknown>"
		if file != nil {
			start, _ := fs.Resolve(d.Primary)
			loc = fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
		}
		fmt.Fprintf(b, "%s: %s %s: %s\n", p.path.Sprint(loc), p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		if opts.ShowSource && file != nil {
			writeUnderline(b, p.severity(d.Severity), fs, file, d.Primary)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nloc := "<unknown>"
			if nf := fs.Get(n.Span.File); nf != nil {
				start, _ := fs.Resolve(n.Span)
				nloc = fmt.Sprintf("%s:%d:%d", nf.Path, start.Line, start.Col)
			}
			fmt.Fprintf(b, "  %s %s: %s\n", p.note.Sprint("note:"), nloc, n.Msg)
		}
	}
}

// writeUnderline печатает первую строку span и ^~~~ под ней.
func writeUnderline(b *strings.Builder, c interface{ Sprint(...any) string }, fs *source.FileSet, file *source.File, sp source.Span) {
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)
	if line == "" && sp.Empty() {
		return
	}
	lineLen := uint32(len(line)) // строка файла, длина <= Size
	col := min(start.Col, lineLen+1)
	width := uint32(1)
	if end.Line == start.Line && end.Col > start.Col {
		width = end.Col - start.Col
	} else if end.Line != start.Line {
		width = max(1, lineLen+1-col)
	}
	fmt.Fprintf(b, "  | %s\n", line)
	marker := "^" + strings.Repeat("~", int(width)-1)
	fmt.Fprintf(b, "  | %s%s\n", strings.Repeat(" ", int(col)-1), c.Sprint(marker))
}
