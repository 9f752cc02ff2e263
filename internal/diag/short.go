package diag

import (
	"fmt"
	"sort"
	"strings"

	"trivia/internal/source"
)

type shortDiagnostic struct {
	Severity Severity
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics one per line as
// "<path>:<line>:<col>: <SEV> <CODE>: <msg>", sorted by location. Notes follow
// with severity "note". Spans pointing at unknown files are skipped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	notes := make(map[int][]shortDiagnostic)
	for _, d := range diags {
		loc, ok := resolveSpan(fs, d.Primary)
		if !ok {
			continue
		}
		entry := shortDiagnostic{
			Severity: d.Severity,
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		}
		rendered = append(rendered, entry)
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(fs, note.Span)
			if !nok {
				continue
			}
			idx := len(rendered) - 1
			notes[idx] = append(notes[idx], shortDiagnostic{
				Code:    entry.Code,
				Path:    nloc.Path,
				Line:    nloc.Line,
				Column:  nloc.Column,
				Message: sanitizeMessage(note.Msg),
			})
		}
	}

	order := make([]int, len(rendered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := rendered[order[i]], rendered[order[j]]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})

	var b strings.Builder
	for _, idx := range order {
		d := rendered[idx]
		fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n", d.Path, d.Line, d.Column, d.Severity, d.Code, d.Message)
		for _, n := range notes[idx] {
			fmt.Fprintf(&b, "%s:%d:%d: note %s: %s\n", n.Path, n.Line, n.Column, n.Code, n.Message)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (resolvedSpan, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{}, false
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{Path: file.Path, Line: start.Line, Column: start.Col}, true
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
