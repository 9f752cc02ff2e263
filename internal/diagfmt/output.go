package diagfmt

import (
	"trivia/internal/diag"
	"trivia/internal/driver"
	"trivia/internal/source"
	"trivia/internal/token"
)

// LocationJSON представляет местоположение в файле
type LocationJSON struct {
	File      string `json:"file" yaml:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte" msgpack:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" yaml:"start_line,omitempty" msgpack:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" yaml:"start_col,omitempty" msgpack:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" yaml:"end_line,omitempty" msgpack:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" yaml:"end_col,omitempty" msgpack:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку
type NoteJSON struct {
	Message  string       `json:"message" yaml:"message" msgpack:"message"`
	Location LocationJSON `json:"location" yaml:"location" msgpack:"location"`
}

// DiagnosticJSON представляет диагностику
type DiagnosticJSON struct {
	Severity string       `json:"severity" yaml:"severity" msgpack:"severity"`
	Code     string       `json:"code" yaml:"code" msgpack:"code"`
	Message  string       `json:"message" yaml:"message" msgpack:"message"`
	Location LocationJSON `json:"location" yaml:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" yaml:"notes,omitempty" msgpack:"notes,omitempty"`
}

type CommentJSON struct {
	Kind               token.CommentKind `json:"kind" yaml:"kind" msgpack:"kind"`
	Pos                uint32            `json:"pos" yaml:"pos" msgpack:"pos"`
	End                uint32            `json:"end" yaml:"end" msgpack:"end"`
	Line               uint32            `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Col                uint32            `json:"col,omitempty" yaml:"col,omitempty" msgpack:"col,omitempty"`
	HasTrailingNewLine bool              `json:"has_trailing_new_line" yaml:"has_trailing_new_line" msgpack:"nl"`
	Pinned             bool              `json:"pinned,omitempty" yaml:"pinned,omitempty" msgpack:"pinned,omitempty"`
	Terminated         bool              `json:"terminated" yaml:"terminated" msgpack:"terminated"`
	Text               string            `json:"text" yaml:"text" msgpack:"text"`
}

type QueryJSON struct {
	Offset     uint32        `json:"offset" yaml:"offset" msgpack:"offset"`
	Line       uint32        `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Col        uint32        `json:"col,omitempty" yaml:"col,omitempty" msgpack:"col,omitempty"`
	OutOfRange bool          `json:"out_of_range,omitempty" yaml:"out_of_range,omitempty" msgpack:"out_of_range,omitempty"`
	Leading    []CommentJSON `json:"leading,omitempty" yaml:"leading,omitempty" msgpack:"leading,omitempty"`
	Trailing   []CommentJSON `json:"trailing,omitempty" yaml:"trailing,omitempty" msgpack:"trailing,omitempty"`
}

type FileJSON struct {
	Path    string      `json:"path" yaml:"path" msgpack:"path"`
	Size    uint32      `json:"size" yaml:"size" msgpack:"size"`
	Shebang string      `json:"shebang,omitempty" yaml:"shebang,omitempty" msgpack:"shebang,omitempty"`
	Cached  bool        `json:"cached,omitempty" yaml:"cached,omitempty" msgpack:"cached,omitempty"`
	Queries []QueryJSON `json:"queries" yaml:"queries" msgpack:"queries"`
}

// ScanOutput представляет корневую структуру машинного вывода
type ScanOutput struct {
	Files       []FileJSON       `json:"files" yaml:"files" msgpack:"files"`
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" yaml:"count" msgpack:"count"`
	Comments    int              `json:"comments" yaml:"comments" msgpack:"comments"`
}

// BuildScanOutput converts a scan result into the serialisable model.
func BuildScanOutput(res *driver.ScanResult, includePositions bool) ScanOutput {
	out := ScanOutput{
		Files:       make([]FileJSON, 0, len(res.Files)),
		Diagnostics: make([]DiagnosticJSON, 0),
	}
	for i := range res.Files {
		f := &res.Files[i]
		file := res.FileSet.Get(f.FileID)
		fj := FileJSON{
			Path:    f.Path,
			Size:    f.Size,
			Shebang: f.Shebang,
			Cached:  f.Cached,
			Queries: make([]QueryJSON, 0, len(f.Queries)),
		}
		for _, q := range f.Queries {
			qj := QueryJSON{Offset: q.Offset, Line: q.Line, Col: q.Col, OutOfRange: q.OutOfRange}
			qj.Leading = makeComments(q.Leading, file, includePositions)
			qj.Trailing = makeComments(q.Trailing, file, includePositions)
			out.Comments += len(q.Leading) + len(q.Trailing)
			fj.Queries = append(fj.Queries, qj)
		}
		out.Files = append(out.Files, fj)
	}
	for _, d := range res.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, makeDiagnostic(d, res.FileSet, includePositions))
	}
	out.Count = len(out.Diagnostics)
	return out
}

func makeComments(infos []driver.CommentInfo, file *source.File, includePositions bool) []CommentJSON {
	if len(infos) == 0 {
		return nil
	}
	out := make([]CommentJSON, 0, len(infos))
	for _, c := range infos {
		cj := CommentJSON{
			Kind:               c.Range.Kind,
			Pos:                c.Range.Pos,
			End:                c.Range.End,
			HasTrailingNewLine: c.Range.HasTrailingNewLine,
			Pinned:             c.Pinned,
			Terminated:         c.Terminated,
			Text:               c.Text,
		}
		if includePositions && file != nil {
			lc := file.LineColOf(c.Range.Pos)
			cj.Line, cj.Col = lc.Line, lc.Col
		}
		out = append(out, cj)
	}
	return out
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, includePositions bool) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = f.Path
	if includePositions {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func makeDiagnostic(d diag.Diagnostic, fs *source.FileSet, includePositions bool) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, includePositions),
	}
	for _, n := range d.Notes {
		dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, includePositions)})
	}
	return dj
}
