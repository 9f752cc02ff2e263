package project

import (
	"errors"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"trivia/internal/diag"
	"trivia/internal/source"
)

// ConfigDiagnostic turns a LoadConfig error into a ProjInvalidConfig
// diagnostic inside the config file. TOML syntax errors point at the
// offending bytes; other errors sit at the start of the file. ok is false
// when the file itself cannot be read.
func ConfigDiagnostic(fs *source.FileSet, path string, err error) (d diag.Diagnostic, ok bool) {
	id, loadErr := fs.Load(path)
	if loadErr != nil {
		return diag.Diagnostic{}, false
	}
	file := fs.Get(id)
	primary := source.Span{File: id}
	msg := err.Error()

	var perr toml.ParseError
	if errors.As(err, &perr) {
		msg = "invalid TOML: " + perr.Message
		primary = parseErrorSpan(file, perr.Position)
	}
	return diag.NewError(diag.ProjInvalidConfig, primary, msg), true
}

// parseErrorSpan prefers the byte range of pos and falls back to the start
// of its line when the range does not agree with the line number.
func parseErrorSpan(file *source.File, pos toml.Position) source.Span {
	line, err := safecast.Conv[uint32](pos.Line)
	if err != nil || line == 0 {
		return source.Span{File: file.ID}
	}
	lineStart, ok := file.OffsetOf(source.LineCol{Line: line, Col: 1})
	if !ok {
		return source.Span{File: file.ID}
	}
	start, err1 := safecast.Conv[uint32](pos.Start)
	length, err2 := safecast.Conv[uint32](pos.Len)
	if err1 != nil || err2 != nil || start > file.Size() || file.LineColOf(start).Line != line {
		return source.Span{File: file.ID, Start: lineStart, End: lineStart}
	}
	end := min(uint64(start)+uint64(length), uint64(file.Size()))
	return source.Span{File: file.ID, Start: start, End: uint32(end)} // end <= Size
}
