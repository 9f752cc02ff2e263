package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"trivia/internal/diag"
	"trivia/internal/driver"
	"trivia/internal/project"
)

// JSON writes the scan result as a single JSON document.
func JSON(w io.Writer, res *driver.ScanResult, opts JSONOpts) error {
	return encodeJSON(w, BuildScanOutput(res, opts.IncludePositions), opts.Indent)
}

// YAML writes the scan result as YAML.
func YAML(w io.Writer, res *driver.ScanResult) error {
	return encodeYAML(w, BuildScanOutput(res, true))
}

// Msgpack writes the scan result as one msgpack value.
func Msgpack(w io.Writer, res *driver.ScanResult) error {
	return msgpack.NewEncoder(w).Encode(BuildScanOutput(res, true))
}

// Short writes only the diagnostics of res, one per line.
func Short(w io.Writer, res *driver.ScanResult, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(res.Diagnostics(), res.FileSet, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Write dispatches on one of the project output formats.
func Write(w io.Writer, format string, res *driver.ScanResult, opts PrettyOpts) error {
	switch format {
	case project.FormatPretty, "":
		return PrettyScan(w, res, opts)
	case project.FormatJSON:
		return JSON(w, res, JSONOpts{IncludePositions: true, Indent: true})
	case project.FormatYAML:
		return YAML(w, res)
	case project.FormatMsgpack:
		return Msgpack(w, res)
	case project.FormatShort:
		return Short(w, res, opts.ShowNotes)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
