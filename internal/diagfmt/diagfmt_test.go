package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"trivia/internal/diag"
	"trivia/internal/driver"
	"trivia/internal/project"
	"trivia/internal/source"
)

func sampleResult(t *testing.T, content string, req driver.ScanRequest) *driver.ScanResult {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.ts", []byte(content)))
	res := driver.ScanText(context.Background(), file, req)
	return &driver.ScanResult{FileSet: fs, Files: []driver.FileResult{*res}}
}

const header = "/*! MIT */\n// héllo   world\nx"

func TestPrettyScan(t *testing.T) {
	res := sampleResult(t, header, driver.ScanRequest{Mode: driver.ModeLeading, MaxDiagnostics: 10})

	var buf bytes.Buffer
	if err := PrettyScan(&buf, res, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"a.ts (30 bytes)",
		"  @0 leading",
		"    1:1      MultiLine [0,10) +nl pinned  /*! MIT */",
		"    2:1      SingleLine [11,28) +nl  // héllo world",
		"",
		"a.ts:1:1: INFO LEX1010: pinned comment",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("pretty output (-want +got):\n%s", diff)
	}
}

func TestPrettyScanOutOfRangeAndEmpty(t *testing.T) {
	res := sampleResult(t, "x", driver.ScanRequest{Mode: driver.ModeTrailing, Offsets: []uint32{0, 7}, MaxDiagnostics: 10})
	var buf bytes.Buffer
	if err := PrettyScan(&buf, res, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"@0 no comments", "@7 out of range", "ERROR SPN2003"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrettyDiagnosticsUnderline(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("b.ts", []byte("let a; /* open"))
	d := diag.New(diag.SevWarning, diag.LexUnterminatedBlockComment, source.Span{File: id, Start: 7, End: 14}, "block comment is not closed").
		WithNote(source.Span{File: id, Start: 14, End: 14}, "file ends here")

	var buf bytes.Buffer
	if err := PrettyDiagnostics(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{ShowSource: true, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := "b.ts:1:8: WARNING LEX1003: block comment is not closed\n" +
		"  | let a; /* open\n" +
		"  |        ^~~~~~~\n" +
		"  note: b.ts:1:15: file ends here\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestColorToggle(t *testing.T) {
	res := sampleResult(t, header, driver.ScanRequest{Mode: driver.ModeLeading, MaxDiagnostics: 10})
	var plain, colored bytes.Buffer
	_ = PrettyScan(&plain, res, PrettyOpts{Color: false})
	_ = PrettyScan(&colored, res, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escapes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escapes")
	}
}

func TestMachineFormats(t *testing.T) {
	res := sampleResult(t, header, driver.ScanRequest{Mode: driver.ModeLeading, MaxDiagnostics: 10})
	want := BuildScanOutput(res, true)
	if want.Comments != 2 || want.Count != 1 || want.Files[0].Queries[0].Leading[1].Line != 2 {
		t.Fatalf("unexpected model: %+v", want)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, project.FormatJSON, res, PrettyOpts{}); err != nil {
			t.Fatal(err)
		}
		var got ScanOutput
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if !strings.Contains(buf.String(), `"kind": "MultiLine"`) {
			t.Errorf("kind not rendered as text:\n%s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, project.FormatYAML, res, PrettyOpts{}); err != nil {
			t.Fatal(err)
		}
		var got ScanOutput
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("msgpack", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, project.FormatMsgpack, res, PrettyOpts{}); err != nil {
			t.Fatal(err)
		}
		var got ScanOutput
		if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	if err := Write(&bytes.Buffer{}, "xml", res, PrettyOpts{}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestShortFormat(t *testing.T) {
	res := sampleResult(t, "x /* open", driver.ScanRequest{Mode: driver.ModeTrailing, Offsets: []uint32{1}, MaxDiagnostics: 10})

	var buf bytes.Buffer
	if err := Write(&buf, project.FormatShort, res, PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := "a.ts:1:3: WARNING LEX1003: block comment is not closed\n" +
		"a.ts:1:10: note LEX1003: file ends here\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("short output (-want +got):\n%s", diff)
	}

	buf.Reset()
	clean := sampleResult(t, "// ok\nx", driver.ScanRequest{Mode: driver.ModeLeading, MaxDiagnostics: 10})
	if err := Write(&buf, project.FormatShort, clean, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("no diagnostics should print nothing, got %q", buf.String())
	}
}

func TestPrettyScanLineQueryOutOfRange(t *testing.T) {
	res := sampleResult(t, "x\ny", driver.ScanRequest{Mode: driver.ModeLeading, Lines: []source.LineCol{{Line: 5, Col: 2}}, MaxDiagnostics: 10})
	var buf bytes.Buffer
	if err := PrettyScan(&buf, res, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"@5:2 out of range", "line 5 is past the end of the file (2 lines)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestPreviewText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"/* a\n *  b */", 40, "/* a * b */"},
		{"// caf\u0065\u0301", 40, "// café"},
		{"// 0123456789", 8, "// 01..."},
		{"// 日本語テキスト", 9, "// 日..."},
		{"//\x00x", 10, "//\ufffdx"},
	}
	for _, tt := range tests {
		if got := previewText(tt.in, tt.width); got != tt.want {
			t.Errorf("previewText(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestSpanReport(t *testing.T) {
	a, b := MakeSpan(source.NewTextSpan(0, 5)), MakeSpan(source.NewTextSpan(5, 5))
	no, yes := false, true

	tests := []struct {
		name string
		r    SpanReport
		want string
	}{
		{"bool", SpanReport{Op: "intersects", A: a, B: &b, Bool: &yes}, "intersects [0,5) [5,10) = true\n"},
		{"none", SpanReport{Op: "overlap", A: a, B: &b, Found: &no}, "overlap [0,5) [5,10) = none\n"},
		{"span", SpanReport{Op: "intersection", A: a, B: &b, Span: &SpanJSON{Start: 5, End: 5, Empty: true}, Found: &yes}, "intersection [0,5) [5,10) = [5,5)\n"},
		{"info", SpanReport{Op: "info", A: a}, "info [0,5) = start=0 length=5 end=5 empty=false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteSpanReport(&buf, project.FormatPretty, tt.r, PrettyOpts{}); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}

	var buf bytes.Buffer
	if err := WriteSpanReport(&buf, project.FormatJSON, SpanReport{Op: "contains", A: a, B: &b, Bool: &no}, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"result": false`) {
		t.Errorf("false result dropped:\n%s", buf.String())
	}
}
