package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"trivia/internal/diagfmt"
)

// resetFlags возвращает флаги к значениям по умолчанию между запусками rootCmd.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err = rootCmd.Execute()
	closeTracing(rootCmd, err != nil)
	return out.String(), errOut.String(), err
}

func decodeScan(t *testing.T, stdout string) diagfmt.ScanOutput {
	t.Helper()
	var got diagfmt.ScanOutput
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	return got
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestCommentsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// offsets: "// one" 0..6, "/*! MIT */" 7..17, "x;" 18, "// two" 21..27, "y" 28
	writeFile(t, "a.js", "// one\n/*! MIT */\nx;\n// two\ny")

	tests := []struct {
		name      string
		stdin     string
		args      []string
		silent    bool
		path      string
		offset    uint32
		line, col uint32
		oor       bool
		comments  int
		diags     int
	}{
		{name: "header", args: []string{"comments", "--format", "json", "a.js"}, path: "a.js", comments: 2, diags: 1},
		{name: "line and column", args: []string{"comments", "--line", "3", "--col", "3", "--format", "json", "a.js"}, path: "a.js", offset: 20, line: 3, col: 3, comments: 1},
		{name: "stdin", stdin: "/* in */ x", args: []string{"comments", "--format", "json", "-"}, path: "<stdin>", comments: 1},
		{name: "line past end", args: []string{"comments", "--line", "40", "--format", "json", "a.js"}, silent: true, path: "a.js", offset: 29, line: 40, col: 1, oor: true, diags: 1},
		{name: "min severity hides info", args: []string{"--min-severity", "warning", "comments", "--format", "json", "a.js"}, path: "a.js", comments: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.stdin, tt.args...)
			if tt.silent != errors.Is(err, errSilent) || (!tt.silent && err != nil) {
				t.Fatalf("err = %v, want silent=%v", err, tt.silent)
			}
			got := decodeScan(t, stdout)
			if len(got.Files) != 1 || len(got.Files[0].Queries) != 1 {
				t.Fatalf("files = %+v", got.Files)
			}
			f, q := got.Files[0], got.Files[0].Queries[0]
			if f.Path != tt.path {
				t.Errorf("path = %q, want %q", f.Path, tt.path)
			}
			if q.Offset != tt.offset || q.Line != tt.line || q.Col != tt.col || q.OutOfRange != tt.oor {
				t.Errorf("query = %+v", q)
			}
			if got.Comments != tt.comments || got.Count != tt.diags {
				t.Errorf("comments = %d, diagnostics = %d; want %d, %d", got.Comments, got.Count, tt.comments, tt.diags)
			}
		})
	}
}

func TestCommentsShortFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "b.js", "x /* open")

	stdout, _, err := runCLI(t, "", "comments", "--trailing", "--pos", "1", "--format", "short", "b.js")
	if err != nil {
		t.Fatalf("warnings must not fail the command: %v", err)
	}
	want := "b.js:1:3: WARNING LEX1003: block comment is not closed\nb.js:1:10: note LEX1003: file ends here\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCommentsMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, stderr, err := runCLI(t, "", "--trace-level", "error", "comments", "missing.js")
	if err == nil || errors.Is(err, errSilent) {
		t.Fatalf("err = %v, want a load error", err)
	}
	if !strings.Contains(stderr, "trace: last") || !strings.Contains(stderr, "read:missing.js") {
		t.Errorf("failure should dump the trace ring, stderr:\n%s", stderr)
	}
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "trivia.toml"), "[scan]\ncache = \".trivia-cache\"\n")
	writeFile(t, filepath.Join(dir, "src", "a.ts"), "// a\nx")
	writeFile(t, filepath.Join(dir, "src", "b.ts"), "/*! keep */\ny")
	cacheDir := filepath.Join(dir, ".trivia-cache")

	stdout, _, err := runCLI(t, "", "scan", "--ui", "off", "--no-cache", "--format", "json")
	if err != nil {
		t.Fatalf("scan --no-cache: %v", err)
	}
	if got := decodeScan(t, stdout); len(got.Files) != 2 || got.Comments != 2 || got.Count != 1 {
		t.Errorf("scan output = %+v", got)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Errorf("--no-cache created %s (stat err %v)", cacheDir, err)
	}

	for i, wantCached := range []bool{false, true} {
		stdout, _, err := runCLI(t, "", "scan", "--ui", "off", "--format", "json")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		for _, f := range decodeScan(t, stdout).Files {
			if f.Cached != wantCached {
				t.Errorf("run %d: %s cached = %v, want %v", i, f.Path, f.Cached, wantCached)
			}
		}
	}

	stdout, _, err = runCLI(t, "", "scan", "--ui", "off", "--no-cache", "--pos", "100", "--format", "json")
	if !errors.Is(err, errSilent) {
		t.Fatalf("offset past the end must fail the scan, err = %v", err)
	}
	got := decodeScan(t, stdout)
	if got.Count != 2 {
		t.Errorf("diagnostics = %d, want one per file", got.Count)
	}
	for _, f := range got.Files {
		if len(f.Queries) != 1 || !f.Queries[0].OutOfRange {
			t.Errorf("%s queries = %+v", f.Path, f.Queries)
		}
	}
}

func TestScanTraceRingOnFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "a.ts"), "// a\nx")

	_, stderr, err := runCLI(t, "", "--trace-level", "phase", "scan", "--ui", "off", "--format", "json", ".")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "trace: last") {
		t.Errorf("successful run dumped the trace ring:\n%s", stderr)
	}

	_, stderr, err = runCLI(t, "", "--trace-level", "phase", "scan", "--ui", "off", "--pos", "9", "--format", "json", ".")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "trace: last") || !strings.Contains(stderr, "scan") {
		t.Errorf("failed run should dump the trace ring, stderr:\n%s", stderr)
	}
}

func TestSpanCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "", "span", "--format", "json", "intersects", "0:5", "5:5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"result": true`) {
		t.Errorf("stdout = %s", stdout)
	}

	_, stderr, err := runCLI(t, "", "span", "contains", "7..2", "-1:4")
	if !errors.Is(err, errSilent) {
		t.Fatalf("err = %v", err)
	}
	for _, code := range []string{"SPN2001", "SPN2002"} {
		if !strings.Contains(stderr, code) {
			t.Errorf("stderr missing %s:\n%s", code, stderr)
		}
	}
}
