package project

import (
	"errors"
	"testing"

	"trivia/internal/diag"
	"trivia/internal/source"
)

func TestConfigDiagnostic(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[scan]\nmode = \"leading\"\njobs = = 2\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	fs := source.NewFileSet()
	d, ok := ConfigDiagnostic(fs, path, err)
	if !ok {
		t.Fatal("config file not loaded")
	}
	if d.Code != diag.ProjInvalidConfig || d.Severity != diag.SevError {
		t.Errorf("diagnostic = %+v", d)
	}
	if size := fs.Get(d.Primary.File).Size(); d.Primary.End > size || d.Primary.Start > d.Primary.End {
		t.Errorf("span %v outside file of %d bytes", d.Primary, size)
	}
	if start, _ := fs.Resolve(d.Primary); start.Line != 3 {
		t.Errorf("error reported on line %d, want 3", start.Line)
	}
}

func TestConfigDiagnosticValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output]\nformat = \"xml\"\n")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	d, ok := ConfigDiagnostic(source.NewFileSet(), path, err)
	if !ok || !d.Primary.Empty() || d.Primary.Start != 0 {
		t.Errorf("diagnostic = %+v, %v", d, ok)
	}

	if _, ok := ConfigDiagnostic(source.NewFileSet(), path+".missing", errors.New("x")); ok {
		t.Error("missing file should not produce a diagnostic")
	}
}
