package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.ts", []byte("hello world"), 0)
	id2 := fs.Add("test.ts", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("Expected ids 0 and 1, got %d and %d", id1, id2)
	}

	// новая версия получает новый ID, старая остаётся доступной
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("new version content = %q", got)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("old version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fs.Len())
	}
	if fs.Get(FileID(7)) != nil {
		t.Error("Get of unknown id should be nil")
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.ts", []byte("a\nb\n")))

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestContentIsKeptByteExact(t *testing.T) {
	fs := NewFileSet()
	raw := []byte{0xEF, 0xBB, 0xBF, '/', '/', 'x', '\r', '\n', 'y'}
	file := fs.Get(fs.AddVirtual("bom.ts", raw))

	if string(file.Content) != string(raw) {
		t.Errorf("content changed: %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag")
	}
	if file.Flags&FileHasCRLF == 0 {
		t.Error("Expected FileHasCRLF flag")
	}
	if got := file.GetLine(1); got != "\ufeff//x" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := file.GetLine(2); got != "y" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := file.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.ts", []byte("ab\ncd\n\nα"))

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"file start", 0, LineCol{Line: 1, Col: 1}},
		{"newline belongs to its line", 2, LineCol{Line: 1, Col: 3}},
		{"second line", 3, LineCol{Line: 2, Col: 1}},
		{"empty line", 6, LineCol{Line: 3, Col: 1}},
		{"utf8 byte column", 8, LineCol{Line: 4, Col: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
			if start != tt.want {
				t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
			}
		})
	}
}

func TestOffsetOf(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("o.ts", []byte("ab\ncd")))

	tests := []struct {
		lc     LineCol
		want   uint32
		wantOK bool
	}{
		{LineCol{Line: 1, Col: 1}, 0, true},
		{LineCol{Line: 2, Col: 2}, 4, true},
		{LineCol{Line: 2, Col: 40}, 5, true},
		{LineCol{Line: 1, Col: 9}, 2, true},
		{LineCol{Line: 3, Col: 1}, 0, false},
		{LineCol{Line: 0, Col: 1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := file.OffsetOf(tt.lc)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("OffsetOf(%+v) = %d, %v; want %d, %v", tt.lc, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLineColOf(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.ts", []byte("ab\ncd")))
	for off, want := range map[uint32]LineCol{0: {1, 1}, 2: {1, 3}, 3: {2, 1}, 5: {2, 3}, 99: {2, 3}} {
		if got := file.LineColOf(off); got != want {
			t.Errorf("LineColOf(%d) = %+v, want %+v", off, got, want)
		}
	}
	// OffsetOf обратна LineColOf внутри строки
	for off := uint32(0); off <= file.Size(); off++ {
		if back, ok := file.OffsetOf(file.LineColOf(off)); !ok || back != off {
			t.Errorf("OffsetOf(LineColOf(%d)) = %d, %v", off, back, ok)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.ts")
	if err := os.WriteFile(path, []byte("// a\r\ncode"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if file.Text() != "// a\r\ncode" {
		t.Errorf("Text() = %q", file.Text())
	}
	if file.Size() != 10 {
		t.Errorf("Size() = %d, want 10", file.Size())
	}
	if file.Flags&FileVirtual != 0 {
		t.Error("loaded file must not be virtual")
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.ts")); err == nil {
		t.Error("expected error for missing file")
	}
}
