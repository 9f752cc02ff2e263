package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves byte offsets to lines.
// A FileSet is not safe for concurrent mutation; once loading is done it may be
// read from many goroutines.
type FileSet struct {
	files []File
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
	}
}

// Add stores content as-is, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	if hasBOM(content) {
		flags |= FileHadBOM
	}
	if hasCRLF(content) {
		flags |= FileHasCRLF
	}

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	return id
}

// Load reads a file from disk and calls Add. Content is not normalized.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: file too large: %w", path, err)
	}
	return fileSet.Add(path, content, 0), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID, or nil for an unknown ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the content as a string for the scanner.
func (f *File) Text() string {
	return string(f.Content)
}

// Size returns len(Content); Load guarantees it fits into uint32.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}

// OffsetOf converts a 1-based line and column into a byte offset.
// The column is clamped to the end of the line.
func (f *File) OffsetOf(lc LineCol) (uint32, bool) {
	if lc.Line == 0 || lc.Col == 0 {
		return 0, false
	}
	start, ok := f.lineStart(lc.Line)
	if !ok {
		return 0, false
	}
	end := f.lineEnd(lc.Line)
	off := start + lc.Col - 1
	if off > end || off < start {
		off = end
	}
	return off, true
}

// LineColOf converts a byte offset into a 1-based line and column.
func (f *File) LineColOf(off uint32) LineCol {
	return toLineCol(f.LineIdx, min(off, f.Size()))
}

// GetLine возвращает строку с заданным номером (1-based) из файла без \n и \r.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	start, ok := f.lineStart(lineNum)
	if !ok {
		return ""
	}
	end := f.lineEnd(lineNum)
	if end > start && f.Content[end-1] == '\r' {
		end--
	}
	return string(f.Content[start:end])
}

func (f *File) lineStart(lineNum uint32) (uint32, bool) {
	if lineNum == 0 {
		return 0, false
	}
	if lineNum == 1 {
		return 0, true
	}
	i := int(lineNum) - 2
	if i >= len(f.LineIdx) {
		return 0, false
	}
	return f.LineIdx[i] + 1, true
}

func (f *File) lineEnd(lineNum uint32) uint32 {
	i := int(lineNum) - 1
	if i < len(f.LineIdx) {
		return f.LineIdx[i]
	}
	return f.Size()
}
