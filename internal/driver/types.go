package driver

import (
	"fmt"
	"strings"
	"time"

	"trivia/internal/diag"
	"trivia/internal/source"
	"trivia/internal/token"
)

// Mode selects which comment ranges a query collects.
type Mode uint8

const (
	ModeLeading Mode = iota + 1
	ModeTrailing
	ModeBoth
)

func (m Mode) String() string {
	switch m {
	case ModeLeading:
		return "leading"
	case ModeTrailing:
		return "trailing"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

// ParseMode accepts leading|trailing|both.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leading":
		return ModeLeading, nil
	case "trailing":
		return ModeTrailing, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("invalid mode %q (expected leading|trailing|both)", s)
}

func (m Mode) leading() bool  { return m == ModeLeading || m == ModeBoth }
func (m Mode) trailing() bool { return m == ModeTrailing || m == ModeBoth }

// ScanRequest describes what to collect from every file.
type ScanRequest struct {
	Mode Mode
	// Offsets to query; with no Lines either, the file header (offset 0).
	Offsets []uint32
	// Lines are 1-based positions resolved per file, queried after Offsets.
	Lines          []source.LineCol
	MaxDiagnostics int
	// MinSeverity drops findings below it. Errors are always kept.
	MinSeverity diag.Severity
}

func (r ScanRequest) offsets() []uint32 {
	if len(r.Offsets) == 0 && len(r.Lines) == 0 {
		return []uint32{0}
	}
	return r.Offsets
}

// CommentInfo is one comment range with derived facts.
type CommentInfo struct {
	Range      token.CommentRange `json:"range" yaml:"range" msgpack:"range"`
	Text       string             `json:"text" yaml:"text" msgpack:"text"`
	Pinned     bool               `json:"pinned,omitempty" yaml:"pinned,omitempty" msgpack:"pinned,omitempty"`
	Terminated bool               `json:"terminated" yaml:"terminated" msgpack:"terminated"`
}

// QueryResult holds the comments found at one offset.
type QueryResult struct {
	Offset   uint32        `json:"offset" yaml:"offset" msgpack:"offset"`
	Leading  []CommentInfo `json:"leading,omitempty" yaml:"leading,omitempty" msgpack:"leading,omitempty"`
	Trailing []CommentInfo `json:"trailing,omitempty" yaml:"trailing,omitempty" msgpack:"trailing,omitempty"`
	// Line and Col are set for queries given as a line position.
	Line uint32 `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Col  uint32 `json:"col,omitempty" yaml:"col,omitempty" msgpack:"col,omitempty"`
	// Offset (or Line) is past the end of the file; nothing was scanned.
	OutOfRange bool `json:"outOfRange,omitempty" yaml:"outOfRange,omitempty" msgpack:"oor,omitempty"`
}

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path    string        `json:"path" yaml:"path"`
	FileID  source.FileID `json:"-" yaml:"-"`
	Size    uint32        `json:"size" yaml:"size"`
	Shebang string        `json:"shebang,omitempty" yaml:"shebang,omitempty"`
	Queries []QueryResult `json:"queries" yaml:"queries"`
	Cached  bool          `json:"cached,omitempty" yaml:"cached,omitempty"`
	Bag     *diag.Bag     `json:"-" yaml:"-"`
}

// Comments returns every comment of all queries in query order.
func (r *FileResult) Comments() []CommentInfo {
	if r == nil {
		return nil
	}
	var out []CommentInfo
	for _, q := range r.Queries {
		out = append(out, q.Leading...)
		out = append(out, q.Trailing...)
	}
	return out
}

// ScanResult aggregates a multi-file scan.
type ScanResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	Elapsed time.Duration
}

// HasErrors reports whether any file carries an error diagnostic.
func (r *ScanResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every file bag in file order.
func (r *ScanResult) Diagnostics() []diag.Diagnostic {
	all := diag.NewBag(0)
	for i := range r.Files {
		all.Merge(r.Files[i].Bag)
	}
	return all.Items()
}

// Stage describes a step of the per-file pipeline.
type Stage string

const (
	StageRead  Stage = "read"
	StageCache Stage = "cache"
	StageScan  Stage = "scan"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole scan when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
