package source

import (
	"fmt"
)

// Span is a byte range inside one file of a FileSet.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// TextSpan drops the file and returns the [Start, End) interval.
// A malformed span with End < Start yields an empty TextSpan at Start.
func (s Span) TextSpan() TextSpan {
	if s.End < s.Start {
		return TextSpan{Start: s.Start}
	}
	return TextSpan{Start: s.Start, Length: s.End - s.Start}
}

// ZeroideToEnd collapses the span to its end.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
