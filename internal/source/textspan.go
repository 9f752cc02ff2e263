package source

import (
	"fmt"
	"math"

	"fortio.org/safecast"
)

// TextSpan is the half-open interval [Start, Start+Length) of byte offsets.
// It is a plain value: compare with ==, copy freely.
type TextSpan struct {
	Start  uint32
	Length uint32
}

// NewTextSpan builds a span of length bytes at start. It never fails: a
// length reaching past math.MaxUint32 is cut at math.MaxUint32, so
// End() >= Start holds. Use CreateTextSpan to reject such input instead.
func NewTextSpan(start, length uint32) TextSpan {
	return TextSpan{Start: start, Length: min(length, math.MaxUint32-start)}
}

// TextSpanFromBounds builds [start, end). It fails when end < start.
func TextSpanFromBounds(start, end uint32) (TextSpan, error) {
	if end < start {
		return TextSpan{}, &EndBeforeStartError{Start: start, End: end}
	}
	return TextSpan{Start: start, Length: end - start}, nil
}

// CreateTextSpan is the entry point for signed input. Negative start or length
// is reported as *NegativeInputError (start is checked first); values that do
// not fit into uint32 are rejected as well.
func CreateTextSpan(start, length int) (TextSpan, error) {
	if start < 0 {
		return TextSpan{}, &NegativeInputError{Field: "start", Value: start}
	}
	if length < 0 {
		return TextSpan{}, &NegativeInputError{Field: "length", Value: length}
	}
	ustart, err := safecast.Conv[uint32](start)
	if err != nil {
		return TextSpan{}, fmt.Errorf("span start %d: %w", start, err)
	}
	ulength, err := safecast.Conv[uint32](length)
	if err != nil {
		return TextSpan{}, fmt.Errorf("span length %d: %w", length, err)
	}
	if _, err := safecast.Conv[uint32](uint64(ustart) + uint64(ulength)); err != nil {
		return TextSpan{}, fmt.Errorf("span end %d+%d: %w", start, length, err)
	}
	return TextSpan{Start: ustart, Length: ulength}, nil
}

// CreateTextSpanFromBounds is CreateTextSpan(start, end-start); a reversed pair
// therefore surfaces as a negative length.
func CreateTextSpanFromBounds(start, end int) (TextSpan, error) {
	return CreateTextSpan(start, end-start)
}

// End is Start+Length, saturated at math.MaxUint32 for literals built
// without NewTextSpan.
func (s TextSpan) End() uint32 {
	if s.Length > math.MaxUint32-s.Start {
		return math.MaxUint32
	}
	return s.Start + s.Length
}

func (s TextSpan) IsEmpty() bool {
	return s.Length == 0
}

// ContainsPosition reports Start <= pos < End. The end is exclusive.
func (s TextSpan) ContainsPosition(pos uint32) bool {
	return pos >= s.Start && pos < s.End()
}

// ContainsTextSpan reports whether s fully covers other, equality included.
func (s TextSpan) ContainsTextSpan(other TextSpan) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

// Intersection returns the common part of s and other. Spans that only touch
// intersect in a zero-length span at the touch point.
func (s TextSpan) Intersection(other TextSpan) (TextSpan, bool) {
	lo := max(s.Start, other.Start)
	hi := min(s.End(), other.End())
	if lo > hi {
		return TextSpan{}, false
	}
	return TextSpan{Start: lo, Length: hi - lo}, true
}

// Overlap is Intersection without the zero-length results: touching spans
// intersect but do not overlap.
func (s TextSpan) Overlap(other TextSpan) (TextSpan, bool) {
	in, ok := s.Intersection(other)
	if !ok || in.Length == 0 {
		return TextSpan{}, false
	}
	return in, true
}

func (s TextSpan) OverlapsWith(other TextSpan) bool {
	_, ok := s.Overlap(other)
	return ok
}

// IntersectsWith is the boundary-inclusive test
// other.Start <= s.End && other.End >= s.Start.
func (s TextSpan) IntersectsWith(other TextSpan) bool {
	return other.Start <= s.End() && other.End() >= s.Start
}

// IntersectsWithPosition reports Start <= pos <= End. Unlike ContainsPosition
// the end is inclusive.
func (s TextSpan) IntersectsWithPosition(pos uint32) bool {
	return pos <= s.End() && pos >= s.Start
}

// In attaches the span to a file.
func (s TextSpan) In(file FileID) Span {
	return Span{File: file, Start: s.Start, End: s.End()}
}

// String formats the span as "[start,end)".
func (s TextSpan) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}
