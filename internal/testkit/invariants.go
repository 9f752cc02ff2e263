package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"trivia/internal/chars"
	"trivia/internal/source"
	"trivia/internal/token"
)

// CheckCommentRanges validates ranges reported for text at pos:
// 1) every range lies in [pos, len(text)] and is at least two bytes long
// 2) ranges are sorted and do not overlap
// 3) the text of each range opens with the marker of its kind
// 4) a line comment never contains a line break
func CheckCommentRanges(text string, pos uint32, ranges []token.CommentRange) error {
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		return fmt.Errorf("text length overflow: %w", err)
	}
	prevEnd := pos
	for i, rng := range ranges {
		if rng.Pos < prevEnd {
			return fmt.Errorf("range %d %v starts before %d", i, rng, prevEnd)
		}
		if rng.End > size || rng.End < rng.Pos+2 {
			return fmt.Errorf("range %d %v out of bounds (size %d)", i, rng, size)
		}
		prevEnd = rng.End

		body := text[rng.Pos:rng.End]
		switch rng.Kind {
		case token.SingleLineComment:
			if !strings.HasPrefix(body, "//") {
				return fmt.Errorf("range %d %v is not a line comment: %q", i, rng, body)
			}
			for _, r := range body {
				if chars.IsLineBreak(r) {
					return fmt.Errorf("line comment %d %v contains a line break", i, rng)
				}
			}
		case token.MultiLineComment:
			if !strings.HasPrefix(body, "/*") {
				return fmt.Errorf("range %d %v is not a block comment: %q", i, rng, body)
			}
			if idx := strings.Index(body[2:], "*/"); idx >= 0 && idx+4 != len(body) {
				return fmt.Errorf("block comment %d %v runs past its terminator", i, rng)
			}
		default:
			return fmt.Errorf("range %d has unknown kind %d", i, rng.Kind)
		}
	}
	return nil
}

// CheckSpanPair validates the relations between two spans that must hold
// regardless of their values.
func CheckSpanPair(a, b source.TextSpan) error {
	ab, okAB := a.Intersection(b)
	ba, okBA := b.Intersection(a)
	if ab != ba || okAB != okBA {
		return fmt.Errorf("intersection of %v and %v is not symmetric: %v/%v", a, b, ab, ba)
	}
	if okAB != a.IntersectsWith(b) || a.IntersectsWith(b) != b.IntersectsWith(a) {
		return fmt.Errorf("IntersectsWith(%v, %v) disagrees with Intersection", a, b)
	}
	if a.OverlapsWith(b) != b.OverlapsWith(a) {
		return fmt.Errorf("OverlapsWith(%v, %v) is not symmetric", a, b)
	}
	if ov, ok := a.Overlap(b); ok {
		if ov.IsEmpty() || !okAB || ov != ab {
			return fmt.Errorf("overlap %v of %v and %v is not a non-empty intersection", ov, a, b)
		}
	}
	if a.ContainsTextSpan(b) && !a.IntersectsWith(b) {
		return fmt.Errorf("%v contains %v but does not intersect it", a, b)
	}
	if okAB && (!a.ContainsTextSpan(ab) || !b.ContainsTextSpan(ab)) {
		return fmt.Errorf("intersection %v escapes %v or %v", ab, a, b)
	}
	return nil
}

// CheckSpanPosition validates that the exclusive position test implies the
// inclusive one.
func CheckSpanPosition(s source.TextSpan, pos uint32) error {
	if s.ContainsPosition(pos) && !s.IntersectsWithPosition(pos) {
		return fmt.Errorf("%v contains %d but does not intersect it", s, pos)
	}
	if s.IntersectsWithPosition(pos) != (pos >= s.Start && pos <= s.End()) {
		return fmt.Errorf("IntersectsWithPosition(%v, %d) is not end-inclusive", s, pos)
	}
	return nil
}
