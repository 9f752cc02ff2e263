// Package chars classifies code points for the trivia scanner.
//
// Only the exact ECMAScript line terminators (LF, CR, LS, PS) count as line
// breaks. Other vertical whitespace such as NEL (U+0085) is single-line
// whitespace: it neither ends a // comment nor starts a new line for
// comment attachment.
package chars

import "unicode/utf8"

// Named code points used by the scanner.
const (
	NullCharacter      rune = 0x00
	MaxASCII           rune = 0x7F
	Tab                rune = 0x09 // \t
	LineFeed           rune = 0x0A // \n
	VerticalTab        rune = 0x0B // \v
	FormFeed           rune = 0x0C // \f
	CarriageReturn     rune = 0x0D // \r
	Space              rune = 0x20
	Exclamation        rune = 0x21 // !
	Hash               rune = 0x23 // #
	Asterisk           rune = 0x2A // *
	Slash              rune = 0x2F // /
	LessThan           rune = 0x3C // <
	Equals             rune = 0x3D // =
	GreaterThan        rune = 0x3E // >
	Bar                rune = 0x7C // |
	NextLine           rune = 0x0085
	NonBreakingSpace   rune = 0x00A0
	Ogham              rune = 0x1680
	EnQuad             rune = 0x2000
	ZeroWidthSpace     rune = 0x200B
	LineSeparator      rune = 0x2028
	ParagraphSeparator rune = 0x2029
	NarrowNoBreakSpace rune = 0x202F
	MathematicalSpace  rune = 0x205F
	IdeographicSpace   rune = 0x3000
	ByteOrderMark      rune = 0xFEFF
)

// Class is the coarse trivia class of a code point.
type Class uint8

const (
	ClassOther Class = iota
	ClassLineBreak
	ClassWhiteSpace
	ClassCommentStart
)

func (c Class) String() string {
	switch c {
	case ClassLineBreak:
		return "line-break"
	case ClassWhiteSpace:
		return "whitespace"
	case ClassCommentStart:
		return "comment-start"
	default:
		return "other"
	}
}

// Classify maps r to its trivia class.
func Classify(r rune) Class {
	switch {
	case IsLineBreak(r):
		return ClassLineBreak
	case IsWhiteSpaceSingleLine(r):
		return ClassWhiteSpace
	case r == Slash:
		return ClassCommentStart
	default:
		return ClassOther
	}
}

// IsLineBreak reports whether r is LF, CR, LS or PS.
func IsLineBreak(r rune) bool {
	return r == LineFeed ||
		r == CarriageReturn ||
		r == LineSeparator ||
		r == ParagraphSeparator
}

// IsWhiteSpaceSingleLine reports whether r is whitespace that does not break a line.
// The byte order mark is included so a leading BOM does not stop trivia scanning.
func IsWhiteSpaceSingleLine(r rune) bool {
	switch r {
	case Space, Tab, VerticalTab, FormFeed,
		NonBreakingSpace, NextLine, Ogham,
		NarrowNoBreakSpace, MathematicalSpace, IdeographicSpace, ByteOrderMark:
		return true
	}
	return r >= EnQuad && r <= ZeroWidthSpace
}

// IsWhiteSpaceLike reports whether r is any whitespace, line breaks included.
func IsWhiteSpaceLike(r rune) bool {
	return IsWhiteSpaceSingleLine(r) || IsLineBreak(r)
}

// CouldStartTrivia is a fast pre-filter: it reports whether the rune at byte
// offset pos may begin whitespace, a comment, a conflict marker or, at offset
// zero only, a shebang. Every non-ASCII rune passes since it needs full
// classification.
func CouldStartTrivia(text string, pos uint32) bool {
	if uint64(pos) >= uint64(len(text)) {
		return false
	}
	r := rune(text[pos])
	if r >= utf8.RuneSelf {
		r, _ = utf8.DecodeRuneInString(text[pos:])
	}
	switch r {
	case CarriageReturn, LineFeed, Tab, VerticalTab, FormFeed, Space,
		Slash,
		// conflict markers
		LessThan, Bar, Equals, GreaterThan:
		return true
	case Hash:
		return pos == 0
	default:
		return r > MaxASCII
	}
}
