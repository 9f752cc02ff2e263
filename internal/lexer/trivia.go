package lexer

import (
	"trivia/internal/chars"
	"trivia/internal/token"
)

// CommentVisitor receives every flushed comment range together with the
// caller's state and the current accumulator. The bool result means "non-empty":
// in find mode the first true result ends the scan.
type CommentVisitor[S, U any] func(rng token.CommentRange, state S, acc U) (U, bool)

// pendingCommentRange is the last recognised comment that has not been
// handed to the visitor yet. There is at most one at a time.
type pendingCommentRange struct {
	rng token.CommentRange
	ok  bool
}

// IterateCommentRanges scans trivia forward from pos and reports comments.
//
//   - trailing=false (leading mode): comments are collected only at pos 0 or
//     after a line break; a comment sharing the line with code before pos is
//     skipped.
//   - trailing=true: scanning stops at the first line terminator.
//
// At pos 0 a shebang line is skipped and collection is on in both modes.
// Scanning stops at the first character that is not whitespace or a comment,
// including a '/' that does not open one. Texts longer than math.MaxUint32
// bytes are scanned up to that offset.
//
// reduce=true threads the visitor result through every call; reduce=false is
// find mode and returns the first result the visitor marks as found.
func IterateCommentRanges[S, U any](
	reduce bool,
	text string,
	pos uint32,
	trailing bool,
	visit CommentVisitor[S, U],
	state S,
	initial U,
) (U, bool) {
	acc, found := initial, false
	if uint64(pos) > uint64(len(text)) {
		return acc, false
	}

	collecting := trailing || pos == 0
	if pos == 0 {
		if shebang, ok := GetShebang(text); ok {
			pos = textLimit(len(shebang))
		}
	}

	cur := NewCursorAt(text, pos)
	var pending pendingCommentRange

scan:
	for !cur.EOF() {
		b := cur.Peek()
		switch b {
		case '\r', '\n':
			cur.eatLineTerminator()
			if trailing {
				break scan
			}
			collecting = true
			if pending.ok {
				pending.rng.HasTrailingNewLine = true
			}

		case '\t', '\v', '\f', ' ':
			cur.Bump()

		case '/':
			_, next, ok := cur.Peek2()
			if !ok {
				break scan
			}
			kind, isComment := token.KindFromOpener(next)
			if !isComment {
				break scan
			}
			start := cur.Mark()
			cur.Off += 2
			hasTrailingNewLine := false
			if kind == token.SingleLineComment {
				hasTrailingNewLine = cur.skipLineCommentBody()
			} else {
				cur.skipBlockCommentBody()
			}

			if !collecting {
				continue
			}
			if pending.ok {
				acc, found = visit(pending.rng, state, acc)
				if !reduce && found {
					return acc, true
				}
			}
			pending = pendingCommentRange{
				rng: token.CommentRange{
					Pos:                uint32(start),
					End:                cur.Off,
					Kind:               kind,
					HasTrailingNewLine: hasTrailingNewLine,
				},
				ok: true,
			}

		default:
			if rune(b) <= chars.MaxASCII {
				break scan
			}
			if r, _ := cur.PeekRune(); !chars.IsWhiteSpaceLike(r) {
				break scan
			}
			// LS/PS сами по себе не останавливают trailing-режим
			if r := cur.BumpRune(); pending.ok && chars.IsLineBreak(r) {
				pending.rng.HasTrailingNewLine = true
			}
		}
	}

	if pending.ok {
		acc, found = visit(pending.rng, state, acc)
	}
	return acc, found
}

// ForEachLeadingCommentRange calls cb for each leading comment at pos and
// returns the first result cb reports as found.
func ForEachLeadingCommentRange[S, U any](text string, pos uint32, cb func(rng token.CommentRange, state S) (U, bool), state S) (U, bool) {
	return forEachCommentRange(text, pos, false, cb, state)
}

// ForEachTrailingCommentRange is ForEachLeadingCommentRange for comments on
// the rest of the current line.
func ForEachTrailingCommentRange[S, U any](text string, pos uint32, cb func(rng token.CommentRange, state S) (U, bool), state S) (U, bool) {
	return forEachCommentRange(text, pos, true, cb, state)
}

func forEachCommentRange[S, U any](text string, pos uint32, trailing bool, cb func(rng token.CommentRange, state S) (U, bool), state S) (U, bool) {
	var zero U
	return IterateCommentRanges(false, text, pos, trailing,
		func(rng token.CommentRange, st S, _ U) (U, bool) { return cb(rng, st) },
		state, zero)
}

// ReduceEachLeadingCommentRange folds cb over every leading comment at pos.
func ReduceEachLeadingCommentRange[S, U any](text string, pos uint32, cb func(rng token.CommentRange, state S, acc U) U, state S, initial U) U {
	return reduceEachCommentRange(text, pos, false, cb, state, initial)
}

// ReduceEachTrailingCommentRange folds cb over every trailing comment at pos.
func ReduceEachTrailingCommentRange[S, U any](text string, pos uint32, cb func(rng token.CommentRange, state S, acc U) U, state S, initial U) U {
	return reduceEachCommentRange(text, pos, true, cb, state, initial)
}

func reduceEachCommentRange[S, U any](text string, pos uint32, trailing bool, cb func(rng token.CommentRange, state S, acc U) U, state S, initial U) U {
	acc, _ := IterateCommentRanges(true, text, pos, trailing,
		func(rng token.CommentRange, st S, acc U) (U, bool) { return cb(rng, st, acc), true },
		state, initial)
	return acc
}

// LeadingCommentRanges returns all leading comments at pos, or nil.
func LeadingCommentRanges(text string, pos uint32) []token.CommentRange {
	return ReduceEachLeadingCommentRange(text, pos, appendCommentRange, struct{}{}, []token.CommentRange(nil))
}

// TrailingCommentRanges returns all trailing comments at pos, or nil.
func TrailingCommentRanges(text string, pos uint32) []token.CommentRange {
	return ReduceEachTrailingCommentRange(text, pos, appendCommentRange, struct{}{}, []token.CommentRange(nil))
}

func appendCommentRange(rng token.CommentRange, _ struct{}, acc []token.CommentRange) []token.CommentRange {
	return append(acc, rng)
}

// CommentText returns the source of rng, clamped to text.
func CommentText(text string, rng token.CommentRange) string {
	n := uint64(len(text))
	start, end := min(uint64(rng.Pos), n), min(uint64(rng.End), n)
	if end < start {
		return ""
	}
	return text[start:end]
}

// IsTerminated reports whether a multi-line comment ends with "*/".
// Single-line comments are always terminated.
func IsTerminated(text string, rng token.CommentRange) bool {
	if rng.Kind != token.MultiLineComment {
		return true
	}
	body := CommentText(text, rng)
	return len(body) >= 4 && body[len(body)-2:] == "*/"
}
