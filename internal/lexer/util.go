package lexer

import (
	"unicode/utf8"

	"trivia/internal/chars"
)

// ===== Работа с комментариями поверх Cursor =====

// skipLineCommentBody moves to the next line break (not consumed) or EOF.
// Reports whether a line break ended the comment.
func (c *Cursor) skipLineCommentBody() bool {
	for !c.EOF() {
		b := c.Peek()
		if b == '\n' || b == '\r' {
			return true
		}
		if b >= utf8.RuneSelf {
			if r, _ := c.PeekRune(); chars.IsLineBreak(r) {
				return true
			}
			c.BumpRune()
			continue
		}
		c.Off++
	}
	return false
}

// skipBlockCommentBody consumes through the closing "*/" or to EOF.
// Reports whether the comment was terminated.
func (c *Cursor) skipBlockCommentBody() bool {
	for !c.EOF() {
		if b0, b1, ok := c.Peek2(); ok && b0 == '*' && b1 == '/' {
			c.Off += 2
			return true
		}
		c.Off++
	}
	return false
}

// eatLineTerminator consumes LF, CR or the CR LF pair as one terminator.
func (c *Cursor) eatLineTerminator() bool {
	if c.Eat('\r') {
		c.Eat('\n')
		return true
	}
	return c.Eat('\n')
}
