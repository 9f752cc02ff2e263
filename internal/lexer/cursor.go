package lexer

import (
	"math"
	"unicode/utf8"

	"fortio.org/safecast"

	"trivia/internal/source"
)

// Cursor представляет собой позицию в тексте (байтовое смещение)
type Cursor struct {
	Text string
	Off  uint32
	// Limit is the exclusive upper bound for Off: len(Text), or
	// math.MaxUint32 for texts that do not fit uint32 offsets.
	Limit uint32
}

// NewCursor creates a cursor at offset 0.
func NewCursor(text string) Cursor {
	return NewCursorAt(text, 0)
}

// NewCursorAt creates a cursor at off, clamped to len(text).
func NewCursorAt(text string, off uint32) Cursor {
	limit := textLimit(len(text))
	return Cursor{
		Text:  text,
		Off:   min(off, limit),
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Text[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Text[c.Off], c.Text[c.Off+1], true
}

// PeekRune decodes the rune at the cursor. Invalid UTF-8 yields
// utf8.RuneError with size 1; EOF yields size 0.
func (c *Cursor) PeekRune() (r rune, size uint32) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.Text[c.Off]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRuneInString(c.Text[c.Off:])
	return r, uint32(sz) // sz <= utf8.UTFMax
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Text[c.Off]
	c.Off++
	return b
}

// BumpRune advances past the rune at the cursor.
func (c *Cursor) BumpRune() rune {
	r, sz := c.PeekRune()
	c.Off += sz
	return r
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Text[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark это метка, что бы быстро получать TextSpan читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает TextSpan для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.TextSpan {
	return source.NewTextSpan(uint32(m), c.Off-uint32(m))
}

// textLimit переводит длину текста в смещение; хвост за 4 ГиБ не сканируется.
func textLimit(n int) uint32 {
	limit, err := safecast.Conv[uint32](n)
	if err != nil {
		return math.MaxUint32
	}
	return limit
}
