package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические (trivia)
	LexInfo                     Code = 1000
	LexUnterminatedBlockComment Code = 1003
	LexPinnedComment            Code = 1010
	LexShebang                  Code = 1011

	// Span algebra
	SpanInfo           Code = 2000
	SpanEndBeforeStart Code = 2001
	SpanNegativeInput  Code = 2002
	SpanOutOfRange     Code = 2003
	SpanBadSyntax      Code = 2004

	// I/O
	IOReadFailed Code = 4001

	// Проектные (trivia.toml)
	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexPinnedComment:            "Pinned comment",
		LexShebang:                  "Shebang line",
		SpanInfo:                    "Span information",
		SpanEndBeforeStart:          "Span end is before its start",
		SpanNegativeInput:           "Negative span input",
		SpanOutOfRange:              "Span is out of range",
		SpanBadSyntax:               "Malformed span literal",
		IOReadFailed:                "I/O read failed",
		ProjInfo:                    "Project information",
		ProjInvalidConfig:           "Invalid trivia.toml",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SPN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// MarshalText serialises the code by its stable ID.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}

func (c *Code) UnmarshalText(b []byte) error {
	id := string(b)
	for code := range codeDescription {
		if code.ID() == id {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic code %q", id)
}
