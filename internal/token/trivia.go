package token

import (
	"fmt"

	"trivia/internal/source"
)

type CommentKind uint8

const (
	SingleLineComment CommentKind = iota + 1 // "//"
	MultiLineComment                         // "/*"
)

func (k CommentKind) String() string {
	switch k {
	case SingleLineComment:
		return "SingleLine"
	case MultiLineComment:
		return "MultiLine"
	default:
		return "Unknown"
	}
}

// MarshalText keeps JSON/YAML output readable.
func (k CommentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CommentKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "SingleLine":
		*k = SingleLineComment
	case "MultiLine":
		*k = MultiLineComment
	default:
		return fmt.Errorf("unknown comment kind %q", b)
	}
	return nil
}

// KindFromOpener maps the byte after '/' to a comment kind.
func KindFromOpener(next byte) (CommentKind, bool) {
	switch next {
	case '/':
		return SingleLineComment, true
	case '*':
		return MultiLineComment, true
	}
	return 0, false
}

// CommentRange is one comment found by the trivia scanner.
type CommentRange struct {
	Pos                uint32      `json:"pos" yaml:"pos" msgpack:"pos"`
	End                uint32      `json:"end" yaml:"end" msgpack:"end"`
	Kind               CommentKind `json:"kind" yaml:"kind" msgpack:"kind"`
	HasTrailingNewLine bool        `json:"hasTrailingNewLine" yaml:"hasTrailingNewLine" msgpack:"nl"`
}

func (r CommentRange) Len() uint32 {
	return r.End - r.Pos
}

// TextSpan wraps the range for interval queries.
func (r CommentRange) TextSpan() source.TextSpan {
	return source.NewTextSpan(r.Pos, r.End-r.Pos)
}

func (r CommentRange) String() string {
	nl := ""
	if r.HasTrailingNewLine {
		nl = " +nl"
	}
	return fmt.Sprintf("%s[%d,%d)%s", r.Kind, r.Pos, r.End, nl)
}
