package diagfmt

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"trivia/internal/project"
	"trivia/internal/source"
)

type SpanJSON struct {
	Start  uint32 `json:"start" yaml:"start" msgpack:"start"`
	Length uint32 `json:"length" yaml:"length" msgpack:"length"`
	End    uint32 `json:"end" yaml:"end" msgpack:"end"`
	Empty  bool   `json:"empty" yaml:"empty" msgpack:"empty"`
}

func MakeSpan(s source.TextSpan) SpanJSON {
	return SpanJSON{Start: s.Start, Length: s.Length, End: s.End(), Empty: s.IsEmpty()}
}

// SpanReport is the answer to one `trivia span` query. Exactly one of
// Bool or Span carries the result; info reports only A.
type SpanReport struct {
	Op   string    `json:"op" yaml:"op" msgpack:"op"`
	A    SpanJSON  `json:"a" yaml:"a" msgpack:"a"`
	B    *SpanJSON `json:"b,omitempty" yaml:"b,omitempty" msgpack:"b,omitempty"`
	Pos  *uint32   `json:"pos,omitempty" yaml:"pos,omitempty" msgpack:"pos,omitempty"`
	Bool *bool     `json:"result,omitempty" yaml:"result,omitempty" msgpack:"result,omitempty"`
	Span *SpanJSON `json:"span,omitempty" yaml:"span,omitempty" msgpack:"span,omitempty"`
	// для intersection/overlap: false - пересечения нет
	Found *bool `json:"found,omitempty" yaml:"found,omitempty" msgpack:"found,omitempty"`
}

func (s SpanJSON) String() string {
	return source.NewTextSpan(s.Start, s.Length).String()
}

// WriteSpanReport renders r in one of the project output formats.
func WriteSpanReport(w io.Writer, format string, r SpanReport, opts PrettyOpts) error {
	switch format {
	case project.FormatPretty, project.FormatShort, "":
		return prettySpanReport(w, r, opts)
	case project.FormatJSON:
		return encodeJSON(w, r, true)
	case project.FormatYAML:
		return encodeYAML(w, r)
	case project.FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(r)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func prettySpanReport(w io.Writer, r SpanReport, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	args := r.A.String()
	if r.B != nil {
		args += " " + r.B.String()
	}
	if r.Pos != nil {
		args += fmt.Sprintf(" %d", *r.Pos)
	}

	var result string
	switch {
	case r.Bool != nil:
		c := p.error
		if *r.Bool {
			c = p.accent
		}
		result = c.Sprint(*r.Bool)
	case r.Found != nil && !*r.Found:
		result = p.dim.Sprint("none")
	case r.Span != nil:
		result = p.accent.Sprint(r.Span.String())
	default:
		result = fmt.Sprintf("start=%d length=%d end=%d empty=%v", r.A.Start, r.A.Length, r.A.End, r.A.Empty)
	}
	_, err := fmt.Fprintf(w, "%s %s = %s\n", p.path.Sprint(r.Op), args, result)
	return err
}
