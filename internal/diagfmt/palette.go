package diagfmt

import (
	"github.com/fatih/color"

	"trivia/internal/diag"
)

type palette struct {
	path, dim, info, warning, error, note, accent *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		dim:     color.New(color.Faint),
		info:    color.New(color.FgCyan, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		error:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgBlue),
		accent:  color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.path, p.dim, p.info, p.warning, p.error, p.note, p.accent} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.error
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}
