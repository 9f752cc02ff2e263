package diagfmt

// PrettyOpts configures pretty-printing of scan results and diagnostics.
type PrettyOpts struct {
	Color bool
	// максимальная ширина превью комментария, 0 - 60 колонок
	Width     int
	ShowNotes bool
	// ShowSource prints the offending line with a ^~~~ underline.
	ShowSource bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	Indent           bool
}

func (o PrettyOpts) previewWidth() int {
	if o.Width <= 0 {
		return 60
	}
	return o.Width
}
