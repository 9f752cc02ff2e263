package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"trivia/internal/diag"
	"trivia/internal/lexer"
	"trivia/internal/source"
	"trivia/internal/token"
	"trivia/internal/trace"
)

// ScanText runs every query of req over file and derives diagnostics.
func ScanText(ctx context.Context, file *source.File, req ScanRequest) *FileResult {
	text := file.Text()
	res := &FileResult{
		Path:   file.Path,
		FileID: file.ID,
		Size:   file.Size(),
	}
	if shebang, ok := lexer.GetShebang(text); ok {
		res.Shebang = shebang
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)
	run := func(name string, q QueryResult) {
		span := trace.Begin(tracer, trace.ScopeQuery, "query:"+name, parent)
		if q.Offset > res.Size {
			q.OutOfRange = true
		}
		if !q.OutOfRange {
			if req.Mode.leading() {
				q.Leading = describe(text, lexer.LeadingCommentRanges(text, q.Offset))
			}
			if req.Mode.trailing() {
				q.Trailing = describe(text, lexer.TrailingCommentRanges(text, q.Offset))
			}
		}
		span.End(fmt.Sprintf("%d leading, %d trailing", len(q.Leading), len(q.Trailing)))
		res.Queries = append(res.Queries, q)
	}
	for _, off := range req.offsets() {
		run(strconv.FormatUint(uint64(off), 10), QueryResult{Offset: off})
	}
	for _, lc := range req.Lines {
		off, ok := file.OffsetOf(lc)
		if !ok {
			off = res.Size
		}
		run(fmt.Sprintf("%d:%d", lc.Line, lc.Col), QueryResult{Offset: off, Line: lc.Line, Col: lc.Col, OutOfRange: !ok})
	}

	res.Bag = diagnose(file, res, req)
	return res
}

func describe(text string, ranges []token.CommentRange) []CommentInfo {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]CommentInfo, 0, len(ranges))
	for _, rng := range ranges {
		out = append(out, CommentInfo{
			Range:      rng,
			Text:       lexer.CommentText(text, rng),
			Pinned:     rng.Kind == token.MultiLineComment && lexer.IsPinnedComment(text, rng.Pos),
			Terminated: lexer.IsTerminated(text, rng),
		})
	}
	return out
}

// diagnose derives findings from query results only, so cached results
// produce the same diagnostics as a fresh scan.
func diagnose(file *source.File, res *FileResult, req ScanRequest) *diag.Bag {
	bag := diag.NewBag(req.MaxDiagnostics)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	if res.Shebang != "" {
		n, err := safecast.Conv[uint32](len(res.Shebang))
		if err == nil {
			diag.ReportInfo(r, diag.LexShebang, source.NewTextSpan(0, n).In(file.ID), "shebang line skipped").Emit()
		}
	}
	for _, q := range res.Queries {
		if q.OutOfRange {
			msg := fmt.Sprintf("offset %d is past the end of the file (size %d)", q.Offset, res.Size)
			if q.Line != 0 {
				msg = fmt.Sprintf("line %d is past the end of the file (%d lines)", q.Line, len(file.LineIdx)+1)
			}
			diag.ReportError(r, diag.SpanOutOfRange, source.NewTextSpan(res.Size, 0).In(file.ID), msg).Emit()
			continue
		}
		for _, c := range append(append([]CommentInfo(nil), q.Leading...), q.Trailing...) {
			sp := c.Range.TextSpan().In(file.ID)
			if !c.Terminated {
				diag.ReportWarning(r, diag.LexUnterminatedBlockComment, sp, "block comment is not closed").
					WithNote(sp.ZeroideToEnd(), "file ends here").
					Emit()
			}
			if c.Pinned {
				diag.ReportInfo(r, diag.LexPinnedComment, sp, "pinned comment").Emit()
			}
		}
	}
	bag.Filter(min(req.MinSeverity, diag.SevError))
	bag.Sort()
	return bag
}

// ScanFile loads a single file into a fresh FileSet and scans it.
func ScanFile(ctx context.Context, path string, req ScanRequest) (*source.FileSet, *FileResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, "read:"+path, err, trace.CurrentSpan(ctx))
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return fs, ScanText(ctx, fs.Get(fileID), req), nil
}
