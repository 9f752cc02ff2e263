package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"trivia/internal/lexer"
	"trivia/internal/token"
)

func sl(pos, end uint32, nl bool) token.CommentRange {
	return token.CommentRange{Pos: pos, End: end, Kind: token.SingleLineComment, HasTrailingNewLine: nl}
}

func ml(pos, end uint32, nl bool) token.CommentRange {
	return token.CommentRange{Pos: pos, End: end, Kind: token.MultiLineComment, HasTrailingNewLine: nl}
}

func TestLeadingCommentRanges(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  uint32
		want []token.CommentRange
	}{
		{"two line comments", "  // a\n// b\ncode", 0, []token.CommentRange{sl(2, 6, true), sl(7, 11, true)}},
		{"shebang skipped", "#!/usr/bin/env node\n// c\nx", 0, []token.CommentRange{sl(20, 24, true)}},
		{"unterminated block", "/* open", 0, []token.CommentRange{ml(0, 7, false)}},
		{"crlf", "// a\r\n// b", 0, []token.CommentRange{sl(0, 4, true), sl(6, 10, false)}},
		{"lone cr", "/* a */\r/* b */", 0, []token.CommentRange{ml(0, 7, true), ml(8, 15, false)}},
		{"line separator", "/* a */\u2028/* b */", 0, []token.CommentRange{ml(0, 7, true), ml(10, 17, false)}},
		{"same line comment skipped", "x = 1; // same\n// next\ny", 6, []token.CommentRange{sl(15, 22, true)}},
		{"bare slash stops", "  / 2", 0, nil},
		{"slash after comment", "// a\n/ 2", 0, []token.CommentRange{sl(0, 4, true)}},
		{"slash at eof", "/* a */ /", 0, []token.CommentRange{ml(0, 7, false)}},
		{"nbsp is whitespace", "\u00a0// a", 0, []token.CommentRange{sl(2, 6, false)}},
		{"non-space rune stops", "é // a", 0, nil},
		{"vertical tab and form feed", "\v\f/**/", 0, []token.CommentRange{ml(2, 6, false)}},
		{"empty text", "", 0, nil},
		{"pos at end", "x", 1, nil},
		{"pos past end", "x", 5, nil},
		{"no comments", "code", 0, nil},
		{"comment inside line comment", "// a /* b */\nx", 0, []token.CommentRange{sl(0, 12, true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexer.LeadingCommentRanges(tt.text, tt.pos)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LeadingCommentRanges(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.pos, diff)
			}
		})
	}
}

func TestTrailingCommentRanges(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  uint32
		want []token.CommentRange
	}{
		{"two blocks before newline", "code /* x */ /* y */\nmore", 4, []token.CommentRange{ml(5, 12, false), ml(13, 20, false)}},
		{"line comment", "x; // tail\n// next", 2, []token.CommentRange{sl(3, 10, true)}},
		{"stops at newline", "x;\n// next", 2, nil},
		{"line separator does not stop", "x /* a */\u2028/* b */", 1, []token.CommentRange{ml(2, 9, true), ml(12, 19, false)}},
		{"code stops", "x /* a */ y /* b */", 1, []token.CommentRange{ml(2, 9, false)}},
		{"shebang then newline", "#!sh\n// c", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexer.TrailingCommentRanges(tt.text, tt.pos)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TrailingCommentRanges(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.pos, diff)
			}
		})
	}
}

func findPinned(text string) (token.CommentRange, bool) {
	return lexer.ForEachLeadingCommentRange(text, 0, func(rng token.CommentRange, src string) (token.CommentRange, bool) {
		if rng.Kind == token.MultiLineComment && lexer.IsPinnedComment(src, rng.Pos) {
			return rng, true
		}
		return token.CommentRange{}, false
	}, text)
}

func TestFindModeStopsAtFirstMatch(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  token.CommentRange
		found bool
	}{
		{"first of two", "/*! keep */\n/* x */", ml(0, 11, true), true},
		{"middle of three", "/* a */ /*! b */ /* c */", ml(8, 16, false), true},
		{"last flushed after loop", "/* a */ /*! b */", ml(8, 16, false), true},
		{"none", "/* a */ // b", token.CommentRange{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findPinned(tt.text)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindModeVisitsUntilFound(t *testing.T) {
	var seen []uint32
	_, found := lexer.ForEachLeadingCommentRange("/* a */ /*! b */ /* c */", 0,
		func(rng token.CommentRange, _ struct{}) (int, bool) {
			seen = append(seen, rng.Pos)
			return 0, rng.Pos == 8
		}, struct{}{})
	if !found {
		t.Fatal("expected found")
	}
	if diff := cmp.Diff([]uint32{0, 8}, seen); diff != "" {
		t.Errorf("visited (-want +got):\n%s", diff)
	}
}

func TestReduceThreadsAccumulator(t *testing.T) {
	text := "/* a */ // bb\n/* ccc */\nx"
	total := lexer.ReduceEachLeadingCommentRange(text, 0, func(rng token.CommentRange, _ struct{}, acc uint32) uint32 {
		return acc + rng.Len()
	}, struct{}{}, 100)
	// 7 + 5 + 9
	if total != 121 {
		t.Errorf("total = %d, want 121", total)
	}

	none := lexer.ReduceEachTrailingCommentRange("x\n/* a */", 1, func(_ token.CommentRange, _ struct{}, acc int) int {
		return acc + 1
	}, struct{}{}, 42)
	if none != 42 {
		t.Errorf("initial not returned: %d", none)
	}
}

func TestIterateCommentRangesPastEnd(t *testing.T) {
	calls := 0
	got, found := lexer.IterateCommentRanges(true, "ab", 3, false,
		func(_ token.CommentRange, _ struct{}, acc string) (string, bool) {
			calls++
			return acc + "!", true
		}, struct{}{}, "init")
	if got != "init" || found || calls != 0 {
		t.Errorf("got %q, %v, calls %d", got, found, calls)
	}
}

func TestIterateReduceReportsLastResult(t *testing.T) {
	_, found := lexer.IterateCommentRanges(true, "/* a */ /* b */", 0, false,
		func(rng token.CommentRange, _ struct{}, acc int) (int, bool) {
			return acc + 1, rng.Pos == 0
		}, struct{}{}, 0)
	if found {
		t.Error("reduce mode should report the last visitor result")
	}
}

func TestGetShebang(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"#!/bin/sh\necho", "#!/bin/sh", true},
		{"#!/bin/sh\r\necho", "#!/bin/sh", true},
		{"#!node", "#!node", true},
		{"#!", "#!", true},
		{" #!/bin/sh", "", false},
		{"#", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := lexer.GetShebang(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GetShebang(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsPinnedComment(t *testing.T) {
	tests := []struct {
		text  string
		start uint32
		want  bool
	}{
		{"/*! x */", 0, true},
		{"x /*!*/", 2, true},
		{"/* x */", 0, false},
		{"/*", 0, false},
		{"/*!", 0, true},
		{"/*!", 1, false},
		{"", 0, false},
		{"/*!", 99, false},
	}
	for _, tt := range tests {
		if got := lexer.IsPinnedComment(tt.text, tt.start); got != tt.want {
			t.Errorf("IsPinnedComment(%q, %d) = %v, want %v", tt.text, tt.start, got, tt.want)
		}
	}
}

func TestCommentTextAndTermination(t *testing.T) {
	text := "x /* a */ /* open"
	ranges := lexer.TrailingCommentRanges(text, 1)
	if len(ranges) != 2 {
		t.Fatalf("ranges = %v", ranges)
	}
	if got := lexer.CommentText(text, ranges[0]); got != "/* a */" {
		t.Errorf("CommentText = %q", got)
	}
	if !lexer.IsTerminated(text, ranges[0]) || lexer.IsTerminated(text, ranges[1]) {
		t.Errorf("IsTerminated wrong for %v", ranges)
	}
	if ranges[1].End != uint32(len(text)) {
		t.Errorf("unterminated end = %d, want %d", ranges[1].End, len(text))
	}
	if got := lexer.CommentText("ab", ml(1, 10, false)); got != "b" {
		t.Errorf("clamped CommentText = %q", got)
	}
	if !lexer.IsTerminated("// x", sl(0, 4, false)) {
		t.Error("line comments are always terminated")
	}
	// в "/*/" звёздочка открытия не закрывает комментарий
	if got := lexer.LeadingCommentRanges("/*/", 0); len(got) != 1 || lexer.IsTerminated("/*/", got[0]) {
		t.Errorf("/*/ = %v", got)
	}
}
