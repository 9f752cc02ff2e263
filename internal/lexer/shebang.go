package lexer

import "strings"

// GetShebang returns the "#!" line at the very start of text, without its
// line break. The second result is false when text has no shebang.
func GetShebang(text string) (string, bool) {
	if !strings.HasPrefix(text, "#!") {
		return "", false
	}
	if i := strings.IndexAny(text, "\n\r"); i >= 0 {
		return text[:i], true
	}
	return text, true
}

// IsPinnedComment reports whether the comment at start opens with "/*!".
// Pinned comments (licenses, build banners) survive comment stripping.
func IsPinnedComment(text string, start uint32) bool {
	i := uint64(start)
	return i+2 < uint64(len(text)) && text[i+1] == '*' && text[i+2] == '!'
}
