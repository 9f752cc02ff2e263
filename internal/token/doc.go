// Package token defines the comment trivia values produced by the scanner.
// Invariants:
//   - CommentRange.Pos < CommentRange.End, both byte offsets into the scanned text.
//   - Kind is decided by the two-byte opener only: "//" or "/*".
//   - A multi-line range ends after "*/", or at end of text when unterminated.
//   - A single-line range never includes the line break that ends it.
package token
