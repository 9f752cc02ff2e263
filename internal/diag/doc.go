// Package diag defines the diagnostic model shared by the scanner driver and
// the CLI.
//
// A Diagnostic carries a Severity (Info, Warning, Error), a compact numeric
// Code with a stable ID such as LEX1003, a short message, the primary
// source.Span and optional notes.
//
// Producers emit through a Reporter so they do not depend on storage:
// BagReporter collects into a bounded Bag, DedupReporter drops repeats, and
// NopReporter discards. Bag supports sorting, deduplication and severity
// filtering so output stays deterministic.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
package diag
