// Package sourcemap provides utilities for converting between byte offsets
// and line/column positions, and for extracting source snippets — the same
// bridge role the teacher's sourcemap package plays between BuildKit AST
// positions and diagnostic output, adapted here to a byte-offset-first
// document model instead of a pre-parsed AST.
package sourcemap

import (
	"bytes"
	"sort"
	"strings"
)

// SourceMap precomputes line boundaries over a byte slice for fast
// offset<->position conversion and snippet extraction.
type SourceMap struct {
	source []byte

	// lines are the individual lines, without their line-ending bytes.
	lines []string

	// lineStarts[i] is the byte offset where line i (0-indexed internally)
	// begins in source.
	lineStarts []int
}

// New creates a SourceMap from source content. Lines are split on '\n';
// a trailing '\r' on each line is trimmed to tolerate CRLF input.
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineStarts := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineStarts[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{source: source, lines: lines, lineStarts: lineStarts}
}

// Source returns the raw source content. The returned slice must not be
// modified.
func (sm *SourceMap) Source() []byte { return sm.source }

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int { return len(sm.lines) }

// Line returns the text of a 0-based line, or "" if out of range.
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// Snippet extracts lines [startLine, endLine] (0-based, inclusive), joined
// with "\n". Returns "" for an invalid range.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// PositionForOffset converts a byte offset into a 1-based line / 0-based
// column position, per the document model's source-span convention. Offsets
// past the end of source clamp to the last valid position.
func (sm *SourceMap) PositionForOffset(offset int) (line int, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(sm.source) {
		offset = len(sm.source)
	}
	// Find the last line whose start is <= offset.
	idx := sort.Search(len(sm.lineStarts), func(i int) bool {
		return sm.lineStarts[i] > offset
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - sm.lineStarts[idx]
}

// SnippetForRange extracts the raw bytes of [start, end) from source,
// truncated to maxBytes if longer. Used for a Violation's short context
// snippet (~100 bytes per the rule engine's contract).
func (sm *SourceMap) SnippetForRange(start, end, maxBytes int) string {
	if start < 0 {
		start = 0
	}
	if end > len(sm.source) {
		end = len(sm.source)
	}
	if start >= end {
		return ""
	}
	if end-start > maxBytes {
		end = start + maxBytes
	}
	return string(sm.source[start:end])
}
