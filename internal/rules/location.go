package rules

// Position is a single point in source: 1-based line, 0-based column — the
// document model's convention (docmodel.Position), mirrored here so a
// Violation can be serialized without depending on docmodel.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is the source span a Violation points at: start inclusive, end
// exclusive, both as byte offsets plus their line/column rendering.
type Location struct {
	File        string   `json:"file"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
	StartOffset int      `json:"startOffset"`
	EndOffset   int      `json:"endOffset"`
}
