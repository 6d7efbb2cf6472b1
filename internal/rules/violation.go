package rules

import "strconv"

// Edit is a byte-range replacement proposed by a fix producer. The engine,
// not the rule, performs the mutation — a Rule's FixProducer only ever
// returns this description (spec's "fixes as data, not actions").
type Edit struct {
	// ID is stable: "<ruleId>-<startOffset>".
	ID string `json:"id"`

	// RuleID is the id of the rule that produced this edit.
	RuleID string `json:"ruleId"`

	// Description explains what the edit does.
	Description string `json:"description"`

	// StartOffset/EndOffset are the byte range [start, end) in the original
	// bytes this edit replaces.
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`

	// OldText is the text expected at [StartOffset, EndOffset) at
	// application time; a mismatch means the input went stale and the edit
	// is skipped rather than applied.
	OldText string `json:"oldText"`

	// NewText replaces OldText. Empty means delete.
	NewText string `json:"newText"`

	// Priority orders application among equal-offset candidates. Lower runs
	// first. Zero value is fine for rules that never collide.
	Priority int `json:"priority,omitzero"`

	// Safe marks this edit as always correct, eligible for automatic
	// application without the safeOnly gate.
	Safe bool `json:"safe"`
}

// NewEditID builds the "<ruleId>-<startOffset>" stable id form.
func NewEditID(ruleID string, startOffset int) string {
	return ruleID + "-" + strconv.Itoa(startOffset)
}

// Violation is one recorded failure of one rule against one element.
type Violation struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`

	Location Location `json:"location"`

	// Element is the serialized "<tag attrs>" string of the matched element.
	Element string `json:"element"`

	// Snippet is a short context excerpt, truncated to ~100 bytes.
	Snippet string `json:"snippet"`

	// Suggestion is free-text remediation advice, when the rule has one.
	Suggestion string `json:"suggestion,omitempty"`

	DocURL string `json:"docUrl,omitempty"`

	// Fix is set only in fix mode, for a fixable rule whose producer did
	// not decline for this element.
	Fix *Edit `json:"fix,omitempty"`

	// Fixable reports whether the rule carries a fix producer at all,
	// independent of whether Fix is populated for this particular hit.
	Fixable bool `json:"fixable"`

	// Scope is the id of the scope that set the effective severity for this
	// violation's site, or "" if none applied (global config only).
	Scope string `json:"scope,omitempty"`

	// ElementPath is the root-to-element breadcrumb chain, root first.
	ElementPath []string `json:"elementPath,omitempty"`
}
