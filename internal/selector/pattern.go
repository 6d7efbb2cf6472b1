// Package selector implements the extended selector engine: a hand-rolled
// recursive-descent parser for base CSS-like selectors plus colon-prefixed
// content/structural/negative predicates, and an evaluator that runs a
// parsed Pattern against a docmodel.Document.
package selector

import "regexp"

// PredicateKind tags the variant a Predicate carries — a tagged union per
// the predicate-polymorphism design note, not subtype dispatch.
type PredicateKind int

const (
	PredUnknown PredicateKind = iota
	PredContains
	PredContainsRegex
	PredHas
	PredHasParent
	PredHasAncestor
	PredHasSibling
	PredWithout
	PredNot
	PredCount
)

// Predicate is one colon-prefixed filter, e.g. `:contains-i("t")` or
// `:has-parent(form)`.
type Predicate struct {
	Kind PredicateKind

	// Text is the literal argument to :contains / :contains-i.
	Text string
	// CaseInsensitive marks :contains-i versus :contains.
	CaseInsensitive bool

	// Regex is the compiled pattern for :contains-regex.
	Regex *regexp.Regexp

	// Sub is the parsed embedded pattern for :has, :has-parent,
	// :has-ancestor, :has-sibling, :not.
	Sub *Pattern

	// Attr is the attribute name for :without.
	Attr string

	// Op and N are the comparison operator and operand for :count.
	Op string
	N  int
}

// BaseSelector is the non-predicate part of one alternative: at most one of
// Universal / Tag / ID / Class / attribute-bracket is meaningfully set, plus
// an optional Tag alongside an attribute bracket (tag+attribute form).
type BaseSelector struct {
	Universal bool
	Tag       string
	ID        string
	Class     string

	// HasAttrBracket is true when a "[attr]" or "[attr=\"value\"]" bracket
	// was present (alone, or combined with Tag).
	HasAttrBracket bool
	AttrName       string
	AttrHasValue   bool
	AttrValue      string
}

// Selector is one alternative: a base selector plus zero or more predicates,
// applied left to right as an intersection.
type Selector struct {
	Base       BaseSelector
	Predicates []Predicate
}

// Pattern is a parsed pattern string: one or more comma-separated
// alternatives, unioned with duplicates removed and document order
// preserved.
type Pattern struct {
	Alternatives []Selector
	Raw          string
}
