package rules

import "github.com/tinovyatkin/markuplint/internal/docmodel"

// Category groups related rules for filtering and reporting.
type Category string

const (
	CategoryAccessibility Category = "accessibility"
	CategorySEO           Category = "seo"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryBestPractice  Category = "best-practice"
)

// Context is the per-check handle given to every predicate, suggestion and
// fix producer by non-owning reference: the owning Document plus its three
// whole-tree lookups. Predicates must be pure with respect to it — they may
// read the Document through Context but never mutate it.
type Context struct {
	Document *docmodel.Document
}

// QuerySelector delegates to the owning Document.
func (c *Context) QuerySelector(pattern string) *docmodel.Element {
	return c.Document.QuerySelector(pattern)
}

// QuerySelectorAll delegates to the owning Document.
func (c *Context) QuerySelectorAll(pattern string) []*docmodel.Element {
	return c.Document.QuerySelectorAll(pattern)
}

// GetElementByID delegates to the owning Document.
func (c *Context) GetElementByID(id string) *docmodel.Element {
	return c.Document.GetElementByID(id)
}

// Predicate inspects one matched element with the check's Context and
// returns the violation message, or ("", false) if the element is clean.
type Predicate func(el *docmodel.Element, ctx *Context) (message string, hit bool)

// Suggestion produces free-text remediation advice for a matched element.
// Optional on a Rule; a Rule without one simply never attaches a suggestion.
type Suggestion func(el *docmodel.Element) string

// FixProducer attempts to produce an Edit for a matched, violating element.
// It may decline (return ok=false) even when the rule fired — e.g. a fix
// that needs a human-authored value the producer cannot safely invent.
type FixProducer func(el *docmodel.Element, ctx *Context) (edit Edit, ok bool)

// Rule is a value: identifier, metadata, a selector pattern, and the three
// function fields that give it behavior. Rules are struct literals with
// closures, never types implementing an interface — deliberately, so the
// catalog stays a plain data table a caller can filter, serialize metadata
// from, and pass around without dispatch machinery.
type Rule struct {
	// ID is the kebab-case, globally unique rule identifier.
	ID string

	// Name is the short human-readable display name.
	Name string

	// Description is a free-text explanation of what the rule checks.
	Description string

	// Category classifies the rule for filtering and reporting.
	Category Category

	// DefaultSeverity is used when no config or scope overrides it.
	DefaultSeverity Severity

	// Pattern is the selector-engine pattern string whose matches this rule
	// is evaluated against.
	Pattern string

	// Predicate is required; every other function field is optional.
	Predicate Predicate

	// Suggest is optional; nil means no suggestion is ever attached.
	Suggest Suggestion

	// Fix is optional; a nil Fix means the rule is not fixable at all, as
	// distinct from a non-nil Fix that declines per-element.
	Fix FixProducer

	// DocURL links to documentation about this rule.
	DocURL string
}

// Fixable reports whether the rule carries a fix producer at all.
func (r Rule) Fixable() bool {
	return r.Fix != nil
}
