// Package scope implements the Scope Registry & Resolver: named overlays
// that narrow rule configuration to a file path, a component, or a
// sub-tree, layered on top of a call's base rule configuration to produce
// a per-rule effective severity table.
package scope

import "github.com/tinovyatkin/markuplint/internal/rules"

// RuleConfig is one scope's (or the base config's) override for a single
// rule: a severity, arbitrary rule-specific options, and an optional
// message override. The zero value means "not configured" when looked up
// through a map — absence, not SeverityError, is the default.
type RuleConfig struct {
	Severity rules.Severity
	Options  map[string]any
	Message  string
}

// Scope is a named, configurable overlay. At most one of ElementSelector,
// FileGlob, or ComponentNames should be set — the scope's match
// discriminator. A Scope with none set never matches anything by itself
// but may still serve as a pure grouping parent for configuration
// inheritance.
type Scope struct {
	ID          string
	Name        string
	Description string

	// ParentID is the id of this scope's parent, or "" for a root scope.
	// Parents must be registered before their children.
	ParentID string

	// ElementSelector is an ancestor-or-self selector pattern (evaluated
	// through the bound Selector Engine). A trailing " *" means "any
	// strict descendant of a matching element" rather than the matching
	// element itself.
	ElementSelector string

	// FileGlob is a doublestar glob (brace/star/globstar semantics)
	// matched against a Document's SourcePath.
	FileGlob string

	// ComponentNames is an explicit membership list matched against a
	// Document's ComponentName.
	ComponentNames []string

	// Rules maps rule id to this scope's override for that rule.
	Rules map[string]RuleConfig

	// Enabled excludes a scope from resolution entirely when false.
	// Defaults to true via NewScope; the zero value of Scope is disabled,
	// so constructing one without NewScope requires setting this
	// explicitly.
	Enabled bool
}

// NewScope returns a Scope with Enabled defaulted to true and an
// initialized Rules map, ready for its discriminator and rules to be
// filled in.
func NewScope(id, name string) Scope {
	return Scope{ID: id, Name: name, Enabled: true, Rules: make(map[string]RuleConfig)}
}
