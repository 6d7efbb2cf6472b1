// Package api is the public surface (§4.H): given source bytes, a kind, a
// path, and a configuration, it parses source with the matching adapter,
// runs the Rule Engine against the result, and shapes the outcome into a
// Result (or, with fixes requested, a FixableResult) — scope identifiers
// and element breadcrumbs attached along the way when a scope registry is
// supplied.
package api

import (
	"github.com/tinovyatkin/markuplint/internal/componenttree"
	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/fix"
	"github.com/tinovyatkin/markuplint/internal/htmlparse"
	"github.com/tinovyatkin/markuplint/internal/rules"
	"github.com/tinovyatkin/markuplint/internal/scope"
	"github.com/tinovyatkin/markuplint/internal/selector"
)

// Kind selects which adapter produces the Document(s) a check runs
// against.
type Kind int

const (
	KindHTML Kind = iota
	KindComponent
)

// GlobalScope is the sentinel bucket GroupByScope files scope-less
// violations under.
const GlobalScope = "_global"

// Config is everything one check needs beyond the source bytes themselves.
// The rule catalog's contents are out of scope for this engine — callers
// build and register their own rules.Registry — but the registry, base
// rule configuration, and scope hierarchy to resolve against all live here.
type Config struct {
	Registry *rules.Registry

	// Rules is the base (global) per-rule configuration, overridden by any
	// applicable scope's own setting.
	Rules map[string]scope.RuleConfig

	// Scopes is optional; a nil Scopes means every rule runs at its base
	// (or, absent that, default) severity with no scope attribution.
	Scopes *scope.Registry

	IncludeParents  bool
	DetectConflicts bool

	FailOnWarnings bool
	MaxWarnings    int
}

// Result is one check's outcome: every violation found, with counts
// recomputed from them on return, per §4.H.
type Result struct {
	Violations   []rules.Violation
	ErrorCount   int
	WarningCount int
	InfoCount    int
}

// ShouldFail reports whether this Result should fail a caller's build,
// given the same failOnWarnings/maxWarnings knobs as Config.
func (r Result) ShouldFail(failOnWarnings bool, maxWarnings int) bool {
	if r.ErrorCount > 0 {
		return true
	}
	if failOnWarnings && r.WarningCount > 0 {
		return true
	}
	if maxWarnings > 0 && r.WarningCount > maxWarnings {
		return true
	}
	return false
}

// FixableResult is a check's outcome when fixes were requested: the same
// Result, plus the Fix Engine's own outcome applying every fixable
// violation found.
type FixableResult struct {
	Result
	Fixed   []byte
	Applied []rules.Edit
	Skipped []fix.SkippedEdit
	Changed bool
}

// GroupByScope buckets violations by their Scope field, placing scope-less
// violations (Scope=="") under GlobalScope.
func GroupByScope(violations []rules.Violation) map[string][]rules.Violation {
	out := make(map[string][]rules.Violation)
	for _, v := range violations {
		key := v.Scope
		if key == "" {
			key = GlobalScope
		}
		out[key] = append(out[key], v)
	}
	return out
}

// Check parses source per kind (one Document for KindHTML, one per
// component branch for KindComponent) and runs cfg's registry against
// every resulting Document.
func Check(source []byte, kind Kind, path string, cfg Config) (Result, error) {
	docs, err := parse(source, kind, path)
	if err != nil {
		return Result{}, err
	}

	var violations []rules.Violation
	for _, doc := range docs {
		violations = append(violations, checkDocument(doc, cfg, false)...)
	}
	return buildResult(violations), nil
}

// CheckWithFixes runs Check with fix producers enabled, then applies the
// Fix Engine to source using every fixable violation found across every
// document. This only produces a meaningful single Fixed output for
// KindHTML, where exactly one Document shares source's own byte offsets;
// for KindComponent every branch Document's violations carry offsets into
// the same underlying component source file, so a single Apply call over
// their union still applies correctly.
func CheckWithFixes(source []byte, kind Kind, path string, cfg Config, opts fix.Options) (FixableResult, error) {
	docs, err := parse(source, kind, path)
	if err != nil {
		return FixableResult{}, err
	}

	var violations []rules.Violation
	for _, doc := range docs {
		violations = append(violations, checkDocument(doc, cfg, true)...)
	}

	fr := fix.Apply(source, violations, opts)
	return FixableResult{
		Result:  buildResult(violations),
		Fixed:   fr.Fixed,
		Applied: fr.Applied,
		Skipped: fr.Skipped,
		Changed: fr.Changed,
	}, nil
}

func parse(source []byte, kind Kind, path string) ([]*docmodel.Document, error) {
	if kind == KindComponent {
		branches, err := componenttree.Parse(source, path)
		if err != nil {
			return nil, err
		}
		docs := make([]*docmodel.Document, len(branches))
		for i, b := range branches {
			docs[i] = b.Document
		}
		return docs, nil
	}

	doc, err := htmlparse.Parse(source, path)
	if err != nil {
		return nil, err
	}
	doc.BindMatcher(selector.New())
	return []*docmodel.Document{doc}, nil
}

// checkDocument resolves doc's file/component-level scopes once to build
// the severityOf the Rule Engine needs (file- and component-name
// discriminators apply uniformly across a whole Document), runs the
// engine, and then separately resolves each individual violation's own
// element against the full scope registry (including the element-selector
// discriminator) purely to attribute a Scope id and elementPath for
// reporting — a deliberate split documented in DESIGN.md: per-element
// ElementSelector scopes can change *who gets credited* for a violation's
// configured severity, but do not currently vary the severity the engine
// evaluated the element at in the first place.
func checkDocument(doc *docmodel.Document, cfg Config, fixMode bool) []rules.Violation {
	if cfg.Registry == nil {
		return nil
	}

	docRes := scope.Resolution{Effective: cfg.Rules}
	if cfg.Scopes != nil {
		site := cfg.Scopes.MatchSite(doc, doc.Root)
		docRes = cfg.Scopes.Resolve(cfg.Rules, site, cfg.IncludeParents, cfg.DetectConflicts)
	}

	severityOf := func(ruleID string) rules.Severity {
		def := rules.SeverityError
		if rule, ok := cfg.Registry.Get(ruleID); ok {
			def = rule.DefaultSeverity
		}
		return docRes.EffectiveSeverity(ruleID, func(string) rules.Severity { return def })
	}

	violations := rules.Check(doc, cfg.Registry, severityOf, fixMode)

	for i := range violations {
		v := &violations[i]
		el := findElement(doc, v.Location)
		if el == nil {
			continue
		}
		v.ElementPath = breadcrumbPath(el)
		if cfg.Scopes != nil {
			site := cfg.Scopes.MatchSite(doc, el)
			res := cfg.Scopes.Resolve(cfg.Rules, site, cfg.IncludeParents, false)
			v.Scope = res.SourceOf(v.RuleID)
		}
	}
	return violations
}

// findElement locates the element a Violation was raised against by its
// byte-exact span — the Rule Engine records a Location but not the
// *Element pointer itself on Violation, since Violation is meant to be a
// plain serializable value.
func findElement(doc *docmodel.Document, loc rules.Location) *docmodel.Element {
	for _, el := range doc.AllElements() {
		span := el.GetSourceLocation()
		if span != nil && span.StartOffset == loc.StartOffset && span.EndOffset == loc.EndOffset {
			return el
		}
	}
	return nil
}

func breadcrumbPath(el *docmodel.Element) []string {
	chain := el.Ancestors()
	path := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		path = append(path, chain[i].Breadcrumb())
	}
	return append(path, el.Breadcrumb())
}

func buildResult(violations []rules.Violation) Result {
	r := Result{Violations: violations}
	for _, v := range violations {
		switch v.Severity {
		case rules.SeverityError:
			r.ErrorCount++
		case rules.SeverityWarning:
			r.WarningCount++
		case rules.SeverityInfo:
			r.InfoCount++
		}
	}
	return r
}
