package rules

import (
	"fmt"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/sourcemap"
)

// snippetMaxBytes bounds the context excerpt attached to a Violation.
const snippetMaxBytes = 100

// SeverityOf resolves the effective severity for a rule id at the current
// check site. Returning SeverityOff excludes the rule entirely.
type SeverityOf func(ruleID string) Severity

// Check runs every non-off rule in registry against doc, in registration
// order, and returns the violations in rule-registration-order x
// pattern-document-order — the determinism the core guarantees. When
// fixMode is true, a fixable rule's FixProducer is invoked for each hit and
// its Edit (if produced) is attached.
func Check(doc *docmodel.Document, registry *Registry, severityOf SeverityOf, fixMode bool) []Violation {
	if doc == nil || doc.Root == nil || registry == nil {
		return nil
	}

	var sm *sourcemap.SourceMap
	if doc.Source != nil {
		sm = sourcemap.New(doc.Source)
	}

	ctx := &Context{Document: doc}

	var violations []Violation
	for _, rule := range registry.All() {
		sev := severityOf(rule.ID)
		if sev == SeverityOff {
			continue
		}

		for _, el := range doc.QuerySelectorAll(rule.Pattern) {
			msg, hit, panicErr := evalPredicate(rule, el, ctx)
			if panicErr != nil {
				violations = append(violations, internalViolation(doc, rule, el, panicErr))
				continue
			}
			if !hit {
				continue
			}

			v := Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Message:  msg,
				Severity: sev,
				Category: rule.Category,
				Element:  el.Serialize(),
				DocURL:   rule.DocURL,
				Fixable:  rule.Fixable(),
			}

			if span := el.GetSourceLocation(); span != nil {
				v.Location = Location{
					File:        doc.SourcePath,
					Start:       Position{Line: span.Line, Column: span.Column},
					StartOffset: span.StartOffset,
					EndOffset:   span.EndOffset,
				}
				if sm != nil {
					v.Snippet = sm.SnippetForRange(span.StartOffset, span.EndOffset, snippetMaxBytes)
				}
			}

			if rule.Suggest != nil {
				v.Suggestion = rule.Suggest(el)
			}

			if fixMode && rule.Fix != nil {
				if edit, ok := evalFix(rule, el, ctx); ok {
					v.Fix = &edit
				}
			}

			violations = append(violations, v)
		}
	}
	return violations
}

func evalPredicate(rule Rule, el *docmodel.Element, ctx *Context) (msg string, hit bool, panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = fmt.Errorf("%v", r)
		}
	}()
	msg, hit = rule.Predicate(el, ctx)
	return msg, hit, panicErr
}

// evalFix invokes a fix producer with panic recovery: a fix producer that
// panics is treated as declining to fix this element, not as a check
// failure — the violation itself still gets reported by the predicate pass
// above.
func evalFix(rule Rule, el *docmodel.Element, ctx *Context) (edit Edit, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return rule.Fix(el, ctx)
}

func internalViolation(doc *docmodel.Document, rule Rule, el *docmodel.Element, cause error) Violation {
	v := Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Message:  fmt.Sprintf("internal: predicate for rule %q panicked: %v", rule.ID, cause),
		Severity: SeverityError,
		Category: rule.Category,
		Element:  el.Serialize(),
	}
	if span := el.GetSourceLocation(); span != nil {
		v.Location = Location{
			File:        doc.SourcePath,
			Start:       Position{Line: span.Line, Column: span.Column},
			StartOffset: span.StartOffset,
			EndOffset:   span.EndOffset,
		}
	}
	return v
}
