package selector

import (
	"strings"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
)

// Evaluate runs a parsed Pattern against doc and returns every matching
// element, in document order, with duplicates across alternatives removed.
//
// Evaluation order per alternative: (1) base-selector matches over the
// whole tree in document order, (2) filter by each predicate in author
// order, (3) apply :count last as a result-set gate.
func Evaluate(doc *docmodel.Document, pattern *Pattern) []*docmodel.Element {
	if doc == nil || doc.Root == nil || pattern == nil {
		return nil
	}

	seen := make(map[*docmodel.Element]bool)
	var out []*docmodel.Element

	for _, alt := range pattern.Alternatives {
		for _, el := range evaluateSelector(doc, alt) {
			if !seen[el] {
				seen[el] = true
				out = append(out, el)
			}
		}
	}

	// Re-sort into document order: alternatives may interleave otherwise.
	docOrder := doc.AllElements()
	index := make(map[*docmodel.Element]int, len(docOrder))
	for i, el := range docOrder {
		index[el] = i
	}
	sortByDocOrder(out, index)
	return out
}

func sortByDocOrder(els []*docmodel.Element, index map[*docmodel.Element]int) {
	// Small insertion sort is fine: result sets are bounded by document size
	// and this runs once per pattern evaluation, not per predicate.
	for i := 1; i < len(els); i++ {
		for j := i; j > 0 && index[els[j-1]] > index[els[j]]; j-- {
			els[j-1], els[j] = els[j], els[j-1]
		}
	}
}

func evaluateSelector(doc *docmodel.Document, sel Selector) []*docmodel.Element {
	all := doc.AllElements()
	result := make([]*docmodel.Element, 0, len(all))
	for _, el := range all {
		if matchesBase(el, sel.Base) {
			result = append(result, el)
		}
	}

	for _, pred := range sel.Predicates {
		if pred.Kind == PredCount {
			continue // applied last, as a gate
		}
		result = filterByPredicate(doc, result, pred)
	}

	for _, pred := range sel.Predicates {
		if pred.Kind != PredCount {
			continue
		}
		if !countSatisfied(pred, len(result)) {
			return nil
		}
	}

	return result
}

func matchesBase(el *docmodel.Element, b BaseSelector) bool {
	switch {
	case b.Universal:
		return true
	case b.ID != "":
		return el.ID() == b.ID
	case b.Class != "":
		for _, c := range el.Classes() {
			if c == b.Class {
				return true
			}
		}
		return false
	case b.HasAttrBracket:
		if b.Tag != "" && el.Tag != b.Tag {
			return false
		}
		val, ok := el.GetAttribute(b.AttrName)
		if !ok {
			return false
		}
		if b.AttrHasValue {
			return val == b.AttrValue
		}
		return true
	case b.Tag != "":
		return el.Tag == b.Tag
	default:
		return false
	}
}

func filterByPredicate(doc *docmodel.Document, els []*docmodel.Element, pred Predicate) []*docmodel.Element {
	switch pred.Kind {
	case PredUnknown:
		return els
	case PredContains:
		return filter(els, func(el *docmodel.Element) bool {
			text := el.TextContent()
			if pred.CaseInsensitive {
				return strings.Contains(strings.ToLower(text), strings.ToLower(pred.Text))
			}
			return strings.Contains(text, pred.Text)
		})
	case PredContainsRegex:
		return filter(els, func(el *docmodel.Element) bool {
			return pred.Regex != nil && pred.Regex.MatchString(el.TextContent())
		})
	case PredWithout:
		return filter(els, func(el *docmodel.Element) bool {
			return !el.HasAttribute(pred.Attr)
		})
	case PredHas:
		matched := matchSet(doc, pred.Sub)
		return filter(els, func(el *docmodel.Element) bool {
			for _, d := range descendants(el) {
				if matched[d] {
					return true
				}
			}
			return false
		})
	case PredHasParent:
		matched := matchSet(doc, pred.Sub)
		return filter(els, func(el *docmodel.Element) bool {
			return el.Parent != nil && matched[el.Parent]
		})
	case PredHasAncestor:
		matched := matchSet(doc, pred.Sub)
		return filter(els, func(el *docmodel.Element) bool {
			for _, a := range el.Ancestors() {
				if matched[a] {
					return true
				}
			}
			return false
		})
	case PredHasSibling:
		matched := matchSet(doc, pred.Sub)
		return filter(els, func(el *docmodel.Element) bool {
			for _, s := range el.Siblings() {
				if matched[s] {
					return true
				}
			}
			return false
		})
	case PredNot:
		// :not(P) is specified against the whole root — P is evaluated
		// against the entire document, not restricted to the current
		// candidate set or a subtree. Nested :not inside another predicate
		// (e.g. :has(:not(...))) follows the same whole-document rule
		// uniformly: every selector-embedding predicate evaluates its
		// sub-pattern against the full document, never a restricted scope.
		matched := matchSet(doc, pred.Sub)
		return filter(els, func(el *docmodel.Element) bool {
			return !matched[el]
		})
	default:
		return els
	}
}

func matchSet(doc *docmodel.Document, sub *Pattern) map[*docmodel.Element]bool {
	set := make(map[*docmodel.Element]bool)
	for _, el := range Evaluate(doc, sub) {
		set[el] = true
	}
	return set
}

func descendants(el *docmodel.Element) []*docmodel.Element {
	var out []*docmodel.Element
	for _, c := range el.Children {
		docmodel.Walk(c, func(d *docmodel.Element) {
			out = append(out, d)
		})
	}
	return out
}

func filter(els []*docmodel.Element, keep func(*docmodel.Element) bool) []*docmodel.Element {
	out := els[:0:0]
	for _, el := range els {
		if keep(el) {
			out = append(out, el)
		}
	}
	return out
}

func countSatisfied(pred Predicate, n int) bool {
	switch pred.Op {
	case "=":
		return n == pred.N
	case ">":
		return n > pred.N
	case "<":
		return n < pred.N
	case ">=":
		return n >= pred.N
	case "<=":
		return n <= pred.N
	default:
		return true
	}
}
