// Package fix implements the Fix Engine: it turns a set of Violations'
// byte-offset Edits into a single conflict-free, applied set and splices
// them into the original source.
//
// Grounded on wharflab-tally/internal/fix's Fixer (sort-filter-apply
// shape, atomic per-fix conflict bookkeeping) but simplified to this
// spec's model: byte offsets instead of line/column, one document instead
// of a multi-file batch, and no async resolvers — every Edit here is
// already fully computed by its rule's fix producer before the Fix Engine
// ever sees it, so there is no two-phase sync/async split to make.
package fix

import (
	"bytes"
	"slices"
	"sort"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

// SkipReason explains why an Edit was not applied.
type SkipReason int

const (
	// SkipRuleFilter means the rule id is excluded by Options' allowlist.
	SkipRuleFilter SkipReason = iota
	// SkipSafety means SafeOnly is set and the edit is not marked safe.
	SkipSafety
	// SkipConflict means the edit's byte range overlaps an already-kept edit.
	SkipConflict
	// SkipMaxFixes means Options.MaxFixes trimmed this (smaller-offset) survivor.
	SkipMaxFixes
	// SkipStaleOldText means the current bytes at the edit's range no longer
	// equal its recorded OldText — the source moved since the edit was
	// computed.
	SkipStaleOldText
)

func (r SkipReason) String() string {
	switch r {
	case SkipRuleFilter:
		return "rule excluded by fix filter"
	case SkipSafety:
		return "edit is not marked safe"
	case SkipConflict:
		return "conflicts with an already-kept edit"
	case SkipMaxFixes:
		return "trimmed by maxFixes"
	case SkipStaleOldText:
		return "source no longer matches the edit's recorded text"
	default:
		return "unknown reason"
	}
}

// ConflictKind classifies how a skipped edit conflicted with an
// already-kept one. Only set when Reason is SkipConflict.
type ConflictKind string

const (
	ConflictSameLocation ConflictKind = "same-location"
	ConflictOverlap      ConflictKind = "overlap"
)

// SkippedEdit records an edit that was not applied, and why.
type SkippedEdit struct {
	Edit     rules.Edit
	Reason   SkipReason
	Conflict ConflictKind
}

// Options controls which edits are eligible and how they are applied.
type Options struct {
	// SafeOnly drops every edit with Safe==false.
	SafeOnly bool

	// DryRun computes Applied/Skipped, but Result.Fixed is the original
	// bytes, unmutated, and Result.Changed is false.
	DryRun bool

	// Include, if non-empty, restricts eligible edits to these rule ids.
	Include []string

	// Exclude drops edits from these rule ids, applied after Include.
	Exclude []string

	// MaxFixes caps the number of edits applied, 0 meaning unlimited. The
	// trailing (smaller-offset) survivors are the ones trimmed.
	MaxFixes int
}

// Result is the outcome of Apply.
type Result struct {
	Original []byte
	Fixed    []byte
	Applied  []rules.Edit
	Skipped  []SkippedEdit
	Changed  bool
}

// Count returns the number of applied edits.
func (r Result) Count() int { return len(r.Applied) }

// Apply extracts every fixable Violation's Edit, filters, deconflicts, and
// splices the survivors into original, following the spec's Fix Engine
// algorithm directly:
//
//  1. Extract edits; apply include/exclude and safety filters.
//  2. Sort by startOffset descending.
//  3. Walk in that order, keeping an edit if its range doesn't overlap an
//     already-kept one; classify and skip the new one otherwise. The
//     earlier-kept edit (i.e. the one with the larger start offset) wins.
//  4. Enforce MaxFixes by dropping the trailing (smaller-offset) survivors.
//  5. Apply survivors in descending-offset order, validating oldText
//     first.
//  6. Return original, fixed, applied, skipped, changed, count.
func Apply(original []byte, violations []rules.Violation, opts Options) Result {
	var edits []rules.Edit
	var skipped []SkippedEdit

	for _, v := range violations {
		if v.Fix == nil {
			continue
		}
		e := *v.Fix
		switch {
		case !ruleAllowed(e.RuleID, opts.Include, opts.Exclude):
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: SkipRuleFilter})
		case opts.SafeOnly && !e.Safe:
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: SkipSafety})
		default:
			edits = append(edits, e)
		}
	}

	// startOffset descending orders first, so splicing an edit never moves
	// the bytes under an edit still to be applied; Priority (lower runs
	// first) breaks ties among edits at the same start offset, and
	// equal-priority edits keep their iteration order.
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].StartOffset != edits[j].StartOffset {
			return edits[i].StartOffset > edits[j].StartOffset
		}
		return edits[i].Priority < edits[j].Priority
	})

	var kept []rules.Edit
	for _, e := range edits {
		if kind, conflicts := classifyConflict(kept, e); conflicts {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: SkipConflict, Conflict: kind})
			continue
		}
		kept = append(kept, e)
	}

	if opts.MaxFixes > 0 && len(kept) > opts.MaxFixes {
		for _, e := range kept[opts.MaxFixes:] {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: SkipMaxFixes})
		}
		kept = kept[:opts.MaxFixes]
	}

	content := original
	applied := make([]rules.Edit, 0, len(kept))
	for _, e := range kept {
		if e.StartOffset < 0 || e.EndOffset > len(content) || e.StartOffset > e.EndOffset ||
			string(content[e.StartOffset:e.EndOffset]) != e.OldText {
			skipped = append(skipped, SkippedEdit{Edit: e, Reason: SkipStaleOldText})
			continue
		}
		content = spliceEdit(content, e)
		applied = append(applied, e)
	}

	result := Result{
		Original: original,
		Applied:  applied,
		Skipped:  skipped,
		Changed:  !opts.DryRun && !bytes.Equal(original, content),
	}
	if opts.DryRun {
		result.Fixed = original
	} else {
		result.Fixed = content
	}
	return result
}

func ruleAllowed(ruleID string, include, exclude []string) bool {
	if len(include) > 0 && !slices.Contains(include, ruleID) {
		return false
	}
	return !slices.Contains(exclude, ruleID)
}

// classifyConflict reports whether e's byte range conflicts with any
// already-kept edit, and if so, whether the conflict is an exact
// same-location duplicate or a partial overlap.
func classifyConflict(kept []rules.Edit, e rules.Edit) (ConflictKind, bool) {
	for _, k := range kept {
		if k.StartOffset == e.StartOffset && k.EndOffset == e.EndOffset {
			return ConflictSameLocation, true
		}
		if k.StartOffset < e.EndOffset && e.StartOffset < k.EndOffset {
			return ConflictOverlap, true
		}
	}
	return "", false
}

// spliceEdit replaces content[e.StartOffset:e.EndOffset] with e.NewText.
func spliceEdit(content []byte, e rules.Edit) []byte {
	var buf bytes.Buffer
	buf.Grow(len(content) - (e.EndOffset - e.StartOffset) + len(e.NewText))
	buf.Write(content[:e.StartOffset])
	buf.WriteString(e.NewText)
	buf.Write(content[e.EndOffset:])
	return buf.Bytes()
}
