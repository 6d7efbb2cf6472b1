package scope

import (
	"reflect"
	"sort"

	"github.com/tinovyatkin/markuplint/internal/rules"
)

// ConflictType classifies how two or more scopes disagree about a rule's
// configuration.
type ConflictType string

const (
	ConflictSeverity ConflictType = "severity"
	ConflictOptions  ConflictType = "options"
	ConflictBoth     ConflictType = "both"
)

// Conflict reports that a rule was configured by two or more applicable
// scopes with disagreeing settings. Conflicts are informational: they
// never fail a check, only the last-applied (deepest, rightmost in
// resolution order) setting is the Resolution's actual effective value.
type Conflict struct {
	RuleID string
	Type   ConflictType
	// ScopeIDs are the scopes that configured RuleID, in resolution
	// order.
	ScopeIDs []string
}

// Resolution is the outcome of resolving a call site's applicable scopes
// against a base rule configuration: the ordered scope hierarchy that was
// applied, the resulting per-rule overrides, and any detected conflicts.
type Resolution struct {
	// Scopes is the resolved hierarchy, root-first, in the order it was
	// applied.
	Scopes []Scope

	// Effective maps rule id to its resolved override. A rule id absent
	// from this map was not configured at this site by the base config
	// or any applicable scope; the caller falls back to the rule's own
	// default severity.
	Effective map[string]RuleConfig

	// Source maps rule id to the id of the scope that last set its
	// effective override, for rules a scope (not just the base config)
	// configured. Absent for a rule the base config set but no scope
	// touched, and for a rule no scope or base config configured at all.
	Source map[string]string

	Conflicts []Conflict
}

// Resolve combines base (the call's global rule configuration) with the
// scopes matched at a call site. When includeParents is true, matched's
// parent chains are closed transitively before sorting and layering. When
// detectConflicts is true, every rule configured by two or more of the
// applicable scopes is reported as a Conflict.
func (r *Registry) Resolve(base map[string]RuleConfig, matched []Scope, includeParents, detectConflicts bool) Resolution {
	ordered := matched
	if includeParents {
		ordered = r.closeParents(matched)
	}
	ordered = r.sortRootFirst(ordered)

	effective := make(map[string]RuleConfig, len(base))
	for id, cfg := range base {
		effective[id] = cfg
	}

	source := make(map[string]string)
	configuredBy := make(map[string][]string)
	configs := make(map[string][]RuleConfig)
	for _, s := range ordered {
		if !s.Enabled {
			continue
		}
		for ruleID, cfg := range s.Rules {
			// cfg replaces any prior override wholesale, including Severity.
			// A scope whose RuleConfig only sets Options still carries
			// Severity at its zero value (SeverityError) and overrides the
			// base config's severity with it — a scope that only wants to
			// add options for a rule must restate that rule's severity too.
			effective[ruleID] = cfg
			source[ruleID] = s.ID
			configuredBy[ruleID] = append(configuredBy[ruleID], s.ID)
			configs[ruleID] = append(configs[ruleID], cfg)
		}
	}

	res := Resolution{Scopes: ordered, Effective: effective, Source: source}
	if detectConflicts {
		res.Conflicts = detectRuleConflicts(configuredBy, configs)
	}
	return res
}

// closeParents returns matched plus every ancestor reachable by following
// ParentID, deduplicated. A disabled scope is never added to the result,
// but its own ancestors are still followed so a hierarchy isn't cut short
// by an intermediate disabled scope.
func (r *Registry) closeParents(matched []Scope) []Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	var out []Scope
	var add func(s Scope)
	add = func(s Scope) {
		if seen[s.ID] {
			return
		}
		seen[s.ID] = true
		if s.Enabled {
			out = append(out, s)
		}
		if s.ParentID != "" {
			if p, ok := r.scopes[s.ParentID]; ok {
				add(p)
			}
		}
	}
	for _, s := range matched {
		add(s)
	}
	return out
}

// depth returns the number of ancestors above s (0 for a root scope).
func (r *Registry) depth(s Scope) int {
	d := 0
	for s.ParentID != "" {
		p, ok := r.scopes[s.ParentID]
		if !ok {
			break
		}
		s = p
		d++
	}
	return d
}

// sortRootFirst orders scopes root-first; within the same depth, by
// registration order.
func (r *Registry) sortRootFirst(scopes []Scope) []Scope {
	r.mu.Lock()
	idx := make(map[string]int, len(r.order))
	for i, id := range r.order {
		idx[id] = i
	}
	depths := make(map[string]int, len(scopes))
	for _, s := range scopes {
		depths[s.ID] = r.depth(s)
	}
	r.mu.Unlock()

	out := make([]Scope, len(scopes))
	copy(out, scopes)
	sort.SliceStable(out, func(i, j int) bool {
		if depths[out[i].ID] != depths[out[j].ID] {
			return depths[out[i].ID] < depths[out[j].ID]
		}
		return idx[out[i].ID] < idx[out[j].ID]
	})
	return out
}

// sortByIndex sorts scopes in place by their position in idx.
func sortByIndex(scopes []Scope, idx map[string]int) {
	sort.SliceStable(scopes, func(i, j int) bool {
		return idx[scopes[i].ID] < idx[scopes[j].ID]
	})
}

// detectRuleConflicts reports a Conflict for every rule id configured by
// two or more scopes whose settings disagree.
func detectRuleConflicts(configuredBy map[string][]string, configs map[string][]RuleConfig) []Conflict {
	var out []Conflict
	for ruleID, ids := range configuredBy {
		if len(ids) < 2 {
			continue
		}
		cfgs := configs[ruleID]
		sevDiffers, optDiffers := false, false
		for i := 1; i < len(cfgs); i++ {
			if cfgs[i].Severity != cfgs[0].Severity {
				sevDiffers = true
			}
			if !reflect.DeepEqual(cfgs[i].Options, cfgs[0].Options) {
				optDiffers = true
			}
		}
		if !sevDiffers && !optDiffers {
			continue
		}

		var ctype ConflictType
		switch {
		case sevDiffers && optDiffers:
			ctype = ConflictBoth
		case sevDiffers:
			ctype = ConflictSeverity
		default:
			ctype = ConflictOptions
		}
		out = append(out, Conflict{RuleID: ruleID, Type: ctype, ScopeIDs: ids})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}

// EffectiveSeverity returns ruleID's resolved severity: the configured
// override if the base config or an applicable scope set one, else
// defaultSeverity(ruleID) — the Rule Engine's SeverityOf hook calls a rule
// registry's own default when a Resolution has nothing to say about it.
func (res Resolution) EffectiveSeverity(ruleID string, defaultSeverity func(string) rules.Severity) rules.Severity {
	if cfg, ok := res.Effective[ruleID]; ok {
		return cfg.Severity
	}
	return defaultSeverity(ruleID)
}

// SourceOf returns the id of the scope that last set ruleID's effective
// override, or "" if only the base config (or nothing) configured it.
func (res Resolution) SourceOf(ruleID string) string {
	return res.Source[ruleID]
}
