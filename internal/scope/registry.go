package scope

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
)

// Registry holds the process-lifetime set of registered scopes. Safe for
// concurrent reads; Register must not race with lookups or with another
// Register call, matching the core's "scope registry owned by one caller"
// resource policy.
type Registry struct {
	mu     sync.Mutex
	scopes map[string]Scope
	order  []string // registration order, for the "same depth" resolution tie-break
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[string]Scope)}
}

// Register adds s to the registry. Rejects a duplicate id, a parent id
// that isn't registered yet, and self-parenting. Because a parent must
// already be registered before its child, every scope's parent chain is
// built strictly on already-acyclic ground — no further cycle check is
// needed beyond these two.
func (r *Registry) Register(s Scope) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scopes[s.ID]; exists {
		return fmt.Errorf("scope: duplicate id %q", s.ID)
	}
	if s.ParentID != "" {
		if s.ParentID == s.ID {
			return fmt.Errorf("scope: %q cannot be its own parent", s.ID)
		}
		if _, ok := r.scopes[s.ParentID]; !ok {
			return fmt.Errorf("scope: parent %q of %q is not registered", s.ParentID, s.ID)
		}
	}

	r.scopes[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Get returns the scope registered under id.
func (r *Registry) Get(id string) (Scope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scopes[id]
	return s, ok
}

// All returns every registered scope in registration order.
func (r *Registry) All() []Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Scope, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.scopes[id])
	}
	return out
}

// FindByFile returns every enabled, file-glob-discriminated scope whose
// glob matches path, in registration order.
func (r *Registry) FindByFile(path string) []Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	pathSlash := filepath.ToSlash(path)
	var out []Scope
	for _, id := range r.order {
		s := r.scopes[id]
		if !s.Enabled || s.FileGlob == "" {
			continue
		}
		pattern := filepath.ToSlash(s.FileGlob)
		if matched, err := doublestar.Match(pattern, pathSlash); err == nil && matched {
			out = append(out, s)
		}
	}
	return out
}

// FindByComponent returns every enabled, component-name-discriminated
// scope whose ComponentNames list contains name, in registration order.
func (r *Registry) FindByComponent(name string) []Scope {
	if name == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Scope
	for _, id := range r.order {
		s := r.scopes[id]
		if !s.Enabled || len(s.ComponentNames) == 0 {
			continue
		}
		for _, n := range s.ComponentNames {
			if n == name {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// FindByElement returns every enabled, element-selector-discriminated
// scope whose selector matches el under the ancestor-or-self rule: the
// base pattern (with a trailing " *" stripped) is evaluated against doc,
// and el qualifies if it is, or descends from, one of the matched
// elements. A trailing " *" on the selector requires el to be a strict
// descendant — el itself matching the base pattern does not qualify.
func (r *Registry) FindByElement(doc *docmodel.Document, el *docmodel.Element) []Scope {
	if doc == nil || el == nil {
		return nil
	}
	r.mu.Lock()
	scopes := make([]Scope, 0, len(r.order))
	for _, id := range r.order {
		s := r.scopes[id]
		if s.Enabled && s.ElementSelector != "" {
			scopes = append(scopes, s)
		}
	}
	r.mu.Unlock()

	var out []Scope
	for _, s := range scopes {
		pattern := s.ElementSelector
		strictDescendant := false
		if rest, ok := strings.CutSuffix(pattern, " *"); ok {
			pattern = rest
			strictDescendant = true
		}

		matched := doc.QuerySelectorAll(pattern)
		if ancestorOrSelf(el, matched, strictDescendant) {
			out = append(out, s)
		}
	}
	return out
}

// ancestorOrSelf reports whether target equals (unless strictDescendant)
// or is a strict descendant of one of candidates.
func ancestorOrSelf(target *docmodel.Element, candidates []*docmodel.Element, strictDescendant bool) bool {
	for cur := target; cur != nil; cur = cur.Parent {
		if strictDescendant && cur == target {
			continue
		}
		for _, c := range candidates {
			if c == cur {
				return true
			}
		}
	}
	return false
}

// MatchSite returns the deduplicated union of every scope applicable at
// the given Document/Element site across all three discriminator axes,
// in registration order — the starting set step 1 of resolution collects
// before parent closure.
func (r *Registry) MatchSite(doc *docmodel.Document, el *docmodel.Element) []Scope {
	if doc == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Scope
	add := func(s Scope) {
		if seen[s.ID] {
			return
		}
		seen[s.ID] = true
		out = append(out, s)
	}

	for _, s := range r.FindByFile(doc.SourcePath) {
		add(s)
	}
	for _, s := range r.FindByComponent(doc.ComponentName) {
		add(s)
	}
	if el != nil {
		for _, s := range r.FindByElement(doc, el) {
			add(s)
		}
	}

	// Re-sort into registration order: the three finders are each already
	// in registration order individually, but interleaving them above is
	// not.
	r.mu.Lock()
	idx := make(map[string]int, len(r.order))
	for i, id := range r.order {
		idx[id] = i
	}
	r.mu.Unlock()
	sortByIndex(out, idx)
	return out
}
