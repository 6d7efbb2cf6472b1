package selector

import (
	"fmt"
	"sync"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
)

// Engine implements docmodel.Matcher: it parses and evaluates pattern
// strings against a Document, caching compiled patterns across repeated
// calls with the same pattern string (the common case — the same rule
// pattern runs against many Documents over a check session).
//
// An unparsable pattern does not fail the check: it yields zero matches and
// the error is appended to Diagnostics, mirroring the directive parser's
// accumulate-errors-and-continue style.
type Engine struct {
	mu          sync.Mutex
	cache       map[string]*Pattern
	diagnostics []string
}

// New creates an Engine ready to be bound to one or more Documents via
// docmodel.Document.BindMatcher.
func New() *Engine {
	return &Engine{cache: make(map[string]*Pattern)}
}

// QueryAll implements docmodel.Matcher.
func (e *Engine) QueryAll(doc *docmodel.Document, pattern string) []*docmodel.Element {
	p, err := e.compile(pattern)
	if err != nil {
		e.mu.Lock()
		e.diagnostics = append(e.diagnostics, fmt.Sprintf("pattern %q: %v", pattern, err))
		e.mu.Unlock()
		return nil
	}
	return Evaluate(doc, p)
}

func (e *Engine) compile(pattern string) (*Pattern, error) {
	e.mu.Lock()
	if p, ok := e.cache[pattern]; ok {
		e.mu.Unlock()
		return p, nil
	}
	e.mu.Unlock()

	p, err := Parse(pattern)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[pattern] = p
	e.mu.Unlock()
	return p, nil
}

// Diagnostics returns every pattern error accumulated since the Engine was
// created, in the order they occurred.
func (e *Engine) Diagnostics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.diagnostics))
	copy(out, e.diagnostics)
	return out
}
