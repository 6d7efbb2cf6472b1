package docmodel

// Matcher computes the elements of root's tree (or its owning Document) that
// match a pattern string. It is implemented by the selector package; this
// interface lives here, not there, so that docmodel stays free of a direct
// dependency on the selector grammar it does not need to know about — the
// same inversion the teacher uses for internal/fix.FixResolver, which is
// declared in the consuming package and implemented elsewhere.
type Matcher interface {
	QueryAll(doc *Document, pattern string) []*Element
}

// Document owns exactly one Element tree and provides the three whole-tree
// lookups every Rule predicate is given through Context. A Document's
// Elements are destroyed with it; Parent back-references are non-owning and
// never extend an Element's lifetime beyond its Document's.
type Document struct {
	Root    *Element
	matcher Matcher

	// SourcePath is the file path the Document was produced from. Used only
	// for scope glob matching and reporting, never for parsing decisions.
	SourcePath string

	// ComponentName is set by the Component-Tree Adapter for a lowered
	// branch Document; empty for a plain HTML Document.
	ComponentName string

	// Source is the original bytes the Document's spans are offsets into:
	// the HTML source for a parsed Document, or the component source file
	// for a lowered branch. Used for snippet extraction and the Fix
	// Engine's oldText validation; nil for a Document with no byte-backed
	// source (should not normally occur outside of tests).
	Source []byte
}

// NewDocument wraps root into a new Document.
func NewDocument(root *Element) *Document {
	return &Document{Root: root}
}

// BindMatcher attaches the selector engine implementation used by
// QuerySelector/QuerySelectorAll. Must be called once before those methods
// are used; the HTML parser adapter and Component-Tree Adapter both do this
// immediately after building a Document.
func (d *Document) BindMatcher(m Matcher) {
	d.matcher = m
}

// QuerySelector returns the first element (in document order) matching
// pattern, or nil if none match or no matcher is bound.
func (d *Document) QuerySelector(pattern string) *Element {
	all := d.QuerySelectorAll(pattern)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QuerySelectorAll returns every element matching pattern, in document
// order. Returns nil if no matcher is bound.
func (d *Document) QuerySelectorAll(pattern string) []*Element {
	if d.matcher == nil {
		return nil
	}
	return d.matcher.QueryAll(d, pattern)
}

// GetElementByID walks the tree in document order and returns the first
// element whose id attribute equals id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if d.Root == nil || id == "" {
		return nil
	}
	var found *Element
	Walk(d.Root, func(e *Element) {
		if found == nil && e.ID() == id {
			found = e
		}
	})
	return found
}

// AllElements returns every element in the Document in depth-first document
// order (the order every whole-tree lookup and the Selector Engine's base
// matching both rely on).
func (d *Document) AllElements() []*Element {
	if d.Root == nil {
		return nil
	}
	var out []*Element
	Walk(d.Root, func(e *Element) {
		out = append(out, e)
	})
	return out
}
