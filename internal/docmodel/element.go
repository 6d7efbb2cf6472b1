// Package docmodel provides the source-agnostic document model shared by the
// HTML parser adapter and the component-tree adapter: a tree of Elements with
// byte-exact source spans, owned exclusively by a Document.
package docmodel

import "strings"

// Position is a single point in the original source bytes.
//
// Line is 1-based, Column is 0-based — matching neither the teacher's
// BuildKit-derived LSP convention (0-based line) nor any other single
// standard; this spec calls for 1-based lines explicitly, so we follow it.
type Position struct {
	Line   int
	Column int
}

// SourceLocation is the byte-exact span of an Element in the original bytes.
// Start is inclusive, End is exclusive. Nil on an Element means the node was
// synthesized (e.g. a Component-Tree Adapter placeholder or a fallback root)
// and has no corresponding source text.
type SourceLocation struct {
	StartOffset int
	EndOffset   int
	Line        int // 1-based, of StartOffset
	Column      int // 0-based, of StartOffset
}

// Attribute is a single name/value pair. Name is lower-cased; Value is kept
// verbatim as authored. An HTML boolean attribute written without a value
// keeps the empty Value the tokenizer gives it; a lowered JSX attribute
// without a value is given Value=="true" by the Component-Tree Adapter's
// lowering rule. Presence is always queried through Element.HasAttribute,
// never by checking for an empty Value.
type Attribute struct {
	Name  string
	Value string
}

// Element is a single tree node: a tag name, its attributes, its children,
// and a non-owning back-reference to its parent (nil only for the Document
// root). Comment and processing-instruction nodes are never represented;
// text is folded into textContent as the tree is built, not kept as sibling
// nodes, so rules only ever see Element nodes.
type Element struct {
	Tag      string
	Attrs    []Attribute
	Children []*Element
	Parent   *Element
	Span     *SourceLocation

	// textContent is precomputed bottom-up while the tree is built: the
	// concatenation, in author order, of this element's own text runs
	// interleaved with each child's own textContent.
	textContent string
}

// GetAttribute returns the attribute's value and whether it is present.
func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether name is present, irrespective of its value.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// TextContent returns the concatenation of all descendant text, in author
// order, with no normalization beyond joining.
func (e *Element) TextContent() string {
	return e.textContent
}

// AppendText folds a text run directly into textContent. Parser adapters
// call this as they encounter each text token, in document order, so that
// interleaving with AppendChild calls produces the correct author-order
// concatenation without a separate tree walk.
func (e *Element) AppendText(text string) {
	e.textContent += text
}

// AppendChild attaches child to e, setting the back-reference and folding
// child's already-finished textContent into e's own — child must be fully
// built (all of its own children and text appended) before this call, which
// parser adapters naturally satisfy by appending on each node's close.
func (e *Element) AppendChild(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
	e.textContent += child.textContent
}

// GetSourceLocation returns the element's source span, or nil for a
// synthesized node.
func (e *Element) GetSourceLocation() *SourceLocation {
	return e.Span
}

// Serialize renders `<tag attr1="" attr2="value">` the way violation
// reporting and fix-targeting expect: tag name followed by its attributes
// in insertion order, each rendered as name="value" (an empty value as
// name="").
func (e *Element) Serialize() string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.Tag)
	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// ID returns the element's id attribute, or "" if absent.
func (e *Element) ID() string {
	v, _ := e.GetAttribute("id")
	return v
}

// Classes returns the element's class attribute split on whitespace.
func (e *Element) Classes() []string {
	v, ok := e.GetAttribute("class")
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return strings.Fields(v)
}

// Ancestors returns the strict ancestor chain, nearest first.
func (e *Element) Ancestors() []*Element {
	var out []*Element
	for p := e.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Siblings returns the other children of this element's parent, in document
// order, excluding the element itself. Returns nil for the root.
func (e *Element) Siblings() []*Element {
	if e.Parent == nil {
		return nil
	}
	out := make([]*Element, 0, len(e.Parent.Children)-1)
	for _, c := range e.Parent.Children {
		if c != e {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits e and every descendant in depth-first document order.
func Walk(e *Element, visit func(*Element)) {
	visit(e)
	for _, c := range e.Children {
		Walk(c, visit)
	}
}

// Breadcrumb renders the short "tag#id" / "tag.class1.class2" / "tag" form
// used for scope-aware result shaping's elementPath.
func (e *Element) Breadcrumb() string {
	if id := e.ID(); id != "" {
		return e.Tag + "#" + id
	}
	if classes := e.Classes(); len(classes) > 0 {
		return e.Tag + "." + strings.Join(classes, ".")
	}
	return e.Tag
}
