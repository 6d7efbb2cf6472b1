package componenttree

import (
	"strings"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/sourcemap"
)

// attrNameMap is the fixed JSX-to-HTML attribute rename table. Any name not
// listed here is lower-cased.
var attrNameMap = map[string]string{
	"className":    "class",
	"htmlFor":      "for",
	"tabIndex":     "tabindex",
	"readOnly":     "readonly",
	"maxLength":    "maxlength",
	"minLength":    "minlength",
	"autoComplete": "autocomplete",
	"autoFocus":    "autofocus",
	"srcSet":       "srcset",
	"crossOrigin":  "crossorigin",
	"noValidate":   "novalidate",
}

func mapAttrName(name string) string {
	if mapped, ok := attrNameMap[name]; ok {
		return mapped
	}
	return strings.ToLower(name)
}

// lowerer walks one branch's tree-literal source and builds the equivalent
// docmodel.Element tree, within [start, end).
type lowerer struct {
	s   *scanner
	end int
	sm  *sourcemap.SourceMap
}

// Lower builds the Element tree for the branch src[start:end). The branch
// is always a single JSX expression, so it has exactly one top-level node
// (an element or a fragment); a fragment's children are appended directly
// onto the synthetic root the same way they would be onto any other
// parent, giving flattening for free.
func Lower(src []byte, start, end int, sm *sourcemap.SourceMap) *docmodel.Element {
	root := &docmodel.Element{Tag: "html"}
	lw := &lowerer{s: &scanner{src: src, pos: start}, end: end, sm: sm}
	if lw.s.pos < lw.end && lw.s.cur() == '<' {
		lw.lowerInto(root)
	}
	return root
}

// lowerInto parses the JSX node at s.pos (s.cur()=='<') and appends onto
// parent whatever it lowers to: a single Element, or — for a fragment or a
// component reference — nothing of its own beyond the placeholder/flattened
// children.
func (p *lowerer) lowerInto(parent *docmodel.Element) {
	startOffset := p.s.pos
	p.s.pos++ // consume '<'
	name := p.s.readIdent()
	p.s.skipWS()

	if name == "" {
		// Fragment: "<>...</>". Its children are flattened into parent.
		if p.s.cur() == '>' {
			p.s.pos++
		}
		p.lowerChildrenInto(parent, "")
		return
	}

	attrs := p.parseAttrs()
	selfClosing := false
	switch {
	case p.s.cur() == '/' && p.s.byteAt(p.s.pos+1) == '>':
		selfClosing = true
		p.s.pos += 2
	case p.s.cur() == '>':
		p.s.pos++
	}

	if isUpper(name[0]) {
		el := &docmodel.Element{Tag: "div", Span: p.span(startOffset, p.s.pos)}
		if !selfClosing {
			discard := &docmodel.Element{}
			p.lowerChildrenInto(discard, name)
			el.Span.EndOffset = p.s.pos
		}
		parent.AppendChild(el)
		return
	}

	el := &docmodel.Element{Tag: strings.ToLower(name), Attrs: attrs, Span: p.span(startOffset, p.s.pos)}
	if !selfClosing {
		p.lowerChildrenInto(el, name)
		el.Span.EndOffset = p.s.pos
	}
	parent.AppendChild(el)
}

// lowerChildrenInto consumes children up to and including the matching
// "</tagName>" (or "</>" for a fragment, tagName==""), appending text and
// lowered elements onto parent in document order.
func (p *lowerer) lowerChildrenInto(parent *docmodel.Element, tagName string) {
	for p.s.pos < p.end && !p.s.eof() {
		if p.matchesClosingTag(tagName) {
			p.consumeClosingTag(tagName)
			return
		}
		switch p.s.cur() {
		case '<':
			p.lowerInto(parent)
			continue
		case '{':
			// An expression child (e.g. "{cond && <X/>}") is not itself a
			// tree literal; this adapter only lowers the literal tree the
			// branch extraction already committed to.
			if e := p.s.matchBalanced('{', '}'); e != -1 {
				p.s.pos = e
			} else {
				p.s.pos = len(p.s.src)
			}
			continue
		}
		textStart := p.s.pos
		for p.s.pos < p.end && !p.s.eof() && p.s.cur() != '<' && p.s.cur() != '{' {
			p.s.pos++
		}
		parent.AppendText(string(p.s.src[textStart:p.s.pos]))
	}
}

func (p *lowerer) matchesClosingTag(tagName string) bool {
	if p.s.cur() != '<' || p.s.byteAt(p.s.pos+1) != '/' {
		return false
	}
	i := p.s.pos + 2
	for i < len(p.s.src) && isSpace(p.s.src[i]) {
		i++
	}
	nameStart := i
	for i < len(p.s.src) && isIdentPart(p.s.src[i]) {
		i++
	}
	return string(p.s.src[nameStart:i]) == tagName
}

func (p *lowerer) consumeClosingTag(tagName string) {
	p.s.pos += 2 // "</"
	p.s.skipWS()
	p.s.pos += len(tagName)
	p.s.skipWS()
	if p.s.cur() == '>' {
		p.s.pos++
	}
}

// parseAttrs parses attributes up to (not including) the tag's closing
// '>' or '/>'.
func (p *lowerer) parseAttrs() []docmodel.Attribute {
	var attrs []docmodel.Attribute
	for {
		p.s.skipWS()
		c := p.s.cur()
		if p.s.eof() || c == '>' || (c == '/' && p.s.byteAt(p.s.pos+1) == '>') {
			return attrs
		}

		if c == '{' && p.s.byteAt(p.s.pos+1) == '.' && p.s.byteAt(p.s.pos+2) == '.' && p.s.byteAt(p.s.pos+3) == '.' {
			end := p.s.matchBalanced('{', '}')
			if end == -1 {
				return attrs
			}
			p.s.pos = end
			attrs = append(attrs, docmodel.Attribute{Name: "data-spread", Value: "true"})
			continue
		}

		name := p.readAttrName()
		if name == "" {
			// Stray byte in an unexpected position: skip it rather than
			// loop forever on malformed input.
			p.s.pos++
			continue
		}
		mapped := mapAttrName(name)
		p.s.skipWS()
		if p.s.cur() == '=' {
			p.s.pos++
			p.s.skipWS()
			attrs = append(attrs, docmodel.Attribute{Name: mapped, Value: p.readAttrValue()})
		} else {
			attrs = append(attrs, docmodel.Attribute{Name: mapped, Value: "true"})
		}
	}
}

// readAttrName reads a JSX attribute name, which (unlike a plain JS
// identifier) may contain hyphens, e.g. "data-testid" or "aria-label".
func (p *lowerer) readAttrName() string {
	if !isIdentStart(p.s.cur()) {
		return ""
	}
	start := p.s.pos
	p.s.pos++
	for !p.s.eof() && (isIdentPart(p.s.cur()) || p.s.cur() == '-') {
		p.s.pos++
	}
	return string(p.s.src[start:p.s.pos])
}

// readAttrValue reads a quoted string literal verbatim, or returns the
// "{expression}" sentinel for any "{...}" expression value.
func (p *lowerer) readAttrValue() string {
	switch p.s.cur() {
	case '"', '\'':
		quote := p.s.cur()
		start := p.s.pos + 1
		p.s.skipQuoted(quote)
		return string(p.s.src[start : p.s.pos-1])
	case '{':
		end := p.s.matchBalanced('{', '}')
		if end == -1 {
			p.s.pos = len(p.s.src)
		} else {
			p.s.pos = end
		}
		return "{expression}"
	default:
		return "true"
	}
}

func (p *lowerer) span(start, end int) *docmodel.SourceLocation {
	line, col := p.sm.PositionForOffset(start)
	return &docmodel.SourceLocation{StartOffset: start, EndOffset: end, Line: line, Column: col}
}
