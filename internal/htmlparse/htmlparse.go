// Package htmlparse adapts golang.org/x/net/html to the document model: it
// builds a docmodel.Document with byte-exact source spans for every
// element, which html.Parse's node tree cannot provide (it has no position
// information and performs foster-parenting/adoption-agency restructuring
// that would sever offset bookkeeping).
//
// We drive golang.org/x/net/html.Tokenizer directly and track a running
// byte position from each token's Raw() length, building the tree with an
// explicit stack rather than relying on the tokenizer's own nesting (it has
// none — it is a stream of tokens, not a tree builder).
package htmlparse

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/sourcemap"
)

// voidElements never have an end tag or children, per HTML5 §13.1.2.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse converts HTML bytes into a Document with source spans for every
// element. Tag and attribute names are lower-cased; attribute values are
// preserved verbatim. Malformed input is recovered from rather than
// rejected: a stray end tag is ignored, unclosed elements are closed at
// end of input, and a synthetic "html" root is produced when the input has
// none, so the caller always sees a non-nil root.
func Parse(source []byte, path string) (*docmodel.Document, error) {
	p := &parser{
		z:   html.NewTokenizer(bytes.NewReader(source)),
		sm:  sourcemap.New(source),
		len: len(source),
	}
	p.run()

	var root *docmodel.Element
	if len(p.topLevel) == 1 && p.topLevel[0].Tag == "html" {
		root = p.topLevel[0]
	} else {
		root = &docmodel.Element{Tag: "html"}
		for _, child := range p.topLevel {
			root.AppendChild(child)
		}
	}

	doc := docmodel.NewDocument(root)
	doc.SourcePath = path
	doc.Source = source
	return doc, nil
}

type parser struct {
	z   *html.Tokenizer
	sm  *sourcemap.SourceMap
	pos int
	len int

	stack    []*docmodel.Element
	topLevel []*docmodel.Element
}

func (p *parser) run() {
	for {
		tt := p.z.Next()
		raw := p.z.Raw()
		start := p.pos
		p.pos += len(raw)

		switch tt {
		case html.ErrorToken:
			if p.z.Err() != io.EOF {
				continue
			}
			p.closeAll()
			return
		case html.TextToken:
			if len(p.stack) > 0 {
				p.stack[len(p.stack)-1].AppendText(string(p.z.Text()))
			}
		case html.CommentToken, html.DoctypeToken:
			// Comment and processing-instruction nodes are not represented.
		case html.StartTagToken, html.SelfClosingTagToken:
			p.handleStartTag(tt, start)
		case html.EndTagToken:
			p.handleEndTag()
		}
	}
}

func (p *parser) handleStartTag(tt html.TokenType, start int) {
	tok := p.z.Token()
	tag := strings.ToLower(tok.Data)

	attrs := make([]docmodel.Attribute, 0, len(tok.Attr))
	for _, a := range tok.Attr {
		attrs = append(attrs, docmodel.Attribute{Name: strings.ToLower(a.Key), Value: a.Val})
	}

	line, col := p.sm.PositionForOffset(start)
	el := &docmodel.Element{
		Tag:   tag,
		Attrs: attrs,
		Span: &docmodel.SourceLocation{
			StartOffset: start,
			EndOffset:   p.pos,
			Line:        line,
			Column:      col,
		},
	}

	if tt == html.SelfClosingTagToken || voidElements[tag] {
		p.appendToParent(el)
		return
	}
	p.stack = append(p.stack, el)
}

func (p *parser) handleEndTag() {
	tok := p.z.Token()
	tag := strings.ToLower(tok.Data)

	idx := -1
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Tag == tag {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Stray end tag with no matching open element: ignored.
		return
	}
	for len(p.stack)-1 >= idx {
		p.closeTop()
	}
}

func (p *parser) closeTop() {
	n := len(p.stack)
	el := p.stack[n-1]
	el.Span.EndOffset = p.pos
	p.stack = p.stack[:n-1]
	p.appendToParent(el)
}

func (p *parser) closeAll() {
	for len(p.stack) > 0 {
		n := len(p.stack)
		el := p.stack[n-1]
		el.Span.EndOffset = p.len
		p.stack = p.stack[:n-1]
		p.appendToParent(el)
	}
}

func (p *parser) appendToParent(el *docmodel.Element) {
	if len(p.stack) > 0 {
		p.stack[len(p.stack)-1].AppendChild(el)
		return
	}
	p.topLevel = append(p.topLevel, el)
}
