// Package componenttree implements the Component-Tree Adapter: it lowers
// JSX-like component source into one docmodel.Document per return branch,
// so rules written against HTML semantics apply unmodified to component
// source.
//
// Hand-rolled scanner and recursive-descent parser, grounded on
// wharflab-tally/internal/directive/parser.go's style of driving a bespoke
// grammar with an explicit position and small lookahead helpers rather
// than a generated parser — there is no JSX grammar library in the pack,
// and a full JS/TS parser is out of scope for what this adapter needs: it
// only has to find component definitions, their return branches, and the
// tree literals inside them.
package componenttree

import (
	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/selector"
	"github.com/tinovyatkin/markuplint/internal/sourcemap"
)

// Branch is one lowered branch of one component definition, ready to be
// checked by the Rule Engine as its own Document.
type Branch struct {
	ComponentName string
	Document      *docmodel.Document
}

// Parse discovers every top-level component definition in src, extracts
// each definition's return branches, and lowers each branch into its own
// Document. A component with N branches (e.g. two arms of a top-level
// ternary) is checked once per branch, per the spec's "checked exhaustively
// without executing code" contract.
func Parse(src []byte, path string) ([]Branch, error) {
	sm := sourcemap.New(src)

	var branches []Branch
	for _, def := range Discover(src) {
		for _, br := range Branches(src, def) {
			root := Lower(src, br.Start, br.End, sm)
			doc := docmodel.NewDocument(root)
			doc.SourcePath = path
			doc.ComponentName = def.Name
			doc.Source = src
			doc.BindMatcher(selector.New())
			branches = append(branches, Branch{ComponentName: def.Name, Document: doc})
		}
	}
	return branches, nil
}
