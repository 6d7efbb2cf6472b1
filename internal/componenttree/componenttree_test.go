package componenttree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscover_FunctionDeclaration(t *testing.T) {
	src := []byte(`
function helper() { return 1 }

function Card({ title }) {
	return <div className="card">{title}</div>
}
`)
	defs := Discover(src)
	require.Len(t, defs, 1, "only the capitalized definition is discovered")
	require.Equal(t, "Card", defs[0].Name)
	require.True(t, defs[0].IsBlock)
}

func TestDiscover_ArrowConstBlockBody(t *testing.T) {
	src := []byte(`const Button = (props) => {
	return <button type="button">{props.label}</button>
}`)
	defs := Discover(src)
	require.Len(t, defs, 1)
	require.Equal(t, "Button", defs[0].Name)
	require.True(t, defs[0].IsBlock)
}

func TestDiscover_ArrowConstExpressionBody(t *testing.T) {
	src := []byte(`const Badge = (props) => (
	<span className="badge">{props.count}</span>
);`)
	defs := Discover(src)
	require.Len(t, defs, 1)
	require.Equal(t, "Badge", defs[0].Name)
	require.False(t, defs[0].IsBlock)
}

func TestDiscover_LowercaseConstNotDiscovered(t *testing.T) {
	src := []byte(`const button = () => <button>x</button>`)
	require.Empty(t, Discover(src))
}

func TestParse_SimpleBranchLowersToDocument(t *testing.T) {
	src := []byte(`function Card({ title }) {
	return <div className="card"><img src="x.jpg" /></div>
}`)
	branches, err := Parse(src, "Card.jsx")
	require.NoError(t, err)
	require.Len(t, branches, 1)

	doc := branches[0].Document
	require.Equal(t, "Card", doc.ComponentName)
	div := doc.Root.Children[0]
	require.Equal(t, "div", div.Tag)
	class, ok := div.GetAttribute("class")
	require.True(t, ok)
	require.Equal(t, "card", class)

	img := div.Children[0]
	require.Equal(t, "img", img.Tag)
	src2, _ := img.GetAttribute("src")
	require.Equal(t, "x.jpg", src2)
}

func TestParse_TernaryEmitsBothBranches(t *testing.T) {
	src := []byte(`function Status({ ok }) {
	return ok ? <span className="ok">Good</span> : <span className="bad">Bad</span>
}`)
	branches, err := Parse(src, "Status.jsx")
	require.NoError(t, err)
	require.Len(t, branches, 2, "both arms of the ternary become their own branch")

	var classes []string
	for _, b := range branches {
		span := b.Document.Root.Children[0]
		class, _ := span.GetAttribute("class")
		classes = append(classes, class)
	}
	require.ElementsMatch(t, []string{"ok", "bad"}, classes)
}

func TestParse_NestedTernaryEmitsAllLeaves(t *testing.T) {
	src := []byte(`const Status = (props) => (
	props.state === "a" ? <div className="a" /> : props.state === "b" ? <div className="b" /> : <div className="c" />
);`)
	branches, err := Parse(src, "Status.jsx")
	require.NoError(t, err)
	require.Len(t, branches, 3)
}

func TestParse_AttributeNameMapping(t *testing.T) {
	src := []byte(`function Field() {
	return <input className="f" htmlFor="x" tabIndex={1} readOnly maxLength={5} autoFocus crossOrigin="anonymous" />
}`)
	branches, err := Parse(src, "Field.jsx")
	require.NoError(t, err)
	require.Len(t, branches, 1)

	input := branches[0].Document.Root.Children[0]
	require.Equal(t, "input", input.Tag)

	cases := map[string]string{
		"class":       "f",
		"for":         "x",
		"tabindex":    "{expression}",
		"readonly":    "true",
		"maxlength":   "{expression}",
		"autofocus":   "true",
		"crossorigin": "anonymous",
	}
	for name, want := range cases {
		got, ok := input.GetAttribute(name)
		require.True(t, ok, "missing attribute %q", name)
		require.Equal(t, want, got, "attribute %q", name)
	}
}

func TestParse_SpreadAttribute(t *testing.T) {
	src := []byte(`function Box(props) {
	return <div {...props} className="box" />
}`)
	branches, err := Parse(src, "Box.jsx")
	require.NoError(t, err)
	div := branches[0].Document.Root.Children[0]

	spread, ok := div.GetAttribute("data-spread")
	require.True(t, ok)
	require.Equal(t, "true", spread)
	class, _ := div.GetAttribute("class")
	require.Equal(t, "box", class)
}

func TestParse_ComponentReferenceLoweredToEmptyDiv(t *testing.T) {
	src := []byte(`function Page() {
	return <div className="page"><Header><img src="logo.png" /></Header></div>
}`)
	branches, err := Parse(src, "Page.jsx")
	require.NoError(t, err)

	page := branches[0].Document.Root.Children[0]
	require.Len(t, page.Children, 1)
	header := page.Children[0]
	require.Equal(t, "div", header.Tag, "component reference lowers to a placeholder div")
	require.Empty(t, header.Children, "placeholder keeps none of the unknown subtree's structure")
}

func TestParse_FragmentFlattensIntoParent(t *testing.T) {
	src := []byte(`function List() {
	return <ul><>
		<li>one</li>
		<li>two</li>
	</></ul>
}`)
	branches, err := Parse(src, "List.jsx")
	require.NoError(t, err)

	ul := branches[0].Document.Root.Children[0]
	require.Equal(t, "ul", ul.Tag)
	require.Len(t, ul.Children, 2, "fragment contributes no node of its own")
	require.Equal(t, "li", ul.Children[0].Tag)
	require.Equal(t, "li", ul.Children[1].Tag)
}

func TestParse_ExpressionChildIsNotLowered(t *testing.T) {
	src := []byte(`function Panel({ show }) {
	return <div className="panel">{show && <span>hi</span>}</div>
}`)
	branches, err := Parse(src, "Panel.jsx")
	require.NoError(t, err)

	div := branches[0].Document.Root.Children[0]
	require.Empty(t, div.Children, "an expression child is skipped, not lowered")
}
