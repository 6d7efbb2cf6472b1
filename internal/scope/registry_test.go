package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
	"github.com/tinovyatkin/markuplint/internal/htmlparse"
	"github.com/tinovyatkin/markuplint/internal/rules"
	"github.com/tinovyatkin/markuplint/internal/selector"
)

func TestRegistry_RegisterDuplicateID(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewScope("a", "A")))
	require.Error(t, reg.Register(NewScope("a", "A again")))
}

func TestRegistry_RegisterUnknownParent(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("child", "Child")
	s.ParentID = "missing"
	require.Error(t, reg.Register(s))
}

func TestRegistry_RegisterSelfParent(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("a", "A")
	s.ParentID = "a"
	require.Error(t, reg.Register(s))
}

func TestRegistry_RegisterParentMustPrecedeChild(t *testing.T) {
	reg := NewRegistry()
	root := NewScope("root", "Root")
	require.NoError(t, reg.Register(root))

	child := NewScope("child", "Child")
	child.ParentID = "root"
	require.NoError(t, reg.Register(child))

	got, ok := reg.Get("child")
	require.True(t, ok)
	require.Equal(t, "root", got.ParentID)
}

func TestRegistry_FindByFile(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("tests", "Test files")
	s.FileGlob = "**/*_test.html"
	require.NoError(t, reg.Register(s))

	require.Len(t, reg.FindByFile("pages/home_test.html"), 1)
	require.Empty(t, reg.FindByFile("pages/home.html"))
}

func TestRegistry_FindByFile_DisabledExcluded(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("tests", "Test files")
	s.FileGlob = "**/*.html"
	s.Enabled = false
	require.NoError(t, reg.Register(s))

	require.Empty(t, reg.FindByFile("pages/home.html"))
}

func TestRegistry_FindByComponent(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("widgets", "Widgets")
	s.ComponentNames = []string{"Button", "Card"}
	require.NoError(t, reg.Register(s))

	require.Len(t, reg.FindByComponent("Button"), 1)
	require.Empty(t, reg.FindByComponent("Modal"))
}

func bindDoc(t *testing.T, html string) *docmodel.Document {
	t.Helper()
	doc, err := htmlparse.Parse([]byte(html), "index.html")
	require.NoError(t, err)
	doc.BindMatcher(selector.New())
	return doc
}

func TestRegistry_FindByElement_AncestorOrSelf(t *testing.T) {
	doc := bindDoc(t, `<div class="legacy"><p>text</p></div>`)

	reg := NewRegistry()
	s := NewScope("legacy", "Legacy markup")
	s.ElementSelector = ".legacy"
	require.NoError(t, reg.Register(s))

	div := doc.QuerySelector(".legacy")
	p := doc.QuerySelector("p")

	require.Len(t, reg.FindByElement(doc, div), 1, "the matching element itself qualifies")
	require.Len(t, reg.FindByElement(doc, p), 1, "a descendant qualifies")
}

func TestRegistry_FindByElement_StrictDescendantForm(t *testing.T) {
	doc := bindDoc(t, `<div class="legacy"><p>text</p></div>`)

	reg := NewRegistry()
	s := NewScope("legacy", "Legacy markup, descendants only")
	s.ElementSelector = ".legacy *"
	require.NoError(t, reg.Register(s))

	div := doc.QuerySelector(".legacy")
	p := doc.QuerySelector("p")

	require.Empty(t, reg.FindByElement(doc, div), "the matching element itself does not qualify under the \" *\" form")
	require.Len(t, reg.FindByElement(doc, p), 1)
}

func TestRegistry_MatchSite_DedupesAndOrdersByRegistration(t *testing.T) {
	doc := bindDoc(t, `<div class="legacy"><p>text</p></div>`)
	doc.ComponentName = "Button"

	reg := NewRegistry()
	byComponent := NewScope("by-component", "By component")
	byComponent.ComponentNames = []string{"Button"}
	require.NoError(t, reg.Register(byComponent))

	byFile := NewScope("by-file", "By file")
	byFile.FileGlob = "**/*.html"
	require.NoError(t, reg.Register(byFile))

	byElement := NewScope("by-element", "By element")
	byElement.ElementSelector = "p"
	require.NoError(t, reg.Register(byElement))

	p := doc.QuerySelector("p")
	got := reg.MatchSite(doc, p)
	require.Len(t, got, 3)
	require.Equal(t, []string{"by-component", "by-file", "by-element"}, idsOf(got))
}

func idsOf(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = s.ID
	}
	return out
}

func TestResolve_EffectiveSeverity_LastNonDefaultWins(t *testing.T) {
	reg := NewRegistry()
	root := NewScope("root", "Root")
	root.Rules["images-alt-text"] = RuleConfig{Severity: rules.SeverityWarning}
	require.NoError(t, reg.Register(root))

	child := NewScope("child", "Child")
	child.ParentID = "root"
	child.Rules["images-alt-text"] = RuleConfig{Severity: rules.SeverityOff}
	require.NoError(t, reg.Register(child))

	res := reg.Resolve(nil, []Scope{child}, true, false)
	require.Len(t, res.Scopes, 2)
	require.Equal(t, "root", res.Scopes[0].ID, "root-first ordering")
	require.Equal(t, "child", res.Scopes[1].ID)

	fallback := func(string) rules.Severity { return rules.SeverityError }
	require.Equal(t, rules.SeverityOff, res.EffectiveSeverity("images-alt-text", fallback))
}

func TestResolve_BaseConfigIsOverriddenByScopes(t *testing.T) {
	reg := NewRegistry()
	s := NewScope("a", "A")
	s.Rules["images-alt-text"] = RuleConfig{Severity: rules.SeverityInfo}
	require.NoError(t, reg.Register(s))

	base := map[string]RuleConfig{"images-alt-text": {Severity: rules.SeverityError}}
	res := reg.Resolve(base, []Scope{s}, false, false)

	fallback := func(string) rules.Severity { return rules.SeverityError }
	require.Equal(t, rules.SeverityInfo, res.EffectiveSeverity("images-alt-text", fallback))
}

func TestResolve_FallsBackWhenUnconfigured(t *testing.T) {
	reg := NewRegistry()
	res := reg.Resolve(nil, nil, false, false)
	fallback := func(string) rules.Severity { return rules.SeverityError }
	require.Equal(t, rules.SeverityError, res.EffectiveSeverity("anything", fallback))
}

func TestResolve_DetectsSeverityConflict(t *testing.T) {
	reg := NewRegistry()
	a := NewScope("a", "A")
	a.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning}
	require.NoError(t, reg.Register(a))

	b := NewScope("b", "B")
	b.Rules["r"] = RuleConfig{Severity: rules.SeverityError}
	require.NoError(t, reg.Register(b))

	res := reg.Resolve(nil, []Scope{a, b}, false, true)
	require.Len(t, res.Conflicts, 1)
	require.Equal(t, "r", res.Conflicts[0].RuleID)
	require.Equal(t, ConflictSeverity, res.Conflicts[0].Type)
	require.ElementsMatch(t, []string{"a", "b"}, res.Conflicts[0].ScopeIDs)
}

func TestResolve_DetectsOptionsConflict(t *testing.T) {
	reg := NewRegistry()
	a := NewScope("a", "A")
	a.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning, Options: map[string]any{"max": 1}}
	require.NoError(t, reg.Register(a))

	b := NewScope("b", "B")
	b.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning, Options: map[string]any{"max": 2}}
	require.NoError(t, reg.Register(b))

	res := reg.Resolve(nil, []Scope{a, b}, false, true)
	require.Len(t, res.Conflicts, 1)
	require.Equal(t, ConflictOptions, res.Conflicts[0].Type)
}

func TestResolve_DetectsBothConflict(t *testing.T) {
	reg := NewRegistry()
	a := NewScope("a", "A")
	a.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning, Options: map[string]any{"max": 1}}
	require.NoError(t, reg.Register(a))

	b := NewScope("b", "B")
	b.Rules["r"] = RuleConfig{Severity: rules.SeverityError, Options: map[string]any{"max": 2}}
	require.NoError(t, reg.Register(b))

	res := reg.Resolve(nil, []Scope{a, b}, false, true)
	require.Len(t, res.Conflicts, 1)
	require.Equal(t, ConflictBoth, res.Conflicts[0].Type)
}

func TestResolve_NoConflictWhenAgreeing(t *testing.T) {
	reg := NewRegistry()
	a := NewScope("a", "A")
	a.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning}
	require.NoError(t, reg.Register(a))

	b := NewScope("b", "B")
	b.Rules["r"] = RuleConfig{Severity: rules.SeverityWarning}
	require.NoError(t, reg.Register(b))

	res := reg.Resolve(nil, []Scope{a, b}, false, true)
	require.Empty(t, res.Conflicts)
}

func TestResolve_DisabledScopeExcludedFromHierarchyButParentKept(t *testing.T) {
	reg := NewRegistry()
	root := NewScope("root", "Root")
	require.NoError(t, reg.Register(root))

	mid := NewScope("mid", "Mid")
	mid.ParentID = "root"
	mid.Enabled = false
	require.NoError(t, reg.Register(mid))

	leaf := NewScope("leaf", "Leaf")
	leaf.ParentID = "mid"
	require.NoError(t, reg.Register(leaf))

	res := reg.Resolve(nil, []Scope{leaf}, true, false)
	require.Equal(t, []string{"root", "leaf"}, idsOf(res.Scopes))
}
