package rules

import (
	"testing"

	"github.com/tinovyatkin/markuplint/internal/docmodel"
)

func noopPredicate(*docmodel.Element, *Context) (string, bool) { return "", false }

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "test-001", Predicate: noopPredicate})

	if !reg.Has("test-001") {
		t.Error("Has() = false after registration")
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "dup-001", Predicate: noopPredicate})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()

	reg.Register(Rule{ID: "dup-001", Predicate: noopPredicate})
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "get-001", Predicate: noopPredicate})

	got, ok := reg.Get("get-001")
	if !ok {
		t.Fatal("Get() returned ok=false")
	}
	if got.ID != "get-001" {
		t.Errorf("Get().ID = %q, want %q", got.ID, "get-001")
	}

	if _, ok := reg.Get("nonexistent"); ok {
		t.Error("Get() should return ok=false for nonexistent rule")
	}
}

func TestRegistry_All_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "c-rule", Predicate: noopPredicate})
	reg.Register(Rule{ID: "a-rule", Predicate: noopPredicate})
	reg.Register(Rule{ID: "b-rule", Predicate: noopPredicate})

	all := reg.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d rules, want 3", len(all))
	}

	// Enumeration follows registration order, not alphabetical order — the
	// determinism guarantee is registration order x pattern document order.
	want := []string{"c-rule", "a-rule", "b-rule"}
	for i, r := range all {
		if r.ID != want[i] {
			t.Errorf("All()[%d].ID = %q, want %q", i, r.ID, want[i])
		}
	}
}

func TestRegistry_IDs_RegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "z-rule", Predicate: noopPredicate})
	reg.Register(Rule{ID: "a-rule", Predicate: noopPredicate})

	ids := reg.IDs()
	if len(ids) != 2 {
		t.Fatalf("IDs() returned %d, want 2", len(ids))
	}
	if ids[0] != "z-rule" || ids[1] != "a-rule" {
		t.Errorf("IDs() = %v, want [z-rule, a-rule]", ids)
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{ID: "sec-1", Category: CategorySecurity, Predicate: noopPredicate})
	reg.Register(Rule{ID: "perf-1", Category: CategoryPerformance, Predicate: noopPredicate})
	reg.Register(Rule{ID: "sec-2", Category: CategorySecurity, Predicate: noopPredicate})

	secRules := reg.ByCategory(CategorySecurity)
	if len(secRules) != 2 {
		t.Fatalf("ByCategory(security) returned %d, want 2", len(secRules))
	}
	if secRules[0].ID != "sec-1" || secRules[1].ID != "sec-2" {
		t.Errorf("ByCategory(security) = %v, want [sec-1, sec-2] in registration order", secRules)
	}

	perfRules := reg.ByCategory(CategoryPerformance)
	if len(perfRules) != 1 {
		t.Fatalf("ByCategory(performance) returned %d, want 1", len(perfRules))
	}
}
