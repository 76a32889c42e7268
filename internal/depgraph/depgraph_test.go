package depgraph

import (
	"sort"
	"testing"
)

func TestReverseDependenciesBasic(t *testing.T) {
	g := New()
	g.SetDependencies("App", []string{"Geometry", "Math"})
	g.SetDependencies("Geometry", []string{"Math"})

	rev := g.ReverseDependencies("Math")
	sort.Strings(rev)
	if len(rev) != 2 || rev[0] != "App" || rev[1] != "Geometry" {
		t.Fatalf("expected [App Geometry], got %v", rev)
	}
}

func TestSetDependenciesReplacesStaleEdges(t *testing.T) {
	g := New()
	g.SetDependencies("App", []string{"Old"})
	g.SetDependencies("App", []string{"New"})

	if rev := g.ReverseDependencies("Old"); len(rev) != 0 {
		t.Fatalf("expected stale reverse edge to Old to be gone, got %v", rev)
	}
	if rev := g.ReverseDependencies("New"); len(rev) != 1 || rev[0] != "App" {
		t.Fatalf("expected App to depend on New, got %v", rev)
	}
}

func TestRemoveModuleClearsBothDirections(t *testing.T) {
	g := New()
	g.SetDependencies("App", []string{"Math"})
	g.RemoveModule("App")

	if rev := g.ReverseDependencies("Math"); len(rev) != 0 {
		t.Fatalf("expected Math to have no reverse dependents after App removed, got %v", rev)
	}
	if deps := g.Dependencies("App"); len(deps) != 0 {
		t.Fatalf("expected App to have no forward dependencies after removal, got %v", deps)
	}
}
