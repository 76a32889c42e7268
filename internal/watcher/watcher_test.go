package watcher

import (
	"reflect"
	"sort"
	"testing"
)

func TestRootsForGlobsCollapsesNestedDirectories(t *testing.T) {
	roots := RootsForGlobs([]string{
		"src/**/*.hl",
		"src/core/*.hl",
		"lib/vendor/**/*.hl",
	})
	sort.Strings(roots)

	want := []string{"lib/vendor", "src"}
	if !reflect.DeepEqual(roots, want) {
		t.Fatalf("got %v, want %v", roots, want)
	}
}

func TestEventKindStringNamesEachKind(t *testing.T) {
	cases := map[string]EventKind{
		"create": Create,
		"modify": Modify,
		"delete": Delete,
		"rename": Rename,
	}
	for name, kind := range cases {
		if kind.String() != name {
			t.Fatalf("EventKind %d stringified to %q, want %q", kind, kind.String(), name)
		}
	}
}
