package loader

import (
	"fmt"
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

type fakeParser struct {
	calls   map[string]int
	modules map[string]*ir.Module
}

func (p *fakeParser) Parse(path string) (*ir.Module, error) {
	p.calls[path]++
	m, ok := p.modules[path]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", path)
	}
	return m, nil
}

func moduleNamed(name string, deps ...string) *ir.Module {
	return &ir.Module{Name: name, Dependencies: deps}
}

func TestLoadCachesByCanonicalID(t *testing.T) {
	parser := &fakeParser{calls: map[string]int{}, modules: map[string]*ir.Module{
		"geometry.hl": moduleNamed("Geometry"),
	}}
	l := New("", parser)

	if _, err := l.Load("geometry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Load("./geometry.hl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := parser.calls["geometry.hl"]; got != 1 {
		t.Fatalf("expected the parser to run once for equivalent paths, ran %d times", got)
	}
}

func TestCompileFileAlwaysReparses(t *testing.T) {
	parser := &fakeParser{calls: map[string]int{}, modules: map[string]*ir.Module{
		"geometry.hl": moduleNamed("Geometry"),
	}}
	l := New("", parser)

	if _, err := l.Load("geometry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.CompileFile("geometry.hl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := parser.calls["geometry.hl"]; got != 2 {
		t.Fatalf("expected CompileFile to force a reparse, parser ran %d times", got)
	}
}

func TestCompileResolvesModuleNameBackToPath(t *testing.T) {
	parser := &fakeParser{calls: map[string]int{}, modules: map[string]*ir.Module{
		"geometry.hl": moduleNamed("Geometry"),
	}}
	l := New("", parser)

	if _, err := l.Load("geometry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Compile("Geometry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := parser.calls["geometry.hl"]; got != 2 {
		t.Fatalf("expected Compile to reparse by resolved path, parser ran %d times", got)
	}
}

func TestCompileUnknownModuleFails(t *testing.T) {
	l := New("", &fakeParser{calls: map[string]int{}, modules: map[string]*ir.Module{}})
	if _, err := l.Compile("Nonexistent"); err == nil {
		t.Fatalf("expected an error for a module never loaded")
	}
}

func TestLoadAllWalksDependencyClosure(t *testing.T) {
	parser := &fakeParser{calls: map[string]int{}, modules: map[string]*ir.Module{
		"app.hl":      moduleNamed("App", "geometry"),
		"geometry.hl": moduleNamed("Geometry", "base"),
		"base.hl":     moduleNamed("Base"),
	}}
	l := New("", parser)

	modules, err := l.LoadAll([]string{"app"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modules) != 3 {
		t.Fatalf("expected 3 modules in the closure, got %d: %+v", len(modules), modules)
	}
}
