package lsp

import (
	"testing"

	"github.com/hlang-toolchain/hlang/internal/errors"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

func sampleDB() *ir.Database {
	base := &ir.Module{
		Name: "Base",
		ExportDeclarations: []ir.Declaration{
			ir.FunctionDeclaration{
				DeclarationBase: ir.DeclarationBase{
					Name:     "add",
					Linkage:  ir.LinkageExternal,
					Location: ir.SourceRangeLocation{Valid: true, Range: ir.SourceRange{FilePath: "base.hl", Start: ir.Position{Line: 3, Column: 1}, End: ir.Position{Line: 3, Column: 10}}},
				},
				InputParameterNames: []string{"a", "b"},
			},
		},
	}
	app := &ir.Module{
		Name:         "App",
		Dependencies: []string{"Base"},
		AliasImports: []ir.AliasImport{{ModuleName: "Base", Alias: "b", Usages: []string{"add"}}},
		ExportDeclarations: []ir.Declaration{
			ir.GlobalVariableDeclaration{DeclarationBase: ir.DeclarationBase{Name: "counter", Linkage: ir.LinkageExternal}},
		},
	}

	db := ir.NewDatabase()
	db.AddModule(base)
	db.AddModule(app)
	return db
}

func TestCompletionMatchesLocalAndAliasedPrefix(t *testing.T) {
	s := NewDatabaseServer(sampleDB())

	local := s.Completion("App", "coun")
	if len(local) != 1 || local[0].Label != "counter" {
		t.Fatalf("expected local match on counter, got %v", local)
	}

	aliased := s.Completion("App", "b.a")
	if len(aliased) != 1 || aliased[0].Label != "b.add" {
		t.Fatalf("expected aliased match on b.add, got %v", aliased)
	}
}

func TestDefinitionResolvesLocalAndAliasedSymbol(t *testing.T) {
	s := NewDatabaseServer(sampleDB())

	local := s.Definition("App", "counter")
	if !local.Found || local.ModuleName != "App" {
		t.Fatalf("expected to resolve counter in App, got %+v", local)
	}

	aliased := s.Definition("App", "b.add")
	if !aliased.Found || aliased.ModuleName != "Base" || aliased.Name != "add" {
		t.Fatalf("expected to resolve b.add into Base.add, got %+v", aliased)
	}

	missing := s.Definition("App", "nope")
	if missing.Found {
		t.Fatalf("expected unresolved symbol to report not found")
	}
}

func TestInlayHintsLabelFunctionParameters(t *testing.T) {
	s := NewDatabaseServer(sampleDB())
	hints := s.InlayHints("Base")
	if len(hints) != 1 || hints[0].Label != "add(a, b)" {
		t.Fatalf("expected add(a, b) hint, got %v", hints)
	}
	if hints[0].Position.Line != 2 || hints[0].Position.Column != 0 {
		t.Fatalf("expected 0-based position (2,0), got %+v", hints[0].Position)
	}
}

func TestDiagnosticsEmptyOnNilErrorNonNilOnReport(t *testing.T) {
	s := NewDatabaseServer(sampleDB())

	clean := s.Diagnostics("App", nil)
	if clean == nil || len(clean) != 0 {
		t.Fatalf("expected a non-nil empty diagnostics slice for a nil error, got %v", clean)
	}

	rng := ir.SourceRange{FilePath: "app.hl", Start: ir.Position{Line: 1, Column: 1}, End: ir.Position{Line: 1, Column: 5}}
	err := errors.NewArityMismatch("add", 2, 1, &rng)
	diags := s.Diagnostics("App", err)
	if len(diags) != 1 || diags[0].Code != errors.ArityMismatch {
		t.Fatalf("expected one ArityMismatch diagnostic, got %v", diags)
	}
}

func TestPositionConversionRoundTrips(t *testing.T) {
	wire := Position0{Line: 4, Column: 9}
	internal := wire.ToInternal()
	if internal.Line != 5 || internal.Column != 10 {
		t.Fatalf("expected 1-based (5,10), got %+v", internal)
	}
	if back := FromInternal(internal); back != wire {
		t.Fatalf("expected round trip back to %+v, got %+v", wire, back)
	}
}
