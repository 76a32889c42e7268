package recompile

import (
	"errors"
	"testing"

	"github.com/hlang-toolchain/hlang/internal/depgraph"
	"github.com/hlang-toolchain/hlang/internal/hashing"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

func geometryModule(xType ir.TypeReference) *ir.Module {
	return &ir.Module{
		Name: "Geometry",
		ExportDeclarations: []ir.Declaration{
			ir.FunctionDeclaration{
				DeclarationBase:     ir.DeclarationBase{Name: "distance"},
				Type:                ir.FunctionType{InputParameterTypes: []ir.TypeReference{xType}},
				InputParameterNames: []string{"p"},
			},
			ir.FunctionDeclaration{
				DeclarationBase: ir.DeclarationBase{Name: "untouched"},
			},
		},
	}
}

func appModule() *ir.Module {
	return &ir.Module{
		Name:         "App",
		Dependencies: []string{"Geometry"},
		AliasImports: []ir.AliasImport{
			{ModuleName: "Geometry", Alias: "Geometry", Usages: []string{"distance"}},
		},
	}
}

type fakeCompiler struct {
	modules map[string]*ir.Module
}

func (f *fakeCompiler) Compile(name string) (*ir.Module, error) {
	m, ok := f.modules[name]
	if !ok {
		return nil, errors.New("no such module: " + name)
	}
	return m, nil
}

func TestPlanRecompilesOnlyWhenUsedSymbolChanges(t *testing.T) {
	graph := depgraph.New()
	graph.SetDependencies("App", []string{"Geometry"})

	db := ir.NewDatabase()
	db.AddModule(appModule())

	engine := NewEngine(db, graph, &fakeCompiler{})
	engine.Load(geometryModule(ir.IntegerType{NumberOfBits: 32, IsSigned: true}))

	// Add an unused declaration only: planner should find nothing.
	changed := geometryModule(ir.IntegerType{NumberOfBits: 32, IsSigned: true})
	changed.ExportDeclarations = append(changed.ExportDeclarations, ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "brand_new_unused"},
	})
	newHashes := hashing.HashExportInterface(changed)
	plan := Plan(engine, graph, "Geometry", newHashes)
	if len(plan) != 0 {
		t.Fatalf("expected no recompilation for an unused symbol addition, got %v", plan)
	}

	// Change the used declaration's signature: planner should find App.
	changed2 := geometryModule(ir.IntegerType{NumberOfBits: 64, IsSigned: true})
	newHashes2 := hashing.HashExportInterface(changed2)
	plan2 := Plan(engine, graph, "Geometry", newHashes2)
	if len(plan2) != 1 || plan2[0] != "App" {
		t.Fatalf("expected App to be scheduled for recompilation, got %v", plan2)
	}
}

func TestEngineApplyPropagatesTransitively(t *testing.T) {
	graph := depgraph.New()
	db := ir.NewDatabase()

	geometry := geometryModule(ir.IntegerType{NumberOfBits: 32, IsSigned: true})
	app := appModule()
	app.ExportDeclarations = []ir.Declaration{
		ir.FunctionDeclaration{
			DeclarationBase:     ir.DeclarationBase{Name: "distance"},
			Type:                ir.FunctionType{InputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}}},
			InputParameterNames: []string{"p"},
		},
	}
	topApp := &ir.Module{
		Name:         "TopApp",
		Dependencies: []string{"App"},
		AliasImports: []ir.AliasImport{
			{ModuleName: "App", Alias: "App", Usages: []string{"distance"}},
		},
	}

	compiler := &fakeCompiler{modules: map[string]*ir.Module{}}
	engine := NewEngine(db, graph, compiler)
	engine.Load(geometry)
	engine.Load(app)
	engine.Load(topApp)

	// App already exports "distance" and its recompiled version re-exports
	// it with the same signature, so recompiling App leaves TopApp's usage
	// hash identical and TopApp is not recompiled.
	recompiledApp := &ir.Module{
		Name: "App",
		ExportDeclarations: []ir.Declaration{
			ir.FunctionDeclaration{
				DeclarationBase:     ir.DeclarationBase{Name: "distance"},
				Type:                ir.FunctionType{InputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}}},
				InputParameterNames: []string{"p"},
			},
		},
		Dependencies: []string{"Geometry"},
		AliasImports: []ir.AliasImport{
			{ModuleName: "Geometry", Alias: "Geometry", Usages: []string{"distance"}},
		},
	}
	compiler.modules["App"] = recompiledApp

	changedGeometry := geometryModule(ir.IntegerType{NumberOfBits: 64, IsSigned: true})
	result, err := engine.Apply(changedGeometry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := map[string]bool{}
	for _, name := range result.Recompiled {
		found[name] = true
	}
	if !found["Geometry"] || !found["App"] {
		t.Fatalf("expected Geometry and App to be recompiled, got %v", result.Recompiled)
	}
}
