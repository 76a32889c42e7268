package jit

import (
	"testing"

	"github.com/hlang-toolchain/hlang/internal/backend"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

func helloModule(constantData string) *ir.Module {
	fn := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "get_value"},
		Type:            ir.FunctionType{OutputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}}},
	}
	body := ir.Statement{Expressions: []ir.Expression{
		ir.ReturnExpression{Value: ir.ExpressionIndex{Index: 1}, HasValue: true},
		ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 64, IsSigned: true}, Data: constantData},
	}}
	return &ir.Module{
		Name:                "M",
		ExportDeclarations: []ir.Declaration{fn},
		Definitions:         map[string]ir.Statement{"get_value": body},
	}
}

func TestApplyFirstInstallIsLazyAndResolvesOnLookup(t *testing.T) {
	target := backend.NewTextTarget()
	core := NewCoreLayer(target)
	layer := NewRecompileLayer(core)

	result, err := layer.Apply(target, helloModule("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.NewSymbols) != 1 || len(result.ReplacedSymbols) != 0 {
		t.Fatalf("expected one new symbol and zero replaced, got %+v", result)
	}

	symbol := result.NewSymbols[0]
	resolved, err := layer.Lookup(symbol)
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if resolved.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", resolved.Generation)
	}
}

func TestApplySecondInstallReplacesAndAdvancesGeneration(t *testing.T) {
	target := backend.NewTextTarget()
	core := NewCoreLayer(target)
	layer := NewRecompileLayer(core)

	first, err := layer.Apply(target, helloModule("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	symbol := first.NewSymbols[0]
	// Force the lazy first generation to materialize before replacing it.
	if _, err := layer.Lookup(symbol); err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}

	second, err := layer.Apply(target, helloModule("2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.ReplacedSymbols) != 1 || second.ReplacedSymbols[0] != symbol {
		t.Fatalf("expected %s to be replaced, got %+v", symbol, second)
	}
	if second.Generation <= first.Generation {
		t.Fatalf("expected generation to advance: %d -> %d", first.Generation, second.Generation)
	}

	resolved, err := layer.Lookup(symbol)
	if err != nil {
		t.Fatalf("unexpected lookup error: %v", err)
	}
	if resolved.Generation != second.Generation {
		t.Fatalf("expected stub to resolve to the latest generation %d, got %d", second.Generation, resolved.Generation)
	}
}

func TestLookupUnknownSymbolFails(t *testing.T) {
	target := backend.NewTextTarget()
	core := NewCoreLayer(target)
	layer := NewRecompileLayer(core)

	if _, err := layer.Lookup("hlang.M.nonexistent"); err == nil {
		t.Fatalf("expected lookup of an unregistered symbol to fail")
	}
}
