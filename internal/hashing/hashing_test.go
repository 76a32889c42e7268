package hashing

import "testing"

import "github.com/hlang-toolchain/hlang/internal/ir"

func TestHashDeclarationIsStable(t *testing.T) {
	decl := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "add"},
		Type: ir.FunctionType{
			InputParameterTypes:  []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}, ir.IntegerType{NumberOfBits: 32, IsSigned: true}},
			OutputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}},
		},
		InputParameterNames: []string{"a", "b"},
	}
	h1 := HashDeclaration(decl)
	h2 := HashDeclaration(decl)
	if h1 != h2 {
		t.Fatalf("expected hash to be stable across calls, got %d and %d", h1, h2)
	}
}

func TestHashDeclarationLocalityIgnoresBody(t *testing.T) {
	sig := ir.FunctionDeclaration{
		DeclarationBase:      ir.DeclarationBase{Name: "add"},
		Type:                 ir.FunctionType{InputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}}},
		InputParameterNames:  []string{"a"},
		OutputParameterNames: nil,
	}

	m1 := &ir.Module{
		Name:               "M",
		ExportDeclarations: []ir.Declaration{sig},
		Definitions: map[string]ir.Statement{
			"add": {Expressions: []ir.Expression{
				ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 32, IsSigned: true}, Data: "1"},
			}},
		},
	}
	m2 := &ir.Module{
		Name:               "M",
		ExportDeclarations: []ir.Declaration{sig},
		Definitions: map[string]ir.Statement{
			"add": {Expressions: []ir.Expression{
				ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 32, IsSigned: true}, Data: "2"},
			}},
		},
	}

	h1 := HashExportInterface(m1)
	h2 := HashExportInterface(m2)
	if h1["add"] != h2["add"] {
		t.Fatalf("expected export hash to ignore body changes: %d != %d", h1["add"], h2["add"])
	}
}

func TestHashDeclarationSensitiveToSignature(t *testing.T) {
	base := ir.FunctionDeclaration{
		DeclarationBase:     ir.DeclarationBase{Name: "add"},
		Type:                ir.FunctionType{InputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}}},
		InputParameterNames: []string{"a"},
	}
	changed := base
	changed.Type.InputParameterTypes = []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}}

	if HashDeclaration(base) == HashDeclaration(changed) {
		t.Fatalf("expected signature change to change the hash")
	}
}

func TestGetHashMissingSymbol(t *testing.T) {
	hashes := SymbolHashes{"foo": 42}
	if _, ok := GetHash(hashes, "bar"); ok {
		t.Fatalf("expected missing symbol lookup to report not-found")
	}
	v, ok := GetHash(hashes, "foo")
	if !ok || v != 42 {
		t.Fatalf("expected to find foo=42, got %d ok=%v", v, ok)
	}
}
