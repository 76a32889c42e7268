package serialize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// ir.Module carries an unexported, lazily built name -> Declaration index
// (see Module.FindDeclaration) that is a derived cache, not part of a
// module's actual content, so round-trip comparisons ignore it.
var moduleCacheOpt = cmpopts.IgnoreUnexported(ir.Module{})

// emptyStatement is used anywhere an ir.Statement{} zero value would
// otherwise appear: the codecs always reconstruct an empty Expressions
// slice as non-nil, so fixtures use the same shape to keep the
// round-trip comparison exact rather than merely equivalent.
var emptyStatement = ir.Statement{Expressions: []ir.Expression{}}

func sampleModule() *ir.Module {
	addFn := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "add", Linkage: ir.LinkageExternal},
		Type: ir.FunctionType{
			InputParameterTypes:  []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}, ir.IntegerType{NumberOfBits: 32, IsSigned: true}},
			OutputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 32, IsSigned: true}},
		},
		InputParameterNames:  []string{"a", "b"},
		OutputParameterNames: []string{"result"},
		ParameterLocations:   []ir.SourceRangeLocation{},
	}
	body := ir.Statement{Expressions: []ir.Expression{
		ir.ReturnExpression{Value: ir.ExpressionIndex{Index: 1}, HasValue: true},
		ir.BinaryExpression{LeftHandSide: ir.ExpressionIndex{Index: 2}, RightHandSide: ir.ExpressionIndex{Index: 3}, Operation: ir.BinaryAdd},
		ir.VariableExpression{Name: "a"},
		ir.VariableExpression{Name: "b"},
	}}

	pointStruct := ir.StructDeclaration{
		DeclarationBase:     ir.DeclarationBase{Name: "Point", Linkage: ir.LinkageExternal},
		MemberTypes:         []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}, ir.IntegerType{NumberOfBits: 64, IsSigned: true}},
		MemberNames:         []string{"x", "y"},
		HasDefaultValue:     []bool{false, false},
		MemberDefaultValues: []ir.Statement{emptyStatement, emptyStatement},
	}

	aliasDecl := ir.AliasTypeDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "Coordinate"},
		TargetType:      ir.CustomTypeReference{Name: "Point"},
	}

	globalDecl := ir.GlobalVariableDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "origin"},
		Type:            ir.CustomTypeReference{Name: "Point"},
		HasInitial:      true,
		InitialValue: ir.Statement{Expressions: []ir.Expression{
			ir.InstantiateExpression{
				Type: ir.InstantiateExplicit,
				Members: []ir.InstantiateMemberValuePair{
					{MemberName: "x", Value: ir.Statement{Expressions: []ir.Expression{ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 64, IsSigned: true}, Data: "0"}}}},
					{MemberName: "y", Value: ir.Statement{Expressions: []ir.Expression{ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 64, IsSigned: true}, Data: "0"}}}},
				},
			},
		}},
	}

	return &ir.Module{
		Name:            "Geometry",
		SourceFilePath:  "geometry.hl",
		HasContentHash:  true,
		ContentHash:     0xDEADBEEF,
		LanguageVersion: "1.0",
		Dependencies:    []string{"Base"},
		AliasImports: []ir.AliasImport{
			{ModuleName: "Base", Alias: "base", Usages: []string{"add"}},
		},
		ExportDeclarations:   []ir.Declaration{addFn, pointStruct, aliasDecl, globalDecl},
		InternalDeclarations: []ir.Declaration{},
		Definitions:          map[string]ir.Statement{"add": body},
	}
}

func TestJSONRoundTripPreservesModule(t *testing.T) {
	original := sampleModule()

	data, err := EncodeModuleJSON(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeModuleJSON(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(original, decoded, moduleCacheOpt); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryRoundTripPreservesModule(t *testing.T) {
	original := sampleModule()

	data, err := EncodeModuleBinary(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeModuleBinary(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(original, decoded, moduleCacheOpt); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONEncodeIsDeterministicAcrossCalls(t *testing.T) {
	m := sampleModule()
	a, err := EncodeModuleJSON(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := EncodeModuleJSON(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected identical output across repeated encodes of the same module")
	}
}
