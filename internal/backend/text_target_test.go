package backend

import (
	"strings"
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

func addModule() *ir.Module {
	fn := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "add"},
		Type: ir.FunctionType{
			InputParameterTypes:  []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}, ir.IntegerType{NumberOfBits: 64, IsSigned: true}},
			OutputParameterTypes: []ir.TypeReference{ir.IntegerType{NumberOfBits: 64, IsSigned: true}},
		},
		InputParameterNames: []string{"a", "b"},
	}
	body := ir.Statement{Expressions: []ir.Expression{
		ir.ReturnExpression{Value: ir.ExpressionIndex{Index: 1}, HasValue: true},
		ir.BinaryExpression{
			LeftHandSide:  ir.ExpressionIndex{Index: 2},
			RightHandSide: ir.ExpressionIndex{Index: 3},
			Operation:     ir.BinaryAdd,
		},
		ir.VariableExpression{Name: "a"},
		ir.VariableExpression{Name: "b"},
	}}
	return &ir.Module{
		Name:                 "Arith",
		ExportDeclarations:   []ir.Declaration{fn},
		Definitions:          map[string]ir.Statement{"add": body},
	}
}

// TestCompileModuleEmitsHelloWorldGlobalAndPrintDeclaration stands in for
// the hello-world scenario: with no execution engine in this toolchain,
// there is nothing that can run the compiled program and observe its
// output, so this asserts on the emitted IR text instead (a global string
// constant plus the declaration of an external print function) rather
// than on a captured process result.
func TestCompileModuleEmitsHelloWorldGlobalAndPrintDeclaration(t *testing.T) {
	greeting := ir.GlobalVariableDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "greeting"},
		Type:            ir.FundamentalType{Kind: ir.FundamentalString},
		HasInitial:      true,
		InitialValue:    ir.Statement{Expressions: []ir.Expression{ir.ConstantExpression{Type: ir.FundamentalType{Kind: ir.FundamentalString}, Data: `"hello, world"`}}},
	}
	print := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "print", Linkage: ir.LinkageExternal},
		Type:            ir.FunctionType{InputParameterTypes: []ir.TypeReference{ir.FundamentalType{Kind: ir.FundamentalString}}},
	}
	m := &ir.Module{
		Name:               "HelloWorld",
		ExportDeclarations: []ir.Declaration{greeting, print},
	}

	target := NewTextTarget()
	compiled, err := target.CompileModule(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(compiled.ModuleText, `@hlang.HelloWorld.greeting = constant i8* "hello, world"`) {
		t.Fatalf("expected greeting global, got:\n%s", compiled.ModuleText)
	}
	if !strings.Contains(compiled.ModuleText, "declare void @hlang.HelloWorld.print(i8*)") {
		t.Fatalf("expected external print declaration, got:\n%s", compiled.ModuleText)
	}
}

func TestCompileModuleEmitsDefineForFunctionWithBody(t *testing.T) {
	target := NewTextTarget()
	compiled, err := target.CompileModule(addModule())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(compiled.ModuleText, "define i64 @hlang.Arith.add") {
		t.Fatalf("expected a define for add, got:\n%s", compiled.ModuleText)
	}
	if len(compiled.Functions) != 1 || compiled.Functions[0].Symbol != "hlang.Arith.add" {
		t.Fatalf("expected one compiled function named hlang.Arith.add, got %+v", compiled.Functions)
	}
}

func TestCompileFunctionBodyHashLocalityDoesNotAffectMangledName(t *testing.T) {
	target := NewTextTarget()
	m := addModule()
	fn := m.ExportDeclarations[0].(ir.FunctionDeclaration)
	body, _ := m.DefinitionFor(fn)

	compiled1, err := target.CompileFunction(m, fn, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changedBody := ir.Statement{Expressions: []ir.Expression{
		ir.ReturnExpression{Value: ir.ExpressionIndex{Index: 1}, HasValue: true},
		ir.ConstantExpression{Type: ir.IntegerType{NumberOfBits: 64, IsSigned: true}, Data: "42"},
	}}
	compiled2, err := target.CompileFunction(m, fn, changedBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if compiled1.Symbol != compiled2.Symbol {
		t.Fatalf("expected mangled symbol to stay stable across body changes: %s vs %s", compiled1.Symbol, compiled2.Symbol)
	}
	if compiled1.IRText == compiled2.IRText {
		t.Fatalf("expected IR text to differ since the body changed")
	}
}

func TestMangleHonorsUniqueName(t *testing.T) {
	target := NewTextTarget()
	decl := ir.FunctionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "f", UniqueName: "raw_f", HasUnique: true},
	}
	if got := target.Mangle("M", decl); got != "raw_f" {
		t.Fatalf("expected unique name to win, got %s", got)
	}
}

func TestCompileModuleUnionPicksWidestMemberByActualSize(t *testing.T) {
	// "Pointer" has a long lowered type-name string but is only pointer
	// sized (64 bits); "Block" has a short lowered string but is actually
	// far larger. The widest member must be chosen by real size, not by
	// how long its textual type name happens to be.
	union := ir.UnionDeclaration{
		DeclarationBase: ir.DeclarationBase{Name: "Payload"},
		Members: []ir.UnionMember{
			{Name: "pointer", Type: ir.CustomTypeReference{Name: "VeryLongStructNameForTestingPurposes"}},
			{Name: "block", Type: ir.ConstantArrayType{ValueType: ir.IntegerType{NumberOfBits: 64, IsSigned: true}, Size: 4}},
		},
	}
	m := &ir.Module{Name: "M", ExportDeclarations: []ir.Declaration{union}}

	target := NewTextTarget()
	compiled, err := target.CompileModule(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(compiled.ModuleText, "%union.M.Payload = type { [4 x i64] }") {
		t.Fatalf("expected union backed by the 256-bit array member, got:\n%s", compiled.ModuleText)
	}
}

func TestEmitTestEntryPointExposesCountNamesAndTestsAccessors(t *testing.T) {
	target := NewTextTarget()
	compiled, err := target.EmitTestEntryPoint("Arith", []string{"hlang.Arith.test_add", "hlang.Arith.test_subtract"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"define i64 @hlang_get_test_count() {\n  ret i64 2\n}",
		"define i8** @hlang_get_test_names()",
		"define void()** @hlang_get_tests()",
		`c"hlang.Arith.test_add\00"`,
	} {
		if !strings.Contains(compiled.IRText, want) {
			t.Fatalf("expected IR to contain %q, got:\n%s", want, compiled.IRText)
		}
	}
}

func TestLowerTypeHandlesPointerAndArray(t *testing.T) {
	target := NewTextTarget()
	ptr := ir.PointerType{ElementType: ir.IntegerType{NumberOfBits: 32, IsSigned: true}}
	lowered, err := target.lowerType(ptr)
	if err != nil || lowered != "i32*" {
		t.Fatalf("expected i32*, got %q err=%v", lowered, err)
	}

	arr := ir.ConstantArrayType{ValueType: ir.FundamentalType{Kind: ir.FundamentalBool}, Size: 4}
	lowered2, err := target.lowerType(arr)
	if err != nil || lowered2 != "[4 x i1]" {
		t.Fatalf("expected [4 x i1], got %q err=%v", lowered2, err)
	}
}
