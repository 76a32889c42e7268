package ir

import "testing"

func TestStatementValidDetectsOutOfBounds(t *testing.T) {
	good := Statement{Expressions: []Expression{
		ReturnExpression{Value: ExpressionIndex{Index: 1}, HasValue: true},
		ConstantExpression{Type: FundamentalType{Kind: FundamentalBool}, Data: "true"},
	}}
	if !good.Valid() {
		t.Fatalf("expected statement to be valid")
	}

	bad := Statement{Expressions: []Expression{
		ReturnExpression{Value: ExpressionIndex{Index: 5}, HasValue: true},
	}}
	if bad.Valid() {
		t.Fatalf("expected statement with dangling index to be invalid")
	}
}

func TestDatabaseGetUnderlyingDeclarationFollowsAliasChain(t *testing.T) {
	db := NewDatabase()
	db.AddModule(&Module{
		Name: "M",
		ExportDeclarations: []Declaration{
			AliasTypeDeclaration{
				DeclarationBase: DeclarationBase{Name: "A"},
				TargetType:      CustomTypeReference{ModuleReference: ModuleReference{Name: "M"}, Name: "B"},
			},
			AliasTypeDeclaration{
				DeclarationBase: DeclarationBase{Name: "B"},
				TargetType:      IntegerType{NumberOfBits: 32, IsSigned: true},
			},
		},
	})

	decl, err := db.GetUnderlyingDeclaration(CustomTypeReference{ModuleReference: ModuleReference{Name: "M"}, Name: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alias, ok := decl.(AliasTypeDeclaration)
	if !ok || alias.DeclName() != "B" {
		t.Fatalf("expected to resolve to declaration B, got %#v", decl)
	}
}

func TestDatabaseGetUnderlyingDeclarationDetectsCycle(t *testing.T) {
	db := NewDatabase()
	db.AddModule(&Module{
		Name: "M",
		ExportDeclarations: []Declaration{
			AliasTypeDeclaration{
				DeclarationBase: DeclarationBase{Name: "A"},
				TargetType:      CustomTypeReference{ModuleReference: ModuleReference{Name: "M"}, Name: "B"},
			},
			AliasTypeDeclaration{
				DeclarationBase: DeclarationBase{Name: "B"},
				TargetType:      CustomTypeReference{ModuleReference: ModuleReference{Name: "M"}, Name: "A"},
			},
		},
	})

	_, err := db.GetUnderlyingDeclaration(CustomTypeReference{ModuleReference: ModuleReference{Name: "M"}, Name: "A"})
	if err == nil {
		t.Fatalf("expected cyclic alias error")
	}
	if _, ok := err.(*CyclicAliasError); !ok {
		t.Fatalf("expected *CyclicAliasError, got %T", err)
	}
}

func TestWalkTypeReferencesVisitsNested(t *testing.T) {
	ft := FunctionType{
		InputParameterTypes:  []TypeReference{PointerType{ElementType: IntegerType{NumberOfBits: 8, IsSigned: false}}},
		OutputParameterTypes: []TypeReference{FundamentalType{Kind: FundamentalBool}},
	}
	var visited []TypeReference
	WalkTypeReferences(ft, func(t TypeReference) { visited = append(visited, t) })
	if len(visited) != 4 {
		t.Fatalf("expected 4 visited type references (fn, ptr, int8, bool), got %d: %v", len(visited), visited)
	}
}

func TestModuleFindDeclarationPrefersExports(t *testing.T) {
	m := &Module{
		Name: "M",
		ExportDeclarations: []Declaration{
			FunctionDeclaration{DeclarationBase: DeclarationBase{Name: "f"}},
		},
		InternalDeclarations: []Declaration{
			GlobalVariableDeclaration{DeclarationBase: DeclarationBase{Name: "f"}},
		},
	}
	d := m.FindDeclaration("f")
	if _, ok := d.(FunctionDeclaration); !ok {
		t.Fatalf("expected export declaration to win, got %T", d)
	}
}
