package ir

// WalkTypeReferences visits t and every TypeReference nested within it
// (pointer element types, array value types, function parameter types,
// type instance arguments), depth-first, t itself first.
func WalkTypeReferences(t TypeReference, visit func(TypeReference)) {
	if t == nil {
		return
	}
	visit(t)
	switch v := t.(type) {
	case PointerType:
		if v.ElementType != nil {
			WalkTypeReferences(v.ElementType, visit)
		}
	case ConstantArrayType:
		WalkTypeReferences(v.ValueType, visit)
	case FunctionType:
		for _, p := range v.InputParameterTypes {
			WalkTypeReferences(p, visit)
		}
		for _, p := range v.OutputParameterTypes {
			WalkTypeReferences(p, visit)
		}
	case TypeInstance:
		WalkTypeReferences(v.Constructor, visit)
		for _, a := range v.Arguments {
			WalkTypeReferences(a, visit)
		}
	case BuiltinTypeReference, FundamentalType, IntegerType, CustomTypeReference, ParameterType:
		// leaves
	}
}

// DeclarationTypeReferences returns every TypeReference that appears
// directly in d's signature (not inside its body/definition). The
// hashing package does not use it; it walks declarations itself.
func DeclarationTypeReferences(d Declaration) []TypeReference {
	switch v := d.(type) {
	case AliasTypeDeclaration:
		return []TypeReference{v.TargetType}
	case EnumDeclaration:
		return nil
	case StructDeclaration:
		return append([]TypeReference(nil), v.MemberTypes...)
	case UnionDeclaration:
		out := make([]TypeReference, 0, len(v.Members))
		for _, m := range v.Members {
			out = append(out, m.Type)
		}
		return out
	case FunctionDeclaration:
		out := make([]TypeReference, 0, len(v.Type.InputParameterTypes)+len(v.Type.OutputParameterTypes))
		out = append(out, v.Type.InputParameterTypes...)
		out = append(out, v.Type.OutputParameterTypes...)
		return out
	case GlobalVariableDeclaration:
		return []TypeReference{v.Type}
	}
	return nil
}

// WalkStatements calls visit on s and, for expressions that embed nested
// statements (constant arrays, instantiate member values), recurses into
// them. Unlike WalkExpressionIndices this crosses statement boundaries,
// which is what the hasher and the serializer need for a complete
// traversal.
func WalkStatements(s Statement, visit func(Statement)) {
	visit(s)
	for _, e := range s.Expressions {
		switch v := e.(type) {
		case ConstantArrayExpression:
			for _, nested := range v.ArrayData {
				WalkStatements(nested, visit)
			}
		case InstantiateExpression:
			for _, pair := range v.Members {
				WalkStatements(pair.Value, visit)
			}
		}
	}
}
