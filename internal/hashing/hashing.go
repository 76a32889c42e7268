// Package hashing computes content hashes over a module's exported
// declaration interfaces. The hash feeds each declaration's fields in a
// fixed, canonical order so that two syntactically different but
// semantically identical declarations hash the same, and, critically,
// so that editing a function body never changes the hash of its
// signature — only the recompilation planner's "did the export interface
// change" question depends on it, and bodies are not part of that
// interface. A global variable's initializer, when present, is fed into
// its declaration's hash.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// SymbolHashes maps an exported declaration's name to its export-interface
// hash.
type SymbolHashes map[string]uint64

func writeString(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
}

func writeBool(d *xxhash.Digest, b bool) {
	if b {
		_, _ = d.Write([]byte{1})
	} else {
		_, _ = d.Write([]byte{0})
	}
}

func writeUint32(d *xxhash.Digest, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = d.Write(buf[:])
}

func writeUint64(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = d.Write(buf[:])
}

func writeInt(d *xxhash.Digest, v int) {
	writeUint64(d, uint64(v))
}

// writeTypeReference feeds a TypeReference's fields in the same order
// the original recompilation engine does: one case per concrete kind,
// recursing into nested type references before any scalar fields.
func writeTypeReference(d *xxhash.Digest, t ir.TypeReference) {
	switch v := t.(type) {
	case ir.BuiltinTypeReference:
		writeString(d, v.Value)
	case ir.ConstantArrayType:
		writeTypeReference(d, v.ValueType)
		writeUint64(d, v.Size)
	case ir.CustomTypeReference:
		writeString(d, v.ModuleReference.Name)
		writeString(d, v.Name)
	case ir.FundamentalType:
		writeInt(d, int(v.Kind))
	case ir.FunctionType:
		for _, p := range v.InputParameterTypes {
			writeTypeReference(d, p)
		}
		for _, p := range v.OutputParameterTypes {
			writeTypeReference(d, p)
		}
		writeBool(d, v.IsVariadic)
	case ir.IntegerType:
		writeUint32(d, v.NumberOfBits)
		writeBool(d, v.IsSigned)
	case ir.PointerType:
		if v.ElementType != nil {
			writeTypeReference(d, v.ElementType)
		}
		writeBool(d, v.IsMutable)
	case ir.ParameterType:
		writeString(d, v.Name)
	case ir.TypeInstance:
		writeTypeReference(d, v.Constructor)
		for _, a := range v.Arguments {
			writeTypeReference(d, a)
		}
	}
}

// writeExpression feeds an expression's fields, recursing through the
// owning statement for any ExpressionIndex fields. Statement/body
// content does participate in the hash for expressions that carry data
// directly (constants, instantiate member values) because those are
// part of an enum value or a default value, which are themselves part
// of the exported interface; a function's executable body is never fed
// here at all (see HashDeclaration's FunctionDeclaration case, which
// never calls writeStatement on the definition).
func writeExpression(d *xxhash.Digest, statement ir.Statement, expr ir.Expression) {
	switch v := expr.(type) {
	case ir.AccessExpression:
		writeExpressionIndex(d, statement, v.Expression)
		writeString(d, v.MemberName)
		writeInt(d, int(v.AccessType))
	case ir.BinaryExpression:
		writeExpressionIndex(d, statement, v.LeftHandSide)
		writeExpressionIndex(d, statement, v.RightHandSide)
		writeInt(d, int(v.Operation))
	case ir.CastExpression:
		writeExpressionIndex(d, statement, v.Source)
		writeTypeReference(d, v.DestinationType)
		writeInt(d, int(v.CastType))
	case ir.ConstantExpression:
		writeTypeReference(d, v.Type)
		writeString(d, v.Data)
	case ir.ConstantArrayExpression:
		writeTypeReference(d, v.Type)
		for _, element := range v.ArrayData {
			writeStatement(d, element)
		}
	case ir.InstantiateExpression:
		writeInt(d, int(v.Type))
		for _, pair := range v.Members {
			writeString(d, pair.MemberName)
			writeStatement(d, pair.Value)
		}
	case ir.NullPointerExpression:
		writeBool(d, false)
	case ir.ParenthesisExpression:
		writeExpressionIndex(d, statement, v.Expression)
	case ir.ReturnExpression:
		if v.HasValue {
			writeExpressionIndex(d, statement, v.Value)
		}
	case ir.CallExpression:
		writeExpressionIndex(d, statement, v.Function)
		for _, a := range v.Arguments {
			writeExpressionIndex(d, statement, a)
		}
	case ir.VariableDeclarationExpression:
		writeString(d, v.Name)
		writeBool(d, v.IsMutable)
		writeExpressionIndex(d, statement, v.RightHandSide)
	case ir.UnaryExpression:
		writeExpressionIndex(d, statement, v.Expression)
		writeInt(d, int(v.Operation))
	case ir.VariableExpression:
		writeString(d, v.Name)
		writeInt(d, int(v.AccessType))
	case ir.TypeExpression:
		writeTypeReference(d, v.Type)
	}
}

func writeExpressionIndex(d *xxhash.Digest, statement ir.Statement, idx ir.ExpressionIndex) {
	writeExpression(d, statement, statement.At(idx))
}

func writeStatement(d *xxhash.Digest, statement ir.Statement) {
	for _, e := range statement.Expressions {
		writeExpression(d, statement, e)
	}
}

// HashDeclaration computes the export-interface hash of a single
// declaration. Field order per kind mirrors the original
// hash_struct_declaration and is held to the same locality invariant
// for every kind, not just Struct: a FunctionDeclaration never feeds its
// compiled body, only its signature, so editing a function's statements
// without touching its name/type/parameter names leaves the hash
// unchanged.
func HashDeclaration(declaration ir.Declaration) uint64 {
	d := xxhash.New()

	writeString(d, declaration.DeclName())
	if unique, ok := declaration.DeclUniqueName(); ok {
		writeString(d, unique)
	}

	switch decl := declaration.(type) {
	case ir.AliasTypeDeclaration:
		writeTypeReference(d, decl.TargetType)

	case ir.EnumDeclaration:
		for _, value := range decl.Values {
			writeString(d, value.Name)
			writeStatement(d, value.Value)
		}

	case ir.StructDeclaration:
		for _, t := range decl.MemberTypes {
			writeTypeReference(d, t)
		}
		for _, n := range decl.MemberNames {
			writeString(d, n)
		}
		for i, v := range decl.MemberDefaultValues {
			if i < len(decl.HasDefaultValue) && decl.HasDefaultValue[i] {
				writeStatement(d, v)
			}
		}
		writeBool(d, decl.IsPacked)
		writeBool(d, decl.IsLiteral)

	case ir.UnionDeclaration:
		for _, m := range decl.Members {
			writeString(d, m.Name)
			writeTypeReference(d, m.Type)
		}

	case ir.FunctionDeclaration:
		for _, p := range decl.Type.InputParameterTypes {
			writeTypeReference(d, p)
		}
		for _, p := range decl.Type.OutputParameterTypes {
			writeTypeReference(d, p)
		}
		writeBool(d, decl.Type.IsVariadic)
		for _, n := range decl.InputParameterNames {
			writeString(d, n)
		}
		for _, n := range decl.OutputParameterNames {
			writeString(d, n)
		}
		// Deliberately no reference to the compiled body/definition here:
		// a FunctionDeclaration's export hash is its signature alone.

	case ir.GlobalVariableDeclaration:
		writeTypeReference(d, decl.Type)
		writeBool(d, decl.IsMutable)
		if decl.HasInitial {
			writeStatement(d, decl.InitialValue)
		}
	}

	return d.Sum64()
}

// HashExportInterface computes the export-interface hash of every
// exported declaration in m, keyed by declaration name.
func HashExportInterface(m *ir.Module) SymbolHashes {
	hashes := make(SymbolHashes, len(m.ExportDeclarations))
	for _, decl := range m.ExportDeclarations {
		hashes[decl.DeclName()] = HashDeclaration(decl)
	}
	return hashes
}

// GetHash looks up a symbol's hash, reporting whether it was present.
func GetHash(hashes SymbolHashes, symbolName string) (uint64, bool) {
	h, ok := hashes[symbolName]
	return h, ok
}
