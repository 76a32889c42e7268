// Package serialize provides two bijective encodings of ir.Module: a
// human-readable JSON form (used by the LSP and build tooling) and a
// packed binary form. Sum-type tags are fixed-width integers in both
// forms, declared once here so JSON and binary stay in lockstep.
package serialize

// Type reference tags, matching ir.TypeReference's nine concrete kinds.
const (
	tagBuiltinType uint8 = iota
	tagFundamentalType
	tagIntegerType
	tagConstantArrayType
	tagPointerType
	tagFunctionType
	tagCustomTypeReference
	tagParameterType
	tagTypeInstance
)

// Expression tags, matching ir.Expression's fourteen concrete kinds.
const (
	tagAccessExpression uint8 = iota
	tagBinaryExpression
	tagCastExpression
	tagConstantExpression
	tagConstantArrayExpression
	tagInstantiateExpression
	tagNullPointerExpression
	tagParenthesisExpression
	tagReturnExpression
	tagCallExpression
	tagVariableDeclarationExpression
	tagUnaryExpression
	tagVariableExpression
	tagTypeExpression
)

// Declaration tags, matching ir.Declaration's six concrete kinds.
const (
	tagAliasTypeDeclaration uint8 = iota
	tagEnumDeclaration
	tagStructDeclaration
	tagUnionDeclaration
	tagFunctionDeclaration
	tagGlobalVariableDeclaration
)
