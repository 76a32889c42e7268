// Package ir implements the typed intermediate representation of an hlang
// program: modules, declarations, expressions, type references, and the
// cross-module declaration database that makes name resolution possible.
package ir

import "fmt"

// ModuleReference names the module a Custom_type_reference resolves in.
// An empty Name means "the current module" and is normalized to the
// owning module's name the first time it is looked up.
type ModuleReference struct {
	Name string
}

// FundamentalKind enumerates the builtin scalar kinds that are not
// parameterized by width or signedness.
type FundamentalKind int

const (
	FundamentalBool FundamentalKind = iota
	FundamentalByte
	FundamentalFloat16
	FundamentalFloat32
	FundamentalFloat64
	FundamentalCChar
	FundamentalCSChar
	FundamentalCUChar
	FundamentalCShort
	FundamentalCUShort
	FundamentalCInt
	FundamentalCUInt
	FundamentalCLong
	FundamentalCULong
	FundamentalCLongLong
	FundamentalCULongLong
	FundamentalString
	FundamentalAny
)

func (k FundamentalKind) String() string {
	names := [...]string{
		"Bool", "Byte", "Float16", "Float32", "Float64",
		"C_char", "C_schar", "C_uchar", "C_short", "C_ushort",
		"C_int", "C_uint", "C_long", "C_ulong", "C_longlong", "C_ulonglong",
		"String", "Any_type",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Fundamental_type(?)"
	}
	return names[k]
}

// TypeReference is the tagged-variant sum type at the root of the type
// system. Exactly one concrete implementation is active per value; the
// concrete type itself is the tag, matched with a type switch rather than
// through dynamic dispatch (per the no-inheritance design note).
type TypeReference interface {
	typeReference()
	String() string
}

// BuiltinTypeReference names a builtin type by its surface name (used for
// builtins the parser resolves to declarations rather than to one of the
// structural kinds below, e.g. a language-defined alias).
type BuiltinTypeReference struct {
	Value string
}

func (BuiltinTypeReference) typeReference() {}
func (t BuiltinTypeReference) String() string { return t.Value }

// FundamentalType is one of the enumerated scalar kinds.
type FundamentalType struct {
	Kind FundamentalKind
}

func (FundamentalType) typeReference() {}
func (t FundamentalType) String() string { return t.Kind.String() }

// IntegerType is a sized, signed-or-unsigned integer.
type IntegerType struct {
	NumberOfBits uint32
	IsSigned     bool
}

func (IntegerType) typeReference() {}
func (t IntegerType) String() string {
	if t.IsSigned {
		return fmt.Sprintf("Int%d", t.NumberOfBits)
	}
	return fmt.Sprintf("UInt%d", t.NumberOfBits)
}

// ConstantArrayType is a fixed-size array of ValueType.
type ConstantArrayType struct {
	ValueType TypeReference
	Size      uint64
}

func (ConstantArrayType) typeReference() {}
func (t ConstantArrayType) String() string {
	return fmt.Sprintf("[%d]%s", t.Size, t.ValueType)
}

// PointerType is a pointer to ElementType; ElementType == nil encodes
// *void, the only legal erased-pointer form.
type PointerType struct {
	ElementType TypeReference
	IsMutable   bool
}

func (PointerType) typeReference() {}
func (t PointerType) String() string {
	if t.ElementType == nil {
		return "*void"
	}
	if t.IsMutable {
		return "*mut " + t.ElementType.String()
	}
	return "*" + t.ElementType.String()
}

// IsVoidPointer reports whether this is the erased *void encoding.
func (t PointerType) IsVoidPointer() bool { return t.ElementType == nil }

// FunctionType is the signature of a function value or declaration.
type FunctionType struct {
	InputParameterTypes  []TypeReference
	OutputParameterTypes []TypeReference
	IsVariadic           bool
}

func (FunctionType) typeReference() {}
func (t FunctionType) String() string {
	return fmt.Sprintf("fn(%d args) -> %d rets", len(t.InputParameterTypes), len(t.OutputParameterTypes))
}

// CustomTypeReference names a module-qualified declaration (struct, enum,
// union, or alias). An empty ModuleReference.Name means "current module".
type CustomTypeReference struct {
	ModuleReference ModuleReference
	Name            string
}

func (CustomTypeReference) typeReference() {}
func (t CustomTypeReference) String() string {
	if t.ModuleReference.Name == "" {
		return t.Name
	}
	return t.ModuleReference.Name + "." + t.Name
}

// ParameterType is an unbound generic type parameter.
type ParameterType struct {
	Name string
}

func (ParameterType) typeReference() {}
func (t ParameterType) String() string { return "'" + t.Name }

// TypeInstance instantiates a generic Constructor with concrete Arguments.
type TypeInstance struct {
	Constructor TypeReference
	Arguments   []TypeReference
}

func (TypeInstance) typeReference() {}
func (t TypeInstance) String() string {
	return fmt.Sprintf("%s<%d args>", t.Constructor, len(t.Arguments))
}
