package ir

// Linkage controls whether a declaration is visible outside its module.
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkagePrivate
)

func (l Linkage) String() string {
	if l == LinkagePrivate {
		return "private"
	}
	return "external"
}

// Declaration is the sum type over the six kinds of named, typed entity a
// module can declare. Every concrete kind embeds DeclarationBase.
type Declaration interface {
	declaration()
	DeclName() string
	DeclUniqueName() (string, bool)
	DeclLinkage() Linkage
	DeclLocation() SourceRangeLocation
}

// DeclarationBase carries the fields common to every declaration kind.
type DeclarationBase struct {
	Name       string
	UniqueName string // mangling override; empty means "not set"
	HasUnique  bool
	Linkage    Linkage
	Location   SourceRangeLocation
	Comment    string
}

func (d DeclarationBase) DeclName() string { return d.Name }

func (d DeclarationBase) DeclUniqueName() (string, bool) {
	if d.HasUnique {
		return d.UniqueName, true
	}
	return "", false
}

func (d DeclarationBase) DeclLinkage() Linkage              { return d.Linkage }
func (d DeclarationBase) DeclLocation() SourceRangeLocation { return d.Location }

// AliasTypeDeclaration declares `type Name = TargetType`.
type AliasTypeDeclaration struct {
	DeclarationBase
	TargetType TypeReference
}

func (AliasTypeDeclaration) declaration() {}

// EnumValue is one member of an Enum_declaration.
type EnumValue struct {
	Name  string
	Value Statement
}

// EnumDeclaration declares a named enumeration.
type EnumDeclaration struct {
	DeclarationBase
	Values []EnumValue
}

func (EnumDeclaration) declaration() {}

// StructDeclaration declares a struct type; member order is semantic (it
// participates in the export-interface hash, §4.3).
type StructDeclaration struct {
	DeclarationBase
	MemberTypes         []TypeReference
	MemberNames         []string
	MemberDefaultValues []Statement // parallel to MemberNames; empty Statement if absent
	HasDefaultValue     []bool
	IsPacked            bool
	IsLiteral           bool
}

func (StructDeclaration) declaration() {}

// UnionMember is one member of a Union_declaration.
type UnionMember struct {
	Name string
	Type TypeReference
}

// UnionDeclaration declares a tagged or untagged union type.
type UnionDeclaration struct {
	DeclarationBase
	Members []UnionMember
}

func (UnionDeclaration) declaration() {}

// FunctionDeclaration declares a function's signature without a body.
type FunctionDeclaration struct {
	DeclarationBase
	Type                 FunctionType
	InputParameterNames  []string
	OutputParameterNames []string
	ParameterLocations   []SourceRangeLocation // parallel to input then output names
}

func (FunctionDeclaration) declaration() {}

// GlobalVariableDeclaration declares a module-level variable.
type GlobalVariableDeclaration struct {
	DeclarationBase
	Type        TypeReference
	IsMutable   bool
	InitialValue Statement
	HasInitial  bool
}

func (GlobalVariableDeclaration) declaration() {}
