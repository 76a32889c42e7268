package ir

import "sync"

// AliasImport renames an imported module inside the importing module's
// namespace, e.g. `import Foo as F`. Usages is the set of symbol names
// actually referenced from ModuleName through this import, populated by
// the loader; the recompilation planner only needs to recompile this
// module when one of these specific symbols' hash changes, not on any
// change to ModuleName at all.
type AliasImport struct {
	ModuleName string
	Alias      string
	Usages     []string
}

// Module is a single compiled translation unit: its declarations (split
// into the exported and internal-only sets), the statements that define
// function bodies and global initializers, and the set of modules it
// depends on.
type Module struct {
	Name            string
	SourceFilePath  string
	ContentHash     uint64
	HasContentHash  bool
	LanguageVersion string
	Comment         string

	Dependencies []string
	AliasImports []AliasImport

	ExportDeclarations   []Declaration
	InternalDeclarations []Declaration

	// Definitions maps a FunctionDeclaration or GlobalVariableDeclaration's
	// unique name (falling back to its plain name) to the body/initializer
	// statement compiled for it. Declarations without an entry are
	// signature-only (e.g. extern declarations or C-header imports).
	Definitions map[string]Statement

	declIndexOnce sync.Once
	declIndex     map[string]Declaration
}

// AllDeclarations returns export and internal declarations concatenated,
// exports first. Callers that need a stable declare-order traversal
// (the backend, the JIT recompile layer, the LSP server) use this
// rather than touching the two slices directly.
func (m *Module) AllDeclarations() []Declaration {
	all := make([]Declaration, 0, len(m.ExportDeclarations)+len(m.InternalDeclarations))
	all = append(all, m.ExportDeclarations...)
	all = append(all, m.InternalDeclarations...)
	return all
}

// FindDeclaration returns the declaration (export or internal) whose
// Name matches, or nil if none does, in O(1) average as spec.md requires:
// the name -> Declaration map is built once, on first lookup, from
// ExportDeclarations then InternalDeclarations, so an export and an
// internal declaration sharing a name resolves to the export (matching
// resolution priority elsewhere in the package).
func (m *Module) FindDeclaration(name string) Declaration {
	m.declIndexOnce.Do(m.buildDeclIndex)
	return m.declIndex[name]
}

func (m *Module) buildDeclIndex() {
	m.declIndex = make(map[string]Declaration, len(m.ExportDeclarations)+len(m.InternalDeclarations))
	for _, d := range m.ExportDeclarations {
		if _, exists := m.declIndex[d.DeclName()]; !exists {
			m.declIndex[d.DeclName()] = d
		}
	}
	for _, d := range m.InternalDeclarations {
		if _, exists := m.declIndex[d.DeclName()]; !exists {
			m.declIndex[d.DeclName()] = d
		}
	}
}

// DefinitionFor looks up the compiled body for a declaration, preferring
// its unique (mangled) name when set.
func (m *Module) DefinitionFor(d Declaration) (Statement, bool) {
	if m.Definitions == nil {
		return Statement{}, false
	}
	if unique, ok := d.DeclUniqueName(); ok {
		if s, ok := m.Definitions[unique]; ok {
			return s, true
		}
	}
	s, ok := m.Definitions[d.DeclName()]
	return s, ok
}

// ResolveAlias expands an alias import prefix to the module it names, or
// returns ("", false) if name is not an alias of any import.
func (m *Module) ResolveAlias(name string) (string, bool) {
	for _, a := range m.AliasImports {
		if a.Alias == name {
			return a.ModuleName, true
		}
	}
	return "", false
}
