package ir

import (
	"fmt"
	"strings"
	"sync"
)

// CyclicAliasError is returned when alias resolution detects a cycle
// (Foo = Bar, Bar = Foo) instead of looping forever.
type CyclicAliasError struct {
	Chain []string
}

func (e *CyclicAliasError) Error() string {
	return fmt.Sprintf("cyclic alias: %v", e.Chain)
}

// Database indexes every module's declarations by (module, name) so that
// name resolution can cross module boundaries. It is safe for concurrent
// use; the recompilation engine and the JIT layers both read and mutate
// it from multiple goroutines.
type Database struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// NewDatabase returns an empty declaration database.
func NewDatabase() *Database {
	return &Database{modules: make(map[string]*Module)}
}

// AddModule registers or replaces a module's declarations. Replacing an
// existing module entirely supersedes its prior declaration set; callers
// that need incremental dirty-symbol tracking go through
// internal/depgraph and internal/recompile instead, which call AddModule
// once the new Module value has been built.
func (db *Database) AddModule(m *Module) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.modules[m.Name] = m
}

// RemoveModule drops a module and all its declarations from the database.
func (db *Database) RemoveModule(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.modules, name)
}

// Module returns the named module, or nil if it is not registered.
func (db *Database) Module(name string) *Module {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.modules[name]
}

// ModuleNames returns every registered module name in no particular
// order.
func (db *Database) ModuleNames() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	names := make([]string, 0, len(db.modules))
	for n := range db.modules {
		names = append(names, n)
	}
	return names
}

// FindDeclaration resolves name within moduleName, following alias
// imports (`import Foo as F`) one hop if name isn't declared locally: a
// name of the form "alias.Rest" is resolved by finding moduleName's
// AliasImport for "alias" and looking "Rest" up in the imported module.
// It does not itself resolve Custom_type_reference module qualifiers —
// callers pass the already-split module/name pair.
func (db *Database) FindDeclaration(moduleName, name string) (Declaration, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.findDeclaration(moduleName, name)
}

func (db *Database) findDeclaration(moduleName, name string) (Declaration, bool) {
	m, ok := db.modules[moduleName]
	if !ok {
		return nil, false
	}
	if d := m.FindDeclaration(name); d != nil {
		return d, true
	}

	alias, rest, hasAlias := strings.Cut(name, ".")
	if !hasAlias {
		return nil, false
	}
	for _, imp := range m.AliasImports {
		if imp.Alias == alias {
			return db.findDeclaration(imp.ModuleName, rest)
		}
	}
	return nil, false
}

// GetUnderlyingDeclaration resolves a CustomTypeReference through any
// chain of AliasTypeDeclaration indirection to the first non-alias
// declaration, detecting cycles rather than looping forever.
func (db *Database) GetUnderlyingDeclaration(ref CustomTypeReference) (Declaration, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	seen := make(map[string]bool)
	chain := []string{}
	current := ref
	for {
		key := current.ModuleReference.Name + "." + current.Name
		if seen[key] {
			return nil, &CyclicAliasError{Chain: append(chain, key)}
		}
		seen[key] = true
		chain = append(chain, key)

		m := db.modules[current.ModuleReference.Name]
		if m == nil {
			return nil, fmt.Errorf("module not found: %s", current.ModuleReference.Name)
		}
		decl := m.FindDeclaration(current.Name)
		if decl == nil {
			return nil, fmt.Errorf("declaration not found: %s", key)
		}
		alias, isAlias := decl.(AliasTypeDeclaration)
		if !isAlias {
			return decl, nil
		}
		next, isCustom := alias.TargetType.(CustomTypeReference)
		if !isCustom {
			// Alias targets a non-custom type (e.g. Int32); there is no
			// further declaration to chase, so the alias itself is the
			// underlying entity for callers that only need the type.
			return decl, nil
		}
		if next.ModuleReference.Name == "" {
			next.ModuleReference = current.ModuleReference
		}
		current = next
	}
}

// GetUnderlyingType resolves ref to the TypeReference it ultimately
// names, unwrapping alias chains. For a non-alias declaration this is
// just ref itself re-wrapped; for an alias chain it is the final
// non-custom TypeReference, if the chain bottoms out at one.
func (db *Database) GetUnderlyingType(ref CustomTypeReference) (TypeReference, error) {
	decl, err := db.GetUnderlyingDeclaration(ref)
	if err != nil {
		return nil, err
	}
	if alias, ok := decl.(AliasTypeDeclaration); ok {
		return alias.TargetType, nil
	}
	return ref, nil
}
