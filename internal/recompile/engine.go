package recompile

import (
	"sync"

	"github.com/hlang-toolchain/hlang/internal/depgraph"
	"github.com/hlang-toolchain/hlang/internal/hashing"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

// Compiler is the narrow collaborator the engine calls back into to
// actually turn source into a new ir.Module when a dependent needs
// recompiling. It is supplied by the caller (cmd/hlang passes an
// internal/loader.Loader) rather than
// implemented here, since producing a Module requires the out-of-scope
// surface parser plus type resolution.
type Compiler interface {
	Compile(moduleName string) (*ir.Module, error)
}

// Engine owns the declaration database, dependency graph, and hash
// history needed to drive recompilation end to end: record a module's
// hashes on load, plan its reverse dependents on change, and recompile
// the whole affected closure to a fixed point.
type Engine struct {
	db       *ir.Database
	graph    *depgraph.Graph
	compiler Compiler

	mu     sync.RWMutex
	hashes map[string]hashing.SymbolHashes
}

// NewEngine constructs an Engine over an existing declaration database
// and dependency graph.
func NewEngine(db *ir.Database, graph *depgraph.Graph, compiler Compiler) *Engine {
	return &Engine{
		db:       db,
		graph:    graph,
		compiler: compiler,
		hashes:   make(map[string]hashing.SymbolHashes),
	}
}

// Module implements Store.
func (e *Engine) Module(name string) *ir.Module { return e.db.Module(name) }

// PreviousHashes implements Store.
func (e *Engine) PreviousHashes(moduleName string) (hashing.SymbolHashes, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.hashes[moduleName]
	return h, ok
}

// Load registers m for the first time: indexes its declarations and
// dependency edges and records its export hashes, without triggering any
// recompilation of dependents (there are none yet to trigger).
func (e *Engine) Load(m *ir.Module) {
	e.db.AddModule(m)
	e.graph.SetDependencies(m.Name, m.Dependencies)

	newHashes := hashing.HashExportInterface(m)
	e.mu.Lock()
	e.hashes[m.Name] = newHashes
	e.mu.Unlock()
}

// Result describes the outcome of applying an edited module: which
// modules ended up being recompiled (including the edited module
// itself, first) and in what order.
type Result struct {
	Recompiled []string
}

// Apply registers an edited version of a module and recompiles every
// reverse dependent whose actually-used symbols changed hash, following
// the closure transitively until it reaches a fixed point (no module's
// export interface changed relative to what was previously recorded).
// A module can appear at most once in Result.Recompiled even if it is
// reachable through more than one path, since after its first
// recompilation in this Apply call its hashes are already up to date.
func (e *Engine) Apply(m *ir.Module) (Result, error) {
	e.db.AddModule(m)
	e.graph.SetDependencies(m.Name, m.Dependencies)

	newHashes := hashing.HashExportInterface(m)

	result := Result{Recompiled: []string{m.Name}}
	visited := map[string]bool{m.Name: true}

	queue := Plan(e, e.graph, m.Name, newHashes)

	e.mu.Lock()
	e.hashes[m.Name] = newHashes
	e.mu.Unlock()

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		recompiled, err := e.compiler.Compile(name)
		if err != nil {
			return result, err
		}

		e.db.AddModule(recompiled)
		e.graph.SetDependencies(recompiled.Name, recompiled.Dependencies)
		recompiledHashes := hashing.HashExportInterface(recompiled)

		next := Plan(e, e.graph, name, recompiledHashes)

		e.mu.Lock()
		e.hashes[name] = recompiledHashes
		e.mu.Unlock()

		result.Recompiled = append(result.Recompiled, name)
		queue = append(queue, next...)
	}

	return result, nil
}
