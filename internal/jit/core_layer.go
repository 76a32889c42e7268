package jit

import (
	"sync"

	"github.com/hlang-toolchain/hlang/internal/backend"
	"github.com/hlang-toolchain/hlang/internal/errors"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

// CoreLayer lazily compiles a function body the first time it is
// requested, and caches the result for every later request. Grounded on
// Core_module_layer's materialize-on-demand contract; the original
// defers to LLVM ORC's on-request materialization machinery, which has
// no Go binding in this corpus, so this reimplements the same contract
// with one sync.Once per registered body rather than delegating to ORC.
type CoreLayer struct {
	target backend.Target

	mu    sync.Mutex
	units map[string]*materializationUnit
}

type materializationUnit struct {
	once       sync.Once
	result     backend.CompiledFunction
	err        error
	module     *ir.Module
	decl       ir.FunctionDeclaration
	body       ir.Statement
	generation uint64
}

// NewCoreLayer constructs a core layer that compiles through target.
func NewCoreLayer(target backend.Target) *CoreLayer {
	return &CoreLayer{target: target, units: make(map[string]*materializationUnit)}
}

// Add registers a function body under bodySymbol without compiling it.
// Compilation happens lazily, the first time Materialize is called for
// this symbol (directly, or transitively through a Stub's first
// Resolve).
func (c *CoreLayer) Add(bodySymbol string, generation uint64, module *ir.Module, decl ir.FunctionDeclaration, body ir.Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[bodySymbol] = &materializationUnit{module: module, decl: decl, body: body, generation: generation}
}

// Materialize compiles bodySymbol on first call and returns the cached
// result on every subsequent call, concurrency-safe via sync.Once.
func (c *CoreLayer) Materialize(bodySymbol string) (backend.CompiledFunction, error) {
	c.mu.Lock()
	unit, ok := c.units[bodySymbol]
	c.mu.Unlock()
	if !ok {
		return backend.CompiledFunction{}, errors.NewJITLookupFailure(bodySymbol)
	}

	unit.once.Do(func() {
		unit.result, unit.err = c.target.CompileFunction(unit.module, unit.decl, unit.body)
	})
	return unit.result, unit.err
}

// generationOf reports the generation a registered body symbol belongs
// to, used by Stub.Resolve to stamp the JITSymbol it installs.
func (c *CoreLayer) generationOf(bodySymbol string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if unit, ok := c.units[bodySymbol]; ok {
		return unit.generation
	}
	return 0
}
