package jit

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hlang-toolchain/hlang/internal/backend"
	"github.com/hlang-toolchain/hlang/internal/errors"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

// RecompileLayer owns the stub table and the single monotonically
// increasing generation counter shared by every managed symbol: one
// recompilation event advances every affected stub together, so
// "generation N" means the same thing for every symbol in the session
// rather than being tracked per-symbol. Grounded on
// Recompile_module_layer's modify_function_names_and_create_recompile_data
// (whose "_body_{id}" renaming becomes bodySymbolName's
// "<name>.body.<generation>" form here) and recompile_module's
// new-vs-replace alias split.
type RecompileLayer struct {
	core *CoreLayer

	generation atomic.Uint64

	mu     sync.Mutex
	stubs  map[string]*Stub
}

// NewRecompileLayer constructs a recompile layer backed by core for
// actual body compilation.
func NewRecompileLayer(core *CoreLayer) *RecompileLayer {
	return &RecompileLayer{core: core, stubs: make(map[string]*Stub)}
}

// ApplyResult reports, for one Apply call, which public symbols got a
// brand-new stub (lazily materialized on first Resolve) versus which
// had an existing stub whose pointer was atomically swapped to a freshly
// (eagerly) compiled body.
type ApplyResult struct {
	Generation     uint64
	NewSymbols     []string
	ReplacedSymbols []string
}

// Apply processes every FunctionDeclaration with a body in m: renames
// each body to "<mangled>.body.<generation>", registers it with the core
// layer for (lazy or eager) compilation, and either creates a new stub
// or atomically repoints an existing one. A target is required for the
// eager "replace" path, which must compile the new body immediately
// before swapping the pointer — the original's execution_session.lookup
// on the aliasee has the same effect, forcing materialization so the
// stub is never pointed at an uncompiled symbol.
func (l *RecompileLayer) Apply(target backend.Target, m *ir.Module) (ApplyResult, error) {
	generation := l.generation.Add(1)

	result := ApplyResult{Generation: generation}

	for _, decl := range m.AllDeclarations() {
		fn, ok := decl.(ir.FunctionDeclaration)
		if !ok {
			continue
		}
		body, hasBody := m.DefinitionFor(fn)
		if !hasBody {
			continue
		}

		publicSymbol := target.Mangle(m.Name, fn)
		bodySymbol := bodySymbolName(publicSymbol, generation)

		l.core.Add(bodySymbol, generation, m, fn, body)

		l.mu.Lock()
		stub, exists := l.stubs[publicSymbol]
		if !exists {
			stub = newStub(publicSymbol)
			l.stubs[publicSymbol] = stub
		}
		l.mu.Unlock()

		if !exists {
			stub.armLazy(l.core, bodySymbol)
			result.NewSymbols = append(result.NewSymbols, publicSymbol)
			continue
		}

		compiled, err := l.core.Materialize(bodySymbol)
		if err != nil {
			return result, err
		}
		stub.install(&JITSymbol{Name: publicSymbol, Generation: generation, IRText: compiled.IRText})
		result.ReplacedSymbols = append(result.ReplacedSymbols, publicSymbol)
	}

	return result, nil
}

// Lookup resolves a public symbol through its stub, triggering lazy
// first-generation compilation if nothing has been installed yet.
func (l *RecompileLayer) Lookup(publicSymbol string) (*JITSymbol, error) {
	l.mu.Lock()
	stub, ok := l.stubs[publicSymbol]
	l.mu.Unlock()
	if !ok {
		return nil, errors.NewJITLookupFailure(publicSymbol)
	}
	return stub.Resolve()
}

// CurrentGeneration reports the most recent generation number handed
// out by Apply, 0 if Apply has never been called.
func (l *RecompileLayer) CurrentGeneration() uint64 {
	return l.generation.Load()
}

func bodySymbolName(publicSymbol string, generation uint64) string {
	return publicSymbol + ".body." + strconv.FormatUint(generation, 10)
}
