package jit

import (
	"sync"
	"sync/atomic"

	"github.com/hlang-toolchain/hlang/internal/errors"
)

// JITSymbol is what a successful Lookup returns: the compiled body
// currently installed behind a public symbol's stub, and the
// generation it was compiled at.
type JITSymbol struct {
	Name       string
	Generation uint64
	IRText     string
}

// Stub is the indirection every public symbol goes through. Callers
// never resolve straight to a generation's body; they always go through
// a Stub, so that installing a new generation is a single atomic
// pointer swap rather than rewriting every call site that referenced
// the old body. This is the Go reinterpretation of ORC's
// IndirectStubsManager: no code is actually re-pointed in a running
// process image here, but the concurrency contract — readers never
// observe a torn or partially-updated symbol — is the same one that
// mechanism exists to provide.
type Stub struct {
	name    string
	current atomic.Pointer[JITSymbol]

	// lazy materialization state for a stub's first generation: the
	// recompile layer registers pendingBodySymbol and leaves current nil
	// when a symbol is new, matching the original's lazyReexports path
	// (compiled only once actually looked up); materializeOnce ensures
	// concurrent first lookups still compile exactly once.
	mu                sync.Mutex
	layer             *CoreLayer
	pendingBodySymbol string
	materializeOnce    sync.Once
}

func newStub(name string) *Stub {
	return &Stub{name: name}
}

// Load returns the currently installed symbol, if any generation has
// been installed (eagerly or by a prior lazy materialization).
func (s *Stub) Load() (*JITSymbol, bool) {
	v := s.current.Load()
	return v, v != nil
}

// install atomically swaps in a newly compiled generation. Called by
// the recompile layer's "replace" path, where the new body has already
// been compiled eagerly before the swap.
func (s *Stub) install(sym *JITSymbol) {
	s.current.Store(sym)
}

// armLazy records that this stub's first generation should only be
// compiled on first Resolve, not immediately — the "new alias" path in
// the original, where lazyReexports defers compilation until lookup.
func (s *Stub) armLazy(layer *CoreLayer, bodySymbol string) {
	s.mu.Lock()
	s.layer = layer
	s.pendingBodySymbol = bodySymbol
	s.mu.Unlock()
}

// Resolve returns the installed symbol, triggering the one-time lazy
// materialization of a brand-new stub's first generation if nothing has
// been installed yet.
func (s *Stub) Resolve() (*JITSymbol, error) {
	if v := s.current.Load(); v != nil {
		return v, nil
	}

	s.mu.Lock()
	layer, bodySymbol := s.layer, s.pendingBodySymbol
	s.mu.Unlock()

	if layer == nil {
		return nil, errors.NewJITLookupFailure(s.name)
	}

	var materializeErr error
	s.materializeOnce.Do(func() {
		compiled, err := layer.Materialize(bodySymbol)
		if err != nil {
			materializeErr = err
			return
		}
		s.install(&JITSymbol{Name: s.name, Generation: layer.generationOf(bodySymbol), IRText: compiled.IRText})
	})
	if materializeErr != nil {
		return nil, materializeErr
	}
	if v := s.current.Load(); v != nil {
		return v, nil
	}
	return nil, errors.NewJITLookupFailure(s.name)
}
