package jit

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hlang-toolchain/hlang/internal/backend"
	"github.com/hlang-toolchain/hlang/internal/ir"
	"github.com/hlang-toolchain/hlang/internal/recompile"
)

// TestRunner is the narrow collaborator interface Runner.Install calls
// into for every recompiled module once its symbols are installed.
// Discovering and executing hlang's own test blocks is surface-parser
// territory and out of scope here; this interface exists so the runner
// has somewhere to delegate to without depending on that implementation.
type TestRunner interface {
	RunTests(moduleName string) error
}

// Runner drives the three-layer materialization pipeline end to end:
// Core layer (lazy per-symbol compile), Recompile layer (stub/generation
// management), and the backend Target (actual IR lowering). It also
// owns the recompilation engine, so a single edited module flows
// through planning, recompilation of affected reverse dependents, and
// stub installation in one call.
type Runner struct {
	target backend.Target
	core   *CoreLayer
	recomp *RecompileLayer
	engine *recompile.Engine
	tests  TestRunner
}

// NewRunner wires a fresh three-layer pipeline around target and engine.
func NewRunner(target backend.Target, engine *recompile.Engine, tests TestRunner) *Runner {
	core := NewCoreLayer(target)
	return &Runner{
		target: target,
		core:   core,
		recomp: NewRecompileLayer(core),
		engine: engine,
		tests:  tests,
	}
}

// InstallResult reports everything one edit produced: which modules the
// recompilation engine recompiled, and which public symbols across all
// of them ended up newly stubbed versus hot-swapped in place.
type InstallResult struct {
	RecompiledModules []string
	NewSymbols        []string
	ReplacedSymbols   []string
	Generation        uint64
}

// Install applies an edited module end to end: runs the recompilation
// engine's planner over the whole affected closure, then materializes
// every recompiled module's functions through the JIT layers. Within a
// single Install call, independent modules are compiled concurrently
// (bounded by a worker pool) since the backend's textual emitter has no
// shared mutable state across functions.
func (r *Runner) Install(ctx context.Context, edited *ir.Module) (InstallResult, error) {
	applyResult, err := r.engine.Apply(edited)
	if err != nil {
		return InstallResult{}, err
	}

	var mu sync.Mutex
	result := InstallResult{RecompiledModules: applyResult.Recompiled}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workerLimit())

	for _, name := range applyResult.Recompiled {
		name := name
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			module := r.engine.Module(name)
			if module == nil {
				return nil
			}
			applied, err := r.recomp.Apply(r.target, module)
			if err != nil {
				return err
			}
			mu.Lock()
			result.NewSymbols = append(result.NewSymbols, applied.NewSymbols...)
			result.ReplacedSymbols = append(result.ReplacedSymbols, applied.ReplacedSymbols...)
			if applied.Generation > result.Generation {
				result.Generation = applied.Generation
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}

	if r.tests != nil {
		for _, name := range applyResult.Recompiled {
			if err := r.tests.RunTests(name); err != nil {
				return result, err
			}
		}
	}

	return result, nil
}

// Lookup resolves a mangled public symbol to its currently installed
// generation, triggering lazy compilation on first use.
func (r *Runner) Lookup(symbol string) (*JITSymbol, error) {
	return r.recomp.Lookup(symbol)
}

// workerLimit bounds concurrent materialization; four is a conservative
// default sized for a developer's inner loop rather than a CI fleet.
func workerLimit() int {
	return 4
}
