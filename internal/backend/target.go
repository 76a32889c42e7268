// Package backend lowers a compiled ir.Module into a concrete code
// representation. Target is the narrow interface a backend implements;
// TextTarget is the one concrete backend this toolchain ships, a
// pure-Go emitter that writes LLVM's textual IR directly rather than
// binding to libLLVM.
package backend

import "github.com/hlang-toolchain/hlang/internal/ir"

// CompiledFunction is one function's emitted code plus the mangled
// symbol name the linker/JIT will look it up by.
type CompiledFunction struct {
	Symbol string
	IRText string
}

// CompiledModule is everything a Target produced for one ir.Module: the
// whole module's textual IR (used for ahead-of-time builds) plus the
// per-function breakdown the JIT's recompile layer needs to splice a
// single function's new body in without re-emitting the rest.
type CompiledModule struct {
	ModuleText string
	Functions  []CompiledFunction
}

// Target is the interface the recompilation engine and the JIT
// materialization pipeline compile against; any future real LLVM
// binding would implement the same interface and drop in as a
// replacement for TextTarget without touching their callers.
type Target interface {
	// CompileModule lowers every declaration and definition in m to the
	// target's representation.
	CompileModule(m *ir.Module) (CompiledModule, error)

	// CompileFunction lowers a single FunctionDeclaration plus its body,
	// used by the JIT's recompile layer to produce just the replacement
	// body for one hot-swapped symbol.
	CompileFunction(m *ir.Module, decl ir.FunctionDeclaration, body ir.Statement) (CompiledFunction, error)

	// Mangle produces the backend's stable link-time symbol name for a
	// declaration, honoring its unique name override if set.
	Mangle(moduleName string, decl ir.Declaration) string
}
