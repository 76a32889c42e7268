package backend

import (
	"strconv"
	"strings"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// Mangle returns decl's unique name if the declaration set one
// explicitly (the author wrote `as "raw_symbol"` or similar), otherwise
// the module-qualified, sanitized default: "hlang.<module>.<name>".
func (t *TextTarget) Mangle(moduleName string, decl ir.Declaration) string {
	if unique, ok := decl.DeclUniqueName(); ok {
		return unique
	}
	return "hlang." + sanitizeName(moduleName) + "." + sanitizeName(decl.DeclName())
}

// sanitizeName replaces characters LLVM identifier syntax doesn't allow
// unescaped with underscores. hlang identifiers are a stricter subset of
// what this guards against, but module names arriving from a C-header
// import can carry dots or other punctuation.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// bodySymbol returns the per-generation body symbol name for a
// function, following the stub/body split the JIT hot-reload layer
// depends on: the stable public symbol stays "hlang.M.f" and indirects
// through a stub to "hlang.M.f.body.<generation>".
func bodySymbol(publicSymbol string, generation uint64) string {
	return publicSymbol + ".body." + strconv.FormatUint(generation, 10)
}
