// Package cheader declares the integration point the Declaration Database
// exposes for importing external C declarations, without implementing a
// C parser itself. Parsing a real C header (macro expansion, the
// preprocessor, target-specific type layout) needs a binding to a C
// front end such as libclang, grounded on
// original_source/Source/Interoperability/C_header_importer.cpp; no such
// binding exists anywhere in this toolchain's dependency surface, so the
// importer itself remains an external collaborator.
package cheader

import "github.com/hlang-toolchain/hlang/internal/ir"

// Importer turns one C header file into the declarations it exposes, to
// be merged into a module's ExportDeclarations the same way any other
// declaration source is. A concrete Importer would wrap a C front end;
// none ships here.
type Importer interface {
	ImportDeclarations(path string) ([]ir.Declaration, error)
}
