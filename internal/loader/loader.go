// Package loader resolves module names and artifact include globs to
// source files, parses them through an out-of-scope surface-parser
// collaborator, and caches the resulting ir.Module values by canonical
// module ID. It satisfies both internal/recompile.Compiler (recompile by
// module name) and internal/jit.SourceCompiler (recompile by edited file
// path), so the JIT Runner can drive either from a single Loader.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// SourceParser turns one source file into a fully elaborated ir.Module
// (parsing, name resolution, and type checking are all out of scope per
// spec.md §1's non-goals; this is the narrow seam a real front end plugs
// into).
type SourceParser interface {
	Parse(sourcePath string) (*ir.Module, error)
}

// Loader loads and caches modules by canonical ID, and knows how to
// resolve a module name back to the source file that defines it so a
// recompile.Compiler.Compile(name) call can find something to reparse.
type Loader struct {
	basePath string
	parser   SourceParser

	mu          sync.RWMutex
	cache       map[string]*ir.Module
	pathForName map[string]string
}

// New constructs a Loader rooted at basePath, the directory every module
// path not already ending in ".hl" is resolved relative to.
func New(basePath string, parser SourceParser) *Loader {
	return &Loader{
		basePath:    basePath,
		parser:      parser,
		cache:       make(map[string]*ir.Module),
		pathForName: make(map[string]string),
	}
}

// Load parses and caches the module at path, or returns the cached
// result if path has already been loaded and not since invalidated.
func (l *Loader) Load(path string) (*ir.Module, error) {
	canonicalID := CanonicalModuleID(path)

	l.mu.RLock()
	if m, ok := l.cache[canonicalID]; ok {
		l.mu.RUnlock()
		return m, nil
	}
	l.mu.RUnlock()

	fullPath := l.resolvePath(path)
	m, err := l.parser.Parse(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load module %s: %w", path, err)
	}

	l.mu.Lock()
	l.cache[canonicalID] = m
	l.pathForName[m.Name] = fullPath
	l.mu.Unlock()

	return m, nil
}

// Invalidate drops path's cached module so the next Load reparses it.
// Called before reparsing a file a watcher reported as changed.
func (l *Loader) Invalidate(path string) {
	canonicalID := CanonicalModuleID(path)
	l.mu.Lock()
	delete(l.cache, canonicalID)
	l.mu.Unlock()
}

// CompileFile implements internal/jit.SourceCompiler: an edited file is
// always reparsed, never served from cache.
func (l *Loader) CompileFile(path string) (*ir.Module, error) {
	l.Invalidate(path)
	return l.Load(path)
}

// Compile implements internal/recompile.Compiler: a module name is
// resolved back to the source path it was first loaded from, then
// reparsed. The name must have been loaded at least once already (by
// LoadAll or a prior Load), since the loader has no standalone name ->
// path index beyond what it has observed.
func (l *Loader) Compile(moduleName string) (*ir.Module, error) {
	l.mu.RLock()
	path, ok := l.pathForName[moduleName]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loader: no known source path for module %q", moduleName)
	}
	l.Invalidate(path)
	return l.Load(path)
}

// resolvePath resolves a module path to a file path on disk. A path
// that already names a ".hl" file (as the include-glob matches a
// manifest resolves sources to are) is assumed fully resolved already;
// a bare dependency name (as Module.Dependencies entries are) is always
// joined against basePath, "./"/"../" prefix or not.
func (l *Loader) resolvePath(path string) string {
	if strings.HasSuffix(path, ".hl") {
		return path
	}
	path = strings.TrimPrefix(path, "./")
	return filepath.Join(l.basePath, path) + ".hl"
}

// CanonicalModuleID returns the canonical, repo-relative, extension-free,
// forward-slashed form of a module path, so "./foo.hl", "foo.hl", and
// "foo" all refer to the same cache entry.
func CanonicalModuleID(p string) string {
	p = filepath.Clean(p)
	p = strings.TrimSuffix(p, ".hl")
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}

// LoadAll loads every root and its transitive Dependencies closure,
// returning every module reached keyed by its canonical module ID. Roots
// already loaded are not reparsed.
func (l *Loader) LoadAll(roots []string) (map[string]*ir.Module, error) {
	modules := make(map[string]*ir.Module)
	visited := make(map[string]bool)

	var loadDeps func(path string) error
	loadDeps = func(path string) error {
		canonicalID := CanonicalModuleID(path)
		if visited[canonicalID] {
			return nil
		}
		visited[canonicalID] = true

		m, err := l.Load(path)
		if err != nil {
			return err
		}
		modules[canonicalID] = m

		for _, dep := range m.Dependencies {
			if err := loadDeps(dep); err != nil {
				return fmt.Errorf("loading dependency %q of %q: %w", dep, path, err)
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := loadDeps(root); err != nil {
			return nil, err
		}
	}
	return modules, nil
}
