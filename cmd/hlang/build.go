package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hlang-toolchain/hlang/internal/backend"
	"github.com/hlang-toolchain/hlang/internal/depgraph"
	"github.com/hlang-toolchain/hlang/internal/ir"
	"github.com/hlang-toolchain/hlang/internal/irsource"
	"github.com/hlang-toolchain/hlang/internal/loader"
	"github.com/hlang-toolchain/hlang/internal/manifest"
	"github.com/hlang-toolchain/hlang/internal/recompile"
)

// pipeline bundles the collaborators a build command drives in sequence:
// load every module an artifact's include globs reach, register them
// with the recompilation engine so later JIT edits have hash history to
// diff against, then hand the whole set to a backend.Target.
type pipeline struct {
	artifact *manifest.ArtifactManifest
	baseDir  string
	modules  map[string]*ir.Module
	engine   *recompile.Engine
	target   backend.Target
	loader   *loader.Loader
}

func loadPipeline(manifestPath string) (*pipeline, error) {
	art, err := manifest.LoadArtifact(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading artifact manifest: %w", err)
	}

	baseDir := filepath.Dir(manifestPath)
	sources, err := art.ResolveSources(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("artifact %q matched no source files", art.Name)
	}

	ld := loader.New(baseDir, irsource.NewParser())
	modules, err := ld.LoadAll(sources)
	if err != nil {
		return nil, fmt.Errorf("loading modules: %w", err)
	}

	db := ir.NewDatabase()
	graph := depgraph.New()
	engine := recompile.NewEngine(db, graph, ld)
	for _, m := range modules {
		engine.Load(m)
	}

	return &pipeline{
		artifact: art,
		baseDir:  baseDir,
		modules:  modules,
		engine:   engine,
		target:   backend.NewTextTarget(),
		loader:   ld,
	}, nil
}

// compileAll lowers every loaded module through the target backend and
// writes its textual IR to <outDir>/<module>.ll, returning the written
// file paths in a stable, sorted-by-name order.
func (p *pipeline) compileAll(outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	names := make([]string, 0, len(p.modules))
	for name := range p.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	var outputs []string
	for _, name := range names {
		m := p.modules[name]
		compiled, err := p.target.CompileModule(m)
		if err != nil {
			return nil, fmt.Errorf("compiling module %q: %w", m.Name, err)
		}
		outPath := filepath.Join(outDir, m.Name+".ll")
		if err := os.WriteFile(outPath, []byte(compiled.ModuleText), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		outputs = append(outputs, outPath)
	}
	return outputs, nil
}
