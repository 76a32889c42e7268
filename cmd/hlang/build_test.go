package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
	"github.com/hlang-toolchain/hlang/internal/serialize"
)

func writeArtifactFixture(t *testing.T) (dir, manifestPath string) {
	t.Helper()
	dir = t.TempDir()

	base := &ir.Module{Name: "Base", SourceFilePath: "src/base.hl", LanguageVersion: "1.0"}
	app := &ir.Module{Name: "App", SourceFilePath: "src/app.hl", LanguageVersion: "1.0", Dependencies: []string{"src/base"}}

	baseData, err := serialize.EncodeModuleJSON(base)
	if err != nil {
		t.Fatalf("encode base: %v", err)
	}
	appData, err := serialize.EncodeModuleJSON(app)
	if err != nil {
		t.Fatalf("encode app: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "base.hl"), baseData, 0644); err != nil {
		t.Fatalf("write base: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "app.hl"), appData, 0644); err != nil {
		t.Fatalf("write app: %v", err)
	}

	manifestPath = filepath.Join(dir, "hlang_artifact.json")
	manifestBody := `{
		"name": "demo",
		"version": "0.1.0",
		"type": "executable",
		"executable": {
			"source": "src",
			"entry_point": "demo_main",
			"include": ["src/app.hl"]
		}
	}`
	if err := os.WriteFile(manifestPath, []byte(manifestBody), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir, manifestPath
}

func TestLoadPipelineLoadsTransitiveClosure(t *testing.T) {
	_, manifestPath := writeArtifactFixture(t)

	p, err := loadPipeline(manifestPath)
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if len(p.modules) != 2 {
		t.Fatalf("expected 2 modules loaded, got %d: %v", len(p.modules), p.modules)
	}
}

func TestCompileAllWritesOneFilePerModule(t *testing.T) {
	dir, manifestPath := writeArtifactFixture(t)

	p, err := loadPipeline(manifestPath)
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}

	outDir := filepath.Join(dir, "build")
	outputs, err := p.compileAll(outDir)
	if err != nil {
		t.Fatalf("compileAll: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 compiled outputs, got %d: %v", len(outputs), outputs)
	}
	for _, out := range outputs {
		if _, err := os.Stat(out); err != nil {
			t.Fatalf("expected %s to exist: %v", out, err)
		}
	}
}

func TestBuildExecutableCommandDryRun(t *testing.T) {
	dir, manifestPath := writeArtifactFixture(t)
	_ = dir

	cmd := newBuildExecutableCommand(nil)
	cmd.SetArgs([]string{manifestPath, "--out", filepath.Join(dir, "build"), "--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
}
