package irsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
	"github.com/hlang-toolchain/hlang/internal/serialize"
)

func writeModule(t *testing.T, dir, name string, binary bool) string {
	t.Helper()
	m := &ir.Module{Name: "Sample", SourceFilePath: "sample.hl", LanguageVersion: "1.0"}

	var data []byte
	var err error
	if binary {
		data, err = serialize.EncodeModuleBinary(m)
	} else {
		data, err = serialize.EncodeModuleJSON(m)
	}
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestParseDecodesJSONContent(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "sample.hl", false)

	m, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Name != "Sample" {
		t.Fatalf("expected module Sample, got %q", m.Name)
	}
}

func TestParseDecodesBinaryContent(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "sample.hl", true)

	m, err := NewParser().Parse(path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Name != "Sample" {
		t.Fatalf("expected module Sample, got %q", m.Name)
	}
}
