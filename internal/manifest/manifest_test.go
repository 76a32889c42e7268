package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadArtifactValidatesExecutableTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hlang_artifact.json")
	writeFile(t, path, `{
		"name": "app",
		"version": "1.0.0",
		"type": "executable",
		"executable": { "source": "src", "entry_point": "main", "include": ["src/**/*.hl"] }
	}`)

	m, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, "main", m.Executable.EntryPoint)
}

func TestValidateRejectsMismatchedTarget(t *testing.T) {
	m := &ArtifactManifest{Name: "lib", Type: Library, Executable: &BuildTarget{Include: []string{"*.hl"}}}
	assert.Error(t, m.Validate())
}

func TestValidateRejectsMissingEntryPoint(t *testing.T) {
	m := &ArtifactManifest{Name: "app", Type: Executable, Executable: &BuildTarget{Include: []string{"*.hl"}}}
	assert.Error(t, m.Validate())
}

func TestResolveSourcesExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.hl"), "")
	writeFile(t, filepath.Join(dir, "src", "b.hl"), "")

	m := &ArtifactManifest{
		Name: "app", Type: Executable,
		Executable: &BuildTarget{EntryPoint: "main", Include: []string{"src/*.hl"}},
	}
	files, err := m.ResolveSources(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestResolveDependenciesWalksTransitively(t *testing.T) {
	root := t.TempDir()

	baseDir := filepath.Join(root, "base")
	writeFile(t, filepath.Join(baseDir, "hlang_artifact.json"), `{
		"name": "base", "version": "1.0.0", "type": "library",
		"library": { "source": "src", "include": ["*.hl"] }
	}`)

	geomDir := filepath.Join(root, "geometry")
	writeFile(t, filepath.Join(geomDir, "hlang_artifact.json"), `{
		"name": "geometry", "version": "1.0.0", "type": "library",
		"library": { "source": "src", "include": ["*.hl"] },
		"dependencies": [ { "name": "base" } ]
	}`)

	repoPath := filepath.Join(root, "repository.json")
	writeFile(t, repoPath, `{
		"name": "workspace",
		"artifacts": [
			{ "name": "base", "location": "`+baseDir+`" },
			{ "name": "geometry", "location": "`+geomDir+`" }
		]
	}`)

	repo, err := LoadRepository(repoPath)
	require.NoError(t, err)

	app := &ArtifactManifest{
		Name: "app", Type: Executable,
		Executable:   &BuildTarget{EntryPoint: "main", Include: []string{"*.hl"}},
		Dependencies: []Dependency{{Name: "geometry"}},
	}

	closure, err := repo.ResolveDependencies(app)
	require.NoError(t, err)
	require.Len(t, closure, 2)
	assert.Equal(t, "geometry", closure[0].Name)
	assert.Equal(t, "base", closure[1].Name)
}

func TestResolveDependenciesUnknownArtifactFails(t *testing.T) {
	repo := &RepositoryManifest{Name: "empty"}
	app := &ArtifactManifest{
		Name: "app", Type: Executable,
		Executable:   &BuildTarget{EntryPoint: "main", Include: []string{"*.hl"}},
		Dependencies: []Dependency{{Name: "missing"}},
	}
	_, err := repo.ResolveDependencies(app)
	assert.Error(t, err)
}
