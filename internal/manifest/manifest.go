// Package manifest loads, validates, and resolves the two manifest
// documents a build or JIT session starts from: an artifact manifest
// (hlang_artifact.json, one buildable unit) and a repository manifest
// (the directory of artifacts a workspace exposes to its dependents).
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ArtifactType selects which of Executable/Library is populated on an
// ArtifactManifest.
type ArtifactType string

const (
	Executable ArtifactType = "executable"
	Library    ArtifactType = "library"
)

// BuildTarget is the executable-or-library payload of an artifact
// manifest: what source feeds the build and how it is entered.
type BuildTarget struct {
	Source          string            `json:"source"`
	EntryPoint      string            `json:"entry_point,omitempty"`
	Include         []string          `json:"include"`
	CHeaders        []string          `json:"c_headers,omitempty"`
	ExternalLibrary map[string]string `json:"external_library,omitempty"`
}

// Dependency names another artifact this one links against.
type Dependency struct {
	Name string `json:"name"`
}

// ArtifactManifest is the decoded form of hlang_artifact.json.
type ArtifactManifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Type         ArtifactType `json:"type"`
	Executable   *BuildTarget `json:"executable,omitempty"`
	Library      *BuildTarget `json:"library,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// LoadArtifact reads and validates an artifact manifest from path.
func LoadArtifact(path string) (*ArtifactManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact manifest: %w", err)
	}

	var m ArtifactManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse artifact manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("artifact manifest validation failed: %w", err)
	}
	return &m, nil
}

// Save writes the manifest back out with deterministic, sorted-key JSON.
func (m *ArtifactManifest) Save(path string) error {
	data, err := marshalDeterministic(m)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact manifest: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	return os.WriteFile(path, append(buf.Bytes(), '\n'), 0644)
}

// Validate checks the manifest names exactly one build target matching
// its declared Type, and that the target carries at least one include
// glob to select source files from.
func (m *ArtifactManifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("missing name")
	}
	switch m.Type {
	case Executable:
		if m.Executable == nil {
			return fmt.Errorf("type %q declared but no executable target present", m.Type)
		}
		if m.Library != nil {
			return fmt.Errorf("type %q declared but a library target is also present", m.Type)
		}
	case Library:
		if m.Library == nil {
			return fmt.Errorf("type %q declared but no library target present", m.Type)
		}
		if m.Executable != nil {
			return fmt.Errorf("type %q declared but an executable target is also present", m.Type)
		}
	default:
		return fmt.Errorf("invalid type: %q", m.Type)
	}

	target, err := m.Target()
	if err != nil {
		return err
	}
	if len(target.Include) == 0 {
		return fmt.Errorf("build target has no include globs")
	}
	if m.Type == Executable && target.EntryPoint == "" {
		return fmt.Errorf("executable target missing entry_point")
	}
	return nil
}

// Target returns whichever of Executable/Library the manifest's Type
// selects.
func (m *ArtifactManifest) Target() (*BuildTarget, error) {
	switch m.Type {
	case Executable:
		return m.Executable, nil
	case Library:
		return m.Library, nil
	default:
		return nil, fmt.Errorf("invalid type: %q", m.Type)
	}
}

// ResolveSources expands the build target's include globs, relative to
// baseDir, into a sorted, deduplicated list of source file paths.
func (m *ArtifactManifest) ResolveSources(baseDir string) ([]string, error) {
	target, err := m.Target()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var files []string
	for _, glob := range target.Include {
		matches, err := filepath.Glob(filepath.Join(baseDir, glob))
		if err != nil {
			return nil, fmt.Errorf("invalid include glob %q: %w", glob, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// RepositoryArtifact maps one artifact name to the directory holding its
// hlang_artifact.json.
type RepositoryArtifact struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// RepositoryManifest maps artifact names to directories, letting an
// artifact's dependencies list be resolved without every artifact
// embedding the others' full paths.
type RepositoryManifest struct {
	Name      string                `json:"name"`
	Artifacts []RepositoryArtifact  `json:"artifacts"`
	locations map[string]string
}

// LoadRepository reads and indexes a repository manifest from path.
func LoadRepository(path string) (*RepositoryManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository manifest: %w", err)
	}
	var r RepositoryManifest
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse repository manifest: %w", err)
	}
	r.index()
	return &r, nil
}

func (r *RepositoryManifest) index() {
	r.locations = make(map[string]string, len(r.Artifacts))
	for _, a := range r.Artifacts {
		r.locations[a.Name] = a.Location
	}
}

// Location returns the directory an artifact name resolves to.
func (r *RepositoryManifest) Location(artifactName string) (string, bool) {
	if r.locations == nil {
		r.index()
	}
	loc, ok := r.locations[artifactName]
	return loc, ok
}

// ResolveDependencies walks an artifact manifest's dependency list
// transitively through the repository manifest, loading each dependency's
// own artifact manifest in turn and returning the full closure in
// discovery order with the root artifact excluded. A dependency name the
// repository manifest doesn't know about is an error: the build cannot
// proceed without knowing where to find its object code.
func (r *RepositoryManifest) ResolveDependencies(root *ArtifactManifest) ([]*ArtifactManifest, error) {
	visited := map[string]bool{root.Name: true}
	var closure []*ArtifactManifest

	var walk func(deps []Dependency) error
	walk = func(deps []Dependency) error {
		for _, dep := range deps {
			if visited[dep.Name] {
				continue
			}
			visited[dep.Name] = true

			location, ok := r.Location(dep.Name)
			if !ok {
				return fmt.Errorf("dependency %q not found in repository manifest %q", dep.Name, r.Name)
			}

			depManifest, err := LoadArtifact(filepath.Join(location, "hlang_artifact.json"))
			if err != nil {
				return fmt.Errorf("loading dependency %q: %w", dep.Name, err)
			}
			closure = append(closure, depManifest)
			if err := walk(depManifest.Dependencies); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root.Dependencies); err != nil {
		return nil, err
	}
	return closure, nil
}

// marshalDeterministic marshals v with map keys sorted, which
// encoding/json already guarantees for map[string]*; struct fields are
// deterministic by declaration order, so this is only here to document
// the property and give Save one place to change if that ever isn't
// enough.
func marshalDeterministic(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
