// Package watcher wraps fsnotify behind the narrow (path, kind) callback
// interface the JIT Runner consumes, deriving its watched root set from an
// artifact's include globs rather than watching a whole tree.
package watcher

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// EventKind mirrors the four filesystem transitions the Runner cares
// about. fsnotify's Chmod is deliberately dropped: permission-only
// changes never invalidate a compiled module.
type EventKind int

const (
	Create EventKind = iota
	Modify
	Delete
	Rename
)

func (k EventKind) String() string {
	switch k {
	case Create:
		return "create"
	case Modify:
		return "modify"
	case Delete:
		return "delete"
	case Rename:
		return "rename"
	default:
		return "unknown"
	}
}

// Callback receives one settled filesystem event.
type Callback func(path string, kind EventKind)

// Watcher subscribes to a set of root directories and dispatches each
// fsnotify event to Callback after translating it to an EventKind.
type Watcher struct {
	fs       *fsnotify.Watcher
	onEvent  Callback
	onError  func(error)
	roots    map[string]bool
}

// New opens the underlying OS file-watch handle. onError may be nil, in
// which case watcher errors are silently dropped.
func New(onEvent Callback, onError func(error)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fs: fs, onEvent: onEvent, onError: onError, roots: map[string]bool{}}, nil
}

// Close releases the OS file-watch handle.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// AddRoot subscribes to a directory (non-recursively; callers add every
// directory in the derived root set, see RootsForGlobs).
func (w *Watcher) AddRoot(dir string) error {
	if w.roots[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	w.roots[dir] = true
	return nil
}

// Run blocks, translating fsnotify events into Callback invocations until
// the stop channel is closed or the underlying event channel closes.
func (w *Watcher) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			kind, watched := translate(event.Op)
			if !watched {
				continue
			}
			w.onEvent(event.Name, kind)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func translate(op fsnotify.Op) (EventKind, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return Create, true
	case op&fsnotify.Remove != 0:
		return Delete, true
	case op&fsnotify.Rename != 0:
		return Rename, true
	case op&fsnotify.Write != 0:
		return Modify, true
	default:
		return 0, false
	}
}

// RootsForGlobs derives the minimal set of root directories covering a
// set of include globs: each glob's directory portion (the prefix before
// its first wildcard component), deduplicated and with nested roots
// collapsed into their ancestor.
func RootsForGlobs(globs []string) []string {
	var dirs []string
	for _, g := range globs {
		dirs = append(dirs, globDir(g))
	}
	return collapseNested(dirs)
}

func globDir(glob string) string {
	dir := filepath.Dir(glob)
	for dir != "." && dir != string(filepath.Separator) {
		if containsWildcard(filepath.Base(dir)) {
			dir = filepath.Dir(dir)
			continue
		}
		break
	}
	return dir
}

func containsWildcard(component string) bool {
	for _, r := range component {
		if r == '*' || r == '?' || r == '[' {
			return true
		}
	}
	return false
}

func collapseNested(dirs []string) []string {
	seen := map[string]bool{}
	var unique []string
	for _, d := range dirs {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	var roots []string
	for _, candidate := range unique {
		nested := false
		for _, other := range unique {
			if other == candidate {
				continue
			}
			if isAncestor(other, candidate) {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, candidate)
		}
	}
	return roots
}

func isAncestor(ancestor, descendant string) bool {
	rel, err := filepath.Rel(ancestor, descendant)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath_hasDotDotPrefix(rel)
}

func filepath_hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[:2] == ".."
}

// Stat reports whether path currently exists on disk.
func Stat(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
