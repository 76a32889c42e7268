// Package depgraph tracks, for every module, which other modules
// import it — the reverse of the forward dependency list each
// ir.Module already carries. The recompilation planner walks this graph
// outward from a changed module rather than rescanning every module in
// the program on each edit.
package depgraph

import "sync"

// Graph is a module-name -> importing-module-names multimap, safe for
// concurrent use. Grounded on the reverse-dependency traversal in
// ailang's internal/link/topo.go, generalized from a one-shot build to
// one that supports incremental add/replace/remove as modules are
// edited and recompiled.
type Graph struct {
	mu sync.RWMutex
	// forward[m] is the set of module names m directly imports.
	forward map[string]map[string]bool
	// reverse[m] is the set of module names that directly import m.
	reverse map[string]map[string]bool
}

// New returns an empty dependency graph.
func New() *Graph {
	return &Graph{
		forward: make(map[string]map[string]bool),
		reverse: make(map[string]map[string]bool),
	}
}

// SetDependencies replaces moduleName's forward dependency set with
// dependencies, updating the reverse index for both the removed and the
// added edges. Call this once per (re)load of a module so stale edges
// from a previous version never linger.
func (g *Graph) SetDependencies(moduleName string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.forward[moduleName]; ok {
		for dep := range old {
			if rev, ok := g.reverse[dep]; ok {
				delete(rev, moduleName)
			}
		}
	}

	next := make(map[string]bool, len(dependencies))
	for _, dep := range dependencies {
		next[dep] = true
		if g.reverse[dep] == nil {
			g.reverse[dep] = make(map[string]bool)
		}
		g.reverse[dep][moduleName] = true
	}
	g.forward[moduleName] = next
}

// RemoveModule deletes moduleName from the graph entirely: its forward
// edges and any reverse edges pointing at it.
func (g *Graph) RemoveModule(moduleName string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if old, ok := g.forward[moduleName]; ok {
		for dep := range old {
			if rev, ok := g.reverse[dep]; ok {
				delete(rev, moduleName)
			}
		}
	}
	delete(g.forward, moduleName)
	delete(g.reverse, moduleName)
	for _, importers := range g.reverse {
		delete(importers, moduleName)
	}
}

// ReverseDependencies returns every module that directly imports
// moduleName, in no particular order.
func (g *Graph) ReverseDependencies(moduleName string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	importers := g.reverse[moduleName]
	out := make([]string, 0, len(importers))
	for name := range importers {
		out = append(out, name)
	}
	return out
}

// Dependencies returns moduleName's direct forward dependencies.
func (g *Graph) Dependencies(moduleName string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := g.forward[moduleName]
	out := make([]string, 0, len(deps))
	for name := range deps {
		out = append(out, name)
	}
	return out
}
