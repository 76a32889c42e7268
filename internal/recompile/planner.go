// Package recompile implements the planning half of the recompilation
// engine: given a module whose export interface just changed, decide
// which of its reverse dependents actually need to be recompiled.
//
// The planner is deliberately non-recursive and single-pass: it only
// ever looks one hop out from the changed module. A dependent that gets
// recompiled produces its own new export hash and is expected to be fed
// back through Plan again for its own reverse dependents — Engine.Apply
// (engine.go) drives that fixed-point loop; Plan itself never recurses.
package recompile

import (
	"github.com/hlang-toolchain/hlang/internal/depgraph"
	"github.com/hlang-toolchain/hlang/internal/hashing"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

// Store is the narrow view of the declaration database and hash history
// the planner needs: resolving a reverse dependency's current Module and
// its previously recorded export hashes.
type Store interface {
	Module(name string) *ir.Module
	PreviousHashes(moduleName string) (hashing.SymbolHashes, bool)
}

// Plan computes which of changedModule's reverse dependents must be
// recompiled, given the module's freshly computed new export hashes.
// Grounded directly on find_modules_to_recompile: for each reverse
// dependent, find the alias import pointing back at changedModule, then
// check whether any symbol that import actually Usages changed hash.
// A dependent with no alias import back to changedModule (meaning it
// depends on it only transitively, or the dependency edge predates an
// alias rename) is conservatively skipped — it has no recorded usage
// set to check, so there is nothing to compare against.
func Plan(store Store, graph *depgraph.Graph, changedModuleName string, newHashes hashing.SymbolHashes) []string {
	previous, ok := store.PreviousHashes(changedModuleName)
	if !ok {
		// No prior hash recorded: this is the module's first load, so by
		// definition nothing downstream has been compiled against it yet.
		return nil
	}

	var toRecompile []string
	for _, dependentName := range graph.ReverseDependencies(changedModuleName) {
		dependent := store.Module(dependentName)
		if dependent == nil {
			continue
		}

		aliasImport, found := findAliasImport(dependent, changedModuleName)
		if !found {
			continue
		}

		if usagesChanged(previous, newHashes, aliasImport.Usages) {
			toRecompile = append(toRecompile, dependentName)
		}
	}
	return toRecompile
}

func findAliasImport(m *ir.Module, moduleName string) (ir.AliasImport, bool) {
	for _, a := range m.AliasImports {
		if a.ModuleName == moduleName {
			return a, true
		}
	}
	return ir.AliasImport{}, false
}

func usagesChanged(previous, current hashing.SymbolHashes, usages []string) bool {
	for _, usage := range usages {
		previousHash, previousOK := hashing.GetHash(previous, usage)
		currentHash, currentOK := hashing.GetHash(current, usage)
		if previousOK != currentOK || previousHash != currentHash {
			return true
		}
	}
	return false
}
