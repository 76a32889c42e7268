package backend

import (
	"strconv"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// debugScope is one entry in a lexical-block debug scope stack: either
// the file-level compile-unit scope or a nested lexical block opened at
// a specific source position. There is no DIBuilder to hand off to
// here, so each scope just carries enough to emit an LLVM
// "!dbg !<id>"-style textual annotation and a human-readable comment;
// it is threaded explicitly through each generator call rather than
// held globally, so two function bodies can be compiled concurrently
// without sharing scope state.
type debugScope struct {
	id       int
	position ir.Position
	isBlock  bool
}

// debugScopeStack is a LIFO stack of open lexical scopes for one
// function body being lowered, grounded on push_debug_scope /
// pop_debug_scope / get_debug_scope.
type debugScopeStack struct {
	scopes  []debugScope
	nextID  int
	fileTop debugScope
}

func newDebugScopeStack(filePath string) *debugScopeStack {
	return &debugScopeStack{fileTop: debugScope{id: 0}}
}

// current returns the innermost open scope, or the file-level scope if
// none is open.
func (s *debugScopeStack) current() debugScope {
	if len(s.scopes) == 0 {
		return s.fileTop
	}
	return s.scopes[len(s.scopes)-1]
}

// pushLexicalBlock opens a new nested scope at position, parented to
// whatever scope is currently innermost.
func (s *debugScopeStack) pushLexicalBlock(position ir.Position) debugScope {
	s.nextID++
	scope := debugScope{id: s.nextID, position: position, isBlock: true}
	s.scopes = append(s.scopes, scope)
	return scope
}

// pop closes the innermost scope. Calling pop with no open scope is a
// programmer error in the caller (every pushLexicalBlock must be
// matched); it is a silent no-op here rather than a panic because a
// malformed nesting should surface as a wrong debug location, not a
// crash mid-compile.
func (s *debugScopeStack) pop() {
	if len(s.scopes) == 0 {
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// locationComment renders the current scope's position as an LLVM
// comment trailer, e.g. " ; main.hl:12:3", or "" if there is no range.
func locationComment(rng ir.SourceRange, hasRange bool) string {
	if !hasRange {
		return ""
	}
	return " ; " + rng.FilePath + ":" + strconv.FormatUint(uint64(rng.Start.Line), 10) + ":" + strconv.FormatUint(uint64(rng.Start.Column), 10)
}
