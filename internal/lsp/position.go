// Package lsp defines the boundary between the declaration database and
// a language-server front end. The wire protocol (JSON-RPC framing,
// textDocument/* method routing) is an external collaborator's concern;
// this package owns only the conversions and lookups a server needs to
// answer completion, go-to-definition, inlay-hint, and diagnostic
// requests against an *ir.Database.
package lsp

import "github.com/hlang-toolchain/hlang/internal/ir"

// Position0 is a 0-based line/column pair, the convention LSP clients
// send and expect on the wire.
type Position0 struct {
	Line   uint32
	Column uint32
}

// ToInternal converts a wire position to the 1-based ir.Position the
// core uses internally.
func (p Position0) ToInternal() ir.Position {
	return ir.Position{Line: p.Line + 1, Column: p.Column + 1}
}

// FromInternal converts an internal 1-based ir.Position to a 0-based
// wire position. Position (0, 0) internally has no 0-based equivalent
// and is not expected to reach this conversion.
func FromInternal(p ir.Position) Position0 {
	line, column := p.Line, p.Column
	if line > 0 {
		line--
	}
	if column > 0 {
		column--
	}
	return Position0{Line: line, Column: column}
}

// Range0 is a 0-based [Start, End) range in a single file, the wire
// form of ir.SourceRange.
type Range0 struct {
	FilePath string
	Start    Position0
	End      Position0
}

// RangeFromInternal converts an ir.SourceRange to its wire form.
func RangeFromInternal(r ir.SourceRange) Range0 {
	return Range0{FilePath: r.FilePath, Start: FromInternal(r.Start), End: FromInternal(r.End)}
}

// Contains reports whether pos falls within the half-open range
// [Start, End), comparing lines first and columns only within the
// start/end line.
func (r Range0) Contains(pos Position0) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Column < r.Start.Column {
		return false
	}
	if pos.Line == r.End.Line && pos.Column >= r.End.Column {
		return false
	}
	return true
}
