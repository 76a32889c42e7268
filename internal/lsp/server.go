package lsp

import (
	"sort"
	"strings"

	"github.com/hlang-toolchain/hlang/internal/errors"
	"github.com/hlang-toolchain/hlang/internal/ir"
)

// CompletionItem is one candidate offered for a partial identifier.
type CompletionItem struct {
	Label      string
	Kind       string // "function", "struct", "enum", "union", "alias", "global"
	ModuleName string
	Detail     string
}

// DefinitionResult points at the declaration a symbol resolves to.
type DefinitionResult struct {
	ModuleName string
	Name       string
	Range      Range0
	Found      bool
}

// InlayHint annotates a source position with an inferred label, e.g. a
// parameter name at a call site or an inferred variable type.
type InlayHint struct {
	Position Position0
	Label    string
}

// Diagnostic is a single problem reported against a file range.
type Diagnostic struct {
	Range    Range0
	Severity string // "error" or "warning"
	Code     string
	Message  string
}

// Server is the narrow surface a language-server front end drives. It
// never touches JSON-RPC framing or document synchronization; a wire
// adapter owns that and calls through to these methods with the module
// name and position already resolved.
type Server interface {
	Completion(moduleName, prefix string) []CompletionItem
	Definition(moduleName, symbol string) DefinitionResult
	InlayHints(moduleName string) []InlayHint
	Diagnostics(moduleName string, compileErr error) []Diagnostic
}

// DatabaseServer answers Server requests against a live *ir.Database.
type DatabaseServer struct {
	db *ir.Database
}

// NewDatabaseServer returns a Server backed by db. db is read on every
// call, so updates from the recompilation engine are visible to the
// next request without re-registering the server.
func NewDatabaseServer(db *ir.Database) *DatabaseServer {
	return &DatabaseServer{db: db}
}

func declKind(d ir.Declaration) string {
	switch d.(type) {
	case ir.FunctionDeclaration:
		return "function"
	case ir.StructDeclaration:
		return "struct"
	case ir.EnumDeclaration:
		return "enum"
	case ir.UnionDeclaration:
		return "union"
	case ir.AliasTypeDeclaration:
		return "alias"
	case ir.GlobalVariableDeclaration:
		return "global"
	default:
		return "unknown"
	}
}

// Completion returns every declaration in moduleName (and any module it
// imports via an alias) whose name starts with prefix, sorted by label.
func (s *DatabaseServer) Completion(moduleName, prefix string) []CompletionItem {
	m := s.db.Module(moduleName)
	if m == nil {
		return nil
	}

	var items []CompletionItem
	for _, d := range m.AllDeclarations() {
		if strings.HasPrefix(d.DeclName(), prefix) {
			items = append(items, CompletionItem{Label: d.DeclName(), Kind: declKind(d), ModuleName: moduleName})
		}
	}
	for _, imp := range m.AliasImports {
		imported := s.db.Module(imp.ModuleName)
		if imported == nil {
			continue
		}
		for _, d := range imported.ExportDeclarations {
			if d.DeclLinkage() != ir.LinkageExternal {
				continue
			}
			label := imp.Alias + "." + d.DeclName()
			if strings.HasPrefix(label, prefix) {
				items = append(items, CompletionItem{Label: label, Kind: declKind(d), ModuleName: imp.ModuleName, Detail: "via " + imp.Alias})
			}
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// Definition resolves symbol within moduleName to the module and
// declaration it names. ir.Database.FindDeclaration already follows one
// hop of alias-import qualification (`alias.Name`); this method additionally
// reports which module the symbol actually resolved in, which
// FindDeclaration's (Declaration, bool) result does not carry.
func (s *DatabaseServer) Definition(moduleName, symbol string) DefinitionResult {
	m := s.db.Module(moduleName)
	if m == nil {
		return DefinitionResult{}
	}

	if d := m.FindDeclaration(symbol); d != nil {
		return DefinitionResult{ModuleName: moduleName, Name: symbol, Range: RangeFromInternal(d.DeclLocation().Range), Found: true}
	}

	if alias, name, ok := strings.Cut(symbol, "."); ok {
		for _, imp := range m.AliasImports {
			if imp.Alias != alias {
				continue
			}
			if d, found := s.db.FindDeclaration(imp.ModuleName, name); found {
				return DefinitionResult{ModuleName: imp.ModuleName, Name: name, Range: RangeFromInternal(d.DeclLocation().Range), Found: true}
			}
		}
	}

	return DefinitionResult{}
}

// InlayHints labels every FunctionDeclaration's parameters with their
// declared names, positioned at the start of the declaration's source
// range. A full implementation would position each hint at its call
// site's argument; that requires walking Definitions' statement trees
// for CallExpressions, which the core does not expose a position for
// yet (ir.CallExpression carries no per-argument SourceRange).
func (s *DatabaseServer) InlayHints(moduleName string) []InlayHint {
	m := s.db.Module(moduleName)
	if m == nil {
		return nil
	}

	var hints []InlayHint
	for _, d := range m.AllDeclarations() {
		fn, ok := d.(ir.FunctionDeclaration)
		if !ok || !fn.Location.Valid {
			continue
		}
		pos := FromInternal(fn.Location.Range.Start)
		label := fn.Name + "(" + strings.Join(fn.InputParameterNames, ", ") + ")"
		hints = append(hints, InlayHint{Position: pos, Label: label})
	}
	return hints
}

// Diagnostics turns a compile error for moduleName into the wire
// diagnostics a client displays inline. A nil compileErr yields an empty
// (not nil) slice, signaling "this module compiled cleanly" rather than
// "diagnostics were not computed".
func (s *DatabaseServer) Diagnostics(moduleName string, compileErr error) []Diagnostic {
	if compileErr == nil {
		return []Diagnostic{}
	}

	rep, ok := errors.AsReport(compileErr)
	if !ok {
		return []Diagnostic{{Severity: "error", Code: "unknown", Message: compileErr.Error()}}
	}

	d := Diagnostic{Severity: "error", Code: rep.Code, Message: rep.Message}
	if rep.Range != nil {
		d.Range = RangeFromInternal(*rep.Range)
	}
	return []Diagnostic{d}
}
