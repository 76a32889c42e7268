package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// Fix is a suggested remediation attached to a Report, with a confidence
// in [0,1] so downstream tooling can decide whether to auto-apply it.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the structured diagnostic every fallible operation in the
// toolchain returns instead of a bare error string.
type Report struct {
	Schema  string              `json:"schema"`
	Code    string              `json:"code"`
	Phase   string              `json:"phase"`
	Message string              `json:"message"`
	Range   *ir.SourceRange     `json:"range,omitempty"`
	Data    map[string]any      `json:"data,omitempty"`
	Fix     *Fix                `json:"fix,omitempty"`
}

// ReportError wraps a Report so it survives errors.As unwrapping while
// still satisfying the error interface everywhere a plain error is
// expected.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts the *Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap turns a *Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as JSON, pretty-printed unless compact is set.
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

func newReport(code, phase, message string, rng *ir.SourceRange) *Report {
	info, ok := Lookup(code)
	if !ok {
		phase = "unknown"
	} else if phase == "" {
		phase = info.Phase
	}
	return &Report{Schema: "hlang.error/v1", Code: code, Phase: phase, Message: message, Range: rng}
}

// NewParseError builds a ParseError report at the given source range.
func NewParseError(message string, rng ir.SourceRange) error {
	return Wrap(newReport(ParseError, "parse", message, &rng))
}

// NewTypeResolutionFailure builds a TypeResolutionFailure report for a
// Custom_type_reference that did not resolve.
func NewTypeResolutionFailure(moduleName, typeName string, rng *ir.SourceRange) error {
	r := newReport(TypeResolutionFailure, "typesys", fmt.Sprintf("could not resolve type %q in module %q", typeName, moduleName), rng)
	r.Data = map[string]any{"module": moduleName, "type": typeName}
	return Wrap(r)
}

// NewArityMismatch builds an ArityMismatch report for a call site.
func NewArityMismatch(callee string, expected, got int, rng *ir.SourceRange) error {
	r := newReport(ArityMismatch, "typesys", fmt.Sprintf("%s expects %d argument(s), got %d", callee, expected, got), rng)
	r.Data = map[string]any{"callee": callee, "expected": expected, "got": got}
	return Wrap(r)
}

// NewTypeMismatch builds a TypeMismatch report comparing two type names.
func NewTypeMismatch(expected, got string, rng *ir.SourceRange) error {
	r := newReport(TypeMismatch, "typesys", fmt.Sprintf("expected type %s, got %s", expected, got), rng)
	r.Data = map[string]any{"expected": expected, "got": got}
	return Wrap(r)
}

// NewUnsupportedExpressionKind builds a report for an Expression variant
// the backend does not know how to lower.
func NewUnsupportedExpressionKind(kind string, rng *ir.SourceRange) error {
	r := newReport(UnsupportedExpressionKind, "backend", fmt.Sprintf("backend cannot lower expression kind %s", kind), rng)
	r.Data = map[string]any{"kind": kind}
	return Wrap(r)
}

// NewBackendError wraps an opaque backend failure.
func NewBackendError(message string) error {
	return Wrap(newReport(BackendError, "backend", message, nil))
}

// NewJITLookupFailure builds a report for a symbol with no installed stub.
func NewJITLookupFailure(symbol string) error {
	r := newReport(JITLookupFailure, "jit", fmt.Sprintf("no installed stub for symbol %q", symbol), nil)
	r.Data = map[string]any{"symbol": symbol}
	return Wrap(r)
}

// NewLinkerError wraps a linker invocation failure, including the
// linker's own stderr when available.
func NewLinkerError(message, stderr string) error {
	r := newReport(LinkerError, "link", message, nil)
	if stderr != "" {
		r.Data = map[string]any{"stderr": stderr}
	}
	return Wrap(r)
}

// NewIOError wraps a filesystem or artifact failure.
func NewIOError(path string, cause error) error {
	r := newReport(IOError, "io", fmt.Sprintf("%s: %v", path, cause), nil)
	r.Data = map[string]any{"path": path}
	return Wrap(r)
}

// NewCyclicAlias builds a report describing an alias-resolution cycle.
func NewCyclicAlias(chain []string) error {
	r := newReport(CyclicAlias, "typesys", fmt.Sprintf("cyclic alias chain: %v", chain), nil)
	r.Data = map[string]any{"chain": chain}
	return Wrap(r)
}
