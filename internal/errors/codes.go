// Package errors provides the centralized error taxonomy used across the
// toolchain: parsing, type resolution, backend lowering, linking, and
// JIT lookup each report through the same structured Report type rather
// than raw fmt.Errorf strings, so the CLI and the language server can
// render a consistent, machine-parseable diagnostic.
package errors

// Error code constants, one family per phase. Callers construct a
// *Report via the matching New* helper in report.go rather than
// stringing these together by hand.
const (
	// ParseError indicates the surface parser rejected the source text.
	ParseError = "PARSE001"

	// TypeResolutionFailure indicates a Custom_type_reference could not
	// be resolved to a declaration (unknown module, unknown name, or an
	// alias chain that never bottoms out).
	TypeResolutionFailure = "TYPE001"

	// ArityMismatch indicates a call site supplied a different argument
	// count than the callee's Function_type declares.
	ArityMismatch = "TYPE002"

	// TypeMismatch indicates two type references that were expected to
	// agree do not.
	TypeMismatch = "TYPE003"

	// UnsupportedExpressionKind indicates the backend was asked to lower
	// an Expression variant it has no case for.
	UnsupportedExpressionKind = "BACKEND001"

	// BackendError indicates a non-kind-specific failure while lowering
	// IR to the target backend (e.g. a malformed constant encoding).
	BackendError = "BACKEND002"

	// JITLookupFailure indicates a requested symbol has no installed
	// stub in the running JIT session.
	JITLookupFailure = "JIT001"

	// LinkerError indicates the external linker driver exited non-zero
	// or its output could not be parsed.
	LinkerError = "LINK001"

	// IOError indicates a filesystem or artifact read/write failure.
	IOError = "IO001"

	// CyclicAlias indicates alias resolution looped back on itself
	// instead of reaching a non-alias declaration.
	CyclicAlias = "TYPE004"
)

// Info describes one error code: which phase raises it and a short,
// human-facing description used in --help output and generated docs.
type Info struct {
	Code        string
	Phase       string
	Description string
}

// Registry maps every code above to its Info. Kept as a map (rather
// than inferred from the Report at construction time) so Lookup can
// resolve a code pasted from a log line without having a live Report in
// hand.
var Registry = map[string]Info{
	ParseError:                {ParseError, "parse", "Surface syntax rejected by the parser"},
	TypeResolutionFailure:     {TypeResolutionFailure, "typesys", "Custom type reference did not resolve to a declaration"},
	ArityMismatch:             {ArityMismatch, "typesys", "Call argument count does not match the callee's signature"},
	TypeMismatch:              {TypeMismatch, "typesys", "Two type references that were expected to agree do not"},
	UnsupportedExpressionKind: {UnsupportedExpressionKind, "backend", "Backend has no lowering for this expression kind"},
	BackendError:              {BackendError, "backend", "Backend failed to lower or emit a module"},
	JITLookupFailure:          {JITLookupFailure, "jit", "Requested symbol has no installed stub"},
	LinkerError:               {LinkerError, "link", "External linker invocation failed"},
	IOError:                   {IOError, "io", "Filesystem or artifact read/write failed"},
	CyclicAlias:               {CyclicAlias, "typesys", "Alias resolution detected a cycle"},
}

// Lookup returns the Info for code, if it is one of the codes above.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
