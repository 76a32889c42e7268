package errors

import (
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

func TestNewArityMismatchRoundTripsAsReport(t *testing.T) {
	err := NewArityMismatch("f", 2, 1, nil)
	rep, ok := AsReport(err)
	if !ok {
		t.Fatalf("expected AsReport to succeed")
	}
	if rep.Code != ArityMismatch {
		t.Fatalf("expected code %s, got %s", ArityMismatch, rep.Code)
	}
	if rep.Data["expected"] != 2 || rep.Data["got"] != 1 {
		t.Fatalf("unexpected data: %+v", rep.Data)
	}
}

func TestReportToJSONIsStable(t *testing.T) {
	rng := ir.SourceRange{FilePath: "foo.hl", Start: ir.Position{Line: 1, Column: 1}}
	err := NewParseError("unexpected token", rng)
	rep, _ := AsReport(err)
	js, jsonErr := rep.ToJSON(true)
	if jsonErr != nil {
		t.Fatalf("unexpected error: %v", jsonErr)
	}
	if js == "" {
		t.Fatalf("expected non-empty JSON")
	}
}

func TestLookupKnowsEveryCode(t *testing.T) {
	codes := []string{
		ParseError, TypeResolutionFailure, ArityMismatch, TypeMismatch,
		UnsupportedExpressionKind, BackendError, JITLookupFailure,
		LinkerError, IOError, CyclicAlias,
	}
	for _, c := range codes {
		if _, ok := Lookup(c); !ok {
			t.Errorf("code %s missing from registry", c)
		}
	}
}
