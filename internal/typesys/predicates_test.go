package typesys

import (
	"testing"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

func TestIsIntegerVariants(t *testing.T) {
	if !IsInteger(ir.IntegerType{NumberOfBits: 32, IsSigned: true}) {
		t.Fatalf("expected Int32 to be an integer")
	}
	if IsInteger(ir.FundamentalType{Kind: ir.FundamentalBool}) {
		t.Fatalf("expected Bool not to be an integer")
	}
	if !IsSignedInteger(ir.IntegerType{NumberOfBits: 8, IsSigned: true}) {
		t.Fatalf("expected Int8 to be signed")
	}
	if IsSignedInteger(ir.IntegerType{NumberOfBits: 8, IsSigned: false}) {
		t.Fatalf("expected UInt8 not to be signed")
	}
}

func TestIsCStringRequiresCCharPointer(t *testing.T) {
	cstr := ir.PointerType{ElementType: ir.FundamentalType{Kind: ir.FundamentalCChar}}
	if !IsCString(cstr) {
		t.Fatalf("expected *C_char to be a C string")
	}
	notCstr := ir.PointerType{ElementType: ir.IntegerType{NumberOfBits: 32, IsSigned: true}}
	if IsCString(notCstr) {
		t.Fatalf("expected *Int32 not to be a C string")
	}
	voidPtr := ir.PointerType{}
	if IsCString(voidPtr) {
		t.Fatalf("expected *void not to be a C string")
	}
}

func TestRemovePointer(t *testing.T) {
	elem, ok := RemovePointer(ir.PointerType{ElementType: ir.FundamentalType{Kind: ir.FundamentalBool}})
	if !ok {
		t.Fatalf("expected RemovePointer to succeed")
	}
	if !IsBool(elem) {
		t.Fatalf("expected element type to be Bool")
	}
	if _, ok := RemovePointer(ir.PointerType{}); ok {
		t.Fatalf("expected RemovePointer on *void to fail")
	}
	if _, ok := RemovePointer(ir.IntegerType{NumberOfBits: 32, IsSigned: true}); ok {
		t.Fatalf("expected RemovePointer on non-pointer to fail")
	}
}

func TestFixCustomTypeReferenceFillsEmptyModule(t *testing.T) {
	fixed := FixCustomTypeReference(ir.CustomTypeReference{Name: "Point"}, "Geometry")
	ct, ok := fixed.(ir.CustomTypeReference)
	if !ok || ct.ModuleReference.Name != "Geometry" {
		t.Fatalf("expected module to be filled with Geometry, got %+v", fixed)
	}

	// Already-qualified references are left untouched.
	qualified := ir.CustomTypeReference{ModuleReference: ir.ModuleReference{Name: "Other"}, Name: "Point"}
	fixed2 := FixCustomTypeReference(qualified, "Geometry")
	ct2 := fixed2.(ir.CustomTypeReference)
	if ct2.ModuleReference.Name != "Other" {
		t.Fatalf("expected already-qualified reference to be unchanged, got %+v", fixed2)
	}
}

func TestGetFunctionOutputTypeReference(t *testing.T) {
	ft := ir.FunctionType{OutputParameterTypes: []ir.TypeReference{ir.FundamentalType{Kind: ir.FundamentalBool}}}
	out, ok := GetFunctionOutputTypeReference(ft)
	if !ok || !IsBool(out) {
		t.Fatalf("expected single Bool output, got %+v ok=%v", out, ok)
	}

	multi := ir.FunctionType{OutputParameterTypes: []ir.TypeReference{
		ir.FundamentalType{Kind: ir.FundamentalBool},
		ir.FundamentalType{Kind: ir.FundamentalBool},
	}}
	if _, ok := GetFunctionOutputTypeReference(multi); ok {
		t.Fatalf("expected multi-output function to report ok=false")
	}
}
