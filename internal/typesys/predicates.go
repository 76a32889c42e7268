// Package typesys answers structural questions about ir.TypeReference
// values: is this an integer, a pointer, a C string; what does removing
// a pointer layer or resolving a function's output type yield. None of
// it mutates the IR; every function is a pure predicate or projection.
package typesys

import "github.com/hlang-toolchain/hlang/internal/ir"

// IsInteger reports whether t is an Integer_type of any width/signedness.
func IsInteger(t ir.TypeReference) bool {
	_, ok := t.(ir.IntegerType)
	return ok
}

// IsSignedInteger reports whether t is a signed Integer_type.
func IsSignedInteger(t ir.TypeReference) bool {
	it, ok := t.(ir.IntegerType)
	return ok && it.IsSigned
}

// IsUnsignedInteger reports whether t is an unsigned Integer_type.
func IsUnsignedInteger(t ir.TypeReference) bool {
	it, ok := t.(ir.IntegerType)
	return ok && !it.IsSigned
}

// IsBool reports whether t is the Bool fundamental type.
func IsBool(t ir.TypeReference) bool {
	ft, ok := t.(ir.FundamentalType)
	return ok && ft.Kind == ir.FundamentalBool
}

// IsFloatingPoint reports whether t is Float16, Float32, or Float64.
func IsFloatingPoint(t ir.TypeReference) bool {
	ft, ok := t.(ir.FundamentalType)
	if !ok {
		return false
	}
	switch ft.Kind {
	case ir.FundamentalFloat16, ir.FundamentalFloat32, ir.FundamentalFloat64:
		return true
	default:
		return false
	}
}

// IsPointer reports whether t is a Pointer_type, including *void.
func IsPointer(t ir.TypeReference) bool {
	_, ok := t.(ir.PointerType)
	return ok
}

// IsNonVoidPointer reports whether t is a Pointer_type with a concrete
// element type (i.e. not the erased *void encoding).
func IsNonVoidPointer(t ir.TypeReference) bool {
	pt, ok := t.(ir.PointerType)
	return ok && pt.ElementType != nil
}

// IsCString reports whether t is *C_char or *mut C_char, the pointer
// encoding of a NUL-terminated C string.
func IsCString(t ir.TypeReference) bool {
	pt, ok := t.(ir.PointerType)
	if !ok || pt.ElementType == nil {
		return false
	}
	ft, ok := pt.ElementType.(ir.FundamentalType)
	return ok && ft.Kind == ir.FundamentalCChar
}

// RemovePointer strips one layer of Pointer_type, returning the element
// type and true, or (nil, false) if t is not a pointer or is *void.
func RemovePointer(t ir.TypeReference) (ir.TypeReference, bool) {
	pt, ok := t.(ir.PointerType)
	if !ok || pt.ElementType == nil {
		return nil, false
	}
	return pt.ElementType, true
}

// FixCustomTypeReference normalizes a Custom_type_reference whose
// ModuleReference is empty (meaning "this module") to name
// currentModule explicitly, so that downstream lookups never have to
// special-case the empty string.
func FixCustomTypeReference(t ir.TypeReference, currentModule string) ir.TypeReference {
	ct, ok := t.(ir.CustomTypeReference)
	if !ok || ct.ModuleReference.Name != "" {
		return t
	}
	ct.ModuleReference.Name = currentModule
	return ct
}

// GetFunctionOutputTypeReference returns a function type's single output
// type. It reports (nil, false) unless there is exactly one output: a
// no-output function yields no Void type, and a multi-output function
// yields neither its first output nor the full slice.
func GetFunctionOutputTypeReference(t ir.FunctionType) (ir.TypeReference, bool) {
	if len(t.OutputParameterTypes) != 1 {
		return nil, false
	}
	return t.OutputParameterTypes[0], true
}
