package backend

import (
	"fmt"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// lowerType converts an ir.TypeReference to its LLVM textual IR type
// string (e.g. "i32", "double", "%struct.Point*").
func (t *TextTarget) lowerType(typ ir.TypeReference) (string, error) {
	if typ == nil {
		return "void", nil
	}

	switch v := typ.(type) {
	case ir.BuiltinTypeReference:
		return "%builtin." + sanitizeName(v.Value), nil

	case ir.FundamentalType:
		return lowerFundamental(v.Kind), nil

	case ir.IntegerType:
		return fmt.Sprintf("i%d", v.NumberOfBits), nil

	case ir.ConstantArrayType:
		elem, err := t.lowerType(v.ValueType)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%d x %s]", v.Size, elem), nil

	case ir.PointerType:
		if v.ElementType == nil {
			return "i8*", nil
		}
		elem, err := t.lowerType(v.ElementType)
		if err != nil {
			return "", err
		}
		return elem + "*", nil

	case ir.FunctionType:
		out := "void"
		if len(v.OutputParameterTypes) == 1 {
			lowered, err := t.lowerType(v.OutputParameterTypes[0])
			if err != nil {
				return "", err
			}
			out = lowered
		}
		params := make([]string, 0, len(v.InputParameterTypes))
		for _, p := range v.InputParameterTypes {
			lowered, err := t.lowerType(p)
			if err != nil {
				return "", err
			}
			params = append(params, lowered)
		}
		return fmt.Sprintf("%s (%s)*", out, joinComma(params)), nil

	case ir.CustomTypeReference:
		return "%custom." + sanitizeName(v.ModuleReference.Name) + "." + sanitizeName(v.Name) + "*", nil

	case ir.ParameterType:
		return "%param." + sanitizeName(v.Name), nil

	case ir.TypeInstance:
		ctor, err := t.lowerType(v.Constructor)
		if err != nil {
			return "", err
		}
		return ctor, nil
	}

	return "", fmt.Errorf("backend: unhandled type reference %T", typ)
}

// typeSizeInBits returns typ's actual storage size, used to pick a
// union's widest member. Every reference type (pointer, function
// pointer, custom-type reference, which lowerType always renders with a
// trailing "*") is pointer-sized on the 64-bit target this backend
// assumes; a ParameterType is an unbound generic with no concrete layout
// yet, so it is sized the same conservative way.
func typeSizeInBits(typ ir.TypeReference) (uint64, error) {
	const pointerBits = 64

	if typ == nil {
		return 0, nil
	}

	switch v := typ.(type) {
	case ir.BuiltinTypeReference:
		return pointerBits, nil

	case ir.FundamentalType:
		return fundamentalSizeInBits(v.Kind), nil

	case ir.IntegerType:
		return uint64(v.NumberOfBits), nil

	case ir.ConstantArrayType:
		elemBits, err := typeSizeInBits(v.ValueType)
		if err != nil {
			return 0, err
		}
		return v.Size * elemBits, nil

	case ir.PointerType, ir.FunctionType, ir.CustomTypeReference:
		return pointerBits, nil

	case ir.ParameterType:
		return pointerBits, nil

	case ir.TypeInstance:
		return typeSizeInBits(v.Constructor)
	}

	return 0, fmt.Errorf("backend: unhandled type reference %T", typ)
}

func fundamentalSizeInBits(k ir.FundamentalKind) uint64 {
	switch k {
	case ir.FundamentalBool, ir.FundamentalByte:
		return 8
	case ir.FundamentalFloat16:
		return 16
	case ir.FundamentalFloat32:
		return 32
	case ir.FundamentalFloat64:
		return 64
	case ir.FundamentalCChar, ir.FundamentalCSChar, ir.FundamentalCUChar:
		return 8
	case ir.FundamentalCShort, ir.FundamentalCUShort:
		return 16
	case ir.FundamentalCInt, ir.FundamentalCUInt:
		return 32
	case ir.FundamentalCLong, ir.FundamentalCULong, ir.FundamentalCLongLong, ir.FundamentalCULongLong:
		return 64
	case ir.FundamentalString, ir.FundamentalAny:
		return 64
	default:
		return 64
	}
}

func lowerFundamental(k ir.FundamentalKind) string {
	switch k {
	case ir.FundamentalBool:
		return "i1"
	case ir.FundamentalByte:
		return "i8"
	case ir.FundamentalFloat16:
		return "half"
	case ir.FundamentalFloat32:
		return "float"
	case ir.FundamentalFloat64:
		return "double"
	case ir.FundamentalCChar, ir.FundamentalCSChar, ir.FundamentalCUChar:
		return "i8"
	case ir.FundamentalCShort, ir.FundamentalCUShort:
		return "i16"
	case ir.FundamentalCInt, ir.FundamentalCUInt:
		return "i32"
	case ir.FundamentalCLong, ir.FundamentalCULong, ir.FundamentalCLongLong, ir.FundamentalCULongLong:
		return "i64"
	case ir.FundamentalString:
		return "i8*"
	case ir.FundamentalAny:
		return "i8*"
	default:
		return "i8*"
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
