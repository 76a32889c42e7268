package backend

import (
	"fmt"
	"strings"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// funcGenerator lowers one function body to textual IR. It is not
// reused across functions: CompileFunction constructs a fresh one per
// call, so two bodies can be compiled concurrently (the JIT's
// materialization worker pool does exactly this) without any shared
// mutable state.
type funcGenerator struct {
	target *TextTarget
	module *ir.Module

	body       strings.Builder
	locals     map[string]string
	regCounter int
	scopes     *debugScopeStack
	terminated bool
}

func (g *funcGenerator) newRegister() string {
	g.regCounter++
	return fmt.Sprintf("%%r%d", g.regCounter)
}

func (g *funcGenerator) emit(line string) {
	g.body.WriteString("  ")
	g.body.WriteString(line)
	g.body.WriteString("\n")
}

func (g *funcGenerator) lowerStatement(s ir.Statement) error {
	for i, expr := range s.Expressions {
		// Only the root (index 0) is evaluated directly for its
		// side effects/value; every other entry is reached solely
		// through an ExpressionIndex from some ancestor, so lowering
		// the root recursively lowers everything reachable.
		if i != 0 {
			continue
		}
		if _, err := g.lowerExpression(s, expr); err != nil {
			return err
		}
	}
	return nil
}

// lowerExpression returns the SSA register (or immediate) holding
// expr's value, emitting whatever instructions are needed to compute it.
func (g *funcGenerator) lowerExpression(s ir.Statement, expr ir.Expression) (string, error) {
	if rng, ok := expr.Source(); ok {
		g.emit("; at" + locationComment(rng, true))
	}

	switch e := expr.(type) {
	case ir.ConstantExpression:
		return e.Data, nil

	case ir.VariableExpression:
		if reg, ok := g.locals[e.Name]; ok {
			return reg, nil
		}
		return "@" + sanitizeName(e.Name), nil

	case ir.NullPointerExpression:
		return "null", nil

	case ir.BinaryExpression:
		lhs, err := g.lowerExpression(s, s.At(e.LeftHandSide))
		if err != nil {
			return "", err
		}
		rhs, err := g.lowerExpression(s, s.At(e.RightHandSide))
		if err != nil {
			return "", err
		}
		reg := g.newRegister()
		op, err := binaryOpcode(e.Operation)
		if err != nil {
			return "", err
		}
		g.emit(fmt.Sprintf("%s = %s i64 %s, %s", reg, op, lhs, rhs))
		return reg, nil

	case ir.UnaryExpression:
		operand, err := g.lowerExpression(s, s.At(e.Expression))
		if err != nil {
			return "", err
		}
		reg := g.newRegister()
		switch e.Operation {
		case ir.UnaryNegation:
			g.emit(fmt.Sprintf("%s = sub i64 0, %s", reg, operand))
		case ir.UnaryBitwiseNot:
			g.emit(fmt.Sprintf("%s = xor i64 %s, -1", reg, operand))
		case ir.UnaryNot:
			g.emit(fmt.Sprintf("%s = xor i1 %s, true", reg, operand))
		case ir.UnaryAddressOf:
			return "%addressof_" + operand, nil
		case ir.UnaryIndirection:
			g.emit(fmt.Sprintf("%s = load i64, i64* %s", reg, operand))
		default:
			g.emit(fmt.Sprintf("%s = add i64 %s, 1 ; pre/post inc-dec", reg, operand))
		}
		return reg, nil

	case ir.CastExpression:
		operand, err := g.lowerExpression(s, s.At(e.Source))
		if err != nil {
			return "", err
		}
		target, err := g.target.lowerType(e.DestinationType)
		if err != nil {
			return "", err
		}
		reg := g.newRegister()
		g.emit(fmt.Sprintf("%s = bitcast i64 %s to %s", reg, operand, target))
		return reg, nil

	case ir.ParenthesisExpression:
		return g.lowerExpression(s, s.At(e.Expression))

	case ir.AccessExpression:
		base, err := g.lowerExpression(s, s.At(e.Expression))
		if err != nil {
			return "", err
		}
		reg := g.newRegister()
		g.emit(fmt.Sprintf("%s = getelementptr inbounds i8, i8* %s, i32 0 ; .%s", reg, base, e.MemberName))
		return reg, nil

	case ir.CallExpression:
		fn, err := g.lowerExpression(s, s.At(e.Function))
		if err != nil {
			return "", err
		}
		args := make([]string, 0, len(e.Arguments))
		for _, a := range e.Arguments {
			arg, err := g.lowerExpression(s, s.At(a))
			if err != nil {
				return "", err
			}
			args = append(args, "i64 "+arg)
		}
		reg := g.newRegister()
		g.emit(fmt.Sprintf("%s = call i64 %s(%s)", reg, fn, joinComma(args)))
		return reg, nil

	case ir.VariableDeclarationExpression:
		value, err := g.lowerExpression(s, s.At(e.RightHandSide))
		if err != nil {
			return "", err
		}
		g.locals[e.Name] = value
		return value, nil

	case ir.ReturnExpression:
		if e.HasValue {
			value, err := g.lowerExpression(s, s.At(e.Value))
			if err != nil {
				return "", err
			}
			g.emit("ret i64 " + value)
		} else {
			g.emit("ret void")
		}
		g.terminated = true
		return "", nil

	case ir.TypeExpression:
		lowered, err := g.target.lowerType(e.Type)
		if err != nil {
			return "", err
		}
		return lowered, nil

	case ir.ConstantArrayExpression:
		reg := g.newRegister()
		g.emit(fmt.Sprintf("%s = alloca [%d x i64]", reg, len(e.ArrayData)))
		for i, element := range e.ArrayData {
			value, err := g.lowerExpression(element, element.Root())
			if err != nil {
				return "", err
			}
			slot := g.newRegister()
			g.emit(fmt.Sprintf("%s = getelementptr [%d x i64], [%d x i64]* %s, i32 0, i32 %d", slot, len(e.ArrayData), len(e.ArrayData), reg, i))
			g.emit(fmt.Sprintf("store i64 %s, i64* %s", value, slot))
		}
		return reg, nil

	case ir.InstantiateExpression:
		reg := g.newRegister()
		g.emit(fmt.Sprintf("%s = alloca i8, i32 %d", reg, len(e.Members)*8))
		for _, member := range e.Members {
			value, err := g.lowerExpression(member.Value, member.Value.Root())
			if err != nil {
				return "", err
			}
			g.emit(fmt.Sprintf("; store %s into .%s", value, member.MemberName))
		}
		return reg, nil
	}

	rng, hasRange := expr.Source()
	var rngPtr *ir.SourceRange
	if hasRange {
		rngPtr = &rng
	}
	return "", errUnsupported(fmt.Sprintf("%T", expr), rngPtr)
}

func binaryOpcode(op ir.BinaryOperation) (string, error) {
	switch op {
	case ir.BinaryAdd:
		return "add", nil
	case ir.BinarySubtract:
		return "sub", nil
	case ir.BinaryMultiply:
		return "mul", nil
	case ir.BinarySignedDivide:
		return "sdiv", nil
	case ir.BinaryUnsignedDivide:
		return "udiv", nil
	case ir.BinarySignedModulo:
		return "srem", nil
	case ir.BinaryUnsignedModulo:
		return "urem", nil
	case ir.BinaryEqual:
		return "icmp eq", nil
	case ir.BinaryNotEqual:
		return "icmp ne", nil
	case ir.BinaryLessThan:
		return "icmp slt", nil
	case ir.BinaryLessThanOrEqual:
		return "icmp sle", nil
	case ir.BinaryGreaterThan:
		return "icmp sgt", nil
	case ir.BinaryGreaterThanOrEqual:
		return "icmp sge", nil
	case ir.BinaryLogicalAnd, ir.BinaryBitwiseAnd:
		return "and", nil
	case ir.BinaryLogicalOr, ir.BinaryBitwiseOr:
		return "or", nil
	case ir.BinaryBitwiseXor:
		return "xor", nil
	case ir.BinaryShiftLeft:
		return "shl", nil
	case ir.BinaryShiftRight:
		return "ashr", nil
	case ir.BinaryAssign:
		return "add", nil
	default:
		return "", fmt.Errorf("backend: unhandled binary operation %d", op)
	}
}
