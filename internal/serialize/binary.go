package serialize

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// writer accumulates a packed binary encoding. Every multi-byte integer
// is little-endian; every string is a uint32 length prefix followed by
// its UTF-8 bytes; every sum type is a uint8 tag (see tags.go) followed
// by its variant's fixed field order.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) u32(v uint32) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) u64(v uint64) { binary.Write(&w.buf, binary.LittleEndian, v) }
func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

// reader consumes a packed binary encoding produced by writer.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) u8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("serialize: unexpected end of stream reading uint8")
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("serialize: unexpected end of stream reading uint32")
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("serialize: unexpected end of stream reading uint64")
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *reader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("serialize: unexpected end of stream reading string")
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (w *writer) expressionIndex(i ir.ExpressionIndex) { w.u32(uint32(i.Index)) }
func (r *reader) expressionIndex() (ir.ExpressionIndex, error) {
	v, err := r.u32()
	return ir.ExpressionIndex{Index: int(v)}, err
}

func (w *writer) sourceRange(rng ir.SourceRange, has bool) {
	w.boolean(has)
	if !has {
		return
	}
	w.str(rng.FilePath)
	w.u32(rng.Start.Line)
	w.u32(rng.Start.Column)
	w.u32(rng.End.Line)
	w.u32(rng.End.Column)
}

func (r *reader) sourceRange() (ir.SourceRange, bool, error) {
	has, err := r.boolean()
	if err != nil || !has {
		return ir.SourceRange{}, false, err
	}
	path, err := r.str()
	if err != nil {
		return ir.SourceRange{}, false, err
	}
	startLine, err := r.u32()
	if err != nil {
		return ir.SourceRange{}, false, err
	}
	startCol, err := r.u32()
	if err != nil {
		return ir.SourceRange{}, false, err
	}
	endLine, err := r.u32()
	if err != nil {
		return ir.SourceRange{}, false, err
	}
	endCol, err := r.u32()
	if err != nil {
		return ir.SourceRange{}, false, err
	}
	return ir.SourceRange{FilePath: path, Start: ir.Position{Line: startLine, Column: startCol}, End: ir.Position{Line: endLine, Column: endCol}}, true, nil
}

func (w *writer) expressionBase(b ir.ExpressionBase) { w.sourceRange(b.Range, b.HasRange) }
func (r *reader) expressionBase() (ir.ExpressionBase, error) {
	rng, has, err := r.sourceRange()
	return ir.ExpressionBase{Range: rng, HasRange: has}, err
}

func (w *writer) sourceRangeLocation(loc ir.SourceRangeLocation) { w.sourceRange(loc.Range, loc.Valid) }
func (r *reader) sourceRangeLocation() (ir.SourceRangeLocation, error) {
	rng, valid, err := r.sourceRange()
	return ir.SourceRangeLocation{Range: rng, Valid: valid}, err
}

func (w *writer) declarationBase(b ir.DeclarationBase) {
	w.str(b.Name)
	w.boolean(b.HasUnique)
	w.str(b.UniqueName)
	w.u8(uint8(b.Linkage))
	w.sourceRangeLocation(b.Location)
	w.str(b.Comment)
}

func (r *reader) declarationBase() (ir.DeclarationBase, error) {
	name, err := r.str()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	hasUnique, err := r.boolean()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	uniqueName, err := r.str()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	linkage, err := r.u8()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	loc, err := r.sourceRangeLocation()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	comment, err := r.str()
	if err != nil {
		return ir.DeclarationBase{}, err
	}
	return ir.DeclarationBase{Name: name, HasUnique: hasUnique, UniqueName: uniqueName, Linkage: ir.Linkage(linkage), Location: loc, Comment: comment}, nil
}

// --- TypeReference ---

func (w *writer) typeReference(t ir.TypeReference) error {
	switch v := t.(type) {
	case ir.BuiltinTypeReference:
		w.u8(tagBuiltinType)
		w.str(v.Value)
	case ir.FundamentalType:
		w.u8(tagFundamentalType)
		w.u8(uint8(v.Kind))
	case ir.IntegerType:
		w.u8(tagIntegerType)
		w.u32(v.NumberOfBits)
		w.boolean(v.IsSigned)
	case ir.ConstantArrayType:
		w.u8(tagConstantArrayType)
		w.u64(v.Size)
		if err := w.typeReference(v.ValueType); err != nil {
			return err
		}
	case ir.PointerType:
		w.u8(tagPointerType)
		w.boolean(v.IsMutable)
		w.boolean(v.ElementType != nil)
		if v.ElementType != nil {
			if err := w.typeReference(v.ElementType); err != nil {
				return err
			}
		}
	case ir.FunctionType:
		w.u8(tagFunctionType)
		if err := w.functionType(v); err != nil {
			return err
		}
	case ir.CustomTypeReference:
		w.u8(tagCustomTypeReference)
		w.str(v.ModuleReference.Name)
		w.str(v.Name)
	case ir.ParameterType:
		w.u8(tagParameterType)
		w.str(v.Name)
	case ir.TypeInstance:
		w.u8(tagTypeInstance)
		if err := w.typeReference(v.Constructor); err != nil {
			return err
		}
		w.u32(uint32(len(v.Arguments)))
		for _, a := range v.Arguments {
			if err := w.typeReference(a); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("serialize: unknown type reference %T", t)
	}
	return nil
}

func (w *writer) functionType(v ir.FunctionType) error {
	w.boolean(v.IsVariadic)
	w.u32(uint32(len(v.InputParameterTypes)))
	for _, t := range v.InputParameterTypes {
		if err := w.typeReference(t); err != nil {
			return err
		}
	}
	w.u32(uint32(len(v.OutputParameterTypes)))
	for _, t := range v.OutputParameterTypes {
		if err := w.typeReference(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) functionType() (ir.FunctionType, error) {
	variadic, err := r.boolean()
	if err != nil {
		return ir.FunctionType{}, err
	}
	inN, err := r.u32()
	if err != nil {
		return ir.FunctionType{}, err
	}
	in := make([]ir.TypeReference, inN)
	for i := range in {
		in[i], err = r.typeReference()
		if err != nil {
			return ir.FunctionType{}, err
		}
	}
	outN, err := r.u32()
	if err != nil {
		return ir.FunctionType{}, err
	}
	out := make([]ir.TypeReference, outN)
	for i := range out {
		out[i], err = r.typeReference()
		if err != nil {
			return ir.FunctionType{}, err
		}
	}
	return ir.FunctionType{InputParameterTypes: in, OutputParameterTypes: out, IsVariadic: variadic}, nil
}

func (r *reader) typeReference() (ir.TypeReference, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBuiltinType:
		v, err := r.str()
		return ir.BuiltinTypeReference{Value: v}, err
	case tagFundamentalType:
		k, err := r.u8()
		return ir.FundamentalType{Kind: ir.FundamentalKind(k)}, err
	case tagIntegerType:
		bits, err := r.u32()
		if err != nil {
			return nil, err
		}
		signed, err := r.boolean()
		return ir.IntegerType{NumberOfBits: bits, IsSigned: signed}, err
	case tagConstantArrayType:
		size, err := r.u64()
		if err != nil {
			return nil, err
		}
		elem, err := r.typeReference()
		return ir.ConstantArrayType{ValueType: elem, Size: size}, err
	case tagPointerType:
		mutable, err := r.boolean()
		if err != nil {
			return nil, err
		}
		hasElem, err := r.boolean()
		if err != nil {
			return nil, err
		}
		var elem ir.TypeReference
		if hasElem {
			elem, err = r.typeReference()
			if err != nil {
				return nil, err
			}
		}
		return ir.PointerType{ElementType: elem, IsMutable: mutable}, nil
	case tagFunctionType:
		return r.functionType()
	case tagCustomTypeReference:
		moduleName, err := r.str()
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		return ir.CustomTypeReference{ModuleReference: ir.ModuleReference{Name: moduleName}, Name: name}, err
	case tagParameterType:
		name, err := r.str()
		return ir.ParameterType{Name: name}, err
	case tagTypeInstance:
		ctor, err := r.typeReference()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		args := make([]ir.TypeReference, n)
		for i := range args {
			args[i], err = r.typeReference()
			if err != nil {
				return nil, err
			}
		}
		return ir.TypeInstance{Constructor: ctor, Arguments: args}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown type reference tag %d", tag)
	}
}

// --- Statement / Expression ---

func (w *writer) statement(s ir.Statement) error {
	w.u32(uint32(len(s.Expressions)))
	for _, e := range s.Expressions {
		if err := w.expression(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) statement() (ir.Statement, error) {
	n, err := r.u32()
	if err != nil {
		return ir.Statement{}, err
	}
	exprs := make([]ir.Expression, n)
	for i := range exprs {
		exprs[i], err = r.expression()
		if err != nil {
			return ir.Statement{}, err
		}
	}
	return ir.Statement{Expressions: exprs}, nil
}

func (w *writer) expression(e ir.Expression) error {
	switch v := e.(type) {
	case ir.AccessExpression:
		w.u8(tagAccessExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.Expression)
		w.str(v.MemberName)
		w.u8(uint8(v.AccessType))
	case ir.BinaryExpression:
		w.u8(tagBinaryExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.LeftHandSide)
		w.expressionIndex(v.RightHandSide)
		w.u8(uint8(v.Operation))
	case ir.CastExpression:
		w.u8(tagCastExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.Source)
		if err := w.typeReference(v.DestinationType); err != nil {
			return err
		}
		w.u8(uint8(v.CastType))
	case ir.ConstantExpression:
		w.u8(tagConstantExpression)
		w.expressionBase(v.ExpressionBase)
		if err := w.typeReference(v.Type); err != nil {
			return err
		}
		w.str(v.Data)
	case ir.ConstantArrayExpression:
		w.u8(tagConstantArrayExpression)
		w.expressionBase(v.ExpressionBase)
		if err := w.typeReference(v.Type); err != nil {
			return err
		}
		w.u32(uint32(len(v.ArrayData)))
		for _, s := range v.ArrayData {
			if err := w.statement(s); err != nil {
				return err
			}
		}
	case ir.InstantiateExpression:
		w.u8(tagInstantiateExpression)
		w.expressionBase(v.ExpressionBase)
		w.u8(uint8(v.Type))
		w.u32(uint32(len(v.Members)))
		for _, m := range v.Members {
			w.str(m.MemberName)
			if err := w.statement(m.Value); err != nil {
				return err
			}
		}
	case ir.NullPointerExpression:
		w.u8(tagNullPointerExpression)
		w.expressionBase(v.ExpressionBase)
	case ir.ParenthesisExpression:
		w.u8(tagParenthesisExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.Expression)
	case ir.ReturnExpression:
		w.u8(tagReturnExpression)
		w.expressionBase(v.ExpressionBase)
		w.boolean(v.HasValue)
		w.expressionIndex(v.Value)
	case ir.CallExpression:
		w.u8(tagCallExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.Function)
		w.u32(uint32(len(v.Arguments)))
		for _, a := range v.Arguments {
			w.expressionIndex(a)
		}
	case ir.VariableDeclarationExpression:
		w.u8(tagVariableDeclarationExpression)
		w.expressionBase(v.ExpressionBase)
		w.str(v.Name)
		w.boolean(v.IsMutable)
		w.expressionIndex(v.RightHandSide)
	case ir.UnaryExpression:
		w.u8(tagUnaryExpression)
		w.expressionBase(v.ExpressionBase)
		w.expressionIndex(v.Expression)
		w.u8(uint8(v.Operation))
	case ir.VariableExpression:
		w.u8(tagVariableExpression)
		w.expressionBase(v.ExpressionBase)
		w.str(v.Name)
		w.u8(uint8(v.AccessType))
	case ir.TypeExpression:
		w.u8(tagTypeExpression)
		w.expressionBase(v.ExpressionBase)
		if err := w.typeReference(v.Type); err != nil {
			return err
		}
	default:
		return fmt.Errorf("serialize: unknown expression %T", e)
	}
	return nil
}

func (r *reader) expression() (ir.Expression, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	base, err := r.expressionBase()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagAccessExpression:
		idx, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		member, err := r.str()
		if err != nil {
			return nil, err
		}
		at, err := r.u8()
		return ir.AccessExpression{ExpressionBase: base, Expression: idx, MemberName: member, AccessType: ir.AccessType(at)}, err
	case tagBinaryExpression:
		lhs, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		rhs, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		op, err := r.u8()
		return ir.BinaryExpression{ExpressionBase: base, LeftHandSide: lhs, RightHandSide: rhs, Operation: ir.BinaryOperation(op)}, err
	case tagCastExpression:
		src, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		dest, err := r.typeReference()
		if err != nil {
			return nil, err
		}
		ct, err := r.u8()
		return ir.CastExpression{ExpressionBase: base, Source: src, DestinationType: dest, CastType: ir.CastType(ct)}, err
	case tagConstantExpression:
		typ, err := r.typeReference()
		if err != nil {
			return nil, err
		}
		data, err := r.str()
		return ir.ConstantExpression{ExpressionBase: base, Type: typ, Data: data}, err
	case tagConstantArrayExpression:
		typ, err := r.typeReference()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		elements := make([]ir.Statement, n)
		for i := range elements {
			elements[i], err = r.statement()
			if err != nil {
				return nil, err
			}
		}
		return ir.ConstantArrayExpression{ExpressionBase: base, Type: typ, ArrayData: elements}, nil
	case tagInstantiateExpression:
		it, err := r.u8()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		members := make([]ir.InstantiateMemberValuePair, n)
		for i := range members {
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			value, err := r.statement()
			if err != nil {
				return nil, err
			}
			members[i] = ir.InstantiateMemberValuePair{MemberName: name, Value: value}
		}
		return ir.InstantiateExpression{ExpressionBase: base, Type: ir.InstantiateExpressionType(it), Members: members}, nil
	case tagNullPointerExpression:
		return ir.NullPointerExpression{ExpressionBase: base}, nil
	case tagParenthesisExpression:
		idx, err := r.expressionIndex()
		return ir.ParenthesisExpression{ExpressionBase: base, Expression: idx}, err
	case tagReturnExpression:
		hasValue, err := r.boolean()
		if err != nil {
			return nil, err
		}
		value, err := r.expressionIndex()
		return ir.ReturnExpression{ExpressionBase: base, HasValue: hasValue, Value: value}, err
	case tagCallExpression:
		fn, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		args := make([]ir.ExpressionIndex, n)
		for i := range args {
			args[i], err = r.expressionIndex()
			if err != nil {
				return nil, err
			}
		}
		return ir.CallExpression{ExpressionBase: base, Function: fn, Arguments: args}, nil
	case tagVariableDeclarationExpression:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		mutable, err := r.boolean()
		if err != nil {
			return nil, err
		}
		rhs, err := r.expressionIndex()
		return ir.VariableDeclarationExpression{ExpressionBase: base, Name: name, IsMutable: mutable, RightHandSide: rhs}, err
	case tagUnaryExpression:
		idx, err := r.expressionIndex()
		if err != nil {
			return nil, err
		}
		op, err := r.u8()
		return ir.UnaryExpression{ExpressionBase: base, Expression: idx, Operation: ir.UnaryOperation(op)}, err
	case tagVariableExpression:
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		at, err := r.u8()
		return ir.VariableExpression{ExpressionBase: base, Name: name, AccessType: ir.AccessType(at)}, err
	case tagTypeExpression:
		typ, err := r.typeReference()
		return ir.TypeExpression{ExpressionBase: base, Type: typ}, err
	default:
		return nil, fmt.Errorf("serialize: unknown expression tag %d", tag)
	}
}

// --- Declaration ---

func (w *writer) declaration(d ir.Declaration) error {
	switch v := d.(type) {
	case ir.AliasTypeDeclaration:
		w.u8(tagAliasTypeDeclaration)
		w.declarationBase(v.DeclarationBase)
		return w.typeReference(v.TargetType)
	case ir.EnumDeclaration:
		w.u8(tagEnumDeclaration)
		w.declarationBase(v.DeclarationBase)
		w.u32(uint32(len(v.Values)))
		for _, ev := range v.Values {
			w.str(ev.Name)
			if err := w.statement(ev.Value); err != nil {
				return err
			}
		}
	case ir.StructDeclaration:
		w.u8(tagStructDeclaration)
		w.declarationBase(v.DeclarationBase)
		w.boolean(v.IsPacked)
		w.boolean(v.IsLiteral)
		w.u32(uint32(len(v.MemberNames)))
		for i, name := range v.MemberNames {
			w.str(name)
			if err := w.typeReference(v.MemberTypes[i]); err != nil {
				return err
			}
			hasDefault := i < len(v.HasDefaultValue) && v.HasDefaultValue[i]
			w.boolean(hasDefault)
			if hasDefault {
				if err := w.statement(v.MemberDefaultValues[i]); err != nil {
					return err
				}
			}
		}
	case ir.UnionDeclaration:
		w.u8(tagUnionDeclaration)
		w.declarationBase(v.DeclarationBase)
		w.u32(uint32(len(v.Members)))
		for _, m := range v.Members {
			w.str(m.Name)
			if err := w.typeReference(m.Type); err != nil {
				return err
			}
		}
	case ir.FunctionDeclaration:
		w.u8(tagFunctionDeclaration)
		w.declarationBase(v.DeclarationBase)
		if err := w.functionType(v.Type); err != nil {
			return err
		}
		w.u32(uint32(len(v.InputParameterNames)))
		for _, n := range v.InputParameterNames {
			w.str(n)
		}
		w.u32(uint32(len(v.OutputParameterNames)))
		for _, n := range v.OutputParameterNames {
			w.str(n)
		}
		w.u32(uint32(len(v.ParameterLocations)))
		for _, loc := range v.ParameterLocations {
			w.sourceRangeLocation(loc)
		}
	case ir.GlobalVariableDeclaration:
		w.u8(tagGlobalVariableDeclaration)
		w.declarationBase(v.DeclarationBase)
		if err := w.typeReference(v.Type); err != nil {
			return err
		}
		w.boolean(v.IsMutable)
		w.boolean(v.HasInitial)
		if v.HasInitial {
			if err := w.statement(v.InitialValue); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("serialize: unknown declaration %T", d)
	}
	return nil
}

func (r *reader) declaration() (ir.Declaration, error) {
	tag, err := r.u8()
	if err != nil {
		return nil, err
	}
	base, err := r.declarationBase()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagAliasTypeDeclaration:
		target, err := r.typeReference()
		return ir.AliasTypeDeclaration{DeclarationBase: base, TargetType: target}, err
	case tagEnumDeclaration:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		values := make([]ir.EnumValue, n)
		for i := range values {
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			value, err := r.statement()
			if err != nil {
				return nil, err
			}
			values[i] = ir.EnumValue{Name: name, Value: value}
		}
		return ir.EnumDeclaration{DeclarationBase: base, Values: values}, nil
	case tagStructDeclaration:
		packed, err := r.boolean()
		if err != nil {
			return nil, err
		}
		literal, err := r.boolean()
		if err != nil {
			return nil, err
		}
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		names := make([]string, n)
		types := make([]ir.TypeReference, n)
		defaults := make([]ir.Statement, n)
		hasDefault := make([]bool, n)
		for i := range names {
			names[i], err = r.str()
			if err != nil {
				return nil, err
			}
			types[i], err = r.typeReference()
			if err != nil {
				return nil, err
			}
			hasDefault[i], err = r.boolean()
			if err != nil {
				return nil, err
			}
			if hasDefault[i] {
				defaults[i], err = r.statement()
				if err != nil {
					return nil, err
				}
			} else {
				defaults[i] = ir.Statement{Expressions: []ir.Expression{}}
			}
		}
		return ir.StructDeclaration{
			DeclarationBase: base, MemberTypes: types, MemberNames: names,
			MemberDefaultValues: defaults, HasDefaultValue: hasDefault, IsPacked: packed, IsLiteral: literal,
		}, nil
	case tagUnionDeclaration:
		n, err := r.u32()
		if err != nil {
			return nil, err
		}
		members := make([]ir.UnionMember, n)
		for i := range members {
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			typ, err := r.typeReference()
			if err != nil {
				return nil, err
			}
			members[i] = ir.UnionMember{Name: name, Type: typ}
		}
		return ir.UnionDeclaration{DeclarationBase: base, Members: members}, nil
	case tagFunctionDeclaration:
		ft, err := r.functionType()
		if err != nil {
			return nil, err
		}
		inN, err := r.u32()
		if err != nil {
			return nil, err
		}
		inNames := make([]string, inN)
		for i := range inNames {
			inNames[i], err = r.str()
			if err != nil {
				return nil, err
			}
		}
		outN, err := r.u32()
		if err != nil {
			return nil, err
		}
		outNames := make([]string, outN)
		for i := range outNames {
			outNames[i], err = r.str()
			if err != nil {
				return nil, err
			}
		}
		locN, err := r.u32()
		if err != nil {
			return nil, err
		}
		locs := make([]ir.SourceRangeLocation, locN)
		for i := range locs {
			locs[i], err = r.sourceRangeLocation()
			if err != nil {
				return nil, err
			}
		}
		return ir.FunctionDeclaration{
			DeclarationBase: base, Type: ft, InputParameterNames: inNames, OutputParameterNames: outNames, ParameterLocations: locs,
		}, nil
	case tagGlobalVariableDeclaration:
		typ, err := r.typeReference()
		if err != nil {
			return nil, err
		}
		mutable, err := r.boolean()
		if err != nil {
			return nil, err
		}
		hasInitial, err := r.boolean()
		if err != nil {
			return nil, err
		}
		var initial ir.Statement
		if hasInitial {
			initial, err = r.statement()
			if err != nil {
				return nil, err
			}
		}
		return ir.GlobalVariableDeclaration{DeclarationBase: base, Type: typ, IsMutable: mutable, InitialValue: initial, HasInitial: hasInitial}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown declaration tag %d", tag)
	}
}

// --- Module ---

// EncodeModuleBinary renders m as the packed binary form: a fixed field
// order per spec, so two encoders never disagree about layout the way a
// generic reflective codec might.
func EncodeModuleBinary(m *ir.Module) ([]byte, error) {
	w := &writer{}
	w.str(m.Name)
	w.str(m.SourceFilePath)
	w.boolean(m.HasContentHash)
	w.u64(m.ContentHash)
	w.str(m.LanguageVersion)
	w.str(m.Comment)

	w.u32(uint32(len(m.Dependencies)))
	for _, d := range m.Dependencies {
		w.str(d)
	}

	w.u32(uint32(len(m.AliasImports)))
	for _, a := range m.AliasImports {
		w.str(a.ModuleName)
		w.str(a.Alias)
		w.u32(uint32(len(a.Usages)))
		for _, u := range a.Usages {
			w.str(u)
		}
	}

	w.u32(uint32(len(m.ExportDeclarations)))
	for _, d := range m.ExportDeclarations {
		if err := w.declaration(d); err != nil {
			return nil, err
		}
	}

	w.u32(uint32(len(m.InternalDeclarations)))
	for _, d := range m.InternalDeclarations {
		if err := w.declaration(d); err != nil {
			return nil, err
		}
	}

	w.u32(uint32(len(m.Definitions)))
	for name, s := range m.Definitions {
		w.str(name)
		if err := w.statement(s); err != nil {
			return nil, err
		}
	}

	return w.buf.Bytes(), nil
}

// DecodeModuleBinary parses the output of EncodeModuleBinary, bijective
// with encoding for any module EncodeModuleBinary can accept. Map
// iteration order for Definitions is not preserved (maps have none), but
// the key/value pairs round-trip exactly.
func DecodeModuleBinary(data []byte) (*ir.Module, error) {
	r := &reader{data: data}

	name, err := r.str()
	if err != nil {
		return nil, err
	}
	sourcePath, err := r.str()
	if err != nil {
		return nil, err
	}
	hasHash, err := r.boolean()
	if err != nil {
		return nil, err
	}
	hash, err := r.u64()
	if err != nil {
		return nil, err
	}
	langVersion, err := r.str()
	if err != nil {
		return nil, err
	}
	comment, err := r.str()
	if err != nil {
		return nil, err
	}

	depN, err := r.u32()
	if err != nil {
		return nil, err
	}
	deps := make([]string, depN)
	for i := range deps {
		deps[i], err = r.str()
		if err != nil {
			return nil, err
		}
	}

	aliasN, err := r.u32()
	if err != nil {
		return nil, err
	}
	aliases := make([]ir.AliasImport, aliasN)
	for i := range aliases {
		moduleName, err := r.str()
		if err != nil {
			return nil, err
		}
		alias, err := r.str()
		if err != nil {
			return nil, err
		}
		usageN, err := r.u32()
		if err != nil {
			return nil, err
		}
		usages := make([]string, usageN)
		for j := range usages {
			usages[j], err = r.str()
			if err != nil {
				return nil, err
			}
		}
		aliases[i] = ir.AliasImport{ModuleName: moduleName, Alias: alias, Usages: usages}
	}

	exportN, err := r.u32()
	if err != nil {
		return nil, err
	}
	exports := make([]ir.Declaration, exportN)
	for i := range exports {
		exports[i], err = r.declaration()
		if err != nil {
			return nil, err
		}
	}

	internalN, err := r.u32()
	if err != nil {
		return nil, err
	}
	internals := make([]ir.Declaration, internalN)
	for i := range internals {
		internals[i], err = r.declaration()
		if err != nil {
			return nil, err
		}
	}

	defN, err := r.u32()
	if err != nil {
		return nil, err
	}
	definitions := make(map[string]ir.Statement, defN)
	for i := uint32(0); i < defN; i++ {
		defName, err := r.str()
		if err != nil {
			return nil, err
		}
		stmt, err := r.statement()
		if err != nil {
			return nil, err
		}
		definitions[defName] = stmt
	}

	return &ir.Module{
		Name: name, SourceFilePath: sourcePath, ContentHash: hash, HasContentHash: hasHash,
		LanguageVersion: langVersion, Comment: comment, Dependencies: deps, AliasImports: aliases,
		ExportDeclarations: exports, InternalDeclarations: internals, Definitions: definitions,
	}, nil
}
