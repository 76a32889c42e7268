package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/hlang-toolchain/hlang/internal/ir"
)

// envelope wraps a sum-type value with the string form of its kind tag,
// used wherever a TypeReference/Expression/Declaration would otherwise
// lose its concrete type during encoding/json's interface handling.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func wrap(kind string, v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kind, Data: data})
}

// --- TypeReference ---

func marshalTypeReference(t ir.TypeReference) (json.RawMessage, error) {
	switch v := t.(type) {
	case ir.BuiltinTypeReference:
		return wrap("builtin", v)
	case ir.FundamentalType:
		return wrap("fundamental", v)
	case ir.IntegerType:
		return wrap("integer", v)
	case ir.ConstantArrayType:
		payload, err := marshalTypeReference(v.ValueType)
		if err != nil {
			return nil, err
		}
		return wrap("constant_array", struct {
			ValueType json.RawMessage `json:"value_type"`
			Size      uint64          `json:"size"`
		}{payload, v.Size})
	case ir.PointerType:
		var payload json.RawMessage
		if v.ElementType != nil {
			var err error
			payload, err = marshalTypeReference(v.ElementType)
			if err != nil {
				return nil, err
			}
		}
		return wrap("pointer", struct {
			ElementType json.RawMessage `json:"element_type,omitempty"`
			IsMutable   bool            `json:"is_mutable"`
		}{payload, v.IsMutable})
	case ir.FunctionType:
		return wrap("function", mustMarshalFunctionType(v))
	case ir.CustomTypeReference:
		return wrap("custom", v)
	case ir.ParameterType:
		return wrap("parameter", v)
	case ir.TypeInstance:
		ctor, err := marshalTypeReference(v.Constructor)
		if err != nil {
			return nil, err
		}
		args := make([]json.RawMessage, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i], err = marshalTypeReference(a)
			if err != nil {
				return nil, err
			}
		}
		return wrap("type_instance", struct {
			Constructor json.RawMessage   `json:"constructor"`
			Arguments   []json.RawMessage `json:"arguments"`
		}{ctor, args})
	default:
		return nil, fmt.Errorf("serialize: unknown type reference %T", t)
	}
}

type functionTypeJSON struct {
	InputParameterTypes  []json.RawMessage `json:"input_parameter_types"`
	OutputParameterTypes []json.RawMessage `json:"output_parameter_types"`
	IsVariadic           bool              `json:"is_variadic"`
}

func mustMarshalFunctionType(v ir.FunctionType) functionTypeJSON {
	in := make([]json.RawMessage, len(v.InputParameterTypes))
	for i, t := range v.InputParameterTypes {
		in[i], _ = marshalTypeReference(t)
	}
	out := make([]json.RawMessage, len(v.OutputParameterTypes))
	for i, t := range v.OutputParameterTypes {
		out[i], _ = marshalTypeReference(t)
	}
	return functionTypeJSON{in, out, v.IsVariadic}
}

func unmarshalTypeReference(raw json.RawMessage) (ir.TypeReference, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	switch e.Kind {
	case "builtin":
		var v ir.BuiltinTypeReference
		return v, json.Unmarshal(e.Data, &v)
	case "fundamental":
		var v ir.FundamentalType
		return v, json.Unmarshal(e.Data, &v)
	case "integer":
		var v ir.IntegerType
		return v, json.Unmarshal(e.Data, &v)
	case "constant_array":
		var payload struct {
			ValueType json.RawMessage `json:"value_type"`
			Size      uint64          `json:"size"`
		}
		if err := json.Unmarshal(e.Data, &payload); err != nil {
			return nil, err
		}
		elem, err := unmarshalTypeReference(payload.ValueType)
		if err != nil {
			return nil, err
		}
		return ir.ConstantArrayType{ValueType: elem, Size: payload.Size}, nil
	case "pointer":
		var payload struct {
			ElementType json.RawMessage `json:"element_type,omitempty"`
			IsMutable   bool            `json:"is_mutable"`
		}
		if err := json.Unmarshal(e.Data, &payload); err != nil {
			return nil, err
		}
		var elem ir.TypeReference
		if len(payload.ElementType) > 0 {
			var err error
			elem, err = unmarshalTypeReference(payload.ElementType)
			if err != nil {
				return nil, err
			}
		}
		return ir.PointerType{ElementType: elem, IsMutable: payload.IsMutable}, nil
	case "function":
		var payload functionTypeJSON
		if err := json.Unmarshal(e.Data, &payload); err != nil {
			return nil, err
		}
		ft, err := unmarshalFunctionType(payload)
		return ft, err
	case "custom":
		var v ir.CustomTypeReference
		return v, json.Unmarshal(e.Data, &v)
	case "parameter":
		var v ir.ParameterType
		return v, json.Unmarshal(e.Data, &v)
	case "type_instance":
		var payload struct {
			Constructor json.RawMessage   `json:"constructor"`
			Arguments   []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(e.Data, &payload); err != nil {
			return nil, err
		}
		ctor, err := unmarshalTypeReference(payload.Constructor)
		if err != nil {
			return nil, err
		}
		args := make([]ir.TypeReference, len(payload.Arguments))
		for i, a := range payload.Arguments {
			args[i], err = unmarshalTypeReference(a)
			if err != nil {
				return nil, err
			}
		}
		return ir.TypeInstance{Constructor: ctor, Arguments: args}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown type reference kind %q", e.Kind)
	}
}

func unmarshalFunctionType(payload functionTypeJSON) (ir.FunctionType, error) {
	in := make([]ir.TypeReference, len(payload.InputParameterTypes))
	for i, raw := range payload.InputParameterTypes {
		t, err := unmarshalTypeReference(raw)
		if err != nil {
			return ir.FunctionType{}, err
		}
		in[i] = t
	}
	out := make([]ir.TypeReference, len(payload.OutputParameterTypes))
	for i, raw := range payload.OutputParameterTypes {
		t, err := unmarshalTypeReference(raw)
		if err != nil {
			return ir.FunctionType{}, err
		}
		out[i] = t
	}
	return ir.FunctionType{InputParameterTypes: in, OutputParameterTypes: out, IsVariadic: payload.IsVariadic}, nil
}

// --- Expression / Statement ---

type expressionIndexJSON struct {
	Index int `json:"index"`
}

func marshalExpressionIndex(i ir.ExpressionIndex) expressionIndexJSON {
	return expressionIndexJSON{Index: i.Index}
}

func unmarshalExpressionIndex(j expressionIndexJSON) ir.ExpressionIndex {
	return ir.ExpressionIndex{Index: j.Index}
}

func marshalStatement(s ir.Statement) (json.RawMessage, error) {
	exprs := make([]json.RawMessage, len(s.Expressions))
	for i, e := range s.Expressions {
		raw, err := marshalExpression(e)
		if err != nil {
			return nil, err
		}
		exprs[i] = raw
	}
	return json.Marshal(struct {
		Expressions []json.RawMessage `json:"expressions"`
	}{exprs})
}

func unmarshalStatement(raw json.RawMessage) (ir.Statement, error) {
	var payload struct {
		Expressions []json.RawMessage `json:"expressions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ir.Statement{}, err
	}
	exprs := make([]ir.Expression, len(payload.Expressions))
	for i, raw := range payload.Expressions {
		e, err := unmarshalExpression(raw)
		if err != nil {
			return ir.Statement{}, err
		}
		exprs[i] = e
	}
	return ir.Statement{Expressions: exprs}, nil
}

func marshalExpression(e ir.Expression) (json.RawMessage, error) {
	switch v := e.(type) {
	case ir.AccessExpression:
		return wrap("access", struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
			MemberName string              `json:"member_name"`
			AccessType ir.AccessType       `json:"access_type"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Expression), v.MemberName, v.AccessType})
	case ir.BinaryExpression:
		return wrap("binary", struct {
			ir.ExpressionBase
			LeftHandSide  expressionIndexJSON `json:"left"`
			RightHandSide expressionIndexJSON `json:"right"`
			Operation     ir.BinaryOperation  `json:"operation"`
		}{v.ExpressionBase, marshalExpressionIndex(v.LeftHandSide), marshalExpressionIndex(v.RightHandSide), v.Operation})
	case ir.CastExpression:
		dest, err := marshalTypeReference(v.DestinationType)
		if err != nil {
			return nil, err
		}
		return wrap("cast", struct {
			ir.ExpressionBase
			Source          expressionIndexJSON `json:"source"`
			DestinationType json.RawMessage     `json:"destination_type"`
			CastType        ir.CastType         `json:"cast_type"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Source), dest, v.CastType})
	case ir.ConstantExpression:
		typ, err := marshalTypeReference(v.Type)
		if err != nil {
			return nil, err
		}
		return wrap("constant", struct {
			ir.ExpressionBase
			Type json.RawMessage `json:"type"`
			Data string          `json:"data"`
		}{v.ExpressionBase, typ, v.Data})
	case ir.ConstantArrayExpression:
		typ, err := marshalTypeReference(v.Type)
		if err != nil {
			return nil, err
		}
		elements := make([]json.RawMessage, len(v.ArrayData))
		for i, s := range v.ArrayData {
			elements[i], err = marshalStatement(s)
			if err != nil {
				return nil, err
			}
		}
		return wrap("constant_array", struct {
			ir.ExpressionBase
			Type      json.RawMessage   `json:"type"`
			ArrayData []json.RawMessage `json:"array_data"`
		}{v.ExpressionBase, typ, elements})
	case ir.InstantiateExpression:
		members := make([]struct {
			MemberName string          `json:"member_name"`
			Value      json.RawMessage `json:"value"`
		}, len(v.Members))
		for i, m := range v.Members {
			raw, err := marshalStatement(m.Value)
			if err != nil {
				return nil, err
			}
			members[i].MemberName = m.MemberName
			members[i].Value = raw
		}
		return wrap("instantiate", struct {
			ir.ExpressionBase
			Type    ir.InstantiateExpressionType `json:"type"`
			Members []struct {
				MemberName string          `json:"member_name"`
				Value      json.RawMessage `json:"value"`
			} `json:"members"`
		}{v.ExpressionBase, v.Type, members})
	case ir.NullPointerExpression:
		return wrap("null_pointer", v)
	case ir.ParenthesisExpression:
		return wrap("parenthesis", struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Expression)})
	case ir.ReturnExpression:
		return wrap("return", struct {
			ir.ExpressionBase
			Value    expressionIndexJSON `json:"value"`
			HasValue bool                `json:"has_value"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Value), v.HasValue})
	case ir.CallExpression:
		args := make([]expressionIndexJSON, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = marshalExpressionIndex(a)
		}
		return wrap("call", struct {
			ir.ExpressionBase
			Function  expressionIndexJSON   `json:"function"`
			Arguments []expressionIndexJSON `json:"arguments"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Function), args})
	case ir.VariableDeclarationExpression:
		return wrap("variable_declaration", struct {
			ir.ExpressionBase
			Name          string              `json:"name"`
			IsMutable     bool                `json:"is_mutable"`
			RightHandSide expressionIndexJSON `json:"right_hand_side"`
		}{v.ExpressionBase, v.Name, v.IsMutable, marshalExpressionIndex(v.RightHandSide)})
	case ir.UnaryExpression:
		return wrap("unary", struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
			Operation  ir.UnaryOperation   `json:"operation"`
		}{v.ExpressionBase, marshalExpressionIndex(v.Expression), v.Operation})
	case ir.VariableExpression:
		return wrap("variable", v)
	case ir.TypeExpression:
		typ, err := marshalTypeReference(v.Type)
		if err != nil {
			return nil, err
		}
		return wrap("type", struct {
			ir.ExpressionBase
			Type json.RawMessage `json:"type"`
		}{v.ExpressionBase, typ})
	default:
		return nil, fmt.Errorf("serialize: unknown expression %T", e)
	}
}

func unmarshalExpression(raw json.RawMessage) (ir.Expression, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	switch e.Kind {
	case "access":
		var p struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
			MemberName string              `json:"member_name"`
			AccessType ir.AccessType       `json:"access_type"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.AccessExpression{ExpressionBase: p.ExpressionBase, Expression: unmarshalExpressionIndex(p.Expression), MemberName: p.MemberName, AccessType: p.AccessType}, nil
	case "binary":
		var p struct {
			ir.ExpressionBase
			LeftHandSide  expressionIndexJSON `json:"left"`
			RightHandSide expressionIndexJSON `json:"right"`
			Operation     ir.BinaryOperation  `json:"operation"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.BinaryExpression{ExpressionBase: p.ExpressionBase, LeftHandSide: unmarshalExpressionIndex(p.LeftHandSide), RightHandSide: unmarshalExpressionIndex(p.RightHandSide), Operation: p.Operation}, nil
	case "cast":
		var p struct {
			ir.ExpressionBase
			Source          expressionIndexJSON `json:"source"`
			DestinationType json.RawMessage     `json:"destination_type"`
			CastType        ir.CastType         `json:"cast_type"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		dest, err := unmarshalTypeReference(p.DestinationType)
		if err != nil {
			return nil, err
		}
		return ir.CastExpression{ExpressionBase: p.ExpressionBase, Source: unmarshalExpressionIndex(p.Source), DestinationType: dest, CastType: p.CastType}, nil
	case "constant":
		var p struct {
			ir.ExpressionBase
			Type json.RawMessage `json:"type"`
			Data string          `json:"data"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		typ, err := unmarshalTypeReference(p.Type)
		if err != nil {
			return nil, err
		}
		return ir.ConstantExpression{ExpressionBase: p.ExpressionBase, Type: typ, Data: p.Data}, nil
	case "constant_array":
		var p struct {
			ir.ExpressionBase
			Type      json.RawMessage   `json:"type"`
			ArrayData []json.RawMessage `json:"array_data"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		typ, err := unmarshalTypeReference(p.Type)
		if err != nil {
			return nil, err
		}
		elements := make([]ir.Statement, len(p.ArrayData))
		for i, raw := range p.ArrayData {
			elements[i], err = unmarshalStatement(raw)
			if err != nil {
				return nil, err
			}
		}
		return ir.ConstantArrayExpression{ExpressionBase: p.ExpressionBase, Type: typ, ArrayData: elements}, nil
	case "instantiate":
		var p struct {
			ir.ExpressionBase
			Type    ir.InstantiateExpressionType `json:"type"`
			Members []struct {
				MemberName string          `json:"member_name"`
				Value      json.RawMessage `json:"value"`
			} `json:"members"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		members := make([]ir.InstantiateMemberValuePair, len(p.Members))
		for i, m := range p.Members {
			value, err := unmarshalStatement(m.Value)
			if err != nil {
				return nil, err
			}
			members[i] = ir.InstantiateMemberValuePair{MemberName: m.MemberName, Value: value}
		}
		return ir.InstantiateExpression{ExpressionBase: p.ExpressionBase, Type: p.Type, Members: members}, nil
	case "null_pointer":
		var v ir.NullPointerExpression
		return v, json.Unmarshal(e.Data, &v)
	case "parenthesis":
		var p struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.ParenthesisExpression{ExpressionBase: p.ExpressionBase, Expression: unmarshalExpressionIndex(p.Expression)}, nil
	case "return":
		var p struct {
			ir.ExpressionBase
			Value    expressionIndexJSON `json:"value"`
			HasValue bool                `json:"has_value"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.ReturnExpression{ExpressionBase: p.ExpressionBase, Value: unmarshalExpressionIndex(p.Value), HasValue: p.HasValue}, nil
	case "call":
		var p struct {
			ir.ExpressionBase
			Function  expressionIndexJSON   `json:"function"`
			Arguments []expressionIndexJSON `json:"arguments"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		args := make([]ir.ExpressionIndex, len(p.Arguments))
		for i, a := range p.Arguments {
			args[i] = unmarshalExpressionIndex(a)
		}
		return ir.CallExpression{ExpressionBase: p.ExpressionBase, Function: unmarshalExpressionIndex(p.Function), Arguments: args}, nil
	case "variable_declaration":
		var p struct {
			ir.ExpressionBase
			Name          string              `json:"name"`
			IsMutable     bool                `json:"is_mutable"`
			RightHandSide expressionIndexJSON `json:"right_hand_side"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.VariableDeclarationExpression{ExpressionBase: p.ExpressionBase, Name: p.Name, IsMutable: p.IsMutable, RightHandSide: unmarshalExpressionIndex(p.RightHandSide)}, nil
	case "unary":
		var p struct {
			ir.ExpressionBase
			Expression expressionIndexJSON `json:"expression"`
			Operation  ir.UnaryOperation   `json:"operation"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		return ir.UnaryExpression{ExpressionBase: p.ExpressionBase, Expression: unmarshalExpressionIndex(p.Expression), Operation: p.Operation}, nil
	case "variable":
		var v ir.VariableExpression
		return v, json.Unmarshal(e.Data, &v)
	case "type":
		var p struct {
			ir.ExpressionBase
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		typ, err := unmarshalTypeReference(p.Type)
		if err != nil {
			return nil, err
		}
		return ir.TypeExpression{ExpressionBase: p.ExpressionBase, Type: typ}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown expression kind %q", e.Kind)
	}
}

// --- Declaration ---

func marshalDeclaration(d ir.Declaration) (json.RawMessage, error) {
	switch v := d.(type) {
	case ir.AliasTypeDeclaration:
		target, err := marshalTypeReference(v.TargetType)
		if err != nil {
			return nil, err
		}
		return wrap("alias", struct {
			ir.DeclarationBase
			TargetType json.RawMessage `json:"target_type"`
		}{v.DeclarationBase, target})
	case ir.EnumDeclaration:
		values := make([]struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}, len(v.Values))
		for i, ev := range v.Values {
			raw, err := marshalStatement(ev.Value)
			if err != nil {
				return nil, err
			}
			values[i] = struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			}{ev.Name, raw}
		}
		return wrap("enum", struct {
			ir.DeclarationBase
			Values []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"values"`
		}{v.DeclarationBase, values})
	case ir.StructDeclaration:
		memberTypes := make([]json.RawMessage, len(v.MemberTypes))
		for i, t := range v.MemberTypes {
			raw, err := marshalTypeReference(t)
			if err != nil {
				return nil, err
			}
			memberTypes[i] = raw
		}
		defaults := make([]json.RawMessage, len(v.MemberDefaultValues))
		for i, s := range v.MemberDefaultValues {
			raw, err := marshalStatement(s)
			if err != nil {
				return nil, err
			}
			defaults[i] = raw
		}
		return wrap("struct", struct {
			ir.DeclarationBase
			MemberTypes         []json.RawMessage `json:"member_types"`
			MemberNames         []string          `json:"member_names"`
			MemberDefaultValues []json.RawMessage `json:"member_default_values"`
			HasDefaultValue     []bool            `json:"has_default_value"`
			IsPacked            bool              `json:"is_packed"`
			IsLiteral           bool              `json:"is_literal"`
		}{v.DeclarationBase, memberTypes, v.MemberNames, defaults, v.HasDefaultValue, v.IsPacked, v.IsLiteral})
	case ir.UnionDeclaration:
		members := make([]struct {
			Name string          `json:"name"`
			Type json.RawMessage `json:"type"`
		}, len(v.Members))
		for i, m := range v.Members {
			raw, err := marshalTypeReference(m.Type)
			if err != nil {
				return nil, err
			}
			members[i] = struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			}{m.Name, raw}
		}
		return wrap("union", struct {
			ir.DeclarationBase
			Members []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"members"`
		}{v.DeclarationBase, members})
	case ir.FunctionDeclaration:
		ft := mustMarshalFunctionType(v.Type)
		return wrap("function", struct {
			ir.DeclarationBase
			Type                 functionTypeJSON      `json:"type"`
			InputParameterNames  []string              `json:"input_parameter_names"`
			OutputParameterNames []string              `json:"output_parameter_names"`
			ParameterLocations   []ir.SourceRangeLocation `json:"parameter_locations"`
		}{v.DeclarationBase, ft, v.InputParameterNames, v.OutputParameterNames, v.ParameterLocations})
	case ir.GlobalVariableDeclaration:
		typ, err := marshalTypeReference(v.Type)
		if err != nil {
			return nil, err
		}
		var initial json.RawMessage
		if v.HasInitial {
			initial, err = marshalStatement(v.InitialValue)
			if err != nil {
				return nil, err
			}
		}
		return wrap("global_variable", struct {
			ir.DeclarationBase
			Type         json.RawMessage `json:"type"`
			IsMutable    bool            `json:"is_mutable"`
			InitialValue json.RawMessage `json:"initial_value,omitempty"`
			HasInitial   bool            `json:"has_initial"`
		}{v.DeclarationBase, typ, v.IsMutable, initial, v.HasInitial})
	default:
		return nil, fmt.Errorf("serialize: unknown declaration %T", d)
	}
}

func unmarshalDeclaration(raw json.RawMessage) (ir.Declaration, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	switch e.Kind {
	case "alias":
		var p struct {
			ir.DeclarationBase
			TargetType json.RawMessage `json:"target_type"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		target, err := unmarshalTypeReference(p.TargetType)
		if err != nil {
			return nil, err
		}
		return ir.AliasTypeDeclaration{DeclarationBase: p.DeclarationBase, TargetType: target}, nil
	case "enum":
		var p struct {
			ir.DeclarationBase
			Values []struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
			} `json:"values"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		values := make([]ir.EnumValue, len(p.Values))
		for i, ev := range p.Values {
			stmt, err := unmarshalStatement(ev.Value)
			if err != nil {
				return nil, err
			}
			values[i] = ir.EnumValue{Name: ev.Name, Value: stmt}
		}
		return ir.EnumDeclaration{DeclarationBase: p.DeclarationBase, Values: values}, nil
	case "struct":
		var p struct {
			ir.DeclarationBase
			MemberTypes         []json.RawMessage `json:"member_types"`
			MemberNames         []string          `json:"member_names"`
			MemberDefaultValues []json.RawMessage `json:"member_default_values"`
			HasDefaultValue     []bool            `json:"has_default_value"`
			IsPacked            bool              `json:"is_packed"`
			IsLiteral           bool              `json:"is_literal"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		memberTypes := make([]ir.TypeReference, len(p.MemberTypes))
		for i, raw := range p.MemberTypes {
			t, err := unmarshalTypeReference(raw)
			if err != nil {
				return nil, err
			}
			memberTypes[i] = t
		}
		defaults := make([]ir.Statement, len(p.MemberDefaultValues))
		for i, raw := range p.MemberDefaultValues {
			s, err := unmarshalStatement(raw)
			if err != nil {
				return nil, err
			}
			defaults[i] = s
		}
		return ir.StructDeclaration{
			DeclarationBase: p.DeclarationBase, MemberTypes: memberTypes, MemberNames: p.MemberNames,
			MemberDefaultValues: defaults, HasDefaultValue: p.HasDefaultValue, IsPacked: p.IsPacked, IsLiteral: p.IsLiteral,
		}, nil
	case "union":
		var p struct {
			ir.DeclarationBase
			Members []struct {
				Name string          `json:"name"`
				Type json.RawMessage `json:"type"`
			} `json:"members"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		members := make([]ir.UnionMember, len(p.Members))
		for i, m := range p.Members {
			t, err := unmarshalTypeReference(m.Type)
			if err != nil {
				return nil, err
			}
			members[i] = ir.UnionMember{Name: m.Name, Type: t}
		}
		return ir.UnionDeclaration{DeclarationBase: p.DeclarationBase, Members: members}, nil
	case "function":
		var p struct {
			ir.DeclarationBase
			Type                 functionTypeJSON         `json:"type"`
			InputParameterNames  []string                 `json:"input_parameter_names"`
			OutputParameterNames []string                 `json:"output_parameter_names"`
			ParameterLocations   []ir.SourceRangeLocation `json:"parameter_locations"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		ft, err := unmarshalFunctionType(p.Type)
		if err != nil {
			return nil, err
		}
		return ir.FunctionDeclaration{
			DeclarationBase: p.DeclarationBase, Type: ft,
			InputParameterNames: p.InputParameterNames, OutputParameterNames: p.OutputParameterNames,
			ParameterLocations: p.ParameterLocations,
		}, nil
	case "global_variable":
		var p struct {
			ir.DeclarationBase
			Type         json.RawMessage `json:"type"`
			IsMutable    bool            `json:"is_mutable"`
			InitialValue json.RawMessage `json:"initial_value,omitempty"`
			HasInitial   bool            `json:"has_initial"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return nil, err
		}
		typ, err := unmarshalTypeReference(p.Type)
		if err != nil {
			return nil, err
		}
		var initial ir.Statement
		if p.HasInitial {
			initial, err = unmarshalStatement(p.InitialValue)
			if err != nil {
				return nil, err
			}
		}
		return ir.GlobalVariableDeclaration{DeclarationBase: p.DeclarationBase, Type: typ, IsMutable: p.IsMutable, InitialValue: initial, HasInitial: p.HasInitial}, nil
	default:
		return nil, fmt.Errorf("serialize: unknown declaration kind %q", e.Kind)
	}
}

// --- Module ---

type moduleJSON struct {
	Name                 string            `json:"name"`
	SourceFilePath       string            `json:"source_file_path"`
	ContentHash          uint64            `json:"content_hash"`
	HasContentHash       bool              `json:"has_content_hash"`
	LanguageVersion      string            `json:"language_version"`
	Comment              string            `json:"comment"`
	Dependencies         []string          `json:"dependencies"`
	AliasImports         []ir.AliasImport  `json:"alias_imports"`
	ExportDeclarations   []json.RawMessage `json:"export_declarations"`
	InternalDeclarations []json.RawMessage `json:"internal_declarations"`
	Definitions          map[string]json.RawMessage `json:"definitions"`
}

// EncodeModuleJSON renders m as deterministic, sorted-key JSON. Struct
// field order and encoding/json's alphabetic map-key sort together make
// byte-identical output for byte-identical modules.
func EncodeModuleJSON(m *ir.Module) ([]byte, error) {
	exports := make([]json.RawMessage, len(m.ExportDeclarations))
	for i, d := range m.ExportDeclarations {
		raw, err := marshalDeclaration(d)
		if err != nil {
			return nil, err
		}
		exports[i] = raw
	}
	internals := make([]json.RawMessage, len(m.InternalDeclarations))
	for i, d := range m.InternalDeclarations {
		raw, err := marshalDeclaration(d)
		if err != nil {
			return nil, err
		}
		internals[i] = raw
	}
	definitions := make(map[string]json.RawMessage, len(m.Definitions))
	for name, s := range m.Definitions {
		raw, err := marshalStatement(s)
		if err != nil {
			return nil, err
		}
		definitions[name] = raw
	}

	return json.Marshal(moduleJSON{
		Name: m.Name, SourceFilePath: m.SourceFilePath, ContentHash: m.ContentHash, HasContentHash: m.HasContentHash,
		LanguageVersion: m.LanguageVersion, Comment: m.Comment, Dependencies: m.Dependencies, AliasImports: m.AliasImports,
		ExportDeclarations: exports, InternalDeclarations: internals, Definitions: definitions,
	})
}

// DecodeModuleJSON parses the output of EncodeModuleJSON back into an
// ir.Module, bijective with encoding for any module EncodeModuleJSON can
// accept.
func DecodeModuleJSON(data []byte) (*ir.Module, error) {
	var mj moduleJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, err
	}

	exports := make([]ir.Declaration, len(mj.ExportDeclarations))
	for i, raw := range mj.ExportDeclarations {
		d, err := unmarshalDeclaration(raw)
		if err != nil {
			return nil, err
		}
		exports[i] = d
	}
	internals := make([]ir.Declaration, len(mj.InternalDeclarations))
	for i, raw := range mj.InternalDeclarations {
		d, err := unmarshalDeclaration(raw)
		if err != nil {
			return nil, err
		}
		internals[i] = d
	}
	definitions := make(map[string]ir.Statement, len(mj.Definitions))
	for name, raw := range mj.Definitions {
		s, err := unmarshalStatement(raw)
		if err != nil {
			return nil, err
		}
		definitions[name] = s
	}

	return &ir.Module{
		Name: mj.Name, SourceFilePath: mj.SourceFilePath, ContentHash: mj.ContentHash, HasContentHash: mj.HasContentHash,
		LanguageVersion: mj.LanguageVersion, Comment: mj.Comment, Dependencies: mj.Dependencies, AliasImports: mj.AliasImports,
		ExportDeclarations: exports, InternalDeclarations: internals, Definitions: definitions,
	}, nil
}
