package tsql

import (
	"math"
	"time"

	"github.com/zoobzio/tsql/internal/types"
)

// Null is the NULL literal.
var Null = types.Value{Type: types.Null}

// Default is the DEFAULT keyword for assignments.
var Default = types.DefaultValue{}

// TryV converts a Go value into a literal.
func TryV(x any) (types.Value, error) {
	switch v := x.(type) {
	case nil:
		return Null, nil
	case bool:
		return types.Value{Type: Boolean, V: v}, nil
	case int:
		return types.Value{Type: Integral, V: int64(v)}, nil
	case int8:
		return types.Value{Type: Integral, V: int64(v)}, nil
	case int16:
		return types.Value{Type: Integral, V: int64(v)}, nil
	case int32:
		return types.Value{Type: Integral, V: int64(v)}, nil
	case int64:
		return types.Value{Type: Integral, V: v}, nil
	case uint:
		return types.Value{Type: Unsigned, V: uint64(v)}, nil
	case uint8:
		return types.Value{Type: Unsigned, V: uint64(v)}, nil
	case uint16:
		return types.Value{Type: Unsigned, V: uint64(v)}, nil
	case uint32:
		return types.Value{Type: Unsigned, V: uint64(v)}, nil
	case uint64:
		return types.Value{Type: Unsigned, V: v}, nil
	case float32:
		return floatValue(float64(v))
	case float64:
		return floatValue(v)
	case string:
		return types.Value{Type: Text, V: v}, nil
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)
		return types.Value{Type: Blob, V: b}, nil
	case time.Time:
		return types.Value{Type: Timestamp, V: v}, nil
	case types.Value:
		return v, nil
	}
	return types.Value{}, types.Rejectf("v()", "unsupported literal type %T", x)
}

func floatValue(f float64) (types.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return types.Value{}, types.Rejectf("v()", "floating point value %v has no SQL literal", f)
	}
	return types.Value{Type: Float, V: f}, nil
}

// V converts a Go value into a literal and panics if it has no SQL form.
func V(x any) types.Value {
	v, err := TryV(x)
	if err != nil {
		panic(err)
	}
	return v
}

// DateOf returns a date literal.
func DateOf(year int, month time.Month, day int) types.Value {
	return types.Value{Type: Date, V: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// TryTimeOfDay returns a time literal for a duration since midnight.
func TryTimeOfDay(d time.Duration) (types.Value, error) {
	if d < 0 || d >= 24*time.Hour {
		return types.Value{}, types.Rejectf("time_of_day()", "%v is not within a day", d)
	}
	return types.Value{Type: Time, V: d}, nil
}

// TimeOfDay returns a time literal for a duration since midnight.
func TimeOfDay(d time.Duration) types.Value {
	v, err := TryTimeOfDay(d)
	if err != nil {
		panic(err)
	}
	return v
}

// TryP creates a named parameter placeholder.
func TryP(name string, t DataType) (types.Param, error) {
	if !types.ValidIdentifier(name) {
		return types.Param{}, types.Rejectf("parameter()", "name %q is not a valid identifier", name)
	}
	if !t.HasValue() {
		return types.Param{}, types.Rejectf("parameter()", "%s requires a value type", name)
	}
	return types.Param{Name: name, Type: t}, nil
}

// P creates a named parameter placeholder.
func P(name string, t DataType) types.Param {
	p, err := TryP(name, t)
	if err != nil {
		panic(err)
	}
	return p
}

// ParamFor creates a parameter named and typed after col.
func ParamFor(col Column) types.Param {
	return types.Param{Name: col.Name, Type: col.Type}
}

// Verbatim embeds raw SQL text of the declared type. The text is not checked.
func Verbatim(sql string, t DataType) types.Verbatim {
	return types.Verbatim{SQL: sql, Type: t}
}

// TryDynamic wraps x so it is only rendered when present is true.
func TryDynamic(present bool, x any) (types.Dynamic, error) {
	n, err := toNode("dynamic()", x)
	if err != nil {
		return types.Dynamic{}, err
	}
	if d, ok := n.(types.Dynamic); ok {
		return types.Dynamic{Present: present && d.Present, Node: d.Node}, nil
	}
	return types.Dynamic{Present: present, Node: n}, nil
}

// Dynamic wraps x so it is only rendered when present is true.
func Dynamic(present bool, x any) types.Dynamic {
	d, err := TryDynamic(present, x)
	if err != nil {
		panic(err)
	}
	return d
}

// toNode converts builder values and Go literals into tree nodes.
func toNode(op string, x any) (types.Node, error) {
	switch v := x.(type) {
	case types.Node:
		return v, nil
	case SelectBuilder:
		sel, err := v.subquery(op)
		if err != nil {
			return nil, err
		}
		return types.Subquery{Query: sel}, nil
	case JoinSource:
		return v.node, v.err
	case CommonTable:
		if v.err != nil {
			return nil, v.err
		}
		return v.cte, nil
	case Derived:
		return v.dt, v.err
	case CaseBuilder:
		return v.TryEnd()
	}
	val, err := TryV(x)
	if err != nil {
		return nil, types.Rejectf(op, "unsupported operand type %T", x)
	}
	return val, nil
}

// toExpr converts x into a value-producing expression.
func toExpr(op string, x any) (types.Expr, error) {
	n, err := toNode(op, x)
	if err != nil {
		return nil, err
	}
	e, ok := n.(types.Expr)
	if !ok || !e.DataType().HasValue() {
		return nil, types.Rejectf(op, "operand %T does not produce a value", n)
	}
	return e, nil
}

func toExprs(op string, xs []any) ([]types.Expr, error) {
	out := make([]types.Expr, 0, len(xs))
	for _, x := range xs {
		e, err := toExpr(op, x)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
