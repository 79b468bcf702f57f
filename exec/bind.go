package exec

import (
	"fmt"
	"math"
	"time"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/internal/render"
	"github.com/zoobzio/tsql/internal/types"
)

// BindError reports a value that cannot be bound to a placeholder.
type BindError struct {
	Index  int
	Name   string
	Type   tsql.DataType
	Value  any
	Reason string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("exec: bind placeholder %d (%s, %s): %s", e.Index, e.Name, e.Type, e.Reason)
}

// nullable is implemented by Nullable so a null value can be bound.
type nullable interface {
	boundValue() (any, bool)
}

func bindAll(res *tsql.QueryResult, args []any) ([]any, error) {
	if len(args) != len(res.Params) {
		return nil, fmt.Errorf("exec: statement has %d placeholders, got %d arguments", len(res.Params), len(args))
	}
	out := make([]any, len(args))
	for i, desc := range res.Params {
		v, err := bind(desc, args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// bind checks v against the placeholder's data type and converts it to a value
// every database/sql driver accepts.
func bind(desc tsql.ParamDescriptor, v any) (any, error) {
	reject := func(format string, args ...any) error {
		return &BindError{Index: desc.Index, Name: desc.Name, Type: desc.Type, Value: v, Reason: fmt.Sprintf(format, args...)}
	}

	if n, ok := v.(nullable); ok {
		inner, valid := n.boundValue()
		if !valid {
			v = nil
		} else {
			v = inner
		}
	}
	if v == nil {
		if !desc.Type.Optional {
			return nil, reject("null for a required value")
		}
		return nil, nil
	}

	switch desc.Type.Kind {
	case types.KindBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case types.KindIntegral:
		if i, ok, inRange := asInt64(v); ok {
			if !inRange {
				return nil, reject("value out of range")
			}
			return i, nil
		}
	case types.KindUnsignedIntegral:
		if i, ok, inRange := asInt64(v); ok {
			// Drivers reject uint64 with the high bit set.
			if !inRange || i < 0 {
				return nil, reject("value out of range")
			}
			return i, nil
		}
	case types.KindFloatingPoint:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		}
		if i, ok, _ := asInt64(v); ok {
			return float64(i), nil
		}
	case types.KindText:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case types.KindBlob:
		if b, ok := v.([]byte); ok {
			return append([]byte(nil), b...), nil
		}
	case types.KindDate:
		if t, ok := v.(time.Time); ok {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	case types.KindTimestamp:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case types.KindTime:
		if d, ok := v.(time.Duration); ok {
			if d < 0 || d >= 24*time.Hour {
				return nil, reject("value out of range")
			}
			return render.FormatTimeOfDay(d), nil
		}
	}
	return nil, reject("cannot bind %T", v)
}

// asInt64 converts any Go integer. ok reports whether v is an integer at all,
// inRange whether it fits int64.
func asInt64(v any) (i int64, ok, inRange bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true, true
	case int8:
		return int64(x), true, true
	case int16:
		return int64(x), true, true
	case int32:
		return int64(x), true, true
	case int64:
		return x, true, true
	case uint:
		return int64(x), true, uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true, true
	case uint16:
		return int64(x), true, true
	case uint32:
		return int64(x), true, true
	case uint64:
		return int64(x), true, x <= math.MaxInt64
	}
	return 0, false, false
}
