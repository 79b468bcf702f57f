package types

// Kind is the semantic SQL category of a value.
type Kind int

const (
	KindNone Kind = iota // assignments, sort items, clauses
	KindNull             // the NULL literal
	KindBoolean
	KindIntegral
	KindUnsignedIntegral
	KindFloatingPoint
	KindText
	KindBlob
	KindDate
	KindTimestamp
	KindTime
)

var kindNames = [...]string{
	KindNone:             "no value",
	KindNull:             "null",
	KindBoolean:          "boolean",
	KindIntegral:         "integral",
	KindUnsignedIntegral: "unsigned integral",
	KindFloatingPoint:    "floating point",
	KindText:             "text",
	KindBlob:             "blob",
	KindDate:             "date",
	KindTimestamp:        "timestamp",
	KindTime:             "time",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// DataType is a value kind together with its optionality.
type DataType struct {
	Kind     Kind
	Optional bool
}

// Null is the data type of the NULL literal.
var Null = DataType{Kind: KindNull, Optional: true}

// NoValue is the data type of nodes that do not produce a value.
var NoValue = DataType{Kind: KindNone}

// AsOptional returns d marked as nullable.
func (d DataType) AsOptional() DataType {
	d.Optional = true
	return d
}

// NonOptional returns d with optionality removed. NULL stays optional.
func (d DataType) NonOptional() DataType {
	if d.Kind == KindNull {
		return d
	}
	d.Optional = false
	return d
}

func (d DataType) String() string {
	if d.Optional && d.Kind != KindNull {
		return "optional " + d.Kind.String()
	}
	return d.Kind.String()
}

// HasValue reports whether d describes an actual SQL value.
func (d DataType) HasValue() bool { return d.Kind != KindNone }

// IsNull reports whether d is the type of the NULL literal.
func (d DataType) IsNull() bool { return d.Kind == KindNull }

// IsBoolean reports whether d is boolean (or NULL).
func (d DataType) IsBoolean() bool { return d.Kind == KindBoolean || d.Kind == KindNull }

// IsNumeric reports whether d is boolean, integral, unsigned or floating point (or NULL).
func (d DataType) IsNumeric() bool {
	switch d.Kind {
	case KindNull, KindBoolean, KindIntegral, KindUnsignedIntegral, KindFloatingPoint:
		return true
	}
	return false
}

// IsIntegral reports whether d is integral or unsigned integral (or NULL).
func (d DataType) IsIntegral() bool {
	switch d.Kind {
	case KindNull, KindIntegral, KindUnsignedIntegral:
		return true
	}
	return false
}

// IsText reports whether d is text (or NULL).
func (d DataType) IsText() bool { return d.Kind == KindText || d.Kind == KindNull }

// IsBlob reports whether d is blob (or NULL).
func (d DataType) IsBlob() bool { return d.Kind == KindBlob || d.Kind == KindNull }

// IsTemporal reports whether d is a date or a timestamp (or NULL).
func (d DataType) IsTemporal() bool {
	switch d.Kind {
	case KindNull, KindDate, KindTimestamp:
		return true
	}
	return false
}

// IsTime reports whether d is a time of day (or NULL).
func (d DataType) IsTime() bool { return d.Kind == KindTime || d.Kind == KindNull }

// Comparable reports whether values of type a and b may be compared with each other.
func Comparable(a, b DataType) bool {
	if !a.HasValue() || !b.HasValue() {
		return false
	}
	if a.IsNull() || b.IsNull() {
		return true
	}
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return true
	case a.IsText() && b.IsText():
		return true
	case a.IsBlob() && b.IsBlob():
		return true
	case a.IsTemporal() && b.IsTemporal():
		return true
	case a.IsTime() && b.IsTime():
		return true
	}
	return false
}

// Assignable reports whether a value of type value can be stored in a column of type column.
func Assignable(column, value DataType) bool {
	if value.IsNull() {
		return column.Optional
	}
	if value.Optional && !column.Optional {
		return false
	}
	return Comparable(column, value)
}

// ForceOptional marks result optional when any operand is optional.
func ForceOptional(result DataType, operands ...DataType) DataType {
	for _, o := range operands {
		if o.Optional {
			return result.AsOptional()
		}
	}
	return result
}

// ArithmeticResult computes the type of a numeric binary operation.
// Floating point wins, two unsigned operands stay unsigned, everything else is integral.
func ArithmeticResult(a, b DataType) DataType {
	var kind Kind
	switch {
	case a.IsNull() && b.IsNull():
		return Null
	case a.IsNull():
		kind = numericKind(b.Kind)
	case b.IsNull():
		kind = numericKind(a.Kind)
	case a.Kind == KindFloatingPoint || b.Kind == KindFloatingPoint:
		kind = KindFloatingPoint
	case a.Kind == KindUnsignedIntegral && b.Kind == KindUnsignedIntegral:
		kind = KindUnsignedIntegral
	default:
		kind = KindIntegral
	}
	return ForceOptional(DataType{Kind: kind}, a, b)
}

func numericKind(k Kind) Kind {
	if k == KindBoolean {
		return KindIntegral
	}
	return k
}
