package types

// Value is a literal. V holds one of: nil, bool, int64, uint64, float64, string,
// []byte, time.Time (date and timestamp kinds) or time.Duration (time kind).
type Value struct {
	Type DataType
	V    any
}

func (Value) node() {}

func (v Value) DataType() DataType { return v.Type }

// Param is a placeholder bound at execution time.
type Param struct {
	Name string
	Type DataType
}

func (Param) node() {}

func (p Param) DataType() DataType { return p.Type }

// Verbatim is raw SQL text of a declared type.
type Verbatim struct {
	SQL  string
	Type DataType
}

func (Verbatim) node() {}

func (v Verbatim) DataType() DataType { return v.Type }
