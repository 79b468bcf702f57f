package types

// Aggregate is an aggregate function application. Arg is nil for COUNT(*).
type Aggregate struct {
	Fn       AggregateFunc
	Distinct bool
	Arg      Expr
	Window   bool
}

func (Aggregate) node() {}

// DataType follows the per-function widening rules. Everything but COUNT is optional.
func (a Aggregate) DataType() DataType {
	switch a.Fn {
	case AggCount:
		return DataType{Kind: KindIntegral}
	case AggAvg:
		return DataType{Kind: KindFloatingPoint, Optional: true}
	case AggSum:
		kind := a.Arg.DataType().Kind
		switch kind {
		case KindBoolean, KindNull:
			kind = KindIntegral
		}
		return DataType{Kind: kind, Optional: true}
	default:
		return a.Arg.DataType().AsOptional()
	}
}

// Over returns the aggregate decorated with an empty window, OVER().
func (a Aggregate) Over() Aggregate {
	a.Window = true
	return a
}

// Function is a scalar function call. NoParens renders the bare name (CURRENT_DATE).
type Function struct {
	Name     string
	Args     []Expr
	Type     DataType
	NoParens bool
}

func (Function) node() {}

func (f Function) DataType() DataType { return f.Type }

// When is one branch of a CASE expression.
type When struct {
	Cond   Expr
	Result Expr
}

// Case is a searched CASE expression.
type Case struct {
	Whens []When
	Else  Expr
}

func (Case) node() {}

func (c Case) DataType() DataType {
	if len(c.Whens) == 0 {
		return NoValue
	}
	t := c.Whens[0].Result.DataType()
	for _, w := range c.Whens[1:] {
		if rt := w.Result.DataType(); !rt.IsNull() && t.IsNull() {
			t = rt
		}
	}
	optional := c.Else == nil
	for _, w := range c.Whens {
		optional = optional || w.Result.DataType().Optional
	}
	if c.Else != nil {
		optional = optional || c.Else.DataType().Optional
	}
	t.Optional = optional || t.IsNull()
	return t
}
