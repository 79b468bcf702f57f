package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/tsql/internal/types"
)

// operand renders e in parentheses when it is an operator nested inside another one.
func (c *Context) operand(b *strings.Builder, e types.Expr) error {
	if !types.NeedsParens(e) {
		return c.expr(b, e)
	}
	if _, ok := unwrap(e); !ok {
		return c.expr(b, e)
	}
	b.WriteString("(")
	if err := c.expr(b, e); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) expr(b *strings.Builder, e types.Expr) error {
	switch e := e.(type) {
	case types.Column:
		c.column(b, e)
	case types.Value:
		return c.literal(b, e)
	case types.Param:
		b.WriteString(c.param(e))
	case types.Verbatim:
		b.WriteString(e.SQL)
	case types.DefaultValue:
		b.WriteString("DEFAULT")
	case types.Dynamic:
		inner, ok := unwrap(e)
		if !ok {
			b.WriteString("NULL")
			return nil
		}
		return c.node(b, inner)
	case types.Comparison:
		return c.comparison(b, e)
	case types.Logical:
		return c.logical(b, e)
	case types.Not:
		b.WriteString("NOT ")
		return c.operand(b, e.X)
	case types.Arithmetic:
		return c.arithmetic(b, e)
	case types.Negate:
		return c.prefixed(b, "-", e.X)
	case types.Bitwise:
		op := string(e.Op)
		if e.Op == types.BitXor {
			if err := c.d.Supports(FeatureBitXor); err != nil {
				return err
			}
			op = c.caps.xor()
		}
		return c.binary(b, e.L, op, e.R)
	case types.BitNot:
		return c.prefixed(b, "~", e.X)
	case types.InList:
		return c.inList(b, e)
	case types.Between:
		return c.between(b, e)
	case types.Aggregate:
		return c.aggregate(b, e)
	case types.Function:
		return c.function(b, e)
	case types.Case:
		return c.caseExpr(b, e)
	case types.Cast:
		b.WriteString("CAST(")
		if err := c.expr(b, e.X); err != nil {
			return err
		}
		b.WriteString(" AS ")
		b.WriteString(c.d.TypeName(e.To))
		b.WriteString(")")
	case types.Alias:
		if err := c.operand(b, e.X); err != nil {
			return err
		}
		b.WriteString(" AS ")
		b.WriteString(c.quote(e.Name))
	case types.Subquery:
		b.WriteString("(")
		if err := c.statement(b, e.Query); err != nil {
			return err
		}
		b.WriteString(")")
	case types.Exists:
		b.WriteString("EXISTS (")
		if err := c.statement(b, e.Query); err != nil {
			return err
		}
		b.WriteString(")")
	default:
		return fmt.Errorf("cannot render expression %T", e)
	}
	return nil
}

func (c *Context) column(b *strings.Builder, col types.Column) {
	if c.excludedAsValues && col.Table == types.ExcludedTable {
		b.WriteString("VALUES(")
		b.WriteString(c.quote(col.Name))
		b.WriteString(")")
		return
	}
	if !c.bare && col.Table != "" {
		b.WriteString(c.quote(col.Table))
		b.WriteString(".")
	}
	b.WriteString(c.quote(col.Name))
}

func (c *Context) binary(b *strings.Builder, l types.Expr, op string, r types.Expr) error {
	if err := c.operand(b, l); err != nil {
		return err
	}
	b.WriteString(" ")
	b.WriteString(op)
	b.WriteString(" ")
	return c.operand(b, r)
}

// prefixed renders a unary prefix operator. Anything but a column or a parameter is
// parenthesized so that "-" never meets a negative literal.
func (c *Context) prefixed(b *strings.Builder, op string, x types.Expr) error {
	b.WriteString(op)
	switch x.(type) {
	case types.Column, types.Param:
		return c.expr(b, x)
	}
	b.WriteString("(")
	if err := c.expr(b, x); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) comparison(b *strings.Builder, e types.Comparison) error {
	switch e.Op {
	case types.IsNull, types.IsNotNull:
		if err := c.operand(b, e.L); err != nil {
			return err
		}
		b.WriteString(" ")
		b.WriteString(string(e.Op))
		return nil
	case types.IsDistinctFrom, types.IsNotDistinctFrom:
		return c.distinctFrom(b, e)
	}
	return c.binary(b, e.L, string(e.Op), e.R)
}

func (c *Context) distinctFrom(b *strings.Builder, e types.Comparison) error {
	distinct := e.Op == types.IsDistinctFrom
	switch c.caps.DistinctFrom {
	case DistinctFromSpaceship:
		if !distinct {
			return c.binary(b, e.L, "<=>", e.R)
		}
		b.WriteString("NOT (")
		if err := c.binary(b, e.L, "<=>", e.R); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	case DistinctFromIs:
		if distinct {
			return c.binary(b, e.L, "IS NOT", e.R)
		}
		return c.binary(b, e.L, "IS", e.R)
	}
	return c.binary(b, e.L, string(e.Op), e.R)
}

func (c *Context) logical(b *strings.Builder, e types.Logical) error {
	if _, ok := unwrap(e.R); !ok {
		return c.expr(b, e.L)
	}
	if l, ok := e.L.(types.Logical); ok && l.Op == e.Op {
		if err := c.expr(b, l); err != nil {
			return err
		}
	} else if err := c.operand(b, e.L); err != nil {
		return err
	}
	b.WriteString(" ")
	b.WriteString(string(e.Op))
	b.WriteString(" ")
	return c.operand(b, e.R)
}

func (c *Context) arithmetic(b *strings.Builder, e types.Arithmetic) error {
	if e.Op != types.Concat {
		return c.binary(b, e.L, string(e.Op), e.R)
	}
	switch c.caps.Concat {
	case ConcatFunction:
		b.WriteString("CONCAT(")
		if err := c.operandTuple(b, []types.Expr{e.L, e.R}, ", "); err != nil {
			return err
		}
		b.WriteString(")")
		return nil
	case ConcatPlus:
		return c.binary(b, e.L, "+", e.R)
	}
	return c.binary(b, e.L, "||", e.R)
}

func (c *Context) inList(b *strings.Builder, e types.InList) error {
	if len(e.List) == 0 {
		// x IN () is always false, x NOT IN () always true.
		c.boolCondition(b, e.Not)
		return nil
	}
	if err := c.operand(b, e.X); err != nil {
		return err
	}
	if e.Not {
		b.WriteString(" NOT IN ")
	} else {
		b.WriteString(" IN ")
	}
	if sub, ok := e.List[0].(types.Subquery); ok && len(e.List) == 1 {
		return c.expr(b, sub)
	}
	b.WriteString("(")
	if err := c.operandTuple(b, e.List, ", "); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) between(b *strings.Builder, e types.Between) error {
	if err := c.operand(b, e.X); err != nil {
		return err
	}
	if e.Not {
		b.WriteString(" NOT")
	}
	b.WriteString(" BETWEEN ")
	if err := c.operand(b, e.Low); err != nil {
		return err
	}
	b.WriteString(" AND ")
	return c.operand(b, e.High)
}

func (c *Context) aggregate(b *strings.Builder, e types.Aggregate) error {
	b.WriteString(string(e.Fn))
	b.WriteString("(")
	if e.Distinct {
		b.WriteString("DISTINCT ")
	}
	if e.Arg == nil {
		b.WriteString("*")
	} else if err := c.expr(b, e.Arg); err != nil {
		return err
	}
	b.WriteString(")")
	if e.Window {
		if err := c.d.Supports(FeatureWindow); err != nil {
			return err
		}
		b.WriteString(" OVER()")
	}
	return nil
}

func (c *Context) function(b *strings.Builder, e types.Function) error {
	b.WriteString(e.Name)
	if e.NoParens {
		return nil
	}
	b.WriteString("(")
	if err := c.operandTuple(b, e.Args, ", "); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) caseExpr(b *strings.Builder, e types.Case) error {
	b.WriteString("CASE")
	for _, w := range e.Whens {
		b.WriteString(" WHEN ")
		if err := c.expr(b, w.Cond); err != nil {
			return err
		}
		b.WriteString(" THEN ")
		if err := c.expr(b, w.Result); err != nil {
			return err
		}
	}
	if e.Else != nil {
		b.WriteString(" ELSE ")
		if err := c.expr(b, e.Else); err != nil {
			return err
		}
	}
	b.WriteString(" END")
	return nil
}

func (c *Context) sort(b *strings.Builder, s types.Sort) error {
	if err := c.operand(b, s.X); err != nil {
		return err
	}
	if s.Desc {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	switch s.Nulls {
	case types.NullsFirst, types.NullsLast:
		if err := c.d.Supports(FeatureNullsOrdering); err != nil {
			return err
		}
		if s.Nulls == types.NullsFirst {
			b.WriteString(" NULLS FIRST")
		} else {
			b.WriteString(" NULLS LAST")
		}
	}
	return nil
}

func (c *Context) assignment(b *strings.Builder, a types.Assignment) error {
	b.WriteString(c.quote(a.Column.Name))
	b.WriteString(" = ")
	return c.expr(b, a.Value)
}
