// Package render serializes statement trees to SQL text for a Dialect.
package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/tsql/internal/types"
)

// Context carries the dialect and the placeholders collected while rendering one result.
type Context struct {
	d      Dialect
	caps   Capabilities
	params []types.ParamDescriptor

	bare  bool // columns render without their table (compound ORDER BY)
	inCTE bool // set operands render without parentheses

	excludedAsValues bool // excluded.x renders as VALUES(x)
}

// NewContext creates an empty rendering context for d.
func NewContext(d Dialect) *Context {
	return &Context{d: d, caps: d.Capabilities()}
}

// Params returns the placeholders rendered so far, in placeholder order.
func (c *Context) Params() []types.ParamDescriptor {
	return c.params
}

// Statement renders a complete statement.
func Statement(d Dialect, s types.Statement) (*types.QueryResult, error) {
	c := NewContext(d)
	var b strings.Builder
	if err := c.statement(&b, s); err != nil {
		return nil, err
	}
	return &types.QueryResult{
		SQL:     b.String(),
		Params:  c.params,
		Columns: types.ResultColumns(s),
	}, nil
}

// Fragment renders an expression, clause or source on its own. Clauses keep their
// leading space; no checks are run.
func Fragment(d Dialect, n types.Node) (*types.QueryResult, error) {
	c := NewContext(d)
	var b strings.Builder
	if err := c.node(&b, n); err != nil {
		return nil, err
	}
	res := &types.QueryResult{SQL: b.String(), Params: c.params}
	if s, ok := n.(types.Statement); ok {
		res.Columns = types.ResultColumns(s)
	}
	return res, nil
}

func (c *Context) node(b *strings.Builder, n types.Node) error {
	switch n := n.(type) {
	case types.Statement:
		return c.statement(b, n)
	case types.Clause:
		return c.clause(b, n)
	case types.Expr:
		return c.expr(b, n)
	case types.Sort:
		return c.sort(b, n)
	case types.Assignment:
		return c.assignment(b, n)
	case types.Flag:
		b.WriteString(n.Keyword)
		return nil
	case types.Table, types.Join, types.DerivedTable, types.CTE:
		return c.source(b, n)
	}
	return fmt.Errorf("cannot render %T", n)
}

func (c *Context) quote(name string) string {
	return c.d.QuoteIdentifier(name)
}

func (c *Context) param(p types.Param) string {
	index := len(c.params) + 1
	c.params = append(c.params, types.ParamDescriptor{Index: index, Name: p.Name, Type: p.Type})
	return c.d.Placeholder(index)
}

// present filters a list down to the elements that will be rendered,
// unwrapping present Dynamic elements.
func present[T types.Node](items []T) []types.Node {
	out := make([]types.Node, 0, len(items))
	for _, it := range items {
		var n types.Node = it
		if d, ok := n.(types.Dynamic); ok {
			if !d.Present {
				continue
			}
			n = d.Node
		}
		out = append(out, n)
	}
	return out
}

// unwrap resolves a single Dynamic node. ok is false for an absent one.
func unwrap(n types.Node) (types.Node, bool) {
	if d, ok := n.(types.Dynamic); ok {
		if !d.Present {
			return nil, false
		}
		return unwrap(d.Node)
	}
	return n, true
}

// join renders each element with fn, separated by sep.
func (c *Context) join(b *strings.Builder, items []types.Node, sep string, fn func(*strings.Builder, types.Node) error) error {
	for i, it := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := fn(b, it); err != nil {
			return err
		}
	}
	return nil
}

// operandTuple renders every element; an absent element renders as NULL.
func (c *Context) operandTuple(b *strings.Builder, items []types.Expr, sep string) error {
	for i, it := range items {
		if i > 0 {
			b.WriteString(sep)
		}
		if err := c.expr(b, it); err != nil {
			return err
		}
	}
	return nil
}

// noDynamicTuple renders the present elements only.
func (c *Context) noDynamicTuple(b *strings.Builder, items []types.Node, sep string, fn func(*strings.Builder, types.Node) error) error {
	return c.join(b, present(items), sep, fn)
}

// selectColumnTuple renders named columns; an absent column renders as NULL AS name.
func (c *Context) selectColumnTuple(b *strings.Builder, items []types.Expr) error {
	for i, it := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		inner, ok := unwrap(it)
		if !ok {
			name, _ := types.NameOf(it)
			b.WriteString("NULL AS ")
			b.WriteString(c.quote(name))
			continue
		}
		if err := c.expr(b, inner.(types.Expr)); err != nil {
			return err
		}
	}
	return nil
}

// nameTuple renders the column names of the present assignments.
func (c *Context) nameTuple(b *strings.Builder, items []types.Node) {
	for i, it := range present(items) {
		if i > 0 {
			b.WriteString(", ")
		}
		if a, ok := it.(types.Assignment); ok {
			b.WriteString(c.quote(a.Column.Name))
		}
	}
}
