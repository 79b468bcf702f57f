package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/tsql/internal/types"
)

func (c *Context) statement(b *strings.Builder, s types.Statement) error {
	switch s := s.(type) {
	case *types.Select:
		return c.selectStatement(b, s)
	case *types.Compound:
		return c.compound(b, s)
	case *types.Insert:
		return c.insert(b, s)
	case *types.Update:
		return c.update(b, s)
	case *types.Delete:
		return c.deleteStatement(b, s)
	case *types.Truncate:
		return c.truncate(b, s)
	}
	return fmt.Errorf("cannot render statement %T", s)
}

// clauses renders clauses in order, skipping empty slots.
func (c *Context) clauses(b *strings.Builder, cs ...types.Clause) error {
	for _, cl := range cs {
		if cl == nil {
			continue
		}
		if err := c.clause(b, cl); err != nil {
			return err
		}
	}
	return nil
}

// slot converts an optional clause pointer into a Clause, nil when absent.
func slot[T types.Clause](p *T) types.Clause {
	if p == nil {
		return nil
	}
	return *p
}

func (c *Context) selectStatement(b *strings.Builder, s *types.Select) error {
	if err := c.clauses(b, slot(s.With)); err != nil {
		return err
	}
	b.WriteString("SELECT")
	if s.Flags != nil {
		for _, f := range present(s.Flags.Flags) {
			b.WriteString(" ")
			if err := c.node(b, f); err != nil {
				return err
			}
		}
	}
	if s.Columns != nil {
		b.WriteString(" ")
		if err := c.selectColumnTuple(b, s.Columns.Columns); err != nil {
			return err
		}
	}
	if err := c.clauses(b, slot(s.From), slot(s.Where), slot(s.GroupBy), slot(s.Having)); err != nil {
		return err
	}
	if err := c.paginate(b, s.OrderBy, s.Limit, s.Offset); err != nil {
		return err
	}
	return c.clauses(b, slot(s.ForUpdate))
}

func (c *Context) compound(b *strings.Builder, s *types.Compound) error {
	if err := c.setOperand(b, s.Left); err != nil {
		return err
	}
	b.WriteString(" UNION ")
	if s.All {
		b.WriteString("ALL ")
	}
	if err := c.setOperand(b, s.Right); err != nil {
		return err
	}

	bare := c.bare
	c.bare = true
	defer func() { c.bare = bare }()
	return c.paginate(b, s.OrderBy, s.Limit, s.Offset)
}

func (c *Context) setOperand(b *strings.Builder, s types.Statement) error {
	_, chained := s.(*types.Compound)
	if chained || c.inCTE || !c.caps.ParenSetOperands {
		return c.statement(b, s)
	}
	b.WriteString("(")
	if err := c.statement(b, s); err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

// paginate renders ORDER BY, LIMIT and OFFSET in the dialect's pagination style.
func (c *Context) paginate(b *strings.Builder, order *types.OrderBy, limit *types.Limit, offset *types.Offset) error {
	if c.caps.Pagination == PaginationOffsetFetch && (limit != nil || offset != nil) {
		if order == nil || len(present(order.Items)) == 0 {
			b.WriteString(" ORDER BY (SELECT NULL)")
		} else if err := c.clause(b, *order); err != nil {
			return err
		}
		b.WriteString(" OFFSET ")
		if offset != nil {
			if err := c.expr(b, offset.Count); err != nil {
				return err
			}
		} else {
			b.WriteString("0")
		}
		b.WriteString(" ROWS")
		if limit != nil {
			b.WriteString(" FETCH NEXT ")
			if err := c.expr(b, limit.Count); err != nil {
				return err
			}
			b.WriteString(" ROWS ONLY")
		}
		return nil
	}

	if err := c.clauses(b, slot(order), slot(limit)); err != nil {
		return err
	}
	if offset != nil && limit == nil && c.caps.UnboundedLimit != "" {
		b.WriteString(" LIMIT ")
		b.WriteString(c.caps.UnboundedLimit)
	}
	return c.clauses(b, slot(offset))
}

func (c *Context) insert(b *strings.Builder, s *types.Insert) error {
	if err := c.clauses(b, slot(s.With)); err != nil {
		return err
	}
	b.WriteString("INSERT")
	if err := c.clauses(b, slot(s.Into), slot(s.Values), slot(s.OnConflict)); err != nil {
		return err
	}
	return c.returning(b, s.Returning, FeatureInsertReturning)
}

func (c *Context) update(b *strings.Builder, s *types.Update) error {
	if err := c.clauses(b, slot(s.With)); err != nil {
		return err
	}
	b.WriteString("UPDATE")
	if err := c.clauses(b, slot(s.Table), slot(s.Set), slot(s.Where)); err != nil {
		return err
	}
	return c.returning(b, s.Returning, FeatureUpdateReturning)
}

func (c *Context) deleteStatement(b *strings.Builder, s *types.Delete) error {
	if err := c.clauses(b, slot(s.With)); err != nil {
		return err
	}
	b.WriteString("DELETE FROM")
	if err := c.clauses(b, slot(s.Table), slot(s.Using), slot(s.Where)); err != nil {
		return err
	}
	return c.returning(b, s.Returning, FeatureDeleteReturning)
}

func (c *Context) truncate(b *strings.Builder, s *types.Truncate) error {
	switch c.caps.Truncate {
	case TruncateTable:
		b.WriteString("TRUNCATE TABLE")
	case TruncateDeleteAll:
		b.WriteString("DELETE FROM")
	default:
		b.WriteString("TRUNCATE")
	}
	return c.clauses(b, slot(s.Table))
}

func (c *Context) returning(b *strings.Builder, r *types.Returning, f Feature) error {
	if r == nil {
		return nil
	}
	if err := c.d.Supports(f); err != nil {
		return err
	}
	return c.clause(b, *r)
}

func (c *Context) clause(b *strings.Builder, cl types.Clause) error {
	switch cl := cl.(type) {
	case types.SelectFlags:
		return c.noDynamicTuple(b, cl.Flags, " ", c.node)
	case types.SelectColumns:
		return c.selectColumnTuple(b, cl.Columns)
	case types.From:
		src, ok := unwrap(cl.Table)
		if !ok {
			return nil
		}
		b.WriteString(" FROM ")
		return c.source(b, src)
	case types.Where:
		return c.condition(b, " WHERE ", cl.Cond)
	case types.Having:
		return c.condition(b, " HAVING ", cl.Cond)
	case types.GroupBy:
		items := present(cl.Exprs)
		if len(items) == 0 {
			return nil
		}
		b.WriteString(" GROUP BY ")
		return c.join(b, items, ", ", c.operandNode)
	case types.OrderBy:
		items := present(cl.Items)
		if len(items) == 0 {
			return nil
		}
		b.WriteString(" ORDER BY ")
		return c.join(b, items, ", ", c.node)
	case types.Limit:
		b.WriteString(" LIMIT ")
		return c.expr(b, cl.Count)
	case types.Offset:
		b.WriteString(" OFFSET ")
		return c.expr(b, cl.Count)
	case types.ForUpdate:
		if err := c.d.Supports(FeatureForUpdate); err != nil {
			return err
		}
		b.WriteString(" FOR UPDATE")
		return nil
	case types.Into:
		b.WriteString(" INTO ")
		b.WriteString(c.quote(cl.Table.Name))
		return nil
	case types.SingleTable:
		b.WriteString(" ")
		b.WriteString(c.quote(cl.Table.Name))
		return nil
	case types.InsertValues:
		return c.insertValues(b, cl)
	case types.UpdateSet:
		items := present(cl.Assignments)
		if len(items) == 0 {
			return types.UpdateAssignmentsRequired.Err(types.PhaseConsistency)
		}
		b.WriteString(" SET ")
		return c.join(b, items, ", ", c.node)
	case types.Using:
		if err := c.d.Supports(FeatureDeleteUsing); err != nil {
			return err
		}
		src, ok := unwrap(cl.Table)
		if !ok {
			return nil
		}
		b.WriteString(" USING ")
		return c.source(b, src)
	case types.Returning:
		b.WriteString(" RETURNING ")
		return c.selectColumnTuple(b, cl.Columns)
	case types.With:
		return c.with(b, cl)
	case types.OnConflict:
		return c.onConflict(b, cl)
	}
	return fmt.Errorf("cannot render clause %T", cl)
}

func (c *Context) operandNode(b *strings.Builder, n types.Node) error {
	if e, ok := n.(types.Expr); ok {
		return c.operand(b, e)
	}
	return c.node(b, n)
}

func (c *Context) condition(b *strings.Builder, keyword string, cond types.Expr) error {
	inner, ok := unwrap(cond)
	if !ok {
		return nil
	}
	b.WriteString(keyword)
	return c.node(b, inner)
}

func (c *Context) insertValues(b *strings.Builder, v types.InsertValues) error {
	switch {
	case v.DefaultValues:
		b.WriteString(c.caps.defaultValues())
		return nil
	case v.Query != nil:
		c.columnList(b, v.Columns)
		b.WriteString(" ")
		return c.statement(b, v.Query)
	case len(v.Columns) > 0:
		c.columnList(b, v.Columns)
		b.WriteString(" VALUES ")
		for i, row := range v.Rows {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			if err := c.operandTuple(b, row, ", "); err != nil {
				return err
			}
			b.WriteString(")")
		}
		return nil
	}

	items := present(v.Assignments)
	if len(items) == 0 {
		b.WriteString(c.caps.defaultValues())
		return nil
	}
	b.WriteString(" (")
	c.nameTuple(b, items)
	b.WriteString(") VALUES(")
	err := c.join(b, items, ", ", func(b *strings.Builder, n types.Node) error {
		a, ok := n.(types.Assignment)
		if !ok {
			return fmt.Errorf("cannot render insert value %T", n)
		}
		return c.expr(b, a.Value)
	})
	if err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) columnList(b *strings.Builder, cols []types.Column) {
	b.WriteString(" (")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.quote(col.Name))
	}
	b.WriteString(")")
}

func (c *Context) with(b *strings.Builder, w types.With) error {
	ctes := present(w.CTEs)
	if len(ctes) == 0 {
		return nil
	}
	if err := c.d.Supports(FeatureWith); err != nil {
		return err
	}
	b.WriteString("WITH ")
	if w.Recursive() {
		if err := c.d.Supports(FeatureRecursiveWith); err != nil {
			return err
		}
		if c.caps.RecursiveKeyword {
			b.WriteString("RECURSIVE ")
		}
	}
	err := c.join(b, ctes, ", ", func(b *strings.Builder, n types.Node) error {
		cte, ok := n.(types.CTE)
		if !ok {
			return fmt.Errorf("cannot render cte %T", n)
		}
		return c.cteDefinition(b, cte)
	})
	if err != nil {
		return err
	}
	b.WriteString(" ")
	return nil
}

func (c *Context) cteDefinition(b *strings.Builder, cte types.CTE) error {
	b.WriteString(c.quote(cte.Name))
	b.WriteString(" AS (")
	inCTE := c.inCTE
	c.inCTE = true
	err := c.statement(b, cte.Query)
	c.inCTE = inCTE
	if err != nil {
		return err
	}
	b.WriteString(")")
	return nil
}

func (c *Context) onConflict(b *strings.Builder, oc types.OnConflict) error {
	if err := c.d.Supports(FeatureUpsert); err != nil {
		return err
	}
	if c.caps.Upsert == UpsertOnDuplicateKey {
		return c.onDuplicateKey(b, oc)
	}
	b.WriteString(" ON CONFLICT")
	if len(oc.Targets) > 0 {
		c.columnList(b, oc.Targets)
	}
	if oc.DoNothing {
		b.WriteString(" DO NOTHING")
		return nil
	}
	items := present(oc.Assignments)
	if len(items) == 0 {
		return types.UpdateAssignmentsRequired.Err(types.PhaseConsistency)
	}
	b.WriteString(" DO UPDATE SET ")
	if err := c.join(b, items, ", ", c.node); err != nil {
		return err
	}
	if oc.Where != nil {
		return c.condition(b, " WHERE ", oc.Where)
	}
	return nil
}

// onDuplicateKey renders conflict handling for dialects that resolve conflicts
// against any unique key. DO NOTHING becomes a no-op self assignment.
func (c *Context) onDuplicateKey(b *strings.Builder, oc types.OnConflict) error {
	if oc.Where != nil {
		return NewUnsupportedFeatureError(c.d.Name(), FeatureUpsert, "ON DUPLICATE KEY UPDATE cannot be filtered")
	}
	b.WriteString(" ON DUPLICATE KEY UPDATE ")
	if oc.DoNothing {
		if len(oc.Targets) == 0 {
			return NewUnsupportedFeatureError(c.d.Name(), FeatureUpsert, "DO NOTHING needs a conflict target")
		}
		name := c.quote(oc.Targets[0].Name)
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(name)
		return nil
	}
	items := present(oc.Assignments)
	if len(items) == 0 {
		return types.UpdateAssignmentsRequired.Err(types.PhaseConsistency)
	}
	c.excludedAsValues = true
	err := c.join(b, items, ", ", c.node)
	c.excludedAsValues = false
	return err
}

func (c *Context) source(b *strings.Builder, n types.Node) error {
	switch n := n.(type) {
	case types.Table:
		b.WriteString(c.quote(n.Name))
		if n.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(c.quote(n.Alias))
		}
	case types.CTE:
		b.WriteString(c.quote(n.Name))
	case types.DerivedTable:
		b.WriteString("(")
		if err := c.statement(b, n.Query); err != nil {
			return err
		}
		b.WriteString(") AS ")
		b.WriteString(c.quote(n.Name))
	case types.Dynamic:
		inner, ok := unwrap(n)
		if !ok {
			return nil
		}
		return c.source(b, inner)
	case types.Join:
		return c.joinSource(b, n)
	default:
		return fmt.Errorf("cannot render source %T", n)
	}
	return nil
}

func (c *Context) joinSource(b *strings.Builder, j types.Join) error {
	if err := c.source(b, j.Left); err != nil {
		return err
	}
	right, ok := unwrap(j.Right)
	if !ok {
		return nil
	}
	switch j.Kind {
	case types.RightJoin:
		if err := c.d.Supports(FeatureRightJoin); err != nil {
			return err
		}
	case types.FullJoin:
		if err := c.d.Supports(FeatureFullJoin); err != nil {
			return err
		}
	}
	b.WriteString(" ")
	b.WriteString(string(j.Kind))
	b.WriteString(" ")
	if err := c.source(b, right); err != nil {
		return err
	}
	if j.On != nil {
		b.WriteString(" ON ")
		return c.expr(b, j.On)
	}
	return nil
}
