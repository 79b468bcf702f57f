package tsql

import (
	"github.com/zoobzio/tsql/internal/check"
	"github.com/zoobzio/tsql/internal/types"
)

// fill builds a clause into an empty statement slot.
func fill[T any](slot **T, op string, build func() (T, error)) error {
	if *slot != nil {
		return types.Rejectf(op, "clause already present")
	}
	v, err := build()
	if err != nil {
		return err
	}
	*slot = &v
	return nil
}

func consistent(s types.Statement) error {
	return check.Consistency(s).Err(types.PhaseConsistency)
}

// renderChecked runs the consistency check, then the prepare check, then renders s.
func renderChecked(r Renderer, s types.Statement) (*QueryResult, error) {
	if err := consistent(s); err != nil {
		return nil, err
	}
	if err := check.Prepare(s).Err(types.PhasePrepare); err != nil {
		return nil, err
	}
	return r.Render(s)
}

// MustRender renders s and panics on error.
func MustRender(s Statement, r Renderer) *QueryResult {
	return must(s.Render(r))
}

// SQL renders a fragment (an expression, clause or source) or a built statement
// without running any check.
func SQL(r Renderer, x any) (*QueryResult, error) {
	switch v := x.(type) {
	case SelectBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case CompoundBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case InsertBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case UpdateBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case DeleteBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case TruncateBuilder:
		if v.err != nil {
			return nil, v.err
		}
		return r.Render(v.AST())
	case ConflictUpdateBuilder:
		return SQL(r, v.InsertBuilder)
	}
	n, err := toNode("sql()", x)
	if err != nil {
		return nil, err
	}
	if s, ok := n.(types.Statement); ok {
		return r.Render(s)
	}
	return r.RenderFragment(n)
}
