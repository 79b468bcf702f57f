package tsql

import (
	"github.com/zoobzio/tsql/internal/types"
)

// ColumnDef declares one column for NewTable.
type ColumnDef struct {
	name       string
	typ        DataType
	hasDefault bool
	readOnly   bool
}

// Col declares a column called name of type t.
func Col(name string, t DataType) ColumnDef {
	return ColumnDef{name: name, typ: t}
}

// WithDefault marks the column as having a server-side default, so INSERT may omit it.
func (c ColumnDef) WithDefault() ColumnDef {
	c.hasDefault = true
	return c
}

// ReadOnly marks the column as not assignable (generated or identity columns).
func (c ColumnDef) ReadOnly() ColumnDef {
	c.readOnly = true
	return c
}

// TryNewTable creates a table description, returning an error if invalid.
func TryNewTable(name string, cols ...ColumnDef) (Table, error) {
	if !types.ValidIdentifier(name) {
		return Table{}, types.Rejectf("table()", "name %q is not a valid identifier", name)
	}
	if len(cols) == 0 {
		return Table{}, types.Rejectf("table()", "%s requires at least one column", name)
	}
	seen := make(map[string]bool, len(cols))
	columns := make([]types.Column, 0, len(cols))
	for _, c := range cols {
		if !types.ValidIdentifier(c.name) {
			return Table{}, types.Rejectf("table()", "column name %q is not a valid identifier", c.name)
		}
		if seen[c.name] {
			return Table{}, types.Rejectf("table()", "duplicate column %s in %s", c.name, name)
		}
		if !c.typ.HasValue() || c.typ.IsNull() {
			return Table{}, types.Rejectf("table()", "column %s.%s has no value type", name, c.name)
		}
		seen[c.name] = true
		columns = append(columns, types.Column{
			Table:      name,
			Name:       c.name,
			Type:       c.typ,
			HasDefault: c.hasDefault,
			ReadOnly:   c.readOnly,
		})
	}
	return Table{Name: name, Columns: columns}, nil
}

// NewTable creates a table description.
func NewTable(name string, cols ...ColumnDef) Table {
	t, err := TryNewTable(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// TryAlias returns t under alias, returning an error if the alias is not an identifier.
func TryAlias(t Table, alias string) (Table, error) {
	if !types.ValidIdentifier(alias) {
		return Table{}, types.Rejectf("as()", "alias %q is not a valid identifier", alias)
	}
	return t.As(alias), nil
}

// AllOf returns every column of t as select items, in declaration order.
func AllOf(t Table) []any {
	out := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c
	}
	return out
}
