package types

import (
	"regexp"
	"sort"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether name can be used as a table, column, alias or CTE name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// Table is a table description: a name, an optional alias and the owned column metadata.
type Table struct {
	Name    string
	Alias   string
	Columns []Column
}

func (Table) node() {}

// Ident is the name the table is referenced through.
func (t Table) Ident() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// TryC returns the column called name.
func (t Table) TryC(name string) (Column, error) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, Rejectf("column()", "%q is not a column of %s", name, t.Ident())
}

// C returns the column called name and panics if there is none.
func (t Table) C(name string) Column {
	c, err := t.TryC(name)
	if err != nil {
		panic(err)
	}
	return c
}

// As returns the table under a new identity with every column rebound to alias.
func (t Table) As(alias string) Table {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		c.Table = alias
		cols[i] = c
	}
	return Table{Name: t.Name, Alias: alias, Columns: cols}
}

// TableSet is a set of table identities.
type TableSet map[string]struct{}

// NewTableSet creates a set holding names.
func NewTableSet(names ...string) TableSet {
	s := make(TableSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s TableSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set holding the members of s and o.
func (s TableSet) Union(o TableSet) TableSet {
	out := make(TableSet, len(s)+len(o))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range o {
		out[n] = struct{}{}
	}
	return out
}

// Minus returns a new set holding the members of s not in o.
func (s TableSet) Minus(o TableSet) TableSet {
	out := make(TableSet, len(s))
	for n := range s {
		if !o.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// Intersect returns a new set holding the members of both s and o.
func (s TableSet) Intersect(o TableSet) TableSet {
	out := make(TableSet)
	for n := range s {
		if o.Has(n) {
			out[n] = struct{}{}
		}
	}
	return out
}

// SubsetOf reports whether every member of s is in o.
func (s TableSet) SubsetOf(o TableSet) bool {
	for n := range s {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s TableSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
