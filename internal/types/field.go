package types

// Column is a read-only handle into a table description.
// Table holds the name the owning table is referenced through (its alias if aliased).
type Column struct {
	Table      string
	Name       string
	Type       DataType
	HasDefault bool
	ReadOnly   bool
}

func (Column) node() {}

// DataType returns the column's declared type.
func (c Column) DataType() DataType { return c.Type }

// Required reports whether an INSERT has to assign the column.
func (c Column) Required() bool {
	return !c.Type.Optional && !c.HasDefault
}

// Qualified returns the column as table.name.
func (c Column) Qualified() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}
