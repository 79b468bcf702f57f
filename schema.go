package tsql

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/zoobzio/dbml"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/tsql/internal/types"
)

// Schema is a set of table descriptions indexed by name.
type Schema struct {
	tables map[string]Table
	names  []string
}

// NewSchema indexes the given tables.
func NewSchema(tables ...Table) (*Schema, error) {
	s := &Schema{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if t.Alias != "" {
			return nil, fmt.Errorf("table %s: schema tables must not be aliased", t.Name)
		}
		if _, ok := s.tables[t.Name]; ok {
			return nil, fmt.Errorf("table %s declared twice", t.Name)
		}
		s.tables[t.Name] = t
		s.names = append(s.names, t.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

// TryT returns the table called name, optionally under an alias.
func (s *Schema) TryT(name string, alias ...string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return Table{}, types.Rejectf("table()", "%q not found in schema", name)
	}
	switch len(alias) {
	case 0:
		return t, nil
	case 1:
		return TryAlias(t, alias[0])
	}
	return Table{}, types.Rejectf("table()", "only one alias allowed")
}

// T returns the table called name and panics if it is not in the schema.
func (s *Schema) T(name string, alias ...string) Table {
	return must(s.TryT(name, alias...))
}

// Tables returns every table ordered by name.
func (s *Schema) Tables() []Table {
	out := make([]Table, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.tables[n])
	}
	return out
}

// SchemaOption adjusts column metadata while a schema is loaded from DBML.
type SchemaOption func(map[string]map[string]*ColumnDef)

func columnOption(table string, cols []string, apply func(*ColumnDef)) SchemaOption {
	return func(defs map[string]map[string]*ColumnDef) {
		for _, c := range cols {
			if def, ok := defs[table][c]; ok {
				apply(def)
			}
		}
	}
}

// NotNull marks columns of table as non-optional. DBML columns are optional otherwise.
func NotNull(table string, cols ...string) SchemaOption {
	return columnOption(table, cols, func(d *ColumnDef) { d.typ = d.typ.NonOptional() })
}

// WithDefault marks columns of table as having a server-side default.
func WithDefault(table string, cols ...string) SchemaOption {
	return columnOption(table, cols, func(d *ColumnDef) { d.hasDefault = true })
}

// ReadOnly marks columns of table as not assignable.
func ReadOnly(table string, cols ...string) SchemaOption {
	return columnOption(table, cols, func(d *ColumnDef) { d.readOnly = true })
}

// NewFromDBML builds a schema from a DBML project. Column types are mapped by
// their SQL type name; every column starts optional.
func NewFromDBML(project *dbml.Project, opts ...SchemaOption) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	defs := make(map[string]map[string]*ColumnDef)
	order := make(map[string][]string)
	var names []string
	for _, table := range project.Tables {
		names = append(names, table.Name)
		defs[table.Name] = make(map[string]*ColumnDef)
		for _, col := range table.Columns {
			kind, err := KindOf(col.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", table.Name, col.Name, err)
			}
			defs[table.Name][col.Name] = &ColumnDef{
				name: col.Name,
				typ:  types.DataType{Kind: kind, Optional: true},
			}
			order[table.Name] = append(order[table.Name], col.Name)
		}
	}
	for _, opt := range opts {
		opt(defs)
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		cols := make([]ColumnDef, 0, len(order[name]))
		for _, c := range order[name] {
			cols = append(cols, *defs[name][c])
		}
		t, err := TryNewTable(name, cols...)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewSchema(tables...)
}

type yamlSchema struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
	Default  bool   `yaml:"default"`
	ReadOnly bool   `yaml:"read_only"`
}

// NewFromYAML builds a schema from a YAML document of the form
//
//	tables:
//	  - name: users
//	    columns:
//	      - {name: id, type: bigint, default: true, read_only: true}
//	      - {name: email, type: varchar, optional: true}
//
// Unknown keys are rejected.
func NewFromYAML(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlSchema
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	tables := make([]Table, 0, len(doc.Tables))
	for _, yt := range doc.Tables {
		cols := make([]ColumnDef, 0, len(yt.Columns))
		for _, yc := range yt.Columns {
			kind, err := KindOf(yc.Type)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", yt.Name, yc.Name, err)
			}
			def := Col(yc.Name, types.DataType{Kind: kind, Optional: yc.Optional})
			if yc.Default {
				def = def.WithDefault()
			}
			if yc.ReadOnly {
				def = def.ReadOnly()
			}
			cols = append(cols, def)
		}
		t, err := TryNewTable(yt.Name, cols...)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewSchema(tables...)
}

// LoadYAMLFile reads a schema from a YAML file.
func LoadYAMLFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return NewFromYAML(f)
}

var sqlTypeKinds = map[string]types.Kind{
	"boolean": types.KindBoolean, "bool": types.KindBoolean, "bit": types.KindBoolean,

	"smallint": types.KindIntegral, "int": types.KindIntegral, "integer": types.KindIntegral,
	"bigint": types.KindIntegral, "int2": types.KindIntegral, "int4": types.KindIntegral,
	"int8": types.KindIntegral, "tinyint": types.KindIntegral, "serial": types.KindIntegral,
	"bigserial": types.KindIntegral, "integral": types.KindIntegral,

	"unsigned": types.KindUnsignedIntegral, "int unsigned": types.KindUnsignedIntegral,
	"bigint unsigned": types.KindUnsignedIntegral, "unsigned integral": types.KindUnsignedIntegral,

	"real": types.KindFloatingPoint, "float": types.KindFloatingPoint, "float4": types.KindFloatingPoint,
	"float8": types.KindFloatingPoint, "double": types.KindFloatingPoint,
	"double precision": types.KindFloatingPoint, "numeric": types.KindFloatingPoint,
	"decimal": types.KindFloatingPoint, "floating point": types.KindFloatingPoint,

	"text": types.KindText, "varchar": types.KindText, "char": types.KindText,
	"nvarchar": types.KindText, "nchar": types.KindText, "character varying": types.KindText,
	"uuid": types.KindText, "json": types.KindText, "jsonb": types.KindText,

	"blob": types.KindBlob, "bytea": types.KindBlob, "binary": types.KindBlob,
	"varbinary": types.KindBlob,

	"date": types.KindDate,

	"timestamp": types.KindTimestamp, "timestamptz": types.KindTimestamp,
	"datetime": types.KindTimestamp, "datetime2": types.KindTimestamp,

	"time": types.KindTime,
}

// KindOf maps an SQL type name such as "varchar(255)" or "bigint unsigned" to a kind.
func KindOf(sqlType string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(name[i:], ')'); j >= 0 {
			rest = name[i+j+1:]
		}
		name = strings.TrimSpace(name[:i] + rest)
	}
	name = strings.Join(strings.Fields(name), " ")
	if k, ok := sqlTypeKinds[name]; ok {
		return k, nil
	}
	if strings.HasSuffix(name, " unsigned") {
		if k, ok := sqlTypeKinds[strings.TrimSuffix(name, " unsigned")]; ok && k == types.KindIntegral {
			return types.KindUnsignedIntegral, nil
		}
	}
	return types.KindNone, fmt.Errorf("unsupported column type %q", sqlType)
}
