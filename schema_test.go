package tsql_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/tsql"
)

func createTestProject() *dbml.Project {
	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "bigint"))
	users.AddColumn(dbml.NewColumn("email", "varchar(255)"))
	users.AddColumn(dbml.NewColumn("age", "int unsigned"))
	users.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "bigint"))
	posts.AddColumn(dbml.NewColumn("user_id", "bigint"))
	posts.AddColumn(dbml.NewColumn("body", "text"))
	project.AddTable(posts)

	return project
}

func TestNewFromDBML(t *testing.T) {
	s, err := tsql.NewFromDBML(createTestProject(),
		tsql.NotNull("users", "id", "email"),
		tsql.WithDefault("users", "id", "created_at"),
		tsql.ReadOnly("users", "id"),
	)
	if err != nil {
		t.Fatalf("NewFromDBML() error = %v", err)
	}

	users := s.T("users")
	tests := []struct {
		col        string
		want       tsql.DataType
		hasDefault bool
		readOnly   bool
	}{
		{"id", tsql.Integral, true, true},
		{"email", tsql.Text, false, false},
		{"age", tsql.Unsigned.AsOptional(), false, false},
		{"created_at", tsql.Timestamp.AsOptional(), true, false},
	}
	for _, tt := range tests {
		c := users.C(tt.col)
		if c.Type != tt.want || c.HasDefault != tt.hasDefault || c.ReadOnly != tt.readOnly {
			t.Errorf("%s = %+v, want type %v default %v read-only %v", tt.col, c, tt.want, tt.hasDefault, tt.readOnly)
		}
	}

	res := render(t, tsql.InsertInto(users).Set(tsql.Set(users.C("email"), "a@b.c")).Returning(users.C("id")))
	if want := "INSERT INTO users (email) VALUES('a@b.c') RETURNING users.id"; res.SQL != want {
		t.Errorf("SQL = %q, want %q", res.SQL, want)
	}
}

func TestNewFromDBMLErrors(t *testing.T) {
	if _, err := tsql.NewFromDBML(nil); err == nil {
		t.Error("expected error for nil project")
	}

	project := dbml.NewProject("bad")
	shapes := dbml.NewTable("shapes")
	shapes.AddColumn(dbml.NewColumn("outline", "geometry"))
	project.AddTable(shapes)

	_, err := tsql.NewFromDBML(project)
	if err == nil || !strings.Contains(err.Error(), `unsupported column type "geometry"`) {
		t.Errorf("error = %v, want unsupported column type", err)
	}
}

func TestSchemaLookup(t *testing.T) {
	s, err := tsql.NewFromDBML(createTestProject())
	if err != nil {
		t.Fatalf("NewFromDBML() error = %v", err)
	}

	tables := s.Tables()
	if len(tables) != 2 || tables[0].Name != "posts" || tables[1].Name != "users" {
		t.Errorf("Tables() = %v, want posts and users", tables)
	}

	u := s.T("users", "u")
	if u.Alias != "u" || u.C("id").Table != "u" {
		t.Errorf("T(users, u) = %+v, want alias u", u)
	}

	_, err = s.TryT("comments")
	assertConstructionError(t, err, `table() "comments" not found in schema`)

	_, err = s.TryT("users", "a", "b")
	assertConstructionError(t, err, "only one alias allowed")
}

func TestNewSchemaRejectsDuplicates(t *testing.T) {
	foo, _ := fixtures()

	if _, err := tsql.NewSchema(foo, foo); err == nil {
		t.Error("expected error for duplicate table")
	}
	if _, err := tsql.NewSchema(foo.As("f")); err == nil {
		t.Error("expected error for aliased table")
	}
}

const yamlSchema = `
tables:
  - name: accounts
    columns:
      - {name: id, type: bigint, default: true, read_only: true}
      - {name: email, type: varchar(320)}
      - {name: nickname, type: text, optional: true}
      - {name: balance, type: "decimal(12, 2)"}
`

func TestNewFromYAML(t *testing.T) {
	s, err := tsql.NewFromYAML(strings.NewReader(yamlSchema))
	if err != nil {
		t.Fatalf("NewFromYAML() error = %v", err)
	}

	accounts := s.T("accounts")
	if c := accounts.C("id"); c.Type != tsql.Integral || !c.HasDefault || !c.ReadOnly {
		t.Errorf("id = %+v", c)
	}
	if c := accounts.C("nickname"); c.Type != tsql.Text.AsOptional() {
		t.Errorf("nickname type = %v, want optional text", c.Type)
	}
	if c := accounts.C("balance"); c.Type != tsql.Float {
		t.Errorf("balance type = %v, want floating point", c.Type)
	}

	_, err = tsql.TrySet(accounts.C("id"), 1)
	assertConstructionError(t, err, "read-only")
}

func TestNewFromYAMLRejectsUnknownKeys(t *testing.T) {
	doc := "tables:\n  - name: a\n    colums: []\n"
	if _, err := tsql.NewFromYAML(strings.NewReader(doc)); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(yamlSchema), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := tsql.LoadYAMLFile(path)
	if err != nil {
		t.Fatalf("LoadYAMLFile() error = %v", err)
	}
	if len(s.Tables()) != 1 {
		t.Errorf("Tables() = %v, want one table", s.Tables())
	}

	if _, err := tsql.LoadYAMLFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   string
		want tsql.Kind
	}{
		{"BIGINT", tsql.Integral.Kind},
		{"varchar(255)", tsql.Text.Kind},
		{"int(11) unsigned", tsql.Unsigned.Kind},
		{"smallint unsigned", tsql.Unsigned.Kind},
		{"decimal(10, 2)", tsql.Float.Kind},
		{"double precision", tsql.Float.Kind},
		{"bytea", tsql.Blob.Kind},
		{"timestamptz", tsql.Timestamp.Kind},
		{"date", tsql.Date.Kind},
		{"time", tsql.Time.Kind},
		{"bool", tsql.Boolean.Kind},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := tsql.KindOf(tt.in)
			if err != nil {
				t.Fatalf("KindOf(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := tsql.KindOf("geometry"); err == nil {
		t.Error("expected error for unsupported type")
	}
}
