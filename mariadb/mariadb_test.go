package mariadb

import (
	"errors"
	"testing"

	"github.com/zoobzio/tsql"
)

func tables() (users, events tsql.Table) {
	users = tsql.NewTable("users",
		tsql.Col("id", tsql.Integral),
		tsql.Col("email", tsql.Text),
		tsql.Col("avatar", tsql.Blob.AsOptional()),
	)
	events = tsql.NewTable("events",
		tsql.Col("id", tsql.Integral).WithDefault().ReadOnly(),
		tsql.Col("at", tsql.Timestamp).WithDefault(),
	)
	return users, events
}

func TestNew(t *testing.T) {
	r := New()
	if r.Name() != "mariadb" {
		t.Errorf("Name() = %q, want mariadb", r.Name())
	}
	if r.Version() != DefaultVersion {
		t.Errorf("Version() = %v, want %v", r.Version(), DefaultVersion)
	}
	if v := New(WithVersion(10, 4)).Version(); v.String() != "10.4" {
		t.Errorf("Version() = %v, want 10.4", v)
	}
}

func TestRender(t *testing.T) {
	u, e := tables()
	id, email := u.C("id"), u.C("email")

	tests := []struct {
		name    string
		options []Option
		stmt    tsql.Statement
		want    string
	}{
		{
			name: "simple select with param",
			stmt: tsql.Select(id, email).From(u).Where(tsql.Eq(id, tsql.P("id", tsql.Integral))),
			want: "SELECT `users`.`id`, `users`.`email` FROM `users` WHERE `users`.`id` = ?",
		},
		{
			name: "blob literal",
			stmt: tsql.Select(id).From(u).Where(tsql.Eq(u.C("avatar"), []byte{0xca, 0xfe})),
			want: "SELECT `users`.`id` FROM `users` WHERE `users`.`avatar` = 0xcafe",
		},
		{
			name: "backslashes are escaped",
			stmt: tsql.Select(id).From(u).Where(tsql.Eq(email, `a\b`)),
			want: "SELECT `users`.`id` FROM `users` WHERE `users`.`email` = 'a\\\\b'",
		},
		{
			name: "distinct from",
			stmt: tsql.Select(id).From(u).Where(tsql.IsDistinctFrom(email, "x")),
			want: "SELECT `users`.`id` FROM `users` WHERE NOT (`users`.`email` <=> 'x')",
		},
		{
			name: "concat",
			stmt: tsql.Select(tsql.As(tsql.Concat(email, "!"), "shout")).From(u),
			want: "SELECT (CONCAT(`users`.`email`, '!')) AS `shout` FROM `users`",
		},
		{
			name: "offset without limit",
			stmt: tsql.Select(id).From(u).OrderBy(id).Offset(10),
			want: "SELECT `users`.`id` FROM `users` ORDER BY `users`.`id` ASC LIMIT 18446744073709551615 OFFSET 10",
		},
		{
			name: "parenthesized union",
			stmt: tsql.Select(id).From(u).Union(tsql.Select(e.C("id")).From(e)),
			want: "(SELECT `users`.`id` FROM `users`) UNION (SELECT `events`.`id` FROM `events`)",
		},
		{
			name:    "bare union before 10.4",
			options: []Option{WithVersion(10, 3)},
			stmt:    tsql.Select(id).From(u).Union(tsql.Select(e.C("id")).From(e)),
			want:    "SELECT `users`.`id` FROM `users` UNION SELECT `events`.`id` FROM `events`",
		},
		{
			name: "on duplicate key update",
			stmt: tsql.InsertInto(u).
				Set(tsql.Set(id, 1), tsql.Set(email, "a@b.c")).
				OnConflict(id).
				DoUpdate(tsql.Set(email, tsql.Excluded(email))),
			want: "INSERT INTO `users` (`id`, `email`) VALUES(1, 'a@b.c') ON DUPLICATE KEY UPDATE `email` = VALUES(`email`)",
		},
		{
			name: "on duplicate key do nothing",
			stmt: tsql.InsertInto(u).Set(tsql.Set(id, 1), tsql.Set(email, "a@b.c")).OnConflict(id).DoNothing(),
			want: "INSERT INTO `users` (`id`, `email`) VALUES(1, 'a@b.c') ON DUPLICATE KEY UPDATE `id` = `id`",
		},
		{
			name: "default values returning",
			stmt: tsql.InsertInto(e).DefaultValues().Returning(e.C("id")),
			want: "INSERT INTO `events` () VALUES () RETURNING `events`.`id`",
		},
		{
			name: "delete returning",
			stmt: tsql.DeleteFrom(u).Where(tsql.Eq(id, 1)).Returning(email),
			want: "DELETE FROM `users` WHERE `users`.`id` = 1 RETURNING `users`.`email`",
		},
		{
			name: "truncate",
			stmt: tsql.Truncate(e),
			want: "TRUNCATE TABLE `events`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.stmt.Render(New(tt.options...))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if res.SQL != tt.want {
				t.Errorf("SQL = %q, want %q", res.SQL, tt.want)
			}
		})
	}
}

func TestUnsupportedFeatures(t *testing.T) {
	u, e := tables()
	id := u.C("id")

	tests := []struct {
		name    string
		version Option
		stmt    tsql.Statement
		want    string
	}{
		{
			name:    "full join",
			version: WithVersion(11, 4),
			stmt:    tsql.Select(id).From(tsql.Source(u).FullJoin(e).On(tsql.Eq(e.C("id"), id))),
			want:    "mariadb: FULL OUTER JOIN is not supported: combine LEFT and RIGHT joins with UNION",
		},
		{
			name:    "update returning",
			version: WithVersion(11, 4),
			stmt:    tsql.Update(u).Set(tsql.Set(u.C("email"), "x")).Returning(id),
			want:    "mariadb: UPDATE ... RETURNING is not supported: select the rows after updating them",
		},
		{
			name:    "insert returning before 10.5",
			version: WithVersion(10, 4),
			stmt:    tsql.InsertInto(e).DefaultValues().Returning(e.C("id")),
			want:    "mariadb: INSERT ... RETURNING is not supported: no support before version 10.5",
		},
		{
			name:    "nulls ordering",
			version: WithVersion(11, 4),
			stmt:    tsql.Select(id).From(u).OrderBy(tsql.Asc(u.C("avatar")).NullsFirst()),
			want:    "mariadb: NULLS FIRST/LAST is not supported: order by an IS NULL expression first",
		},
		{
			name:    "filtered upsert",
			version: WithVersion(11, 4),
			stmt: tsql.InsertInto(u).
				Set(tsql.Set(id, 1), tsql.Set(u.C("email"), "a")).
				OnConflict(id).
				DoUpdate(tsql.Set(u.C("email"), "b")).
				Where(tsql.Gt(id, 0)),
			want: "mariadb: ON CONFLICT is not supported: ON DUPLICATE KEY UPDATE cannot be filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.stmt.Render(New(tt.version))
			var ufe tsql.UnsupportedFeatureError
			if !errors.As(err, &ufe) {
				t.Fatalf("expected UnsupportedFeatureError, got %v", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestQuoteIdentifierEscapesBackticks(t *testing.T) {
	if got, want := New().QuoteIdentifier("a`b"), "`a``b`"; got != want {
		t.Errorf("QuoteIdentifier() = %q, want %q", got, want)
	}
}
