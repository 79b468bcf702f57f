package tsql_test

import (
	"fmt"

	"github.com/zoobzio/tsql"
	"github.com/zoobzio/tsql/postgres"
)

func ExampleSelect() {
	users := tsql.NewTable("users",
		tsql.Col("id", tsql.Integral),
		tsql.Col("email", tsql.Text),
		tsql.Col("age", tsql.Integral.AsOptional()),
	)

	res := tsql.Select(users.C("id"), users.C("email")).
		From(users).
		Where(tsql.Ge(users.C("age"), tsql.P("min_age", tsql.Integral))).
		OrderBy(users.C("email")).
		Limit(10).
		MustRender(postgres.New())

	fmt.Println(res.SQL)
	fmt.Println(res.Params[0].Name)
	// Output:
	// SELECT "users"."id", "users"."email" FROM "users" WHERE "users"."age" >= $1 ORDER BY "users"."email" ASC LIMIT 10
	// min_age
}

func ExampleDynamic() {
	users := tsql.NewTable("users",
		tsql.Col("id", tsql.Integral),
		tsql.Col("email", tsql.Text),
	)

	for _, withEmail := range []bool{true, false} {
		res := tsql.Select(users.C("id"), tsql.Dynamic(withEmail, users.C("email"))).
			From(users).
			MustRender(tsql.NewRenderer())
		fmt.Println(res.SQL)
	}
	// Output:
	// SELECT users.id, users.email FROM users
	// SELECT users.id, NULL AS email FROM users
}

func ExampleInsertInto() {
	users := tsql.NewTable("users",
		tsql.Col("id", tsql.Integral).WithDefault().ReadOnly(),
		tsql.Col("email", tsql.Text),
	)

	res := tsql.InsertInto(users).
		Set(tsql.Set(users.C("email"), tsql.ParamFor(users.C("email")))).
		OnConflict(users.C("email")).
		DoNothing().
		Returning(users.C("id")).
		MustRender(postgres.New())

	fmt.Println(res.SQL)
	// Output:
	// INSERT INTO "users" ("email") VALUES($1) ON CONFLICT ("email") DO NOTHING RETURNING "users"."id"
}

func ExampleSelectBuilder_Consistency() {
	users := tsql.NewTable("users", tsql.Col("id", tsql.Integral))

	sel := tsql.Select(users.C("id"), tsql.As(tsql.CountAll(), "n")).From(users)
	fmt.Println(sel.Consistency())

	_, err := sel.Render(tsql.NewRenderer())
	fmt.Println(err)
	// Output:
	// either all select columns must be aggregates or none
	// consistency check failed: either all select columns must be aggregates or none
}
