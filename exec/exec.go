// Package exec runs rendered tsql statements through sqlx.
//
// It owns the driver boundary only: values are checked against the parameter
// descriptors of a QueryResult and bound positionally, rows are read back by
// column index into Nullable values. Pooling and transactions stay with
// database/sql.
package exec

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/tsql"
)

// DB executes statements rendered for one dialect.
type DB struct {
	db      *sqlx.DB
	r       tsql.Renderer
	dialect string
	events  bool
}

// Option configures a DB.
type Option func(*DB)

// WithEvents toggles capitan events. Events are on by default.
func WithEvents(enabled bool) Option {
	return func(d *DB) {
		d.events = enabled
	}
}

// New wraps db, rendering statements with r.
func New(db *sqlx.DB, r tsql.Renderer, opts ...Option) *DB {
	d := &DB{db: db, r: r, dialect: dialectName(r), events: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func dialectName(r tsql.Renderer) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", r)
}

// Renderer returns the renderer statements are serialized with.
func (d *DB) Renderer() tsql.Renderer { return d.r }

// Render checks and serializes stmt for the DB's dialect.
func (d *DB) Render(ctx context.Context, stmt tsql.Statement) (*tsql.QueryResult, error) {
	res, err := stmt.Render(d.r)
	if err != nil {
		d.failed(ctx, "", 0, err)
		return nil, err
	}
	return res, nil
}

// Exec renders stmt and executes it with args bound to its placeholders in order.
func (d *DB) Exec(ctx context.Context, stmt tsql.Statement, args ...any) (sql.Result, error) {
	res, err := d.Render(ctx, stmt)
	if err != nil {
		return nil, err
	}
	bound, err := bindAll(res, args)
	if err != nil {
		d.failed(ctx, res.SQL, 0, err)
		return nil, err
	}
	return d.exec(ctx, d.db, res, bound)
}

// Query renders stmt and runs it with args bound to its placeholders in order.
func (d *DB) Query(ctx context.Context, stmt tsql.Statement, args ...any) (*Rows, error) {
	res, err := d.Render(ctx, stmt)
	if err != nil {
		return nil, err
	}
	bound, err := bindAll(res, args)
	if err != nil {
		d.failed(ctx, res.SQL, 0, err)
		return nil, err
	}
	return d.query(ctx, d.db, res, bound)
}

// Prepare renders stmt and prepares it on the connection.
func (d *DB) Prepare(ctx context.Context, stmt tsql.Statement) (*Prepared, error) {
	res, err := d.Render(ctx, stmt)
	if err != nil {
		return nil, err
	}
	ps, err := d.db.PreparexContext(ctx, res.SQL)
	if err != nil {
		err = fmt.Errorf("exec: prepare: %w", err)
		d.failed(ctx, res.SQL, 0, err)
		return nil, err
	}
	if d.events {
		capitan.Debug(ctx, StatementPrepared,
			SQLKey.Field(res.SQL),
			DialectKey.Field(d.dialect),
			ParamsKey.Field(len(res.Params)),
		)
	}
	return &Prepared{
		db:    d,
		stmt:  ps,
		res:   res,
		args:  make([]any, len(res.Params)),
		bound: make([]bool, len(res.Params)),
	}, nil
}

func (d *DB) exec(ctx context.Context, ex sqlx.ExecerContext, res *tsql.QueryResult, args []any) (sql.Result, error) {
	start := time.Now()
	out, err := ex.ExecContext(ctx, res.SQL, args...)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		err = fmt.Errorf("exec: %w", err)
		d.failed(ctx, res.SQL, elapsed, err)
		return nil, err
	}
	if d.events {
		affected, _ := out.RowsAffected()
		capitan.Info(ctx, StatementExecuted,
			SQLKey.Field(res.SQL),
			DialectKey.Field(d.dialect),
			ParamsKey.Field(len(args)),
			DurationMsKey.Field(elapsed),
			RowsKey.Field(affected),
		)
	}
	return out, nil
}

func (d *DB) query(ctx context.Context, q sqlx.QueryerContext, res *tsql.QueryResult, args []any) (*Rows, error) {
	start := time.Now()
	rows, err := q.QueryxContext(ctx, res.SQL, args...)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		err = fmt.Errorf("exec: query: %w", err)
		d.failed(ctx, res.SQL, elapsed, err)
		return nil, err
	}
	if d.events {
		capitan.Info(ctx, StatementExecuted,
			SQLKey.Field(res.SQL),
			DialectKey.Field(d.dialect),
			ParamsKey.Field(len(args)),
			DurationMsKey.Field(elapsed),
		)
	}
	return &Rows{ctx: ctx, db: d, rows: rows, cols: res.Columns}, nil
}

func (d *DB) failed(ctx context.Context, query string, elapsed int64, err error) {
	if !d.events {
		return
	}
	capitan.Error(ctx, StatementFailed,
		SQLKey.Field(query),
		DialectKey.Field(d.dialect),
		DurationMsKey.Field(elapsed),
		ErrorKey.Field(err.Error()),
	)
}

// Prepared is a statement prepared on the connection whose placeholders are
// bound one at a time. A Prepared is not safe for concurrent binding.
type Prepared struct {
	db    *DB
	stmt  *sqlx.Stmt
	res   *tsql.QueryResult
	args  []any
	bound []bool
}

// Result returns the rendered statement.
func (p *Prepared) Result() *tsql.QueryResult { return p.res }

// Bind binds v to the 1-based placeholder index.
func (p *Prepared) Bind(ctx context.Context, index int, v any) error {
	if index < 1 || index > len(p.res.Params) {
		return fmt.Errorf("exec: placeholder %d out of range (statement has %d)", index, len(p.res.Params))
	}
	desc := p.res.Params[index-1]
	val, err := bind(desc, v)
	if err != nil {
		return err
	}
	p.args[index-1] = val
	p.bound[index-1] = true
	if p.db.events {
		capitan.Debug(ctx, ParameterBound,
			IndexKey.Field(index),
			KindKey.Field(desc.Type.String()),
		)
	}
	return nil
}

// BindNamed binds v to every placeholder created for the parameter name.
func (p *Prepared) BindNamed(ctx context.Context, name string, v any) error {
	found := false
	for _, desc := range p.res.Params {
		if desc.Name != name {
			continue
		}
		found = true
		if err := p.Bind(ctx, desc.Index, v); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("exec: statement has no parameter %q", name)
	}
	return nil
}

// Reset forgets every bound value.
func (p *Prepared) Reset() {
	for i := range p.args {
		p.args[i] = nil
		p.bound[i] = false
	}
}

func (p *Prepared) ready() error {
	for i, ok := range p.bound {
		if !ok {
			desc := p.res.Params[i]
			return fmt.Errorf("exec: placeholder %d (%s) is not bound", desc.Index, desc.Name)
		}
	}
	return nil
}

// Exec runs the statement with the bound values.
func (p *Prepared) Exec(ctx context.Context) (sql.Result, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return p.db.exec(ctx, stmtExecer{p.stmt}, p.res, p.args)
}

// Query runs the statement with the bound values.
func (p *Prepared) Query(ctx context.Context) (*Rows, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	return p.db.query(ctx, stmtQueryer{p.stmt}, p.res, p.args)
}

// Close releases the prepared statement.
func (p *Prepared) Close() error {
	return p.stmt.Close()
}

// stmtExecer and stmtQueryer let a prepared statement stand in for a DB;
// the query text is already fixed.
type stmtExecer struct{ s *sqlx.Stmt }

func (e stmtExecer) ExecContext(ctx context.Context, _ string, args ...any) (sql.Result, error) {
	return e.s.ExecContext(ctx, args...)
}

type stmtQueryer struct{ s *sqlx.Stmt }

func (q stmtQueryer) QueryContext(ctx context.Context, _ string, args ...any) (*sql.Rows, error) {
	return q.s.QueryContext(ctx, args...)
}

func (q stmtQueryer) QueryxContext(ctx context.Context, _ string, args ...any) (*sqlx.Rows, error) {
	return q.s.QueryxContext(ctx, args...)
}

func (q stmtQueryer) QueryRowxContext(ctx context.Context, _ string, args ...any) *sqlx.Row {
	return q.s.QueryRowxContext(ctx, args...)
}
