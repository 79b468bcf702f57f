package exec

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/tsql"
)

// Rows iterates the result of a query.
type Rows struct {
	ctx  context.Context
	db   *DB
	rows *sqlx.Rows
	cols []tsql.ResultColumn
	read int64
}

// Columns returns the result columns the statement declared.
func (r *Rows) Columns() []tsql.ResultColumn { return r.cols }

// Next advances to the next row.
func (r *Rows) Next() bool {
	if r.rows.Next() {
		r.read++
		return true
	}
	return false
}

// Row scans the current row.
func (r *Rows) Row() (*Row, error) {
	values, err := r.rows.SliceScan()
	if err != nil {
		return nil, fmt.Errorf("exec: scan row %d: %w", r.read, err)
	}
	if len(r.cols) > 0 && len(values) != len(r.cols) {
		return nil, fmt.Errorf("exec: row has %d columns, statement declares %d", len(values), len(r.cols))
	}
	return &Row{values: values, cols: r.cols}, nil
}

// StructScan scans the current row into dest by column name.
func (r *Rows) StructScan(dest any) error {
	if err := r.rows.StructScan(dest); err != nil {
		return fmt.Errorf("exec: scan row %d: %w", r.read, err)
	}
	return nil
}

// Err returns the error, if any, that ended iteration.
func (r *Rows) Err() error { return r.rows.Err() }

// Close closes the rows.
func (r *Rows) Close() error {
	err := r.rows.Close()
	if r.db.events {
		capitan.Debug(r.ctx, ResultRead,
			RowsKey.Field(r.read),
			DialectKey.Field(r.db.dialect),
		)
	}
	return err
}

// Row holds the values of one result row in select-list order.
type Row struct {
	values []any
	cols   []tsql.ResultColumn
}

// NewRow builds a row from raw driver values described by cols.
func NewRow(cols []tsql.ResultColumn, values ...any) *Row {
	return &Row{values: values, cols: cols}
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.values) }

// Name returns the name of column i.
func (r *Row) Name(i int) string {
	if i < 0 || i >= len(r.cols) {
		return ""
	}
	return r.cols[i].Name
}

// Type returns the declared data type of column i.
func (r *Row) Type(i int) tsql.DataType {
	if i < 0 || i >= len(r.cols) {
		return tsql.DataType{}
	}
	return r.cols[i].Type
}

// IsNull reports whether column i holds NULL.
func (r *Row) IsNull(i int) bool {
	return i >= 0 && i < len(r.values) && r.values[i] == nil
}

// Nullable is a value that may be NULL.
type Nullable[T any] struct {
	V     T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{V: v, Valid: true}
}

// Set stores v.
func (n *Nullable[T]) Set(v T) {
	n.V = v
	n.Valid = true
}

// SetNull clears the value.
func (n *Nullable[T]) SetNull() {
	var zero T
	n.V = zero
	n.Valid = false
}

// HasValue reports whether n is not NULL.
func (n Nullable[T]) HasValue() bool { return n.Valid }

// Or returns the value, or def when n is NULL.
func (n Nullable[T]) Or(def T) T {
	if !n.Valid {
		return def
	}
	return n.V
}

func (n Nullable[T]) boundValue() (any, bool) { return n.V, n.Valid }

// Read decodes column index of row into T. Supported targets are bool, int64,
// uint64, float64, string, []byte, time.Time, time.Duration and sql.Scanner
// implementations. NULL in a column declared required is an error.
func Read[T any](row *Row, index int) (Nullable[T], error) {
	var n Nullable[T]
	if index < 0 || index >= len(row.values) {
		return n, fmt.Errorf("exec: column %d out of range (row has %d)", index, len(row.values))
	}
	raw := row.values[index]
	if raw == nil {
		if index < len(row.cols) && !row.cols[index].Type.Optional && !row.cols[index].Type.IsNull() {
			return n, fmt.Errorf("exec: column %d (%s) is NULL but declared %s", index, row.Name(index), row.Type(index))
		}
		return n, nil
	}
	if err := decode(any(&n.V), raw); err != nil {
		return n, fmt.Errorf("exec: read column %d (%s): %w", index, row.Name(index), err)
	}
	n.Valid = true
	return n, nil
}

// MustRead is Read that panics on error.
func MustRead[T any](row *Row, index int) Nullable[T] {
	n, err := Read[T](row, index)
	if err != nil {
		panic(err)
	}
	return n
}

// decode converts a raw driver value into dst. Text-encoded numbers, booleans
// and temporal values are parsed; SQLite and MariaDB return them that way.
func decode(dst, raw any) error {
	if b, ok := raw.([]byte); ok {
		if _, wantBytes := dst.(*[]byte); !wantBytes {
			raw = string(b)
		}
	}

	switch d := dst.(type) {
	case *bool:
		switch x := raw.(type) {
		case bool:
			*d = x
			return nil
		case int64:
			*d = x != 0
			return nil
		case string:
			v, err := strconv.ParseBool(x)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case *int64:
		switch x := raw.(type) {
		case int64:
			*d = x
			return nil
		case int32:
			*d = int64(x)
			return nil
		case uint64:
			if x > math.MaxInt64 {
				return fmt.Errorf("value %d out of range", x)
			}
			*d = int64(x)
			return nil
		case string:
			v, err := strconv.ParseInt(x, 10, 64)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case *uint64:
		switch x := raw.(type) {
		case int64:
			if x < 0 {
				return fmt.Errorf("value %d out of range", x)
			}
			*d = uint64(x)
			return nil
		case uint64:
			*d = x
			return nil
		case string:
			v, err := strconv.ParseUint(x, 10, 64)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case *float64:
		switch x := raw.(type) {
		case float64:
			*d = x
			return nil
		case float32:
			*d = float64(x)
			return nil
		case int64:
			*d = float64(x)
			return nil
		case string:
			v, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case *string:
		switch x := raw.(type) {
		case string:
			*d = x
			return nil
		case time.Time:
			*d = x.Format(time.RFC3339Nano)
			return nil
		}
	case *[]byte:
		switch x := raw.(type) {
		case []byte:
			*d = append([]byte(nil), x...)
			return nil
		case string:
			*d = []byte(x)
			return nil
		}
	case *time.Time:
		switch x := raw.(type) {
		case time.Time:
			*d = x
			return nil
		case string:
			v, err := ParseTimestamp(x)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case *time.Duration:
		switch x := raw.(type) {
		case time.Duration:
			*d = x
			return nil
		case time.Time:
			h, m, s := x.Clock()
			*d = time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
				time.Duration(s)*time.Second + time.Duration(x.Nanosecond())
			return nil
		case string:
			v, err := ParseTimeOfDay(x)
			if err != nil {
				return err
			}
			*d = v
			return nil
		}
	case sql.Scanner:
		return d.Scan(raw)
	default:
		return fmt.Errorf("unsupported target %T", dst)
	}
	return fmt.Errorf("cannot decode %T into %T", raw, dst)
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses the text forms databases use for dates and timestamps.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", s)
}

// ParseTimeOfDay parses HH:MM[:SS[.ffffff]] into a duration since midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("cannot parse %q as a time of day", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("cannot parse %q as a time of day", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("cannot parse %q as a time of day", s)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	if len(parts) == 3 {
		sec, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("cannot parse %q as a time of day", s)
		}
		d += time.Duration(math.Round(sec*float64(time.Second/time.Microsecond))) * time.Microsecond
	}
	return d, nil
}

// Value implements driver.Valuer so a Nullable can be passed to database/sql directly.
func (n Nullable[T]) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(n.V)
}
