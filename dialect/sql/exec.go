package sql

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	sqlkit "github.com/lovetodream/sql-kit"
	"github.com/lovetodream/sql-kit/dialect"
)

// Querier is the connection surface the execution funnel needs: a dialect
// name to look up serialization features, and the row-returning query
// primitive. *Driver satisfies it, as do the Stats and Debug wrappers.
type Querier interface {
	Dialect() string
	Query(ctx context.Context, query string, args, v any) error
}

// TxQuerier adapts a transaction to the funnel's Querier surface. The given
// dialect name determines the features statements serialize under.
func TxQuerier(tx dialect.Tx, dialectName string) Querier {
	return txQuerier{Tx: tx, name: dialectName}
}

type txQuerier struct {
	dialect.Tx
	name string
}

func (q txQuerier) Dialect() string { return q.name }

// Row is the view of the current result row handed to row callbacks. It is
// only valid for the duration of the callback.
type Row struct {
	cs ColumnScanner
}

// Scan copies the current row's columns into dest.
func (r Row) Scan(dest ...any) error {
	return r.cs.Scan(dest...)
}

// Columns returns the result column names.
func (r Row) Columns() ([]string, error) {
	return r.cs.Columns()
}

// RowFunc is invoked once per result row, sequentially and in the order the
// driver produces them, strictly before the execution completes. Returning
// an error aborts the execution with that error; rows already observed are
// not undone.
type RowFunc func(Row) error

// Decoder decodes one result row into T.
type Decoder[T any] func(Row) (T, error)

// run is the execution primitive. Every entry point in this package,
// whatever its shape, compresses down to this one function: it serializes
// the statement under the connection's dialect, sends text and binds through
// the connection, and streams each row to fn. rec, when non-nil, is
// populated with per-phase metrics; the control flow is identical either
// way.
func run(ctx context.Context, drv Querier, st Statement, fn RowFunc, rec *Record) error {
	start := time.Now()
	features := dialect.FeaturesFor(drv.Dialect())

	phase := time.Now()
	query, args, err := Serialize(st.Expr(), features)
	if err != nil {
		return err
	}
	if rec != nil {
		rec.Set(MetricSerializationDuration, DurationValue(time.Since(phase)))
		rec.Set(MetricQueryText, NoteValue(summarizeQuery(query)))
		rec.Set(MetricBindCount, CountValue(int64(len(args))))
		phase = time.Now()
		args = encodeArgs(args)
		rec.Set(MetricParameterEncodingDuration, DurationValue(time.Since(phase)))
	}

	var rows Rows
	if err := drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()

	phase = time.Now()
	if rec != nil {
		// Result retrieval was attempted, so the count is present even
		// when it stays zero.
		rec.Set(MetricRowCount, CountValue(0))
	}
	for rows.Next() {
		if rec != nil {
			rec.Add(MetricRowCount, CountValue(1))
		}
		if fn == nil {
			continue
		}
		cb := time.Now()
		err := fn(Row{cs: rows})
		if rec != nil {
			rec.Add(MetricRowDecodingDuration, DurationValue(time.Since(cb)))
		}
		if err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("dialect/sql: rows: %w", err)
	}
	if rec != nil {
		rec.Set(MetricProcessingDuration, DurationValue(time.Since(phase)))
		rec.Set(MetricExecutionDuration, DurationValue(time.Since(start)))
		rec.Set(MetricFallback, FlagValue(true))
	}
	return nil
}

// Run executes the statement and streams every result row to fn. It is the
// public face of the execution primitive; all other entry points are built
// strictly on top of it.
func Run(ctx context.Context, drv Querier, st Statement, fn RowFunc) error {
	return run(ctx, drv, st, fn, nil)
}

// Exec executes the statement, discarding any result rows.
func Exec(ctx context.Context, drv Querier, st Statement) error {
	return run(ctx, drv, st, nil, nil)
}

// All executes the statement and decodes every row with dec. A single row's
// decode failure fails the whole operation and discards rows decoded so far;
// no partial result is returned.
func All[T any](ctx context.Context, drv Querier, st Statement, dec Decoder[T]) ([]T, error) {
	out, err := collect(ctx, drv, st, dec, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// First executes the statement and decodes the first row. It collects the
// full result and takes the head rather than short-circuiting the stream;
// callers wanting fewer rows should say so with Limit. Zero rows yield
// sqlkit.ErrNoRows.
func First[T any](ctx context.Context, drv Querier, st Statement, dec Decoder[T]) (T, error) {
	var zero T
	out, err := All(ctx, drv, st, dec)
	if err != nil {
		return zero, err
	}
	if len(out) == 0 {
		return zero, sqlkit.ErrNoRows
	}
	return out[0], nil
}

// RunRecorded is Run with performance tracking: the returned Record holds
// per-phase timings and statement metadata for this execution. The record is
// returned even when the execution fails, holding whatever phases completed.
func RunRecorded(ctx context.Context, drv Querier, st Statement, fn RowFunc) (*Record, error) {
	rec := NewRecord()
	return rec, run(ctx, drv, st, fn, rec)
}

// ExecRecorded is Exec with performance tracking.
func ExecRecorded(ctx context.Context, drv Querier, st Statement) (*Record, error) {
	rec := NewRecord()
	return rec, run(ctx, drv, st, nil, rec)
}

// AllRecorded is All with performance tracking, additionally accumulating
// the structured decode time per row.
func AllRecorded[T any](ctx context.Context, drv Querier, st Statement, dec Decoder[T]) ([]T, *Record, error) {
	rec := NewRecord()
	out, err := collect(ctx, drv, st, dec, rec)
	if err != nil {
		return nil, rec, err
	}
	return out, rec, nil
}

// FirstRecorded is First with performance tracking.
func FirstRecorded[T any](ctx context.Context, drv Querier, st Statement, dec Decoder[T]) (T, *Record, error) {
	var zero T
	out, rec, err := AllRecorded(ctx, drv, st, dec)
	if err != nil {
		return zero, rec, err
	}
	if len(out) == 0 {
		return zero, rec, sqlkit.ErrNoRows
	}
	return out[0], rec, nil
}

// collect funnels a decoding accumulation through the primitive.
func collect[T any](ctx context.Context, drv Querier, st Statement, dec Decoder[T], rec *Record) ([]T, error) {
	var out []T
	err := run(ctx, drv, st, func(r Row) error {
		phase := time.Now()
		v, err := dec(r)
		if rec != nil {
			rec.Add(MetricResultDecodingDuration, DurationValue(time.Since(phase)))
		}
		if err != nil {
			return sqlkit.NewDecodeError(len(out), err)
		}
		out = append(out, v)
		return nil
	}, rec)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// encodeArgs pre-converts bind values through the standard parameter
// converter, resolving driver.Valuer implementations up front. Values the
// converter rejects pass through untouched for the driver to judge.
func encodeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if v, err := driver.DefaultParameterConverter.ConvertValue(a); err == nil {
			out[i] = v
		} else {
			out[i] = a
		}
	}
	return out
}

// placeholderRunRe matches runs of four or more comma-separated bind
// placeholders in either style.
var placeholderRunRe = regexp.MustCompile(`(\?|\$\d+)(, (\?|\$\d+)){3,}`)

// maxQueryNote bounds the statement text stored in a record.
const maxQueryNote = 256

// summarizeQuery collapses placeholder runs and truncates the statement text
// so high-arity statements do not bloat their record. Truncation happens on a
// rune boundary so the note stays valid UTF-8.
func summarizeQuery(query string) string {
	q := placeholderRunRe.ReplaceAllString(query, "$1, ...")
	if len(q) > maxQueryNote {
		cut := maxQueryNote
		for cut > 0 && !utf8.RuneStart(q[cut]) {
			cut--
		}
		q = q[:cut] + "..."
	}
	return q
}
