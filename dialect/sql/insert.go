package sql

import (
	"github.com/lovetodream/sql-kit/dialect"
)

// InsertBuilder builds an INSERT statement. Every mutating method returns the
// receiver for chaining. Like Selector, it is a single-owner mutable object.
type InsertBuilder struct {
	stmt InsertExpr
}

// Insert returns a builder for inserting into the given table.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{stmt: InsertExpr{Table: table}}
}

// Columns appends the insert column list.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.stmt.Columns = append(i.stmt.Columns, columns...)
	return i
}

// Values appends one value row. Plain values become binds; Expression values
// (including the DefaultValue literal) are kept as-is. Every row must have
// exactly as many values as there are columns; a mismatch surfaces as an
// error when the statement is serialized or executed.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	row := make([]Expression, len(values))
	for j, v := range values {
		if e, ok := v.(Expression); ok {
			row[j] = e
		} else {
			row[j] = Arg{V: v}
		}
	}
	i.stmt.Rows = append(i.stmt.Rows, row)
	return i
}

// Default requests a row of column defaults (`DEFAULT VALUES`, or the
// dialect's equivalent form).
func (i *InsertBuilder) Default() *InsertBuilder {
	i.stmt.Defaults = true
	return i
}

// OnConflictIgnore sets an ignore-on-conflict strategy for the optional
// target columns, replacing any previous strategy (last write wins).
func (i *InsertBuilder) OnConflictIgnore(target ...string) *InsertBuilder {
	i.stmt.Conflict = &Conflict{Target: target, Ignore: true}
	return i
}

// OnConflictUpdate sets an update-on-conflict strategy, replacing any
// previous strategy (last write wins).
func (i *InsertBuilder) OnConflictUpdate(target []string, set ...Assign) *InsertBuilder {
	i.stmt.Conflict = &Conflict{Target: target, Updates: set}
	return i
}

// Returning sets the columns to return from the insert. Dialects without
// RETURNING omit the clause at serialization time.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	exprs := make([]Expression, len(columns))
	for j, c := range columns {
		exprs[j] = C(c)
	}
	i.stmt.Returning = &Returning{Exprs: exprs}
	return i
}

// Expr exposes the statement tree. The returned expression is borrowed: it
// must be treated as read-only and stays owned by the builder.
func (i *InsertBuilder) Expr() Expression {
	return &i.stmt
}

// Query serializes the statement under the given dialect features.
func (i *InsertBuilder) Query(f dialect.Features) (string, []any, error) {
	return Serialize(i.Expr(), f)
}
