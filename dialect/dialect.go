// Package dialect defines the connection abstraction shared by all SQL
// backends, together with the capability descriptors consulted during
// statement serialization.
//
// The package is deliberately small: concrete drivers live in dialect/sql,
// and everything database-specific a statement needs to know is expressed
// through the Features descriptor rather than per-dialect code paths.
package dialect

import "context"

// Dialect names supported out of the box.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two base operations every connection exposes.
//
// For Exec, v is either nil or a *sql.Result. For Query, v is a *sql.Rows
// wrapper owned by the caller. args is always a []any.
type ExecQuerier interface {
	// Exec executes a statement that returns no result rows.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement and makes its result rows available
	// through v.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal connection surface required to execute statements.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transaction scoped to a single connection.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
