package sqlkit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNoRows is returned when a query that expects at least one row
	// returns none.
	ErrNoRows = errors.New("sqlkit: no rows in result set")
)

// DecodeError is returned when a result row cannot be decoded into the
// requested record type. The execution funnel fails the overall operation on
// the first decode failure and discards any rows decoded so far.
type DecodeError struct {
	Row int   // Zero-based index of the row that failed to decode.
	Err error // Underlying decode error.
}

// Error returns the error string.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("sqlkit: decoding row %d: %v", e.Row, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError returns a new DecodeError for the given row index.
func NewDecodeError(row int, err error) *DecodeError {
	return &DecodeError{Row: row, Err: err}
}

// IsDecodeError returns true if the error is a DecodeError.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var e *DecodeError
	return errors.As(err, &e)
}

// StatementError reports a structurally invalid statement tree, such as an
// INSERT whose value rows do not match its column list. It indicates a
// programming error in assembling the statement, not a data-dependent
// failure, and surfaces when the tree is serialized or executed.
type StatementError struct {
	Stmt string // Statement kind, e.g. "insert".
	Err  error  // Underlying violation.
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("sqlkit: invalid %s statement: %v", e.Stmt, e.Err)
}

// Unwrap returns the underlying error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// NewStatementError returns a new StatementError for the given statement kind.
func NewStatementError(stmt string, err error) *StatementError {
	return &StatementError{Stmt: stmt, Err: err}
}

// IsStatementError returns true if the error is a StatementError.
func IsStatementError(err error) bool {
	if err == nil {
		return false
	}
	var e *StatementError
	return errors.As(err, &e)
}
