package sql

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lovetodream/sql-kit/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores,
// dots for schema.name).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Serializer accumulates SQL text and its ordered bind values during one
// serialization pass. The position of every bind in the returned slice
// corresponds 1:1 to the placeholder occurrences in the text, in emission
// order.
//
// A Serializer is scratch state owned by a single Serialize call. It is
// re-entrant safe per call (fresh state each invocation) but not safe for
// concurrent use of the same instance.
type Serializer struct {
	features dialect.Features
	log      *slog.Logger
	b        strings.Builder
	args     []any
	errs     []error
	warnings []string
}

// SerializeOption configures a Serializer.
type SerializeOption func(*Serializer)

// WithLogger routes dialect-degradation warnings to the given logger instead
// of slog.Default().
func WithLogger(l *slog.Logger) SerializeOption {
	return func(s *Serializer) {
		s.log = l
	}
}

// NewSerializer returns a fresh Serializer bound to the given dialect
// features.
func NewSerializer(f dialect.Features, opts ...SerializeOption) *Serializer {
	s := &Serializer{features: f, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize turns the expression tree into SQL text and its ordered binds
// under the given dialect features. Construction-time contract violations in
// the tree (such as mismatched insert row widths) surface as the returned
// error.
func Serialize(e Expression, f dialect.Features, opts ...SerializeOption) (string, []any, error) {
	return NewSerializer(f, opts...).Serialize(e)
}

// Serialize writes the expression into the serializer and returns the
// accumulated text and binds.
func (s *Serializer) Serialize(e Expression) (string, []any, error) {
	e.serialize(s)
	if len(s.errs) > 0 {
		return "", nil, errors.Join(s.errs...)
	}
	return s.b.String(), s.args, nil
}

// Features returns the dialect features the serializer consults.
func (s *Serializer) Features() dialect.Features {
	return s.features
}

// WriteString appends raw text to the statement.
func (s *Serializer) WriteString(v string) {
	s.b.WriteString(v)
}

// Ident appends a quoted identifier. Structurally invalid identifiers are a
// construction-time contract violation and fail the serialization.
func (s *Serializer) Ident(name string) {
	if !isValidIdentifier(name) {
		s.AddError(fmt.Errorf("sql: invalid identifier %q", name))
		return
	}
	s.b.WriteString(s.features.Quote(name))
}

// Arg appends the dialect's placeholder for the next parameter position and
// records v as its bind value.
func (s *Serializer) Arg(v any) {
	s.args = append(s.args, v)
	s.b.WriteString(s.features.Placeholder.Format(len(s.args)))
}

// Join serializes the expressions separated by sep.
func (s *Serializer) Join(sep string, exprs []Expression) {
	for i, e := range exprs {
		if i > 0 {
			s.b.WriteString(sep)
		}
		e.serialize(s)
	}
}

// AddError records a construction-time contract violation. Serialization
// continues best-effort but the overall Serialize call fails.
func (s *Serializer) AddError(err error) {
	s.errs = append(s.errs, err)
}

// Warnf records a dialect-degradation warning and logs it. Warnings do not
// fail the serialization; the emitted SQL stays syntactically complete.
func (s *Serializer) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, msg)
	s.log.Warn("sql: "+msg, "dialect", s.features.Name)
}

// Warnings returns the dialect-degradation warnings recorded so far.
func (s *Serializer) Warnings() []string {
	return s.warnings
}
