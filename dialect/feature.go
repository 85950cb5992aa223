package dialect

import (
	"strconv"
	"strings"
)

// PlaceholderStyle selects how bind parameters are spelled in SQL text.
type PlaceholderStyle uint8

const (
	// PlaceholderQuestion emits `?` for every bind (MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar emits `$1`, `$2`, ... (PostgreSQL).
	PlaceholderDollar
)

// Format returns the placeholder for the given 1-based parameter position.
func (p PlaceholderStyle) Format(position int) string {
	if p == PlaceholderDollar {
		return "$" + strconv.Itoa(position)
	}
	return "?"
}

// Features describes the capabilities and textual conventions of a SQL
// backend. A Features value is immutable for the lifetime of a connection;
// statement nodes and the serializer read it to gate optional clauses and to
// pick quoting and placeholder styles. It never forks serialization into
// per-dialect node types.
type Features struct {
	// Name is the dialect name the descriptor belongs to.
	Name string
	// IdentQuote is the rune wrapped around identifiers. Occurrences of the
	// quote rune inside an identifier are escaped by doubling.
	IdentQuote rune
	// Placeholder is the bind parameter style.
	Placeholder PlaceholderStyle
	// MultiRowInsert reports whether a single INSERT may carry more than one
	// value row. Serialization of a multi-row INSERT on a dialect without
	// this capability logs a warning but still emits the complete statement.
	MultiRowInsert bool
	// DefaultValues reports whether `INSERT INTO t DEFAULT VALUES` is
	// accepted for inserting a row of column defaults. Dialects without it
	// (MySQL) use the `() VALUES ()` form instead.
	DefaultValues bool
	// Returning reports whether RETURNING clauses are honored. When false,
	// the clause is silently dropped.
	Returning bool
	// RowLocking reports whether locking reads (FOR UPDATE / FOR SHARE) are
	// honored. When false, the clause is silently dropped.
	RowLocking bool
	// ConflictClause reports whether conflict resolution is spelled as a
	// trailing `ON CONFLICT` clause.
	ConflictClause bool
	// InsertModifier is the statement-level keyword emitted after INSERT to
	// request ignore-on-conflict behavior (MySQL's `INSERT IGNORE`). When
	// non-empty, the modifier is emitted instead of a trailing conflict
	// clause, never in addition to it.
	InsertModifier string
	// DuplicateKeyUpdate reports whether conflict updates are spelled as
	// `ON DUPLICATE KEY UPDATE` (MySQL).
	DuplicateKeyUpdate bool
}

var (
	postgresFeatures = Features{
		Name:           Postgres,
		IdentQuote:     '"',
		Placeholder:    PlaceholderDollar,
		MultiRowInsert: true,
		DefaultValues:  true,
		Returning:      true,
		RowLocking:     true,
		ConflictClause: true,
	}
	mysqlFeatures = Features{
		Name:               MySQL,
		IdentQuote:         '`',
		Placeholder:        PlaceholderQuestion,
		MultiRowInsert:     true,
		RowLocking:         true,
		InsertModifier:     "IGNORE",
		DuplicateKeyUpdate: true,
	}
	sqliteFeatures = Features{
		Name:           SQLite,
		IdentQuote:     '"',
		Placeholder:    PlaceholderQuestion,
		MultiRowInsert: true,
		DefaultValues:  true,
		Returning:      true,
		ConflictClause: true,
	}
)

// FeaturesFor returns the capability descriptor for the named dialect.
// Unknown names fall back to ANSI defaults: double-quoted identifiers,
// `?` placeholders, multi-row INSERT, DEFAULT VALUES and ON CONFLICT
// clauses, with no RETURNING and no locking reads.
func FeaturesFor(name string) Features {
	switch name {
	case Postgres:
		return postgresFeatures
	case MySQL:
		return mysqlFeatures
	case SQLite:
		return sqliteFeatures
	default:
		return Features{
			Name:           name,
			IdentQuote:     '"',
			Placeholder:    PlaceholderQuestion,
			MultiRowInsert: true,
			DefaultValues:  true,
			ConflictClause: true,
		}
	}
}

// Quote returns the identifier wrapped in the dialect's quote rune, with
// embedded quote runes escaped by doubling. Dotted names are quoted
// per segment: `schema.table` becomes `"schema"."table"`.
func (f Features) Quote(ident string) string {
	q := string(f.IdentQuote)
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}
