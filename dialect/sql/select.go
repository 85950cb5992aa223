package sql

import (
	"github.com/lovetodream/sql-kit/dialect"
)

// Selector builds a SELECT statement. Every mutating method returns the
// receiver for chaining. A Selector is a single-owner mutable object: it must
// not be mutated concurrently with a pending serialization or execution of
// its statement tree.
type Selector struct {
	stmt SelectExpr
}

// Select returns a Selector projecting the given columns. "*" is rewritten
// to the all-columns literal.
func Select(columns ...string) *Selector {
	return (&Selector{}).Columns(columns...)
}

// Columns appends column projections. "*" is rewritten to the all-columns
// literal rather than treated as an identifier.
func (s *Selector) Columns(columns ...string) *Selector {
	for _, c := range columns {
		s.stmt.Columns = append(s.stmt.Columns, C(c))
	}
	return s
}

// ColumnsExpr appends arbitrary projection expressions, e.g. aliases or raw
// fragments.
func (s *Selector) ColumnsExpr(exprs ...Expression) *Selector {
	s.stmt.Columns = append(s.stmt.Columns, exprs...)
	return s
}

// Distinct marks the projection DISTINCT.
func (s *Selector) Distinct() *Selector {
	s.stmt.Distinct = true
	return s
}

// From appends tables to select from. Multiple tables do not imply a join;
// use Join and friends for that.
func (s *Selector) From(tables ...string) *Selector {
	for _, t := range tables {
		s.stmt.From = append(s.stmt.From, Ident{Name: t})
	}
	return s
}

// FromExpr appends a table expression, e.g. an aliased table.
func (s *Selector) FromExpr(exprs ...Expression) *Selector {
	s.stmt.From = append(s.stmt.From, exprs...)
	return s
}

// Join appends an inner join on the given condition.
func (s *Selector) Join(table string, on Expression) *Selector {
	return s.join("JOIN", Ident{Name: table}, on)
}

// LeftJoin appends a left outer join on the given condition.
func (s *Selector) LeftJoin(table string, on Expression) *Selector {
	return s.join("LEFT JOIN", Ident{Name: table}, on)
}

// RightJoin appends a right outer join on the given condition.
func (s *Selector) RightJoin(table string, on Expression) *Selector {
	return s.join("RIGHT JOIN", Ident{Name: table}, on)
}

// JoinExpr appends a join against an arbitrary table expression.
func (s *Selector) JoinExpr(kind string, table, on Expression) *Selector {
	return s.join(kind, table, on)
}

func (s *Selector) join(kind string, table, on Expression) *Selector {
	s.stmt.Joins = append(s.stmt.Joins, JoinExpr{Kind: kind, Table: table, On: on})
	return s
}

// Where sets the filter predicate, replacing any previous one. The builder
// stores exactly one root predicate; combine several conditions with And/Or
// before installing them.
func (s *Selector) Where(p Expression) *Selector {
	s.stmt.Where = p
	return s
}

// P returns the current filter predicate, or nil.
func (s *Selector) P() Expression {
	return s.stmt.Where
}

// Having sets the post-aggregation predicate, replacing any previous one.
func (s *Selector) Having(p Expression) *Selector {
	s.stmt.Having = p
	return s
}

// HavingP returns the current post-aggregation predicate, or nil.
func (s *Selector) HavingP() Expression {
	return s.stmt.Having
}

// GroupBy appends grouping columns.
func (s *Selector) GroupBy(columns ...string) *Selector {
	for _, c := range columns {
		s.stmt.GroupBy = append(s.stmt.GroupBy, C(c))
	}
	return s
}

// OrderBy appends ordering terms. Use Asc/Desc for explicit directions and
// OrderByExpr for arbitrary expressions.
func (s *Selector) OrderBy(columns ...string) *Selector {
	for _, c := range columns {
		s.stmt.OrderBy = append(s.stmt.OrderBy, C(c))
	}
	return s
}

// OrderByExpr appends ordering expressions.
func (s *Selector) OrderByExpr(exprs ...Expression) *Selector {
	s.stmt.OrderBy = append(s.stmt.OrderBy, exprs...)
	return s
}

// Limit sets the row limit, replacing any previous value.
func (s *Selector) Limit(n int) *Selector {
	s.stmt.Limit = &n
	return s
}

// Offset sets the row offset, replacing any previous value.
func (s *Selector) Offset(n int) *Selector {
	s.stmt.Offset = &n
	return s
}

// For sets the locking clause, replacing any previous one (last write wins).
// Dialects without locking reads omit the clause at serialization time.
func (s *Selector) For(strength LockStrength) *Selector {
	s.stmt.Lock = &Locking{Strength: strength}
	return s
}

// ForUpdate requests a FOR UPDATE locking read.
func (s *Selector) ForUpdate() *Selector {
	return s.For(LockUpdate)
}

// ForShare requests a FOR SHARE locking read.
func (s *Selector) ForShare() *Selector {
	return s.For(LockShare)
}

// Expr exposes the statement tree. The returned expression is borrowed: it
// must be treated as read-only and stays owned by the builder.
func (s *Selector) Expr() Expression {
	return &s.stmt
}

// Query serializes the statement under the given dialect features.
func (s *Selector) Query(f dialect.Features) (string, []any, error) {
	return Serialize(s.Expr(), f)
}
