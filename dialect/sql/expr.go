package sql

import (
	"fmt"

	sqlkit "github.com/lovetodream/sql-kit"
)

// Expression is a node in the statement tree. Every node knows exactly one
// thing: how to append its textual representation and bind values to a
// Serializer, consulting the serializer's dialect features for quoting and
// capability gating.
//
// The node set is closed: serialize is unexported, so all variants live in
// this package and serializer dispatch stays exhaustive. Raw is the escape
// hatch for fragments the catalog does not model.
//
// Nodes are mutable while a builder assembles them and must be treated as
// read-only once handed to serialization or execution. Serializing the same
// completed tree from multiple goroutines is safe; mutating it concurrently
// with a pending serialization is not.
type Expression interface {
	serialize(*Serializer)
}

// Statement is any builder exposing a top-level statement expression.
// Selector, InsertBuilder and Raw statements implement it; the execution
// funnel accepts any Statement.
type Statement interface {
	Expr() Expression
}

// Ident is a quoted SQL identifier. Dotted names quote per segment.
type Ident struct {
	Name string
}

func (e Ident) serialize(s *Serializer) {
	s.Ident(e.Name)
}

type literalKind uint8

const (
	litAll literalKind = iota
	litDefault
	litNull
	litTrue
	litFalse
)

// Literal is an inline SQL literal. The distinguished values AllColumns and
// DefaultValue cover the `*` projection and the `DEFAULT` insert value;
// everything data-dependent should be an Arg bind instead.
type Literal struct {
	kind literalKind
}

// Distinguished literals.
var (
	// AllColumns is the `*` projection literal.
	AllColumns = Literal{kind: litAll}
	// DefaultValue is the `DEFAULT` placeholder literal for insert values.
	DefaultValue = Literal{kind: litDefault}
	// Null is the `NULL` literal.
	Null = Literal{kind: litNull}
)

// Bool returns the TRUE or FALSE literal.
func Bool(v bool) Literal {
	if v {
		return Literal{kind: litTrue}
	}
	return Literal{kind: litFalse}
}

func (e Literal) serialize(s *Serializer) {
	switch e.kind {
	case litAll:
		s.WriteString("*")
	case litDefault:
		s.WriteString("DEFAULT")
	case litNull:
		s.WriteString("NULL")
	case litTrue:
		s.WriteString("TRUE")
	case litFalse:
		s.WriteString("FALSE")
	}
}

// Arg is a bound parameter. It serializes as the dialect's placeholder and
// appends its value to the serializer's bind list.
type Arg struct {
	V any
}

func (e Arg) serialize(s *Serializer) {
	s.Arg(e.V)
}

// Column is an optionally table-qualified column reference. A Name of "*"
// emits the all-columns literal for the given table.
type Column struct {
	Table string
	Name  string
}

func (e Column) serialize(s *Serializer) {
	if e.Table != "" {
		s.Ident(e.Table)
		s.WriteString(".")
	}
	if e.Name == "*" {
		AllColumns.serialize(s)
		return
	}
	s.Ident(e.Name)
}

// C returns a column expression: C("name") or C("table", "name").
// A bare "*" is rewritten to the all-columns literal.
func C(parts ...string) Expression {
	switch len(parts) {
	case 1:
		if parts[0] == "*" {
			return AllColumns
		}
		return Column{Name: parts[0]}
	case 2:
		return Column{Table: parts[0], Name: parts[1]}
	default:
		panic(fmt.Sprintf("sql: C expects 1 or 2 parts, got %d", len(parts)))
	}
}

// Alias serializes as `<expr> AS <alias>`.
type Alias struct {
	Expr Expression
	As   string
}

func (e Alias) serialize(s *Serializer) {
	e.Expr.serialize(s)
	s.WriteString(" AS ")
	s.Ident(e.As)
}

// As aliases an expression.
func As(e Expression, alias string) Expression {
	return Alias{Expr: e, As: alias}
}

// List is a comma-joined sequence of expressions.
type List struct {
	Exprs []Expression
}

func (e List) serialize(s *Serializer) {
	s.Join(", ", e.Exprs)
}

// Group is a parenthesized, comma-joined sequence of expressions.
type Group struct {
	Exprs []Expression
}

func (e Group) serialize(s *Serializer) {
	s.WriteString("(")
	s.Join(", ", e.Exprs)
	s.WriteString(")")
}

// Binary applies an infix operator to two operands.
type Binary struct {
	X  Expression
	Op string
	Y  Expression
}

func (e Binary) serialize(s *Serializer) {
	e.X.serialize(s)
	s.WriteString(" ")
	s.WriteString(e.Op)
	s.WriteString(" ")
	e.Y.serialize(s)
}

// Unary applies a prefix operator to a parenthesized operand.
type Unary struct {
	Op string
	X  Expression
}

func (e Unary) serialize(s *Serializer) {
	s.WriteString(e.Op)
	s.WriteString(" (")
	e.X.serialize(s)
	s.WriteString(")")
}

// Raw is the opaque escape hatch: verbatim SQL text with optional binds.
// Each `?` outside a single-quoted string literal consumes one argument and
// is rewritten to the dialect's native placeholder, so raw fragments stay
// portable across placeholder styles. A `?` inside quotes is passed through
// verbatim.
type Raw struct {
	SQL  string
	Args []any
}

func (e Raw) serialize(s *Serializer) {
	next := 0
	quoted := false
	for _, r := range e.SQL {
		switch {
		case r == '\'':
			// A doubled '' escape toggles twice and stays inside the literal.
			quoted = !quoted
			s.b.WriteRune(r)
		case r == '?' && !quoted:
			if next >= len(e.Args) {
				s.AddError(fmt.Errorf("sql: raw fragment %q has more placeholders than the %d given args", e.SQL, len(e.Args)))
				return
			}
			s.Arg(e.Args[next])
			next++
		default:
			s.b.WriteRune(r)
		}
	}
	if next < len(e.Args) {
		s.AddError(fmt.Errorf("sql: raw fragment %q consumed %d of %d args", e.SQL, next, len(e.Args)))
	}
}

// Expr returns the raw fragment itself, making Raw usable directly as a
// Statement for the execution funnel.
func (e Raw) Expr() Expression {
	return e
}

// orderExpr is a column reference with an explicit sort direction.
type orderExpr struct {
	expr Expression
	desc bool
}

func (e orderExpr) serialize(s *Serializer) {
	e.expr.serialize(s)
	if e.desc {
		s.WriteString(" DESC")
	} else {
		s.WriteString(" ASC")
	}
}

// Asc returns an ascending ORDER BY term for the column.
func Asc(column string) Expression {
	return orderExpr{expr: C(column)}
}

// Desc returns a descending ORDER BY term for the column.
func Desc(column string) Expression {
	return orderExpr{expr: C(column), desc: true}
}

// LockStrength is the strength of a locking read.
type LockStrength string

// Locking read strengths.
const (
	LockUpdate LockStrength = "UPDATE"
	LockShare  LockStrength = "SHARE"
)

// Locking is a locking-read clause. At most one is active per statement.
type Locking struct {
	Strength LockStrength
}

func (e Locking) serialize(s *Serializer) {
	s.WriteString("FOR ")
	s.WriteString(string(e.Strength))
}

// JoinExpr is a single join appended to a SELECT statement.
type JoinExpr struct {
	Kind  string // "JOIN", "LEFT JOIN", "RIGHT JOIN".
	Table Expression
	On    Expression
}

func (e JoinExpr) serialize(s *Serializer) {
	s.WriteString(e.Kind)
	s.WriteString(" ")
	e.Table.serialize(s)
	if e.On != nil {
		s.WriteString(" ON ")
		e.On.serialize(s)
	}
}

// SelectExpr is the top-level SELECT statement node. It is assembled by a
// Selector and serialized as a unit.
type SelectExpr struct {
	Distinct bool
	Columns  []Expression
	From     []Expression
	Joins    []JoinExpr
	Where    Expression
	GroupBy  []Expression
	Having   Expression
	OrderBy  []Expression
	Limit    *int
	Offset   *int
	Lock     *Locking
}

func (e *SelectExpr) serialize(s *Serializer) {
	s.WriteString("SELECT ")
	if e.Distinct {
		s.WriteString("DISTINCT ")
	}
	if len(e.Columns) == 0 {
		AllColumns.serialize(s)
	} else {
		s.Join(", ", e.Columns)
	}
	if len(e.From) > 0 {
		s.WriteString(" FROM ")
		s.Join(", ", e.From)
	}
	for i := range e.Joins {
		s.WriteString(" ")
		e.Joins[i].serialize(s)
	}
	if e.Where != nil {
		s.WriteString(" WHERE ")
		e.Where.serialize(s)
	}
	if len(e.GroupBy) > 0 {
		s.WriteString(" GROUP BY ")
		s.Join(", ", e.GroupBy)
	}
	if e.Having != nil {
		s.WriteString(" HAVING ")
		e.Having.serialize(s)
	}
	if len(e.OrderBy) > 0 {
		s.WriteString(" ORDER BY ")
		s.Join(", ", e.OrderBy)
	}
	if e.Limit != nil {
		s.WriteString(fmt.Sprintf(" LIMIT %d", *e.Limit))
	}
	if e.Offset != nil {
		s.WriteString(fmt.Sprintf(" OFFSET %d", *e.Offset))
	}
	if e.Lock != nil {
		// Locking reads degrade silently on dialects without them.
		if s.features.RowLocking {
			s.WriteString(" ")
			e.Lock.serialize(s)
		}
	}
}

// Assign is a single `column = value` assignment in a conflict update.
type Assign struct {
	Column string
	Value  Expression
}

func (e Assign) serialize(s *Serializer) {
	s.Ident(e.Column)
	s.WriteString(" = ")
	e.Value.serialize(s)
}

// Set returns an assignment binding the column to a value.
func Set(column string, v any) Assign {
	if e, ok := v.(Expression); ok {
		return Assign{Column: column, Value: e}
	}
	return Assign{Column: column, Value: Arg{V: v}}
}

// Conflict is a conflict-resolution strategy for an INSERT. At most one is
// active per statement. Depending on the dialect it serializes as a trailing
// ON CONFLICT clause, an ON DUPLICATE KEY UPDATE clause, or a statement-level
// insert modifier; the modifier and the trailing clause are never emitted
// together.
type Conflict struct {
	Target  []string // Optional conflict target columns.
	Ignore  bool     // DO NOTHING on conflict.
	Updates []Assign // DO UPDATE SET assignments.
}

func (e *Conflict) serialize(s *Serializer) {
	s.WriteString("ON CONFLICT")
	if len(e.Target) > 0 {
		s.WriteString(" (")
		for i, c := range e.Target {
			if i > 0 {
				s.WriteString(", ")
			}
			s.Ident(c)
		}
		s.WriteString(")")
	}
	if e.Ignore {
		s.WriteString(" DO NOTHING")
		return
	}
	s.WriteString(" DO UPDATE SET ")
	for i := range e.Updates {
		if i > 0 {
			s.WriteString(", ")
		}
		e.Updates[i].serialize(s)
	}
}

// Returning is a RETURNING clause.
type Returning struct {
	Exprs []Expression
}

func (e Returning) serialize(s *Serializer) {
	s.WriteString("RETURNING ")
	s.Join(", ", e.Exprs)
}

// InsertExpr is the top-level INSERT statement node assembled by an
// InsertBuilder.
type InsertExpr struct {
	Table     string
	Columns   []string
	Rows      [][]Expression
	Defaults  bool
	Conflict  *Conflict
	Returning *Returning
}

func (e *InsertExpr) serialize(s *Serializer) {
	f := s.features
	modifier := e.Conflict != nil && e.Conflict.Ignore && f.InsertModifier != ""
	s.WriteString("INSERT ")
	if modifier {
		s.WriteString(f.InsertModifier)
		s.WriteString(" ")
	}
	s.WriteString("INTO ")
	s.Ident(e.Table)
	switch {
	case e.Defaults && len(e.Rows) == 0:
		if f.DefaultValues {
			s.WriteString(" DEFAULT VALUES")
		} else {
			s.WriteString(" () VALUES ()")
		}
	default:
		if len(e.Rows) == 0 {
			s.AddError(sqlkit.NewStatementError("insert",
				fmt.Errorf("no value rows for %d columns", len(e.Columns))))
			return
		}
		s.WriteString(" (")
		for i, c := range e.Columns {
			if i > 0 {
				s.WriteString(", ")
			}
			s.Ident(c)
		}
		s.WriteString(") VALUES ")
		if len(e.Rows) > 1 && !f.MultiRowInsert {
			s.Warnf("dialect %q does not support multi-row INSERT; emitting %d rows anyway", f.Name, len(e.Rows))
		}
		for i, row := range e.Rows {
			if len(row) != len(e.Columns) {
				s.AddError(sqlkit.NewStatementError("insert",
					fmt.Errorf("row %d has %d values for %d columns", i, len(row), len(e.Columns))))
				return
			}
			if i > 0 {
				s.WriteString(", ")
			}
			Group{Exprs: row}.serialize(s)
		}
	}
	if e.Conflict != nil && !modifier {
		e.serializeConflict(s)
	}
	if e.Returning != nil && len(e.Returning.Exprs) > 0 {
		// RETURNING degrades silently on dialects without it.
		if f.Returning {
			s.WriteString(" ")
			e.Returning.serialize(s)
		}
	}
}

func (e *InsertExpr) serializeConflict(s *Serializer) {
	f := s.features
	c := e.Conflict
	switch {
	case f.ConflictClause:
		s.WriteString(" ")
		c.serialize(s)
	case !c.Ignore && f.DuplicateKeyUpdate:
		s.WriteString(" ON DUPLICATE KEY UPDATE ")
		for i := range c.Updates {
			if i > 0 {
				s.WriteString(", ")
			}
			c.Updates[i].serialize(s)
		}
	default:
		// Dropping a conflict strategy changes what the statement does on
		// duplicates, so unlike locking it degrades loudly.
		s.Warnf("dialect %q cannot express the conflict strategy; clause dropped", f.Name)
	}
}
