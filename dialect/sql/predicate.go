package sql

// Predicate constructors. Each returns an Expression tree ready to be
// installed as a WHERE or HAVING root. The builders store exactly one root
// predicate per kind; composing several conditions is the caller's job,
// using And, Or and Not.

// pred wraps a column-or-expression operand.
func operand(v any) Expression {
	switch v := v.(type) {
	case Expression:
		return v
	case string:
		return C(v)
	default:
		return Arg{V: v}
	}
}

// value wraps a comparison value: expressions pass through, everything else
// becomes a bind.
func value(v any) Expression {
	if e, ok := v.(Expression); ok {
		return e
	}
	return Arg{V: v}
}

// EQ returns a `column = value` predicate.
func EQ(col any, v any) Expression {
	return Binary{X: operand(col), Op: "=", Y: value(v)}
}

// NEQ returns a `column <> value` predicate.
func NEQ(col any, v any) Expression {
	return Binary{X: operand(col), Op: "<>", Y: value(v)}
}

// GT returns a `column > value` predicate.
func GT(col any, v any) Expression {
	return Binary{X: operand(col), Op: ">", Y: value(v)}
}

// GTE returns a `column >= value` predicate.
func GTE(col any, v any) Expression {
	return Binary{X: operand(col), Op: ">=", Y: value(v)}
}

// LT returns a `column < value` predicate.
func LT(col any, v any) Expression {
	return Binary{X: operand(col), Op: "<", Y: value(v)}
}

// LTE returns a `column <= value` predicate.
func LTE(col any, v any) Expression {
	return Binary{X: operand(col), Op: "<=", Y: value(v)}
}

// In returns a `column IN (v1, v2, ...)` predicate.
func In(col any, vs ...any) Expression {
	exprs := make([]Expression, len(vs))
	for i := range vs {
		exprs[i] = value(vs[i])
	}
	return Binary{X: operand(col), Op: "IN", Y: Group{Exprs: exprs}}
}

// NotIn returns a `column NOT IN (v1, v2, ...)` predicate.
func NotIn(col any, vs ...any) Expression {
	exprs := make([]Expression, len(vs))
	for i := range vs {
		exprs[i] = value(vs[i])
	}
	return Binary{X: operand(col), Op: "NOT IN", Y: Group{Exprs: exprs}}
}

// IsNull returns a `column IS NULL` predicate.
func IsNull(col any) Expression {
	return Binary{X: operand(col), Op: "IS", Y: Null}
}

// NotNull returns a `column IS NOT NULL` predicate.
func NotNull(col any) Expression {
	return Binary{X: operand(col), Op: "IS NOT", Y: Null}
}

// Like returns a `column LIKE pattern` predicate.
func Like(col any, pattern string) Expression {
	return Binary{X: operand(col), Op: "LIKE", Y: Arg{V: pattern}}
}

// Contains returns a predicate matching columns containing the substring.
func Contains(col any, substr string) Expression {
	return Like(col, "%"+substr+"%")
}

// HasPrefix returns a predicate matching columns starting with the prefix.
func HasPrefix(col any, prefix string) Expression {
	return Like(col, prefix+"%")
}

// HasSuffix returns a predicate matching columns ending with the suffix.
func HasSuffix(col any, suffix string) Expression {
	return Like(col, "%"+suffix)
}

// And joins predicates with AND, parenthesizing each operand.
func And(ps ...Expression) Expression {
	return junction("AND", ps)
}

// Or joins predicates with OR, parenthesizing each operand.
func Or(ps ...Expression) Expression {
	return junction("OR", ps)
}

// Not negates a predicate.
func Not(p Expression) Expression {
	return Unary{Op: "NOT", X: p}
}

func junction(op string, ps []Expression) Expression {
	switch len(ps) {
	case 0:
		return Bool(true)
	case 1:
		return ps[0]
	}
	out := Expression(Group{Exprs: ps[:1]})
	for _, p := range ps[1:] {
		out = Binary{X: out, Op: op, Y: Group{Exprs: []Expression{p}}}
	}
	return out
}
