package sql

import (
	"strconv"

	"github.com/rowbatch/rowbatch/dialect"
)

// ColumnRef is a reference to a column on a table or table alias.
// An empty Table renders the bare column name.
type ColumnRef struct {
	Table string
	Name  string
}

// WriteSQL implements Expr.
func (c *ColumnRef) WriteSQL(b *Builder) {
	if c.Table != "" {
		b.Ident(c.Table).WriteString(".")
	}
	b.Ident(c.Name)
}

// Column returns a reference to a column on the given table.
func Column(table, name string) *ColumnRef {
	return &ColumnRef{Table: table, Name: name}
}

// Raw is a verbatim SQL fragment.
type Raw string

// WriteSQL implements Expr.
func (r Raw) WriteSQL(b *Builder) {
	b.WriteString(string(r))
}

// Null is the SQL NULL literal.
func Null() Expr {
	return Raw("NULL")
}

// value binds a Go value as a statement argument.
type value struct {
	v any
}

// V wraps a Go value as an expression bound through a placeholder.
func V(v any) Expr {
	return value{v: v}
}

// WriteSQL implements Expr.
func (v value) WriteSQL(b *Builder) {
	b.Arg(v.v)
}

// Bool is a boolean literal. Dialects without TRUE/FALSE keywords render 1/0.
type Bool bool

// WriteSQL implements Expr.
func (v Bool) WriteSQL(b *Builder) {
	switch {
	case dialect.FeaturesOf(b.Dialect()).BooleanLiterals && bool(v):
		b.WriteString("TRUE")
	case dialect.FeaturesOf(b.Dialect()).BooleanLiterals:
		b.WriteString("FALSE")
	case bool(v):
		b.WriteString("1")
	default:
		b.WriteString("0")
	}
}

// binary is an infix operator expression.
type binary struct {
	op          string
	left, right Expr
}

// WriteSQL implements Expr.
func (e binary) WriteSQL(b *Builder) {
	e.left.WriteSQL(b)
	b.WriteString(" ").WriteString(e.op).WriteString(" ")
	e.right.WriteSQL(b)
}

// EQ returns an equality predicate between the two expressions.
func EQ(left, right Expr) Expr {
	return binary{op: "=", left: left, right: right}
}

// EQV returns an equality predicate between an expression and a bound value.
func EQV(left Expr, v any) Expr {
	return EQ(left, V(v))
}

// and conjoins predicates.
type and []Expr

// WriteSQL implements Expr.
func (e and) WriteSQL(b *Builder) {
	b.JoinExprs(" AND ", e...)
}

// And conjoins the given predicates with AND.
func And(ps ...Expr) Expr {
	if len(ps) == 1 {
		return ps[0]
	}
	return and(ps)
}

// notDistinct is a NULL-safe equality comparison.
type notDistinct struct {
	left, right Expr
}

// WriteSQL implements Expr. Dialects without native IS NOT DISTINCT FROM
// use their NULL-safe equivalent: <=> on MySQL, IS on SQLite.
func (e notDistinct) WriteSQL(b *Builder) {
	e.left.WriteSQL(b)
	switch {
	case dialect.FeaturesOf(b.Dialect()).NotDistinctFrom:
		b.WriteString(" IS NOT DISTINCT FROM ")
	case b.Dialect() == dialect.MySQL:
		b.WriteString(" <=> ")
	default:
		b.WriteString(" IS ")
	}
	e.right.WriteSQL(b)
}

// NotDistinctFrom returns a NULL-safe equality predicate: NULL compares
// equal to NULL, unlike plain =.
func NotDistinctFrom(left, right Expr) Expr {
	return notDistinct{left: left, right: right}
}

// fn is a function call expression.
type fn struct {
	name string
	args []Expr
}

// WriteSQL implements Expr.
func (e fn) WriteSQL(b *Builder) {
	b.WriteString(e.name)
	b.Wrap(func(b *Builder) {
		b.JoinExprs(", ", e.args...)
	})
}

// Coalesce returns COALESCE over the given expressions.
func Coalesce(exprs ...Expr) Expr {
	return fn{name: "COALESCE", args: exprs}
}

// Substr extracts length characters of e starting at the 1-indexed pos.
// SUBSTR(x, pos, len) is accepted by Postgres, MySQL and SQLite alike.
func Substr(e Expr, pos, length int) Expr {
	return fn{name: "SUBSTR", args: []Expr{e, Raw(strconv.Itoa(pos)), Raw(strconv.Itoa(length))}}
}

// caseWhen is a searched CASE expression with a single branch.
type caseWhen struct {
	cond, then, els Expr
}

// WriteSQL implements Expr.
func (e caseWhen) WriteSQL(b *Builder) {
	b.WriteString("CASE WHEN ")
	e.cond.WriteSQL(b)
	b.WriteString(" THEN ")
	e.then.WriteSQL(b)
	b.WriteString(" ELSE ")
	e.els.WriteSQL(b)
	b.WriteString(" END")
}

// CaseWhen returns CASE WHEN cond THEN then ELSE els END.
func CaseWhen(cond, then, els Expr) Expr {
	return caseWhen{cond: cond, then: then, els: els}
}

// currentTimestamp is the dialect's high-precision current time.
type currentTimestamp struct{}

// WriteSQL implements Expr. MySQL's bare CURRENT_TIMESTAMP truncates to
// seconds, and SQLite's to seconds as well; both get sub-second forms.
func (currentTimestamp) WriteSQL(b *Builder) {
	switch b.Dialect() {
	case dialect.MySQL:
		b.WriteString("CURRENT_TIMESTAMP(6)")
	case dialect.SQLite:
		b.WriteString("strftime('%Y-%m-%d %H:%M:%f','now')")
	default:
		b.WriteString("CURRENT_TIMESTAMP")
	}
}

// CurrentTimestamp returns the dialect's high-precision current-time expression.
func CurrentTimestamp() Expr {
	return currentTimestamp{}
}
