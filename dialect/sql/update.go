package sql

import (
	"errors"
	"fmt"

	"github.com/rowbatch/rowbatch/dialect"
)

// UpdateBuilder builds a multi-row UPDATE statement joined against a values
// table. The statement shape per dialect:
//
//	Postgres/SQLite: UPDATE t SET c = e, ... FROM <values> WHERE <joins>
//	MySQL:           UPDATE t JOIN <values> ON <joins> SET t.c = e, ...
type UpdateBuilder struct {
	dialect string
	table   string
	from    *ValuesTable
	wheres  []Expr
	sets    []assignment
	errs    []error
}

type assignment struct {
	column string
	expr   Expr
}

// Table returns the target table name.
func (u *UpdateBuilder) Table() string {
	return u.table
}

// Set adds an assignment of expr to the target table column.
func (u *UpdateBuilder) Set(column string, expr Expr) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, expr: expr})
	return u
}

// FromValues joins the update against the given values table.
func (u *UpdateBuilder) FromValues(t *ValuesTable) *UpdateBuilder {
	u.from = t
	return u
}

// Where appends join/filter predicates, conjoined with AND.
func (u *UpdateBuilder) Where(ps ...Expr) *UpdateBuilder {
	u.wheres = append(u.wheres, ps...)
	return u
}

// Err returns the errors recorded while building.
func (u *UpdateBuilder) Err() error {
	return errors.Join(u.errs...)
}

// Query returns the statement text and bound arguments.
func (u *UpdateBuilder) Query() (string, []any) {
	b := NewBuilder(u.dialect)
	switch {
	case len(u.sets) == 0:
		u.errs = append(u.errs, fmt.Errorf("dialect/sql: update of %q has no assignments", u.table))
	case u.from == nil:
		u.errs = append(u.errs, fmt.Errorf("dialect/sql: update of %q has no values table", u.table))
	case u.dialect == dialect.MySQL:
		u.writeJoined(b)
	default:
		u.writeFrom(b)
	}
	u.errs = append(u.errs, b.Err())
	return b.Query()
}

// writeFrom renders the UPDATE ... FROM form. SET columns are unqualified;
// both Postgres and SQLite reject a table-qualified assignment target.
func (u *UpdateBuilder) writeFrom(b *Builder) {
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, s := range u.sets {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s.column).WriteString(" = ")
		s.expr.WriteSQL(b)
	}
	b.WriteString(" FROM ")
	u.from.WriteSQL(b)
	if len(u.wheres) > 0 {
		b.WriteString(" WHERE ")
		And(u.wheres...).WriteSQL(b)
	}
}

// writeJoined renders the MySQL UPDATE ... JOIN ... ON ... SET form.
func (u *UpdateBuilder) writeJoined(b *Builder) {
	b.WriteString("UPDATE ").Ident(u.table)
	b.WriteString(" JOIN ")
	u.from.WriteSQL(b)
	if len(u.wheres) > 0 {
		b.WriteString(" ON ")
		And(u.wheres...).WriteSQL(b)
	}
	b.WriteString(" SET ")
	for i, s := range u.sets {
		if i > 0 {
			b.Comma()
		}
		b.Ident(u.table).WriteString(".").Ident(s.column).WriteString(" = ")
		s.expr.WriteSQL(b)
	}
}
