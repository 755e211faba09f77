package sql

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rowbatch/rowbatch/dialect"
)

// Querier wraps the Query method, implemented by all statement builders.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// Expr is a SQL expression fragment that knows how to write itself
// into a Builder. Column references, literals, function calls and
// predicates all implement Expr.
type Expr interface {
	WriteSQL(b *Builder)
}

// Builder is the base query builder for the sql dsl. It holds the
// accumulated statement text, the bound arguments and the dialect the
// statement is rendered for.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
	total   int // total placeholders, for Postgres $N numbering
	errs    []error
}

// DialectBuilder prefixes all root builders with the dialect name.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder for the given dialect name.
//
//	sql.Dialect(dialect.Postgres).Update("users")
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Update creates an UpdateBuilder for the configured dialect.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d.dialect, table: table}
}

// NewBuilder returns a fresh Builder for the given dialect.
func NewBuilder(dialect string) *Builder {
	return &Builder{dialect: dialect}
}

// Dialect returns the dialect the builder renders for.
func (b *Builder) Dialect() string {
	return b.dialect
}

// WriteString appends the string as-is to the statement text.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Quote quotes the given identifier for the active dialect. MySQL uses
// backticks; everything else uses double quotes.
func (b *Builder) Quote(ident string) string {
	quote := `"`
	if b.dialect == dialect.MySQL {
		quote = "`"
	}
	return quote + ident + quote
}

// Ident appends the given identifier, quoting each dot-separated part.
func (b *Builder) Ident(s string) *Builder {
	for i, part := range strings.Split(s, ".") {
		if i > 0 {
			b.sb.WriteString(".")
		}
		b.sb.WriteString(b.Quote(part))
	}
	return b
}

// Arg appends an argument placeholder to the statement and binds the value.
// Values implementing Expr are written inline instead of being bound.
func (b *Builder) Arg(v any) *Builder {
	if e, ok := v.(Expr); ok {
		e.WriteSQL(b)
		return b
	}
	b.total++
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$")
		b.sb.WriteString(strconv.Itoa(b.total))
	} else {
		b.sb.WriteString("?")
	}
	return b
}

// Args appends a comma-separated list of argument placeholders.
func (b *Builder) Args(vs ...any) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.Comma()
		}
		b.Arg(v)
	}
	return b
}

// Comma appends a comma separator.
func (b *Builder) Comma() *Builder {
	return b.WriteString(", ")
}

// Wrap wraps the output of f in parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.WriteString("(")
	f(b)
	return b.WriteString(")")
}

// JoinExprs writes the expressions separated by sep.
func (b *Builder) JoinExprs(sep string, exprs ...Expr) *Builder {
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(sep)
		}
		e.WriteSQL(b)
	}
	return b
}

// AddError records an error that occurred while building the statement.
// The first recorded error is returned from Err.
func (b *Builder) AddError(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Err returns the errors recorded during building, joined.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// String returns the accumulated statement text.
func (b *Builder) String() string {
	return b.sb.String()
}

// Query returns the statement text and its bound arguments.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}
