package sql

import (
	"fmt"
	"reflect"

	"github.com/rowbatch/rowbatch"
	"github.com/rowbatch/rowbatch/dialect"
)

// ColumnAddressable is the capability shared by table-like AST nodes:
// resolving a positional or named key to a column reference. ValuesTable
// and any aliased form of it implement ColumnAddressable uniformly.
type ColumnAddressable interface {
	// At resolves an int index (negative counts from the end) or a string
	// name to a reference on this table.
	At(key any) (*ColumnRef, error)
}

// ValuesTable is an inline multi-row table literal: an ordered sequence of
// rectangular rows plus optional explicit column names. It is a leaf AST
// node; rendering the literal for a concrete dialect happens in the
// compiler, not here, so the node never rejects shapes only some dialects
// dislike (such as explicit column aliases).
//
// Cells hold driver-bindable values or Expr fragments that are written
// inline (raw NULL literals, casts).
type ValuesTable struct {
	name    string
	rows    [][]any
	columns []string // explicit names; nil means generated column1..columnW
	casts   []string // optional per-column SQL types for dialect typecasting
}

// Values constructs a ValuesTable from the given rows. The width is fixed
// by the first row; it fails with a ShapeError if rows is empty or ragged.
func Values(name string, rows [][]any) (*ValuesTable, error) {
	if len(rows) == 0 {
		return nil, rowbatch.NewShapeError("values table requires at least one row")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, rowbatch.NewShapeError("values table rows must not be empty")
	}
	for _, r := range rows[1:] {
		if len(r) != width {
			return nil, rowbatch.NewShapeWidthError("values table rows must be rectangular", width, len(r))
		}
	}
	return &ValuesTable{name: name, rows: rows}, nil
}

// ValuesWithColumns is like Values, but names the columns explicitly.
// The name list length must equal the row width.
func ValuesWithColumns(name string, rows [][]any, columns []string) (*ValuesTable, error) {
	t, err := Values(name, rows)
	if err != nil {
		return nil, err
	}
	if len(columns) != t.Width() {
		return nil, rowbatch.NewShapeWidthError("column names must match row width", t.Width(), len(columns))
	}
	t.columns = columns
	return t, nil
}

// Name returns the identifier the table is aliased as in SQL.
func (t *ValuesTable) Name() string { return t.name }

// Rows returns the row data.
func (t *ValuesTable) Rows() [][]any { return t.rows }

// Width returns the fixed row width.
func (t *ValuesTable) Width() int { return len(t.rows[0]) }

// Columns returns the explicit column names, or nil if the generated
// defaults apply.
func (t *ValuesTable) Columns() []string { return t.columns }

// Casts returns the per-column SQL types set by WithCasts, or nil.
func (t *ValuesTable) Casts() []string { return t.casts }

// ColumnName returns the name of column i: the explicit name when given,
// otherwise the deterministic 1-indexed default column{i+1}. The defaults
// exist so a table built without names still has stable, referenceable
// identifiers purely from its width.
func (t *ValuesTable) ColumnName(i int) string {
	if t.columns != nil {
		return t.columns[i]
	}
	return fmt.Sprintf("column%d", i+1)
}

// As returns a copy of the table under a new alias. The copy shares the
// row data; references returned by At on the copy bind to the new alias.
func (t *ValuesTable) As(alias string) *ValuesTable {
	c := *t
	c.name = alias
	return &c
}

// WithCasts returns a copy of the table annotated with per-column SQL
// types. Dialects that type a table literal from its first row render the
// casts there; others ignore them. The type list length must equal the
// row width.
func (t *ValuesTable) WithCasts(types []string) (*ValuesTable, error) {
	if len(types) != t.Width() {
		return nil, rowbatch.NewShapeWidthError("cast types must match row width", t.Width(), len(types))
	}
	c := *t
	c.casts = types
	return &c, nil
}

// At resolves a positional or named key to a reference bound to this
// table's current alias. An int key may be negative to address from the
// end (the planner reaches the trailing bitmask column this way). A string
// key is resolved by value against the effective column names, so
// At("column2") works whether or not explicit names were given.
func (t *ValuesTable) At(key any) (*ColumnRef, error) {
	switch k := key.(type) {
	case int:
		i := k
		if i < 0 {
			i += t.Width()
		}
		if i < 0 || i >= t.Width() {
			return nil, fmt.Errorf("dialect/sql: column index %d out of range for values table of width %d", k, t.Width())
		}
		return &ColumnRef{Table: t.name, Name: t.ColumnName(i)}, nil
	case string:
		for i := 0; i < t.Width(); i++ {
			if t.ColumnName(i) == k {
				return &ColumnRef{Table: t.name, Name: k}, nil
			}
		}
		return nil, fmt.Errorf("dialect/sql: no column %q in values table %q", k, t.name)
	default:
		return nil, fmt.Errorf("dialect/sql: invalid column key type %T (expect int or string)", key)
	}
}

// AtX is like At, but panics if the key does not resolve.
func (t *ValuesTable) AtX(key any) *ColumnRef {
	c, err := t.At(key)
	if err != nil {
		panic(err)
	}
	return c
}

// Equal reports structural equality: same alias, same rows, same explicit
// column names. It allows tables to be compared in tests or used as memo
// keys without pointer identity.
func (t *ValuesTable) Equal(o *ValuesTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.name == o.name &&
		reflect.DeepEqual(t.rows, o.rows) &&
		reflect.DeepEqual(t.columns, o.columns)
}

// WriteSQL renders the table literal for the builder's dialect.
//
// Postgres:  (VALUES ($1, $2), ...) AS "v" ("a", "b")
// SQLite:    (VALUES (?, ?), ...) AS "v" — native names are column1..columnN;
//            explicit names are applied through a projecting SELECT since
//            SQLite cannot alias table-literal columns directly.
// MySQL:     (SELECT ? AS `a`, ? AS `b` UNION ALL SELECT ?, ?) AS `v` —
//            a VALUES statement cannot be joined with usable column names
//            across supported versions, so a derived table stands in.
func (t *ValuesTable) WriteSQL(b *Builder) {
	switch b.Dialect() {
	case dialect.MySQL:
		t.writeUnion(b)
	case dialect.SQLite:
		if t.columns != nil {
			t.writeProjected(b)
			return
		}
		t.writeLiteral(b, false)
	default:
		t.writeLiteral(b, true)
	}
}

// writeLiteral renders the plain VALUES form, optionally with column aliases.
func (t *ValuesTable) writeLiteral(b *Builder, aliases bool) {
	b.Wrap(func(b *Builder) {
		b.WriteString("VALUES ")
		for i, row := range t.rows {
			if i > 0 {
				b.Comma()
			}
			b.Wrap(func(b *Builder) {
				for j, cell := range row {
					if j > 0 {
						b.Comma()
					}
					// Typing an untyped literal from its first row.
					if i == 0 && t.casts != nil {
						b.WriteString("CAST(").Arg(cell).WriteString(" AS ").WriteString(t.casts[j]).WriteString(")")
						continue
					}
					b.Arg(cell)
				}
			})
		}
	})
	b.WriteString(" AS ").Ident(t.name)
	if aliases && t.columns != nil {
		b.WriteString(" ")
		b.Wrap(func(b *Builder) {
			for i, c := range t.columns {
				if i > 0 {
					b.Comma()
				}
				b.Ident(c)
			}
		})
	}
}

// writeProjected wraps the literal in a SELECT that renames the native
// column1..columnN defaults to the explicit names.
func (t *ValuesTable) writeProjected(b *Builder) {
	b.Wrap(func(b *Builder) {
		b.WriteString("SELECT ")
		for i, c := range t.columns {
			if i > 0 {
				b.Comma()
			}
			b.Ident(fmt.Sprintf("column%d", i+1)).WriteString(" AS ").Ident(c)
		}
		b.WriteString(" FROM ")
		b.Wrap(func(b *Builder) {
			b.WriteString("VALUES ")
			for i, row := range t.rows {
				if i > 0 {
					b.Comma()
				}
				b.Wrap(func(b *Builder) {
					b.Args(row...)
				})
			}
		})
	})
	b.WriteString(" AS ").Ident(t.name)
}

// writeUnion renders the UNION ALL derived-table form with first-row aliases.
func (t *ValuesTable) writeUnion(b *Builder) {
	b.Wrap(func(b *Builder) {
		for i, row := range t.rows {
			if i > 0 {
				b.WriteString(" UNION ALL SELECT ")
			} else {
				b.WriteString("SELECT ")
			}
			for j, cell := range row {
				if j > 0 {
					b.Comma()
				}
				if i == 0 && t.casts != nil {
					b.WriteString("CAST(").Arg(cell).WriteString(" AS ").WriteString(t.casts[j]).WriteString(")")
				} else {
					b.Arg(cell)
				}
				if i == 0 {
					b.WriteString(" AS ").Ident(t.ColumnName(j))
				}
			}
		}
	})
	b.WriteString(" AS ").Ident(t.name)
}
