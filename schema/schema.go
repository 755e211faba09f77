// Package schema holds the column metadata the bulk-update planner consults:
// models (table name, columns, attribute aliases, primary key, timestamp
// tracking) and the semantic column types that cast and serialize values.
package schema

import (
	"fmt"

	"github.com/go-openapi/inflect"
)

// Column is a named column with a semantic type.
type Column struct {
	Name string
	Type Type
}

// Model describes one target table: its storage columns, how attribute
// names map to them, which columns form the primary key and which ones
// track modification time. Models are immutable after construction and
// safe for concurrent readers.
type Model struct {
	name       string
	table      string
	columns    []Column
	index      map[string]int
	aliases    map[string]string
	pk         []string
	timestamps []string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTable overrides the derived table name.
func WithTable(table string) ModelOption {
	return func(m *Model) { m.table = table }
}

// WithAlias maps an attribute alias to an underlying storage column.
func WithAlias(alias, column string) ModelOption {
	return func(m *Model) { m.aliases[alias] = column }
}

// WithPrimaryKey sets the primary-key column list. The default is the
// single column "id" when the model declares one.
func WithPrimaryKey(columns ...string) ModelOption {
	return func(m *Model) { m.pk = columns }
}

// WithTimestamps enables timestamp tracking on the given columns.
func WithTimestamps(columns ...string) ModelOption {
	return func(m *Model) { m.timestamps = columns }
}

// NewModel builds a Model for the named entity. The table name defaults to
// the underscored plural of the entity name ("OrderItem" -> "order_items").
func NewModel(name string, columns []Column, opts ...ModelOption) (*Model, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("schema: model %q has no columns", name)
	}
	m := &Model{
		name:    name,
		table:   inflect.Pluralize(inflect.Underscore(name)),
		columns: columns,
		index:   make(map[string]int, len(columns)),
		aliases: make(map[string]string),
	}
	for i, c := range columns {
		if c.Type == nil {
			return nil, fmt.Errorf("schema: column %q of model %q has no type", c.Name, name)
		}
		if _, ok := m.index[c.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate column %q in model %q", c.Name, name)
		}
		m.index[c.Name] = i
	}
	for _, opt := range opts {
		opt(m)
	}
	for alias, column := range m.aliases {
		if !m.HasColumn(column) {
			return nil, fmt.Errorf("schema: alias %q targets unknown column %q", alias, column)
		}
	}
	if m.pk == nil && m.HasColumn("id") {
		m.pk = []string{"id"}
	}
	for _, c := range m.pk {
		if !m.HasColumn(c) {
			return nil, fmt.Errorf("schema: primary-key column %q not declared in model %q", c, name)
		}
	}
	for _, c := range m.timestamps {
		if !m.HasColumn(c) {
			return nil, fmt.Errorf("schema: timestamp column %q not declared in model %q", c, name)
		}
	}
	return m, nil
}

// Name returns the entity name.
func (m *Model) Name() string { return m.name }

// Table returns the storage table name.
func (m *Model) Table() string { return m.table }

// Columns returns the declared column names, in declaration order.
func (m *Model) Columns() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the storage column exists.
func (m *Model) HasColumn(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Column returns the column metadata for the given storage name.
func (m *Model) Column(name string) (Column, bool) {
	i, ok := m.index[name]
	if !ok {
		return Column{}, false
	}
	return m.columns[i], true
}

// ResolveAlias maps an attribute name to its storage column. Names that
// are not aliases resolve to themselves.
func (m *Model) ResolveAlias(name string) string {
	if column, ok := m.aliases[name]; ok {
		return column
	}
	return name
}

// PrimaryKey returns the primary-key column list.
func (m *Model) PrimaryKey() []string { return m.pk }

// TimestampColumns returns the columns under timestamp tracking.
func (m *Model) TimestampColumns() []string { return m.timestamps }
