package dialect

import (
	"context"
)

// Supported dialects.
const (
	// MySQL dialect.
	MySQL = "mysql"
	// SQLite dialect.
	SQLite = "sqlite"
	// Postgres dialect.
	Postgres = "postgres"
)

// ExecQuerier wraps the 2 database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps transactional operations.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Features describes the dialect-specific capabilities the bulk-update
// compiler cares about. Dialects that cannot express a multi-row table
// literal at all must not take the bulk path.
type Features struct {
	// ValuesTable reports whether the dialect can join against an inline
	// multi-row table literal (VALUES or an equivalent derived table).
	ValuesTable bool
	// ValuesColumnAliases reports whether individual columns of a table
	// literal can be aliased. Dialects without it fall back to the
	// deterministic default column names.
	ValuesColumnAliases bool
	// NotDistinctFrom reports whether the dialect has native
	// IS [NOT] DISTINCT FROM. Without it the compiler uses a NULL-safe
	// equivalent (MySQL's <=>, SQLite's IS).
	NotDistinctFrom bool
	// BooleanLiterals reports whether TRUE/FALSE render as keywords.
	// Dialects without it render 1/0.
	BooleanLiterals bool
}

// FeaturesOf returns the feature table for the given dialect name.
// Unknown dialects report no capabilities.
func FeaturesOf(name string) Features {
	switch name {
	case Postgres:
		return Features{
			ValuesTable:         true,
			ValuesColumnAliases: true,
			NotDistinctFrom:     true,
			BooleanLiterals:     true,
		}
	case SQLite:
		// SQLite names table-literal columns column1..columnN on its own
		// and accepts IS as a NULL-safe comparison.
		return Features{
			ValuesTable:     true,
			BooleanLiterals: true,
		}
	case MySQL:
		// No usable VALUES table expression inside a join; the compiler
		// renders a UNION ALL derived table with first-row aliases instead.
		return Features{
			ValuesTable:         true,
			ValuesColumnAliases: true,
		}
	default:
		return Features{}
	}
}
