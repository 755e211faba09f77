// Package dialect provides database dialect abstraction for rowbatch.
//
// This package defines the interfaces and types used for database-specific
// operations, allowing rowbatch to plan and execute bulk updates against
// multiple database backends including PostgreSQL, MySQL, and SQLite.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback, and the
// ExecQuerier interface is implemented by both Driver and Tx.
//
// # Feature Probing
//
// Bulk updates lean on dialect capabilities that vary between databases:
// whether a multi-row table literal can appear in a join, whether its columns
// can be aliased, and whether NULL-safe equality is native. FeaturesOf
// reports these per dialect:
//
//	if !dialect.FeaturesOf(drv.Dialect()).ValuesTable {
//	    // take the per-row fallback path
//	}
//
// # Sub-packages
//
//   - dialect/sql: SQL builders, the values-table AST node, and the
//     database/sql driver implementation
package dialect
