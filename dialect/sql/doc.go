// Package sql provides the SQL building primitives behind rowbatch's
// set-based bulk updates: a low-level dialect-aware statement builder, the
// values-table AST node, the expression nodes the planner emits, and a
// database/sql driver wrapper.
//
// # Builder Types
//
//   - Builder: low-level SQL string builder with identifier quoting and
//     dialect-specific argument placeholders
//   - ValuesTable: inline multi-row table literal with positional and named
//     column addressing
//   - UpdateBuilder: UPDATE statement builder joining the target table
//     against a values table
//
// # Dialect Support
//
// SQL generation adapts to different database dialects:
//
//	import "github.com/rowbatch/rowbatch/dialect"
//
//	// Postgres renders UPDATE ... FROM (VALUES ...) AS v (...)
//	u := sql.Dialect(dialect.Postgres).Update("users")
//
//	// MySQL renders UPDATE ... JOIN (SELECT ... UNION ALL ...) AS v ON ...
//	u := sql.Dialect(dialect.MySQL).Update("users")
//
// SQLite cannot alias table-literal columns; its native column1..columnN
// names match the ValuesTable defaults, and explicit names are applied
// through a projecting SELECT.
//
// # Values Tables
//
//	vt, _ := sql.Values("v", [][]any{{1, "one"}, {2, "two"}})
//	ref, _ := vt.At(0)  // "v"."column1"
//	ref, _ = vt.At(-1)  // "v"."column2", addressing from the end
//
// References returned by At bind to the table's current alias, so a table
// wrapped with As keeps its expressions correct:
//
//	aliased := vt.As("w")
//	ref, _ = aliased.At(0)  // "w"."column1"
//
// # Expressions
//
// The planner composes a small expression vocabulary: EQ, And, Coalesce,
// CaseWhen, Substr, NotDistinctFrom (NULL-safe equality with per-dialect
// fallbacks) and CurrentTimestamp (high-precision per dialect).
//
// # Drivers
//
// Open/OpenDB wrap database/sql with the dialect.Driver interface.
// Constraint violations from lib/pq, go-sql-driver/mysql and
// modernc.org/sqlite are decoded into rowbatch.ConstraintError.
// NewStatsDriver adds counters and slog-based slow-statement logging.
package sql
