// Package rowbatch compiles batches of heterogeneous row updates into
// single set-based UPDATE statements joined against inline table literals.
//
// The root package holds the pieces shared across the module: the error
// taxonomy surfaced by planning and execution, and the statement cache
// keyed on plan shape. The SQL building blocks live in dialect/sql, column
// metadata in schema, and the planner itself in bulkupdate.
package rowbatch
