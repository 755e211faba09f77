package sql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rowbatch/rowbatch/dialect"
	"github.com/rowbatch/rowbatch/dialect/sql"
)

// render writes the expression for the given dialect and returns text and args.
func render(d string, e sql.Expr) (string, []any) {
	b := sql.NewBuilder(d)
	e.WriteSQL(b)
	return b.Query()
}

func TestColumnRef(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.Column("users", "id"))
	assert.Equal(t, `"users"."id"`, query)

	query, _ = render(dialect.MySQL, sql.Column("users", "id"))
	assert.Equal(t, "`users`.`id`", query)

	query, _ = render(dialect.Postgres, sql.Column("", "id"))
	assert.Equal(t, `"id"`, query)
}

func TestEQ(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.EQ(sql.Column("users", "id"), sql.Column("v", "column1")))
	assert.Equal(t, `"users"."id" = "v"."column1"`, query)

	query, args := render(dialect.Postgres, sql.EQV(sql.Column("users", "id"), 42))
	assert.Equal(t, `"users"."id" = $1`, query)
	assert.Equal(t, []any{42}, args)
}

func TestAnd(t *testing.T) {
	p := sql.And(
		sql.EQ(sql.Column("t", "a"), sql.Column("v", "column1")),
		sql.EQ(sql.Column("t", "b"), sql.Column("v", "column2")),
	)
	query, _ := render(dialect.Postgres, p)
	assert.Equal(t, `"t"."a" = "v"."column1" AND "t"."b" = "v"."column2"`, query)

	// A single predicate collapses without a conjunction.
	single := sql.And(sql.EQ(sql.Column("t", "a"), sql.Column("v", "column1")))
	query, _ = render(dialect.Postgres, single)
	assert.Equal(t, `"t"."a" = "v"."column1"`, query)
}

func TestNotDistinctFrom(t *testing.T) {
	p := sql.NotDistinctFrom(sql.Column("t", "a"), sql.Column("v", "column1"))

	query, _ := render(dialect.Postgres, p)
	assert.Equal(t, `"t"."a" IS NOT DISTINCT FROM "v"."column1"`, query)

	query, _ = render(dialect.MySQL, p)
	assert.Equal(t, "`t`.`a` <=> `v`.`column1`", query)

	query, _ = render(dialect.SQLite, p)
	assert.Equal(t, `"t"."a" IS "v"."column1"`, query)
}

func TestCoalesce(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.Coalesce(sql.Column("v", "column2"), sql.Column("t", "name")))
	assert.Equal(t, `COALESCE("v"."column2", "t"."name")`, query)
}

func TestSubstr(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.Substr(sql.Column("v", "column3"), 2, 1))
	assert.Equal(t, `SUBSTR("v"."column3", 2, 1)`, query)
}

func TestCaseWhen(t *testing.T) {
	e := sql.CaseWhen(
		sql.EQV(sql.Substr(sql.Column("v", "column3"), 1, 1), "1"),
		sql.Column("v", "column2"),
		sql.Column("t", "name"),
	)
	query, args := render(dialect.Postgres, e)
	assert.Equal(t, `CASE WHEN SUBSTR("v"."column3", 1, 1) = $1 THEN "v"."column2" ELSE "t"."name" END`, query)
	assert.Equal(t, []any{"1"}, args)
}

func TestBool(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.Bool(true))
	assert.Equal(t, "TRUE", query)

	query, _ = render(dialect.SQLite, sql.Bool(false))
	assert.Equal(t, "FALSE", query)

	// MySQL renders 1/0.
	query, _ = render(dialect.MySQL, sql.Bool(true))
	assert.Equal(t, "1", query)
	query, _ = render(dialect.MySQL, sql.Bool(false))
	assert.Equal(t, "0", query)
}

func TestCurrentTimestamp(t *testing.T) {
	query, _ := render(dialect.Postgres, sql.CurrentTimestamp())
	assert.Equal(t, "CURRENT_TIMESTAMP", query)

	query, _ = render(dialect.MySQL, sql.CurrentTimestamp())
	assert.Equal(t, "CURRENT_TIMESTAMP(6)", query)

	query, _ = render(dialect.SQLite, sql.CurrentTimestamp())
	assert.Equal(t, "strftime('%Y-%m-%d %H:%M:%f','now')", query)
}

func TestNullAndRaw(t *testing.T) {
	query, args := render(dialect.Postgres, sql.Null())
	assert.Equal(t, "NULL", query)
	assert.Empty(t, args)

	query, _ = render(dialect.Postgres, sql.Raw("DEFAULT"))
	assert.Equal(t, "DEFAULT", query)
}

func TestArgPlaceholders(t *testing.T) {
	b := sql.NewBuilder(dialect.Postgres)
	b.Args(1, 2, 3)
	query, args := b.Query()
	assert.Equal(t, "$1, $2, $3", query)
	assert.Equal(t, []any{1, 2, 3}, args)

	b = sql.NewBuilder(dialect.SQLite)
	b.Args(1, 2)
	query, _ = b.Query()
	assert.Equal(t, "?, ?", query)
}
