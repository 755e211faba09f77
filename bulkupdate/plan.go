package bulkupdate

import (
	"context"
	"slices"

	"github.com/rowbatch/rowbatch"
	"github.com/rowbatch/rowbatch/dialect"
	sqlb "github.com/rowbatch/rowbatch/dialect/sql"
)

// Assignment is one SET clause: the target-table column and the expression
// assigned to it.
type Assignment struct {
	Column string
	Expr   sqlb.Expr
}

// Plan is a fully validated, internally consistent bulk update: the derived
// values table, the positional join conditions and the set assignments.
// Plans are immutable; building SQL text from one is side-effect free.
type Plan struct {
	dialect string
	table   string
	cache   rowbatch.Cache
	key     rowbatch.CacheKey

	// Values is the derived, dialect-typecast values table.
	Values *sqlb.ValuesTable
	// Joins equate target-table read-key columns with values-table
	// columns, by position.
	Joins []sqlb.Expr
	// Assignments set target-table write-key columns from values-table
	// cells or derived fallback expressions.
	Assignments []Assignment

	// ReadKeys, WriteKeys and BitmaskKeys record the derived key sets in
	// their stable order.
	ReadKeys    []string
	WriteKeys   []string
	BitmaskKeys []string
}

// synthesize emits the join conditions and set assignments against the
// serialized values table and assembles the Plan.
func (p *Planner) synthesize(table *sqlb.ValuesTable, readKeys, writeKeys []string, optional map[string]bool, bitmaskKeys []string, rowCount int) (*Plan, error) {
	target := p.model.Table()
	joins := make([]sqlb.Expr, len(readKeys))
	for i, k := range readKeys {
		cell, err := table.At(i)
		if err != nil {
			return nil, err
		}
		joins[i] = sqlb.EQ(sqlb.Column(target, k), cell)
	}

	bitIndex := make(map[string]int, len(bitmaskKeys))
	for i, k := range bitmaskKeys {
		bitIndex[k] = i
	}
	var (
		assignments = make([]Assignment, 0, len(writeKeys))
		coalesced   []string
	)
	for j, k := range writeKeys {
		cell, err := table.At(len(readKeys) + j)
		if err != nil {
			return nil, err
		}
		current := sqlb.Column(target, k)
		var expr sqlb.Expr
		switch i, masked := bitIndex[k]; {
		case masked:
			// Read the column's bit out of the trailing mask cell; fall
			// back to the current value when the row never assigned it.
			mask, err := table.At(-1)
			if err != nil {
				return nil, err
			}
			// The '1' renders as a literal: the statement must bind the
			// values-table cells and nothing else, or cached text and
			// per-batch arguments would misalign.
			set := sqlb.EQ(sqlb.Substr(mask, i+1, 1), sqlb.Raw("'1'"))
			expr = sqlb.CaseWhen(set, cell, current)
		case optional[k]:
			// Unassigned sentinel is NULL and assigned values never are,
			// so COALESCE suffices without a mask.
			expr = sqlb.Coalesce(cell, current)
			coalesced = append(coalesced, k)
		default:
			expr = cell
		}
		assignments = append(assignments, Assignment{Column: k, Expr: expr})
	}

	var tsCols []string
	if p.timestamps {
		// Keep the existing timestamp when the row's assignments change
		// nothing, NULL-safe; bump it otherwise.
		unchanged := make([]sqlb.Expr, len(assignments))
		for i, a := range assignments {
			unchanged[i] = sqlb.NotDistinctFrom(sqlb.Column(target, a.Column), a.Expr)
		}
		for _, ts := range p.model.TimestampColumns() {
			if slices.Contains(writeKeys, ts) {
				continue
			}
			expr := sqlb.CaseWhen(sqlb.And(unchanged...), sqlb.Column(target, ts), sqlb.CurrentTimestamp())
			assignments = append(assignments, Assignment{Column: ts, Expr: expr})
			tsCols = append(tsCols, ts)
		}
	}

	return &Plan{
		dialect: p.dialect,
		table:   target,
		cache:   p.cache,
		key: rowbatch.CacheKey{
			Dialect:     p.dialect,
			Table:       target,
			ReadKeys:    readKeys,
			WriteKeys:   writeKeys,
			BitmaskKeys: bitmaskKeys,
			Coalesced:   coalesced,
			Rows:        rowCount,
			Casts:       table.Casts(),
			Timestamps:  tsCols,
		},
		Values:      table,
		Joins:       joins,
		Assignments: assignments,
		ReadKeys:    readKeys,
		WriteKeys:   writeKeys,
		BitmaskKeys: bitmaskKeys,
	}, nil
}

// Table returns the target table name.
func (pl *Plan) Table() string {
	return pl.table
}

// UpdateBuilder assembles the plan into an UPDATE statement builder.
func (pl *Plan) UpdateBuilder() *sqlb.UpdateBuilder {
	u := sqlb.Dialect(pl.dialect).Update(pl.table).FromValues(pl.Values).Where(pl.Joins...)
	for _, a := range pl.Assignments {
		u.Set(a.Column, a.Expr)
	}
	return u
}

// Args returns the bound arguments: every values-table cell, flattened in
// row order. The statement text never binds anything else, so arguments
// can be paired with cached text without rebuilding it.
func (pl *Plan) Args() []any {
	var args []any
	for _, row := range pl.Values.Rows() {
		args = append(args, row...)
	}
	return args
}

// Query returns the statement text and bound arguments, consulting the
// planner's statement cache when one was configured.
func (pl *Plan) Query() (string, []any, error) {
	build := func() (string, error) {
		u := pl.UpdateBuilder()
		text, _ := u.Query()
		return text, u.Err()
	}
	if pl.cache == nil {
		text, err := build()
		return text, pl.Args(), err
	}
	key, err := pl.key.Encode()
	if err != nil {
		return "", nil, err
	}
	var text string
	if c, ok := pl.cache.(interface {
		Do(string, func() (string, error)) (string, error)
	}); ok {
		text, err = c.Do(key, build)
	} else if cached, ok := pl.cache.Get(key); ok {
		text = cached
	} else if text, err = build(); err == nil {
		pl.cache.Set(key, text)
	}
	if err != nil {
		return "", nil, err
	}
	return text, pl.Args(), nil
}

// Exec runs the planned statement through the driver and returns the
// number of affected rows.
func (pl *Plan) Exec(ctx context.Context, drv dialect.ExecQuerier) (int64, error) {
	query, args, err := pl.Query()
	if err != nil {
		return 0, err
	}
	var res sqlb.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
