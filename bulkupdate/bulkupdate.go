// Package bulkupdate plans set-based bulk UPDATE statements: it turns a
// batch of per-row "update these columns where these conditions hold"
// requests into a single statement that joins the target table against an
// inline values table, so N heterogeneous row updates cost one round trip.
//
// Planning is purely computational: it builds an immutable plan from
// immutable inputs, performs no I/O, and either fully succeeds or fails
// before any SQL text exists. Planners may be shared across goroutines.
package bulkupdate

import (
	"fmt"
	"sort"

	"github.com/rowbatch/rowbatch"
	"github.com/rowbatch/rowbatch/dialect"
	sqlb "github.com/rowbatch/rowbatch/dialect/sql"
	"github.com/rowbatch/rowbatch/schema"
)

// UpdateSpec is one row update: the condition columns locating the row and
// the assignments to apply to it. Keys may be attribute aliases; they are
// resolved to storage columns before validation.
type UpdateSpec struct {
	Conditions  map[string]any
	Assignments map[string]any
}

// KeyedUpdate is the convenience form of UpdateSpec: a primary-key value
// plus assignments. A composite key is given as []any, matched positionally
// against the model's primary-key columns.
type KeyedUpdate struct {
	Key any
	Set map[string]any
}

// Planner builds bulk-update plans for one model and dialect. The dialect,
// metadata and cache collaborators are explicit; there is no ambient
// configuration.
type Planner struct {
	model      *schema.Model
	dialect    string
	alias      string
	cache      rowbatch.Cache
	ambiguous  func(schema.Value) bool
	timestamps bool
}

// Option configures a Planner.
type Option func(*Planner)

// WithValuesAlias sets the alias the values table is joined under.
// The default is "v".
func WithValuesAlias(alias string) Option {
	return func(p *Planner) { p.alias = alias }
}

// WithCache reuses compiled statement text across plans of the same shape.
func WithCache(c rowbatch.Cache) Option {
	return func(p *Planner) { p.cache = c }
}

// WithAmbiguityPredicate overrides the rule deciding which serialized
// values cannot be told apart from an intentional NULL. The boundary is
// dialect- and cast-sensitive, so it is configurable rather than a fixed
// value-kind list; the default is schema.Value.AmbiguouslyNull.
func WithAmbiguityPredicate(f func(schema.Value) bool) Option {
	return func(p *Planner) { p.ambiguous = f }
}

// WithoutTimestamps disables the automatic timestamp-column assignments.
func WithoutTimestamps() Option {
	return func(p *Planner) { p.timestamps = false }
}

// NewPlanner returns a Planner for the model on the given dialect. It
// fails with ErrValuesTableUnsupported when the dialect has no multi-row
// table-literal construct at all.
func NewPlanner(model *schema.Model, dialectName string, opts ...Option) (*Planner, error) {
	if !dialect.FeaturesOf(dialectName).ValuesTable {
		return nil, fmt.Errorf("%w: %q", rowbatch.ErrValuesTableUnsupported, dialectName)
	}
	p := &Planner{
		model:      model,
		dialect:    dialectName,
		alias:      "v",
		ambiguous:  schema.Value.AmbiguouslyNull,
		timestamps: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PlanKeyed normalizes keyed updates into UpdateSpec form and plans them.
// A single-column key wraps the raw key under the key column; a composite
// key must be a []any matching the key column count.
func (p *Planner) PlanKeyed(updates []KeyedUpdate) (*Plan, error) {
	if len(updates) == 0 {
		return nil, rowbatch.ErrEmptyUpdates
	}
	pk := p.model.PrimaryKey()
	if len(pk) == 0 {
		return nil, fmt.Errorf("bulkupdate: model %q has no primary key for keyed updates", p.model.Name())
	}
	specs := make([]UpdateSpec, len(updates))
	for i, u := range updates {
		conds := make(map[string]any, len(pk))
		if len(pk) == 1 {
			conds[pk[0]] = u.Key
		} else {
			key, ok := u.Key.([]any)
			if !ok {
				return nil, &rowbatch.CompositeKeyShapeError{Want: len(pk), Got: 1}
			}
			if len(key) != len(pk) {
				return nil, &rowbatch.CompositeKeyShapeError{Want: len(pk), Got: len(key)}
			}
			for j, col := range pk {
				conds[col] = key[j]
			}
		}
		specs[i] = UpdateSpec{Conditions: conds, Assignments: u.Set}
	}
	return p.Plan(specs)
}

// Plan validates the update specs, serializes them into a values table and
// synthesizes the join conditions and set assignments. All validation
// failures surface here, before any SQL text is produced.
func (p *Planner) Plan(updates []UpdateSpec) (*Plan, error) {
	specs, err := p.normalize(updates)
	if err != nil {
		return nil, err
	}
	readKeys, writeKeys, optional, err := p.keySets(specs)
	if err != nil {
		return nil, err
	}
	rows, bitmaskKeys, err := p.serialize(specs, readKeys, writeKeys, optional)
	if err != nil {
		return nil, err
	}
	table, err := p.valuesTable(rows, readKeys, writeKeys, bitmaskKeys)
	if err != nil {
		return nil, err
	}
	return p.synthesize(table, readKeys, writeKeys, optional, bitmaskKeys, len(rows))
}

// normalize resolves attribute aliases to storage columns, so validation
// and SQL generation operate purely on storage names.
func (p *Planner) normalize(updates []UpdateSpec) ([]UpdateSpec, error) {
	if len(updates) == 0 {
		return nil, rowbatch.ErrEmptyUpdates
	}
	specs := make([]UpdateSpec, len(updates))
	for i, u := range updates {
		conds := make(map[string]any, len(u.Conditions))
		for k, v := range u.Conditions {
			conds[p.model.ResolveAlias(k)] = v
		}
		sets := make(map[string]any, len(u.Assignments))
		for k, v := range u.Assignments {
			sets[p.model.ResolveAlias(k)] = v
		}
		specs[i] = UpdateSpec{Conditions: conds, Assignments: sets}
	}
	return specs, nil
}

// keySets validates the specs and derives the read and write key sets.
// Key order is sorted, which keeps plans deterministic regardless of map
// iteration order.
func (p *Planner) keySets(specs []UpdateSpec) (readKeys, writeKeys []string, optional map[string]bool, err error) {
	readKeys = sortedKeys(specs[0].Conditions)
	if len(readKeys) == 0 {
		return nil, nil, nil, &rowbatch.InconsistentConditionKeysError{Want: readKeys, Got: nil}
	}
	for i, s := range specs {
		got := sortedKeys(s.Conditions)
		if !equalKeys(readKeys, got) {
			return nil, nil, nil, &rowbatch.InconsistentConditionKeysError{Want: readKeys, Got: got}
		}
		for _, k := range readKeys {
			if isNullish(s.Conditions[k]) {
				return nil, nil, nil, &rowbatch.UnsupportedNullConditionError{Column: k}
			}
		}
		if len(s.Assignments) == 0 {
			return nil, nil, nil, &rowbatch.EmptyAssignmentError{Index: i}
		}
		for _, k := range readKeys {
			if !p.model.HasColumn(k) {
				return nil, nil, nil, &rowbatch.UnknownColumnError{Column: k, Record: s.Conditions}
			}
		}
		for _, k := range sortedKeys(s.Assignments) {
			if !p.model.HasColumn(k) {
				return nil, nil, nil, &rowbatch.UnknownColumnError{Column: k, Record: s.Assignments}
			}
		}
	}
	seen := make(map[string]int)
	for _, s := range specs {
		for k := range s.Assignments {
			seen[k]++
		}
	}
	writeKeys = sortedKeys(seen)
	optional = make(map[string]bool, len(writeKeys))
	for _, k := range writeKeys {
		optional[k] = seen[k] < len(specs)
	}
	return readKeys, writeKeys, optional, nil
}

// serialize produces one row per spec: read-key values, then write-key
// values with a NULL sentinel for unassigned cells, then the bitmask cell
// when any optional column turned out NULL-ambiguous. A column is
// ambiguous when some row's assigned value cannot be told apart from the
// sentinel of a row that never assigned it.
func (p *Planner) serialize(specs []UpdateSpec, readKeys, writeKeys []string, optional map[string]bool) ([][]any, []string, error) {
	rows := make([][]any, len(specs))
	masks := make([]map[string]bool, len(specs))
	ambiguous := make(map[string]bool)
	for i, s := range specs {
		row := make([]any, 0, len(readKeys)+len(writeKeys)+1)
		for _, k := range readKeys {
			val, err := p.serializeColumn(k, s.Conditions[k])
			if err != nil {
				return nil, nil, err
			}
			row = append(row, storageArg(val))
		}
		masks[i] = make(map[string]bool, len(s.Assignments))
		for _, k := range writeKeys {
			raw, assigned := s.Assignments[k]
			if !assigned {
				// Sentinel; never read for this row.
				row = append(row, nil)
				continue
			}
			masks[i][k] = true
			val, err := p.serializeColumn(k, raw)
			if err != nil {
				return nil, nil, err
			}
			if optional[k] && p.ambiguous(val) {
				ambiguous[k] = true
			}
			row = append(row, storageArg(val))
		}
		rows[i] = row
	}
	bitmaskKeys := make([]string, 0, len(ambiguous))
	for _, k := range writeKeys {
		if ambiguous[k] {
			bitmaskKeys = append(bitmaskKeys, k)
		}
	}
	if len(bitmaskKeys) > 0 {
		for i := range rows {
			mask := make([]byte, len(bitmaskKeys))
			for j, k := range bitmaskKeys {
				if masks[i][k] {
					mask[j] = '1'
				} else {
					mask[j] = '0'
				}
			}
			rows[i] = append(rows[i], string(mask))
		}
	}
	return rows, bitmaskKeys, nil
}

// serializeColumn casts and serializes one value through its column type.
func (p *Planner) serializeColumn(column string, raw any) (schema.Value, error) {
	c, ok := p.model.Column(column)
	if !ok {
		return schema.Value{}, &rowbatch.UnknownColumnError{Column: column}
	}
	val, err := c.Type.Serialize(raw)
	if err != nil {
		return schema.Value{}, fmt.Errorf("bulkupdate: column %q: %w", column, err)
	}
	return val, nil
}

// valuesTable builds the derived table and applies dialect typecasting.
// SQLite types dynamically and gets no casts.
func (p *Planner) valuesTable(rows [][]any, readKeys, writeKeys, bitmaskKeys []string) (*sqlb.ValuesTable, error) {
	table, err := sqlb.Values(p.alias, rows)
	if err != nil {
		return nil, err
	}
	if p.dialect == dialect.SQLite {
		return table, nil
	}
	casts, err := p.castTypes(readKeys, writeKeys, bitmaskKeys)
	if err != nil {
		return nil, err
	}
	return table.WithCasts(casts)
}

// castTypes returns the per-column SQL cast targets in row order.
func (p *Planner) castTypes(readKeys, writeKeys, bitmaskKeys []string) ([]string, error) {
	casts := make([]string, 0, len(readKeys)+len(writeKeys)+1)
	for _, k := range append(append([]string{}, readKeys...), writeKeys...) {
		c, _ := p.model.Column(k)
		casts = append(casts, c.Type.SQLType(p.dialect))
	}
	if len(bitmaskKeys) > 0 {
		casts = append(casts, schema.StringType{}.SQLType(p.dialect))
	}
	return casts, nil
}

// isNullish reports whether a raw condition value would compile into an
// always-false `col = NULL` predicate.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	if sv, ok := v.(schema.Value); ok {
		return sv.Kind == schema.KindNull || sv.V == nil && sv.Kind == schema.KindRawScalar
	}
	return false
}

// storageArg converts a serialized value into a values-table cell. Every
// cell is a bound argument (NULL binds nil), which keeps the statement
// text independent of the batch's NULL pattern and therefore cacheable.
func storageArg(v schema.Value) any {
	if v.Kind == schema.KindNull {
		return nil
	}
	return v.V
}

// sortedKeys returns the map's keys in sorted order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// equalKeys reports whether two sorted key lists are identical.
func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
