package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rowbatch/rowbatch/dialect"
)

// Type is the semantic type of a column: it casts raw caller input to a
// typed Go value and serializes typed values to their storage
// representation. SQLType names the cast target used when a dialect types
// an untyped table literal from its first row.
type Type interface {
	Name() string
	Cast(v any) (any, error)
	Serialize(v any) (Value, error)
	SQLType(dialect string) string
}

// serialize applies the nil and pass-through rules shared by all types:
// nil serializes to NULL, and a caller-provided Value keeps its kind.
func serialize(t Type, v any) (Value, bool, error) {
	switch v := v.(type) {
	case nil:
		return Null(), true, nil
	case Value:
		return v, true, nil
	default:
		cast, err := t.Cast(v)
		if err != nil {
			return Value{}, true, err
		}
		if cast == nil {
			return Null(), true, nil
		}
		return RawScalar(cast), false, nil
	}
}

// StringType is a text column.
type StringType struct{}

// Name returns the type name.
func (StringType) Name() string { return "string" }

// Cast converts v to a string.
func (StringType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to string", v)
	}
}

// Serialize returns the storage value.
func (t StringType) Serialize(v any) (Value, error) {
	val, _, err := serialize(t, v)
	return val, err
}

// SQLType returns the dialect cast target.
func (StringType) SQLType(d string) string {
	if d == dialect.MySQL {
		return "char(255)"
	}
	return "text"
}

// IntType is a 64-bit integer column.
type IntType struct{}

// Name returns the type name.
func (IntType) Name() string { return "int" }

// Cast converts v to an int64.
func (IntType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %q to int: %w", v, err)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to int", v)
	}
}

// Serialize returns the storage value.
func (t IntType) Serialize(v any) (Value, error) {
	val, _, err := serialize(t, v)
	return val, err
}

// SQLType returns the dialect cast target.
func (IntType) SQLType(d string) string {
	switch d {
	case dialect.MySQL:
		return "signed"
	case dialect.SQLite:
		return "integer"
	default:
		return "bigint"
	}
}

// FloatType is a double-precision column.
type FloatType struct{}

// Name returns the type name.
func (FloatType) Name() string { return "float" }

// Cast converts v to a float64.
func (FloatType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %q to float: %w", v, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to float", v)
	}
}

// Serialize returns the storage value.
func (t FloatType) Serialize(v any) (Value, error) {
	val, _, err := serialize(t, v)
	return val, err
}

// SQLType returns the dialect cast target.
func (FloatType) SQLType(d string) string {
	switch d {
	case dialect.MySQL:
		return "double"
	case dialect.SQLite:
		return "real"
	default:
		return "double precision"
	}
}

// BoolType is a boolean column.
type BoolType struct{}

// Name returns the type name.
func (BoolType) Name() string { return "bool" }

// Cast converts v to a bool.
func (BoolType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %q to bool: %w", v, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to bool", v)
	}
}

// Serialize returns the storage value.
func (t BoolType) Serialize(v any) (Value, error) {
	val, _, err := serialize(t, v)
	return val, err
}

// SQLType returns the dialect cast target.
func (BoolType) SQLType(d string) string {
	switch d {
	case dialect.MySQL:
		return "unsigned"
	case dialect.SQLite:
		return "integer"
	default:
		return "boolean"
	}
}

// TimeType is a timestamp column.
type TimeType struct{}

// Name returns the type name.
func (TimeType) Name() string { return "time" }

// Cast converts v to a time.Time. Strings are parsed as RFC 3339.
func (TimeType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %q to time: %w", v, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to time", v)
	}
}

// Serialize returns the storage value.
func (t TimeType) Serialize(v any) (Value, error) {
	val, _, err := serialize(t, v)
	return val, err
}

// SQLType returns the dialect cast target.
func (TimeType) SQLType(d string) string {
	switch d {
	case dialect.MySQL:
		return "datetime(6)"
	case dialect.SQLite:
		return "text"
	default:
		return "timestamp"
	}
}

// UUIDType is a UUID column, stored as its canonical string form on
// dialects without a native uuid type.
type UUIDType struct{}

// Name returns the type name.
func (UUIDType) Name() string { return "uuid" }

// Cast converts v to a uuid.UUID.
func (UUIDType) Cast(v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %q to uuid: %w", v, err)
		}
		return id, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, fmt.Errorf("schema: cannot cast %d bytes to uuid: %w", len(v), err)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("schema: cannot cast %T to uuid", v)
	}
}

// Serialize returns the storage value: the canonical string form.
func (t UUIDType) Serialize(v any) (Value, error) {
	val, done, err := serialize(t, v)
	if done || err != nil {
		return val, err
	}
	return RawScalar(val.V.(uuid.UUID).String()), nil
}

// SQLType returns the dialect cast target.
func (UUIDType) SQLType(d string) string {
	switch d {
	case dialect.Postgres:
		return "uuid"
	case dialect.MySQL:
		return "char(36)"
	default:
		return "text"
	}
}

// JSONType is a JSON document column, stored as serialized text.
type JSONType struct{}

// Name returns the type name.
func (JSONType) Name() string { return "json" }

// Cast accepts any JSON-marshalable value.
func (JSONType) Cast(v any) (any, error) {
	return v, nil
}

// Serialize returns the storage value: the marshaled document.
func (t JSONType) Serialize(v any) (Value, error) {
	val, done, err := serialize(t, v)
	if done || err != nil {
		return val, err
	}
	b, err := json.Marshal(val.V)
	if err != nil {
		return Value{}, fmt.Errorf("schema: cannot serialize %T to json: %w", v, err)
	}
	return RawScalar(string(b)), nil
}

// SQLType returns the dialect cast target.
func (JSONType) SQLType(d string) string {
	switch d {
	case dialect.Postgres:
		return "jsonb"
	case dialect.MySQL:
		return "json"
	default:
		return "text"
	}
}
