package schema

import "fmt"

// ValueKind tags a serialized storage value. The set is closed: every value
// a column type produces is exactly one of these, and each kind knows
// whether it can be told apart from an intentional NULL once it lands in a
// table literal.
type ValueKind int

const (
	// KindRawScalar is a plain Go scalar bound as a statement argument.
	KindRawScalar ValueKind = iota
	// KindNull is an explicit SQL NULL.
	KindNull
	// KindParameter is a deferred bind parameter whose value is unknown at
	// plan time.
	KindParameter
	// KindTypedLiteral is a pre-typed attribute wrapper carried through
	// from a previous cast.
	KindTypedLiteral
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindRawScalar:
		return "raw scalar"
	case KindNull:
		return "null"
	case KindParameter:
		return "parameter"
	case KindTypedLiteral:
		return "typed literal"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a serialized storage value: a tagged variant over the closed
// kind set above.
type Value struct {
	Kind ValueKind
	V    any
}

// RawScalar returns a plain scalar value.
func RawScalar(v any) Value {
	return Value{Kind: KindRawScalar, V: v}
}

// Null returns an explicit NULL value.
func Null() Value {
	return Value{Kind: KindNull}
}

// Parameter returns a deferred bind-parameter value.
func Parameter(v any) Value {
	return Value{Kind: KindParameter, V: v}
}

// TypedLiteral returns a pre-typed literal value.
func TypedLiteral(v any) Value {
	return Value{Kind: KindTypedLiteral, V: v}
}

// AmbiguouslyNull reports whether the value, once placed in a table
// literal, cannot be told apart from "this column was never assigned".
// NULLs obviously cannot; parameters and pre-typed literals hide their
// payload until bind time; a raw scalar is ambiguous only when it is nil.
func (v Value) AmbiguouslyNull() bool {
	switch v.Kind {
	case KindNull, KindParameter, KindTypedLiteral:
		return true
	default:
		return v.V == nil
	}
}
