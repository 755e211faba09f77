package rowbatch

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common planner failures.
var (
	// ErrEmptyUpdates is returned when a bulk update is planned with no
	// update specs at all.
	ErrEmptyUpdates = errors.New("rowbatch: updates list is empty")

	// ErrValuesTableUnsupported is returned when the target dialect has no
	// usable multi-row table-literal construct.
	ErrValuesTableUnsupported = errors.New("rowbatch: dialect does not support values tables")
)

// ShapeError reports a malformed values table: an empty row list,
// non-rectangular rows, or a column-name list whose length does not match
// the row width.
type ShapeError struct {
	Reason string
	Want   int // expected width, -1 if not applicable
	Got    int // observed width, -1 if not applicable
}

// Error returns the error string.
func (e *ShapeError) Error() string {
	if e.Want >= 0 {
		return fmt.Sprintf("rowbatch: %s (want width %d, got %d)", e.Reason, e.Want, e.Got)
	}
	return fmt.Sprintf("rowbatch: %s", e.Reason)
}

// NewShapeError returns a ShapeError without width context.
func NewShapeError(reason string) *ShapeError {
	return &ShapeError{Reason: reason, Want: -1, Got: -1}
}

// NewShapeWidthError returns a ShapeError carrying the expected and observed widths.
func NewShapeWidthError(reason string, want, got int) *ShapeError {
	return &ShapeError{Reason: reason, Want: want, Got: got}
}

// IsShapeError returns true if the error is a ShapeError.
func IsShapeError(err error) bool {
	var e *ShapeError
	return errors.As(err, &e)
}

// InconsistentConditionKeysError reports that two update specs disagree on
// their condition column set. Every spec in a batch must join on exactly the
// same columns.
type InconsistentConditionKeysError struct {
	Want []string
	Got  []string
}

// Error returns the error string.
func (e *InconsistentConditionKeysError) Error() string {
	return fmt.Sprintf(
		"rowbatch: all update specs must share the same condition columns (want [%s], got [%s])",
		strings.Join(e.Want, ", "), strings.Join(e.Got, ", "),
	)
}

// IsInconsistentConditionKeys returns true if the error is an InconsistentConditionKeysError.
func IsInconsistentConditionKeys(err error) bool {
	var e *InconsistentConditionKeysError
	return errors.As(err, &e)
}

// UnsupportedNullConditionError reports a NULL value inside a condition map.
// The planner joins condition columns with plain equality, and `col = NULL`
// never matches; rejecting the spec is a planner limitation, not a database one.
type UnsupportedNullConditionError struct {
	Column string
}

// Error returns the error string.
func (e *UnsupportedNullConditionError) Error() string {
	return fmt.Sprintf("rowbatch: condition on column %q is NULL; NULL conditions are not supported", e.Column)
}

// IsUnsupportedNullCondition returns true if the error is an UnsupportedNullConditionError.
func IsUnsupportedNullCondition(err error) bool {
	var e *UnsupportedNullConditionError
	return errors.As(err, &e)
}

// EmptyAssignmentError reports an update spec that assigns no columns.
type EmptyAssignmentError struct {
	Index int // position of the offending spec in the input
}

// Error returns the error string.
func (e *EmptyAssignmentError) Error() string {
	return fmt.Sprintf("rowbatch: update spec %d has no assignments", e.Index)
}

// IsEmptyAssignment returns true if the error is an EmptyAssignmentError.
func IsEmptyAssignment(err error) bool {
	var e *EmptyAssignmentError
	return errors.As(err, &e)
}

// UnknownColumnError reports a condition or assignment referencing a column
// the model's schema does not declare. Record holds a representative
// offending map to make the call site easy to locate.
type UnknownColumnError struct {
	Column string
	Record map[string]any
}

// Error returns the error string.
func (e *UnknownColumnError) Error() string {
	if e.Record != nil {
		return fmt.Sprintf("rowbatch: unknown column %q (in %v)", e.Column, e.Record)
	}
	return fmt.Sprintf("rowbatch: unknown column %q", e.Column)
}

// IsUnknownColumn returns true if the error is an UnknownColumnError.
func IsUnknownColumn(err error) bool {
	var e *UnknownColumnError
	return errors.As(err, &e)
}

// CompositeKeyShapeError reports a keyed update whose key tuple arity does
// not match the model's primary-key column count.
type CompositeKeyShapeError struct {
	Want int
	Got  int
}

// Error returns the error string.
func (e *CompositeKeyShapeError) Error() string {
	return fmt.Sprintf("rowbatch: composite key arity mismatch (want %d values, got %d)", e.Want, e.Got)
}

// IsCompositeKeyShape returns true if the error is a CompositeKeyShapeError.
func IsCompositeKeyShape(err error) bool {
	var e *CompositeKeyShapeError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation surfaced while
// executing a planned statement.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return "rowbatch: constraint failed: " + e.msg
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError wraps a driver error as a ConstraintError.
func NewConstraintError(msg string, wrap error) *ConstraintError {
	return &ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}
