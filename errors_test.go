package rowbatch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rowbatch/rowbatch"
)

func TestShapeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := rowbatch.NewShapeError("values table requires at least one row")
		assert.Equal(t, "rowbatch: values table requires at least one row", err.Error())
	})

	t.Run("WithWidths", func(t *testing.T) {
		err := rowbatch.NewShapeWidthError("values table rows must be rectangular", 3, 2)
		assert.Equal(t, "rowbatch: values table rows must be rectangular (want width 3, got 2)", err.Error())
	})

	t.Run("IsShapeError", func(t *testing.T) {
		err := rowbatch.NewShapeError("bad shape")
		assert.True(t, rowbatch.IsShapeError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, rowbatch.IsShapeError(wrapped))

		// Non-matching error
		assert.False(t, rowbatch.IsShapeError(errors.New("other error")))
		assert.False(t, rowbatch.IsShapeError(nil))
	})
}

func TestInconsistentConditionKeysError(t *testing.T) {
	err := &rowbatch.InconsistentConditionKeysError{
		Want: []string{"id"},
		Got:  []string{"id", "tenant"},
	}
	assert.Equal(t,
		"rowbatch: all update specs must share the same condition columns (want [id], got [id, tenant])",
		err.Error(),
	)
	assert.True(t, rowbatch.IsInconsistentConditionKeys(fmt.Errorf("w: %w", err)))
	assert.False(t, rowbatch.IsInconsistentConditionKeys(errors.New("other")))
}

func TestUnsupportedNullConditionError(t *testing.T) {
	err := &rowbatch.UnsupportedNullConditionError{Column: "tenant"}
	assert.Contains(t, err.Error(), `"tenant"`)
	assert.True(t, rowbatch.IsUnsupportedNullCondition(err))
	assert.False(t, rowbatch.IsUnsupportedNullCondition(rowbatch.ErrEmptyUpdates))
}

func TestEmptyAssignmentError(t *testing.T) {
	err := &rowbatch.EmptyAssignmentError{Index: 2}
	assert.Equal(t, "rowbatch: update spec 2 has no assignments", err.Error())
	assert.True(t, rowbatch.IsEmptyAssignment(fmt.Errorf("w: %w", err)))
}

func TestUnknownColumnError(t *testing.T) {
	t.Run("WithRecord", func(t *testing.T) {
		err := &rowbatch.UnknownColumnError{
			Column: "nickname",
			Record: map[string]any{"nickname": "x"},
		}
		assert.Contains(t, err.Error(), `"nickname"`)
		assert.Contains(t, err.Error(), "map[nickname:x]")
	})

	t.Run("WithoutRecord", func(t *testing.T) {
		err := &rowbatch.UnknownColumnError{Column: "nickname"}
		assert.Equal(t, `rowbatch: unknown column "nickname"`, err.Error())
	})

	assert.True(t, rowbatch.IsUnknownColumn(&rowbatch.UnknownColumnError{Column: "c"}))
	assert.False(t, rowbatch.IsUnknownColumn(nil))
}

func TestCompositeKeyShapeError(t *testing.T) {
	err := &rowbatch.CompositeKeyShapeError{Want: 2, Got: 3}
	assert.Equal(t, "rowbatch: composite key arity mismatch (want 2 values, got 3)", err.Error())
	assert.True(t, rowbatch.IsCompositeKeyShape(err))
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := rowbatch.NewConstraintError("users_email_key", cause)
	assert.Equal(t, "rowbatch: constraint failed: users_email_key", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, rowbatch.IsConstraintError(fmt.Errorf("exec: %w", err)))
	assert.False(t, rowbatch.IsConstraintError(cause))
}
