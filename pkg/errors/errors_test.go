package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		expected string
	}{
		{
			name:     "validation",
			err:      NewValidationError("strength must be in [0,1]"),
			check:    IsValidation,
			expected: "VALIDATION: strength must be in [0,1]",
		},
		{
			name:     "not found",
			err:      NewNotFoundError("node"),
			check:    IsNotFound,
			expected: "NOT_FOUND: node not found",
		},
		{
			name:     "conflict",
			err:      NewConflictError("node already exists in graph"),
			check:    IsConflict,
			expected: "CONFLICT: node already exists in graph",
		},
		{
			name:     "internal",
			err:      NewInternal("merge failed", errors.New("boom")),
			check:    IsInternal,
			expected: "INTERNAL: merge failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestTypeChecksAreExclusive(t *testing.T) {
	err := NewValidationError("bad input")

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsInternal(err))

	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsValidation(nil))
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("preserves the app error type", func(t *testing.T) {
		wrapped := Wrap(NewNotFoundError("node"), "path lookup")

		assert.True(t, IsNotFound(wrapped))
		assert.Equal(t, "NOT_FOUND: path lookup: node not found", wrapped.Error())
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		cause := errors.New("socket closed")
		wrapped := Wrap(cause, "store query")

		assert.True(t, IsInternal(wrapped))
		assert.ErrorIs(t, wrapped, cause)
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewInternal("wrapper", cause)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, cause)
}
