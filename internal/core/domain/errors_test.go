package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInitialization", ErrInitialization},
		{"ErrUnknownDatabase", ErrUnknownDatabase},
		{"ErrStatement", ErrStatement},
		{"ErrNotSupported", ErrNotSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotSupported(t *testing.T) {
	assert.Equal(t, "not supported in this environment", ErrNotSupported.Error())

	wrapped := fmt.Errorf("getVersion: %w", ErrNotSupported)
	assert.True(t, errors.Is(wrapped, ErrNotSupported))
	assert.False(t, errors.Is(wrapped, ErrUnknownDatabase))
}

func TestErrUnknownDatabase(t *testing.T) {
	wrapped := fmt.Errorf("%w: %q", ErrUnknownDatabase, "app")
	assert.True(t, errors.Is(wrapped, ErrUnknownDatabase))
	assert.False(t, errors.Is(wrapped, ErrNotSupported))
}

func TestStatementError(t *testing.T) {
	cause := errors.New("no such table: t")

	t.Run("embeds statement and values", func(t *testing.T) {
		err := &StatementError{
			Statement: "INSERT INTO t VALUES (?, ?)",
			Values:    []Value{int64(1), nil},
			Err:       cause,
		}

		assert.Equal(t,
			`no such table: t {"statement":"INSERT INTO t VALUES (?, ?)","values":[1,null]}`,
			err.Error())
		assert.ErrorIs(t, err, ErrStatement)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bare message without statement", func(t *testing.T) {
		err := &StatementError{Err: cause}

		assert.Equal(t, "no such table: t", err.Error())
		assert.ErrorIs(t, err, ErrStatement)
	})

	t.Run("matched through wrapping", func(t *testing.T) {
		var err error = fmt.Errorf("run: %w", &StatementError{Err: cause})

		var se *StatementError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, cause, se.Err)
	})
}
