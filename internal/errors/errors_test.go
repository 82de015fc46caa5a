package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	assert.EqualError(t, err, "test error")
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		assert.EqualError(t, wrapped, "wrapped: base error")
		assert.True(t, errors.Is(wrapped, baseErr))
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "wrapped"))
	})

	t.Run("nested wrap keeps sentinel", func(t *testing.T) {
		inner := Wrap(ErrForbidden, "invalid credential")
		outer := Wrap(inner, "token expired")
		assert.True(t, Is(outer, ErrForbidden))
		assert.True(t, Is(outer, inner))
		assert.False(t, Is(outer, ErrUnauthorized))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "context")

	var target customError
	assert.True(t, As(err, &target))
	assert.Equal(t, "custom", target.Msg)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrInvalidState, ErrUnauthorized, ErrForbidden}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.False(t, Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestSentinelAndCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"not found", Wrap(ErrNotFound, "user not found"), ErrNotFound, "not_found"},
		{"conflict", Wrap(ErrConflict, "email already registered"), ErrConflict, "conflict"},
		{"invalid input", Wrap(ErrInvalidInput, "reason too short"), ErrInvalidInput, "invalid_input"},
		{"invalid state", Wrap(ErrInvalidState, "request is not pending"), ErrInvalidState, "invalid_state"},
		{"unauthorized", Wrap(ErrUnauthorized, "missing credential"), ErrUnauthorized, "unauthorized"},
		{"forbidden", Wrap(Wrap(ErrForbidden, "invalid credential"), "expired"), ErrForbidden, "forbidden"},
		{"plain", errors.New("boom"), nil, ""},
		{"nil", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sentinel, Sentinel(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}
