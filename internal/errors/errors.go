// Package errors holds the sentinel errors shared by every domain module.
// Use cases wrap them with context; the HTTP layer maps each sentinel to a
// status code and a stable error code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness clash, such as an already registered email.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates the resource cannot take the requested transition.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnauthorized indicates no usable identity accompanies the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the identity was rejected or lacks privilege.
	ErrForbidden = errors.New("forbidden")
)

// kinds is checked in order; the first sentinel in the chain wins.
var kinds = []struct {
	sentinel error
	code     string
}{
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrInvalidInput, "invalid_input"},
	{ErrInvalidState, "invalid_state"},
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
}

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Sentinel returns the sentinel err wraps, or nil when it wraps none.
func Sentinel(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.sentinel
		}
	}
	return nil
}

// Code returns the stable code of the sentinel err wraps, or "".
func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.code
		}
	}
	return ""
}
