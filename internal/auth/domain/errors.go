package domain

import (
	"github.com/centrala/rainfall-gate/internal/errors"
)

// Authentication failures.
var (
	// ErrMissingCredential indicates no credential was found in any transport channel.
	ErrMissingCredential = errors.Wrap(errors.ErrUnauthorized, "missing credential")

	// ErrInvalidCredential indicates a credential was found but failed verification.
	// It is the single client-facing reason for every token failure below.
	ErrInvalidCredential = errors.Wrap(errors.ErrForbidden, "invalid credential")

	// ErrTokenMalformed indicates the token could not be decoded.
	ErrTokenMalformed = errors.Wrap(ErrInvalidCredential, "token malformed")

	// ErrTokenSignatureInvalid indicates the signature does not match the signing secret.
	ErrTokenSignatureInvalid = errors.Wrap(ErrInvalidCredential, "token signature invalid")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.Wrap(ErrInvalidCredential, "token expired")
)

// Authorization failures.
var (
	// ErrUnauthenticated indicates an admin check ran without an authenticated identity.
	ErrUnauthenticated = errors.Wrap(errors.ErrUnauthorized, "authentication required")

	// ErrInsufficientPrivilege indicates the identity is not an administrator.
	ErrInsufficientPrivilege = errors.Wrap(errors.ErrForbidden, "administrator privileges required")
)

// TokenFailureReason returns a short label for a token verification failure.
// The label is safe to log and never contains token material.
func TokenFailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
