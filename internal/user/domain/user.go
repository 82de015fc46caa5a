// Package domain defines the user entity and its errors.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/errors"
)

// User is a registered account. CurrentCredential holds the last token issued
// to the user, replaced on every login and on access-request approval.
type User struct {
	ID                uuid.UUID
	Email             string
	PasswordSecret    string
	CurrentCredential *string
	IsAdmin           bool
	CreatedAt         time.Time
	LastUsedAt        *time.Time
}

// Claims returns the token claims for the user with the given admin verdict.
func (u *User) Claims(isAdmin bool) authDomain.Claims {
	return authDomain.Claims{Email: u.Email, UserID: u.ID, IsAdmin: isAdmin}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrEmailAlreadyRegistered indicates another user owns the address.
	ErrEmailAlreadyRegistered = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid email or password")
)
