package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the identity material embedded in an issued token.
type Claims struct {
	Email   string
	UserID  uuid.UUID
	IsAdmin bool
}

// Identity is the authenticated principal reconstructed from a verified token.
// It lives for a single request and is never persisted.
type Identity struct {
	Email     string
	UserID    uuid.UUID
	IsAdmin   bool
	ExpiresAt time.Time
}

// Claims returns the token claims the identity was built from.
func (i Identity) Claims() Claims {
	return Claims{Email: i.Email, UserID: i.UserID, IsAdmin: i.IsAdmin}
}

// NewIdentity builds an Identity from verified claims.
func NewIdentity(claims Claims, expiresAt time.Time) Identity {
	return Identity{
		Email:     claims.Email,
		UserID:    claims.UserID,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: expiresAt,
	}
}
