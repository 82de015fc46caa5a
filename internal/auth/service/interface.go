// Package service provides token signing, credential extraction and password
// hashing for the authentication layer.
package service

import (
	"net/http"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// TokenService signs and verifies self-contained identity tokens.
type TokenService interface {
	// Issue signs claims into a token that expires after ttl.
	// A zero ttl uses the service's default lifetime.
	Issue(claims authDomain.Claims, ttl time.Duration) (string, error)

	// Verify checks the signature and expiry of token and returns the identity it carries.
	// Failures wrap ErrTokenMalformed, ErrTokenSignatureInvalid or ErrTokenExpired.
	Verify(token string) (authDomain.Identity, error)
}

// CredentialSource looks for a credential in one transport channel of a request.
type CredentialSource interface {
	Name() authDomain.CredentialSourceName
	// Extract returns the credential and true when the channel carries a non-empty value.
	Extract(r *http.Request) (string, bool)
}

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	Hash(plain string) (string, error)
	Compare(plain string, hashed string) bool
}
