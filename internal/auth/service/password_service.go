package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// argon2PasswordService implements PasswordService with Argon2id in PHC format.
type argon2PasswordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the moderate Argon2id policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &argon2PasswordService{hasher: hasher}, nil
}

func (s *argon2PasswordService) Hash(plain string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// Compare reports whether plain matches hashed. Malformed hashes never match.
func (s *argon2PasswordService) Compare(plain string, hashed string) bool {
	ok, err := s.hasher.Verify([]byte(plain), hashed)
	if err != nil {
		return false
	}
	return ok
}
