package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// DefaultTokenTTL is the lifetime of a token issued without an explicit ttl.
const DefaultTokenTTL = 7 * 24 * time.Hour

// jwtClaims is the wire form of the token payload.
type jwtClaims struct {
	Email   string `json:"email"`
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type jwtTokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// TokenOption customizes a TokenService.
type TokenOption func(*jwtTokenService)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *jwtTokenService) {
		s.now = now
	}
}

// NewTokenService creates an HS256 TokenService. The secret is copied and
// never changes for the lifetime of the service.
func NewTokenService(secret string, defaultTTL time.Duration, opts ...TokenOption) (TokenService, error) {
	if secret == "" {
		return nil, apperrors.New("token signing secret must not be empty")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}

	s := &jwtTokenService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)

	return s, nil
}

func (s *jwtTokenService) Issue(claims authDomain.Claims, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email:   claims.Email,
		UserID:  claims.UserID.String(),
		IsAdmin: claims.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			// A fresh jti keeps two tokens minted within one second distinct.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *jwtTokenService) Verify(token string) (authDomain.Identity, error) {
	claims := &jwtClaims{}

	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return authDomain.Identity{}, classifyJWTError(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return authDomain.Identity{}, apperrors.Wrap(authDomain.ErrTokenMalformed, "userId claim is not a valid id")
	}

	return authDomain.NewIdentity(authDomain.Claims{
		Email:   claims.Email,
		UserID:  userID,
		IsAdmin: claims.IsAdmin,
	}, claims.ExpiresAt.Time), nil
}

// classifyJWTError maps parser errors onto the credential failure kinds.
// Signature is checked before expiry, so a forged expired token reports bad_signature.
func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return authDomain.ErrTokenSignatureInvalid
	default:
		return authDomain.ErrTokenMalformed
	}
}
