package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
)

func newTestTokenService(t *testing.T, secret string) authService.TokenService {
	t.Helper()
	tokens, err := authService.NewTokenService(secret, time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestRunVerifyToken(t *testing.T) {
	tokens := newTestTokenService(t, "verify-secret")
	userID := uuid.Must(uuid.NewV7())
	token, err := tokens.Issue(authDomain.Claims{Email: "user@example.com", UserID: userID, IsAdmin: true}, 0)
	require.NoError(t, err)

	t.Run("valid-text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(""), Writer: &out}, token, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Token is valid")
		assert.Contains(t, out.String(), "user@example.com")
		assert.Contains(t, out.String(), userID.String())
		assert.NotContains(t, out.String(), token)
	})

	t.Run("valid-json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(""), Writer: &out}, token, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"valid": true`)
		assert.Contains(t, out.String(), `"is_admin": true`)
	})

	t.Run("reads-token-from-reader", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(token + "\n"), Writer: &out}, "", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "Token is valid")
	})

	t.Run("bad-signature", func(t *testing.T) {
		other := newTestTokenService(t, "other-secret")
		var out bytes.Buffer
		err := RunVerifyToken(other, IOTuple{Reader: strings.NewReader(""), Writer: &out}, token, "json")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad_signature")
		assert.Contains(t, out.String(), `"valid": false`)
		assert.Contains(t, out.String(), `"reason": "bad_signature"`)
	})

	t.Run("malformed", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(""), Writer: &out}, "not-a-token", "text")

		require.Error(t, err)
		assert.Contains(t, out.String(), "Token is invalid: malformed")
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		issuer, err := authService.NewTokenService("verify-secret", time.Hour, authService.WithClock(func() time.Time { return past }))
		require.NoError(t, err)
		expired, err := issuer.Issue(authDomain.Claims{Email: "user@example.com", UserID: userID}, 0)
		require.NoError(t, err)

		var out bytes.Buffer
		err = RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(""), Writer: &out}, expired, "text")

		require.Error(t, err)
		assert.Contains(t, out.String(), "Token is invalid: expired")
	})

	t.Run("missing-token", func(t *testing.T) {
		err := RunVerifyToken(tokens, IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}}, "", "text")

		require.Error(t, err)
	})
}
