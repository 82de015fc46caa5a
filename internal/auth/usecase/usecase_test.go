package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authService "github.com/centrala/rainfall-gate/internal/auth/service"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) authService.TokenService {
	t.Helper()
	tokens, err := authService.NewTokenService("usecase-test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func newTestExtractor() CredentialExtractor {
	return authService.NewCredentialExtractor(authService.DefaultCredentialSources("jwt", "X-API-Key")...)
}
