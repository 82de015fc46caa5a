package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/auth/http/dto"
	"github.com/centrala/rainfall-gate/internal/auth/mocks"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	authUseCase "github.com/centrala/rainfall-gate/internal/auth/usecase"
	"github.com/centrala/rainfall-gate/internal/metrics"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testRouter struct {
	router *gin.Engine
	tokens authService.TokenService
	audit  *mocks.MockAuditLogUseCase
}

// setupTestRouter wires the real gates behind a mocked audit sink.
func setupTestRouter(t *testing.T) *testRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := authService.NewTokenService("middleware-test-secret", time.Hour)
	require.NoError(t, err)

	logger := createTestLogger()
	audit := &mocks.MockAuditLogUseCase{}
	extractor := authService.NewCredentialExtractor(authService.DefaultCredentialSources("jwt", "X-API-Key")...)
	authGate := authUseCase.NewAuthGate(extractor, tokens, audit, metrics.NewNoOpBusinessMetrics(), logger)
	adminGate := authUseCase.NewAdminGate(audit, metrics.NewNoOpBusinessMetrics(), logger)

	router := gin.New()
	router.Use(requestid.New())

	api := router.Group("/api", AuthenticationMiddleware(authGate, logger))
	api.GET("/me", MeHandler(logger))

	admin := router.Group("/admin",
		AuthenticationMiddleware(authGate, logger),
		AdminMiddleware(adminGate, logger),
	)
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &testRouter{router: router, tokens: tokens, audit: audit}
}

func (tr *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	tr.router.ServeHTTP(w, req)
	return w
}

func (tr *testRouter) issue(t *testing.T, claims authDomain.Claims, ttl time.Duration) string {
	t.Helper()
	token, err := tr.tokens.Issue(claims, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthenticationMiddleware(t *testing.T) {
	claims := authDomain.Claims{Email: "alice@example.com", UserID: uuid.Must(uuid.NewV7())}

	t.Run("Success_BearerHeader", func(t *testing.T) {
		tr := setupTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+tr.issue(t, claims, 0))

		w := tr.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.IdentityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "alice@example.com", response.Email)
		assert.Equal(t, claims.UserID.String(), response.UserID)
		assert.False(t, response.IsAdmin)
		tr.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("Success_Cookie", func(t *testing.T) {
		tr := setupTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: tr.issue(t, claims, 0)})

		assert.Equal(t, http.StatusOK, tr.do(req).Code)
	})

	t.Run("Success_LegacyHeader", func(t *testing.T) {
		tr := setupTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("X-API-Key", tr.issue(t, claims, 0))

		assert.Equal(t, http.StatusOK, tr.do(req).Code)
	})

	t.Run("Error_MissingCredential", func(t *testing.T) {
		tr := setupTestRouter(t)
		tr.audit.On("Record", mock.Anything, mock.MatchedBy(func(a *authDomain.AuditLog) bool {
			return a.Event == authDomain.EventMissingCredential &&
				a.Path == "/api/me" &&
				a.UserAgent == "rain-client/1.0" &&
				a.RequestID != "" &&
				a.UserID == nil
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("User-Agent", "rain-client/1.0")

		w := tr.do(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		tr.audit.AssertExpectations(t)
	})

	t.Run("Error_ExpiredCredential", func(t *testing.T) {
		tr := setupTestRouter(t)
		expired := tr.issue(t, claims, -time.Second)
		var recorded *authDomain.AuditLog
		tr.audit.On("Record", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { recorded = args.Get(1).(*authDomain.AuditLog) }).
			Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+expired)

		w := tr.do(req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, recorded)
		assert.Equal(t, authDomain.EventInvalidCredential, recorded.Event)
		assert.Contains(t, recorded.Reason, "expired")
		assert.NotContains(t, recorded.Reason, expired)
		assert.NotContains(t, w.Body.String(), expired)
	})

	t.Run("Error_BadSignature", func(t *testing.T) {
		tr := setupTestRouter(t)
		other, err := authService.NewTokenService("some-other-secret", time.Hour)
		require.NoError(t, err)
		forged, err := other.Issue(authDomain.Claims{Email: "mallory@example.com", UserID: uuid.Must(uuid.NewV7()), IsAdmin: true}, 0)
		require.NoError(t, err)
		tr.audit.On("Record", mock.Anything, mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: forged})

		assert.Equal(t, http.StatusForbidden, tr.do(req).Code)
		tr.audit.AssertExpectations(t)
	})
}

func TestAdminMiddleware(t *testing.T) {
	t.Run("Success_Admin", func(t *testing.T) {
		tr := setupTestRouter(t)
		token := tr.issue(t, authDomain.Claims{Email: "testadmin@centrala.com", UserID: uuid.Must(uuid.NewV7()), IsAdmin: true}, 0)

		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		assert.Equal(t, http.StatusOK, tr.do(req).Code)
		tr.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotAdmin", func(t *testing.T) {
		tr := setupTestRouter(t)
		userID := uuid.Must(uuid.NewV7())
		token := tr.issue(t, authDomain.Claims{Email: "alice@example.com", UserID: userID}, 0)
		tr.audit.On("Record", mock.Anything, mock.MatchedBy(func(a *authDomain.AuditLog) bool {
			return a.Event == authDomain.EventInsufficientPrivilege &&
				a.Email == "alice@example.com" &&
				a.UserID != nil && *a.UserID == userID
		})).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, tr.do(req).Code)
		tr.audit.AssertExpectations(t)
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		adminGate := &mocks.MockAdminGate{}
		adminGate.On("Authorize", mock.Anything, (*authDomain.Identity)(nil), mock.Anything).
			Return(authDomain.ErrUnauthenticated).Once()

		router := gin.New()
		router.GET("/admin/ping", AdminMiddleware(adminGate, createTestLogger()), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		adminGate.AssertExpectations(t)
	})
}
