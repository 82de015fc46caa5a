package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/centrala/rainfall-gate/internal/config"
)

func corsConfig(enabled bool, origins string) *config.Config {
	return &config.Config{
		CORSEnabled:      enabled,
		CORSAllowOrigins: origins,
		AuthLegacyHeader: "X-API-Key",
	}
}

func corsRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if middleware := newCORSMiddleware(cfg, slog.Default()); middleware != nil {
		router.Use(middleware)
	}
	router.GET("/api/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestNewCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{"disabled", false, "https://rain.example.com", true},
		{"enabled without origins", true, "", true},
		{"only wildcard", true, "*", true},
		{"single origin", true, "https://rain.example.com", false},
		{"several origins", true, "https://rain.example.com, https://admin.rain.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := newCORSMiddleware(corsConfig(tt.enabled, tt.origins), slog.Default())
			if tt.wantNil {
				assert.Nil(t, middleware)
			} else {
				assert.NotNil(t, middleware)
			}
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"trims whitespace", " https://a.example.com , https://b.example.com ", []string{"https://a.example.com", "https://b.example.com"}},
		{"drops trailing slash", "https://a.example.com/", []string{"https://a.example.com"}},
		{"drops wildcard", "*,https://a.example.com", []string{"https://a.example.com"}},
		{"dedupes", "https://a.example.com,https://a.example.com/", []string{"https://a.example.com"}},
		{"skips blanks", ",,https://a.example.com,", []string{"https://a.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.raw, slog.Default()))
		})
	}
}

func TestCORS_AllowedOriginGetsCredentialedHeaders(t *testing.T) {
	router := corsRouter(t, corsConfig(true, "https://rain.example.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Origin", "https://rain.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://rain.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_DisabledAddsNoHeaders(t *testing.T) {
	router := corsRouter(t, corsConfig(false, "https://rain.example.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Origin", "https://rain.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAllowsLegacyHeader(t *testing.T) {
	router := corsRouter(t, corsConfig(true, "https://rain.example.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://rain.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://rain.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-api-key")
}
