package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/centrala/rainfall-gate/internal/config"
)

// newCORSMiddleware returns nil when CORS is off or no usable origin is configured.
//
// Credentials are allowed so browser clients on a listed origin can carry the
// session cookie set by /api/login. A wildcard origin cannot be combined with
// credentials and is dropped.
func newCORSMiddleware(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.CORSEnabled {
		return nil
	}

	origins := splitOrigins(cfg.CORSAllowOrigins, logger)
	if len(origins) == 0 {
		logger.Warn("cors enabled but no usable origins configured")
		return nil
	}

	logger.Info("cors enabled", slog.Any("origins", origins))

	allowHeaders := []string{"Authorization", "Content-Type"}
	if cfg.AuthLegacyHeader != "" {
		allowHeaders = append(allowHeaders, cfg.AuthLegacyHeader)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// splitOrigins trims and dedupes a comma separated origin list.
func splitOrigins(raw string, logger *slog.Logger) []string {
	var origins []string
	for part := range strings.SplitSeq(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
			continue
		case origin == "*":
			logger.Warn("ignoring wildcard cors origin; credentialed requests need explicit origins")
			continue
		case slices.Contains(origins, origin):
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
