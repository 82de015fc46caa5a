package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/centrala/rainfall-gate/internal/auth/usecase"
	"github.com/centrala/rainfall-gate/internal/httputil"
)

// AuthenticationMiddleware resolves the request's credential into an Identity.
//
// Credentials are looked up by the gate's extractor (Bearer header, cookie, legacy
// header, in that order). A request without any credential gets 401; a present but
// malformed, tampered or expired credential gets 403. Both outcomes are audited by
// the gate before the response is written.
//
// Usage:
//
//	api.Use(AuthenticationMiddleware(authGate, logger))
//	api.GET("/me", func(c *gin.Context) {
//	    identity, _ := GetIdentity(c.Request.Context())
//	    ...
//	})
func AuthenticationMiddleware(gate authUseCase.AuthGate, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := gate.Authenticate(c.Request.Context(), c.Request, RequestMetaFromGin(c))
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			return
		}

		ctx := WithIdentity(c.Request.Context(), &identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminMiddleware admits only identities carrying the admin claim.
// MUST be used after AuthenticationMiddleware.
func AdminMiddleware(gate authUseCase.AdminGate, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := GetIdentity(c.Request.Context())

		if err := gate.Authorize(c.Request.Context(), identity, RequestMetaFromGin(c)); err != nil {
			httputil.HandleErrorGin(c, err, logger)
			return
		}

		c.Next()
	}
}
