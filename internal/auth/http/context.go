// Package http provides gin middleware and handlers for authentication and authorization.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gin-contrib/requestid"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// identityKey is a context key type for storing the authenticated identity.
type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
func WithIdentity(ctx context.Context, identity *authDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (nil, false) if AuthenticationMiddleware did not run or failed.
func GetIdentity(ctx context.Context) (*authDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*authDomain.Identity)
	return identity, ok && identity != nil
}

// RequestMetaFromGin collects the request attributes recorded in audit events.
// Headers and cookies other than the user agent are never included.
func RequestMetaFromGin(c *gin.Context) authDomain.RequestMeta {
	return authDomain.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Path:      c.Request.URL.Path,
		RequestID: requestid.Get(c),
	}
}
