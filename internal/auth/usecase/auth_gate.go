package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	"github.com/centrala/rainfall-gate/internal/metrics"
)

const reasonNoCredential = "no credential presented"

type authGate struct {
	extractor CredentialExtractor
	tokens    authService.TokenService
	events    *securityEvents
}

// NewAuthGate composes credential extraction and token verification.
func NewAuthGate(
	extractor CredentialExtractor,
	tokens authService.TokenService,
	audit AuditLogUseCase,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) AuthGate {
	return &authGate{
		extractor: extractor,
		tokens:    tokens,
		events: &securityEvents{
			audit:   audit,
			metrics: businessMetrics,
			logger:  logger,
			now:     time.Now,
		},
	}
}

func (g *authGate) Authenticate(
	ctx context.Context,
	r *http.Request,
	meta authDomain.RequestMeta,
) (authDomain.Identity, error) {
	token, source, ok := g.extractor.Extract(r)
	if !ok {
		g.events.emit(ctx, authDomain.NewAuditLog(
			authDomain.EventMissingCredential, reasonNoCredential, meta, g.events.now(),
		))
		return authDomain.Identity{}, authDomain.ErrMissingCredential
	}

	identity, err := g.tokens.Verify(token)
	if err != nil {
		reason := authDomain.TokenFailureReason(err) + " (" + string(source) + ")"
		g.events.emit(ctx, authDomain.NewAuditLog(
			authDomain.EventInvalidCredential, reason, meta, g.events.now(),
		))
		return authDomain.Identity{}, authDomain.ErrInvalidCredential
	}

	return identity, nil
}
