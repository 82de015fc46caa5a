package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/metrics"
)

const reasonNotAdministrator = "not an administrator"

type adminGate struct {
	events *securityEvents
}

// NewAdminGate creates an AdminGate that reports refusals to audit and metrics.
func NewAdminGate(audit AuditLogUseCase, businessMetrics metrics.BusinessMetrics, logger *slog.Logger) AdminGate {
	return &adminGate{
		events: &securityEvents{
			audit:   audit,
			metrics: businessMetrics,
			logger:  logger,
			now:     time.Now,
		},
	}
}

func (g *adminGate) Authorize(ctx context.Context, identity *authDomain.Identity, meta authDomain.RequestMeta) error {
	if identity == nil {
		return authDomain.ErrUnauthenticated
	}

	if !identity.IsAdmin {
		g.events.emit(ctx, authDomain.NewAuditLog(
			authDomain.EventInsufficientPrivilege, reasonNotAdministrator, meta, g.events.now(),
		).WithPrincipal(*identity))
		return authDomain.ErrInsufficientPrivilege
	}

	return nil
}
