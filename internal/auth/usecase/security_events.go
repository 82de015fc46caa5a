package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/metrics"
)

// securityEvents fans a security decision out to the audit trail and metrics.
// Sink failures are logged and never change the outcome of the request.
type securityEvents struct {
	audit   AuditLogUseCase
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

func (s *securityEvents) emit(ctx context.Context, auditLog *authDomain.AuditLog) {
	s.metrics.RecordSecurityEvent(ctx, string(auditLog.Event), auditLog.Reason)

	if err := s.audit.Record(ctx, auditLog); err != nil {
		s.logger.ErrorContext(ctx, "failed to record security event",
			slog.String("event", string(auditLog.Event)),
			slog.Any("error", err),
		)
	}
}
