package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// ErrAuditLogsNotPersisted is returned by maintenance operations when audit
// events only go to the structured log.
var ErrAuditLogsNotPersisted = apperrors.Wrap(apperrors.ErrInvalidState, "audit logs are not persisted")

type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuditLogUseCase creates an AuditLogUseCase. A nil repository logs events without persisting them.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository, logger *slog.Logger) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (a *auditLogUseCase) Record(ctx context.Context, auditLog *authDomain.AuditLog) error {
	attrs := []any{
		slog.String("event", string(auditLog.Event)),
		slog.String("reason", auditLog.Reason),
		slog.String("ip", auditLog.IP),
		slog.String("user_agent", auditLog.UserAgent),
		slog.String("path", auditLog.Path),
		slog.String("request_id", auditLog.RequestID),
	}
	if auditLog.UserID != nil {
		attrs = append(attrs,
			slog.String("user_id", auditLog.UserID.String()),
			slog.String("email", auditLog.Email),
		)
	}
	a.logger.WarnContext(ctx, "security event", attrs...)

	if a.auditLogRepo == nil {
		return nil
	}
	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}
	return nil
}

func (a *auditLogUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error) {
	if a.auditLogRepo == nil {
		return []*authDomain.AuditLog{}, nil
	}

	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	return auditLogs, nil
}

func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be a non-negative number")
	}
	if a.auditLogRepo == nil {
		return 0, ErrAuditLogsNotPersisted
	}

	olderThan := a.now().UTC().AddDate(0, 0, -days)

	count, err := a.auditLogRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}
	return count, nil
}
