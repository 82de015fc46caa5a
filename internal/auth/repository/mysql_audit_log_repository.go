package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/database"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}

func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	var userID []byte
	if auditLog.UserID != nil {
		userID, err = auditLog.UserID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log user_id")
		}
	}

	query := `INSERT INTO audit_logs (id, event, reason, ip, user_agent, path, request_id, user_id, email, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(auditLog.Event),
		auditLog.Reason,
		auditLog.IP,
		auditLog.UserAgent,
		auditLog.Path,
		auditLog.RequestID,
		userID,
		auditLog.Email,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs newest first.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, event, reason, ip, user_agent, path, request_id, user_id, email, created_at
			  FROM audit_logs
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	auditLogs := make([]*authDomain.AuditLog, 0)
	for rows.Next() {
		var auditLog authDomain.AuditLog
		var idBinary, userIDBinary []byte
		var event string

		err := rows.Scan(
			&idBinary,
			&event,
			&auditLog.Reason,
			&auditLog.IP,
			&auditLog.UserAgent,
			&auditLog.Path,
			&auditLog.RequestID,
			&userIDBinary,
			&auditLog.Email,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if err := auditLog.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
		}

		if userIDBinary != nil {
			var userID uuid.UUID
			if err := userID.UnmarshalBinary(userIDBinary); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log user_id")
			}
			auditLog.UserID = &userID
		}

		auditLog.Event = authDomain.AuditEventKind(event)
		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`, olderThan).
			Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read deleted audit log count")
	}
	return count, nil
}
