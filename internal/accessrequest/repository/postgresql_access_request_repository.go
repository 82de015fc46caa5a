// Package repository persists access requests in PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	"github.com/centrala/rainfall-gate/internal/database"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// PostgreSQLAccessRequestRepository implements AccessRequest persistence for PostgreSQL.
type PostgreSQLAccessRequestRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccessRequestRepository creates a new PostgreSQL AccessRequest repository.
func NewPostgreSQLAccessRequestRepository(db *sql.DB) *PostgreSQLAccessRequestRepository {
	return &PostgreSQLAccessRequestRepository{db: db}
}

func (p *PostgreSQLAccessRequestRepository) Create(ctx context.Context, request *domain.AccessRequest) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO access_requests (id, user_id, reason, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		request.ID,
		request.UserID,
		request.Reason,
		request.Status.String(),
		request.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access request")
	}
	return nil
}

func (p *PostgreSQLAccessRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccessRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, reason, status, admin_notes, reviewed_by, reviewed_at, created_at
			  FROM access_requests WHERE id = $1`

	var request domain.AccessRequest
	var status string
	var adminNotes sql.NullString
	var reviewedBy uuid.NullUUID
	var reviewedAt sql.NullTime

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.UserID,
		&request.Reason,
		&status,
		&adminNotes,
		&reviewedBy,
		&reviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access request")
	}

	if err := applyReview(&request, status, adminNotes, reviewedAt); err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		request.ReviewedBy = &reviewedBy.UUID
	}
	return &request, nil
}

// CompleteReview writes a terminal status only if the stored request is still
// pending. Returns ErrRequestNotPending when another review got there first.
func (p *PostgreSQLAccessRequestRepository) CompleteReview(ctx context.Context, request *domain.AccessRequest) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE access_requests
			  SET status = $1, admin_notes = $2, reviewed_by = $3, reviewed_at = $4
			  WHERE id = $5 AND status = 'pending'`

	reviewedBy := uuid.NullUUID{}
	if request.ReviewedBy != nil {
		reviewedBy = uuid.NullUUID{UUID: *request.ReviewedBy, Valid: true}
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		request.Status.String(),
		request.AdminNotes,
		reviewedBy,
		request.ReviewedAt,
		request.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access request")
	}
	return requireTransition(result)
}

// List returns requests newest first, joined with the requesting and reviewing users.
func (p *PostgreSQLAccessRequestRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AccessRequestView, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT r.id, r.user_id, r.reason, r.status, r.admin_notes, r.reviewed_by, r.reviewed_at, r.created_at,
			  u.email, u.is_admin, rv.email
			  FROM access_requests r
			  JOIN users u ON u.id = r.user_id
			  LEFT JOIN users rv ON rv.id = r.reviewed_by
			  ORDER BY r.created_at DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access requests")
	}
	defer func() {
		_ = rows.Close()
	}()

	views := make([]*domain.AccessRequestView, 0)
	for rows.Next() {
		var view domain.AccessRequestView
		var status string
		var adminNotes sql.NullString
		var reviewedBy uuid.NullUUID
		var reviewedAt sql.NullTime
		var reviewerEmail sql.NullString

		err := rows.Scan(
			&view.ID,
			&view.UserID,
			&view.Reason,
			&status,
			&adminNotes,
			&reviewedBy,
			&reviewedAt,
			&view.CreatedAt,
			&view.UserEmail,
			&view.UserIsAdmin,
			&reviewerEmail,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access request")
		}

		if err := applyReview(&view.AccessRequest, status, adminNotes, reviewedAt); err != nil {
			return nil, err
		}
		if reviewedBy.Valid {
			view.ReviewedBy = &reviewedBy.UUID
		}
		if reviewerEmail.Valid {
			view.ReviewerEmail = &reviewerEmail.String
		}

		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access requests")
	}

	return views, nil
}

func applyReview(
	request *domain.AccessRequest,
	status string,
	adminNotes sql.NullString,
	reviewedAt sql.NullTime,
) error {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return apperrors.Wrap(err, "failed to decode access request")
	}
	request.Status = parsed
	if adminNotes.Valid {
		request.AdminNotes = &adminNotes.String
	}
	if reviewedAt.Valid {
		request.ReviewedAt = &reviewedAt.Time
	}
	return nil
}

func requireTransition(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrRequestNotPending
	}
	return nil
}
