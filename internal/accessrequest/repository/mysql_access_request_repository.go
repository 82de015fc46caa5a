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

// MySQLAccessRequestRepository implements AccessRequest persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAccessRequestRepository struct {
	db *sql.DB
}

// NewMySQLAccessRequestRepository creates a new MySQL AccessRequest repository.
func NewMySQLAccessRequestRepository(db *sql.DB) *MySQLAccessRequestRepository {
	return &MySQLAccessRequestRepository{db: db}
}

func (m *MySQLAccessRequestRepository) Create(ctx context.Context, request *domain.AccessRequest) error {
	querier := database.GetTx(ctx, m.db)

	id, err := request.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access request id")
	}
	userID, err := request.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access request user_id")
	}

	query := `INSERT INTO access_requests (id, user_id, reason, status, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, userID, request.Reason, request.Status.String(), request.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access request")
	}
	return nil
}

func (m *MySQLAccessRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccessRequest, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal access request id")
	}

	query := `SELECT id, user_id, reason, status, admin_notes, reviewed_by, reviewed_at, created_at
			  FROM access_requests WHERE id = ?`

	var request domain.AccessRequest
	var rawID, rawUserID, rawReviewedBy []byte
	var status string
	var adminNotes sql.NullString
	var reviewedAt sql.NullTime

	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&rawID,
		&rawUserID,
		&request.Reason,
		&status,
		&adminNotes,
		&rawReviewedBy,
		&reviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access request")
	}

	if err := decodeMySQLIDs(&request, rawID, rawUserID, rawReviewedBy); err != nil {
		return nil, err
	}
	if err := applyReview(&request, status, adminNotes, reviewedAt); err != nil {
		return nil, err
	}
	return &request, nil
}

// CompleteReview writes a terminal status only if the stored request is still
// pending. Returns ErrRequestNotPending when another review got there first.
func (m *MySQLAccessRequestRepository) CompleteReview(ctx context.Context, request *domain.AccessRequest) error {
	querier := database.GetTx(ctx, m.db)

	id, err := request.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access request id")
	}

	var reviewedBy []byte
	if request.ReviewedBy != nil {
		reviewedBy, err = request.ReviewedBy.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal access request reviewed_by")
		}
	}

	query := `UPDATE access_requests
			  SET status = ?, admin_notes = ?, reviewed_by = ?, reviewed_at = ?
			  WHERE id = ? AND status = 'pending'`

	result, err := querier.ExecContext(
		ctx,
		query,
		request.Status.String(),
		request.AdminNotes,
		reviewedBy,
		request.ReviewedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update access request")
	}
	return requireTransition(result)
}

// List returns requests newest first, joined with the requesting and reviewing users.
func (m *MySQLAccessRequestRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AccessRequestView, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT r.id, r.user_id, r.reason, r.status, r.admin_notes, r.reviewed_by, r.reviewed_at, r.created_at,
			  u.email, u.is_admin, rv.email
			  FROM access_requests r
			  JOIN users u ON u.id = r.user_id
			  LEFT JOIN users rv ON rv.id = r.reviewed_by
			  ORDER BY r.created_at DESC
			  LIMIT ? OFFSET ?`

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
		var rawID, rawUserID, rawReviewedBy []byte
		var status string
		var adminNotes sql.NullString
		var reviewedAt sql.NullTime
		var reviewerEmail sql.NullString

		err := rows.Scan(
			&rawID,
			&rawUserID,
			&view.Reason,
			&status,
			&adminNotes,
			&rawReviewedBy,
			&reviewedAt,
			&view.CreatedAt,
			&view.UserEmail,
			&view.UserIsAdmin,
			&reviewerEmail,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access request")
		}

		if err := decodeMySQLIDs(&view.AccessRequest, rawID, rawUserID, rawReviewedBy); err != nil {
			return nil, err
		}
		if err := applyReview(&view.AccessRequest, status, adminNotes, reviewedAt); err != nil {
			return nil, err
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

func decodeMySQLIDs(request *domain.AccessRequest, rawID, rawUserID, rawReviewedBy []byte) error {
	if err := request.ID.UnmarshalBinary(rawID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal access request id")
	}
	if err := request.UserID.UnmarshalBinary(rawUserID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal access request user_id")
	}
	if rawReviewedBy != nil {
		var reviewedBy uuid.UUID
		if err := reviewedBy.UnmarshalBinary(rawReviewedBy); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal access request reviewed_by")
		}
		request.ReviewedBy = &reviewedBy
	}
	return nil
}
