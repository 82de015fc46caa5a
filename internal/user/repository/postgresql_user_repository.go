// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/database"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
	"github.com/centrala/rainfall-gate/internal/user/domain"
)

const postgresUserColumns = `id, email, password_secret, current_credential, is_admin, created_at, last_used_at`

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (` + postgresUserColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.PasswordSecret,
		user.CurrentCredential,
		user.IsAdmin,
		user.CreatedAt,
		user.LastUsedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrEmailAlreadyRegistered
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresUserColumns + ` FROM users WHERE id = $1`
	return r.getOne(querier.QueryRowContext(ctx, query, id), "failed to get user by id")
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresUserColumns + ` FROM users WHERE email = $1`
	return r.getOne(querier.QueryRowContext(ctx, query, email), "failed to get user by email")
}

func (r *PostgreSQLUserRepository) getOne(row *sql.Row, msg string) (*domain.User, error) {
	user, err := scanPostgresUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, msg)
	}
	return user, nil
}

// UpdateLogin stores the state refreshed by a successful login.
func (r *PostgreSQLUserRepository) UpdateLogin(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET is_admin = $1, last_used_at = $2, current_credential = $3 WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, user.IsAdmin, user.LastUsedAt, user.CurrentCredential, user.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user login")
	}
	return requireOneRow(result)
}

// UpdateCredential replaces the current credential of a user
func (r *PostgreSQLUserRepository) UpdateCredential(ctx context.Context, id uuid.UUID, credential string) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `UPDATE users SET current_credential = $1 WHERE id = $2`, credential, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user credential")
	}
	return requireOneRow(result)
}

// Delete removes a user; access requests cascade.
func (r *PostgreSQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}
	return requireOneRow(result)
}

// List retrieves users newest first
func (r *PostgreSQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresUserColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanPostgresUser(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgresUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var credential sql.NullString
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordSecret,
		&credential,
		&user.IsAdmin,
		&user.CreatedAt,
		&lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	applyNullable(&user, credential, lastUsedAt)
	return &user, nil
}

func applyNullable(user *domain.User, credential sql.NullString, lastUsedAt sql.NullTime) {
	if credential.Valid {
		user.CurrentCredential = &credential.String
	}
	if lastUsedAt.Valid {
		user.LastUsedAt = &lastUsedAt.Time
	}
}

func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
