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

const mysqlUserColumns = `id, email, password_secret, current_credential, is_admin, created_at, last_used_at`

// MySQLUserRepository handles user persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO users (` + mysqlUserColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE id = ?`
	return r.getOne(querier.QueryRowContext(ctx, query, idBytes), "failed to get user by id")
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE email = ?`
	return r.getOne(querier.QueryRowContext(ctx, query, email), "failed to get user by email")
}

func (r *MySQLUserRepository) getOne(row *sql.Row, msg string) (*domain.User, error) {
	user, err := scanMySQLUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, msg)
	}
	return user, nil
}

// UpdateLogin stores the state refreshed by a successful login.
func (r *MySQLUserRepository) UpdateLogin(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE users SET is_admin = ?, last_used_at = ?, current_credential = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, user.IsAdmin, user.LastUsedAt, user.CurrentCredential, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user login")
	}
	return requireMatchedRow(ctx, querier, result, id)
}

// UpdateCredential replaces the current credential of a user
func (r *MySQLUserRepository) UpdateCredential(ctx context.Context, id uuid.UUID, credential string) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `UPDATE users SET current_credential = ? WHERE id = ?`, credential, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user credential")
	}
	return requireMatchedRow(ctx, querier, result, idBytes)
}

// Delete removes a user; access requests cascade.
func (r *MySQLUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}
	return requireOneRow(result)
}

// requireMatchedRow treats zero affected rows as not found only when the row
// is really absent. MySQL reports changed rows, so an update that writes the
// values already stored affects nothing.
func requireMatchedRow(ctx context.Context, querier database.Querier, result sql.Result, id []byte) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected > 0 {
		return nil
	}

	var one int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return apperrors.Wrap(err, "failed to check user existence")
	}
	return nil
}

// List retrieves users newest first
func (r *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanMySQLUser(rows)
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

func scanMySQLUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var id []byte
	var credential sql.NullString
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&id,
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

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	applyNullable(&user, credential, lastUsedAt)
	return &user, nil
}
