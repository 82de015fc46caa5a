package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centrala/rainfall-gate/internal/user/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLUserRepository(db)
		user := newTestUser()
		id, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs(id, "alice@example.com", user.PasswordSecret, "header.payload.signature", false, user.CreatedAt, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLUserRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		assert.ErrorIs(t, repo.Create(ctx, newTestUser()), domain.ErrEmailAlreadyRegistered)
	})
}

func TestMySQLUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLUserRepository(db)
		expected := newTestUser()
		id, err := expected.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				id, expected.Email, expected.PasswordSecret, nil, true, expected.CreatedAt, nil,
			))

		user, err := repo.GetByID(ctx, expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, user.ID)
		assert.True(t, user.IsAdmin)
		assert.Nil(t, user.CurrentCredential)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewMySQLUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestMySQLUserRepository_UpdateCredential(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLUserRepository(db)
	userID := uuid.Must(uuid.NewV7())
	id, err := userID.MarshalBinary()
	require.NoError(t, err)

	const updateQuery = "UPDATE users SET current_credential = ? WHERE id = ?"
	const existsQuery = "SELECT 1 FROM users WHERE id = ?"

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("new.token.value", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateCredential(context.Background(), userID, "new.token.value")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_UnchangedValue", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("same.token.value", id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		err := repo.UpdateCredential(context.Background(), userID, "same.token.value")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("new.token.value", id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(existsQuery)).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		err := repo.UpdateCredential(context.Background(), userID, "new.token.value")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLUserRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLUserRepository(db)
	userID := uuid.Must(uuid.NewV7())
	id, err := userID.MarshalBinary()
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), userID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), userID), domain.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLUserRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewMySQLUserRepository(db)
	user := newTestUser()
	id, err := user.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id, user.Email, user.PasswordSecret, *user.CurrentCredential, false, user.CreatedAt, nil))

	users, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, user.ID, users[0].ID)
	require.NotNil(t, users[0].CurrentCredential)
	assert.NoError(t, mock.ExpectationsWereMet())
}
