// Package usecase implements registration, login and user administration.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/user/domain"
)

// RegisterInput contains the data needed to create an account.
type RegisterInput struct {
	Email    string
	Password string
}

// RegisterOutput carries the new user and the credential minted for it.
type RegisterOutput struct {
	User       *domain.User
	Credential string
}

// LoginInput contains the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the refreshed user and the token issued for the session.
type LoginOutput struct {
	User  *domain.User
	Token string
}

// UserRepository defines user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrEmailAlreadyRegistered on a duplicate email.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail looks up a normalized email. Returns ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateLogin persists the admin flag, last-used time and current credential.
	UpdateLogin(ctx context.Context, user *domain.User) error

	// UpdateCredential replaces the user's current credential.
	UpdateCredential(ctx context.Context, id uuid.UUID, credential string) error

	// List returns users newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// Delete removes the user and, by cascade, its access requests.
	// Returns ErrUserNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UseCase defines user business operations.
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// Create is the administrative account creation. It behaves like Register:
	// the admin flag comes from the elevation rule, never from the caller.
	Create(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
