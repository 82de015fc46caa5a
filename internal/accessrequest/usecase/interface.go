// Package usecase implements the access request workflow: self-service submission
// and administrative approval or rejection.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	userDomain "github.com/centrala/rainfall-gate/internal/user/domain"
)

// AccessRequestRepository defines access request persistence.
type AccessRequestRepository interface {
	Create(ctx context.Context, request *domain.AccessRequest) error

	// GetByID returns ErrRequestNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AccessRequest, error)

	// CompleteReview persists a terminal status only if the stored request is
	// still pending, returning ErrRequestNotPending otherwise.
	CompleteReview(ctx context.Context, request *domain.AccessRequest) error

	List(ctx context.Context, offset, limit int) ([]*domain.AccessRequestView, error)
}

// UserStore is the part of user persistence the workflow writes through.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	UpdateCredential(ctx context.Context, id uuid.UUID, credential string) error
}

// SubmitOutput carries the opened request and the user's current credential, if any.
type SubmitOutput struct {
	Request *domain.AccessRequest
	APIKey  *string
}

// ApproveOutput carries the approved request, its user and the freshly minted credential.
type ApproveOutput struct {
	Request    *domain.AccessRequest
	User       *userDomain.User
	Credential string
}

// UseCase defines access request operations. Approve and Reject expect a caller
// that has already passed the admin gate.
type UseCase interface {
	Submit(ctx context.Context, requester authDomain.Identity, reason string) (*SubmitOutput, error)
	List(ctx context.Context, offset, limit int) ([]*domain.AccessRequestView, error)
	Approve(ctx context.Context, requestID uuid.UUID, reviewer authDomain.Identity, notes string) (*ApproveOutput, error)
	Reject(ctx context.Context, requestID uuid.UUID, reviewer authDomain.Identity, reason string) (*domain.AccessRequest, error)
}
