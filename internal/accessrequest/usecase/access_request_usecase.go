package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	authService "github.com/centrala/rainfall-gate/internal/auth/service"
	"github.com/centrala/rainfall-gate/internal/database"
	apperrors "github.com/centrala/rainfall-gate/internal/errors"
	userDomain "github.com/centrala/rainfall-gate/internal/user/domain"
	appValidation "github.com/centrala/rainfall-gate/internal/validation"
)

const maxReasonLength = 1000

type accessRequestUseCase struct {
	txManager database.TxManager
	requests  AccessRequestRepository
	users     UserStore
	tokens    authService.TokenService
	elevation authDomain.AdminElevationRule
	now       func() time.Time
}

// NewAccessRequestUseCase creates a new access request UseCase.
func NewAccessRequestUseCase(
	txManager database.TxManager,
	requests AccessRequestRepository,
	users UserStore,
	tokens authService.TokenService,
	elevation authDomain.AdminElevationRule,
) UseCase {
	return &accessRequestUseCase{
		txManager: txManager,
		requests:  requests,
		users:     users,
		tokens:    tokens,
		elevation: elevation,
		now:       time.Now,
	}
}

// Submit opens a pending request for the authenticated user. No credential is minted.
func (uc *accessRequestUseCase) Submit(
	ctx context.Context,
	requester authDomain.Identity,
	reason string,
) (*SubmitOutput, error) {
	reason = strings.TrimSpace(reason)
	err := validation.Validate(reason,
		validation.Length(0, maxReasonLength).Error("reason must be at most 1000 characters"),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	user, err := uc.users.GetByID(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}

	request := domain.NewAccessRequest(user.ID, reason, uc.now())
	if err := uc.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	return &SubmitOutput{Request: request, APIKey: user.CurrentCredential}, nil
}

func (uc *accessRequestUseCase) List(ctx context.Context, offset, limit int) ([]*domain.AccessRequestView, error) {
	return uc.requests.List(ctx, offset, limit)
}

// Approve mints a credential for the request's user and records the decision.
// The status change and the credential write commit together; a concurrent review
// that already moved the request out of pending makes this call fail with
// ErrRequestNotPending and leaves the user's credential untouched.
func (uc *accessRequestUseCase) Approve(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	notes string,
) (*ApproveOutput, error) {
	request, err := uc.loadPending(ctx, requestID, domain.ActionApprove)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByID(ctx, request.UserID)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, domain.ErrRequestUserNotFound
		}
		return nil, err
	}

	credential, err := uc.tokens.Issue(user.Claims(uc.elevation.Elevate(user.Email)), 0)
	if err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = domain.DefaultApprovalNotes
	}
	if err := request.Review(domain.ActionApprove, notes, reviewer.UserID, uc.now()); err != nil {
		return nil, err
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.requests.CompleteReview(ctx, request); err != nil {
			return err
		}
		if err := uc.users.UpdateCredential(ctx, user.ID, credential); err != nil {
			if apperrors.Is(err, userDomain.ErrUserNotFound) {
				return domain.ErrRequestUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.CurrentCredential = &credential
	return &ApproveOutput{Request: request, User: user, Credential: credential}, nil
}

// Reject records a rejection with the given reason. No credential is touched.
func (uc *accessRequestUseCase) Reject(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	reason string,
) (*domain.AccessRequest, error) {
	err := validation.Validate(reason,
		validation.Required,
		appValidation.MinTrimmedLength(domain.MinRejectionReasonLength),
	)
	if err != nil {
		return nil, domain.ErrRejectionReasonTooShort
	}

	request, err := uc.loadPending(ctx, requestID, domain.ActionReject)
	if err != nil {
		return nil, err
	}

	if err := request.Review(domain.ActionReject, strings.TrimSpace(reason), reviewer.UserID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.requests.CompleteReview(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (uc *accessRequestUseCase) loadPending(
	ctx context.Context,
	requestID uuid.UUID,
	action domain.Action,
) (*domain.AccessRequest, error) {
	request, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := domain.Transition(request.Status, action); err != nil {
		return nil, err
	}
	return request, nil
}
