// Package mocks provides testify mocks for the access request module.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	"github.com/centrala/rainfall-gate/internal/accessrequest/usecase"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// MockAccessRequestUseCase is a mock implementation of usecase.UseCase.
type MockAccessRequestUseCase struct {
	mock.Mock
}

func (m *MockAccessRequestUseCase) Submit(
	ctx context.Context,
	requester authDomain.Identity,
	reason string,
) (*usecase.SubmitOutput, error) {
	args := m.Called(ctx, requester, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmitOutput), args.Error(1)
}

func (m *MockAccessRequestUseCase) List(ctx context.Context, offset, limit int) ([]*domain.AccessRequestView, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccessRequestView), args.Error(1)
}

func (m *MockAccessRequestUseCase) Approve(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	notes string,
) (*usecase.ApproveOutput, error) {
	args := m.Called(ctx, requestID, reviewer, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ApproveOutput), args.Error(1)
}

func (m *MockAccessRequestUseCase) Reject(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	reason string,
) (*domain.AccessRequest, error) {
	args := m.Called(ctx, requestID, reviewer, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}
