// Package mocks provides testify mocks for the authentication layer.
package mocks

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(claims authDomain.Claims, ttl time.Duration) (string, error) {
	args := m.Called(claims, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (authDomain.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(authDomain.Identity), args.Error(1)
}

// MockPasswordService is a mock implementation of service.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) Compare(plain string, hashed string) bool {
	args := m.Called(plain, hashed)
	return args.Bool(0)
}

// MockAuditLogUseCase is a mock implementation of usecase.AuditLogUseCase.
type MockAuditLogUseCase struct {
	mock.Mock
}

func (m *MockAuditLogUseCase) Record(ctx context.Context, auditLog *authDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *MockAuditLogUseCase) List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func (m *MockAuditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditLogRepository is a mock implementation of usecase.AuditLogRepository.
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, auditLog *authDomain.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuthGate is a mock implementation of usecase.AuthGate.
type MockAuthGate struct {
	mock.Mock
}

func (m *MockAuthGate) Authenticate(
	ctx context.Context,
	r *http.Request,
	meta authDomain.RequestMeta,
) (authDomain.Identity, error) {
	args := m.Called(ctx, r, meta)
	return args.Get(0).(authDomain.Identity), args.Error(1)
}

// MockAdminGate is a mock implementation of usecase.AdminGate.
type MockAdminGate struct {
	mock.Mock
}

func (m *MockAdminGate) Authorize(
	ctx context.Context,
	identity *authDomain.Identity,
	meta authDomain.RequestMeta,
) error {
	args := m.Called(ctx, identity, meta)
	return args.Error(0)
}
