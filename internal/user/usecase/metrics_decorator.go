package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/metrics"
	"github.com/centrala/rainfall-gate/internal/user/domain"
)

const metricsDomain = "auth"

type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *userUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	start := time.Now()
	output, err := u.next.Register(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, "register", start, err)
	return output, err
}

func (u *userUseCaseWithMetrics) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	start := time.Now()
	output, err := u.next.Login(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, "login", start, err)
	return output, err
}

func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.next.GetByID(ctx, id)
}

func (u *userUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	start := time.Now()
	users, err := u.next.List(ctx, offset, limit)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_list", start, err)
	return users, err
}

func (u *userUseCaseWithMetrics) Create(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	start := time.Now()
	output, err := u.next.Create(ctx, input)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_create", start, err)
	return output, err
}

func (u *userUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := u.next.Delete(ctx, id)
	metrics.Observe(ctx, u.metrics, metricsDomain, "user_delete", start, err)
	return err
}
