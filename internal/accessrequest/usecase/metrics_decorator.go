package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
	"github.com/centrala/rainfall-gate/internal/metrics"
)

const metricsDomain = "access_requests"

type accessRequestUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewAccessRequestUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewAccessRequestUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &accessRequestUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *accessRequestUseCaseWithMetrics) Submit(
	ctx context.Context,
	requester authDomain.Identity,
	reason string,
) (*SubmitOutput, error) {
	start := time.Now()
	output, err := a.next.Submit(ctx, requester, reason)
	metrics.Observe(ctx, a.metrics, metricsDomain, "submit", start, err)
	return output, err
}

func (a *accessRequestUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.AccessRequestView, error) {
	start := time.Now()
	views, err := a.next.List(ctx, offset, limit)
	metrics.Observe(ctx, a.metrics, metricsDomain, "list", start, err)
	return views, err
}

func (a *accessRequestUseCaseWithMetrics) Approve(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	notes string,
) (*ApproveOutput, error) {
	start := time.Now()
	output, err := a.next.Approve(ctx, requestID, reviewer, notes)
	metrics.Observe(ctx, a.metrics, metricsDomain, "approve", start, err)
	return output, err
}

func (a *accessRequestUseCaseWithMetrics) Reject(
	ctx context.Context,
	requestID uuid.UUID,
	reviewer authDomain.Identity,
	reason string,
) (*domain.AccessRequest, error) {
	start := time.Now()
	request, err := a.next.Reject(ctx, requestID, reviewer, reason)
	metrics.Observe(ctx, a.metrics, metricsDomain, "reject", start, err)
	return request, err
}
