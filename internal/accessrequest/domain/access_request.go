// Package domain defines the access request entity and its review state machine.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/centrala/rainfall-gate/internal/errors"
)

// DefaultApprovalNotes is stored when an administrator approves without notes.
const DefaultApprovalNotes = "Request approved by administrator"

// MinRejectionReasonLength is the minimum trimmed length of a rejection reason.
const MinRejectionReasonLength = 5

// AccessRequest is a user's ask for an API credential. ReviewedBy, ReviewedAt and
// AdminNotes are set if and only if the status is terminal.
type AccessRequest struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Reason     string
	Status     Status
	AdminNotes *string
	ReviewedBy *uuid.UUID
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// NewAccessRequest opens a pending request for a user.
func NewAccessRequest(userID uuid.UUID, reason string, now time.Time) *AccessRequest {
	return &AccessRequest{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Reason:    reason,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
	}
}

// Review applies an administrative decision. The request is left unchanged on error.
func (r *AccessRequest) Review(action Action, notes string, reviewer uuid.UUID, now time.Time) error {
	next, err := Transition(r.Status, action)
	if err != nil {
		return err
	}

	reviewedAt := now.UTC()
	r.Status = next
	r.AdminNotes = &notes
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &reviewedAt
	return nil
}

// AccessRequestView is an AccessRequest joined with the users it references, for listings.
type AccessRequestView struct {
	AccessRequest
	UserEmail     string
	UserIsAdmin   bool
	ReviewerEmail *string
}

// Domain-specific errors for access request operations.
var (
	// ErrRequestNotFound indicates the access request does not exist.
	ErrRequestNotFound = errors.Wrap(errors.ErrNotFound, "request not found")

	// ErrRequestNotPending indicates a review was attempted on a terminal request.
	ErrRequestNotPending = errors.Wrap(errors.ErrInvalidState, "request is not pending")

	// ErrRequestUserNotFound indicates the request references a user that no longer exists.
	ErrRequestUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrRejectionReasonTooShort indicates a missing or too short rejection reason.
	ErrRejectionReasonTooShort = errors.Wrap(
		errors.ErrInvalidInput,
		"rejection reason is required (minimum 5 characters)",
	)
)
