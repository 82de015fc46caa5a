package dto

import (
	"time"

	"github.com/centrala/rainfall-gate/internal/accessrequest/domain"
	"github.com/centrala/rainfall-gate/internal/accessrequest/usecase"
)

// SubmitResponse is returned when a user opens an access request. APIKey is the
// user's current credential and is null when none has been issued.
type SubmitResponse struct {
	APIKey    *string `json:"apiKey"`
	RequestID string  `json:"requestId"`
	Status    string  `json:"status"`
}

// ApproveResponse carries the credential minted by an approval.
type ApproveResponse struct {
	RequestID string `json:"requestId"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	APIKey    string `json:"apiKey"`
	Status    string `json:"status"`
}

// RejectResponse is returned by a rejection.
type RejectResponse struct {
	RequestID  string `json:"requestId"`
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

// AccessRequestResponse is the administrative view of a request.
type AccessRequestResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	UserEmail     string     `json:"userEmail"`
	UserIsAdmin   bool       `json:"userIsAdmin"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	AdminNotes    *string    `json:"adminNotes"`
	ReviewedBy    *string    `json:"reviewedBy"`
	ReviewerEmail *string    `json:"reviewerEmail"`
	ReviewedAt    *time.Time `json:"reviewedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ListAccessRequestsResponse wraps a page of requests.
type ListAccessRequestsResponse struct {
	Data []AccessRequestResponse `json:"data"`
}

// MapSubmitOutputToResponse converts the result of a submission.
func MapSubmitOutputToResponse(output *usecase.SubmitOutput) SubmitResponse {
	return SubmitResponse{
		APIKey:    output.APIKey,
		RequestID: output.Request.ID.String(),
		Status:    output.Request.Status.String(),
	}
}

// MapApproveOutputToResponse converts the result of an approval.
func MapApproveOutputToResponse(output *usecase.ApproveOutput) ApproveResponse {
	return ApproveResponse{
		RequestID: output.Request.ID.String(),
		UserID:    output.User.ID.String(),
		Email:     output.User.Email,
		APIKey:    output.Credential,
		Status:    output.Request.Status.String(),
	}
}

// MapRejectedToResponse converts a rejected request.
func MapRejectedToResponse(request *domain.AccessRequest) RejectResponse {
	var notes string
	if request.AdminNotes != nil {
		notes = *request.AdminNotes
	}
	return RejectResponse{
		RequestID:  request.ID.String(),
		Status:     request.Status.String(),
		AdminNotes: notes,
	}
}

// MapViewsToListResponse converts a page of request views.
func MapViewsToListResponse(views []*domain.AccessRequestView) ListAccessRequestsResponse {
	data := make([]AccessRequestResponse, 0, len(views))
	for _, view := range views {
		var reviewedBy *string
		if view.ReviewedBy != nil {
			id := view.ReviewedBy.String()
			reviewedBy = &id
		}
		data = append(data, AccessRequestResponse{
			ID:            view.ID.String(),
			UserID:        view.UserID.String(),
			UserEmail:     view.UserEmail,
			UserIsAdmin:   view.UserIsAdmin,
			Reason:        view.Reason,
			Status:        view.Status.String(),
			AdminNotes:    view.AdminNotes,
			ReviewedBy:    reviewedBy,
			ReviewerEmail: view.ReviewerEmail,
			ReviewedAt:    view.ReviewedAt,
			CreatedAt:     view.CreatedAt,
		})
	}
	return ListAccessRequestsResponse{Data: data}
}
