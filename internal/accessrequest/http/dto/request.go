// Package dto provides data transfer objects for the access request HTTP layer.
package dto

// SubmitRequest is the optional body of a self-service access request.
type SubmitRequest struct {
	Reason string `json:"reason"`
}

// ApproveRequest is the optional body of an approval.
type ApproveRequest struct {
	AdminNotes string `json:"adminNotes"`
}

// RejectRequest is the body of a rejection. The reason is validated by the use case.
type RejectRequest struct {
	Reason string `json:"reason"`
}
