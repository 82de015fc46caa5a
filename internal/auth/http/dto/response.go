// Package dto provides data transfer objects for the authentication HTTP layer.
package dto

import (
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// IdentityResponse describes the authenticated principal of the current request.
type IdentityResponse struct {
	Email     string    `json:"email"`
	UserID    string    `json:"userId"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MapIdentityToResponse converts an Identity to its API response.
func MapIdentityToResponse(identity *authDomain.Identity) IdentityResponse {
	return IdentityResponse{
		Email:     identity.Email,
		UserID:    identity.UserID.String(),
		IsAdmin:   identity.IsAdmin,
		ExpiresAt: identity.ExpiresAt,
	}
}

// AuditLogResponse represents a security audit event in API responses.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Reason    string    `json:"reason"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Path      string    `json:"path"`
	RequestID string    `json:"requestId,omitempty"`
	UserID    *string   `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
func MapAuditLogToResponse(auditLog *authDomain.AuditLog) AuditLogResponse {
	var userID *string
	if auditLog.UserID != nil {
		id := auditLog.UserID.String()
		userID = &id
	}

	return AuditLogResponse{
		ID:        auditLog.ID.String(),
		Event:     string(auditLog.Event),
		Reason:    auditLog.Reason,
		IP:        auditLog.IP,
		UserAgent: auditLog.UserAgent,
		Path:      auditLog.Path,
		RequestID: auditLog.RequestID,
		UserID:    userID,
		Email:     auditLog.Email,
		CreatedAt: auditLog.CreatedAt,
	}
}

// ListAuditLogsResponse represents a paginated list of audit logs in API responses.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts a slice of domain audit logs to a list API response.
func MapAuditLogsToListResponse(auditLogs []*authDomain.AuditLog) ListAuditLogsResponse {
	auditLogResponses := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		auditLogResponses = append(auditLogResponses, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{
		Data: auditLogResponses,
	}
}
