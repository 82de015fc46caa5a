package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestMeta is the request metadata attached to audit events. It never
// carries headers or cookies, so credential values cannot leak through it.
type RequestMeta struct {
	IP        string
	UserAgent string
	Path      string
	RequestID string
}

// AuditLog is a structured record of an authentication or authorization failure.
// Email and UserID are only set for failures on an authenticated principal.
type AuditLog struct {
	ID        uuid.UUID
	Event     AuditEventKind
	Reason    string
	IP        string
	UserAgent string
	Path      string
	RequestID string
	UserID    *uuid.UUID
	Email     string
	CreatedAt time.Time
}

// NewAuditLog creates an audit record for the given event and request.
func NewAuditLog(event AuditEventKind, reason string, meta RequestMeta, now time.Time) *AuditLog {
	return &AuditLog{
		ID:        uuid.Must(uuid.NewV7()),
		Event:     event,
		Reason:    reason,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Path:      meta.Path,
		RequestID: meta.RequestID,
		CreatedAt: now.UTC(),
	}
}

// WithPrincipal attaches the authenticated principal to the record.
func (a *AuditLog) WithPrincipal(identity Identity) *AuditLog {
	userID := identity.UserID
	a.UserID = &userID
	a.Email = identity.Email
	return a
}
