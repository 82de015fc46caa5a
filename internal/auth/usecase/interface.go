// Package usecase implements the authentication and authorization gates and
// the recording of security audit events.
package usecase

import (
	"context"
	"net/http"
	"time"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

// AuditLogRepository persists audit events.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *authDomain.AuditLog) error

	// List returns audit logs newest first.
	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)

	// DeleteOlderThan removes logs created before olderThan. With dryRun it
	// only counts them.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// CredentialExtractor finds a candidate credential in a request.
type CredentialExtractor interface {
	Extract(r *http.Request) (token string, source authDomain.CredentialSourceName, ok bool)
}

// AuditLogUseCase records and maintains security audit events.
type AuditLogUseCase interface {
	// Record emits an audit event. The event always reaches the structured log;
	// it is also persisted when a repository is configured.
	Record(ctx context.Context, auditLog *authDomain.AuditLog) error

	List(ctx context.Context, offset, limit int) ([]*authDomain.AuditLog, error)

	// DeleteOlderThan removes persisted audit logs older than the given number of days.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}

// AuthGate turns an inbound request into an authenticated Identity.
type AuthGate interface {
	// Authenticate fails with ErrMissingCredential when no channel carries a
	// credential and with ErrInvalidCredential when verification fails. Both
	// failures emit an audit event before returning.
	Authenticate(ctx context.Context, r *http.Request, meta authDomain.RequestMeta) (authDomain.Identity, error)
}

// AdminGate refines an authenticated identity into an admin authorization decision.
type AdminGate interface {
	// Authorize fails with ErrUnauthenticated for a nil identity and with
	// ErrInsufficientPrivilege, after emitting an audit event, for a non-admin.
	Authorize(ctx context.Context, identity *authDomain.Identity, meta authDomain.RequestMeta) error
}
