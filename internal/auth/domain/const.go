// Package domain defines the identity, credential failure and audit models
// shared by token issuance, credential extraction and the authentication gates.
package domain

// AuditEventKind names a security-relevant decision.
type AuditEventKind string

const (
	// EventMissingCredential is emitted when a protected route receives no credential.
	EventMissingCredential AuditEventKind = "missing_credential"

	// EventInvalidCredential is emitted when a credential fails verification.
	EventInvalidCredential AuditEventKind = "invalid_credential"

	// EventInsufficientPrivilege is emitted when an authenticated non-admin hits an admin route.
	EventInsufficientPrivilege AuditEventKind = "insufficient_privilege"
)

// CredentialSourceName identifies the transport channel a credential was found in.
type CredentialSourceName string

const (
	SourceBearerHeader CredentialSourceName = "bearer_header"
	SourceCookie       CredentialSourceName = "cookie"
	SourceLegacyHeader CredentialSourceName = "legacy_header"
)
