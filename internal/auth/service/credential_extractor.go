package service

import (
	"net/http"
	"strings"

	authDomain "github.com/centrala/rainfall-gate/internal/auth/domain"
)

const bearerPrefix = "bearer "

// BearerHeaderSource reads "Authorization: Bearer <token>". The scheme is case-insensitive.
type BearerHeaderSource struct{}

func (BearerHeaderSource) Name() authDomain.CredentialSourceName {
	return authDomain.SourceBearerHeader
}

func (BearerHeaderSource) Extract(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// CookieSource reads the credential from a named cookie.
type CookieSource struct {
	CookieName string
}

func (s CookieSource) Name() authDomain.CredentialSourceName {
	return authDomain.SourceCookie
}

func (s CookieSource) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// RawHeaderSource reads a raw token from a single header. Kept for older clients.
type RawHeaderSource struct {
	Header string
}

func (s RawHeaderSource) Name() authDomain.CredentialSourceName {
	return authDomain.SourceLegacyHeader
}

func (s RawHeaderSource) Extract(r *http.Request) (string, bool) {
	token := strings.TrimSpace(r.Header.Get(s.Header))
	return token, token != ""
}

// CredentialExtractor tries its sources in order and stops at the first hit.
type CredentialExtractor struct {
	sources []CredentialSource
}

// NewCredentialExtractor creates an extractor over the given sources, in precedence order.
func NewCredentialExtractor(sources ...CredentialSource) *CredentialExtractor {
	return &CredentialExtractor{sources: sources}
}

// DefaultCredentialSources returns bearer header, then cookie, then legacy header.
func DefaultCredentialSources(cookieName, legacyHeader string) []CredentialSource {
	return []CredentialSource{
		BearerHeaderSource{},
		CookieSource{CookieName: cookieName},
		RawHeaderSource{Header: legacyHeader},
	}
}

// Extract returns the first credential found and the name of the channel it came from.
// ok is false when no channel carries a credential.
func (e *CredentialExtractor) Extract(r *http.Request) (token string, source authDomain.CredentialSourceName, ok bool) {
	for _, s := range e.sources {
		if token, found := s.Extract(r); found {
			return token, s.Name(), true
		}
	}
	return "", "", false
}
