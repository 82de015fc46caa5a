package domain

import "strings"

// AdminElevationRule decides whether an email address carries administrative capability.
type AdminElevationRule interface {
	Elevate(email string) bool
}

// ElevationFunc adapts a plain function to AdminElevationRule.
type ElevationFunc func(email string) bool

// Elevate implements AdminElevationRule.
func (f ElevationFunc) Elevate(email string) bool {
	return f(email)
}

// SingleAdminEmailRule elevates exactly one designated address, compared
// case-insensitively and ignoring surrounding whitespace.
type SingleAdminEmailRule struct {
	address string
}

// NewSingleAdminEmailRule creates a rule for the given administrative address.
// An empty address elevates nobody.
func NewSingleAdminEmailRule(address string) *SingleAdminEmailRule {
	return &SingleAdminEmailRule{address: strings.TrimSpace(address)}
}

// Elevate implements AdminElevationRule.
func (r *SingleAdminEmailRule) Elevate(email string) bool {
	if r.address == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), r.address)
}
