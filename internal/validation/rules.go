// Package validation provides custom validation rules for the application.
package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/centrala/rainfall-gate/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// EmailAddress accepts any address with a local part and a domain separated by '@'.
// Deliverability is not checked.
var EmailAddress = validation.NewStringRuleWithError(
	func(s string) bool {
		at := strings.Index(s, "@")
		return at > 0 && at < len(s)-1
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// PasswordLength validates that a password has at least MinLength characters.
type PasswordLength struct {
	MinLength int
}

// Validate implements validation.Rule.
func (p PasswordLength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_type", "password must be a string")
	}
	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}
	return nil
}

// MinTrimmedLength returns a rule requiring at least n characters once
// surrounding whitespace is removed.
func MinTrimmedLength(n int) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			return utf8.RuneCountInString(strings.TrimSpace(s)) >= n
		},
		validation.NewError(
			"validation_min_trimmed_length",
			"must be at least "+strconv.Itoa(n)+" characters",
		),
	)
}
