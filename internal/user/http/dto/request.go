// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	appValidation "github.com/centrala/rainfall-gate/internal/validation"
)

// CredentialsRequest is the body of both registration and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate trims the email, then checks that both fields are present and the
// email is well formed. Password length is enforced by the use case.
func (r *CredentialsRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)

	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.EmailAddress,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}
