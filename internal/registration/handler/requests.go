package handler

import (
	"strings"

	"signup/internal/registration/models"
	dErrors "signup/pkg/domain-errors"
)

// Coarse abuse bounds on raw field sizes. Password policy beyond the minimum
// length is the identity store's call.
const (
	maxUsernameBytes   = 64
	maxIdentifierBytes = 254
	maxPasswordBytes   = 1024
)

// RegisterRequest is the POST /register body.
type RegisterRequest struct {
	Username     string `json:"username"`
	EmailOrPhone string `json:"email_or_phone"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// Validate rejects oversized fields. Presence and format rules belong to the
// workflow so they apply however it is invoked; a request with a missing
// field is passed through so it reports missing_fields.
func (r *RegisterRequest) Validate() error {
	if r.missingRequired() {
		return nil
	}
	switch {
	case len(r.Username) > maxUsernameBytes:
		return dErrors.New(dErrors.CodeInvalidInput, "username is too long")
	case len(r.EmailOrPhone) > maxIdentifierBytes:
		return dErrors.New(dErrors.CodeInvalidInput, "email_or_phone is too long")
	case len(r.Password) > maxPasswordBytes:
		return dErrors.New(dErrors.CodeInvalidInput, "password is too long")
	}
	return nil
}

func (r *RegisterRequest) missingRequired() bool {
	return strings.TrimSpace(r.Username) == "" ||
		strings.TrimSpace(r.EmailOrPhone) == "" ||
		r.Password == ""
}

func (r *RegisterRequest) ToDomain() models.RegistrationRequest {
	return models.RegistrationRequest{
		Username:     r.Username,
		Identifier:   r.EmailOrPhone,
		Password:     r.Password,
		CaptchaToken: r.CaptchaToken,
	}
}
