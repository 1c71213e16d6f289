package models

import (
	"strings"
	"unicode/utf8"

	dErrors "signup/pkg/domain-errors"
)

// MinPasswordLength is the shortest password accepted before the identity
// store applies its own policy.
const MinPasswordLength = 8

// RegistrationRequest is one sign-up attempt. It is never persisted.
type RegistrationRequest struct {
	Username     string
	Identifier   string
	Password     string
	CaptchaToken string
}

// Normalize trims surrounding whitespace from the username and identifier.
// Passwords are taken verbatim.
func (r *RegistrationRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.CaptchaToken = strings.TrimSpace(r.CaptchaToken)
}

// Validate applies the input rules in order and returns the parsed identifier.
// The first failing rule decides the error code.
func (r RegistrationRequest) Validate() (Identifier, error) {
	if r.Username == "" || r.Identifier == "" || r.Password == "" {
		return Identifier{}, dErrors.New(dErrors.CodeMissingFields, "username, email_or_phone and password are required")
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return Identifier{}, dErrors.New(dErrors.CodePasswordTooShort, "password must be at least 8 characters")
	}
	return ParseIdentifier(r.Identifier)
}
