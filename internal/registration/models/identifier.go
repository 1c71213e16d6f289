package models

import (
	"regexp"

	dErrors "signup/pkg/domain-errors"
)

// IdentifierKind tells which contact channel an identifier belongs to.
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

var (
	// local@domain.tld: exactly one @ and at least one dot after it.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// E.164-like: optional +, leading 1-9, 2 to 15 digits in total.
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Identifier is the email address or phone number a user registers with.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ParseIdentifier classifies s as an email or phone number.
func ParseIdentifier(s string) (Identifier, error) {
	switch {
	case emailPattern.MatchString(s):
		return Identifier{Kind: IdentifierEmail, Value: s}, nil
	case phonePattern.MatchString(s):
		return Identifier{Kind: IdentifierPhone, Value: s}, nil
	default:
		return Identifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "email_or_phone must be a valid email address or phone number")
	}
}

func (i Identifier) IsEmail() bool { return i.Kind == IdentifierEmail }

func (i Identifier) IsPhone() bool { return i.Kind == IdentifierPhone }

func (i Identifier) String() string { return i.Value }
