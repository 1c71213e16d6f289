// Package captcha is the extension point for bot checks on registration.
// No vendor integration ships here; deployments plug in their own Verifier.
package captcha

import (
	"context"
)

// Result is the outcome of a verification.
type Result int

const (
	Verified Result = iota
	Rejected
	Unavailable
)

func (r Result) String() string {
	switch r {
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "unavailable"
	}
}

// Verifier checks a client-supplied captcha token. Implementations return
// Unavailable (with or without an error) when the vendor cannot be reached.
type Verifier interface {
	Verify(ctx context.Context, token string) (Result, error)
}

// Disabled accepts every request. It is the default.
type Disabled struct{}

func (Disabled) Verify(context.Context, string) (Result, error) {
	return Verified, nil
}

// RequireToken rejects requests without a token but does not check it
// against any vendor.
type RequireToken struct{}

func (RequireToken) Verify(_ context.Context, token string) (Result, error) {
	if token == "" {
		return Rejected, nil
	}
	return Verified, nil
}

// VerifierFunc adapts a function to a Verifier.
type VerifierFunc func(ctx context.Context, token string) (Result, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (Result, error) {
	return f(ctx, token)
}
