package identity

import (
	"fmt"
)

// Error describes a failed identity store call. Kind is one of the
// pkg/platform/sentinel errors so callers can branch with errors.Is.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("identity store %s: %v", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// ClientMessage is the provider's own explanation, safe to pass to the user
// when the store rejected the request.
func (e *Error) ClientMessage() string {
	return e.Message
}
