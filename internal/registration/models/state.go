package models

// State is the position of one registration attempt in the workflow.
//
//	Received -> Validated -> UniquenessChecked -> IdentityCreated -> ProfileInserted
//
// Failure exits: Rejected (validation, captcha, conflict), StoreError,
// Compensating -> CompensatedFailure | UncompensatedFailure.
type State string

const (
	StateReceived             State = "received"
	StateValidated            State = "validated"
	StateUniquenessChecked    State = "uniqueness_checked"
	StateIdentityCreated      State = "identity_created"
	StateProfileInserted      State = "profile_inserted"
	StateRejected             State = "rejected"
	StateStoreError           State = "store_error"
	StateCompensating         State = "compensating"
	StateCompensatedFailure   State = "compensated_failure"
	StateUncompensatedFailure State = "uncompensated_failure"
)

// IsTerminal reports whether no further transition can follow s.
func (s State) IsTerminal() bool {
	switch s {
	case StateProfileInserted, StateRejected, StateStoreError,
		StateCompensatedFailure, StateUncompensatedFailure:
		return true
	default:
		return false
	}
}

// RegistrationResult is returned for a successful registration.
type RegistrationResult struct {
	IdentityID string
	Username   string
	Identifier Identifier
	State      State
}
