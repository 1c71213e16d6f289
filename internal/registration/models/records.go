package models

import "time"

// Credential is what the identity store needs to create an account. Exactly
// one of Email and Phone is set.
type Credential struct {
	Email    string
	Phone    string
	Password string
}

// NewCredential places the identifier in the field matching its kind.
func NewCredential(identifier Identifier, password string) Credential {
	c := Credential{Password: password}
	if identifier.IsEmail() {
		c.Email = identifier.Value
	} else {
		c.Phone = identifier.Value
	}
	return c
}

// IdentityRecord is the identity store's view of an account. Password
// material never leaves the identity store.
type IdentityRecord struct {
	ID    string
	Email string
	Phone string
}

// ProfileRecord is the application's view of an account. ID always equals the
// IdentityRecord.ID it was created for.
type ProfileRecord struct {
	ID        string
	Username  string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// NewProfileRecord builds the profile row for a freshly created identity.
func NewProfileRecord(identity *IdentityRecord, username string, identifier Identifier, now time.Time) ProfileRecord {
	p := ProfileRecord{
		ID:        identity.ID,
		Username:  username,
		CreatedAt: now,
	}
	if identifier.IsEmail() {
		p.Email = identifier.Value
	} else {
		p.Phone = identifier.Value
	}
	return p
}

// Matches reports whether the profile collides with a username or identifier.
func (p ProfileRecord) Matches(username, identifier string) bool {
	return p.Username == username ||
		(p.Email != "" && p.Email == identifier) ||
		(p.Phone != "" && p.Phone == identifier)
}
