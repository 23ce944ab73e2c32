package models

import "time"

// Account is one row of the users table.
//
// PasswordHash holds the encoded password hash, never the password itself.
// Nullable columns are pointers.
type Account struct {
	ID               int64
	Username         string
	Phone            string
	Email            string
	PasswordHash     string
	InvitationCode   *string
	Verified         bool
	VerificationCode *string
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// State is the position of an account in the credential lifecycle.
type State string

const (
	StateUnregistered         State = "unregistered"
	StateRegisteredUnverified State = "registered_unverified"
	StateVerified             State = "verified"
)

// State reports the lifecycle state of a stored account. A nil account is
// unregistered.
func (a *Account) State() State {
	switch {
	case a == nil:
		return StateUnregistered
	case a.Verified:
		return StateVerified
	default:
		return StateRegisteredUnverified
	}
}
