// Package models holds the client-side view of server data.
package models

import "time"

type Account struct {
	ID             int64
	Username       string
	Phone          string
	Email          string
	InvitationCode string
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Status is a short human label for the verification state.
func (a *Account) Status() string {
	if a.Verified {
		return "verified"
	}
	return "unverified"
}
