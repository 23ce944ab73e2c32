package services

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophsignup/internal/common"
)

// column sizes of the users table
const (
	maxUsernameLen       = 50
	maxPhoneLen          = 15
	maxEmailLen          = 100
	maxInvitationCodeLen = 50

	minPasswordLen = 6
	maxPasswordLen = 1024
)

// RegisterRequest carries the Register inputs. InvitationCode is optional
// and stored as is.
type RegisterRequest struct {
	Username       string
	Phone          string
	Email          string
	Password       string
	InvitationCode string
}

func (r RegisterRequest) validate() error {
	required := []struct{ name, value string }{
		{"username", r.Username},
		{"phone", r.Phone},
		{"email", r.Email},
		{"password", r.Password},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", common.ErrorValidation, f.name)
		}
	}

	bounded := []struct {
		name  string
		value string
		max   int
	}{
		{"username", r.Username, maxUsernameLen},
		{"phone", r.Phone, maxPhoneLen},
		{"email", r.Email, maxEmailLen},
		{"invitation code", r.InvitationCode, maxInvitationCodeLen},
	}
	for _, f := range bounded {
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Errorf("%w: %s must be at most %d characters", common.ErrorValidation, f.name, f.max)
		}
	}

	// a bare address only, display-name forms would bypass the unique email column
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}

	if n := len(r.Password); n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d to %d bytes long", common.ErrorValidation, minPasswordLen, maxPasswordLen)
	}

	return nil
}
