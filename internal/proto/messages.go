// Package proto defines the gophsignup.AccountService wire contract.
//
// Messages travel as google.protobuf.Struct envelopes; the typed Go structs
// below are mapped to and from them through their JSON form.
package proto

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Account is the public view of a users row. Password hashes and
// verification codes never leave the server.
type Account struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	InvitationCode string `json:"invitation_code,omitempty"`
	Verified       bool   `json:"verified"`
	CreatedAt      string `json:"created_at,omitempty"` // RFC 3339
	UpdatedAt      string `json:"updated_at,omitempty"` // RFC 3339
}

type RegisterRequest struct {
	Username       string `json:"username"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	InvitationCode string `json:"invitation_code,omitempty"`
}

type RegisterResponse struct {
	Account *Account `json:"account"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResponse carries matching accounts; an empty list means no match.
type LoginResponse struct {
	Accounts    []*Account `json:"accounts"`
	AccessToken string     `json:"access_token,omitempty"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyResponse struct {
	Accounts []*Account `json:"accounts"`
}

type ResendVerificationCodeRequest struct {
	Email string `json:"email"`
}

type ResendVerificationCodeResponse struct {
	Accounts []*Account `json:"accounts"`
}

type MeRequest struct{}

type MeResponse struct {
	Account *Account `json:"account"`
}

// Encode converts a message into its Struct envelope.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return st, nil
}

// Decode fills v from a Struct envelope.
func Decode(st *structpb.Struct, v any) error {
	b, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
