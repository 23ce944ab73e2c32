package client

import (
	"context"

	"github.com/dmitrijs2005/gophsignup/internal/client/models"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username       string
	Phone          string
	Email          string
	Password       string
	InvitationCode string
}

type Client interface {
	Close() error
	SetAccessToken(token string)
	Register(ctx context.Context, in RegisterInput) (*models.Account, error)
	Login(ctx context.Context, phone, password string) ([]*models.Account, string, error)
	Verify(ctx context.Context, email, code string) ([]*models.Account, error)
	ResendVerificationCode(ctx context.Context, email string) ([]*models.Account, error)
	Me(ctx context.Context) (*models.Account, error)
}
