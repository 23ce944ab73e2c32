// Package services contains application services for the gophsignup client.
// This file defines the account service: registration, login with a
// persisted session, verification and session housekeeping.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsignup/internal/client/client"
	"github.com/dmitrijs2005/gophsignup/internal/client/models"
	"github.com/dmitrijs2005/gophsignup/internal/client/repositories/session"
	"github.com/dmitrijs2005/gophsignup/internal/dbx"
)

// AccountService defines account operations for the CLI.
//
// Contract:
//   - Register: create an account; the server delivers a verification code.
//   - Login: authenticate by phone and password and persist the session.
//   - Verify / ResendVerificationCode: complete or restart verification.
//   - Me: fetch the logged-in account.
//   - RestoreSession: reuse a session saved by an earlier run.
//   - Logout: forget the session.
type AccountService interface {
	Register(ctx context.Context, in client.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, phone, password string) ([]*models.Account, error)
	Verify(ctx context.Context, email, code string) ([]*models.Account, error)
	ResendVerificationCode(ctx context.Context, email string) ([]*models.Account, error)
	Me(ctx context.Context) (*models.Account, error)
	RestoreSession(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
}

type accountService struct {
	client client.Client
	db     *sql.DB
}

// NewAccountService constructs an AccountService bound to the given API client and session DB.
func NewAccountService(c client.Client, db *sql.DB) AccountService {
	return &accountService{client: c, db: db}
}

func (a *accountService) sessionRepo(db dbx.DBTX) session.Repository {
	return session.NewSQLiteRepository(db)
}

func (a *accountService) Register(ctx context.Context, in client.RegisterInput) (*models.Account, error) {
	return a.client.Register(ctx, in)
}

// Login returns the matching accounts. On a match the access token and
// username are saved in a single transaction; no match leaves the stored
// session untouched.
func (a *accountService) Login(ctx context.Context, phone, password string) ([]*models.Account, error) {
	accounts, token, err := a.client.Login(ctx, phone, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if len(accounts) == 0 || token == "" {
		return accounts, nil
	}

	if err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.sessionRepo(tx)
		if err := repo.Set(ctx, session.KeyAccessToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, session.KeyUsername, accounts[0].Username)
	}); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	return accounts, nil
}

func (a *accountService) Verify(ctx context.Context, email, code string) ([]*models.Account, error) {
	return a.client.Verify(ctx, email, code)
}

func (a *accountService) ResendVerificationCode(ctx context.Context, email string) ([]*models.Account, error) {
	return a.client.ResendVerificationCode(ctx, email)
}

// Me fetches the logged-in account. A rejected token ends the saved session.
func (a *accountService) Me(ctx context.Context) (*models.Account, error) {
	account, err := a.client.Me(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		_ = a.Logout(ctx)
	}
	return account, err
}

// RestoreSession loads a saved access token into the client and returns the
// username it belongs to, or "" when there is no saved session.
func (a *accountService) RestoreSession(ctx context.Context) (string, error) {
	repo := a.sessionRepo(a.db)

	token, err := repo.Get(ctx, session.KeyAccessToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}

	username, err := repo.Get(ctx, session.KeyUsername)
	if err != nil {
		return "", err
	}

	a.client.SetAccessToken(token)
	return username, nil
}

// Logout forgets the access token locally and in the client.
func (a *accountService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	return a.sessionRepo(a.db).Clear(ctx)
}

// Close releases resources held by the underlying client.
func (a *accountService) Close(ctx context.Context) error {
	return a.client.Close()
}
