// Package accounts holds the account repository: single-statement SQL
// against the users table.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/dmitrijs2005/gophsignup/internal/dbx"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
)

const accountColumns = `id, username, phone, email, password, invitation_code,
		 coalesce(verified, false), verification_code, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores a new account and fills in its id.
func (r *PostgresRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO users (username, phone, email, password, invitation_code, verification_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.Phone, account.Email, account.PasswordHash,
		account.InvitationCode, account.VerificationCode,
		account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return account, nil
}

// FindByPhone returns every account registered with phone; normally zero or one.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) ([]*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE phone = $1
		 `

	return r.queryAccounts(ctx, query, phone)
}

// UpdateVerification marks the unverified account matching email and code
// as verified and returns the updated rows. An empty result means no match.
func (r *PostgresRepository) UpdateVerification(ctx context.Context, email, code string, now time.Time) ([]*models.Account, error) {
	query :=
		`UPDATE users SET verified = true, updated_at = $1
		 WHERE verification_code = $2 AND email = $3 AND verified = false
		 RETURNING ` + accountColumns

	return r.queryAccounts(ctx, query, now, code, email)
}

// ReissueVerificationCode replaces the verification code of the unverified
// account registered with email and returns the updated rows.
func (r *PostgresRepository) ReissueVerificationCode(ctx context.Context, email, code string, now time.Time) ([]*models.Account, error) {
	query :=
		`UPDATE users SET verification_code = $1, updated_at = $2
		 WHERE email = $3 AND verified = false
		 RETURNING ` + accountColumns

	return r.queryAccounts(ctx, query, code, now, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1
		 `

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return account, nil
}

func (r *PostgresRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]*models.Account, 0, 1)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*models.Account, error) {
	a := &models.Account{}
	err := s.Scan(&a.ID, &a.Username, &a.Phone, &a.Email, &a.PasswordHash, &a.InvitationCode,
		&a.Verified, &a.VerificationCode, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
