package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/dmitrijs2005/gophsignup/internal/dbx"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
	"github.com/dmitrijs2005/gophsignup/internal/server/notify"
	"github.com/dmitrijs2005/gophsignup/internal/server/repositories/accounts"
)

// memAccounts is an in-memory users table with the same unique constraints.
type memAccounts struct {
	mu     sync.Mutex
	rows   []models.Account
	nextID int64
	err    error
}

func (m *memAccounts) Insert(_ context.Context, a *models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.Username == a.Username || r.Phone == a.Phone || r.Email == a.Email {
			return nil, fmt.Errorf("db error: %w", common.ErrorUniquenessViolation)
		}
	}
	m.nextID++
	a.ID = m.nextID
	m.rows = append(m.rows, *a)
	return a, nil
}

func (m *memAccounts) FindByPhone(_ context.Context, phone string) ([]*models.Account, error) {
	return m.filter(func(r *models.Account) bool { return r.Phone == phone }, nil)
}

func (m *memAccounts) UpdateVerification(_ context.Context, email, code string, now time.Time) ([]*models.Account, error) {
	return m.filter(
		func(r *models.Account) bool {
			return r.Email == email && !r.Verified && r.VerificationCode != nil && *r.VerificationCode == code
		},
		func(r *models.Account) {
			r.Verified = true
			r.UpdatedAt = &now
		})
}

func (m *memAccounts) ReissueVerificationCode(_ context.Context, email, code string, now time.Time) ([]*models.Account, error) {
	return m.filter(
		func(r *models.Account) bool { return r.Email == email && !r.Verified },
		func(r *models.Account) {
			c := code
			r.VerificationCode = &c
			r.UpdatedAt = &now
		})
}

func (m *memAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	found, err := m.filter(func(r *models.Account) bool { return r.ID == id }, nil)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, common.ErrorNotFound
	}
	return found[0], nil
}

func (m *memAccounts) filter(match func(*models.Account) bool, update func(*models.Account)) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Account{}
	for i := range m.rows {
		if !match(&m.rows[i]) {
			continue
		}
		if update != nil {
			update(&m.rows[i])
		}
		row := m.rows[i]
		out = append(out, &row)
	}
	return out, nil
}

func (m *memAccounts) get(id int64) *models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r
		}
	}
	return &models.Account{}
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fakeRepoManager struct {
	accounts      *memAccounts
	migrationRuns int
	migrationErr  error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{accounts: &memAccounts{}}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	f.migrationRuns++
	return f.migrationErr
}

func (f *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository { return f.accounts }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.VerificationMessage
	err  error
}

func (n *recordingNotifier) SendVerificationCode(_ context.Context, msg notify.VerificationMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) last() notify.VerificationMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return notify.VerificationMessage{}
	}
	return n.sent[len(n.sent)-1]
}

type fakeLimiter struct {
	allowErr error
	allowed  []string
	resets   []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string) error {
	l.allowed = append(l.allowed, key)
	return l.allowErr
}

func (l *fakeLimiter) Reset(_ context.Context, key string) error {
	l.resets = append(l.resets, key)
	return nil
}
