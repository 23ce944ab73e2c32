// Package services contains server-side business logic. This file implements
// AccountService, the credential lifecycle: registration with verification
// code issuance, login, and verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/dmitrijs2005/gophsignup/internal/cryptox"
	"github.com/dmitrijs2005/gophsignup/internal/dbx"
	"github.com/dmitrijs2005/gophsignup/internal/logging"
	"github.com/dmitrijs2005/gophsignup/internal/server/auth"
	"github.com/dmitrijs2005/gophsignup/internal/server/config"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
	"github.com/dmitrijs2005/gophsignup/internal/server/notify"
	"github.com/dmitrijs2005/gophsignup/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophsignup/internal/timex"
)

// AttemptLimiter bounds repeated Login / Verify / Resend attempts per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// LoginResult is the outcome of Login. An empty Accounts slice is the
// regular "no match" answer; AccessToken is set only when something matched.
type LoginResult struct {
	Accounts    []*models.Account
	AccessToken string
}

// AccountService provides the lifecycle operations:
// - Register: create an unverified account and deliver its verification code
// - Login: match phone and password
// - Verify: flip an account to verified with the delivered code
type AccountService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      cryptox.PasswordHasher
	notifier                    notify.Notifier
	limiter                     AttemptLimiter
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	ensureSchemaOnRegister      bool
	now                         func() time.Time
	generateCode                func() (string, error)

	dummyOnce sync.Once
	dummyHash string
}

type Option func(*AccountService)

func WithHasher(h cryptox.PasswordHasher) Option { return func(s *AccountService) { s.hasher = h } }

func WithNotifier(n notify.Notifier) Option { return func(s *AccountService) { s.notifier = n } }

func WithLimiter(l AttemptLimiter) Option { return func(s *AccountService) { s.limiter = l } }

func WithLogger(l logging.Logger) Option { return func(s *AccountService) { s.logger = l } }

// WithClock replaces the NPT wall clock used for created_at / updated_at.
func WithClock(now func() time.Time) Option { return func(s *AccountService) { s.now = now } }

func WithCodeGenerator(g func() (string, error)) Option {
	return func(s *AccountService) { s.generateCode = g }
}

// NewAccountService constructs an AccountService using repositories and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *AccountService {
	s := &AccountService{
		db:                          db,
		repomanager:                 m,
		hasher:                      cryptox.NewArgon2Hasher(cryptox.DefaultParams),
		logger:                      logging.Nop(),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		ensureSchemaOnRegister:      cfg.EnsureSchemaOnRegister,
		now:                         timex.NowNPT,
		generateCode: func() (string, error) {
			return common.GenerateNumericCode(common.VerificationCodeLength)
		},
	}
	for _, o := range opts {
		o(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger)
	}
	s.logger = s.logger.With("module", "account_service")
	return s
}

// Register creates an unverified account and delivers a fresh verification
// code. Insert and delivery share one transaction, so an account is never
// left behind with a code nobody received. Uniqueness is left to the
// storage constraint: a taken username, phone or email yields
// common.ErrorUniquenessViolation.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*models.Account, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if s.ensureSchemaOnRegister {
		if err := s.repomanager.RunMigrations(ctx, s.db); err != nil {
			return nil, fmt.Errorf("error ensuring schema: %w", err)
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("error generating verification code: %w", err)
	}

	now := s.now()
	account := &models.Account{
		Username:         req.Username,
		Phone:            req.Phone,
		Email:            req.Email,
		PasswordHash:     hash,
		InvitationCode:   optional(req.InvitationCode),
		VerificationCode: &code,
		CreatedAt:        &now,
		UpdatedAt:        &now,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Accounts(tx).Insert(ctx, account); err != nil {
			return fmt.Errorf("error creating account: %w", err)
		}
		return s.deliverCode(ctx, account, code)
	}); err != nil {
		s.logger.Warn(ctx, "registration failed", "username", req.Username, "error", err)
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID, "username", account.Username)
	return account, nil
}

// Login returns the accounts registered with phone whose stored hash matches
// password. No match is an empty result, not an error.
func (s *AccountService) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	if phone == "" || password == "" {
		return nil, fmt.Errorf("%w: phone and password are required", common.ErrorValidation)
	}
	if err := s.allow(ctx, "login:"+phone); err != nil {
		return nil, err
	}

	candidates, err := s.repomanager.Accounts(s.db).FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("error searching account: %w", err)
	}

	if len(candidates) == 0 {
		// same cost as a real comparison so timing does not reveal the phone is unknown
		_, _ = s.hasher.Verify(password, s.dummyPasswordHash())
	}

	matched := make([]*models.Account, 0, len(candidates))
	for _, a := range candidates {
		ok, err := s.hasher.Verify(password, a.PasswordHash)
		if err != nil {
			s.logger.Error(ctx, "stored password hash is unreadable", "account_id", a.ID, "error", err)
			continue
		}
		if ok {
			matched = append(matched, a)
		}
	}

	result := &LoginResult{Accounts: matched}
	if len(matched) == 0 {
		return result, nil
	}

	result.AccessToken, err = auth.GenerateToken(matched[0].ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	s.reset(ctx, "login:"+phone)

	return result, nil
}

// Verify marks the unverified account with this email and code as verified
// and returns it. Wrong codes, unknown emails and already verified accounts
// all give an empty result.
func (s *AccountService) Verify(ctx context.Context, email, code string) ([]*models.Account, error) {
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and code are required", common.ErrorValidation)
	}
	if err := s.allow(ctx, "verify:"+email); err != nil {
		return nil, err
	}

	updated, err := s.repomanager.Accounts(s.db).UpdateVerification(ctx, email, code, s.now())
	if err != nil {
		return nil, fmt.Errorf("error verifying account: %w", err)
	}

	if len(updated) > 0 {
		s.reset(ctx, "verify:"+email)
		s.logger.Info(ctx, "account verified", "account_id", updated[0].ID)
	}
	return updated, nil
}

// ResendVerificationCode replaces the code of the unverified account with
// this email and delivers the new one. Empty result: nothing to resend.
func (s *AccountService) ResendVerificationCode(ctx context.Context, email string) ([]*models.Account, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if err := s.allow(ctx, "resend:"+email); err != nil {
		return nil, err
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("error generating verification code: %w", err)
	}

	var updated []*models.Account
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Accounts(tx).ReissueVerificationCode(ctx, email, code, s.now())
		if err != nil {
			return fmt.Errorf("error reissuing verification code: %w", err)
		}
		for _, a := range updated {
			if err := s.deliverCode(ctx, a, code); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetAccount returns the account with id, or common.ErrorNotFound.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	a, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return a, nil
}

func (s *AccountService) deliverCode(ctx context.Context, a *models.Account, code string) error {
	err := s.notifier.SendVerificationCode(ctx, notify.VerificationMessage{
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Phone:     a.Phone,
		Code:      code,
	})
	if err != nil {
		return fmt.Errorf("error delivering verification code: %w", err)
	}
	return nil
}

// allow consults the limiter. A limiter outage is logged and the attempt
// let through; only an exhausted budget stops the request.
func (s *AccountService) allow(ctx context.Context, key string) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.Allow(ctx, key)
	if errors.Is(err, common.ErrorRateLimited) {
		s.logger.Warn(ctx, "attempt limit reached", "key", key)
		return err
	}
	if err != nil {
		s.logger.Error(ctx, "attempt limiter unavailable", "error", err)
	}
	return nil
}

func (s *AccountService) reset(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Error(ctx, "attempt limiter reset failed", "error", err)
	}
}

func (s *AccountService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(string(common.GenerateRandByteArray(16)))
	})
	return s.dummyHash
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
