package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/server/models"
)

// Repository is the storage boundary for the users table. Implementations
// do not pre-check uniqueness; the storage constraint is the single source
// of truth and surfaces as common.ErrorUniquenessViolation.
type Repository interface {
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByPhone(ctx context.Context, phone string) ([]*models.Account, error)
	UpdateVerification(ctx context.Context, email, code string, now time.Time) ([]*models.Account, error)
	ReissueVerificationCode(ctx context.Context, email, code string, now time.Time) ([]*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}
