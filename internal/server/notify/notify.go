// Package notify delivers verification codes to account holders through an
// out-of-band channel.
package notify

import (
	"context"

	"github.com/dmitrijs2005/gophsignup/internal/logging"
)

// VerificationMessage is what a Notifier delivers.
type VerificationMessage struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Code      string `json:"code"`
}

type Notifier interface {
	SendVerificationCode(ctx context.Context, msg VerificationMessage) error
	Close() error
}

// LogNotifier writes codes to the log. Used when no broker is configured.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "log_notifier")}
}

func (n *LogNotifier) SendVerificationCode(ctx context.Context, msg VerificationMessage) error {
	n.logger.Info(ctx, "verification code issued",
		"account_id", msg.AccountID, "email", msg.Email, "phone", msg.Phone, "code", msg.Code)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
