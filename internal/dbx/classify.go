package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE Postgres reports for a broken unique constraint.
const uniqueViolation = "23505"

// Classify maps a driver error onto the sentinel errors of package common,
// keeping the original error in the chain. Unknown errors and context
// cancellation or deadline errors are returned as is.
//
//   - unique constraint violations -> common.ErrorUniquenessViolation
//   - connection failures          -> common.ErrorStorageUnavailable
func Classify(err error) error {
	if err == nil {
		return nil
	}
	// context.DeadlineExceeded also satisfies net.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolation:
			return fmt.Errorf("%w: %s: %w", common.ErrorUniquenessViolation, pgErr.ConstraintName, err)
		// class 08: connection exception, 57P0x: server shutting down
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P0"):
			return fmt.Errorf("%w: %w", common.ErrorStorageUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", common.ErrorStorageUnavailable, err)
	}

	return err
}
