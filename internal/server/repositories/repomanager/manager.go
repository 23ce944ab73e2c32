package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophsignup/internal/dbx"
	"github.com/dmitrijs2005/gophsignup/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX (pool or transaction)
// and owns the schema initializer.
type RepositoryManager interface {
	// RunMigrations brings the schema up to date. It is idempotent and safe to
	// call any number of times; storage errors are returned unchanged.
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
