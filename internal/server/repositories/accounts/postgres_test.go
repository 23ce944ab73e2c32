package accounts

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophsignup/internal/common"
	"github.com/dmitrijs2005/gophsignup/internal/server/models"
	"github.com/dmitrijs2005/gophsignup/internal/timex"
	"github.com/jackc/pgx/v5/pgconn"
)

var accountRowColumns = []string{"id", "username", "phone", "email", "password", "invitation_code",
	"verified", "verification_code", "created_at", "updated_at"}

const (
	insertQuery   = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*phone,\s*email,\s*password,\s*invitation_code,\s*verification_code,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+id\s*$`
	findByPhone   = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+phone\s*=\s*\$1\s*$`
	updateVerify  = `(?s)^UPDATE\s+users\s+SET\s+verified\s*=\s*true,\s*updated_at\s*=\s*\$1\s+WHERE\s+verification_code\s*=\s*\$2\s+AND\s+email\s*=\s*\$3\s+AND\s+verified\s*=\s*false\s+RETURNING\s+id,`
	updateReissue = `(?s)^UPDATE\s+users\s+SET\s+verification_code\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+email\s*=\s*\$3\s+AND\s+verified\s*=\s*false\s+RETURNING\s+id,`
	getByID       = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 10, 15, 0, 0, timex.NPT)
}

func aliceRow(verified bool) []driver.Value {
	now := fixedNow()
	return []driver.Value{int64(1), "alice", "9800000001", "a@x.com", "$argon2id$hash", nil, verified, "123456", now, now}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := fixedNow()
	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "9800000001", "a@x.com", "$argon2id$hash", nil, "123456", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	a := &models.Account{
		Username: "alice", Phone: "9800000001", Email: "a@x.com", PasswordHash: "$argon2id$hash",
		VerificationCode: strPtr("123456"), CreatedAt: &now, UpdatedAt: &now,
	}
	got, err := repo.Insert(context.Background(), a)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got.ID != 42 || got.Username != "alice" || got.Verified {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestInsert_WithInvitationCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := fixedNow()
	mock.ExpectQuery(insertQuery).
		WithArgs("bob", "9800000002", "b@x.com", "h", "INV1", nil, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	_, err := repo.Insert(context.Background(), &models.Account{
		Username: "bob", Phone: "9800000002", Email: "b@x.com", PasswordHash: "h",
		InvitationCode: strPtr("INV1"), CreatedAt: &now, UpdatedAt: &now,
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
}

func TestInsert_UniquenessViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"})

	_, err := repo.Insert(context.Background(), &models.Account{Username: "bob2", Phone: "9800000002", Email: "c@x.com"})
	if !errors.Is(err, common.ErrorUniquenessViolation) {
		t.Fatalf("want ErrorUniquenessViolation, got %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Insert(context.Background(), &models.Account{Username: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestInsert_ConnectionLost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, err := repo.Insert(context.Background(), &models.Account{Username: "alice"})
	if !errors.Is(err, common.ErrorStorageUnavailable) {
		t.Fatalf("want ErrorStorageUnavailable, got %v", err)
	}
}

func TestFindByPhone_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findByPhone).
		WithArgs("9800000001").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(aliceRow(false)...))

	got, err := repo.FindByPhone(context.Background(), "9800000001")
	if err != nil {
		t.Fatalf("FindByPhone error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 account, got %d", len(got))
	}
	a := got[0]
	if a.ID != 1 || a.Email != "a@x.com" || a.Verified || a.InvitationCode != nil {
		t.Fatalf("unexpected account: %+v", a)
	}
	if a.VerificationCode == nil || *a.VerificationCode != "123456" {
		t.Fatalf("unexpected verification code: %v", a.VerificationCode)
	}
	if a.CreatedAt == nil || !a.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected created_at: %v", a.CreatedAt)
	}
}

func TestFindByPhone_NoMatchIsEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findByPhone).
		WithArgs("0000000000").
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	got, err := repo.FindByPhone(context.Background(), "0000000000")
	if err != nil {
		t.Fatalf("FindByPhone error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestFindByPhone_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findByPhone).WillReturnError(errors.New("db err"))

	_, err := repo.FindByPhone(context.Background(), "1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFindByPhone_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findByPhone).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(aliceRow(false)...).RowError(0, errors.New("row broke")))

	_, err := repo.FindByPhone(context.Background(), "9800000001")
	if err == nil || !regexp.MustCompile(`db error: .*row broke`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped row error, got %v", err)
	}
}

func TestUpdateVerification_Match(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := fixedNow()
	mock.ExpectQuery(updateVerify).
		WithArgs(now, "123456", "a@x.com").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(aliceRow(true)...))

	got, err := repo.UpdateVerification(context.Background(), "a@x.com", "123456", now)
	if err != nil {
		t.Fatalf("UpdateVerification error: %v", err)
	}
	if len(got) != 1 || !got[0].Verified {
		t.Fatalf("want one verified account, got %+v", got)
	}
}

func TestUpdateVerification_NoMatch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := fixedNow()
	mock.ExpectQuery(updateVerify).
		WithArgs(now, "000000", "a@x.com").
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	got, err := repo.UpdateVerification(context.Background(), "a@x.com", "000000", now)
	if err != nil {
		t.Fatalf("UpdateVerification error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want no rows, got %+v", got)
	}
}

func TestReissueVerificationCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := fixedNow()
	mock.ExpectQuery(updateReissue).
		WithArgs("654321", now, "a@x.com").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(aliceRow(false)...))

	got, err := repo.ReissueVerificationCode(context.Background(), "a@x.com", "654321", now)
	if err != nil {
		t.Fatalf("ReissueVerificationCode error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want one row, got %d", len(got))
	}
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByID).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(aliceRow(true)...))

	got, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Username != "alice" || !got.Verified {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByID).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByID).WithArgs(int64(9)).WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), 9)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
