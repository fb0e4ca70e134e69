package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var companyRowColumns = []string{
	"id", "company_name", "email", "phone_number", "address", "password_hash",
	"verified", "verification_token", "otp", "otp_expiry", "created_at", "updated_at",
}

// sqlPattern matches the fragments in order, whatever whitespace sits
// between them.
func sqlPattern(fragments ...string) string {
	quoted := make([]string, len(fragments))
	for i, f := range fragments {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return "(?s)" + strings.Join(quoted, ".*")
}

func newMockCompanyRepo(t *testing.T) (CompanyRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewCompanyRepository(mock, zap.NewNop()), mock
}

func TestConsumeVerificationToken_SucceedsOnce(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	id := uuid.New()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	consume := sqlPattern(
		"UPDATE companies",
		"SET verified = TRUE, verification_token = NULL",
		"WHERE verification_token = $1",
		"RETURNING id, company_name",
	)

	mock.ExpectQuery(consume).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows(companyRowColumns).AddRow(
			id, "Acme", "a@x.com", "555", "1 Rd", "hash",
			true, nil, nil, nil, now, now,
		))
	mock.ExpectQuery(consume).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows(companyRowColumns))

	company, err := repo.ConsumeVerificationToken(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, company)
	assert.Equal(t, id, company.ID)
	assert.True(t, company.Verified)
	assert.Nil(t, company.VerificationToken)

	company, err = repo.ConsumeVerificationToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, company)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkVerifiedWithOTP_RequiresMatchingCode(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	id := uuid.New()
	markVerified := sqlPattern(
		"SET verified = TRUE, otp = NULL, otp_expiry = NULL",
		"WHERE id = $1 AND otp = $2",
	)

	mock.ExpectExec(markVerified).
		WithArgs(id, "123456").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(markVerified).
		WithArgs(id, "123456").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.MarkVerifiedWithOTP(ctx, id, "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	// Already consumed or replaced by a resend.
	ok, err = repo.MarkVerifiedWithOTP(ctx, id, "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOTP_OnlyUnverifiedRows(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	expiry := time.Date(2025, 3, 1, 10, 1, 0, 0, time.UTC)
	update := sqlPattern(
		"SET otp = $2, otp_expiry = $3",
		"WHERE email = $1 AND verified = FALSE",
	)

	mock.ExpectExec(update).
		WithArgs("a@x.com", "654321", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(update).
		WithArgs("done@x.com", "654321", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.UpdateOTP(ctx, "a@x.com", "654321", expiry)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateOTP(ctx, "done@x.com", "654321", expiry)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVerificationToken_OnlyUnverifiedRows(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)

	mock.ExpectExec(sqlPattern(
		"SET verification_token = $2",
		"WHERE email = $1 AND verified = FALSE",
	)).
		WithArgs("done@x.com", "tok2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.UpdateVerificationToken(context.Background(), "done@x.com", "tok2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	find := sqlPattern("FROM companies WHERE email = $1")

	mock.ExpectQuery(find).
		WithArgs("missing@x.com").
		WillReturnRows(pgxmock.NewRows(companyRowColumns))
	mock.ExpectQuery(find).
		WithArgs("a@x.com").
		WillReturnError(errors.New("connection reset"))

	company, err := repo.FindByEmail(ctx, "missing@x.com")
	require.NoError(t, err)
	assert.Nil(t, company)

	_, err = repo.FindByEmail(ctx, "a@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find company by email")

	require.NoError(t, mock.ExpectationsWereMet())
}

func insertArgs() []any {
	args := make([]any, 12)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestWithinTx_Commits(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(sqlPattern("INSERT INTO companies")).
		WithArgs(insertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.WithinTx(ctx, func(tx CompanyRepository) error {
		return tx.Create(ctx, newTestCompany())
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(sqlPattern("INSERT INTO companies")).
		WithArgs(insertArgs()...).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.WithinTx(ctx, func(tx CompanyRepository) error {
		return tx.Create(ctx, newTestCompany())
	})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackWhenCallbackFails(t *testing.T) {
	repo, mock := newMockCompanyRepo(t)
	ctx := context.Background()
	sendErr := errors.New("relay down")

	mock.ExpectBegin()
	mock.ExpectExec(sqlPattern("INSERT INTO companies")).
		WithArgs(insertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectRollback()

	err := repo.WithinTx(ctx, func(tx CompanyRepository) error {
		if err := tx.Create(ctx, newTestCompany()); err != nil {
			return err
		}
		return sendErr
	})
	require.ErrorIs(t, err, sendErr)

	require.NoError(t, mock.ExpectationsWereMet())
}

func newTestCompany() *entity.Company {
	otp := "123456"
	expiry := time.Date(2025, 3, 1, 10, 1, 0, 0, time.UTC)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	return &entity.Company{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		CompanyName:  "Acme",
		Email:        "a@x.com",
		PhoneNumber:  "555",
		Address:      "1 Rd",
		PasswordHash: "hash",
		OTP:          &otp,
		OTPExpiry:    &expiry,
	}
}
