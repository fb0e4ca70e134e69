package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	FindByEmail(ctx context.Context, email string) (*entity.Company, error)
	FindVerifiedByEmail(ctx context.Context, email string) (*entity.Company, error)
	FindUnverifiedByEmail(ctx context.Context, email string) (*entity.Company, error)
	FindByEmailAndOTP(ctx context.Context, email, otp string) (*entity.Company, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*entity.Company, error)
	MarkVerifiedWithOTP(ctx context.Context, id uuid.UUID, otp string) (bool, error)
	UpdateOTP(ctx context.Context, email, otp string, expiry time.Time) (bool, error)
	UpdateVerificationToken(ctx context.Context, email, token string) (bool, error)
	// WithinTx runs fn against a repository bound to one transaction.
	// The transaction commits only when fn returns nil.
	WithinTx(ctx context.Context, fn func(repo CompanyRepository) error) error
}

const companyColumns = `id, company_name, email, phone_number, address, password_hash,
		       verified, verification_token, otp, otp_expiry, created_at, updated_at`

type companyRepository struct {
	db   database.Querier
	pool database.PgxIface // nil when bound to a transaction
	log  *zap.Logger
}

func NewCompanyRepository(db database.PgxIface, log *zap.Logger) CompanyRepository {
	return &companyRepository{
		db:   db,
		pool: db,
		log:  log.With(zap.String("repository", "company")),
	}
}

func (r *companyRepository) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, company_name, email, phone_number, address, password_hash,
		                       verified, verification_token, otp, otp_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		company.ID,
		company.CompanyName,
		company.Email,
		company.PhoneNumber,
		company.Address,
		company.PasswordHash,
		company.Verified,
		company.VerificationToken,
		company.OTP,
		company.OTPExpiry,
		company.CreatedAt,
		company.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create company",
			zap.Error(err),
			zap.String("email", company.Email),
		)
		return fmt.Errorf("create company %s: %w", company.Email, err)
	}

	return nil
}

func (r *companyRepository) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1`
	return r.findOne(ctx, "find company by email", query, email)
}

func (r *companyRepository) FindVerifiedByEmail(ctx context.Context, email string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1 AND verified = TRUE`
	return r.findOne(ctx, "find verified company", query, email)
}

func (r *companyRepository) FindUnverifiedByEmail(ctx context.Context, email string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1 AND verified = FALSE`
	return r.findOne(ctx, "find unverified company", query, email)
}

func (r *companyRepository) FindByEmailAndOTP(ctx context.Context, email, otp string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE email = $1 AND otp = $2`
	return r.findOne(ctx, "find company by otp", query, email, otp)
}

// ConsumeVerificationToken verifies the row holding token and clears the
// token in one statement, so a token can succeed at most once.
func (r *companyRepository) ConsumeVerificationToken(ctx context.Context, token string) (*entity.Company, error) {
	query := `
		UPDATE companies
		SET verified = TRUE, verification_token = NULL, updated_at = NOW()
		WHERE verification_token = $1
		RETURNING ` + companyColumns

	return r.findOne(ctx, "consume verification token", query, token)
}

// MarkVerifiedWithOTP flips verified and clears the OTP, but only while the
// stored code still equals otp. It reports false when another request got there first.
func (r *companyRepository) MarkVerifiedWithOTP(ctx context.Context, id uuid.UUID, otp string) (bool, error) {
	query := `
		UPDATE companies
		SET verified = TRUE, otp = NULL, otp_expiry = NULL, updated_at = NOW()
		WHERE id = $1 AND otp = $2
	`

	result, err := r.db.Exec(ctx, query, id, otp)
	if err != nil {
		r.log.Error("Failed to mark company verified",
			zap.Error(err),
			zap.String("company_id", id.String()),
		)
		return false, fmt.Errorf("mark company %s verified: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *companyRepository) UpdateOTP(ctx context.Context, email, otp string, expiry time.Time) (bool, error) {
	query := `
		UPDATE companies
		SET otp = $2, otp_expiry = $3, updated_at = NOW()
		WHERE email = $1 AND verified = FALSE
	`

	result, err := r.db.Exec(ctx, query, email, otp, expiry)
	if err != nil {
		r.log.Error("Failed to update OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return false, fmt.Errorf("update otp for %s: %w", email, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *companyRepository) UpdateVerificationToken(ctx context.Context, email, token string) (bool, error) {
	query := `
		UPDATE companies
		SET verification_token = $2, updated_at = NOW()
		WHERE email = $1 AND verified = FALSE
	`

	result, err := r.db.Exec(ctx, query, email, token)
	if err != nil {
		r.log.Error("Failed to update verification token",
			zap.Error(err),
			zap.String("email", email),
		)
		return false, fmt.Errorf("update verification token for %s: %w", email, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *companyRepository) WithinTx(ctx context.Context, fn func(repo CompanyRepository) error) (err error) {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(&companyRepository{db: tx, log: r.log}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *companyRepository) findOne(ctx context.Context, op, query string, args ...any) (*entity.Company, error) {
	var c entity.Company
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.CompanyName,
		&c.Email,
		&c.PhoneNumber,
		&c.Address,
		&c.PasswordHash,
		&c.Verified,
		&c.VerificationToken,
		&c.OTP,
		&c.OTPExpiry,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}
