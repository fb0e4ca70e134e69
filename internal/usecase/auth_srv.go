package usecase

import (
	"context"
	"errors"
	"fmt"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/internal/dto/request"
	"mining-chatbot/internal/dto/response"
	"mining-chatbot/pkg/database"
	"mining-chatbot/pkg/events"
	"mining-chatbot/pkg/mailer"
	"mining-chatbot/pkg/metrics"
	"mining-chatbot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error)
	VerifyToken(ctx context.Context, token string) error
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error
	VerifyCredentials(ctx context.Context, req *request.VerifyCredentialsRequest) error
	ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	GetUser(ctx context.Context, email string) (*response.UserResponse, error)
}

type authService struct {
	repo      repository.CompanyRepository
	mailer    mailer.Sender
	events    events.Publisher
	verifier  *Verifier
	verifyURL string
	log       *zap.Logger
}

func NewAuthService(
	repo repository.CompanyRepository,
	sender mailer.Sender,
	publisher events.Publisher,
	verifier *Verifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		mailer:    sender,
		events:    publisher,
		verifier:  verifier,
		verifyURL: config.App.BaseURL + "/verify/",
		log:       log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.RegisterResponse, error) {
	req.Normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email %s: %w", req.Email, err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password: %w", ErrInvalidInput, err)
	}
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.verifier.Now()
	company := &entity.Company{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		PhoneNumber:  req.FullPhoneNumber(),
		Address:      req.Address,
		PasswordHash: hashedPassword,
	}

	msg, err := s.issueArtifact(company)
	if err != nil {
		return nil, err
	}

	// The row only commits once the email is accepted by the relay.
	err = s.repo.WithinTx(ctx, func(tx repository.CompanyRepository) error {
		if err := tx.Create(ctx, company); err != nil {
			return err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("%w: send verification email: %w", ErrUpstreamFailure, err)
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error("Failed to register company", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}

	metrics.OTPIssued.WithLabelValues(string(s.verifier.Mode()), "register").Inc()
	s.publish(ctx, events.CompanyRegistered, company.Email, map[string]string{
		"company_id": company.ID.String(),
		"mode":       string(s.verifier.Mode()),
	})

	s.log.Info("Company registered",
		zap.String("company_id", company.ID.String()),
		zap.String("email", company.Email),
		zap.String("mode", string(s.verifier.Mode())),
	)

	return response.CompanyToRegisterResponse(company, string(s.verifier.Mode())), nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) error {
	if token == "" {
		metrics.Verifications.WithLabelValues("token", "invalid").Inc()
		return ErrInvalidToken
	}

	company, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("verify token: %w", err)
	}
	if company == nil {
		metrics.Verifications.WithLabelValues("token", "invalid").Inc()
		return ErrInvalidToken
	}

	s.verified(ctx, company, "token")
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, utils.FormatValidationErrors(errs))
	}

	company, err := s.repo.FindByEmailAndOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if company == nil {
		metrics.Verifications.WithLabelValues("otp", "invalid").Inc()
		return ErrInvalidOTP
	}

	if err := s.verifier.CheckOTP(company.OTP, company.OTPExpiry, req.OTP); err != nil {
		metrics.Verifications.WithLabelValues("otp", resultLabel(err)).Inc()
		return err
	}

	return s.consumeOTP(ctx, company, req.OTP, "otp")
}

// VerifyCredentials checks password and OTP together against an unverified
// row. Expiry is reported before a mismatch, and the password last.
func (s *authService) VerifyCredentials(ctx context.Context, req *request.VerifyCredentialsRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, utils.FormatValidationErrors(errs))
	}

	company, err := s.repo.FindUnverifiedByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}
	if company == nil {
		metrics.Verifications.WithLabelValues("credentials", "invalid").Inc()
		return ErrInvalidCredentials
	}

	if company.OTP != nil && s.verifier.Expired(company.OTPExpiry) {
		metrics.Verifications.WithLabelValues("credentials", "expired").Inc()
		return ErrOTPExpired
	}
	if err := s.verifier.CheckOTP(company.OTP, company.OTPExpiry, req.OTP); err != nil {
		metrics.Verifications.WithLabelValues("credentials", resultLabel(err)).Inc()
		return err
	}
	if !utils.CheckPasswordHash(req.Password, company.PasswordHash) {
		metrics.Verifications.WithLabelValues("credentials", "invalid").Inc()
		return ErrInvalidCredentials
	}

	return s.consumeOTP(ctx, company, req.OTP, "credentials")
}

// ResendOTP re-issues the active mode's artifact, replacing the previous one.
func (s *authService) ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, utils.FormatValidationErrors(errs))
	}

	company, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	if company == nil {
		return fmt.Errorf("company %s: %w", req.Email, ErrNotFound)
	}
	if company.Verified {
		return ErrAlreadyVerified
	}

	err = s.repo.WithinTx(ctx, func(tx repository.CompanyRepository) error {
		msg, updated, err := s.reissueArtifact(ctx, tx, company)
		if err != nil {
			return err
		}
		if !updated {
			return ErrAlreadyVerified
		}

		if err := s.mailer.Send(ctx, msg); err != nil {
			return fmt.Errorf("%w: send email: %w", ErrUpstreamFailure, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyVerified) {
			s.log.Error("Failed to resend verification", zap.Error(err), zap.String("email", req.Email))
		}
		return err
	}

	metrics.OTPIssued.WithLabelValues(string(s.verifier.Mode()), "resend").Inc()
	s.publish(ctx, events.OTPIssued, company.Email, map[string]string{
		"mode":    string(s.verifier.Mode()),
		"trigger": "resend",
	})

	s.log.Info("Verification re-issued", zap.String("email", company.Email))
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, utils.FormatValidationErrors(errs))
	}

	company, err := s.repo.FindVerifiedByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// Unknown, unverified and wrong password all look the same to the caller.
	if company == nil || !utils.CheckPasswordHash(req.Password, company.PasswordHash) {
		s.log.Warn("Login rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	s.log.Info("Company logged in", zap.String("company_id", company.ID.String()))

	return &response.LoginResponse{
		CompanyName: company.CompanyName,
		Email:       company.Email,
	}, nil
}

func (s *authService) GetUser(ctx context.Context, email string) (*response.UserResponse, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrMissingFields)
	}

	company, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s: %w", email, ErrNotFound)
	}

	return &response.UserResponse{CompanyName: company.CompanyName}, nil
}

// ==================== HELPER METHODS ====================

// issueArtifact stamps the active mode's token or OTP on company and renders
// the email that delivers it.
func (s *authService) issueArtifact(company *entity.Company) (mailer.Message, error) {
	if s.verifier.Mode() == ModeToken {
		token, err := s.verifier.IssueToken()
		if err != nil {
			return mailer.Message{}, err
		}
		company.VerificationToken = &token

		msg, err := mailer.VerificationLinkMessage(company.Email, company.CompanyName, s.verifyURL+token)
		if err != nil {
			return msg, fmt.Errorf("render verification email: %w", err)
		}
		return msg, nil
	}

	code, expiry, err := s.verifier.IssueOTP()
	if err != nil {
		return mailer.Message{}, err
	}
	company.OTP = &code
	company.OTPExpiry = &expiry

	msg, err := mailer.OTPMessage(company.Email, company.CompanyName, code, s.verifier.OTPExpiry())
	if err != nil {
		return msg, fmt.Errorf("render otp email: %w", err)
	}
	return msg, nil
}

// reissueArtifact overwrites the stored token or OTP. It reports false when
// the row was verified in the meantime.
func (s *authService) reissueArtifact(ctx context.Context, tx repository.CompanyRepository, company *entity.Company) (mailer.Message, bool, error) {
	if s.verifier.Mode() == ModeToken {
		token, err := s.verifier.IssueToken()
		if err != nil {
			return mailer.Message{}, false, err
		}
		updated, err := tx.UpdateVerificationToken(ctx, company.Email, token)
		if err != nil || !updated {
			return mailer.Message{}, updated, err
		}

		msg, err := mailer.VerificationLinkMessage(company.Email, company.CompanyName, s.verifyURL+token)
		if err != nil {
			return msg, false, fmt.Errorf("render verification email: %w", err)
		}
		return msg, true, nil
	}

	code, expiry, err := s.verifier.IssueOTP()
	if err != nil {
		return mailer.Message{}, false, err
	}
	updated, err := tx.UpdateOTP(ctx, company.Email, code, expiry)
	if err != nil || !updated {
		return mailer.Message{}, updated, err
	}

	msg, err := mailer.ResendOTPMessage(company.Email, code, s.verifier.OTPExpiry())
	if err != nil {
		return msg, false, fmt.Errorf("render otp email: %w", err)
	}
	return msg, true, nil
}

func (s *authService) consumeOTP(ctx context.Context, company *entity.Company, otp, method string) error {
	ok, err := s.repo.MarkVerifiedWithOTP(ctx, company.ID, otp)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if !ok {
		// Consumed or replaced by a concurrent request.
		metrics.Verifications.WithLabelValues(method, "invalid").Inc()
		return ErrInvalidOTP
	}

	s.verified(ctx, company, method)
	return nil
}

func (s *authService) verified(ctx context.Context, company *entity.Company, method string) {
	metrics.Verifications.WithLabelValues(method, "success").Inc()
	s.publish(ctx, events.CompanyVerified, company.Email, map[string]string{
		"company_id": company.ID.String(),
		"method":     method,
	})

	s.log.Info("Company verified",
		zap.String("company_id", company.ID.String()),
		zap.String("method", method),
	)
}

func (s *authService) publish(ctx context.Context, eventType, subject string, attrs map[string]string) {
	if err := s.events.Publish(ctx, events.NewEvent(eventType, subject, attrs)); err != nil {
		s.log.Warn("Failed to publish event", zap.Error(err), zap.String("type", eventType))
	}
}

func resultLabel(err error) string {
	if errors.Is(err, ErrOTPExpired) {
		return "expired"
	}
	return "invalid"
}
