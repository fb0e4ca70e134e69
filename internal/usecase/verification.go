package usecase

import (
	"crypto/subtle"
	"fmt"
	"time"

	"mining-chatbot/pkg/utils"
)

type VerificationMode string

const (
	ModeOTP   VerificationMode = "otp"
	ModeToken VerificationMode = "token"
)

const (
	tokenBytes       = 32
	defaultOTPLength = 6
	defaultOTPExpiry = time.Minute
)

// Verifier issues and checks verification artifacts for one mode.
// A process runs a single mode, so a company row never carries a token and
// an OTP at the same time.
type Verifier struct {
	mode      VerificationMode
	otpLength int
	otpExpiry time.Duration
	now       func() time.Time
}

func NewVerifier(cfg utils.OTPConfig) *Verifier {
	v := &Verifier{
		mode:      VerificationMode(cfg.Mode),
		otpLength: cfg.Length,
		otpExpiry: cfg.Expiry,
		now:       time.Now,
	}

	if v.mode != ModeToken {
		v.mode = ModeOTP
	}
	if v.otpLength <= 0 {
		v.otpLength = defaultOTPLength
	}
	if v.otpExpiry <= 0 {
		v.otpExpiry = defaultOTPExpiry
	}

	return v
}

// WithClock replaces the time source. Used by tests.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

func (v *Verifier) Mode() VerificationMode {
	return v.mode
}

func (v *Verifier) Now() time.Time {
	return v.now()
}

func (v *Verifier) OTPExpiry() time.Duration {
	return v.otpExpiry
}

func (v *Verifier) IssueToken() (string, error) {
	token, err := utils.GenerateToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return token, nil
}

// IssueOTP returns a fresh code and its expiry. The expiry is counted from
// the current second, matching the precision it is stored with.
func (v *Verifier) IssueOTP() (string, time.Time, error) {
	code, err := utils.GenerateOTP(v.otpLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate otp: %w", err)
	}

	expiry := v.now().Truncate(time.Second).Add(v.otpExpiry)
	return code, expiry, nil
}

// CheckOTP validates submitted against the stored code, then the expiry.
// The expiry instant itself is still valid.
func (v *Verifier) CheckOTP(stored *string, expiry *time.Time, submitted string) error {
	if stored == nil || *stored == "" || submitted == "" {
		return ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(submitted)) != 1 {
		return ErrInvalidOTP
	}
	if v.Expired(expiry) {
		return ErrOTPExpired
	}
	return nil
}

func (v *Verifier) Expired(expiry *time.Time) bool {
	return expiry == nil || v.now().After(*expiry)
}
