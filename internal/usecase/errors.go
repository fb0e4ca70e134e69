package usecase

import "errors"

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP has expired")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrUpstreamFailure    = errors.New("upstream service failure")
	ErrSessionNotFound    = errors.New("chat session not found")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrInvalidInput       = errors.New("invalid input")
)
