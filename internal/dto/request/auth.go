package request

import "strings"

// Only presence is checked on phone and address; they are stored as given.
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
	Address     string `json:"address" validate:"required"`
	Password    string `json:"password" validate:"required,maxbytes=72"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,max=8"`
}

func (r *RegisterRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Email = strings.TrimSpace(r.Email)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.CountryCode = strings.TrimSpace(r.CountryCode)
}

// FullPhoneNumber prefixes the country code when one was given.
func (r *RegisterRequest) FullPhoneNumber() string {
	if r.CountryCode == "" {
		return r.PhoneNumber
	}
	return r.CountryCode + r.PhoneNumber
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type VerifyCredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}
