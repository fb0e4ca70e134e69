package response

import (
	"mining-chatbot/internal/data/entity"
)

type RegisterResponse struct {
	ID               string `json:"id"`
	CompanyName      string `json:"company_name"`
	Email            string `json:"email"`
	Verified         bool   `json:"verified"`
	VerificationMode string `json:"verification_mode"`

	// Set in token mode only.
	VerificationToken string `json:"verification_token,omitempty"`
}

type LoginResponse struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
}

type UserResponse struct {
	CompanyName string `json:"company_name"`
}

func CompanyToRegisterResponse(c *entity.Company, mode string) *RegisterResponse {
	resp := &RegisterResponse{
		ID:               c.ID.String(),
		CompanyName:      c.CompanyName,
		Email:            c.Email,
		Verified:         c.Verified,
		VerificationMode: mode,
	}
	if c.VerificationToken != nil {
		resp.VerificationToken = *c.VerificationToken
	}
	return resp
}
