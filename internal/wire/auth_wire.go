package wire

import (
	"mining-chatbot/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/register", authHandler.Register)
	r.Get("/verify/{token}", authHandler.VerifyToken)
	r.Post("/verify-otp", authHandler.VerifyOTP)
	r.Post("/verify-credentials", authHandler.VerifyCredentials)
	r.Post("/resend-otp", authHandler.ResendOTP)
	r.Post("/login", authHandler.Login)
	r.Get("/get-user", authHandler.GetUser)
}
