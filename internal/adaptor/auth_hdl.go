package adaptor

import (
	"net/http"
	"strings"

	"mining-chatbot/internal/dto/request"
	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const missingFieldsMessage = "All fields are required"

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Normalize()
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, missingFieldsMessage, validationErrors)
		return
	}

	response, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Please check your email to verify your account.", response)
}

// VerifyToken handles GET /verify/{token}
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.service.VerifyToken(r.Context(), token); err != nil {
		handleServiceError(h.log, w, err, "verify token")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}

// VerifyOTP handles POST /verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Email and OTP are required", validationErrors)
		return
	}

	if err := h.service.VerifyOTP(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}

// VerifyCredentials handles POST /verify-credentials
func (h *AuthHandler) VerifyCredentials(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, missingFieldsMessage, validationErrors)
		return
	}

	if err := h.service.VerifyCredentials(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "verify credentials")
		return
	}

	utils.ResponseSuccess(w, "Email verified successfully", nil)
}

// ResendOTP handles POST /resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ResendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Email is required", validationErrors)
		return
	}

	if err := h.service.ResendOTP(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "resend otp")
		return
	}

	utils.ResponseSuccess(w, "A new verification code has been sent to your email", nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Email and password are required", validationErrors)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", response)
}

// GetUser handles GET /get-user?email=
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		utils.ResponseBadRequest(w, "Email is required", nil)
		return
	}

	response, err := h.service.GetUser(r.Context(), email)
	if err != nil {
		handleServiceError(h.log, w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "success", response)
}
