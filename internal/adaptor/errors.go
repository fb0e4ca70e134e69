package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps service errors to status codes. Client errors are
// logged as warnings, everything else as errors with a generic message.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrMissingFields),
		errors.Is(err, usecase.ErrInvalidInput):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrDuplicateEmail),
		errors.Is(err, usecase.ErrAlreadyVerified),
		errors.Is(err, usecase.ErrInvalidToken),
		errors.Is(err, usecase.ErrInvalidOTP),
		errors.Is(err, usecase.ErrOTPExpired),
		errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, usecase.ErrInvalidChoice):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, usecase.ErrInvalidCredentials.Error())

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrUpstreamFailure):
		log.Error(operation+" failed - upstream", zap.Error(err))
		utils.ResponseInternalError(w, "Upstream service failure, please try again")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON writes a 400 and reports false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}
