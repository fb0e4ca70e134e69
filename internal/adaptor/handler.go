package adaptor

import (
	"time"

	"mining-chatbot/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth  *AuthHandler
	Chat  *ChatHandler
	Voice *VoiceHandler
}

func NewHandler(service *usecase.Service, sessionTTL time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(service.Auth, log),
		Chat:  NewChatHandler(service.Chat, service.Chatbot, sessionTTL, log),
		Voice: NewVoiceHandler(service.Voice, log),
	}
}
