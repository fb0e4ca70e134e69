package usecase

import (
	"mining-chatbot/internal/data/cache"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/pkg/events"
	"mining-chatbot/pkg/llm"
	"mining-chatbot/pkg/mailer"
	"mining-chatbot/pkg/speech"
	"mining-chatbot/pkg/utils"

	"go.uber.org/zap"
)

// Deps are the outbound clients the services talk to.
type Deps struct {
	Mailer      mailer.Sender
	Events      events.Publisher
	LLM         llm.Client
	Sessions    cache.ChatSessionStore
	Transcriber speech.Transcriber
}

type Service struct {
	Auth    AuthService
	Chat    ChatService
	Chatbot ChatbotService
	Voice   VoiceService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo.Company, deps.Mailer, deps.Events, NewVerifier(config.OTP), config, log),
		Chat:    NewChatService(repo.ChatHistory, deps.LLM, deps.Events, log),
		Chatbot: NewChatbotService(deps.Sessions, repo.Knowledge, log),
		Voice:   NewVoiceService(config.Voice, deps.Transcriber, log),
	}
}
