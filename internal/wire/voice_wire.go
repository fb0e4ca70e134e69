package wire

import (
	"mining-chatbot/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireVoice(r chi.Router, voiceHandler *adaptor.VoiceHandler) {
	r.Post("/voice", voiceHandler.Voice)
}
