package wire

import (
	"mining-chatbot/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireChat(r chi.Router, chatHandler *adaptor.ChatHandler) {
	r.Post("/ask", chatHandler.Ask)

	r.Route("/chatbot", func(r chi.Router) {
		r.Post("/", chatHandler.Chatbot)
		r.Post("/start", chatHandler.StartChatbot)
		r.Post("/respond", chatHandler.RespondChatbot)
	})

	r.Route("/chat-history", func(r chi.Router) {
		r.Get("/", chatHandler.ListHistory)
		r.Get("/{id}", chatHandler.GetHistory)
		r.Delete("/{id}", chatHandler.DeleteHistory)
	})
}
