package response

import (
	"time"

	"mining-chatbot/internal/data/entity"
)

type AnswerResponse struct {
	Response  string `json:"response"`
	Category  string `json:"category"`
	HistoryID string `json:"history_id,omitempty"`
}

type ChatHistoryResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func ChatHistoryToResponse(c *entity.ChatHistory) ChatHistoryResponse {
	return ChatHistoryResponse{
		ID:        c.ID.String(),
		Email:     c.UserEmail,
		Question:  c.Question,
		Answer:    c.Answer,
		Category:  string(c.Category),
		CreatedAt: c.CreatedAt,
	}
}

type KnowledgeResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ChatbotResponse is one turn of the guided chatbot.
type ChatbotResponse struct {
	SessionID        string              `json:"session_id"`
	Stage            string              `json:"stage"`
	Prompt           string              `json:"prompt"`
	Options          []string            `json:"options,omitempty"`
	SelectedMine     string              `json:"selected_mine,omitempty"`
	SelectedMaterial string              `json:"selected_material,omitempty"`
	QueryType        string              `json:"query_type,omitempty"`
	Results          []KnowledgeResponse `json:"results,omitempty"`
}

type VoiceResponse struct {
	Response string `json:"response"`
}
