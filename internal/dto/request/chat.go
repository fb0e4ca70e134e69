package request

import "strings"

const MaxQuestionLength = 500

type AskRequest struct {
	Question string `json:"question" validate:"required,max=500"`
	Email    string `json:"email,omitempty"`
}

func (r *AskRequest) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Email = strings.TrimSpace(r.Email)
}

type ChatHistoryQuery struct {
	Email string `json:"email" validate:"required"`
	PaginatedRequest
}

type ChatbotRespondRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Input     string `json:"input" validate:"required"`
}
