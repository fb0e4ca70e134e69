package repository

import (
	"mining-chatbot/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Company     CompanyRepository
	ChatHistory ChatHistoryRepository
	Knowledge   KnowledgeRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Company:     NewCompanyRepository(db, log),
		ChatHistory: NewChatHistoryRepository(db, log),
		Knowledge:   NewKnowledgeRepository(db, log),
	}
}
