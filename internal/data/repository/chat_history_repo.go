package repository

import (
	"context"
	"errors"
	"fmt"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, chat *entity.ChatHistory) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatHistory, error)
	FindByEmail(ctx context.Context, email string, limit, offset int) ([]*entity.ChatHistory, error)
	CountByEmail(ctx context.Context, email string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type chatHistoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewChatHistoryRepository(db database.Querier, log *zap.Logger) ChatHistoryRepository {
	return &chatHistoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat_history")),
	}
}

func (r *chatHistoryRepository) Create(ctx context.Context, chat *entity.ChatHistory) error {
	query := `
		INSERT INTO chat_history (id, user_email, question, answer, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		chat.ID,
		chat.UserEmail,
		chat.Question,
		chat.Answer,
		chat.Category,
		chat.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to save chat",
			zap.Error(err),
			zap.String("email", chat.UserEmail),
		)
		return fmt.Errorf("save chat for %s: %w", chat.UserEmail, err)
	}

	return nil
}

func (r *chatHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatHistory, error) {
	query := `
		SELECT id, user_email, question, answer, category, created_at
		FROM chat_history
		WHERE id = $1
	`

	var chat entity.ChatHistory
	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.UserEmail,
		&chat.Question,
		&chat.Answer,
		&chat.Category,
		&chat.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find chat", zap.Error(err), zap.String("chat_id", id.String()))
		return nil, fmt.Errorf("find chat %s: %w", id.String(), err)
	}

	return &chat, nil
}

// FindByEmail returns a page of the user's history, newest first.
func (r *chatHistoryRepository) FindByEmail(ctx context.Context, email string, limit, offset int) ([]*entity.ChatHistory, error) {
	query := `
		SELECT id, user_email, question, answer, category, created_at
		FROM chat_history
		WHERE user_email = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, email, limit, offset)
	if err != nil {
		r.log.Error("Failed to list chat history",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("list chat history for %s: %w", email, err)
	}
	defer rows.Close()

	var chats []*entity.ChatHistory
	for rows.Next() {
		var chat entity.ChatHistory
		if err := rows.Scan(
			&chat.ID,
			&chat.UserEmail,
			&chat.Question,
			&chat.Answer,
			&chat.Category,
			&chat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat row: %w", err)
		}
		chats = append(chats, &chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat rows: %w", err)
	}

	return chats, nil
}

func (r *chatHistoryRepository) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_history WHERE user_email = $1`, email).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count chat history for %s: %w", email, err)
	}
	return count, nil
}

func (r *chatHistoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_history WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete chat", zap.Error(err), zap.String("chat_id", id.String()))
		return false, fmt.Errorf("delete chat %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
