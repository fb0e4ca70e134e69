package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/internal/dto/request"
	"mining-chatbot/internal/dto/response"
	"mining-chatbot/pkg/events"
	"mining-chatbot/pkg/llm"
	"mining-chatbot/pkg/metrics"
	"mining-chatbot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SystemPrompt = "You are a helpful chatbot that answers questions related to mining industry laws, DGMS circulars, and regulations."

type ChatService interface {
	// Ask relays the question to the LLM. When requireEmail is set the
	// question must carry the asker's email.
	Ask(ctx context.Context, req *request.AskRequest, requireEmail bool) (*response.AnswerResponse, error)
	ListHistory(ctx context.Context, req *request.ChatHistoryQuery) (*response.PaginatedResponse[response.ChatHistoryResponse], error)
	GetHistory(ctx context.Context, id string) (*response.ChatHistoryResponse, error)
	DeleteHistory(ctx context.Context, id string) error
}

type chatService struct {
	history repository.ChatHistoryRepository
	llm     llm.Client
	events  events.Publisher
	log     *zap.Logger
}

func NewChatService(
	history repository.ChatHistoryRepository,
	client llm.Client,
	publisher events.Publisher,
	log *zap.Logger,
) ChatService {
	return &chatService{
		history: history,
		llm:     client,
		events:  publisher,
		log:     log.With(zap.String("service", "chat")),
	}
}

func (s *chatService) Ask(ctx context.Context, req *request.AskRequest, requireEmail bool) (*response.AnswerResponse, error) {
	req.Normalize()

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, utils.FormatValidationErrors(errs))
	}
	if requireEmail && req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrMissingFields)
	}

	answer, err := s.llm.Complete(ctx, SystemPrompt, req.Question)
	if err != nil {
		metrics.LLMRequests.WithLabelValues("error").Inc()
		s.log.Error("LLM request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	metrics.LLMRequests.WithLabelValues("success").Inc()

	category := Categorize(req.Question)
	resp := &response.AnswerResponse{
		Response: answer,
		Category: string(category),
	}

	if req.Email != "" {
		chat := &entity.ChatHistory{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
			},
			UserEmail: req.Email,
			Question:  req.Question,
			Answer:    answer,
			Category:  category,
		}

		// The answer is still returned when history cannot be saved.
		if err := s.history.Create(ctx, chat); err != nil {
			s.log.Warn("Failed to save chat history", zap.Error(err), zap.String("email", req.Email))
		} else {
			resp.HistoryID = chat.ID.String()
		}

		if err := s.events.Publish(ctx, events.NewEvent(events.ChatAsked, req.Email, map[string]string{
			"category": string(category),
		})); err != nil {
			s.log.Warn("Failed to publish event", zap.Error(err), zap.String("type", events.ChatAsked))
		}
	}

	return resp, nil
}

func (s *chatService) ListHistory(ctx context.Context, req *request.ChatHistoryQuery) (*response.PaginatedResponse[response.ChatHistoryResponse], error) {
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrMissingFields)
	}
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	chats, err := s.history.FindByEmail(ctx, req.Email, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list chat history: %w", err)
	}

	total, err := s.history.CountByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("count chat history: %w", err)
	}

	items := make([]response.ChatHistoryResponse, 0, len(chats))
	for _, chat := range chats {
		items = append(items, response.ChatHistoryToResponse(chat))
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *chatService) GetHistory(ctx context.Context, id string) (*response.ChatHistoryResponse, error) {
	chatID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: chat id %q", ErrInvalidInput, id)
	}

	chat, err := s.history.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get chat history: %w", err)
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}

	resp := response.ChatHistoryToResponse(chat)
	return &resp, nil
}

func (s *chatService) DeleteHistory(ctx context.Context, id string) error {
	chatID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: chat id %q", ErrInvalidInput, id)
	}

	deleted, err := s.history.Delete(ctx, chatID)
	if err != nil {
		return fmt.Errorf("delete chat history: %w", err)
	}
	if !deleted {
		return fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}

	s.log.Info("Chat history deleted", zap.String("chat_id", id))
	return nil
}

var categoryKeywords = []struct {
	category entity.MessageCategory
	keywords []string
}{
	{entity.CategoryQuestion, []string{"what", "how", "why", "when", "where", "can", "could"}},
	{entity.CategoryComplaint, []string{"issue", "problem", "wrong", "error", "bug"}},
	{entity.CategoryFeedback, []string{"suggest", "improve", "better", "feature"}},
}

// Categorize returns the first category with a keyword contained in text.
func Categorize(text string) entity.MessageCategory {
	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, keyword := range c.keywords {
			if strings.Contains(lower, keyword) {
				return c.category
			}
		}
	}
	return entity.CategoryGeneral
}
