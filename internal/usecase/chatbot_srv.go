package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"mining-chatbot/internal/data/cache"
	"mining-chatbot/internal/data/entity"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/internal/dto/request"
	"mining-chatbot/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const restartInput = "restart"

var (
	mineTypes = []string{"coal", "metalliferous", "oil"}

	materialsByMine = map[string][]string{
		"coal":          {"coal"},
		"metalliferous": {"iron_ore", "limestone", "bauxite", "manganese"},
		"oil":           {"crude_oil"},
	}

	queryTypes = []string{
		string(entity.QueryActsRules),
		string(entity.QueryCirculars),
		string(entity.QueryFAQs),
	}
)

// ChatbotService drives the guided conversation: mine, then material, then
// the kind of document to look up. After an answer the user can pick another
// query type for the same mine and material.
type ChatbotService interface {
	Start(ctx context.Context) (*response.ChatbotResponse, error)
	Respond(ctx context.Context, req *request.ChatbotRespondRequest) (*response.ChatbotResponse, error)
}

type chatbotService struct {
	sessions  cache.ChatSessionStore
	knowledge repository.KnowledgeRepository
	now       func() time.Time
	log       *zap.Logger
}

func NewChatbotService(sessions cache.ChatSessionStore, knowledge repository.KnowledgeRepository, log *zap.Logger) ChatbotService {
	return &chatbotService{
		sessions:  sessions,
		knowledge: knowledge,
		now:       time.Now,
		log:       log.With(zap.String("service", "chatbot")),
	}
}

func (s *chatbotService) Start(ctx context.Context) (*response.ChatbotResponse, error) {
	session := &entity.ChatSession{
		ID:    uuid.NewString(),
		Stage: entity.StageSelectMine,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.log.Debug("Chat session started", zap.String("session_id", session.ID))
	return s.prompt(session, "Welcome! Which type of mine are you asking about?", mineTypes), nil
}

func (s *chatbotService) Respond(ctx context.Context, req *request.ChatbotRespondRequest) (*response.ChatbotResponse, error) {
	if req.SessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load chat session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	input := normalizeChoice(req.Input)
	if input == "" {
		return nil, fmt.Errorf("%w: input is required", ErrMissingFields)
	}

	if input == restartInput {
		*session = entity.ChatSession{ID: session.ID, Stage: entity.StageSelectMine}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return s.prompt(session, "Starting over. Which type of mine are you asking about?", mineTypes), nil
	}

	switch session.Stage {
	case entity.StageSelectMine:
		if !slices.Contains(mineTypes, input) {
			return nil, invalidChoice(input, mineTypes)
		}
		session.SelectedMine = input
		session.Stage = entity.StageSelectMaterial
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return s.prompt(session, "Which material is mined?", materialsByMine[input]), nil

	case entity.StageSelectMaterial:
		materials := materialsByMine[session.SelectedMine]
		if !slices.Contains(materials, input) {
			return nil, invalidChoice(input, materials)
		}
		session.SelectedMaterial = input
		session.Stage = entity.StageSelectQueryType
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return s.prompt(session, "What would you like to see?", queryTypes), nil

	case entity.StageSelectQueryType:
		if !slices.Contains(queryTypes, input) {
			return nil, invalidChoice(input, queryTypes)
		}
		return s.answer(ctx, session, entity.QueryType(input))

	default:
		// Unknown stage from an older payload; start again.
		s.log.Warn("Unknown chat stage", zap.String("stage", string(session.Stage)))
		*session = entity.ChatSession{ID: session.ID, Stage: entity.StageSelectMine}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		return s.prompt(session, "Which type of mine are you asking about?", mineTypes), nil
	}
}

func (s *chatbotService) answer(ctx context.Context, session *entity.ChatSession, queryType entity.QueryType) (*response.ChatbotResponse, error) {
	entries, err := s.knowledge.Find(ctx, queryType, session.SelectedMine, session.SelectedMaterial)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", queryType, err)
	}

	session.QueryType = queryType
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Found %d %s entries. Pick another query type or type %q.", len(entries), queryType, restartInput)
	if len(entries) == 0 {
		text = fmt.Sprintf("No %s found for %s in %s mines. Pick another query type or type %q.",
			queryType, session.SelectedMaterial, session.SelectedMine, restartInput)
	}

	resp := s.prompt(session, text, queryTypes)
	for _, e := range entries {
		resp.Results = append(resp.Results, response.KnowledgeResponse{
			Title:   e.Title,
			Content: e.Content,
		})
	}

	return resp, nil
}

func (s *chatbotService) save(ctx context.Context, session *entity.ChatSession) error {
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save chat session: %w", err)
	}
	return nil
}

func (s *chatbotService) prompt(session *entity.ChatSession, text string, options []string) *response.ChatbotResponse {
	return &response.ChatbotResponse{
		SessionID:        session.ID,
		Stage:            string(session.Stage),
		Prompt:           text,
		Options:          options,
		SelectedMine:     session.SelectedMine,
		SelectedMaterial: session.SelectedMaterial,
		QueryType:        string(session.QueryType),
	}
}

// normalizeChoice accepts "Iron Ore" and "iron-ore" for iron_ore.
func normalizeChoice(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(input)
}

func invalidChoice(input string, options []string) error {
	return fmt.Errorf("%w %q, choose one of: %s", ErrInvalidChoice, input, strings.Join(options, ", "))
}
