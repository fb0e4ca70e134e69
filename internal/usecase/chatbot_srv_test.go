package usecase

import (
	"context"
	"testing"

	"mining-chatbot/internal/data/entity"
	"mining-chatbot/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChatbotFixture() (ChatbotService, *fakeSessionStore, *fakeKnowledgeRepo) {
	store := newFakeSessionStore()
	knowledge := &fakeKnowledgeRepo{entries: []*entity.KnowledgeEntry{
		{ID: 1, Type: entity.QueryCirculars, MineType: "metalliferous", Material: "iron_ore", Title: "Circular 12", Content: "Dust suppression"},
		{ID: 2, Type: entity.QueryCirculars, MineType: "metalliferous", Material: "iron_ore", Title: "Circular 19", Content: "Blasting hours"},
		{ID: 3, Type: entity.QueryFAQs, MineType: "coal", Material: "coal", Title: "FAQ", Content: "Shift limits"},
	}}
	return NewChatbotService(store, knowledge, zap.NewNop()), store, knowledge
}

func respond(t *testing.T, svc ChatbotService, sessionID, input string) error {
	t.Helper()
	_, err := svc.Respond(context.Background(), &request.ChatbotRespondRequest{SessionID: sessionID, Input: input})
	return err
}

func TestChatbot_FullConversation(t *testing.T) {
	svc, store, _ := newChatbotFixture()
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, start.SessionID)
	assert.Equal(t, string(entity.StageSelectMine), start.Stage)
	assert.Equal(t, []string{"coal", "metalliferous", "oil"}, start.Options)

	resp, err := svc.Respond(ctx, &request.ChatbotRespondRequest{SessionID: start.SessionID, Input: "Metalliferous"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StageSelectMaterial), resp.Stage)
	assert.Equal(t, "metalliferous", resp.SelectedMine)
	assert.Contains(t, resp.Options, "iron_ore")

	resp, err = svc.Respond(ctx, &request.ChatbotRespondRequest{SessionID: start.SessionID, Input: "iron ore"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StageSelectQueryType), resp.Stage)
	assert.Equal(t, []string{"acts_rules", "circulars", "faqs"}, resp.Options)

	resp, err = svc.Respond(ctx, &request.ChatbotRespondRequest{SessionID: start.SessionID, Input: "circulars"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Circular 12", resp.Results[0].Title)
	assert.Equal(t, "circulars", resp.QueryType)
	// Another query type can be picked straight away.
	assert.Equal(t, string(entity.StageSelectQueryType), resp.Stage)

	resp, err = svc.Respond(ctx, &request.ChatbotRespondRequest{SessionID: start.SessionID, Input: "faqs"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Contains(t, resp.Prompt, "No faqs found")

	saved, err := store.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "metalliferous", saved.SelectedMine)
	assert.Equal(t, "iron_ore", saved.SelectedMaterial)
	assert.Equal(t, entity.QueryFAQs, saved.QueryType)
}

func TestChatbot_InvalidChoiceKeepsStage(t *testing.T) {
	svc, store, knowledge := newChatbotFixture()
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, respond(t, svc, start.SessionID, "gold"), ErrInvalidChoice)

	require.NoError(t, respond(t, svc, start.SessionID, "coal"))
	// crude_oil is not a coal mine material.
	require.ErrorIs(t, respond(t, svc, start.SessionID, "crude_oil"), ErrInvalidChoice)

	require.NoError(t, respond(t, svc, start.SessionID, "coal"))
	require.ErrorIs(t, respond(t, svc, start.SessionID, "acts_rules; DROP TABLE faqs"), ErrInvalidChoice)
	assert.Zero(t, knowledge.calls)

	saved, _ := store.Get(ctx, start.SessionID)
	assert.Equal(t, entity.StageSelectQueryType, saved.Stage)
}

func TestChatbot_Restart(t *testing.T) {
	svc, store, _ := newChatbotFixture()
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, respond(t, svc, start.SessionID, "oil"))
	require.NoError(t, respond(t, svc, start.SessionID, "crude_oil"))

	resp, err := svc.Respond(ctx, &request.ChatbotRespondRequest{SessionID: start.SessionID, Input: "RESTART"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.StageSelectMine), resp.Stage)
	assert.Equal(t, start.SessionID, resp.SessionID)

	saved, _ := store.Get(ctx, start.SessionID)
	assert.Empty(t, saved.SelectedMine)
	assert.Empty(t, saved.SelectedMaterial)
}

func TestChatbot_UnknownSession(t *testing.T) {
	svc, _, _ := newChatbotFixture()

	require.ErrorIs(t, respond(t, svc, "", "coal"), ErrSessionNotFound)
	require.ErrorIs(t, respond(t, svc, "missing", "coal"), ErrSessionNotFound)
}

func TestChatbot_EmptyInput(t *testing.T) {
	svc, _, _ := newChatbotFixture()

	start, err := svc.Start(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, respond(t, svc, start.SessionID, "  "), ErrMissingFields)
}
