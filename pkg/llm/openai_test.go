package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mining-chatbot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *OpenAIClient {
	return NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "llama3-8b-8192",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestOpenAIClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  The Mines Act, 1952.  "}}]}`))
	}))
	defer srv.Close()

	answer, err := newTestClient(srv.URL).Complete(context.Background(), "system prompt", "Which act governs mines?")
	require.NoError(t, err)
	assert.Equal(t, "The Mines Act, 1952.", answer)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "llama3-8b-8192", got.Model)
	assert.Equal(t, chatMessage{Role: "system", Content: "system prompt"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "Which act governs mines?"}, got.Messages[1])
}

func TestOpenAIClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "s", "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestOpenAIClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "s", "q")
	require.EqualError(t, err, "no completion returned")
}

func TestOpenAIClientMissingKey(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{BaseURL: "http://unused"}, zap.NewNop())

	_, err := c.Complete(context.Background(), "s", "q")
	require.Error(t, err)
}

func TestNewProviders(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, utils.LLMConfig{APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = New(ctx, utils.LLMConfig{Provider: "gemini"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, c == nil)

	c, err = New(ctx, utils.LLMConfig{Provider: "claude"}, zap.NewNop())
	require.EqualError(t, err, `unknown LLM provider "claude"`)
	assert.Nil(t, c)
}
