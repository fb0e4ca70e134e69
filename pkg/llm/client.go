package llm

import (
	"context"
	"fmt"
	"time"

	"mining-chatbot/pkg/utils"

	"go.uber.org/zap"
)

// Client sends one system prompt and one user message and returns the
// first completion's text.
type Client interface {
	Complete(ctx context.Context, systemPrompt, question string) (string, error)
}

const (
	defaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultGroqModel     = "llama3-8b-8192"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg utils.LLMConfig, log *zap.Logger) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	switch cfg.Provider {
	case "", "groq":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: orDefault(cfg.BaseURL, defaultGroqBaseURL),
			Model:   orDefault(cfg.Model, defaultGroqModel),
			Timeout: timeout,
		}, log), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: orDefault(cfg.BaseURL, defaultOpenAIBaseURL),
			Model:   orDefault(cfg.Model, defaultOpenAIModel),
			Timeout: timeout,
		}, log), nil
	case "gemini":
		client, err := NewGeminiClient(ctx, cfg.APIKey, orDefault(cfg.Model, defaultGeminiModel), log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
