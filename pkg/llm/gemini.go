package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient answers through Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGeminiClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		log:    log.With(zap.String("llm", "gemini"), zap.String("model", model)),
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, question string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(question),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	answer := strings.TrimSpace(result.Text())
	if answer == "" {
		return "", fmt.Errorf("no completion returned")
	}

	return answer, nil
}
