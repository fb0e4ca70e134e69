package speech

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const transcribePrompt = "Transcribe the speech in this audio. Reply with the transcript only."

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type geminiTranscriber struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

// NewGeminiTranscriber sends audio inline to a Gemini model.
func NewGeminiTranscriber(ctx context.Context, apiKey, model string, log *zap.Logger) (Transcriber, error) {
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

	return &geminiTranscriber{
		client: client,
		model:  model,
		log:    log.With(zap.String("speech", "gemini")),
	}, nil
}

func (t *geminiTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = DetectMIME(audio)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI transcribe failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("could not understand audio")
	}

	t.log.Debug("Audio transcribed", zap.Int("bytes", len(audio)), zap.Int("text_len", len(text)))
	return text, nil
}

// DetectMIME sniffs the audio container, defaulting to WAV.
func DetectMIME(audio []byte) string {
	switch ct := http.DetectContentType(audio); {
	case strings.HasPrefix(ct, "audio/"):
		return ct
	case ct == "application/ogg":
		return "audio/ogg"
	default:
		return "audio/wav"
	}
}
