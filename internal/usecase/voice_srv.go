package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mining-chatbot/internal/dto/response"
	"mining-chatbot/pkg/speech"
	"mining-chatbot/pkg/utils"

	"go.uber.org/zap"
)

const (
	voiceScratchFile    = "temp_audio.wav"
	voicePlaceholder    = "Dummy response for testing"
	maxVoiceUploadBytes = 10 << 20
)

type VoiceService interface {
	Transcribe(ctx context.Context, audio []byte) (*response.VoiceResponse, error)
}

type voiceService struct {
	tempDir     string
	transcriber speech.Transcriber // nil keeps the placeholder reply
	log         *zap.Logger
}

func NewVoiceService(cfg utils.VoiceConfig, transcriber speech.Transcriber, log *zap.Logger) VoiceService {
	return &voiceService{
		tempDir:     cfg.TempDir,
		transcriber: transcriber,
		log:         log.With(zap.String("service", "voice")),
	}
}

// Transcribe stores the upload in the scratch directory and answers with the
// transcript, or the placeholder when no transcriber is configured.
func (s *voiceService) Transcribe(ctx context.Context, audio []byte) (*response.VoiceResponse, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: no audio file provided", ErrMissingFields)
	}
	if len(audio) > maxVoiceUploadBytes {
		return nil, fmt.Errorf("%w: audio larger than %d bytes", ErrInvalidInput, maxVoiceUploadBytes)
	}

	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create voice scratch dir: %w", err)
	}
	path := filepath.Join(s.tempDir, voiceScratchFile)
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		s.log.Error("Failed to store audio", zap.Error(err), zap.String("path", path))
		return nil, fmt.Errorf("store audio: %w", err)
	}

	if s.transcriber == nil {
		return &response.VoiceResponse{Response: voicePlaceholder}, nil
	}

	text, err := s.transcriber.Transcribe(ctx, audio, speech.DetectMIME(audio))
	if err != nil {
		s.log.Error("Transcription failed", zap.Error(err))
		return nil, fmt.Errorf("%w: transcribe: %w", ErrUpstreamFailure, err)
	}

	return &response.VoiceResponse{Response: text}, nil
}
