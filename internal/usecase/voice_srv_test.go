package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mining-chatbot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var wavHeader = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

func TestVoice_PlaceholderAndScratchFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	svc := NewVoiceService(utils.VoiceConfig{TempDir: dir}, nil, zap.NewNop())

	resp, err := svc.Transcribe(context.Background(), wavHeader)
	require.NoError(t, err)
	assert.Equal(t, "Dummy response for testing", resp.Response)

	stored, err := os.ReadFile(filepath.Join(dir, "temp_audio.wav"))
	require.NoError(t, err)
	assert.Equal(t, wavHeader, stored)
}

func TestVoice_EmptyUpload(t *testing.T) {
	svc := NewVoiceService(utils.VoiceConfig{TempDir: t.TempDir()}, nil, zap.NewNop())

	_, err := svc.Transcribe(context.Background(), nil)
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestVoice_Transcriber(t *testing.T) {
	transcriber := &fakeTranscriber{text: "what is rule 3"}
	svc := NewVoiceService(utils.VoiceConfig{TempDir: t.TempDir()}, transcriber, zap.NewNop())

	resp, err := svc.Transcribe(context.Background(), wavHeader)
	require.NoError(t, err)
	assert.Equal(t, "what is rule 3", resp.Response)
	assert.True(t, strings.HasPrefix(transcriber.mimeType, "audio/"), transcriber.mimeType)

	transcriber.err = errors.New("quota")
	_, err = svc.Transcribe(context.Background(), wavHeader)
	require.ErrorIs(t, err, ErrUpstreamFailure)
}
