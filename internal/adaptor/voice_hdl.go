package adaptor

import (
	"io"
	"net/http"

	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/utils"

	"go.uber.org/zap"
)

const maxVoiceBody = 10<<20 + 1<<16

type VoiceHandler struct {
	service usecase.VoiceService
	log     *zap.Logger
}

func NewVoiceHandler(service usecase.VoiceService, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		service: service,
		log:     log.With(zap.String("handler", "voice")),
	}
}

// Voice handles POST /voice with a multipart "audio" file.
func (h *VoiceHandler) Voice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVoiceBody)

	file, _, err := r.FormFile("audio")
	if err != nil {
		h.log.Warn("Voice upload rejected", zap.Error(err))
		utils.ResponseBadRequest(w, "No audio file provided", nil)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		utils.ResponseBadRequest(w, "Could not read audio file", nil)
		return
	}

	response, err := h.service.Transcribe(r.Context(), audio)
	if err != nil {
		handleServiceError(h.log, w, err, "voice")
		return
	}

	utils.ResponseSuccess(w, "success", response)
}
