package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/services"
)

// maxAudioBytes bounds voice-note uploads (25 MB, the whisper limit).
const maxAudioBytes = 25 << 20

type TranscribeHandler struct {
	log                  *logger.Logger
	transcriptionService services.TranscriptionService
}

func NewTranscribeHandler(log *logger.Logger, transcriptionService services.TranscriptionService) *TranscribeHandler {
	return &TranscribeHandler{
		log:                  log.With("handler", "TranscribeHandler"),
		transcriptionService: transcriptionService,
	}
}

func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_audio", err)
		return
	}
	if fileHeader.Size > maxAudioBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_audio", err)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_audio", err)
		return
	}

	text, err := h.transcriptionService.Transcribe(
		c.Request.Context(), audio, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.log.Error("Transcription failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "transcription_failed", err)
		return
	}
	RespondOK(c, gin.H{"text": text})
}
