package services

import (
	"context"

	"github.com/yungbote/noteable-backend/internal/clients/openai"
	"github.com/yungbote/noteable-backend/internal/clients/speech"
	"github.com/yungbote/noteable-backend/internal/logger"
)

// TranscriptionService turns a recorded voice note into text. Whisper is
// the primary provider, Google Speech-to-Text the alternate; with both
// down the result degrades to empty text rather than an error.
type TranscriptionService interface {
	Transcribe(ctx context.Context, audio []byte, filename, mimeType string) (string, error)
}

type transcriptionService struct {
	log    *logger.Logger
	ai     openai.Client
	google speech.Transcriber
}

func NewTranscriptionService(baseLog *logger.Logger, ai openai.Client, google speech.Transcriber) TranscriptionService {
	return &transcriptionService{
		log:    baseLog.With("service", "TranscriptionService"),
		ai:     ai,
		google: google,
	}
}

func (s *transcriptionService) Transcribe(ctx context.Context, audio []byte, filename, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	text, err := s.ai.Transcribe(ctx, audio, filename)
	if err == nil {
		return text, nil
	}
	s.log.Warn("Whisper transcription failed", "error", err)

	if s.google != nil {
		text, gerr := s.google.Transcribe(ctx, audio, mimeType)
		if gerr == nil {
			return text, nil
		}
		s.log.Warn("Google transcription failed", "error", gerr)
	}

	// Degrade to empty text; the note can still be typed by hand.
	return "", nil
}
