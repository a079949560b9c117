package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/utils"
)

// Transcriber is the alternate speech-to-text provider. Voice notes are
// short, so the synchronous Recognize API is enough.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	Close() error
}

type googleTranscriber struct {
	log        *logger.Logger
	client     *speech.Client
	language   string
	maxRetries int
}

func NewGoogleTranscriber(log *logger.Logger) (Transcriber, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))

	ctx := context.Background()
	var c *speech.Client
	var err error
	if creds != "" {
		c, err = speech.NewClient(ctx, option.WithCredentialsFile(creds))
	} else {
		c, err = speech.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	language := utils.GetEnv("GOOGLE_SPEECH_LANGUAGE", "en-US", log)
	maxRetries := utils.GetEnvAsInt("GOOGLE_SPEECH_MAX_RETRIES", 2, log)

	return &googleTranscriber{
		log:        log.With("service", "GoogleTranscriber"),
		client:     c,
		language:   language,
		maxRetries: maxRetries,
	}, nil
}

func (t *googleTranscriber) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

func (t *googleTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   inferEncoding(mimeType),
			LanguageCode:               t.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	var resp *speechpb.RecognizeResponse
	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		resp, err = t.client.Recognize(ctx, req)
		if err == nil || !isRetryableGRPC(err) || attempt == t.maxRetries {
			break
		}
		t.log.Warn("Speech recognize retrying", "attempt", attempt+1, "error", err)
		time.Sleep(time.Duration(attempt+1) * time.Second)
	}
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.Join(parts, " "), nil
}

func isRetryableGRPC(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Internal:
		return true
	default:
		return false
	}
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	switch {
	case strings.Contains(mimeType, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(mimeType, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(mimeType, "ogg"), strings.Contains(mimeType, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		// m4a voice notes land here; let the service sniff the header.
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
