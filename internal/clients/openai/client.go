package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/utils"
)

// Client is the completion/transcription surface the rest of the backend
// consumes. A single call maps to a single upstream request; retry and
// backoff policy belongs to the caller (the entity-link orchestrator
// owns its own).
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// APIError carries the upstream status so callers can tell server-class
// failures (retry, then degrade) from everything else (degrade at once).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai api error: status=%d body=%s", e.StatusCode, truncate(e.Body, 200))
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	log             *logger.Logger
	baseURL         string
	apiKey          string
	model           string
	transcribeModel string
	httpClient      *http.Client
	audioClient     *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	transcribeModel := strings.TrimSpace(os.Getenv("OPENAI_TRANSCRIBE_MODEL"))
	if transcribeModel == "" {
		transcribeModel = "whisper-1"
	}

	timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60, log)
	audioTimeoutSec := utils.GetEnvAsInt("OPENAI_AUDIO_TIMEOUT_SECONDS", 120, log)

	return &client{
		log:             log.With("service", "OpenAIClient"),
		baseURL:         baseURL,
		apiKey:          apiKey,
		model:           model,
		transcribeModel: transcribeModel,
		httpClient:      &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		audioClient:     &http.Client{Timeout: time.Duration(audioTimeoutSec) * time.Second},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	if req.User != "" {
		messages = append(messages, chatMessage{Role: "user", Content: req.User})
	}
	body := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	raw, err := c.doJSON(ctx, "/v1/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("openai decode error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "recording.m4a"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := w.WriteField("model", c.transcribeModel); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.audioClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai transcription decode error: %w", err)
	}
	return out.Text, nil
}

func (c *client) doJSON(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
