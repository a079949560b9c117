package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/noteable-backend/internal/httpx"
	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/utils"
)

// Event is the one-way payload pushed to the calendar integration. No
// state is ever read back.
type Event struct {
	CalendarID         string    `json:"calendarId,omitempty"`
	Title              string    `json:"title"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	Notes              string    `json:"notes,omitempty"`
	Location           string    `json:"location,omitempty"`
	AlarmOffsetMinutes int       `json:"alarmOffsetMinutes"`
}

type Client interface {
	CreateEvent(ctx context.Context, ev Event) error
}

type Config struct {
	BaseURL    string
	APIKey     string
	CalendarID string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("CALENDAR_TIMEOUT_SECONDS", 15, log)
	return Config{
		BaseURL:    strings.TrimSpace(os.Getenv("CALENDAR_API_URL")),
		APIKey:     strings.TrimSpace(os.Getenv("CALENDAR_API_KEY")),
		CalendarID: strings.TrimSpace(os.Getenv("CALENDAR_ID")),
		Timeout:    time.Duration(timeoutSec) * time.Second,
		MaxRetries: utils.GetEnvAsInt("CALENDAR_MAX_RETRIES", 2, log),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing CALENDAR_API_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &httpClient{
		log:        log.With("service", "CalendarClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type httpClient struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type calendarHTTPError struct {
	StatusCode int
	Body       string
}

func (e *calendarHTTPError) Error() string {
	return fmt.Sprintf("calendar api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *calendarHTTPError) HTTPStatusCode() int { return e.StatusCode }

func (c *httpClient) CreateEvent(ctx context.Context, ev Event) error {
	if ev.CalendarID == "" {
		ev.CalendarID = c.cfg.CalendarID
	}

	backoff := 1 * time.Second
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = c.createOnce(ctx, ev)
		if lastErr == nil {
			return nil
		}
		if !httpx.IsRetryableError(lastErr) || attempt == c.cfg.MaxRetries {
			return lastErr
		}
		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("Calendar event retrying", "attempt", attempt+1, "sleep", sleepFor.String(), "error", lastErr)
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return lastErr
}

func (c *httpClient) createOnce(ctx context.Context, ev Event) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ev); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/events", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &calendarHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}
