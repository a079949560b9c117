package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/services"
	"github.com/yungbote/noteable-backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func nopLog() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// stubNoteService returns canned values; err wins over data when set.
type stubNoteService struct {
	note    *types.Note
	notes   []*types.Note
	results []types.RelevanceResult
	err     error

	lastCreate services.CreateNoteInput
}

func (s *stubNoteService) Create(_ context.Context, in services.CreateNoteInput) (*types.Note, error) {
	s.lastCreate = in
	if s.err != nil {
		return nil, s.err
	}
	return s.note, nil
}

func (s *stubNoteService) List(context.Context, repos.NoteListFilter) ([]*types.Note, error) {
	return s.notes, s.err
}

func (s *stubNoteService) Get(context.Context, uuid.UUID) (*types.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.note, nil
}

func (s *stubNoteService) Update(context.Context, uuid.UUID, services.UpdateNoteInput) (*types.Note, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.note, nil
}

func (s *stubNoteService) Delete(context.Context, uuid.UUID) error {
	return s.err
}

func (s *stubNoteService) Search(context.Context, string) ([]types.RelevanceResult, error) {
	return s.results, s.err
}

func noteRouter(svc services.NoteService) *gin.Engine {
	h := NewNoteHandler(nopLog(), svc)
	r := gin.New()
	r.GET("/api/notes", h.List)
	r.POST("/api/notes", h.Create)
	r.POST("/api/notes/search", h.Search)
	r.GET("/api/notes/:id", h.Get)
	r.PUT("/api/notes/:id", h.Update)
	r.DELETE("/api/notes/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNoteCreateHandler(t *testing.T) {
	svc := &stubNoteService{note: &types.Note{ID: uuid.New(), Title: "t", Content: "buy milk"}}
	r := noteRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/notes", `{"content":"buy milk","category":"errands"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if svc.lastCreate.Content != "buy milk" || svc.lastCreate.Category != "errands" {
		t.Fatalf("create input = %+v", svc.lastCreate)
	}
}

func TestNoteCreateHandlerMissingContent(t *testing.T) {
	r := noteRouter(&stubNoteService{})

	w := doJSON(t, r, http.MethodPost, "/api/notes", `{"title":"no content"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "invalid_body" {
		t.Fatalf("error code = %q", envelope.Error.Code)
	}
}

func TestNoteCreateHandlerEmptyContent(t *testing.T) {
	r := noteRouter(&stubNoteService{err: services.ErrEmptyContent})

	w := doJSON(t, r, http.MethodPost, "/api/notes", `{"content":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "empty_content") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestNoteGetHandler(t *testing.T) {
	id := uuid.New()
	svc := &stubNoteService{note: &types.Note{ID: id, Content: "hello"}}
	r := noteRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/notes/"+id.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// Malformed id short-circuits before the service.
	w = doJSON(t, r, http.MethodGet, "/api/notes/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestNoteGetHandlerNotFound(t *testing.T) {
	r := noteRouter(&stubNoteService{err: repos.ErrNoteNotFound})

	w := doJSON(t, r, http.MethodGet, "/api/notes/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestNoteListHandlerBadArchivedFlag(t *testing.T) {
	r := noteRouter(&stubNoteService{})

	w := doJSON(t, r, http.MethodGet, "/api/notes?isArchived=maybe", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestNoteDeleteHandlerNotFound(t *testing.T) {
	r := noteRouter(&stubNoteService{err: repos.ErrNoteNotFound})

	w := doJSON(t, r, http.MethodDelete, "/api/notes/"+uuid.NewString(), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestNoteSearchHandler(t *testing.T) {
	svc := &stubNoteService{results: []types.RelevanceResult{
		{Note: &types.Note{ID: uuid.New(), Content: "project notes"}, RelevanceScore: 4},
	}}
	r := noteRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/notes/search", `{"query":"project"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Results []types.RelevanceResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].RelevanceScore != 4 {
		t.Fatalf("results = %+v", body.Results)
	}

	// Query is required.
	w = doJSON(t, r, http.MethodPost, "/api/notes/search", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/healthcheck", HealthCheck)

	w := doJSON(t, r, http.MethodGet, "/healthcheck", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}
