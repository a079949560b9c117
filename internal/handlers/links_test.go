package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/types"
)

type stubLinkService struct {
	bundle types.EntityLinkBundle

	batch chan struct {
		count int
		force bool
	}
}

func newStubLinkService() *stubLinkService {
	return &stubLinkService{
		bundle: types.EmptyEntityLinkBundle(),
		batch: make(chan struct {
			count int
			force bool
		}, 1),
	}
}

func (s *stubLinkService) GetForNote(context.Context, *types.Note) types.EntityLinkBundle {
	return s.bundle
}

func (s *stubLinkService) GenerateForNote(context.Context, *types.Note) types.EntityLinkBundle {
	return s.bundle
}

func (s *stubLinkService) GenerateForAll(_ context.Context, notes []*types.Note, force bool) {
	s.batch <- struct {
		count int
		force bool
	}{len(notes), force}
}

func linkRouter(noteSvc *stubNoteService, linkSvc *stubLinkService) *gin.Engine {
	h := NewLinkHandler(nopLog(), noteSvc, linkSvc)
	r := gin.New()
	r.GET("/api/notes/:id/links", h.GetForNote)
	r.POST("/api/links/refresh", h.Refresh)
	return r
}

func TestLinkGetForNote(t *testing.T) {
	id := uuid.New()
	linkSvc := newStubLinkService()
	linkSvc.bundle.Places = append(linkSvc.bundle.Places, types.EntityLink{Name: "Tokyo"})
	r := linkRouter(&stubNoteService{note: &types.Note{ID: id, Content: "tokyo"}}, linkSvc)

	w := doJSON(t, r, http.MethodGet, "/api/notes/"+id.String()+"/links", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	// All nine category keys are serialized even when empty.
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range types.LinkCategories {
		if _, ok := body[key]; !ok {
			t.Fatalf("response missing category %q: %s", key, w.Body.String())
		}
	}
}

func TestLinkGetForNoteMissingNote(t *testing.T) {
	r := linkRouter(&stubNoteService{err: repos.ErrNoteNotFound}, newStubLinkService())

	w := doJSON(t, r, http.MethodGet, "/api/notes/"+uuid.NewString()+"/links", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestLinkRefreshQueuesBatch(t *testing.T) {
	noteSvc := &stubNoteService{notes: []*types.Note{
		{ID: uuid.New(), Content: "a"},
		{ID: uuid.New(), Content: "b"},
	}}
	linkSvc := newStubLinkService()
	r := linkRouter(noteSvc, linkSvc)

	w := doJSON(t, r, http.MethodPost, "/api/links/refresh", `{"force":true}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var resp struct {
		Queued int  `json:"queued"`
		Force  bool `json:"force"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Queued != 2 || !resp.Force {
		t.Fatalf("response = %+v", resp)
	}

	select {
	case got := <-linkSvc.batch:
		if got.count != 2 || !got.force {
			t.Fatalf("batch = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("batch enrichment never started")
	}
}

func TestLinkRefreshWithoutBody(t *testing.T) {
	linkSvc := newStubLinkService()
	r := linkRouter(&stubNoteService{}, linkSvc)

	w := doJSON(t, r, http.MethodPost, "/api/links/refresh", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}

	select {
	case got := <-linkSvc.batch:
		if got.force {
			t.Fatalf("absent body must mean force=false")
		}
	case <-time.After(time.Second):
		t.Fatalf("batch enrichment never started")
	}
}
