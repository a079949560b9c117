package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/services"
)

type LinkHandler struct {
	log         *logger.Logger
	noteService services.NoteService
	linkService services.EntityLinkService
}

func NewLinkHandler(log *logger.Logger, noteService services.NoteService, linkService services.EntityLinkService) *LinkHandler {
	return &LinkHandler{
		log:         log.With("handler", "LinkHandler"),
		noteService: noteService,
		linkService: linkService,
	}
}

// GetForNote returns the cached bundle for a note, generating one on
// first access. Enrichment degrades instead of failing, so this endpoint
// only errors when the note itself is missing.
func (h *LinkHandler) GetForNote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_note_id", err)
		return
	}
	note, err := h.noteService.Get(c.Request.Context(), id)
	if errors.Is(err, repos.ErrNoteNotFound) {
		RespondError(c, http.StatusNotFound, "note_not_found", err)
		return
	}
	if err != nil {
		h.log.Error("Get note for links failed", "note_id", id, "error", err)
		RespondError(c, http.StatusInternalServerError, "get_note_failed", err)
		return
	}
	RespondOK(c, h.linkService.GetForNote(c.Request.Context(), note))
}

type refreshLinksRequest struct {
	Force bool `json:"force"`
}

// Refresh kicks off batch enrichment of the whole corpus. The batch is
// paced and serialized, so it runs in the background; the handler returns
// immediately with the corpus size.
func (h *LinkHandler) Refresh(c *gin.Context) {
	var req refreshLinksRequest
	// An absent or empty body means force=false.
	_ = c.ShouldBindJSON(&req)

	notes, err := h.noteService.List(c.Request.Context(), repos.NoteListFilter{})
	if err != nil {
		h.log.Error("List notes for link refresh failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_notes_failed", err)
		return
	}

	// The batch outlives the request; it must not inherit its cancellation.
	go h.linkService.GenerateForAll(context.Background(), notes, req.Force)

	c.JSON(http.StatusAccepted, gin.H{"queued": len(notes), "force": req.Force})
}
