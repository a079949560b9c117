package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/services"
)

type NoteHandler struct {
	log         *logger.Logger
	noteService services.NoteService
}

func NewNoteHandler(log *logger.Logger, noteService services.NoteService) *NoteHandler {
	return &NoteHandler{
		log:         log.With("handler", "NoteHandler"),
		noteService: noteService,
	}
}

func (h *NoteHandler) List(c *gin.Context) {
	filter := repos.NoteListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("isArchived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_is_archived", err)
			return
		}
		filter.IsArchived = &archived
	}

	notes, err := h.noteService.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("List notes failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_notes_failed", err)
		return
	}
	RespondOK(c, notes)
}

func (h *NoteHandler) Get(c *gin.Context) {
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
		h.log.Error("Get note failed", "note_id", id, "error", err)
		RespondError(c, http.StatusInternalServerError, "get_note_failed", err)
		return
	}
	RespondOK(c, note)
}

type createNoteRequest struct {
	Title              string `json:"title"`
	Content            string `json:"content" binding:"required"`
	Category           string `json:"category"`
	AudioTranscription string `json:"audioTranscription"`
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	note, err := h.noteService.Create(c.Request.Context(), services.CreateNoteInput{
		Title:              req.Title,
		Content:            req.Content,
		Category:           req.Category,
		AudioTranscription: req.AudioTranscription,
	})
	if errors.Is(err, services.ErrEmptyContent) {
		RespondError(c, http.StatusBadRequest, "empty_content", err)
		return
	}
	if err != nil {
		h.log.Error("Create note failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_note_failed", err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

type updateNoteRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Category   *string `json:"category"`
	IsArchived *bool   `json:"isArchived"`
}

func (h *NoteHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_note_id", err)
		return
	}
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	note, err := h.noteService.Update(c.Request.Context(), id, services.UpdateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		IsArchived: req.IsArchived,
	})
	if errors.Is(err, repos.ErrNoteNotFound) {
		RespondError(c, http.StatusNotFound, "note_not_found", err)
		return
	}
	if err != nil {
		h.log.Error("Update note failed", "note_id", id, "error", err)
		RespondError(c, http.StatusInternalServerError, "update_note_failed", err)
		return
	}
	RespondOK(c, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_note_id", err)
		return
	}
	if err := h.noteService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repos.ErrNoteNotFound) {
			RespondError(c, http.StatusNotFound, "note_not_found", err)
			return
		}
		h.log.Error("Delete note failed", "note_id", id, "error", err)
		RespondError(c, http.StatusInternalServerError, "delete_note_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "Note deleted successfully"})
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *NoteHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	results, err := h.noteService.Search(c.Request.Context(), req.Query)
	if err != nil {
		h.log.Error("Note search failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}
