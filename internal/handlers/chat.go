package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:         log.With("handler", "ChatHandler"),
		chatService: chatService,
	}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	reply, ragContext, err := h.chatService.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error("Chat failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "chat_failed", err)
		return
	}
	RespondOK(c, gin.H{"reply": reply, "context": ragContext})
}

func (h *ChatHandler) History(c *gin.Context) {
	RespondOK(c, gin.H{"messages": h.chatService.History()})
}
