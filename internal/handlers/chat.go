package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/services"
)

type ChatHandler struct {
	log         *logger.Logger
	chatService services.ChatService
}

func NewChatHandler(log *logger.Logger, svc services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:         log.With("handler", "ChatHandler"),
		chatService: svc,
	}
}

type sendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/sessions/:id/messages
// One synchronous conversational turn.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		// Generation-service failures surface here; the turn is not silently
		// skipped and the same user message may be retried.
		h.log.Error("Chat turn failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusBadGateway, "generation_failed", err)
		return
	}

	RespondOK(c, result)
}

// GET /api/sessions/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		h.log.Error("List messages failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	RespondOK(c, gin.H{"messages": messages})
}
