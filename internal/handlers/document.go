package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/services"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type DocumentHandler struct {
	log             *logger.Logger
	documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, svc services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		log:             log.With("handler", "DocumentHandler"),
		documentService: svc,
	}
}

// POST /api/sessions/:id/generate
// Substitutes the current mapping into a fresh copy of the original document
// and streams the result as a download.
func (h *DocumentHandler) Generate(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	fileName, data, err := h.documentService.Generate(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		h.log.Error("Document generation failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, docxMIME, data)
}
