package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/services"
)

type InsightHandler struct {
	log            *logger.Logger
	insightService services.InsightService
}

func NewInsightHandler(log *logger.Logger, svc services.InsightService) *InsightHandler {
	return &InsightHandler{
		log:            log.With("handler", "InsightHandler"),
		insightService: svc,
	}
}

// POST /api/sessions/:id/insights
// Runs the per-placeholder analysis pass and stores the advisories.
func (h *InsightHandler) Generate(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	insights, err := h.insightService.GenerateInsights(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		h.log.Error("Insight generation failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	RespondOK(c, gin.H{"insights": insights})
}

// GET /api/sessions/:id/insights
func (h *InsightHandler) Get(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	insights, err := h.insightService.GetInsights(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		h.log.Error("Insight fetch failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	RespondOK(c, gin.H{"insights": insights})
}
