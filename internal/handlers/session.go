package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/services"
)

type SessionHandler struct {
	log            *logger.Logger
	sessionService services.SessionService
}

func NewSessionHandler(log *logger.Logger, svc services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:            log.With("handler", "SessionHandler"),
		sessionService: svc,
	}
}

// POST /api/sessions
// Multipart upload of a .docx; scans placeholders and opens a fill session.
func (h *SessionHandler) Create(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}

	session, err := h.sessionService.CreateFromUpload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPlaceholders):
			RespondError(c, http.StatusUnprocessableEntity, "no_placeholders", err)
		case errors.Is(err, services.ErrInvalidDocument):
			RespondError(c, http.StatusBadRequest, "invalid_document", err)
		default:
			h.log.Error("Session create failed", "error", err)
			RespondError(c, http.StatusInternalServerError, "internal", err)
		}
		return
	}

	RespondOK(c, gin.H{"session": session})
}

// GET /api/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	detail, err := h.sessionService.GetDetail(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			RespondError(c, http.StatusNotFound, "session_not_found", err)
			return
		}
		h.log.Error("Session detail failed", "session_id", sessionID, "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", err)
		return
	}

	RespondOK(c, detail)
}

func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return uuid.Nil, false
	}
	return id, true
}
