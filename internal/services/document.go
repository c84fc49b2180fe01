package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/docfill-backend/internal/docx"
	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/repos"
)

const generatedFileName = "filled_document.docx"

type DocumentService interface {
	// Generate substitutes the session's current mapping into a fresh parse of
	// the original document bytes, so repeated calls never compound
	// substitutions. A partial mapping is accepted: unresolved placeholders
	// are replaced with the empty string.
	Generate(ctx context.Context, sessionID uuid.UUID) (string, []byte, error)
}

type documentService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.SessionRepo
}

func NewDocumentService(db *gorm.DB, baseLog *logger.Logger, sessionRepo repos.SessionRepo) DocumentService {
	return &documentService{
		db:       db,
		log:      baseLog.With("service", "DocumentService"),
		sessions: sessionRepo,
	}
}

func (s *documentService) Generate(ctx context.Context, sessionID uuid.UUID) (string, []byte, error) {
	session, err := getSession(ctx, s.sessions, sessionID)
	if err != nil {
		return "", nil, err
	}
	store, err := sessionStore(session)
	if err != nil {
		return "", nil, err
	}

	doc, err := docx.Parse(session.DocxBytes)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.Substitute(store.Tokens(), store.Values())

	out, err := doc.Save()
	if err != nil {
		return "", nil, fmt.Errorf("serialize document: %w", err)
	}

	s.log.Info("Document generated",
		"session_id", sessionID,
		"filled", store.FilledCount(),
		"total", store.Len(),
	)
	return generatedFileName, out, nil
}
