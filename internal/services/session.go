package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/docfill-backend/internal/docx"
	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/placeholder"
	"github.com/yungbote/docfill-backend/internal/repos"
	"github.com/yungbote/docfill-backend/internal/types"
)

var (
	// ErrNoPlaceholders is terminal for an upload: without placeholders there
	// is nothing to collect or substitute.
	ErrNoPlaceholders = errors.New("no placeholders found in document")

	ErrSessionNotFound = errors.New("session not found")

	ErrInvalidDocument = errors.New("invalid document")
)

type SessionDetail struct {
	Session *types.FillSession `json:"session"`
	Missing []string           `json:"missing"`
	Filled  int                `json:"filled"`
	Total   int                `json:"total"`
	Ready   bool               `json:"ready"`
}

type SessionService interface {
	CreateFromUpload(ctx context.Context, fileName string, data []byte) (*types.FillSession, error)
	GetDetail(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error)
}

type sessionService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.SessionRepo
	radius   int
}

// NewSessionService builds the session service. radius is the number of
// neighboring paragraphs on each side included in a placeholder's context
// snippet.
func NewSessionService(db *gorm.DB, baseLog *logger.Logger, sessionRepo repos.SessionRepo, radius int) SessionService {
	return &sessionService{
		db:       db,
		log:      baseLog.With("service", "SessionService"),
		sessions: sessionRepo,
		radius:   radius,
	}
}

func (s *sessionService) CreateFromUpload(ctx context.Context, fileName string, data []byte) (*types.FillSession, error) {
	doc, err := docx.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	paragraphs := doc.ParagraphTexts()
	scanner := placeholder.NewScanner(placeholder.WithRadius(s.radius))
	result := scanner.Scan(paragraphs)
	if len(result.Tokens) == 0 {
		return nil, ErrNoPlaceholders
	}

	// Tokens that only appear in table cells have no context and are not
	// collected conversationally; surface that up front.
	all := placeholder.ScanAll(paragraphs, doc.CellTexts())
	if extra := len(all) - len(result.Tokens); extra > 0 {
		s.log.Warn("Placeholders found only in table cells will not be collected",
			"file_name", fileName,
			"count", extra,
		)
	}

	store := placeholder.NewStore(result.Tokens)
	now := time.Now().UTC()
	session := &types.FillSession{
		ID:           uuid.New(),
		FileName:     fileName,
		DocxBytes:    data,
		Placeholders: mustJSON(store.Tokens()),
		Contexts:     mustJSON(result.Contexts),
		Values:       mustJSON(store.Values()),
		Insights:     datatypes.JSON([]byte(`{}`)),
		Status:       types.SessionStatusCollecting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.sessions.Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("Session created",
		"session_id", session.ID,
		"file_name", fileName,
		"placeholders", store.Len(),
	)
	return session, nil
}

func (s *sessionService) GetDetail(ctx context.Context, sessionID uuid.UUID) (*SessionDetail, error) {
	session, err := getSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}

	store, err := sessionStore(session)
	if err != nil {
		return nil, err
	}

	missing := store.Missing()
	if missing == nil {
		missing = []string{}
	}
	return &SessionDetail{
		Session: session,
		Missing: missing,
		Filled:  store.FilledCount(),
		Total:   store.Len(),
		Ready:   len(missing) == 0,
	}, nil
}

// ---- shared session helpers ----

func getSession(ctx context.Context, sessionRepo repos.SessionRepo, sessionID uuid.UUID) (*types.FillSession, error) {
	rows, err := sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0] == nil {
		return nil, ErrSessionNotFound
	}
	return rows[0], nil
}

// sessionStore rebuilds the ordered value store from a session's persisted
// token list and value mapping.
func sessionStore(session *types.FillSession) (*placeholder.Store, error) {
	var tokens []string
	if err := json.Unmarshal(session.Placeholders, &tokens); err != nil {
		return nil, fmt.Errorf("decode placeholders: %w", err)
	}
	var values map[string]string
	if err := json.Unmarshal(session.Values, &values); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}
	return placeholder.NewStoreWithValues(tokens, values), nil
}

func sessionContexts(session *types.FillSession) (map[string]string, error) {
	var contexts map[string]string
	if err := json.Unmarshal(session.Contexts, &contexts); err != nil {
		return nil, fmt.Errorf("decode contexts: %w", err)
	}
	return contexts, nil
}

func sessionInsights(session *types.FillSession) (map[string]types.PlaceholderInsight, error) {
	insights := map[string]types.PlaceholderInsight{}
	if len(session.Insights) == 0 {
		return insights, nil
	}
	if err := json.Unmarshal(session.Insights, &insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	return insights, nil
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`null`))
	}
	return datatypes.JSON(b)
}
