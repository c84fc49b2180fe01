package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/docfill-backend/internal/clients/groq"
	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/placeholder"
	"github.com/yungbote/docfill-backend/internal/repos"
	"github.com/yungbote/docfill-backend/internal/types"
)

type InsightService interface {
	// GenerateInsights runs one generation call per placeholder, serially.
	// A failed call degrades to an advisory error string for that placeholder;
	// the remaining placeholders still proceed.
	GenerateInsights(ctx context.Context, sessionID uuid.UUID) (map[string]types.PlaceholderInsight, error)

	GetInsights(ctx context.Context, sessionID uuid.UUID) (map[string]types.PlaceholderInsight, error)
}

type insightService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.SessionRepo
	groq     groq.Client
	prompts  *promptSpec
}

func NewInsightService(db *gorm.DB, baseLog *logger.Logger, sessionRepo repos.SessionRepo, groqClient groq.Client) (InsightService, error) {
	prompts, err := loadPromptSpec()
	if err != nil {
		return nil, err
	}
	return &insightService{
		db:       db,
		log:      baseLog.With("service", "InsightService"),
		sessions: sessionRepo,
		groq:     groqClient,
		prompts:  prompts,
	}, nil
}

func (s *insightService) GenerateInsights(ctx context.Context, sessionID uuid.UUID) (map[string]types.PlaceholderInsight, error) {
	session, err := getSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	store, err := sessionStore(session)
	if err != nil {
		return nil, err
	}
	contexts, err := sessionContexts(session)
	if err != nil {
		return nil, err
	}

	insights := make(map[string]types.PlaceholderInsight, store.Len())
	for _, token := range store.Tokens() {
		insights[token] = s.insightFor(ctx, token, contexts[token])
	}

	session.Insights = mustJSON(insights)
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("save insights: %w", err)
	}
	return insights, nil
}

func (s *insightService) GetInsights(ctx context.Context, sessionID uuid.UUID) (map[string]types.PlaceholderInsight, error) {
	session, err := getSession(ctx, s.sessions, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInsights(session)
}

func (s *insightService) insightFor(ctx context.Context, token, clause string) types.PlaceholderInsight {
	msgs := []groq.Message{
		{Role: "system", Content: s.prompts.Insight.System},
		{Role: "user", Content: fmt.Sprintf("Placeholder: %s\nClause context: %s", token, clause)},
	}
	reply, err := s.groq.ChatComplete(ctx, msgs, groq.ChatOptions{
		Temperature: s.prompts.Insight.Temperature,
		MaxTokens:   s.prompts.Insight.MaxTokens,
	})
	if err != nil {
		s.log.Warn("Insight generation failed", "token", token, "error", err)
		return types.PlaceholderInsight{Description: fmt.Sprintf("insight unavailable: %v", err)}
	}

	if m, ok := placeholder.RecoverMapping(reply); ok {
		return types.PlaceholderInsight{
			Description: m["description"],
			Example:     m["example"],
		}
	}
	return types.PlaceholderInsight{Description: strings.TrimSpace(reply)}
}
