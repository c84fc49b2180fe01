package services

import (
	"context"
	"encoding/json"
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

// TurnResult is the outcome of one conversational turn: the assistant reply
// (with the deterministic missing-keys suffix already appended), the updated
// mapping, and what is still unfilled.
type TurnResult struct {
	Reply   string            `json:"reply"`
	Values  map[string]string `json:"values"`
	Missing []string          `json:"missing"`
	Ready   bool              `json:"ready"`
}

type ChatService interface {
	// SendMessage processes one user turn synchronously: it persists the user
	// message, calls the generation service with the full history, fans any
	// recovered key/value pairs out into the session's value store, and
	// persists the assistant reply. A generation-service failure is returned
	// as-is; the user message stays in the log so the caller can retry it.
	SendMessage(ctx context.Context, sessionID uuid.UUID, content string) (*TurnResult, error)

	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error)
}

type chatService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions repos.SessionRepo
	messages repos.ChatMessageRepo
	groq     groq.Client
	prompts  *promptSpec
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.SessionRepo,
	messageRepo repos.ChatMessageRepo,
	groqClient groq.Client,
) (ChatService, error) {
	prompts, err := loadPromptSpec()
	if err != nil {
		return nil, err
	}
	return &chatService{
		db:       db,
		log:      baseLog.With("service", "ChatService"),
		sessions: sessionRepo,
		messages: messageRepo,
		groq:     groqClient,
		prompts:  prompts,
	}, nil
}

func (s *chatService) SendMessage(ctx context.Context, sessionID uuid.UUID, content string) (*TurnResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content required")
	}

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
	insights, err := sessionInsights(session)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.GetBySessionIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	seq, err := s.messages.NextSeq(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}

	userMsg := &types.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Seq:       seq,
		Role:      "user",
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.messages.Create(ctx, nil, []*types.ChatMessage{userMsg}); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	outbound := buildTurnMessage(store, contexts, insights, content)
	msgs := make([]groq.Message, 0, len(history)+2)
	msgs = append(msgs, groq.Message{Role: "system", Content: s.prompts.Chat.System})
	for _, m := range history {
		msgs = append(msgs, groq.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, groq.Message{Role: "user", Content: outbound})

	reply, err := s.groq.ChatComplete(ctx, msgs, groq.ChatOptions{
		Temperature: s.prompts.Chat.Temperature,
		MaxTokens:   s.prompts.Chat.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	if pairs, ok := placeholder.RecoverMapping(reply); ok {
		updated := placeholder.Apply(store, pairs)
		s.log.Debug("Applied recovered mapping", "session_id", sessionID, "pairs", len(pairs), "updated", updated)
	} else {
		s.log.Debug("No mapping recovered from reply", "session_id", sessionID)
	}

	// The suffix is computed locally from the store, never trusted from the
	// model's own text, so the "done" signal is always accurate.
	missing := store.Missing()
	full := reply + missingSuffix(missing)

	assistantMsg := &types.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		Seq:       seq + 1,
		Role:      "assistant",
		Content:   full,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.messages.Create(ctx, nil, []*types.ChatMessage{assistantMsg}); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	session.Values = mustJSON(store.Values())
	if len(missing) == 0 {
		session.Status = types.SessionStatusReady
	} else {
		session.Status = types.SessionStatusCollecting
	}
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if missing == nil {
		missing = []string{}
	}
	return &TurnResult{
		Reply:   full,
		Values:  store.Values(),
		Missing: missing,
		Ready:   len(missing) == 0,
	}, nil
}

func (s *chatService) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]*types.ChatMessage, error) {
	if _, err := getSession(ctx, s.sessions, sessionID); err != nil {
		return nil, err
	}
	return s.messages.GetBySessionIDs(ctx, nil, []uuid.UUID{sessionID})
}

// buildTurnMessage embeds the live session state around the verbatim user
// message: the full current mapping, the missing list, and each placeholder's
// context (plus its insight description when one exists).
func buildTurnMessage(store *placeholder.Store, contexts map[string]string, insights map[string]types.PlaceholderInsight, userMessage string) string {
	valuesJSON, _ := json.Marshal(store.Values())
	missing := store.Missing()
	if missing == nil {
		missing = []string{}
	}
	missingJSON, _ := json.Marshal(missing)

	var contextLines []string
	for _, token := range store.Tokens() {
		line := fmt.Sprintf("%s: %s", token, contexts[token])
		if ins, ok := insights[token]; ok && strings.TrimSpace(ins.Description) != "" {
			line += fmt.Sprintf(" (meaning: %s)", ins.Description)
		}
		contextLines = append(contextLines, line)
	}

	return fmt.Sprintf(
		"Current mapping: %s\n\nMissing: %s\n\nPlaceholder contexts:\n%s\n\nUser message: %s",
		valuesJSON,
		missingJSON,
		strings.Join(contextLines, "\n"),
		userMessage,
	)
}

func missingSuffix(missing []string) string {
	if len(missing) > 0 {
		return "\n\nRemaining placeholders: " + strings.Join(missing, ", ")
	}
	return "\n\nAll placeholders filled. You can now generate your final document."
}
