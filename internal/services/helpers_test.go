package services

import (
	"archive/zip"
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/docfill-backend/internal/clients/groq"
	"github.com/yungbote/docfill-backend/internal/logger"
	"github.com/yungbote/docfill-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// ---- in-memory repos ----

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*types.FillSession
	saveErr  error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*types.FillSession{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.FillSession) (*types.FillSession, error) {
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.FillSession, error) {
	var out []*types.FillSession
	for _, id := range sessionIDs {
		if s, ok := f.sessions[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, tx *gorm.DB, session *types.FillSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[session.ID] = session
	return nil
}

type fakeMessageRepo struct {
	rows []*types.ChatMessage
}

func (f *fakeMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.ChatMessage) ([]*types.ChatMessage, error) {
	f.rows = append(f.rows, messages...)
	return messages, nil
}

func (f *fakeMessageRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.ChatMessage, error) {
	var out []*types.ChatMessage
	for _, m := range f.rows {
		for _, id := range sessionIDs {
			if m.SessionID == id {
				out = append(out, m)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (f *fakeMessageRepo) NextSeq(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	var max int64
	for _, m := range f.rows {
		if m.SessionID == sessionID && m.Seq > max {
			max = m.Seq
		}
	}
	return max + 1, nil
}

// ---- generation fake ----

type fakeGroq struct {
	fn func(ctx context.Context, messages []groq.Message, opts groq.ChatOptions) (string, error)
}

func (f *fakeGroq) ChatComplete(ctx context.Context, messages []groq.Message, opts groq.ChatOptions) (string, error) {
	return f.fn(ctx, messages, opts)
}

// ---- fixtures ----

func newTestSession(tokens []string, contexts, values map[string]string) *types.FillSession {
	now := time.Now().UTC()
	return &types.FillSession{
		ID:           uuid.New(),
		FileName:     "contract.docx",
		Placeholders: mustJSON(tokens),
		Contexts:     mustJSON(contexts),
		Values:       mustJSON(values),
		Insights:     datatypes.JSON([]byte(`{}`)),
		Status:       types.SessionStatusCollecting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// buildTestDocx packs body XML (paragraphs/tables) into a minimal .docx zip.
func buildTestDocx(t *testing.T, body string) []byte {
	t.Helper()
	header := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	docXML := header +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/></Types>`},
		{"word/document.xml", docXML},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("create %s: %v", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			t.Fatalf("write %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func paragraph(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}
