package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/docfill-backend/internal/docx"
)

func TestGenerateSubstitutesCurrentMapping(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDocumentService(nil, testLogger(t), repo)

	session := newTestSession(
		[]string{"[Company Name]", "[Effective Date]"},
		map[string]string{},
		map[string]string{"[Company Name]": "Acme Corp", "[Effective Date]": "Nov 1, 2025"},
	)
	session.DocxBytes = buildTestDocx(t, paragraph("Made by [Company Name], effective [Effective Date]."))
	repo.sessions[session.ID] = session

	name, data, err := svc.Generate(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if name != "filled_document.docx" {
		t.Fatalf("name=%q", name)
	}

	doc, err := docx.Parse(data)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	want := []string{"Made by Acme Corp, effective Nov 1, 2025."}
	if got := doc.ParagraphTexts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("paragraphs=%v, want %v", got, want)
	}
}

func TestGenerateAlwaysStartsFromOriginalBytes(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDocumentService(nil, testLogger(t), repo)

	session := newTestSession(
		[]string{"[Name]"},
		map[string]string{},
		map[string]string{"[Name]": "first value"},
	)
	session.DocxBytes = buildTestDocx(t, paragraph("Hello [Name]."))
	repo.sessions[session.ID] = session

	if _, _, err := svc.Generate(context.Background(), session.ID); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	// A corrected value must fully replace the old one on the next generate.
	session.Values = mustJSON(map[string]string{"[Name]": "second value"})
	_, data, err := svc.Generate(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	doc, err := docx.Parse(data)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got := doc.ParagraphTexts()[0]; got != "Hello second value." {
		t.Fatalf("paragraph=%q", got)
	}
}

func TestGeneratePartialMappingBlanksUnfilled(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDocumentService(nil, testLogger(t), repo)

	session := newTestSession(
		[]string{"[A]", "[B]"},
		map[string]string{},
		map[string]string{"[A]": "done", "[B]": ""},
	)
	session.DocxBytes = buildTestDocx(t, paragraph("A=[A] B=[B] end."))
	repo.sessions[session.ID] = session

	_, data, err := svc.Generate(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	doc, err := docx.Parse(data)
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got := doc.ParagraphTexts()[0]; got != "A=done B= end." {
		t.Fatalf("paragraph=%q", got)
	}
}

func TestGenerateUnknownSession(t *testing.T) {
	svc := NewDocumentService(nil, testLogger(t), newFakeSessionRepo())

	if _, _, err := svc.Generate(context.Background(), uuid.New()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err=%v, want ErrSessionNotFound", err)
	}
}
