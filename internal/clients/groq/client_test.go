package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/docfill-backend/internal/logger"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestChatCompleteRequestShape(t *testing.T) {
	var captured chatRequest
	var gotPath, gotAuth string

	httpClient := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`), nil
	})}

	c := NewWithHTTPClient(testLogger(t), "https://example.test/openai", "sk-test", "llama-3.3-70b-versatile", 0, httpClient)

	got, err := c.ChatComplete(context.Background(), []Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}, ChatOptions{Temperature: 0.3, MaxTokens: 800})
	if err != nil {
		t.Fatalf("ChatComplete: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("content=%q", got)
	}
	if gotPath != "/openai/v1/chat/completions" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth=%q", gotAuth)
	}
	if captured.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("model=%q", captured.Model)
	}
	if captured.Temperature != 0.3 || captured.MaxTokens != 800 {
		t.Fatalf("options not forwarded: temp=%v max_tokens=%d", captured.Temperature, captured.MaxTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages not forwarded: %+v", captured.Messages)
	}
}

func TestChatCompleteRetriesOn429(t *testing.T) {
	var calls int32
	httpClient := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			resp := jsonResponse(429, `{"error":"rate limited"}`)
			resp.Header.Set("Retry-After", "1")
			return resp, nil
		}
		return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"recovered"}}]}`), nil
	})}

	c := NewWithHTTPClient(testLogger(t), "https://example.test", "sk-test", "m", 2, httpClient)

	got, err := c.ChatComplete(context.Background(), []Message{{Role: "user", Content: "hi"}}, ChatOptions{})
	if err != nil {
		t.Fatalf("ChatComplete: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("content=%q", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls=%d, want 2", n)
	}
}

func TestChatCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	httpClient := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(400, `{"error":"bad request"}`), nil
	})}

	c := NewWithHTTPClient(testLogger(t), "https://example.test", "sk-test", "m", 3, httpClient)

	if _, err := c.ChatComplete(context.Background(), []Message{{Role: "user", Content: "hi"}}, ChatOptions{}); err == nil {
		t.Fatalf("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls=%d, want 1", n)
	}
}

func TestChatCompleteRequiresMessages(t *testing.T) {
	c := NewWithHTTPClient(testLogger(t), "https://example.test", "sk-test", "m", 0, http.DefaultClient)
	if _, err := c.ChatComplete(context.Background(), nil, ChatOptions{}); err == nil {
		t.Fatalf("expected error for empty messages")
	}
}

func TestChatCompleteNoChoices(t *testing.T) {
	httpClient := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"choices":[]}`), nil
	})}

	c := NewWithHTTPClient(testLogger(t), "https://example.test", "sk-test", "m", 0, httpClient)
	if _, err := c.ChatComplete(context.Background(), []Message{{Role: "user", Content: "hi"}}, ChatOptions{}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if _, err := NewClient(testLogger(t)); err == nil {
		t.Fatalf("expected error without GROQ_API_KEY")
	}
}
