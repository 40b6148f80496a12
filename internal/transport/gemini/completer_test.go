package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterGenerationMetrics()
	os.Exit(m.Run())
}

func TestComplete(t *testing.T) {
	var gotReq generateRequest
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotKey = r.Header.Get("X-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: "คำตอบ"}}}})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewCompleter(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		Logger:  zap.NewNop(),
	})

	answer, err := c.Complete(context.Background(), "system prompt", "user question")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if answer != "คำตอบ" {
		t.Errorf("answer = %q", answer)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}

	if gotReq.SystemInstruction == nil || gotReq.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Errorf("system instruction = %+v", gotReq.SystemInstruction)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "user question" {
		t.Errorf("contents = %+v", gotReq.Contents)
	}
}

func TestComplete_NoSystemInstructionWhenEmpty(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := generateResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content content `json:"content"`
		}{Content: content{Parts: []part{{Text: "ok"}}}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	if _, err := c.Complete(context.Background(), "", "user question"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if gotReq.SystemInstruction != nil {
		t.Errorf("expected no system_instruction, got %+v", gotReq.SystemInstruction)
	}
}

func TestComplete_NonOKStatusIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := c.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestComplete_EmptyCandidatesIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := c.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, domain.ErrGenerationParse) {
		t.Fatalf("expected ErrGenerationParse, got %v", err)
	}
}

func TestComplete_BadBodyIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!doctype html>"))
	}))
	defer server.Close()

	c := NewCompleter(&Config{APIKey: "k", BaseURL: server.URL, Model: "m", Logger: zap.NewNop()})

	_, err := c.Complete(context.Background(), "sys", "user")
	if !errors.Is(err, domain.ErrGenerationParse) {
		t.Fatalf("expected ErrGenerationParse, got %v", err)
	}
}
