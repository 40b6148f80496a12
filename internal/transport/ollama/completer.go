// Package ollama talks to a local Ollama server over its REST chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/metrics"
)

const defaultBaseURL = "http://localhost:11434"

// Completer is a generation provider backed by a local model-serving
// endpoint (Ollama /api/chat, non-streaming).
type Completer struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *zap.Logger
}

// Config holds the Ollama provider settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompleter creates an Ollama chat provider.
func NewCompleter(cfg *Config) *Completer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Completer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		model:      cfg.Model,
		logger:     cfg.Logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Complete implements domain.Completer against POST /api/chat.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", c.model, "error").Inc()
		return "", fmt.Errorf("ollama request: %v: %w", err, domain.ErrUpstream)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", c.model, "error").Inc()
		return "", fmt.Errorf("ollama status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", c.model, "error").Inc()
		return "", fmt.Errorf("decode ollama response: %v: %w", err, domain.ErrGenerationParse)
	}
	if parsed.Message.Content == "" {
		metrics.GenerationRequestsTotal.WithLabelValues("ollama", c.model, "error").Inc()
		return "", fmt.Errorf("empty ollama response: %w", domain.ErrGenerationParse)
	}

	metrics.GenerationRequestsTotal.WithLabelValues("ollama", c.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues("ollama", c.model).Observe(time.Since(start).Seconds())

	return parsed.Message.Content, nil
}
