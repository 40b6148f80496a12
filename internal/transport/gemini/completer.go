// Package gemini talks to the hosted Google generative language REST API.
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Completer is a generation provider backed by the generateContent API.
type Completer struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	logger     *zap.Logger
}

// Config holds the Gemini provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompleter creates a Gemini chat provider.
func NewCompleter(cfg *Config) *Completer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Completer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete implements domain.Completer against models/<model>:generateContent.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: user}}}},
	}
	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", c.model, "error").Inc()
		return "", fmt.Errorf("gemini request: %v: %w", err, domain.ErrUpstream)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", c.model, "error").Inc()
		return "", fmt.Errorf("gemini status %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", c.model, "error").Inc()
		return "", fmt.Errorf("decode gemini response: %v: %w", err, domain.ErrGenerationParse)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues("gemini", c.model, "error").Inc()
		return "", fmt.Errorf("empty gemini response: %w", domain.ErrGenerationParse)
	}

	metrics.GenerationRequestsTotal.WithLabelValues("gemini", c.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues("gemini", c.model).Observe(time.Since(start).Seconds())

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
