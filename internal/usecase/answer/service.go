// Package answer orchestrates one retrieval-grounded generation turn:
// gate check, retrieval, context assembly, prompt construction, and the
// provider call with response normalization.
package answer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/logger"
)

// Service is the generation orchestrator.
type Service struct {
	gate      Gate
	retriever Retriever
	completer Completer
	audit     *zap.Logger
}

// New creates an answer service. audit receives every fully assembled
// prompt; failure to emit never fails the request.
func New(gate Gate, retriever Retriever, completer Completer, audit *zap.Logger) *Service {
	if audit == nil {
		audit = zap.NewNop()
	}
	return &Service{gate: gate, retriever: retriever, completer: completer, audit: audit}
}

// Answer runs one question through the full pipeline and returns the
// outward-facing answer text. Gate and retrieval failures short-circuit
// before any provider call; provider transport and parse failures are
// converted to the fixed localized phrases, never the raw error.
func (s *Service) Answer(
	ctx context.Context, query string, k int, filters domain.Filters,
) (string, error) {
	if err := s.gate.Check(ctx); err != nil {
		return "", err
	}

	candidates, err := s.retriever.Retrieve(ctx, query, k, filters)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	// Nothing relevant: terminal sentinel, and no generation call at all.
	if len(candidates) == 0 {
		return domain.MsgNotFound, nil
	}

	contextBlock := AssembleContext(candidates)
	prompt := BuildPrompt(contextBlock, query)

	s.audit.Info("generation prompt assembled",
		zap.Int("candidates", len(candidates)),
		zap.String("prompt", prompt),
	)

	text, err := s.completer.Complete(ctx, systemInstruction, prompt)
	if err != nil {
		logger.FromContext(ctx).Error("generation failed", zap.Error(err))
		if errors.Is(err, domain.ErrGenerationParse) {
			return domain.MsgGenerationUnparsable, nil
		}
		return domain.MsgGenerationFailed, nil
	}

	return text, nil
}
