// Package retrieval implements the embedding-based similarity search
// over stored lecture snippets.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/toth-cloud/toth/internal/domain"
	"github.com/toth-cloud/toth/internal/logger"
)

// Service ranks filter-matching documents by cosine similarity to the
// query and returns the top k.
type Service struct {
	gate  Gate
	repo  Repository
	embed Embedder
}

// New creates a retrieval service.
func New(gate Gate, repo Repository, embed Embedder) *Service {
	return &Service{gate: gate, repo: repo, embed: embed}
}

// Retrieve checks the availability gate, embeds the query, fetches
// every document matching the
// filters, scores each candidate, and returns at most k candidates in
// descending similarity order. Ties keep fetch order (stable sort).
// A non-positive k clamps to the default cutoff. An empty result is a
// valid empty slice, not an error.
func (s *Service) Retrieve(
	ctx context.Context, query string, k int, filters domain.Filters,
) ([]domain.ScoredCandidate, error) {
	if err := s.gate.Check(ctx); err != nil {
		return nil, err
	}

	if k <= 0 {
		k = domain.DefaultTopK
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	queryVec := embResult.Embedding

	docs, err := s.repo.FetchFiltered(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	log := logger.FromContext(ctx)

	candidates := make([]domain.ScoredCandidate, 0, len(docs))
	for _, doc := range docs {
		score, ok := domain.CosineSimilarity(queryVec, doc.Embedding)
		if !ok {
			// One corrupt or zero-norm embedding never aborts the query.
			log.Warn("skipping unscoreable document",
				zap.String("doc_id", doc.ID),
				zap.Int("embedding_len", len(doc.Embedding)),
			)
			continue
		}
		candidates = append(candidates, domain.ScoredCandidate{Similarity: score, Document: doc})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}
