package retrieval

import (
	"context"

	"github.com/toth-cloud/toth/internal/domain"
)

// Gate is the availability check consulted before any work.
type Gate interface {
	Check(ctx context.Context) error
}

// Repository defines the storage contract for retrieval.
type Repository interface {
	FetchFiltered(ctx context.Context, filters domain.Filters) ([]domain.Document, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
