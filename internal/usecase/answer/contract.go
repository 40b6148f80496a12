package answer

import (
	"context"

	"github.com/toth-cloud/toth/internal/domain"
)

// Gate is the availability check consulted before any work.
type Gate interface {
	Check(ctx context.Context) error
}

// Retriever produces ranked candidates for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, filters domain.Filters) ([]domain.ScoredCandidate, error)
}

// Completer dispatches the assembled prompt to the generation provider.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
