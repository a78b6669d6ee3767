package driving

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// LedgerService exposes past ingest runs.
type LedgerService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Get returns one run with its source files and messages.
	Get(ctx context.Context, runID string) (*domain.RunDetail, error)
}
