package driven

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// RunLedger persists ingest run outcomes locally.
type RunLedger interface {
	// Record stores a finished run with its source files and messages.
	Record(ctx context.Context, report *domain.BatchReport) error

	// List returns the most recent runs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Get returns one run. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, runID string) (*domain.RunDetail, error)

	// Close releases the underlying storage.
	Close() error
}
