package driving

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// IngestOptions controls a single ingest run.
type IngestOptions struct {
	// DryRun processes the batch without posting source file outcomes
	// or recording the run in the ledger.
	DryRun bool
}

// IngestService runs a batch through validation, extraction, menu
// reconciliation and offence publishing.
type IngestService interface {
	// Ingest processes every record of the batch. Per-record failures are
	// reported in the returned report; the error is reserved for failures
	// that prevent a report from being produced.
	Ingest(ctx context.Context, batch domain.Batch, opts IngestOptions) (*domain.BatchReport, error)
}
