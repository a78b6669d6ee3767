package driven

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// CleanseStep rewrites string content of a record in place.
// Steps are chained in a pipeline (unescape, normalisation, regex rules).
type CleanseStep interface {
	// Name returns the step name for logging and configuration.
	Name() string

	// Cleanse rewrites fields and returns one message per change it made.
	// It must not add or remove keys; absent values stay absent.
	Cleanse(ctx context.Context, sourceFileID string, fields domain.Fields) ([]domain.Message, error)
}

// Cleanser runs the configured cleansing steps over a record.
type Cleanser interface {
	// Cleanse returns a cleansed copy of fields and the audit messages.
	// The input is never modified.
	Cleanse(ctx context.Context, sourceFileID string, fields domain.Fields) (domain.Fields, []domain.Message, error)
}
