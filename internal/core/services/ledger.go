package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
)

// Ensure LedgerService implements the interface.
var _ driving.LedgerService = (*LedgerService)(nil)

// DefaultRunListLimit is used when List is called without a limit.
const DefaultRunListLimit = 20

// LedgerService reads past runs from the run ledger.
type LedgerService struct {
	ledger driven.RunLedger
}

// NewLedgerService creates a ledger service.
func NewLedgerService(ledger driven.RunLedger) *LedgerService {
	return &LedgerService{ledger: ledger}
}

// List returns recent runs, newest first.
func (s *LedgerService) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	runs, err := s.ledger.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run.
func (s *LedgerService) Get(ctx context.Context, runID string) (*domain.RunDetail, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	detail, err := s.ledger.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return detail, nil
}
