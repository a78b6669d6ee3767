package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Ensure RunLedger implements the interface.
var _ driven.RunLedger = (*RunLedger)(nil)

// RunLedger keeps run outcomes in memory. It backs dry runs and tests.
type RunLedger struct {
	mu   sync.RWMutex
	runs []domain.RunDetail
}

// NewRunLedger creates an empty ledger.
func NewRunLedger() *RunLedger {
	return &RunLedger{}
}

// Record stores a copy of the report. Recording a run ID again replaces it.
func (l *RunLedger) Record(_ context.Context, report *domain.BatchReport) error {
	if report == nil || report.RunID == "" {
		return domain.ErrInvalidInput
	}
	detail := domain.RunDetail{
		Summary:     report.Summary(),
		SourceFiles: slices.Clone(report.SourceFiles),
		Messages:    slices.Clone(report.Messages),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.runs {
		if l.runs[i].Summary.RunID == report.RunID {
			l.runs[i] = detail
			return nil
		}
	}
	l.runs = append(l.runs, detail)
	return nil
}

// List returns the most recent runs first.
func (l *RunLedger) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.RunSummary, 0, len(l.runs))
	for _, r := range l.runs {
		out = append(out, r.Summary)
	}
	slices.SortStableFunc(out, func(a, b domain.RunSummary) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns one run.
func (l *RunLedger) Get(_ context.Context, runID string) (*domain.RunDetail, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.runs {
		if r.Summary.RunID == runID {
			detail := domain.RunDetail{
				Summary:     r.Summary,
				SourceFiles: slices.Clone(r.SourceFiles),
				Messages:    slices.Clone(r.Messages),
			}
			return &detail, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Close is a no-op.
func (l *RunLedger) Close() error {
	return nil
}
