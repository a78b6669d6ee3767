package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// DefaultConcurrency is used when a pool is created with a non-positive limit.
const DefaultConcurrency = 8

// RecordFunc processes one record. progress is a "[x/y]" marker.
type RecordFunc func(ctx context.Context, rec domain.InputRecord, progress string) domain.RecordOutcome

// Pool fans records out to a bounded number of goroutines.
type Pool struct {
	limit int
}

// NewPool creates a pool with the given concurrency ceiling.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Pool{limit: limit}
}

// Limit returns the concurrency ceiling.
func (p *Pool) Limit() int {
	return p.limit
}

// Run processes every record and returns one outcome per record in
// completion order. A panic or a cancelled context fails only the
// affected record.
func (p *Pool) Run(ctx context.Context, records []domain.InputRecord, fn RecordFunc) []domain.RecordOutcome {
	var (
		g   errgroup.Group
		mu  sync.Mutex
		out = make([]domain.RecordOutcome, 0, len(records))
	)
	g.SetLimit(p.limit)

	total := len(records)
	for i, rec := range records {
		progress := fmt.Sprintf("[%d/%d]", i+1, total)
		g.Go(func() error {
			outcome := p.runOne(ctx, rec, progress, fn)
			mu.Lock()
			out = append(out, outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (p *Pool) runOne(ctx context.Context, rec domain.InputRecord, progress string, fn RecordFunc) (outcome domain.RecordOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("FILE HANDLING | %s | FileID=%s | UNHANDLED PANIC: %v", progress, rec.SourceFileID, r)
			outcome = failedOutcome(rec.SourceFileID, domain.NewError(rec.SourceFileID, domain.CodeUnhandled,
				fmt.Sprintf("panic: %v\n%s", r, debug.Stack())))
		}
	}()

	if err := ctx.Err(); err != nil {
		return failedOutcome(rec.SourceFileID, domain.NewError(rec.SourceFileID, domain.CodeUnhandled, err.Error()))
	}
	return fn(ctx, rec, progress)
}
