package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// fakeBaselines returns fixed candidates for every lookup.
type fakeBaselines struct {
	records []domain.BaselineRecord
	err     error

	mu    sync.Mutex
	calls int
}

func (f *fakeBaselines) FindBaselines(_ context.Context, _, _ string) ([]domain.BaselineRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

// stubCleanser returns the fields unchanged, or a fixed error.
type stubCleanser struct {
	err error
}

func (s stubCleanser) Cleanse(_ context.Context, _ string, fields domain.Fields) (domain.Fields, []domain.Message, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return fields.Clone(), nil, nil
}

// scriptedLoads returns statuses in order; a nil entry in errs means the
// status at that index is returned.
type scriptedLoads struct {
	statuses []domain.LoadStatus
	errs     []error
	submit   error
	handle   domain.LoadHandle

	polls int
}

func (s *scriptedLoads) SubmitLoad(_ context.Context, _ domain.LoadRequest) (domain.LoadHandle, error) {
	if s.submit != nil {
		return domain.LoadHandle{}, s.submit
	}
	return s.handle, nil
}

func (s *scriptedLoads) LoadStatus(_ context.Context, _ string) (domain.LoadStatus, error) {
	i := s.polls
	s.polls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.statuses) {
		return s.statuses[i], nil
	}
	return domain.LoadRunning, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func strPtr(s string) *string { return &s }

// fakeLedger records reports in memory.
type fakeLedger struct {
	reports []*domain.BatchReport
	err     error
}

func (f *fakeLedger) Record(_ context.Context, report *domain.BatchReport) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, report)
	return nil
}

func (f *fakeLedger) List(context.Context, int) ([]domain.RunSummary, error) { return nil, nil }

func (f *fakeLedger) Get(context.Context, string) (*domain.RunDetail, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeLedger) Close() error { return nil }
