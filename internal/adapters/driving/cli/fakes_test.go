package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
)

// fakeIngest records every batch it is given and answers with a report
// scheduling each record.
type fakeIngest struct {
	mu      sync.Mutex
	batches []domain.Batch
	opts    []driving.IngestOptions
	err     error
}

func (f *fakeIngest) Ingest(_ context.Context, batch domain.Batch, opts driving.IngestOptions) (*domain.BatchReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batches = append(f.batches, batch)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}

	report := &domain.BatchReport{
		RunID:            "run-1",
		ReleasePackageID: "rp-1",
		DryRun:           opts.DryRun,
		StartedAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		FinishedAt:       time.Date(2024, 3, 1, 9, 0, 2, 0, time.UTC),
	}
	for i, rec := range batch.Records {
		sf := domain.SourceFile{ID: rec.SourceFileID, Status: domain.StatusScheduled, OffenceRevisionID: "rev-1"}
		msg := domain.Message{SourceFileID: rec.SourceFileID, Code: domain.CodeIngested,
			Type: domain.MessageCompletion, Text: domain.MessageIngested}
		if i > 0 {
			sf = domain.SourceFile{ID: rec.SourceFileID, Status: domain.StatusFailed}
			msg = domain.NewError(rec.SourceFileID, domain.CodeTitleMissing, domain.MessageTitleMissingText)
		}
		sf.MessageCount = 1
		report.SourceFiles = append(report.SourceFiles, sf)
		report.Messages = append(report.Messages, msg)
	}
	return report, nil
}

func (f *fakeIngest) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

type fakeLedger struct {
	runs      []domain.RunSummary
	detail    *domain.RunDetail
	err       error
	lastLimit int
}

func (f *fakeLedger) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	f.lastLimit = limit
	return f.runs, f.err
}

func (f *fakeLedger) Get(_ context.Context, runID string) (*domain.RunDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.detail == nil || f.detail.Summary.RunID != runID {
		return nil, domain.ErrNotFound
	}
	return f.detail, nil
}

// setupServices installs services for one test and restores the flag
// variables afterwards.
func setupServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() {
		SetServices(nil)
		ingestDryRun, ingestJSON = false, false
		runsLimit = 0
		watchDryRun, watchExisting = false, true
	})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// bindContext hands ctx to every command. Cobra only gives a subcommand the
// root's context while its own is unset, so a command run by an earlier test
// would otherwise keep context.Background.
func bindContext(t *testing.T, ctx context.Context) {
	t.Helper()
	var walk func(*cobra.Command, context.Context)
	walk = func(c *cobra.Command, ctx context.Context) {
		c.SetContext(ctx)
		for _, sub := range c.Commands() {
			walk(sub, ctx)
		}
	}
	walk(rootCmd, ctx)
	t.Cleanup(func() { walk(rootCmd, context.Background()) })
}
