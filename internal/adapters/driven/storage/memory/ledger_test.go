package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

func report(id string, started time.Time) *domain.BatchReport {
	return &domain.BatchReport{
		RunID:            id,
		ReleasePackageID: "rp-1",
		StartedAt:        started,
		FinishedAt:       started.Add(time.Minute),
		SourceFiles: []domain.SourceFile{
			{ID: "sf-1", Status: domain.StatusScheduled, MessageCount: 1},
			{ID: "sf-2", Status: domain.StatusFailed, MessageCount: 1},
		},
		Messages: []domain.Message{
			{SourceFileID: "sf-1", Code: domain.CodeIngested},
			{SourceFileID: "sf-2", Code: domain.CodeDuplicateCJS},
		},
	}
}

func TestRunLedger_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	ledger := NewRunLedger()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Record(ctx, report("run-1", base)))

	got, err := ledger.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "rp-1", got.Summary.ReleasePackageID)
	assert.Equal(t, 2, got.Summary.Files)
	assert.Equal(t, 1, got.Summary.Scheduled)
	assert.Equal(t, 1, got.Summary.Failed)
	assert.Len(t, got.SourceFiles, 2)
	assert.Len(t, got.Messages, 2)

	_, err = ledger.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunLedger_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	ledger := NewRunLedger()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ledger.Record(ctx, report("old", base)))
	require.NoError(t, ledger.Record(ctx, report("new", base.Add(time.Hour))))
	require.NoError(t, ledger.Record(ctx, report("mid", base.Add(time.Minute))))

	all, err := ledger.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{all[0].RunID, all[1].RunID, all[2].RunID})

	limited, err := ledger.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].RunID)
}

func TestRunLedger_RecordReplacesRun(t *testing.T) {
	ctx := context.Background()
	ledger := NewRunLedger()
	r := report("run-1", time.Now())

	require.NoError(t, ledger.Record(ctx, r))
	r.ReleasePackageID = "rp-2"
	require.NoError(t, ledger.Record(ctx, r))

	all, err := ledger.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "rp-2", all[0].ReleasePackageID)
}

func TestRunLedger_RecordInvalid(t *testing.T) {
	ledger := NewRunLedger()

	assert.ErrorIs(t, ledger.Record(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.Record(context.Background(), &domain.BatchReport{}), domain.ErrInvalidInput)
	assert.NoError(t, ledger.Close())
}
