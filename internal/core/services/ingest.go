package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/pnld-ingest/internal/extraction"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService orchestrates one batch: release package, duplicates,
// per-record processing, menu reconciliation, offence publishing and the
// source file outcome load.
type IngestService struct {
	catalog    driven.Catalog
	ledger     driven.RunLedger
	processor  *RecordProcessor
	pool       *Pool
	poller     *LoadPoller
	reconciler *MenuReconciler
	publisher  *OffencePublisher
	resolver   *ReleasePackageResolver
	newRunID   func() string
	now        func() time.Time
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithRunIDs overrides run id generation.
func WithRunIDs(next func() string) IngestOption {
	return func(s *IngestService) {
		s.newRunID = next
	}
}

// WithIngestClock overrides the clock used for run timestamps and
// ChangedDate.
func WithIngestClock(now func() time.Time) IngestOption {
	return func(s *IngestService) {
		s.now = now
		s.resolver.now = now
		s.processor.now = now
	}
}

// WithPollSleep replaces the wait between load status checks.
func WithPollSleep(sleep func(ctx context.Context, d time.Duration) error) IngestOption {
	return func(s *IngestService) {
		s.poller.sleep = sleep
	}
}

// NewIngestService wires the batch pipeline. ledger may be nil.
func NewIngestService(
	catalog driven.Catalog,
	cleanser driven.Cleanser,
	extractor *extraction.Extractor,
	ledger driven.RunLedger,
	settings domain.IngestSettings,
	opts ...IngestOption,
) *IngestService {
	poller := NewLoadPoller(catalog, settings.PollInterval, settings.PollAttempts)
	s := &IngestService{
		catalog:    catalog,
		ledger:     ledger,
		processor:  NewRecordProcessor(NewClassifier(catalog), cleanser, extractor),
		pool:       NewPool(settings.Concurrency),
		poller:     poller,
		reconciler: NewMenuReconciler(catalog, poller, settings.MenuLookupChunk),
		publisher:  NewOffencePublisher(catalog, poller),
		resolver:   NewReleasePackageResolver(catalog, poller),
		newRunID:   uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes a batch. Every record ends with a source file outcome in
// the report. The error reports a failed source file load or ledger write;
// the report is still returned.
func (s *IngestService) Ingest(ctx context.Context, batch domain.Batch, opts driving.IngestOptions) (*domain.BatchReport, error) {
	report := &domain.BatchReport{
		RunID:     s.newRunID(),
		DryRun:    opts.DryRun,
		StartedAt: s.now(),
	}
	log := logger.With(zap.String("run_id", report.RunID))
	log.Info("PNLD PROCESS | START", zap.Int("records", len(batch.Records)))

	outcomes := s.process(ctx, batch.Records, report)

	for _, o := range outcomes {
		o.SourceFile.MessageCount = len(o.Messages)
		report.SourceFiles = append(report.SourceFiles, o.SourceFile)
		report.Messages = append(report.Messages, o.Messages...)
		if o.Revision != nil {
			report.Revisions = append(report.Revisions, *o.Revision)
		}
	}

	var err error
	if !opts.DryRun {
		err = s.postSourceFiles(ctx, report)
	}
	report.FinishedAt = s.now()

	if !opts.DryRun && s.ledger != nil {
		if lerr := s.ledger.Record(ctx, report); lerr != nil {
			log.Warn("ledger record failed", zap.Error(lerr))
			if err == nil {
				err = fmt.Errorf("record run: %w", lerr)
			}
		}
	}

	log.Info("PNLD PROCESS | COMPLETE",
		zap.Int("files", len(report.SourceFiles)),
		zap.Int("scheduled", report.Count(domain.StatusScheduled)),
		zap.Int("failed", report.Failed()),
	)
	return report, err
}

// process returns one outcome per input record.
func (s *IngestService) process(ctx context.Context, records []domain.InputRecord, report *domain.BatchReport) []domain.RecordOutcome {
	logger.Info("%s | RETRIEVE | START", releaseStage)
	rpID, err := s.resolver.Resolve(ctx)
	if err != nil {
		text := fmt.Sprintf("Release Package retrieval failed: %v", err)
		outcomes := make([]domain.RecordOutcome, 0, len(records))
		for _, rec := range records {
			logger.Error("FILE HANDLING | FileID=%s | No-RP Path - FAILED (reason='%s')", rec.SourceFileID, text)
			outcomes = append(outcomes, failedOutcome(rec.SourceFileID,
				domain.NewError(rec.SourceFileID, domain.CodeNoReleasePackage, text)))
		}
		return outcomes
	}
	report.ReleasePackageID = rpID

	logger.Info("DUPLICATE MANAGEMENT | START")
	unique, duplicates := SplitDuplicates(records)
	logger.Info("DUPLICATE MANAGEMENT | COMPLETE (duplicates=%d, non_duplicates=%d)", len(duplicates), len(unique))

	var outcomes []domain.RecordOutcome
	if len(unique) > 0 {
		logger.Info("FILE HANDLING | Batch Processing - START")
		outcomes = s.pool.Run(ctx, unique, func(ctx context.Context, rec domain.InputRecord, progress string) domain.RecordOutcome {
			return s.processor.Process(ctx, rec, rpID, progress)
		})
		logger.Info("FILE HANDLING | Batch Processing - COMPLETE")

		logger.Info("%s | START", menuStage)
		report.MenusCreated = s.reconciler.Reconcile(ctx, rpID, outcomes)
		logger.Info("%s | COMPLETE", menuStage)

		report.OffencesLoadID = s.publisher.Publish(ctx, outcomes)
	}

	return append(outcomes, duplicates...)
}

// postSourceFiles loads the per-file statuses and messages into the catalog.
func (s *IngestService) postSourceFiles(ctx context.Context, report *domain.BatchReport) error {
	req := domain.NewLoadRequest("Process PNLD XML Files", domain.JobSourceFiles, "", nil)

	files := make([]map[string]any, 0, len(report.SourceFiles))
	for _, sf := range report.SourceFiles {
		rec := map[string]any{
			"SourceFileID": sf.ID,
			"MessageCount": sf.MessageCount,
		}
		if sf.Status != domain.StatusPending {
			rec["FID_SourceStatus"] = string(sf.Status)
		}
		if sf.OffenceRevisionID != "" {
			rec["FID_OffenceRevision"] = sf.OffenceRevisionID
		}
		files = append(files, rec)
	}
	messages := make([]map[string]any, 0, len(report.Messages))
	for _, m := range report.Messages {
		messages = append(messages, map[string]any{
			"FID_SourceFile":        m.SourceFileID,
			"SourceFileMessageCode": m.Code,
			"SourceFileMessageType": string(m.Type),
			"SourceFileMessage":     m.Text,
		})
	}
	req.PersistRecords[domain.EntitySourceFile] = files
	req.PersistRecords[domain.EntitySourceFileMessage] = messages

	logger.Info("SEMARCHY POST | SEND (files=%d, messages=%d)", len(files), len(messages))
	if _, err := s.catalog.SubmitLoad(ctx, req); err != nil {
		logger.Error("SEMARCHY POST | FAILURE (%v)", err)
		return fmt.Errorf("post source files: %w", err)
	}
	logger.Info("SEMARCHY POST | SUCCESS")
	return nil
}
