package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/pnld-ingest/internal/cleansing"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/extraction"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// RecordProcessor runs one record through classification, cleansing,
// extraction, text validation and offence assembly.
type RecordProcessor struct {
	classifier *Classifier
	cleanser   driven.Cleanser
	extractor  *extraction.Extractor
	now        func() time.Time
}

// ProcessorOption configures a RecordProcessor.
type ProcessorOption func(*RecordProcessor)

// WithClock overrides the clock used for ChangedDate.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *RecordProcessor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewRecordProcessor creates a record processor.
func NewRecordProcessor(
	classifier *Classifier,
	cleanser driven.Cleanser,
	extractor *extraction.Extractor,
	opts ...ProcessorOption,
) *RecordProcessor {
	p := &RecordProcessor{
		classifier: classifier,
		cleanser:   cleanser,
		extractor:  extractor,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process never returns an error: failures become messages on the outcome
// and a Failed source file. progress is a "[x/y]" marker for logs.
func (p *RecordProcessor) Process(ctx context.Context, rec domain.InputRecord, releasePackageID, progress string) domain.RecordOutcome {
	log := logger.With(
		zap.String("stage", "FILE HANDLING"),
		zap.String("progress", progress),
		zap.String("source_file_id", rec.SourceFileID),
		zap.String("batch_id", rec.BatchID),
	)
	log.Info("File Received - START")

	out := domain.RecordOutcome{SourceFile: domain.SourceFile{ID: rec.SourceFileID}}
	if err := p.process(ctx, rec, releasePackageID, &out, log); err != nil {
		if isConsistency(err) {
			log.Error("CONSISTENCY VIOLATION", zap.Error(err))
		} else {
			log.Error("UNHANDLED ERROR", zap.Error(err))
		}
		out.Messages = append(out.Messages, domain.NewError(rec.SourceFileID, domain.CodeUnhandled, err.Error()))
		out.SourceFile.Status = domain.StatusFailed
		out.Revision = nil
		out.Menus = nil
		out.Options = nil
	}
	out.SourceFile.MessageCount = len(out.Messages)

	log.Info("File Processing - COMPLETE", zap.Int("messages", len(out.Messages)))
	return out
}

func (p *RecordProcessor) process(
	ctx context.Context,
	rec domain.InputRecord,
	releasePackageID string,
	out *domain.RecordOutcome,
	log *zap.Logger,
) error {
	if rec.Fields == nil {
		return fmt.Errorf("record %s: %w: no fields", rec.SourceFileID, domain.ErrInvalidInput)
	}
	fail := func(stage string, n int) error {
		log.Info(stage+" - FAILED", zap.Int("errors", n))
		out.SourceFile.Status = domain.StatusFailed
		return nil
	}

	// Ingestion validation
	log.Info("Ingestion Validation - START")
	hash, err := extraction.RecordHash(rec.Fields, extraction.HashExcludedFields...)
	if err != nil {
		return fmt.Errorf("content hash: %w", err)
	}
	decision, err := p.classifier.Classify(ctx, submissionOf(rec, hash))
	if err != nil {
		return err
	}
	out.Messages = append(out.Messages, decision.Messages...)
	if !decision.Accepted() {
		return fail("Ingestion Validation", len(decision.Messages))
	}
	log.Info("Ingestion Validation - SUCCESS", zap.String("version_type", decision.Kind.String()))

	// Cleanse
	log.Info("XML Cleanse - START")
	working := rec.Fields.Clone()
	working[domain.FieldSOW] = working[domain.FieldSOWRaw]
	working[domain.FieldSOF] = working[domain.FieldSOFRaw]
	if !working.Has(domain.FieldSOW) {
		return fmt.Errorf("record %s: %w: %s is missing", rec.SourceFileID, domain.ErrInvalidInput, domain.FieldSOWRaw)
	}
	cleansed, cleanseMsgs, err := p.cleanser.Cleanse(ctx, rec.SourceFileID, working)
	if err != nil {
		return fmt.Errorf("cleanse: %w", err)
	}
	out.Messages = append(out.Messages, cleanseMsgs...)
	log.Info("XML Cleanse - SUCCESS", zap.Int("cleanses", len(cleanseMsgs)))

	// Terminal entries and menus
	log.Info("Terminal Entry Extraction - START")
	result, err := p.extractor.Extract(rec.CJS(), cleansed.Get(domain.FieldSOW), cleansed[domain.FieldSOF])
	if err != nil {
		return err
	}
	log.Info("Terminal Entry Extraction - SUCCESS",
		zap.Int("entries", len(result.Entries)),
		zap.Int("menus", len(result.Menus)),
		zap.Int("options", len(result.Options)),
	)

	// Text validation
	log.Info("Text Validation - START")
	textMsgs := cleansing.ValidateText(rec.SourceFileID, domain.FieldSOW, result.SOW)
	if result.SOF != nil {
		textMsgs = append(textMsgs, cleansing.ValidateText(rec.SourceFileID, domain.FieldSOF, *result.SOF)...)
	}
	out.Messages = append(out.Messages, textMsgs...)
	if len(textMsgs) > 0 {
		return fail("Text Validation", len(textMsgs))
	}
	log.Info("Text Validation - SUCCESS")

	out.Revision = buildRevision(revisionInput{
		record:           rec,
		cleansed:         cleansed,
		extracted:        result,
		decision:         decision,
		contentHash:      hash,
		releasePackageID: releasePackageID,
		now:              p.now(),
	})
	out.Menus = result.Menus
	out.Options = result.Options

	log.Info("Output Assembly - SUCCESS",
		zap.Int("messages", len(out.Messages)),
		zap.Int("menus", len(out.Menus)),
		zap.Int("options", len(out.Options)),
	)
	return nil
}

func submissionOf(rec domain.InputRecord, hash string) Submission {
	f := rec.Fields
	return Submission{
		SourceFileID: rec.SourceFileID,
		CJSCode:      rec.CJS(),
		Reference:    f.Get(domain.FieldReference),
		HasTitle:     f.Has(domain.FieldTitle),
		StartDate:    domain.ParseDate(f.Get(domain.FieldStartDate)),
		EndDate:      domain.ParseDate(f.Get(domain.FieldEndDate)),
		LastUpdate:   domain.ParseDate(f.Get(domain.FieldLastUpdate)),
		ContentHash:  hash,
	}
}

// failedOutcome builds the outcome of a record that was never processed.
func failedOutcome(sourceFileID string, msgs ...domain.Message) domain.RecordOutcome {
	return domain.RecordOutcome{
		SourceFile: domain.SourceFile{
			ID:           sourceFileID,
			Status:       domain.StatusFailed,
			MessageCount: len(msgs),
		},
		Messages: msgs,
	}
}

// isConsistency reports whether err is an invariant violation.
func isConsistency(err error) bool {
	return errors.Is(err, domain.ErrConsistency)
}
