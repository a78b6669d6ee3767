package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

const offenceStage = "OFFENCE HANDLING"

// offenceEnrichers run on every posted offence revision.
var offenceEnrichers = []string{"SetVersionNumber", "CreateOffenceHeaderPNLD"}

// OffencePublisher loads accepted revisions into the catalog and records
// the per-file result.
type OffencePublisher struct {
	offences driven.OffenceCatalog
	poller   *LoadPoller
}

// NewOffencePublisher creates an offence publisher.
func NewOffencePublisher(offences driven.OffenceCatalog, poller *LoadPoller) *OffencePublisher {
	return &OffencePublisher{offences: offences, poller: poller}
}

// Publish posts every revision still present on outcomes, waits for the
// load and fetches what it created. Each file whose CJS code came back is
// Scheduling Complete with AA-100; the rest are Failed with XX-100. It
// returns the load id, or "" when nothing was posted or submission failed.
func (p *OffencePublisher) Publish(ctx context.Context, outcomes []domain.RecordOutcome) string {
	var idx []int
	for i := range outcomes {
		if outcomes[i].Revision != nil {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		logger.Info("%s | No Offences", offenceStage)
		return ""
	}
	logger.Info("%s | START (total_offences=%d)", offenceStage, len(idx))

	req := domain.NewLoadRequest("Offence Revision Load", domain.JobOffences,
		domain.EntityOffenceRevision, offenceEnrichers)
	records := make([]map[string]any, 0, len(idx))
	for _, i := range idx {
		records = append(records, outcomes[i].Revision.Payload())
	}
	req.PersistRecords[domain.EntityOffenceRevision] = records

	var (
		loaded  = map[string]string{}
		failure string
	)
	handle, err := p.poller.Submit(ctx, offenceStage, req)
	if err != nil {
		failure = err.Error()
		logger.Error("%s | POST | FAILED (error=%s)", offenceStage, failure)
	} else {
		logger.Info("%s | POST | SUCCESS (batch_id=%s)", offenceStage, handle.BatchID)
		got, err := p.offences.OffencesByBatch(ctx, handle.BatchID)
		if err != nil {
			failure = fmt.Sprintf("GET failed for batch_id=%s. Error: %v", handle.BatchID, err)
			logger.Error("%s | GET | FAILED (%s)", offenceStage, failure)
		}
		for _, o := range got {
			loaded[o.CJSCode] = o.OffenceRevisionID
		}
		logger.Info("%s | GET | SUCCESS (batch_id=%s, returned=%d)", offenceStage, handle.BatchID, len(got))
	}

	for _, i := range idx {
		markPublished(&outcomes[i], loaded, failure)
	}

	logger.Info("%s | COMPLETE", offenceStage)
	return handle.LoadID
}

func markPublished(o *domain.RecordOutcome, loaded map[string]string, failure string) {
	id := o.SourceFile.ID
	if revisionID, ok := loaded[o.Revision.CJSCode]; ok {
		o.SourceFile.Status = domain.StatusScheduled
		o.SourceFile.OffenceRevisionID = revisionID
		o.Messages = append(o.Messages, domain.Message{
			SourceFileID: id,
			Code:         domain.CodeIngested,
			Type:         domain.MessageCompletion,
			Text:         domain.MessageIngested,
		})
	} else {
		text := domain.MessageIngestFailed
		if failure != "" {
			text += ": " + failure
		}
		o.SourceFile.Status = domain.StatusFailed
		o.Messages = append(o.Messages, domain.NewError(id, domain.CodeIngestFailed, text))
	}
	o.SourceFile.MessageCount = len(o.Messages)
}
