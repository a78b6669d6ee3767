package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Submission is the subset of a record the classifier needs.
// Zero dates mean absent or unparsable.
type Submission struct {
	SourceFileID string
	CJSCode      string
	Reference    string
	HasTitle     bool
	StartDate    time.Time
	EndDate      time.Time
	LastUpdate   time.Time
	ContentHash  string
}

// catalogName is how the catalog is named in rejection texts.
const catalogName = "Semarchy"

// Classifier decides whether a submission is Initial, New, Edit or rejected
// by comparing it to its baseline. Gates run in order and the first one that
// produces a message ends classification.
type Classifier struct {
	baselines driven.BaselineLookup
}

// NewClassifier creates a classifier backed by a baseline lookup.
func NewClassifier(baselines driven.BaselineLookup) *Classifier {
	return &Classifier{baselines: baselines}
}

// Classify evaluates the gates for one submission. Validation failures are
// returned as a rejected decision. The error is reserved for lookup failures
// and for a baseline that is not unique.
func (c *Classifier) Classify(ctx context.Context, s Submission) (domain.Decision, error) {
	reject := func(msgs ...domain.Message) (domain.Decision, error) {
		return domain.Decision{Kind: domain.DecisionRejected, Messages: msgs}, nil
	}
	msg := func(code, format string, args ...any) domain.Message {
		return domain.NewError(s.SourceFileID, code, fmt.Sprintf(format, args...))
	}

	if !s.HasTitle {
		return reject(msg(domain.CodeTitleMissing, domain.MessageTitleMissingText))
	}

	if !s.EndDate.IsZero() && !s.StartDate.IsZero() && s.EndDate.Before(s.StartDate) {
		return reject(msg(domain.CodeEndBeforeStart, "Offence End Date %s is before Offence Start Date %s",
			showDate(s.EndDate), showDate(s.StartDate)))
	}

	candidates, err := c.baselines.FindBaselines(ctx, s.CJSCode, s.Reference)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("fetch baseline: %w", err)
	}

	var bound []domain.Message
	for _, b := range candidates {
		if s.Reference == b.Reference && s.CJSCode != b.CJSCode {
			bound = append(bound, msg(domain.CodeReferenceBound,
				"PNLD Ref %s is already associated to CJS Code %s within the Baseline", s.Reference, b.CJSCode))
		}
		if s.Reference != b.Reference && s.CJSCode == b.CJSCode {
			bound = append(bound, msg(domain.CodeCodeBound,
				"CJS Code %s is already associated to PNLD Ref %s within the Baseline", s.CJSCode, b.Reference))
		}
	}
	if len(bound) > 0 {
		return reject(bound...)
	}

	switch len(candidates) {
	case 0:
		return domain.Decision{Kind: domain.DecisionInitial}, nil
	case 1:
	default:
		return domain.Decision{}, domain.NewConsistencyError(
			"Unexpected Combination of CJS Code + PnLD Ref for CJS Code: %s & PNLD Ref: %s", s.CJSCode, s.Reference)
	}

	b := candidates[0]

	if status := b.NormalisedAuthoringStatus(); status == domain.AuthoringDraft || status == domain.AuthoringFinal {
		return reject(msg(domain.CodeBaselineInProgress,
			"Offence with CJS Code %s is currently in %s within %s.", s.CJSCode, status, catalogName))
	}

	if !b.DateOfLastUpdate.IsZero() {
		switch {
		case s.LastUpdate.Equal(b.DateOfLastUpdate):
			return reject(msg(domain.CodeLastUpdateSame,
				"Date of Last Update %s is identical to the Baseline", showDate(s.LastUpdate)))
		case s.LastUpdate.IsZero() || s.LastUpdate.Before(b.DateOfLastUpdate):
			return reject(msg(domain.CodeLastUpdateBefore,
				"Date of Last Update %s is before the Baseline Date Of Last Update %s",
				showDate(s.LastUpdate), showDate(b.DateOfLastUpdate)))
		}
	}

	sameHash := b.ContentHash == s.ContentHash
	sameEnd := b.DateUsedTo.Equal(s.EndDate)
	if sameHash && sameEnd {
		return reject(msg(domain.CodeNoUpdates,
			"Upload has no updates when compared to Offence with CJS Code %s", s.CJSCode))
	}

	if !s.EndDate.IsZero() && !b.DateUsedFrom.IsZero() && s.EndDate.Before(b.DateUsedFrom) {
		return reject(msg(domain.CodeEndBeforeBaseline,
			"File Offence End Date %s is before CSDS Start Date %s", showDate(s.EndDate), showDate(b.DateUsedFrom)))
	}

	switch {
	case !sameHash:
		return domain.Decision{Kind: domain.DecisionNew}, nil
	case b.PublishingStatus == domain.PublishingActive:
		return domain.Decision{Kind: domain.DecisionEdit}, nil
	default:
		return domain.Decision{Kind: domain.DecisionNew}, nil
	}
}

// showDate renders a date for messages; absent dates print as None.
func showDate(t time.Time) string {
	if t.IsZero() {
		return "None"
	}
	return domain.FormatDate(t)
}
