package services

import (
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// SplitDuplicates separates records whose CJS code occurs more than once in
// the batch. Every such record fails with DUP-CJS-001; unique records keep
// their input order.
func SplitDuplicates(records []domain.InputRecord) ([]domain.InputRecord, []domain.RecordOutcome) {
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		counts[rec.CJS()]++
	}

	var (
		unique []domain.InputRecord
		dups   []domain.RecordOutcome
	)
	for _, rec := range records {
		code := rec.CJS()
		if counts[code] > 1 {
			dups = append(dups, failedOutcome(rec.SourceFileID, domain.NewError(
				rec.SourceFileID, domain.CodeDuplicateCJS, domain.MessageDuplicatePrefix+code)))
			continue
		}
		unique = append(unique, rec)
	}
	return unique, dups
}
