package domain

import "time"

// BatchReport summarises one ingest run.
type BatchReport struct {
	RunID            string
	ReleasePackageID string
	DryRun           bool
	StartedAt        time.Time
	FinishedAt       time.Time
	SourceFiles      []SourceFile
	Messages         []Message
	Revisions        []OffenceRevision
	MenusCreated     int
	OffencesLoadID   string
}

// Count returns the number of source files with the given status.
func (r *BatchReport) Count(status SourceStatus) int {
	n := 0
	for _, sf := range r.SourceFiles {
		if sf.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the number of failed source files.
func (r *BatchReport) Failed() int {
	n := 0
	for _, sf := range r.SourceFiles {
		if sf.Status.IsFailed() {
			n++
		}
	}
	return n
}

// MessagesFor returns the messages of one source file.
func (r *BatchReport) MessagesFor(sourceFileID string) []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.SourceFileID == sourceFileID {
			out = append(out, m)
		}
	}
	return out
}

// RunSummary is the ledger view of a past run.
type RunSummary struct {
	RunID            string
	ReleasePackageID string
	DryRun           bool
	StartedAt        time.Time
	FinishedAt       time.Time
	Files            int
	Scheduled        int
	Failed           int
}

// RunDetail is a past run with its per-file outcomes.
type RunDetail struct {
	Summary     RunSummary
	SourceFiles []SourceFile
	Messages    []Message
}

// Summary returns the ledger view of the report.
func (r *BatchReport) Summary() RunSummary {
	return RunSummary{
		RunID:            r.RunID,
		ReleasePackageID: r.ReleasePackageID,
		DryRun:           r.DryRun,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		Files:            len(r.SourceFiles),
		Scheduled:        r.Count(StatusScheduled),
		Failed:           r.Failed(),
	}
}
