package extraction

import "github.com/custodia-labs/pnld-ingest/internal/core/domain"

// Accumulator carries the running counters and collected metadata for one
// record across all of its text fields.
type Accumulator struct {
	entryCounter int
	menuCounter  int

	Entries []domain.TerminalEntry
	Audit   []domain.EntryAudit
	Menus   []domain.Menu
	Options []domain.MenuOption
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// addEntry records a fill-in occurrence and returns its sequence number.
func (a *Accumulator) addEntry(entry domain.TerminalEntry) int {
	a.entryCounter++
	a.Entries = append(a.Entries, entry)
	a.Audit = append(a.Audit, domain.EntryAudit{Hash: entry.Hash, Sequence: a.entryCounter})
	return a.entryCounter
}

// addMenu records a menu, its placeholder entry and its options.
func (a *Accumulator) addMenu(rawHash string, options []domain.MenuOption) {
	a.entryCounter++
	a.menuCounter++

	a.Menus = append(a.Menus, domain.Menu{RawHash: rawHash})
	a.Audit = append(a.Audit, domain.EntryAudit{
		Hash:         rawHash,
		Sequence:     a.entryCounter,
		MenuSequence: a.menuCounter,
	})
	a.Entries = append(a.Entries, domain.TerminalEntry{
		Hash:   rawHash,
		Prompt: domain.PromptMenuValue,
		Format: domain.FormatMenu,
		Min:    domain.MenuEntryMin,
		Max:    domain.MenuEntryMax,
	})
	a.Options = append(a.Options, options...)
}
