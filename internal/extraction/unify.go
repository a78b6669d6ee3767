package extraction

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// LowestAudit keeps one audit row per hash: the one with the lowest sequence.
// Rows are returned in the order their hash was first seen.
func LowestAudit(rows []domain.EntryAudit) []domain.EntryAudit {
	index := make(map[string]int, len(rows))
	best := make([]domain.EntryAudit, 0, len(rows))
	for _, row := range rows {
		i, ok := index[row.Hash]
		if !ok {
			index[row.Hash] = len(best)
			best = append(best, row)
			continue
		}
		if row.Sequence < best[i].Sequence {
			best[i] = row
		}
	}
	return best
}

// ReplacePlaceholders rewrites every {hash} in text to {sequence}.
// The substitution is literal; text is not re-parsed.
func ReplacePlaceholders(text string, audit []domain.EntryAudit) string {
	if len(audit) == 0 {
		return text
	}
	pairs := make([]string, 0, len(audit)*2)
	for _, a := range audit {
		pairs = append(pairs, "{"+a.Hash+"}", "{"+strconv.Itoa(a.Sequence)+"}")
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// NumberEntries assigns entry numbers from the audit, keeps the first entry per
// hash and returns them ordered by number. Menu entries get their menu
// sequence appended to the prompt so repeated menus stay distinguishable.
func NumberEntries(entries []domain.TerminalEntry, audit []domain.EntryAudit) []domain.TerminalEntry {
	lookup := make(map[string]domain.EntryAudit, len(audit))
	for _, a := range audit {
		lookup[a.Hash] = a
	}

	seen := make(map[string]struct{}, len(entries))
	numbered := make([]domain.TerminalEntry, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Hash]; dup {
			continue
		}
		seen[e.Hash] = struct{}{}

		if a, ok := lookup[e.Hash]; ok {
			e.EntryNumber = a.Sequence
			if e.Prompt == domain.PromptMenuValue && a.MenuSequence > 0 {
				e.Prompt = domain.PromptMenuValue + " " + strconv.Itoa(a.MenuSequence)
			}
		}
		numbered = append(numbered, e)
	}

	domain.SortEntries(numbered)
	return numbered
}
