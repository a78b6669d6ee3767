package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// fillIn matches **(..SPECIFY LABEL..)** with an optional closing "**".
var fillIn = regexp.MustCompile(`(?i)\*\*\(\.\.(SPECIFY\s+[A-Z]+(?: [A-Z]+)*)*\.\.\)(?:\*\*)?`)

// normaliseLabel upper-cases and trims a captured label.
func normaliseLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// newEntry builds the metadata for a fill-in label.
func newEntry(label string) domain.TerminalEntry {
	if label == domain.PromptDate {
		return domain.TerminalEntry{
			Hash:            md5Hex(label),
			Prompt:          label,
			Format:          domain.FormatMenu,
			Min:             domain.MenuEntryMin,
			Max:             domain.MenuEntryMax,
			StandardEntryID: domain.DateStandardEntryID,
		}
	}
	return domain.TerminalEntry{
		Hash:   md5Hex(label),
		Prompt: label,
		Format: domain.FormatText,
		Min:    domain.TextEntryMin,
		Max:    domain.TextEntryMax,
	}
}

// replaceFillIns replaces every fill-in marker with {hash} and records one
// entry and one audit row per occurrence.
func replaceFillIns(text string, acc *Accumulator) string {
	return replaceSubmatches(fillIn, text, func(groups []string) string {
		entry := newEntry(normaliseLabel(groups[1]))
		acc.addEntry(entry)
		return "{" + entry.Hash + "}"
	})
}

// replaceLocalFillIns numbers fill-ins inside a menu option from 1 and
// rewrites them as [n]. Local entries are not content-addressed.
func replaceLocalFillIns(text string) (string, []domain.ElementDefinition) {
	var elements []domain.ElementDefinition
	out := replaceSubmatches(fillIn, text, func(groups []string) string {
		n := len(elements) + 1
		elements = append(elements, domain.ElementDefinition{
			Number: n,
			Prompt: normaliseLabel(groups[1]),
			Format: domain.FormatText,
			Min:    domain.TextEntryMin,
			Max:    domain.TextEntryMax,
		})
		return "[" + strconv.Itoa(n) + "]"
	})
	return out, elements
}

// replaceSubmatches is ReplaceAllStringFunc with access to capture groups.
// Groups that did not participate are passed as "".
func replaceSubmatches(re *regexp.Regexp, s string, fn func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = s[m[2*g]:m[2*g+1]]
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
