package extraction

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

var (
	// optionBlock matches (LABEL)_[option text]_.
	optionBlock = regexp.MustCompile(`(?s)\(([A-Za-z0-9]+)\)_\[(.*?)\]_`)

	// residualBreak matches single line breaks left around a collapsed menu.
	residualBreak = regexp.MustCompile(`(?i)&lt;br\s*/?&gt;|<br\s*/?>`)
)

// collapseMenu replaces the span from the first option block to the last
// with {rawHash} and returns the options. ok is false when the chunk holds no
// complete option block, in which case text is returned unchanged.
func collapseMenu(text string, rules *RuleSet) (updated string, rawHash string, options []domain.MenuOption, ok bool) {
	matches := optionBlock.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, "", nil, false
	}

	raw := make([]string, len(matches))
	for i, m := range matches {
		raw[i] = text[m[0]:m[1]]
	}
	rawHash = md5Hex(strings.Join(raw, "-"))

	options = make([]domain.MenuOption, 0, len(matches))
	for i, m := range matches {
		optText := normaliseSpace(text[m[4]:m[5]])
		opt := domain.MenuOption{
			MenuHash:     rawHash,
			OptionNumber: i + 1,
			Text:         optText,
		}
		if kind, _ := rules.Classify(optText); kind == domain.ChunkTerminalEntry {
			opt.Text, opt.Elements = replaceLocalFillIns(optText)
		}
		options = append(options, opt)
	}

	start := matches[0][0]
	end := matches[len(matches)-1][1]
	updated = text[:start] + "{" + rawHash + "}" + text[end:]
	updated = residualBreak.ReplaceAllString(updated, " ")
	updated = normaliseSpace(updated)

	return updated, rawHash, options, true
}
