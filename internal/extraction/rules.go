package extraction

import (
	"regexp"
	"sort"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// Rule classifies a chunk when Pattern matches anywhere in its text.
// Rules are evaluated in ascending Order.
type Rule struct {
	Kind    domain.ChunkKind
	Pattern *regexp.Regexp
	Order   int
}

// DefaultRules returns the built-in classification table.
func DefaultRules() []Rule {
	return []Rule{
		{Kind: domain.ChunkMenu, Pattern: regexp.MustCompile(`(?s)\([A-Za-z0-9]+\)_\[`), Order: 1},
		{Kind: domain.ChunkTerminalEntry, Pattern: regexp.MustCompile(`(?s)\*\*\(\.\.SPECIFY [A-Za-z0-9\s]+\.\.\)`), Order: 2},
		{Kind: domain.ChunkProse, Pattern: regexp.MustCompile(`(?s).+?`), Order: 3},
	}
}

// RuleSet is an ordered, first-match-wins list of classification rules.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet sorts a copy of rules by Order. Equal orders keep their given sequence.
func NewRuleSet(rules ...Rule) *RuleSet {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return &RuleSet{rules: sorted}
}

// Classify returns the kind of the first matching rule.
// ok is false when no rule matches, e.g. for an empty chunk.
func (s *RuleSet) Classify(text string) (kind domain.ChunkKind, ok bool) {
	for _, r := range s.rules {
		if r.Pattern.MatchString(text) {
			return r.Kind, true
		}
	}
	return domain.ChunkProse, false
}
