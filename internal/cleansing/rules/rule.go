// Package rules provides the regex rule cleansing step.
//
// A rule detects a pattern in scoped columns and replaces one capturing group
// of every match with a fixed value. Rules run in SortOrder and chain: each
// rule sees the output of the rules before it.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// GroupRef selects the capturing group to replace, by position or by name.
type GroupRef struct {
	Index int
	Name  string
}

// String renders the reference for messages.
func (g GroupRef) String() string {
	if g.Name != "" {
		return strconv.Quote(g.Name)
	}
	return strconv.Itoa(g.Index)
}

// UnmarshalYAML accepts an integer index or a group name.
func (g *GroupRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: group index must be an integer or a name", node.Line)
	}
	if node.Tag == "!!int" {
		var i int
		if err := node.Decode(&i); err != nil {
			return err
		}
		*g = GroupRef{Index: i}
		return nil
	}
	*g = GroupRef{Name: node.Value}
	return nil
}

// Rule is one row of the cleansing rule table.
type Rule struct {
	RuleID         string   `yaml:"RuleID"`
	DetectionRegex string   `yaml:"DetectionRegex"`
	Group          GroupRef `yaml:"RegexReplacementGroupIndex"`
	ReplaceValue   string   `yaml:"ReplaceValue"`
	Scope          []string `yaml:"Scope"`
	SortOrder      int      `yaml:"SortOrder"`
}

// Parse decodes a YAML rule table.
func Parse(data []byte) ([]Rule, error) {
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	for i := range rules {
		if rules[i].RuleID == "" {
			rules[i].RuleID = "UnknownRule"
		}
	}
	return rules, nil
}

// LoadFile reads a YAML rule table from disk.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Sorted returns a copy of rules in ascending SortOrder.
func Sorted(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}

var wordingScope = []string{domain.FieldSOW, domain.FieldSOF}

// Defaults returns the built-in rule table applied to the offence wording.
func Defaults() []Rule {
	return []Rule{
		{
			RuleID:         "CL-NBSP",
			DetectionRegex: `(\x{00A0})`,
			Group:          GroupRef{Index: 1},
			ReplaceValue:   " ",
			Scope:          wordingScope,
			SortOrder:      10,
		},
		{
			RuleID:         "CL-QUOTE",
			DetectionRegex: `([\x{2018}\x{2019}])`,
			Group:          GroupRef{Index: 1},
			ReplaceValue:   "'",
			Scope:          wordingScope,
			SortOrder:      20,
		},
		{
			RuleID:         "CL-SPECIFY-OPEN",
			DetectionRegex: `\*\*\(\.\.(?P<gap>\s+)SPECIFY`,
			Group:          GroupRef{Name: "gap"},
			ReplaceValue:   "",
			Scope:          wordingScope,
			SortOrder:      30,
		},
		{
			RuleID:         "CL-SPECIFY-CLOSE",
			DetectionRegex: `SPECIFY [A-Z ]*?[A-Z](\s+)\.\.\)`,
			Group:          GroupRef{Index: 1},
			ReplaceValue:   "",
			Scope:          wordingScope,
			SortOrder:      40,
		},
	}
}
