package domain

import (
	"fmt"
	"strings"
)

// Menu is a multi-choice placeholder discovered in offence wording.
//
// RawHash is computed from the option blocks alone. Hash is bound to the
// offence code and prompt by the finalizer and is the reconciliation key.
type Menu struct {
	RawHash    string
	Hash       string
	Name       string
	ExternalID string
}

// MenuOption is one choice of a menu.
type MenuOption struct {
	MenuHash     string
	OptionNumber int
	Text         string
	Elements     []ElementDefinition
}

// Key returns a string that is equal for two options iff every field matches.
func (o MenuOption) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\x1f%d\x1f%s", o.MenuHash, o.OptionNumber, o.Text)
	for _, el := range o.Elements {
		fmt.Fprintf(&b, "\x1e%d\x1f%s\x1f%s\x1f%d\x1f%d", el.Number, el.Prompt, el.Format, el.Min, el.Max)
	}
	return b.String()
}

// DedupeOptions removes options that are equal in every field, keeping the first.
func DedupeOptions(options []MenuOption) []MenuOption {
	seen := make(map[string]struct{}, len(options))
	result := make([]MenuOption, 0, len(options))
	for _, opt := range options {
		key := opt.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, opt)
	}
	return result
}
