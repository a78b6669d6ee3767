package domain

import (
	"fmt"
	"sort"
)

// OffenceRevision is an offence ready for submission.
// Attributes holds the scalar catalog columns; Entries are flattened on output.
type OffenceRevision struct {
	SourceFileID string
	CJSCode      string
	Attributes   map[string]any
	Entries      []TerminalEntry
}

// MissingMenus returns the indices of menu entries without a resolved menu id.
func (r *OffenceRevision) MissingMenus() []int {
	var missing []int
	for _, e := range r.Entries {
		if e.IsMenu() && e.MenuID == "" {
			missing = append(missing, e.EntryNumber)
		}
	}
	return missing
}

// Payload returns the catalog representation of the revision.
func (r *OffenceRevision) Payload() map[string]any {
	out := make(map[string]any, len(r.Attributes)+len(r.Entries)*7)
	for k, v := range r.Attributes {
		out[k] = v
	}
	for k, v := range FlattenEntries(r.Entries) {
		out[k] = v
	}
	return out
}

// FlattenEntries converts entries into positional attribute sets keyed by a
// two-digit entry number. FID_MenuNN carries the catalog menu id, or nil.
func FlattenEntries(entries []TerminalEntry) map[string]any {
	out := make(map[string]any, len(entries)*7)
	for _, e := range entries {
		idx := fmt.Sprintf("%02d", e.EntryNumber)
		out["TerminalEntry"+idx+".EntryNumber"] = e.EntryNumber
		out["TerminalEntry"+idx+".EntryFormat"] = string(e.Format)
		out["TerminalEntry"+idx+".EntryPrompt"] = e.Prompt
		out["TerminalEntry"+idx+".Minimum"] = e.Min
		out["TerminalEntry"+idx+".Maximum"] = e.Max
		out["TerminalEntry"+idx+".StandardEntryIdentifier"] = nilIfEmpty(e.StandardEntryID)
		out["FID_Menu"+idx] = nilIfEmpty(e.MenuID)
	}
	return out
}

// OptionPayload returns the catalog representation of a menu option.
func OptionPayload(o MenuOption) map[string]any {
	out := map[string]any{
		"PNLDMenuHashMD5": o.MenuHash,
		"OptionNumber":    o.OptionNumber,
		"OptionText":      o.Text,
	}
	for _, el := range o.Elements {
		idx := fmt.Sprintf("%02d", el.Number)
		out["ElementDefinition"+idx+".ElementNumber"] = el.Number
		out["ElementDefinition"+idx+".EntryFormat"] = string(el.Format)
		out["ElementDefinition"+idx+".EntryPrompt"] = el.Prompt
		out["ElementDefinition"+idx+".OTEElementMax"] = el.Max
		out["ElementDefinition"+idx+".OTEElementMin"] = el.Min
	}
	return out
}

// SortEntries orders entries by entry number.
func SortEntries(entries []TerminalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EntryNumber < entries[j].EntryNumber
	})
}

// LoadedOffence is an offence revision the catalog reports for a load batch.
type LoadedOffence struct {
	CJSCode           string
	OffenceRevisionID string
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
