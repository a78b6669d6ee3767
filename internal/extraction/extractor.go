package extraction

import (
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// Result is the extraction output for one record.
type Result struct {
	SOW     string
	SOF     *string
	Entries []domain.TerminalEntry
	Menus   []domain.Menu
	Options []domain.MenuOption
	Audit   []domain.EntryAudit
}

// Extractor turns offence wording into numbered placeholders plus metadata.
// It holds no per-record state and is safe for concurrent use.
type Extractor struct {
	rules *RuleSet
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRules replaces the default classification rules.
func WithRules(rules ...Rule) Option {
	return func(x *Extractor) {
		x.rules = NewRuleSet(rules...)
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	x := &Extractor{rules: NewRuleSet(DefaultRules()...)}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Document segments one text field, extracts its fill-ins and menus into acc
// and returns the assembled text with {hash} placeholders.
func (x *Extractor) Document(text string, acc *Accumulator) string {
	chunks := Segment(text, x.rules)
	for i, c := range chunks {
		switch c.Kind {
		case domain.ChunkTerminalEntry:
			chunks[i].Text = replaceFillIns(c.Text, acc)
		case domain.ChunkMenu:
			updated, raw, options, ok := collapseMenu(c.Text, x.rules)
			if !ok {
				continue
			}
			chunks[i].Text = updated
			acc.addMenu(raw, options)
		}
	}
	return Assemble(chunks)
}

// Extract processes the wording then the statement of facts with one shared
// accumulator, numbers the placeholders and binds menus to cjsCode.
func (x *Extractor) Extract(cjsCode, sow string, sof *string) (*Result, error) {
	acc := NewAccumulator()

	sowText := x.Document(sow, acc)
	var sofText *string
	if sof != nil {
		s := x.Document(*sof, acc)
		sofText = &s
	}

	audit := LowestAudit(acc.Audit)
	sowText = ReplacePlaceholders(sowText, audit)
	if sofText != nil {
		s := ReplacePlaceholders(*sofText, audit)
		sofText = &s
	}

	entries := NumberEntries(acc.Entries, audit)
	menus, options, err := FinalizeMenus(cjsCode, entries, acc.Menus, acc.Options)
	if err != nil {
		return nil, fmt.Errorf("finalize menus for %s: %w", cjsCode, err)
	}

	return &Result{
		SOW:     sowText,
		SOF:     sofText,
		Entries: entries,
		Menus:   menus,
		Options: options,
		Audit:   audit,
	}, nil
}
