package extraction

import (
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// FinalizeMenus binds each menu to its offence: the finalized hash is
// md5(rawHash + cjsCode + prompt), where prompt comes from the numbered entry
// that carries the raw hash. The entry, the menu and its options all pick up
// the finalized hash; options are then deduplicated.
//
// A menu without an entry, or an option without a menu, is a consistency error.
func FinalizeMenus(cjsCode string, entries []domain.TerminalEntry, menus []domain.Menu, options []domain.MenuOption) ([]domain.Menu, []domain.MenuOption, error) {
	byHash := make(map[string]int, len(entries))
	for i, e := range entries {
		byHash[e.Hash] = i
	}

	mapping := make(map[string]string, len(menus))
	finalized := make([]domain.Menu, 0, len(menus))
	for _, m := range menus {
		if _, done := mapping[m.RawHash]; done {
			continue
		}
		i, ok := byHash[m.RawHash]
		if !ok {
			return nil, nil, domain.NewConsistencyError("missing terminal entry for menu %s", m.RawHash)
		}

		prompt := entries[i].Prompt
		hash := md5Hex(m.RawHash + cjsCode + prompt)
		mapping[m.RawHash] = hash
		entries[i].MenuHash = hash

		m.Hash = hash
		m.Name = prompt
		finalized = append(finalized, m)
	}

	bound := make([]domain.MenuOption, 0, len(options))
	for _, opt := range options {
		hash, ok := mapping[opt.MenuHash]
		if !ok {
			return nil, nil, domain.NewConsistencyError("missing menu for option %d of %s", opt.OptionNumber, opt.MenuHash)
		}
		opt.MenuHash = hash
		bound = append(bound, opt)
	}

	return finalized, domain.DedupeOptions(bound), nil
}
