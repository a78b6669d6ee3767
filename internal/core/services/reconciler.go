package services

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

const (
	menuStage = "MENU HANDLING"

	// DefaultMenuLookupChunk bounds the hashes sent per lookup request.
	DefaultMenuLookupChunk = 100
)

// MenuReconciler resolves the menus of a whole batch against the catalog.
// It runs once, after every record has been processed, and calls the
// catalog sequentially.
type MenuReconciler struct {
	menus  driven.MenuCatalog
	poller *LoadPoller
	chunk  int
}

// NewMenuReconciler creates a reconciler. A non-positive chunk uses
// DefaultMenuLookupChunk.
func NewMenuReconciler(menus driven.MenuCatalog, poller *LoadPoller, chunk int) *MenuReconciler {
	if chunk <= 0 {
		chunk = DefaultMenuLookupChunk
	}
	return &MenuReconciler{menus: menus, poller: poller, chunk: chunk}
}

// Reconcile links every menu entry of the accepted revisions to a catalog
// menu id, creating menus the catalog does not know. Records left with an
// unresolved menu are excised and marked Failure. It returns the number of
// menus created.
func (r *MenuReconciler) Reconcile(ctx context.Context, releasePackageID string, outcomes []domain.RecordOutcome) int {
	menus, options := uniqueMenus(outcomes)
	logger.Info("%s | Unique Menu Extraction - SUCCESS (menus=%d, options=%d)", menuStage, len(menus), len(options))

	created := 0
	mapping := map[string]string{}

	if len(menus) > 0 {
		existing := r.lookup(ctx, menus)
		for k, v := range existing {
			mapping[k] = v
		}
		logger.Info("%s | Menu ID Lookup (Existing) - SUCCESS (found=%d)", menuStage, len(existing))

		var newMenus []domain.Menu
		for _, m := range menus {
			if _, ok := mapping[m.Hash]; !ok {
				newMenus = append(newMenus, m)
			}
		}
		var newOptions []domain.MenuOption
		for _, o := range options {
			if _, ok := mapping[o.MenuHash]; !ok {
				newOptions = append(newOptions, o)
			}
		}
		logger.Info("%s | New Menu Identification - COMPLETE (new_menus=%d, new_options=%d)",
			menuStage, len(newMenus), len(newOptions))

		if len(newMenus) > 0 {
			created = r.create(ctx, releasePackageID, newMenus, newOptions, mapping)
		} else {
			logger.Info("%s | New Menu POST - SKIPPED (no new menus)", menuStage)
		}

		logger.Info("%s | Menu Mapping Consolidation - COMPLETE (total_mappings=%d)", menuStage, len(mapping))
		applyMenuIDs(outcomes, mapping)
	}

	HandleMissingMenus(outcomes)
	return created
}

// create posts the new menus and merges the ids the catalog then reports.
func (r *MenuReconciler) create(
	ctx context.Context,
	releasePackageID string,
	menus []domain.Menu,
	options []domain.MenuOption,
	mapping map[string]string,
) int {
	logger.Info("%s | New Menu POST - START", menuStage)

	req := domain.NewLoadRequest("Process PNLD Menu XML files", domain.JobMenus,
		domain.EntityMenuOptions, []string{"GetMenuId"})
	menuRecords := make([]map[string]any, 0, len(menus))
	for _, m := range menus {
		menuRecords = append(menuRecords, map[string]any{
			"Name":               m.Name,
			"PNLDHashMD5":        m.Hash,
			"AuthoringStatus":    domain.AuthoringFinal,
			"PublishingStatus":   domain.PublishingPending,
			"FID_ReleasePackage": releasePackageID,
		})
	}
	optionRecords := make([]map[string]any, 0, len(options))
	for _, o := range options {
		optionRecords = append(optionRecords, domain.OptionPayload(o))
	}
	req.PersistRecords[domain.EntityMenu] = menuRecords
	req.PersistRecords[domain.EntityMenuOptions] = optionRecords

	if _, err := r.poller.Submit(ctx, menuStage, req); err != nil {
		logger.Error("%s | New Menu POST - FAILED (%v)", menuStage, err)
		return 0
	}
	logger.Info("%s | New Menu POST - SUCCESS", menuStage)

	found := r.lookup(ctx, menus)
	for k, v := range found {
		mapping[k] = v
	}
	logger.Info("%s | New Menu ID Lookup - SUCCESS (found=%d)", menuStage, len(found))
	return len(found)
}

// lookup queries the catalog in chunks. A failed chunk is logged and
// contributes nothing.
func (r *MenuReconciler) lookup(ctx context.Context, menus []domain.Menu) map[string]string {
	out := make(map[string]string, len(menus))
	for start, batch := 0, 1; start < len(menus); start, batch = start+r.chunk, batch+1 {
		end := min(start+r.chunk, len(menus))
		hashes := make([]string, 0, end-start)
		for _, m := range menus[start:end] {
			hashes = append(hashes, m.Hash)
		}

		found, err := r.menus.LookupMenus(ctx, hashes)
		if err != nil {
			logger.Error("%s | menu_id_lookup | Batch %d - FAILED (error=%v)", menuStage, batch, err)
			continue
		}
		logger.Debug("%s | menu_id_lookup | Batch %d - COMPLETE (searched=%d, returned=%d)",
			menuStage, batch, len(hashes), len(found))
		for k, v := range found {
			if k != "" && v != "" {
				out[k] = v
			}
		}
	}
	return out
}

// uniqueMenus collects the menus of accepted records by finalized hash in
// first-seen order, and their options without exact duplicates.
func uniqueMenus(outcomes []domain.RecordOutcome) ([]domain.Menu, []domain.MenuOption) {
	seen := map[string]struct{}{}
	var (
		menus   []domain.Menu
		options []domain.MenuOption
	)
	for _, o := range outcomes {
		if o.Revision == nil {
			continue
		}
		for _, m := range o.Menus {
			if m.Hash == "" {
				continue
			}
			if _, ok := seen[m.Hash]; ok {
				continue
			}
			seen[m.Hash] = struct{}{}
			menus = append(menus, m)
		}
		options = append(options, o.Options...)
	}
	return menus, domain.DedupeOptions(options)
}

// applyMenuIDs rewrites menu linkage from hashes to catalog ids. Hashes
// that did not resolve leave the entry without an id.
func applyMenuIDs(outcomes []domain.RecordOutcome, mapping map[string]string) {
	unresolved := 0
	for i := range outcomes {
		o := &outcomes[i]
		if o.Revision == nil {
			continue
		}
		for j := range o.Revision.Entries {
			e := &o.Revision.Entries[j]
			if e.MenuHash == "" {
				continue
			}
			id, ok := mapping[e.MenuHash]
			if !ok {
				unresolved++
				logger.Warn("%s | Offence Revision Update - UNRESOLVED menu hash '%s'", menuStage, e.MenuHash)
			}
			e.MenuID = id
		}
		for j := range o.Menus {
			o.Menus[j].ExternalID = mapping[o.Menus[j].Hash]
		}
	}
	logger.Info("%s | Offence Revision Update - COMPLETE (unresolved=%d)", menuStage, unresolved)
}

// HandleMissingMenus assigns the fixed date menu, then excises every
// revision that still has a menu entry without an id. Its source file is
// marked Failure and its COMPLETION messages become MNU-ERR-001; when it has
// none, one MNU-ERR-001 message is added.
func HandleMissingMenus(outcomes []domain.RecordOutcome) {
	removed := 0
	for i := range outcomes {
		o := &outcomes[i]
		if o.Revision == nil {
			continue
		}

		for j := range o.Revision.Entries {
			e := &o.Revision.Entries[j]
			if e.IsMenu() && e.Prompt == domain.PromptDate {
				e.MenuID = domain.DateMenuID
			}
		}

		missing := o.Revision.MissingMenus()
		if len(missing) == 0 {
			continue
		}
		logger.Warn("%s | Missing Menu (source_file_id=%s, entries=%v)", menuStage, o.SourceFile.ID, missing)

		o.Revision = nil
		o.Menus = nil
		o.Options = nil
		o.SourceFile.Status = domain.StatusFailure
		removed++

		rewritten := 0
		for k := range o.Messages {
			if o.Messages[k].Type == domain.MessageCompletion {
				o.Messages[k].Code = domain.CodeMissingMenu
				o.Messages[k].Type = domain.MessageError
				o.Messages[k].Text = domain.MessageMissingMenu
				rewritten++
			}
		}
		if rewritten == 0 {
			o.Messages = append(o.Messages, domain.NewError(o.SourceFile.ID, domain.CodeMissingMenu, domain.MessageMissingMenu))
		}
		o.SourceFile.MessageCount = len(o.Messages)
	}
	logger.Info("%s | Missing Menu Check - COMPLETE (removed=%d)", menuStage, removed)
}
