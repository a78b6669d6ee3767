package driven

import (
	"context"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// BaselineLookup fetches previously accepted offence versions.
type BaselineLookup interface {
	// FindBaselines returns every catalog revision matching the offence code
	// or the PNLD reference. An empty result means the offence is new.
	FindBaselines(ctx context.Context, cjsCode, reference string) ([]domain.BaselineRecord, error)
}

// MenuCatalog resolves menu hashes to catalog identifiers.
type MenuCatalog interface {
	// LookupMenus returns hash -> menu id for the hashes the catalog knows.
	// Unknown hashes are absent from the map.
	LookupMenus(ctx context.Context, hashes []string) (map[string]string, error)
}

// LoadService submits asynchronous loads and reports their progress.
type LoadService interface {
	// SubmitLoad creates and submits a load, returning its handle.
	SubmitLoad(ctx context.Context, req domain.LoadRequest) (domain.LoadHandle, error)

	// LoadStatus returns the current status of a load.
	LoadStatus(ctx context.Context, loadID string) (domain.LoadStatus, error)
}

// OffenceCatalog reads offence revisions persisted by a load.
type OffenceCatalog interface {
	// OffencesByBatch returns the revisions created by a load batch.
	OffencesByBatch(ctx context.Context, batchID string) ([]domain.LoadedOffence, error)
}

// ReleasePackages queries open PNLD release packages.
type ReleasePackages interface {
	// OpenReleasePackages returns the ids of open PNLD release packages.
	OpenReleasePackages(ctx context.Context) ([]string, error)
}

// Catalog is the full external catalog surface.
type Catalog interface {
	BaselineLookup
	MenuCatalog
	LoadService
	OffenceCatalog
	ReleasePackages
}
