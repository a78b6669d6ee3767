package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

const releaseStage = "RELEASE PACKAGE HANDLING"

// ReleasePackageResolver finds the open PNLD release package, creating one
// when none exists.
type ReleasePackageResolver struct {
	packages driven.ReleasePackages
	poller   *LoadPoller
	now      func() time.Time
}

// NewReleasePackageResolver creates a resolver.
func NewReleasePackageResolver(packages driven.ReleasePackages, poller *LoadPoller) *ReleasePackageResolver {
	return &ReleasePackageResolver{packages: packages, poller: poller, now: time.Now}
}

// Resolve returns the id of the single open release package.
func (r *ReleasePackageResolver) Resolve(ctx context.Context) (string, error) {
	id, err := r.resolve(ctx)
	if err != nil {
		logger.Warn("%s | RETRIEVE | FAILED (error=%v)", releaseStage, err)
		return "", err
	}
	logger.Info("%s | RETRIEVE | SUCCESS (rp_id=%s)", releaseStage, id)
	return id, nil
}

func (r *ReleasePackageResolver) resolve(ctx context.Context) (string, error) {
	id, err := r.open(ctx)
	if err != nil || id != "" {
		return id, err
	}

	if err := r.create(ctx); err != nil {
		return "", err
	}

	id, err = r.open(ctx)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("none found after creation attempt: %w", domain.ErrNoReleasePackage)
	}
	return id, nil
}

func (r *ReleasePackageResolver) open(ctx context.Context) (string, error) {
	ids, err := r.packages.OpenReleasePackages(ctx)
	if err != nil {
		return "", fmt.Errorf("get release package: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", nil
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrMultipleReleasePackages, ids)
	}
}

// create submits a new package. A load ending in ERROR is not fatal here;
// the follow-up lookup decides.
func (r *ReleasePackageResolver) create(ctx context.Context) error {
	logger.Info("%s | Creation - START", releaseStage)

	req := domain.NewLoadRequest("PNLD Release Package Creation", domain.JobReleasePackage, "", nil)
	req.PersistRecords[domain.EntityReleasePackage] = []map[string]any{{
		"Description":        "PNLD Release Package - " + r.now().UTC().Format(time.DateTime),
		"Notes":              "PNLD Upload Release Package Creation",
		"Status":             "Open",
		"Urgent":             "No",
		"ReleasePackageType": "PNLD",
	}}

	handle, err := r.poller.Submit(ctx, releaseStage, req)
	if err != nil && !(errors.Is(err, domain.ErrLoadFailed) && handle.LoadID != "") {
		return fmt.Errorf("create release package: %w", err)
	}
	logger.Info("%s | Creation - COMPLETE (load_id=%s)", releaseStage, handle.LoadID)
	return nil
}
