// Package memory provides an in-memory catalog for dry runs and tests.
//
// Loads complete synchronously. Menu, offence and release package loads
// take effect immediately so later lookups see them, the way the real
// catalog behaves once a load finishes.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.Catalog = (*Catalog)(nil)

// Operation names accepted by FailOn.
const (
	OpFindBaselines       = "FindBaselines"
	OpLookupMenus         = "LookupMenus"
	OpSubmitLoad          = "SubmitLoad"
	OpLoadStatus          = "LoadStatus"
	OpOffencesByBatch     = "OffencesByBatch"
	OpOpenReleasePackages = "OpenReleasePackages"
)

// Catalog is an in-memory implementation of driven.Catalog.
type Catalog struct {
	mu sync.RWMutex

	baselines       []domain.BaselineRecord
	menus           map[string]string
	releasePackages []string
	offences        map[string][]domain.LoadedOffence
	loads           map[string]domain.LoadStatus
	jobStatus       map[string]domain.LoadStatus
	failures        map[string]error
	submitted       []domain.LoadRequest
	seq             int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		menus:     make(map[string]string),
		offences:  make(map[string][]domain.LoadedOffence),
		loads:     make(map[string]domain.LoadStatus),
		jobStatus: make(map[string]domain.LoadStatus),
		failures:  make(map[string]error),
	}
}

// AddBaseline stores a baseline revision.
func (c *Catalog) AddBaseline(b domain.BaselineRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baselines = append(c.baselines, b)
}

// AddMenu registers an existing menu.
func (c *Catalog) AddMenu(hash, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menus[hash] = id
}

// AddReleasePackage registers an open release package.
func (c *Catalog) AddReleasePackage(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releasePackages = append(c.releasePackages, id)
}

// SetJobStatus makes loads of job finish with status. A non-successful
// status also suppresses the load's effects.
func (c *Catalog) SetJobStatus(job string, status domain.LoadStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobStatus[job] = status
}

// FailOn makes op return err until cleared with a nil err.
func (c *Catalog) FailOn(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, op)
		return
	}
	c.failures[op] = err
}

// Submitted returns the load requests received for job, or all when job is "".
func (c *Catalog) Submitted(job string) []domain.LoadRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.LoadRequest
	for _, req := range c.submitted {
		if job == "" || req.JobName == job {
			out = append(out, req)
		}
	}
	return out
}

// Menus returns a copy of the known menu ids by hash.
func (c *Catalog) Menus() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.menus))
	for k, v := range c.menus {
		out[k] = v
	}
	return out
}

// FindBaselines returns every baseline matching the code or the reference.
func (c *Catalog) FindBaselines(_ context.Context, cjsCode, reference string) ([]domain.BaselineRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[OpFindBaselines]; err != nil {
		return nil, err
	}
	var out []domain.BaselineRecord
	for _, b := range c.baselines {
		if b.CJSCode == cjsCode || b.Reference == reference {
			out = append(out, b)
		}
	}
	return out, nil
}

// LookupMenus returns the ids of known hashes.
func (c *Catalog) LookupMenus(_ context.Context, hashes []string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[OpLookupMenus]; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(hashes))
	for _, h := range hashes {
		if id, ok := c.menus[h]; ok {
			out[h] = id
		}
	}
	return out, nil
}

// SubmitLoad records the request and applies it.
func (c *Catalog) SubmitLoad(_ context.Context, req domain.LoadRequest) (domain.LoadHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failures[OpSubmitLoad]; err != nil {
		return domain.LoadHandle{}, err
	}

	c.seq++
	handle := domain.LoadHandle{
		LoadID:  fmt.Sprintf("load-%d", c.seq),
		BatchID: fmt.Sprintf("batch-%d", c.seq),
	}
	c.submitted = append(c.submitted, req)

	status, ok := c.jobStatus[req.JobName]
	if !ok {
		status = domain.LoadDone
	}
	c.loads[handle.LoadID] = status
	if status.Succeeded() {
		c.apply(handle, req)
	}
	return handle, nil
}

// LoadStatus returns the final status of a load.
func (c *Catalog) LoadStatus(_ context.Context, loadID string) (domain.LoadStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[OpLoadStatus]; err != nil {
		return "", err
	}
	status, ok := c.loads[loadID]
	if !ok {
		return "", fmt.Errorf("load %s: %w", loadID, domain.ErrNotFound)
	}
	return status, nil
}

// OffencesByBatch returns the revisions a load created.
func (c *Catalog) OffencesByBatch(_ context.Context, batchID string) ([]domain.LoadedOffence, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[OpOffencesByBatch]; err != nil {
		return nil, err
	}
	return append([]domain.LoadedOffence(nil), c.offences[batchID]...), nil
}

// OpenReleasePackages returns the open release package ids.
func (c *Catalog) OpenReleasePackages(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.failures[OpOpenReleasePackages]; err != nil {
		return nil, err
	}
	return append([]string(nil), c.releasePackages...), nil
}

// apply must be called with the lock held.
func (c *Catalog) apply(handle domain.LoadHandle, req domain.LoadRequest) {
	switch req.JobName {
	case domain.JobMenus:
		for _, rec := range req.PersistRecords[domain.EntityMenu] {
			hash, _ := rec["PNLDHashMD5"].(string)
			if hash == "" {
				continue
			}
			if _, ok := c.menus[hash]; !ok {
				c.menus[hash] = fmt.Sprintf("menu-%d", len(c.menus)+1)
			}
		}
	case domain.JobOffences:
		for i, rec := range req.PersistRecords[domain.EntityOffenceRevision] {
			code, _ := rec["CJSCode"].(string)
			c.offences[handle.BatchID] = append(c.offences[handle.BatchID], domain.LoadedOffence{
				CJSCode:           code,
				OffenceRevisionID: fmt.Sprintf("%s-rev-%d", handle.BatchID, i+1),
			})
			c.baselines = append(c.baselines, baselineFrom(rec))
		}
	case domain.JobReleasePackage:
		for range req.PersistRecords[domain.EntityReleasePackage] {
			c.releasePackages = append(c.releasePackages, fmt.Sprintf("rp-%d", len(c.releasePackages)+1))
		}
	}
}

// baselineFrom turns a loaded revision into the baseline later runs see.
func baselineFrom(rec map[string]any) domain.BaselineRecord {
	str := func(key string) string {
		s, _ := rec[key].(string)
		return s
	}
	return domain.BaselineRecord{
		CJSCode:          str("CJSCode"),
		Reference:        str("SOWReference"),
		ContentHash:      str("PNLDHashMD5"),
		AuthoringStatus:  str("AuthoringStatus"),
		PublishingStatus: str("PublishingStatus"),
		DateUsedFrom:     domain.ParseDate(str("DateUsedFrom")),
		DateUsedTo:       domain.ParseDate(str("DateUsedTo")),
		DateOfLastUpdate: domain.ParseDate(str("PNLDDateOfLastUpdate")),
	}
}
