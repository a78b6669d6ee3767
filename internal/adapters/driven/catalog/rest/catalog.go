package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.Catalog = (*Client)(nil)

// FindBaselines queries the baseline by CJS code and PNLD reference.
func (c *Client) FindBaselines(ctx context.Context, cjsCode, reference string) ([]domain.BaselineRecord, error) {
	recs, err := c.records(ctx, c.cfg.BaselineQueryPath, url.Values{
		"CJS_CODE": {cjsCode},
		"PNLD_REF": {reference},
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.BaselineRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.BaselineRecord{
			CJSCode:          text(r, "CJSCode"),
			Reference:        text(r, "SOWReference"),
			ContentHash:      text(r, "PNLDHashMD5"),
			AuthoringStatus:  text(r, "AuthoringStatus"),
			PublishingStatus: text(r, "PublishingStatus"),
			DateUsedFrom:     domain.ParseDate(text(r, "DateUsedFrom")),
			DateUsedTo:       domain.ParseDate(text(r, "DateUsedTo")),
			DateOfLastUpdate: domain.ParseDate(text(r, "PNLDDateOfLastUpdate")),
		})
	}
	return out, nil
}

// LookupMenus searches menus by hash. The hashes are sent as one
// dash-delimited MD5_HASH value; callers chunk large sets.
func (c *Client) LookupMenus(ctx context.Context, hashes []string) (map[string]string, error) {
	found := make(map[string]string, len(hashes))
	if len(hashes) == 0 {
		return found, nil
	}

	recs, err := c.records(ctx, c.cfg.MenuQueryPath, url.Values{
		"MD5_HASH": {"-" + strings.Join(hashes, "-") + "-"},
	})
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		hash, id := text(r, "PNLDHashMD5"), text(r, "OTEMenuID")
		if hash != "" && id != "" {
			found[hash] = id
		}
	}
	return found, nil
}

// SubmitLoad posts a load. A response without a load id is returned as an
// empty handle for the caller to reject.
func (c *Client) SubmitLoad(ctx context.Context, req domain.LoadRequest) (domain.LoadHandle, error) {
	var body struct {
		Load struct {
			LoadID  any `json:"loadId"`
			BatchID any `json:"batchId"`
		} `json:"load"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint(c.cfg.LoadPath, nil), req, &body); err != nil {
		return domain.LoadHandle{}, err
	}
	fields := map[string]any{"loadId": body.Load.LoadID, "batchId": body.Load.BatchID}
	return domain.LoadHandle{
		LoadID:  text(fields, "loadId"),
		BatchID: text(fields, "batchId"),
	}, nil
}

// LoadStatus reads {load path}/{loadId}.
func (c *Client) LoadStatus(ctx context.Context, loadID string) (domain.LoadStatus, error) {
	var body struct {
		LoadStatus string `json:"loadStatus"`
	}
	path := strings.TrimRight(c.cfg.LoadPath, "/") + "/" + url.PathEscape(loadID)
	if err := c.do(ctx, http.MethodGet, c.endpoint(path, nil), nil, &body); err != nil {
		return "", err
	}
	if body.LoadStatus == "" {
		return "", fmt.Errorf("load %s: response has no loadStatus", loadID)
	}
	return domain.LoadStatus(body.LoadStatus), nil
}

// OffencesByBatch lists the revisions a load batch created.
func (c *Client) OffencesByBatch(ctx context.Context, batchID string) ([]domain.LoadedOffence, error) {
	recs, err := c.records(ctx, c.cfg.OffenceBatchQueryPath, url.Values{"BATCH_ID": {batchID}})
	if err != nil {
		return nil, fmt.Errorf("offences for batch %s: %w", batchID, err)
	}
	out := make([]domain.LoadedOffence, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.LoadedOffence{
			CJSCode:           text(r, "CJSCode"),
			OffenceRevisionID: text(r, "OffenceRevisionID"),
		})
	}
	return out, nil
}

// OpenReleasePackages lists open PNLD release packages.
func (c *Client) OpenReleasePackages(ctx context.Context) ([]string, error) {
	recs, err := c.records(ctx, c.cfg.ReleasePackageQueryPath, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, text(r, "ReleasePackageID"))
	}
	return ids, nil
}
