package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/logger"
)

// HeaderAPIKey carries the catalog API key.
const HeaderAPIKey = "API-Key"

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 512

// Client talks to the catalog REST API.
type Client struct {
	cfg     domain.CatalogSettings
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimiter replaces the token bucket.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client. It fails with domain.ErrCatalogNotConfigured
// when the base URL or API key is missing.
func NewClient(cfg domain.CatalogSettings, opts ...Option) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, domain.ErrCatalogNotConfigured
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: base url: %v", domain.ErrCatalogNotConfigured, err)
	}

	rps, burst := cfg.RequestsPerSecond, cfg.Burst
	if rps <= 0 {
		rps = domain.DefaultAppSettings().Catalog.RequestsPerSecond
	}
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins the base URL and a configured path.
func (c *Client) endpoint(path string, query url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, target string, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("catalog %s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: text, URL: target}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

// records runs a named query and returns its records.
func (c *Client) records(ctx context.Context, path string, query url.Values) ([]map[string]any, error) {
	var body struct {
		Records []map[string]any `json:"records"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint(path, query), nil, &body); err != nil {
		return nil, err
	}
	return body.Records, nil
}

// text renders a record field as a string. Numeric ids are kept exact.
func text(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
