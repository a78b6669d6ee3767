package domain

import "time"

// CatalogSettings configures the external catalog connection.
type CatalogSettings struct {
	// BaseURL is the catalog root. Empty selects the in-memory catalog.
	BaseURL string

	// APIKey is sent in the API-Key header.
	APIKey string

	LoadPath                string
	BaselineQueryPath       string
	MenuQueryPath           string
	OffenceBatchQueryPath   string
	ReleasePackageQueryPath string

	// RequestsPerSecond and Burst configure the client-side token bucket.
	RequestsPerSecond float64
	Burst             int

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// IsConfigured returns true if a remote catalog can be used.
func (c CatalogSettings) IsConfigured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// IngestSettings configures batch processing.
type IngestSettings struct {
	// Concurrency is the worker pool ceiling for per-record processing.
	Concurrency int

	// PollInterval and PollAttempts bound load status polling.
	PollInterval time.Duration
	PollAttempts int

	// MenuLookupChunk is the number of hashes per menu lookup request.
	MenuLookupChunk int
}

// CleanseSettings configures the cleansing pipeline.
type CleanseSettings struct {
	// RulesFile is a YAML rule table. Empty uses the built-in rules.
	RulesFile string

	// ContextChars is the padding either side of a cleanse in audit messages.
	ContextChars int

	// UnicodeNFC enables the NFC normalisation step.
	UnicodeNFC bool
}

// LedgerSettings configures the local run ledger.
type LedgerSettings struct {
	Enabled bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Catalog CatalogSettings
	Ingest  IngestSettings
	Cleanse CleanseSettings
	Ledger  LedgerSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Catalog: CatalogSettings{
			LoadPath:                "/loads",
			BaselineQueryPath:       "/named-query/offence-revision",
			MenuQueryPath:           "/named-query/menus",
			OffenceBatchQueryPath:   "/named-query/offence-revision-batch",
			ReleasePackageQueryPath: "/named-query/release-package",
			RequestsPerSecond:       5,
			Burst:                   10,
			Timeout:                 60 * time.Second,
		},
		Ingest: IngestSettings{
			Concurrency:     8,
			PollInterval:    time.Second,
			PollAttempts:    60,
			MenuLookupChunk: 100,
		},
		Cleanse: CleanseSettings{
			ContextChars: 10,
			UnicodeNFC:   true,
		},
		Ledger: LedgerSettings{
			Enabled: true,
		},
	}
}
