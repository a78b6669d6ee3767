package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// APIKeyEnv overrides catalog.api_key when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const APIKeyEnv = "PNLD_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: config key names, not credentials.
const (
	KeyCatalogBaseURL        = "catalog.base_url"
	KeyCatalogAPIKey         = "catalog.api_key"
	KeyCatalogLoadPath       = "catalog.load_path"
	KeyCatalogBaselinePath   = "catalog.baseline_query_path"
	KeyCatalogMenuPath       = "catalog.menu_query_path"
	KeyCatalogOffenceBatch   = "catalog.offence_batch_query_path"
	KeyCatalogReleasePackage = "catalog.release_package_query_path"
	KeyCatalogRequestsPerSec = "catalog.requests_per_second"
	KeyCatalogBurst          = "catalog.burst"
	KeyCatalogTimeoutSeconds = "catalog.timeout_seconds"
	KeyIngestConcurrency     = "ingest.concurrency"
	KeyIngestPollIntervalMS  = "ingest.poll_interval_ms"
	KeyIngestPollAttempts    = "ingest.poll_attempts"
	KeyIngestMenuLookupChunk = "ingest.menu_lookup_chunk"
	KeyCleanseRulesFile      = "cleanse.rules_file"
	KeyCleanseContextChars   = "cleanse.context_chars"
	KeyCleanseUnicodeNFC     = "cleanse.unicode_nfc"
	KeyLedgerEnabled         = "ledger.enabled"
)

type settingKind int

const (
	kindString settingKind = iota
	kindPositiveInt
	kindNonNegativeInt
	kindPositiveFloat
	kindBool
)

// setting binds one config key to a field of domain.AppSettings.
type setting struct {
	key  string
	kind settingKind
	get  func(*domain.AppSettings) any
	put  func(*domain.AppSettings, any)
}

func stringSetting(key string, field func(*domain.AppSettings) *string) setting {
	return setting{
		key:  key,
		kind: kindString,
		get:  func(a *domain.AppSettings) any { return *field(a) },
		put:  func(a *domain.AppSettings, v any) { *field(a) = v.(string) },
	}
}

func intSetting(key string, kind settingKind, field func(*domain.AppSettings) *int) setting {
	return setting{
		key:  key,
		kind: kind,
		get:  func(a *domain.AppSettings) any { return *field(a) },
		put:  func(a *domain.AppSettings, v any) { *field(a) = v.(int) },
	}
}

func durationSetting(key string, unit time.Duration, field func(*domain.AppSettings) *time.Duration) setting {
	return setting{
		key:  key,
		kind: kindPositiveInt,
		get:  func(a *domain.AppSettings) any { return int(*field(a) / unit) },
		put:  func(a *domain.AppSettings, v any) { *field(a) = time.Duration(v.(int)) * unit },
	}
}

// settings lists every supported key in display order.
var settingTable = []setting{
	stringSetting(KeyCatalogBaseURL, func(a *domain.AppSettings) *string { return &a.Catalog.BaseURL }),
	stringSetting(KeyCatalogAPIKey, func(a *domain.AppSettings) *string { return &a.Catalog.APIKey }),
	stringSetting(KeyCatalogLoadPath, func(a *domain.AppSettings) *string { return &a.Catalog.LoadPath }),
	stringSetting(KeyCatalogBaselinePath, func(a *domain.AppSettings) *string { return &a.Catalog.BaselineQueryPath }),
	stringSetting(KeyCatalogMenuPath, func(a *domain.AppSettings) *string { return &a.Catalog.MenuQueryPath }),
	stringSetting(KeyCatalogOffenceBatch, func(a *domain.AppSettings) *string { return &a.Catalog.OffenceBatchQueryPath }),
	stringSetting(KeyCatalogReleasePackage, func(a *domain.AppSettings) *string { return &a.Catalog.ReleasePackageQueryPath }),
	{
		key:  KeyCatalogRequestsPerSec,
		kind: kindPositiveFloat,
		get:  func(a *domain.AppSettings) any { return a.Catalog.RequestsPerSecond },
		put:  func(a *domain.AppSettings, v any) { a.Catalog.RequestsPerSecond = v.(float64) },
	},
	intSetting(KeyCatalogBurst, kindPositiveInt, func(a *domain.AppSettings) *int { return &a.Catalog.Burst }),
	durationSetting(KeyCatalogTimeoutSeconds, time.Second, func(a *domain.AppSettings) *time.Duration { return &a.Catalog.Timeout }),
	intSetting(KeyIngestConcurrency, kindPositiveInt, func(a *domain.AppSettings) *int { return &a.Ingest.Concurrency }),
	durationSetting(KeyIngestPollIntervalMS, time.Millisecond, func(a *domain.AppSettings) *time.Duration { return &a.Ingest.PollInterval }),
	intSetting(KeyIngestPollAttempts, kindPositiveInt, func(a *domain.AppSettings) *int { return &a.Ingest.PollAttempts }),
	intSetting(KeyIngestMenuLookupChunk, kindPositiveInt, func(a *domain.AppSettings) *int { return &a.Ingest.MenuLookupChunk }),
	stringSetting(KeyCleanseRulesFile, func(a *domain.AppSettings) *string { return &a.Cleanse.RulesFile }),
	intSetting(KeyCleanseContextChars, kindNonNegativeInt, func(a *domain.AppSettings) *int { return &a.Cleanse.ContextChars }),
	{
		key:  KeyCleanseUnicodeNFC,
		kind: kindBool,
		get:  func(a *domain.AppSettings) any { return a.Cleanse.UnicodeNFC },
		put:  func(a *domain.AppSettings, v any) { a.Cleanse.UnicodeNFC = v.(bool) },
	},
	{
		key:  KeyLedgerEnabled,
		kind: kindBool,
		get:  func(a *domain.AppSettings) any { return a.Ledger.Enabled },
		put:  func(a *domain.AppSettings, v any) { a.Ledger.Enabled = v.(bool) },
	},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settingTable {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// SettingsService maps config keys onto domain.AppSettings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get returns the stored settings over the defaults. Stored values that
// fail validation fall back to their default.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	out := domain.DefaultAppSettings()
	for _, def := range settingTable {
		if v, ok := s.stored(def); ok {
			def.put(&out, v)
		}
	}
	if key := s.getenv(APIKeyEnv); key != "" {
		out.Catalog.APIKey = key
	}
	return &out, nil
}

// stored reads one key through the store's typed getters. A value of the
// wrong type or out of range reports false so the default is kept.
func (s *SettingsService) stored(def setting) (any, bool) {
	raw, ok := s.configStore.Get(def.key)
	if !ok {
		return nil, false
	}
	switch def.kind {
	case kindString:
		if _, text := raw.(string); text {
			return strings.TrimSpace(s.configStore.GetString(def.key)), true
		}
	case kindPositiveInt, kindNonNegativeInt:
		n := s.configStore.GetInt(def.key)
		if n > 0 || (n == 0 && def.kind == kindNonNegativeInt && isIntegerZero(raw)) {
			return n, true
		}
	case kindPositiveFloat:
		if f := s.configStore.GetFloat(def.key); f > 0 {
			return f, true
		}
	case kindBool:
		if _, flag := raw.(bool); flag {
			return s.configStore.GetBool(def.key), true
		}
	}
	return nil, false
}

// isIntegerZero tells a stored 0 apart from the 0 GetInt reports for
// values that are not integers.
func isIntegerZero(raw any) bool {
	switch v := raw.(type) {
	case int:
		return v == 0
	case int64:
		return v == 0
	}
	return false
}

// Save persists every key of settings.
func (s *SettingsService) Save(app *domain.AppSettings) error {
	for _, def := range settingTable {
		if err := s.configStore.Set(def.key, def.get(app)); err != nil {
			return fmt.Errorf("save %s: %w", def.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	v, err := coerce(def.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := s.configStore.Set(key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the supported keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingTable))
	for i, def := range settingTable {
		keys[i] = def.key
	}
	return keys
}

// Value returns the effective value of one key.
func (s *SettingsService) Value(key string) (any, error) {
	def, ok := lookupSetting(key)
	if !ok {
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	app, err := s.Get()
	if err != nil {
		return nil, err
	}
	return def.get(app), nil
}

// Validate reports settings that would stop a run against the catalog.
func (s *SettingsService) Validate() error {
	app, err := s.Get()
	if err != nil {
		return err
	}
	if app.Catalog.BaseURL != "" && app.Catalog.APIKey == "" {
		return fmt.Errorf("%w: %s is set but no API key (set %s or %s)",
			domain.ErrCatalogNotConfigured, KeyCatalogBaseURL, KeyCatalogAPIKey, APIKeyEnv)
	}
	if app.Cleanse.RulesFile != "" {
		if _, err := os.Stat(app.Cleanse.RulesFile); err != nil {
			return fmt.Errorf("%s: %w", KeyCleanseRulesFile, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// coerce parses typed-in text to the kind's Go type.
func coerce(kind settingKind, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case kindString:
		return text, nil

	case kindPositiveInt, kindNonNegativeInt:
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", text)
		}
		if n < 0 || (n == 0 && kind == kindPositiveInt) {
			return nil, fmt.Errorf("out of range: %d", n)
		}
		return n, nil

	case kindPositiveFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", text)
		}
		if f <= 0 {
			return nil, fmt.Errorf("out of range: %g", f)
		}
		return f, nil

	case kindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", text)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported setting kind %d", kind)
}
