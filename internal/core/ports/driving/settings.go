package driving

import "github.com/custodia-labs/pnld-ingest/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set validates and persists one setting by key.
	Set(key, value string) error

	// Keys returns the supported setting keys in display order.
	Keys() []string

	// Value returns the effective value of one key.
	Value(key string) (any, error)

	// Validate checks the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
