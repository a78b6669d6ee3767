package cleansing

import (
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/cleansing/rules"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// RegisterDefaults registers all built-in steps with the registry.
// Call this during application initialisation to enable standard steps.
func RegisterDefaults(r *Registry) {
	r.Register("unescape", buildUnescape)
	r.Register("nfc", buildNFC)
	r.Register("rules", buildRules)
}

// NewFromSettings builds the standard pipeline: unescape, nfc when enabled,
// then the rule engine.
func NewFromSettings(settings domain.CleanseSettings) (*Pipeline, error) {
	reg := NewRegistry()
	RegisterDefaults(reg)

	names := []string{"unescape"}
	if settings.UnicodeNFC {
		names = append(names, "nfc")
	}
	names = append(names, "rules")

	cfg := map[string]any{
		"rules_file":    settings.RulesFile,
		"context_chars": settings.ContextChars,
	}

	p := NewPipeline()
	for _, name := range names {
		step, err := reg.Build(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
		p.Add(step)
	}
	return p, nil
}

// buildUnescape creates an unescape step.
// Supported config keys:
//   - scope ([]string): Columns to unescape (default: wording and statement of facts)
func buildUnescape(cfg map[string]any) (driven.CleanseStep, error) {
	return NewUnescapeStep(getStringsFromConfig(cfg, "scope")...), nil
}

// buildNFC creates an NFC normalisation step.
// Supported config keys:
//   - scope ([]string): Columns to normalise (default: wording and statement of facts)
func buildNFC(cfg map[string]any) (driven.CleanseStep, error) {
	return NewNFCStep(getStringsFromConfig(cfg, "scope")...), nil
}

// buildRules creates the regex rule engine.
// Supported config keys:
//   - rules_file (string): YAML rule table (default: built-in rules)
//   - context_chars (int): Context padding in messages (default: 10)
func buildRules(cfg map[string]any) (driven.CleanseStep, error) {
	table := rules.Defaults()
	if path, _ := cfg["rules_file"].(string); path != "" {
		loaded, err := rules.LoadFile(path)
		if err != nil {
			return nil, err
		}
		table = loaded
	}

	var opts []rules.Option
	if _, ok := cfg["context_chars"]; ok {
		opts = append(opts, rules.WithContextChars(getIntFromConfig(cfg, "context_chars")))
	}
	return rules.New(table, opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStringsFromConfig extracts a string list from generic config map.
func getStringsFromConfig(cfg map[string]any, key string) []string {
	switch v := cfg[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
