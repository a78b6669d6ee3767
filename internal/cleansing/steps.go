package cleansing

import (
	"context"
	"html"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

var (
	_ driven.CleanseStep = (*UnescapeStep)(nil)
	_ driven.CleanseStep = (*NFCStep)(nil)
)

// DefaultScope is the set of columns cleansed when no scope is configured.
var DefaultScope = []string{domain.FieldSOW, domain.FieldSOF}

// UnescapeStep decodes HTML entities in scoped columns.
type UnescapeStep struct {
	scope []string
}

// NewUnescapeStep creates an unescape step. An empty scope uses DefaultScope.
func NewUnescapeStep(scope ...string) *UnescapeStep {
	if len(scope) == 0 {
		scope = DefaultScope
	}
	return &UnescapeStep{scope: scope}
}

// Name returns the step name.
func (s *UnescapeStep) Name() string {
	return "unescape"
}

// Cleanse unescapes each scoped value. It emits no messages.
func (s *UnescapeStep) Cleanse(_ context.Context, _ string, fields domain.Fields) ([]domain.Message, error) {
	rewrite(fields, s.scope, html.UnescapeString)
	return nil, nil
}

// NFCStep applies Unicode canonical composition to scoped columns.
type NFCStep struct {
	scope []string
}

// NewNFCStep creates an NFC step. An empty scope uses DefaultScope.
func NewNFCStep(scope ...string) *NFCStep {
	if len(scope) == 0 {
		scope = DefaultScope
	}
	return &NFCStep{scope: scope}
}

// Name returns the step name.
func (s *NFCStep) Name() string {
	return "nfc"
}

// Cleanse normalises each scoped value. It emits no messages.
func (s *NFCStep) Cleanse(_ context.Context, _ string, fields domain.Fields) ([]domain.Message, error) {
	rewrite(fields, s.scope, norm.NFC.String)
	return nil, nil
}

func rewrite(fields domain.Fields, scope []string, fn func(string) string) {
	for _, col := range scope {
		v, ok := fields[col]
		if !ok || v == nil {
			continue
		}
		fields.Set(col, fn(*v))
	}
}
