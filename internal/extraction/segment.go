package extraction

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

var (
	// breakPair matches two consecutive line breaks, literal or entity-encoded.
	breakPair = regexp.MustCompile(`(?i)(?:<br\s*/?>|&lt;br\s*/?&gt;){2}`)

	// leadingOn strips "On " ahead of a leading placeholder.
	leadingOn = regexp.MustCompile(`^On\s*\{`)
)

// Segment splits text on double line breaks and classifies each chunk.
// Chunks that match no rule are kept as prose with their text unchanged.
func Segment(text string, rules *RuleSet) []domain.TextChunk {
	parts := breakPair.Split(text, -1)
	chunks := make([]domain.TextChunk, 0, len(parts))
	for i, part := range parts {
		kind, _ := rules.Classify(part)
		chunks = append(chunks, domain.TextChunk{Order: i, Kind: kind, Text: part})
	}
	return chunks
}

// Assemble joins chunk texts with a space, collapses whitespace and strips a
// leading "On" in front of a placeholder.
func Assemble(chunks []domain.TextChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	out := normaliseSpace(strings.Join(texts, " "))
	return leadingOn.ReplaceAllString(out, "{")
}

// normaliseSpace collapses runs of whitespace to one space and trims the ends.
func normaliseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
