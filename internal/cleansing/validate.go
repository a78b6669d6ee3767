package cleansing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/pnld-ingest/internal/cleansing/rules"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// detection is a pattern that must not survive extraction.
type detection struct {
	ruleID  string
	pattern *regexp.Regexp
}

var detections = []detection{
	// Menu option block delimiters.
	{"MO-999", regexp.MustCompile(`(?:\)_\[|\]_)`)},
	// Fill-in markers.
	{"SP-999", regexp.MustCompile(`(?:\*\*\(\.\.|\.\.\)|SPECIFY)`)},
	// Line breaks.
	{"BR-999", regexp.MustCompile(`(?:<br|/>)`)},
}

var bracketPairs = [][2]string{{"(", ")"}, {"[", "]"}, {"{", "}"}}

// validationPad is the context either side of a detection.
const validationPad = 10

// ValidateText reports markup left in extracted text and unbalanced brackets.
// Every finding is a CL-999 ERROR for attribute.
func ValidateText(sourceFileID, attribute, text string) []domain.Message {
	var messages []domain.Message

	for _, d := range detections {
		for _, m := range d.pattern.FindAllStringIndex(text, -1) {
			messages = append(messages, domain.NewError(sourceFileID, domain.CodeResidualMarkup, fmt.Sprintf(
				`%s | Attribute: %s | Detected: "%s" | Context: "%s"`,
				d.ruleID, attribute, text[m[0]:m[1]], rules.ContextSlice(text, m[0], m[1], validationPad))))
		}
	}

	for _, pair := range bracketPairs {
		if missing := unbalanced(text, pair[0], pair[1]); missing != "" {
			messages = append(messages, domain.NewError(sourceFileID, domain.CodeResidualMarkup, fmt.Sprintf(
				`MP-999 | Attribute: %s | Missing Parenthese: "%s" | Context: "%s"`,
				attribute, missing, text)))
		}
	}

	return messages
}

// unbalanced compares counts only; nesting and order are not checked.
func unbalanced(text, opener, closer string) string {
	opens, closes := strings.Count(text, opener), strings.Count(text, closer)
	switch {
	case opens > closes:
		return opener + " without " + closer
	case opens < closes:
		return closer + " without " + opener
	default:
		return ""
	}
}
