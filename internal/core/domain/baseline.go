package domain

import (
	"strings"
	"time"
)

// DateLayout is the date format used by PNLD records and the catalog.
const DateLayout = "2006-01-02"

// Authoring and publishing statuses reported by the catalog.
const (
	AuthoringDraft    = "Draft"
	AuthoringFinal    = "Final"
	PublishingActive  = "Active"
	PublishingPending = "Not Published"
)

// ParseDate parses a YYYY-MM-DD value. Empty or invalid input yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// BaselineRecord is the previously accepted version of an offence.
// It is read-only input to the classifier. Zero dates mean absent.
type BaselineRecord struct {
	CJSCode          string
	Reference        string
	ContentHash      string
	AuthoringStatus  string
	PublishingStatus string
	DateUsedFrom     time.Time
	DateUsedTo       time.Time
	DateOfLastUpdate time.Time
}

// NormalisedAuthoringStatus trims and title-cases the authoring status.
func (b BaselineRecord) NormalisedAuthoringStatus() string {
	s := strings.ToLower(strings.TrimSpace(b.AuthoringStatus))
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
