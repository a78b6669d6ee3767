package domain

import "strings"

// DecisionKind is the classification of a submission against its baseline.
type DecisionKind int

const (
	// DecisionRejected means a validation gate failed.
	DecisionRejected DecisionKind = iota
	// DecisionInitial means no baseline exists.
	DecisionInitial
	// DecisionNew means the content changed, or the change is not a pure edit.
	DecisionNew
	// DecisionEdit means only the end date changed on a published offence.
	DecisionEdit
)

// String returns the version type sent to the catalog.
func (k DecisionKind) String() string {
	switch k {
	case DecisionInitial:
		return "Initial"
	case DecisionNew:
		return "New"
	case DecisionEdit:
		return "Edit"
	default:
		return "Rejected"
	}
}

// Decision is produced once per record by the classifier.
type Decision struct {
	Kind     DecisionKind
	Messages []Message
}

// Accepted reports whether the record may proceed.
func (d Decision) Accepted() bool {
	return d.Kind != DecisionRejected
}

// Reason joins the rejection messages, or returns "" when accepted.
func (d Decision) Reason() string {
	if d.Accepted() {
		return ""
	}
	texts := make([]string, 0, len(d.Messages))
	for _, m := range d.Messages {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "; ")
}
