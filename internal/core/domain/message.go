package domain

// MessageType is the severity of a source file message.
type MessageType string

const (
	MessageError       MessageType = "ERROR"
	MessageInformation MessageType = "INFORMATION"
	MessageCompletion  MessageType = "COMPLETION"
)

// Stable message codes.
const (
	CodeTitleMissing        = "DC-003"
	CodeEndBeforeStart      = "DC-002"
	CodeReferenceBound      = "BL-001"
	CodeCodeBound           = "BL-002"
	CodeLastUpdateSame      = "BL-003"
	CodeLastUpdateBefore    = "BL-004"
	CodeBaselineInProgress  = "BL-101"
	CodeNoUpdates           = "BL-102"
	CodeEndBeforeBaseline   = "BL-111"
	CodeCleansed            = "CL-001"
	CodeResidualMarkup      = "CL-999"
	CodeDuplicateCJS        = "DUP-CJS-001"
	CodeMissingMenu         = "MNU-ERR-001"
	CodeIngested            = "AA-100"
	CodeIngestFailed        = "XX-100"
	CodeUnhandled           = "XX-999"
	CodeNoReleasePackage    = "5-CO-CO-001"
	MessageMissingMenu      = "Missing Menu"
	MessageIngested         = "Offence Ingested Successfully"
	MessageIngestFailed     = "Offence Failed to ingest"
	MessageDuplicatePrefix  = "Duplicate CJS Code detected: "
	MessageTitleMissingText = `Element "title" is missing`
)

// Message is one diagnostic attached to a source file.
type Message struct {
	SourceFileID string      `json:"FID_SourceFile"`
	Code         string      `json:"SourceFileMessageCode"`
	Type         MessageType `json:"SourceFileMessageType"`
	Text         string      `json:"SourceFileMessage"`
}

// NewError builds an ERROR message.
func NewError(sourceFileID, code, text string) Message {
	return Message{SourceFileID: sourceFileID, Code: code, Type: MessageError, Text: text}
}

// SourceStatus is the processing status of a source file.
type SourceStatus string

const (
	// StatusPending is the zero status of a file still in flight.
	StatusPending SourceStatus = ""
	// StatusFailed marks a file rejected by validation or processing.
	StatusFailed SourceStatus = "Failed"
	// StatusFailure marks a file whose menu never resolved.
	StatusFailure SourceStatus = "Failure"
	// StatusScheduled marks a file whose offence was loaded.
	StatusScheduled SourceStatus = "Scheduling Complete"
)

// IsFailed reports whether the status is terminal-failed.
func (s SourceStatus) IsFailed() bool {
	return s == StatusFailed || s == StatusFailure
}

// SourceFile is the per-file outcome posted back to the catalog.
type SourceFile struct {
	ID                string       `json:"SourceFileID"`
	Status            SourceStatus `json:"FID_SourceStatus,omitempty"`
	MessageCount      int          `json:"MessageCount"`
	OffenceRevisionID string       `json:"FID_OffenceRevision,omitempty"`
}
