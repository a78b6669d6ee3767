package domain

// EntryFormat is the input format of a terminal entry.
type EntryFormat string

const (
	// FormatText is a free-text entry.
	FormatText EntryFormat = "TXT"
	// FormatMenu is a single choice from a menu.
	FormatMenu EntryFormat = "MNU"
)

// Well-known prompts and identifiers.
const (
	// PromptDate is the label of the date fill-in, resolved to DateMenuID.
	PromptDate = "SPECIFY DATE"
	// PromptMenuValue is the prompt registered for every extracted menu.
	PromptMenuValue = "SPECIFY VALUE"
	// DateStandardEntryID is the standard entry identifier of the date fill-in.
	DateStandardEntryID = "OD"
	// DateMenuID is the fixed catalog identifier of the date menu.
	DateMenuID = "1"
)

// Length bounds applied to extracted entries.
const (
	TextEntryMin = 1
	TextEntryMax = 250
	MenuEntryMin = 1
	MenuEntryMax = 1
)

// TerminalEntry describes one fill-in placeholder.
//
// Hash is the content hash keying the placeholder during extraction. EntryNumber
// is assigned by the identity unifier. MenuHash is set by the menu finalizer for
// entries that stand for a menu, and MenuID once the catalog resolves it.
type TerminalEntry struct {
	Hash            string
	Prompt          string
	Format          EntryFormat
	Min             int
	Max             int
	StandardEntryID string
	EntryNumber     int
	MenuHash        string
	MenuID          string
}

// IsMenu reports whether the entry is a single-choice entry.
func (e TerminalEntry) IsMenu() bool {
	return e.Format == FormatMenu
}

// EntryAudit maps a content hash to the sequence number it was seen at.
// MenuSequence is zero for plain fill-ins.
type EntryAudit struct {
	Hash         string
	Sequence     int
	MenuSequence int
}

// ElementDefinition is a fill-in nested inside a menu option, numbered locally.
type ElementDefinition struct {
	Number int
	Prompt string
	Format EntryFormat
	Min    int
	Max    int
}
