package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenEntries(t *testing.T) {
	entries := []TerminalEntry{
		{Prompt: "SPECIFY LOCATION", Format: FormatText, Min: 1, Max: 250, EntryNumber: 1},
		{Prompt: "SPECIFY VALUE 1", Format: FormatMenu, Min: 1, Max: 1, EntryNumber: 2, MenuID: "42"},
		{Prompt: PromptDate, Format: FormatMenu, Min: 1, Max: 1, EntryNumber: 12, StandardEntryID: DateStandardEntryID},
	}

	flat := FlattenEntries(entries)

	assert.Equal(t, 1, flat["TerminalEntry01.EntryNumber"])
	assert.Equal(t, "TXT", flat["TerminalEntry01.EntryFormat"])
	assert.Equal(t, "SPECIFY LOCATION", flat["TerminalEntry01.EntryPrompt"])
	assert.Equal(t, 250, flat["TerminalEntry01.Maximum"])
	assert.Nil(t, flat["TerminalEntry01.StandardEntryIdentifier"])
	assert.Nil(t, flat["FID_Menu01"])
	assert.Equal(t, "42", flat["FID_Menu02"])
	assert.Equal(t, "OD", flat["TerminalEntry12.StandardEntryIdentifier"])
	assert.Len(t, flat, 21)
}

func TestOffenceRevision_MissingMenus(t *testing.T) {
	rev := OffenceRevision{
		Entries: []TerminalEntry{
			{EntryNumber: 1, Format: FormatText},
			{EntryNumber: 2, Format: FormatMenu, MenuID: "7"},
			{EntryNumber: 3, Format: FormatMenu},
		},
	}

	assert.Equal(t, []int{3}, rev.MissingMenus())
}

func TestOffenceRevision_Payload(t *testing.T) {
	rev := OffenceRevision{
		Attributes: map[string]any{"CJSCode": "AB12345"},
		Entries:    []TerminalEntry{{EntryNumber: 1, Format: FormatText, Prompt: "SPECIFY NAME"}},
	}

	payload := rev.Payload()

	assert.Equal(t, "AB12345", payload["CJSCode"])
	assert.Equal(t, "SPECIFY NAME", payload["TerminalEntry01.EntryPrompt"])
}

func TestOptionPayload_WithElements(t *testing.T) {
	opt := MenuOption{
		MenuHash:     "h",
		OptionNumber: 2,
		Text:         "at [1] on [2]",
		Elements: []ElementDefinition{
			{Number: 1, Prompt: "SPECIFY PLACE", Format: FormatText, Min: 1, Max: 250},
			{Number: 2, Prompt: "SPECIFY DAY", Format: FormatText, Min: 1, Max: 250},
		},
	}

	payload := OptionPayload(opt)

	assert.Equal(t, "h", payload["PNLDMenuHashMD5"])
	assert.Equal(t, 2, payload["OptionNumber"])
	assert.Equal(t, "SPECIFY DAY", payload["ElementDefinition02.EntryPrompt"])
	assert.Equal(t, 250, payload["ElementDefinition01.OTEElementMax"])
	assert.Equal(t, 1, payload["ElementDefinition01.OTEElementMin"])
}

func TestDedupeOptions(t *testing.T) {
	a := MenuOption{MenuHash: "h", OptionNumber: 1, Text: "did X"}
	b := MenuOption{MenuHash: "h", OptionNumber: 2, Text: "did Y"}
	withElement := MenuOption{MenuHash: "h", OptionNumber: 1, Text: "did X",
		Elements: []ElementDefinition{{Number: 1, Prompt: "SPECIFY THING"}}}

	got := DedupeOptions([]MenuOption{a, b, a, withElement, b})

	require.Len(t, got, 3)
	assert.Equal(t, a, got[0])
	assert.Equal(t, b, got[1])
	assert.Equal(t, withElement, got[2])
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ParseDate("2024-03-01"))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("01/03/2024").IsZero())
	assert.Equal(t, "2024-03-01", FormatDate(ParseDate(" 2024-03-01 ")))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestBaselineRecord_NormalisedAuthoringStatus(t *testing.T) {
	assert.Equal(t, "Draft", BaselineRecord{AuthoringStatus: " DRAFT "}.NormalisedAuthoringStatus())
	assert.Equal(t, "Final", BaselineRecord{AuthoringStatus: "final"}.NormalisedAuthoringStatus())
	assert.Equal(t, "Not Published", BaselineRecord{AuthoringStatus: "not published"}.NormalisedAuthoringStatus())
	assert.Equal(t, "", BaselineRecord{}.NormalisedAuthoringStatus())
}

func TestDecision(t *testing.T) {
	accepted := Decision{Kind: DecisionEdit}
	assert.True(t, accepted.Accepted())
	assert.Equal(t, "Edit", accepted.Kind.String())
	assert.Empty(t, accepted.Reason())

	rejected := Decision{Messages: []Message{
		NewError("F1", CodeNoUpdates, "no updates"),
	}}
	assert.False(t, rejected.Accepted())
	assert.Equal(t, "Rejected", rejected.Kind.String())
	assert.Equal(t, "no updates", rejected.Reason())
}

func TestFields(t *testing.T) {
	f := Fields{"title": nil}
	f.Set(FieldCJSCode, "AB123")

	assert.False(t, f.Has("title"))
	assert.True(t, f.Has(FieldCJSCode))
	assert.Equal(t, "AB123", f.Get(FieldCJSCode))
	assert.Equal(t, "", f.Get("missing"))

	clone := f.Clone()
	clone.Set(FieldCJSCode, "ZZ999")
	assert.Equal(t, "AB123", f.Get(FieldCJSCode))
	_, present := clone["title"]
	assert.True(t, present)
}

func TestInputRecord_CJS(t *testing.T) {
	fields := Fields{}
	fields.Set(FieldCJSCode, "FROMFIELDS")

	assert.Equal(t, "TOP", InputRecord{CJSCode: " TOP ", Fields: fields}.CJS())
	assert.Equal(t, "FROMFIELDS", InputRecord{Fields: fields}.CJS())
}

func TestLoadStatus(t *testing.T) {
	assert.True(t, LoadDone.Succeeded())
	assert.True(t, LoadWarning.Succeeded())
	assert.False(t, LoadError.Succeeded())
	assert.True(t, LoadError.Terminal())
	assert.False(t, LoadRunning.Terminal())
}

func TestNewLoadRequest(t *testing.T) {
	req := NewLoadRequest("Offence Revision Load", JobOffences, EntityOffenceRevision,
		[]string{"SetVersionNumber", "CreateOffenceHeaderPNLD"})

	assert.Equal(t, "CREATE_LOAD_AND_SUBMIT", req.Action)
	assert.Equal(t, "UPDATE_DATA_REST_API", req.ProgramName)
	assert.Equal(t, "GENERATE", req.PersistOptions.MissingIDBehavior)
	assert.Equal(t, "IF_NO_ERROR_OR_MATCH", req.PersistOptions.PersistMode)
	assert.Equal(t, []string{"SetVersionNumber", "CreateOffenceHeaderPNLD"},
		req.PersistOptions.OptionsPerEntity[EntityOffenceRevision].Enrichers)

	plain := NewLoadRequest("PNLD Release Package Creation", JobReleasePackage, "", nil)
	assert.Empty(t, plain.PersistOptions.OptionsPerEntity)
	assert.NotNil(t, plain.PersistRecords)
}

func TestBatchReport_Counts(t *testing.T) {
	r := BatchReport{
		SourceFiles: []SourceFile{
			{ID: "a", Status: StatusScheduled},
			{ID: "b", Status: StatusFailed},
			{ID: "c", Status: StatusFailure},
		},
		Messages: []Message{
			{SourceFileID: "a", Code: CodeIngested},
			{SourceFileID: "b", Code: CodeDuplicateCJS},
		},
	}

	assert.Equal(t, 1, r.Count(StatusScheduled))
	assert.Equal(t, 2, r.Failed())
	assert.Len(t, r.MessagesFor("b"), 1)
}
