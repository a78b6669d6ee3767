package extraction

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

var (
	hashPlaceholder   = regexp.MustCompile(`\{[0-9a-f]{32}\}`)
	numberPlaceholder = regexp.MustCompile(`\{[^}]*\}`)
	digitsOnly        = regexp.MustCompile(`^\{[0-9]+\}$`)
)

func strPtr(s string) *string { return &s }

func TestExtract_SingleFillIn(t *testing.T) {
	x := New()

	res, err := x.Extract("CJS01", "Drove **(..SPECIFY LOCATION..)**.", nil)
	require.NoError(t, err)

	assert.Equal(t, "Drove {1}.", res.SOW)
	assert.Nil(t, res.SOF)
	assert.Empty(t, res.Menus)
	assert.Empty(t, res.Options)

	want := []domain.TerminalEntry{{
		Hash:        ContentHash("SPECIFY LOCATION"),
		Prompt:      "SPECIFY LOCATION",
		Format:      domain.FormatText,
		Min:         1,
		Max:         250,
		EntryNumber: 1,
	}}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_MenuAfterFillIns(t *testing.T) {
	x := New()
	sow := "On **(..SPECIFY DATE..)** at **(..SPECIFY LOCATION..)**<br><br>(A)_[did X]_<br />(B)_[did Y]_"

	res, err := x.Extract("CJS01", sow, nil)
	require.NoError(t, err)

	assert.Equal(t, "{1} at {2} {3}", res.SOW)

	raw := ContentHash("(A)_[did X]_-(B)_[did Y]_")
	final := ContentHash(raw + "CJS01" + "SPECIFY VALUE 1")

	wantEntries := []domain.TerminalEntry{
		{
			Hash:            ContentHash("SPECIFY DATE"),
			Prompt:          "SPECIFY DATE",
			Format:          domain.FormatMenu,
			Min:             1,
			Max:             1,
			StandardEntryID: "OD",
			EntryNumber:     1,
		},
		{
			Hash:        ContentHash("SPECIFY LOCATION"),
			Prompt:      "SPECIFY LOCATION",
			Format:      domain.FormatText,
			Min:         1,
			Max:         250,
			EntryNumber: 2,
		},
		{
			Hash:        raw,
			Prompt:      "SPECIFY VALUE 1",
			Format:      domain.FormatMenu,
			Min:         1,
			Max:         1,
			EntryNumber: 3,
			MenuHash:    final,
		},
	}
	if diff := cmp.Diff(wantEntries, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	wantMenus := []domain.Menu{{RawHash: raw, Hash: final, Name: "SPECIFY VALUE 1"}}
	if diff := cmp.Diff(wantMenus, res.Menus); diff != "" {
		t.Errorf("menus mismatch (-want +got):\n%s", diff)
	}

	wantOptions := []domain.MenuOption{
		{MenuHash: final, OptionNumber: 1, Text: "did X"},
		{MenuHash: final, OptionNumber: 2, Text: "did Y"},
	}
	if diff := cmp.Diff(wantOptions, res.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_DuplicateLabelCollapses(t *testing.T) {
	x := New()

	res, err := x.Extract("CJS01",
		"From **(..SPECIFY PLACE..)** to **(..specify place..)**",
		strPtr("Seen at **(..SPECIFY PLACE..)**"))
	require.NoError(t, err)

	assert.Equal(t, "From {1} to {1}", res.SOW)
	require.NotNil(t, res.SOF)
	assert.Equal(t, "Seen at {1}", *res.SOF)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 1, res.Entries[0].EntryNumber)
	assert.Equal(t, "SPECIFY PLACE", res.Entries[0].Prompt)
	require.Len(t, res.Audit, 1)
	assert.Equal(t, 1, res.Audit[0].Sequence)
}

func TestExtract_NumbersContinueIntoStatementOfFacts(t *testing.T) {
	x := New()

	res, err := x.Extract("CJS01",
		"Drove **(..SPECIFY VEHICLE..)**",
		strPtr("At **(..SPECIFY TIME..)** near **(..SPECIFY VEHICLE..)**"))
	require.NoError(t, err)

	assert.Equal(t, "Drove {1}", res.SOW)
	assert.Equal(t, "At {2} near {1}", *res.SOF)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "SPECIFY VEHICLE", res.Entries[0].Prompt)
	assert.Equal(t, "SPECIFY TIME", res.Entries[1].Prompt)
}

func TestExtract_Idempotent(t *testing.T) {
	x := New()
	sow := "On **(..SPECIFY DATE..)**<br/><br/>(A)_[kept **(..SPECIFY ITEM..)**]_(B)_[sold it]_"

	first, err := x.Extract("CJS01", sow, nil)
	require.NoError(t, err)

	second, err := x.Extract("CJS01", first.SOW, nil)
	require.NoError(t, err)

	assert.Equal(t, first.SOW, second.SOW)
	assert.Empty(t, second.Entries)
	assert.Empty(t, second.Menus)
	assert.Empty(t, second.Audit)
}

func TestExtract_Deterministic(t *testing.T) {
	x := New()
	sow := "Had **(..SPECIFY ITEM..)** in **(..SPECIFY PLACE..)**<br><br>(1)_[a knife]_(2)_[a blade]_"
	sof := strPtr("Found **(..SPECIFY PLACE..)** on **(..SPECIFY DATE..)**")

	a, err := x.Extract("CJS02", sow, sof)
	require.NoError(t, err)
	b, err := x.Extract("CJS02", sow, sof)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("extraction not deterministic (-first +second):\n%s", diff)
	}
}

func TestExtract_MenuBoundToOffence(t *testing.T) {
	x := New()
	sow := "(A)_[did X]_(B)_[did Y]_"

	a, err := x.Extract("CJS-A", sow, nil)
	require.NoError(t, err)
	b, err := x.Extract("CJS-B", sow, nil)
	require.NoError(t, err)

	require.Len(t, a.Menus, 1)
	require.Len(t, b.Menus, 1)
	assert.Equal(t, a.Menus[0].RawHash, b.Menus[0].RawHash)
	assert.NotEqual(t, a.Menus[0].Hash, b.Menus[0].Hash)
	for _, opt := range a.Options {
		assert.Equal(t, a.Menus[0].Hash, opt.MenuHash)
	}
	for _, opt := range b.Options {
		assert.Equal(t, b.Menus[0].Hash, opt.MenuHash)
	}
}

func TestExtract_OnlyNumberedPlaceholdersRemain(t *testing.T) {
	x := New()
	sow := "On **(..SPECIFY DATE..)** at **(..SPECIFY PLACE..)**<br><br>" +
		"(A)_[drove]_(B)_[rode]_<br><br>" +
		"a vehicle **(..SPECIFY MAKE..)**"
	sof := strPtr("(X)_[was seen]_(Y)_[was stopped]_<br><br>at **(..SPECIFY PLACE..)**")

	res, err := x.Extract("CJS03", sow, sof)
	require.NoError(t, err)

	for _, text := range []string{res.SOW, *res.SOF} {
		assert.False(t, hashPlaceholder.MatchString(text), "hash placeholder left in %q", text)
		for _, p := range numberPlaceholder.FindAllString(text, -1) {
			assert.Regexp(t, digitsOnly, p)
		}
	}
	assert.Len(t, res.Menus, 2)
	assert.Equal(t, "{5} at {2}", *res.SOF)
}

func TestExtract_NestedFillInsNumberedLocally(t *testing.T) {
	x := New()
	sow := "(A)_[at **(..SPECIFY PLACE..)** and **(..SPECIFY TIME..)**]_(B)_[elsewhere]_"

	res, err := x.Extract("CJS04", sow, nil)
	require.NoError(t, err)

	assert.Equal(t, "{1}", res.SOW)
	require.Len(t, res.Entries, 1)
	require.Len(t, res.Options, 2)

	opt := res.Options[0]
	assert.Equal(t, "at [1] and [2]", opt.Text)
	want := []domain.ElementDefinition{
		{Number: 1, Prompt: "SPECIFY PLACE", Format: domain.FormatText, Min: 1, Max: 250},
		{Number: 2, Prompt: "SPECIFY TIME", Format: domain.FormatText, Min: 1, Max: 250},
	}
	if diff := cmp.Diff(want, opt.Elements); diff != "" {
		t.Errorf("elements mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Options[1].Elements)
}

func TestExtract_RepeatedMenuSharesNumber(t *testing.T) {
	x := New()

	res, err := x.Extract("CJS05", "(A)_[yes]_(B)_[no]_", strPtr("then (A)_[yes]_(B)_[no]_"))
	require.NoError(t, err)

	assert.Equal(t, "{1}", res.SOW)
	assert.Equal(t, "then {1}", *res.SOF)
	assert.Len(t, res.Menus, 1)
	assert.Len(t, res.Options, 2)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "SPECIFY VALUE 1", res.Entries[0].Prompt)
}

func TestExtract_IncompleteMenuLeftUnchanged(t *testing.T) {
	x := New()

	res, err := x.Extract("CJS06", "Either (A)_[this or that", nil)
	require.NoError(t, err)

	assert.Equal(t, "Either (A)_[this or that", res.SOW)
	assert.Empty(t, res.Menus)
	assert.Empty(t, res.Entries)
}

func TestExtract_CustomRules(t *testing.T) {
	// Without a terminal-entry rule, fill-ins stay in the text.
	x := New(WithRules(
		Rule{Kind: domain.ChunkProse, Pattern: regexp.MustCompile(`(?s).+?`), Order: 1},
	))

	res, err := x.Extract("CJS07", "Drove **(..SPECIFY LOCATION..)**.", nil)
	require.NoError(t, err)

	assert.Equal(t, "Drove **(..SPECIFY LOCATION..)**.", res.SOW)
	assert.Empty(t, res.Entries)
}
