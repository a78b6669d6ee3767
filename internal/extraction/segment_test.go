package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

func TestRuleSet_Classify(t *testing.T) {
	rules := NewRuleSet(DefaultRules()...)

	tests := []struct {
		name string
		text string
		want domain.ChunkKind
		ok   bool
	}{
		{"prose", "Drove a vehicle.", domain.ChunkProse, true},
		{"terminal entry", "at **(..SPECIFY PLACE..)**", domain.ChunkTerminalEntry, true},
		{"menu", "(A)_[did X]_(B)_[did Y]_", domain.ChunkMenu, true},
		{"menu wins over fill-in", "(A)_[at **(..SPECIFY PLACE..)**]_", domain.ChunkMenu, true},
		{"incomplete menu prefix", "(A)_[unterminated", domain.ChunkMenu, true},
		{"lower case specify is prose", "**(..specify place..)**", domain.ChunkProse, true},
		{"empty falls back", "", domain.ChunkProse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := rules.Classify(tt.text)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewRuleSet_SortsByOrder(t *testing.T) {
	dot := regexp.MustCompile(`.`)
	rules := NewRuleSet(
		Rule{Kind: domain.ChunkProse, Pattern: dot, Order: 9},
		Rule{Kind: domain.ChunkMenu, Pattern: dot, Order: 1},
	)

	kind, ok := rules.Classify("x")
	assert.True(t, ok)
	assert.Equal(t, domain.ChunkMenu, kind)
}

func TestSegment_SplitsOnBreakPairs(t *testing.T) {
	rules := NewRuleSet(DefaultRules()...)

	chunks := Segment("one<br/><br/>two&lt;br /&gt;&lt;BR&gt;three<br>four", rules)

	require.Len(t, chunks, 3)
	assert.Equal(t, "one", chunks[0].Text)
	assert.Equal(t, "two", chunks[1].Text)
	assert.Equal(t, "three<br>four", chunks[2].Text)
	for i, c := range chunks {
		assert.Equal(t, i, c.Order)
	}
}

func TestSegment_EmptyText(t *testing.T) {
	chunks := Segment("", NewRuleSet(DefaultRules()...))

	require.Len(t, chunks, 1)
	assert.Equal(t, domain.ChunkProse, chunks[0].Kind)
	assert.Equal(t, "", chunks[0].Text)
}

func TestAssemble(t *testing.T) {
	chunks := []domain.TextChunk{
		{Order: 0, Text: "On  {abc}\n"},
		{Order: 1, Text: "  at\tthe   place "},
	}
	assert.Equal(t, "{abc} at the place", Assemble(chunks))

	assert.Equal(t, "Only on {1}", Assemble([]domain.TextChunk{{Text: "Only on {1}"}}))
}

func TestLowestAudit(t *testing.T) {
	rows := []domain.EntryAudit{
		{Hash: "b", Sequence: 4},
		{Hash: "a", Sequence: 2},
		{Hash: "b", Sequence: 1, MenuSequence: 1},
		{Hash: "a", Sequence: 2, MenuSequence: 7},
	}

	got := LowestAudit(rows)

	assert.Equal(t, []domain.EntryAudit{
		{Hash: "b", Sequence: 1, MenuSequence: 1},
		{Hash: "a", Sequence: 2},
	}, got)
}

func TestReplacePlaceholders(t *testing.T) {
	audit := []domain.EntryAudit{{Hash: "aa", Sequence: 1}, {Hash: "bb", Sequence: 12}}

	assert.Equal(t, "{1} then {12} and {1} {cc}", ReplacePlaceholders("{aa} then {bb} and {aa} {cc}", audit))
	assert.Equal(t, "untouched", ReplacePlaceholders("untouched", nil))
}

func TestNumberEntries(t *testing.T) {
	entries := []domain.TerminalEntry{
		{Hash: "m", Prompt: domain.PromptMenuValue, Format: domain.FormatMenu},
		{Hash: "t", Prompt: "SPECIFY TIME", Format: domain.FormatText},
		{Hash: "m", Prompt: domain.PromptMenuValue, Format: domain.FormatMenu},
	}
	audit := []domain.EntryAudit{
		{Hash: "t", Sequence: 1},
		{Hash: "m", Sequence: 2, MenuSequence: 1},
	}

	got := NumberEntries(entries, audit)

	require.Len(t, got, 2)
	assert.Equal(t, "t", got[0].Hash)
	assert.Equal(t, 1, got[0].EntryNumber)
	assert.Equal(t, "m", got[1].Hash)
	assert.Equal(t, 2, got[1].EntryNumber)
	assert.Equal(t, "SPECIFY VALUE 1", got[1].Prompt)
}

func TestFinalizeMenus_MissingEntry(t *testing.T) {
	menus := []domain.Menu{{RawHash: "raw"}}

	_, _, err := FinalizeMenus("CJS", nil, menus, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConsistency))
}

func TestFinalizeMenus_OrphanOption(t *testing.T) {
	entries := []domain.TerminalEntry{{Hash: "raw", Prompt: "SPECIFY VALUE 1"}}
	menus := []domain.Menu{{RawHash: "raw"}}
	options := []domain.MenuOption{{MenuHash: "other", OptionNumber: 1}}

	_, _, err := FinalizeMenus("CJS", entries, menus, options)

	var cerr *domain.ConsistencyError
	require.ErrorAs(t, err, &cerr)
}

func TestFinalizeMenus_BindsHash(t *testing.T) {
	entries := []domain.TerminalEntry{{Hash: "raw", Prompt: "SPECIFY VALUE 1"}}
	menus := []domain.Menu{{RawHash: "raw"}}
	options := []domain.MenuOption{
		{MenuHash: "raw", OptionNumber: 1, Text: "x"},
		{MenuHash: "raw", OptionNumber: 1, Text: "x"},
	}

	gotMenus, gotOptions, err := FinalizeMenus("CJS", entries, menus, options)
	require.NoError(t, err)

	want := ContentHash("raw" + "CJS" + "SPECIFY VALUE 1")
	require.Len(t, gotMenus, 1)
	assert.Equal(t, want, gotMenus[0].Hash)
	assert.Equal(t, "SPECIFY VALUE 1", gotMenus[0].Name)
	assert.Equal(t, want, entries[0].MenuHash)
	require.Len(t, gotOptions, 1)
	assert.Equal(t, want, gotOptions[0].MenuHash)
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", ContentHash(""))
}

// flatJSON renders kv the way RecordHash serialises it, with every known
// column present. Values must not need escaping.
func flatJSON(kv map[string]string, exclude ...string) string {
	all := map[string]string{}
	for _, c := range domain.Columns {
		all[c] = ""
	}
	for k, v := range kv {
		all[k] = v
	}
	for _, k := range exclude {
		delete(all, k)
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%q", k, all[k])
	}
	b.WriteByte('}')
	return b.String()
}

func TestRecordHash(t *testing.T) {
	one := "1"
	amp := "a&b"
	fields := domain.Fields{"b": &one, "a": nil, "c": &amp, "skip": &one}

	got, err := RecordHash(fields, "skip")
	require.NoError(t, err)
	assert.Equal(t, ContentHash(flatJSON(map[string]string{"a": "", "b": "1", "c": "a&b"})), got)

	other := "2"
	fields["skip"] = &other
	again, err := RecordHash(fields, "skip")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRecordHash_OmittedColumnMatchesNull(t *testing.T) {
	title := "Drive a vehicle"
	omitted := domain.Fields{domain.FieldTitle: &title}
	null := domain.Fields{domain.FieldTitle: &title, domain.FieldNotes: nil, domain.FieldMISCode: nil}

	a, err := RecordHash(omitted, HashExcludedFields...)
	require.NoError(t, err)
	b, err := RecordHash(null, HashExcludedFields...)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, ContentHash(flatJSON(map[string]string{domain.FieldTitle: title}, HashExcludedFields...)), a)
}

func TestRecordHash_LineSeparatorsStayRaw(t *testing.T) {
	title := "line\u2028next\u2029end"
	escaped := `back\\u2028slash`
	fields := domain.Fields{domain.FieldTitle: &title, domain.FieldNotes: &escaped}

	got, err := RecordHash(fields)
	require.NoError(t, err)

	want := strings.Replace(
		flatJSON(map[string]string{domain.FieldTitle: "TITLE"}),
		`"TITLE"`, "\"line\u2028next\u2029end\"", 1)
	want = strings.Replace(want, `"notes":""`, `"notes":"back\\\\u2028slash"`, 1)
	assert.Equal(t, ContentHash(want), got)
}
