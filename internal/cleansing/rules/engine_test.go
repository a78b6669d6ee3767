package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

func fields(kv ...string) domain.Fields {
	f := domain.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}
	return f
}

func TestNew_Defaults(t *testing.T) {
	e := New(nil)
	assert.Equal(t, "rules", e.Name())
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, DefaultContextChars, e.contextChars)
	assert.Equal(t, domain.CodeCleansed, e.code)

	e = New(nil, WithContextChars(-1), WithMessageCode(""))
	assert.Equal(t, DefaultContextChars, e.contextChars)
	assert.Equal(t, domain.CodeCleansed, e.code)
}

func TestEngine_ReplacesTargetGroup(t *testing.T) {
	e := New([]Rule{{
		RuleID:         "R1",
		DetectionRegex: `a(b+)c`,
		Group:          GroupRef{Index: 1},
		ReplaceValue:   "X",
		Scope:          []string{"col"},
	}}, WithContextChars(2))

	f := fields("col", "zzabbczz abc")
	msgs, err := e.Cleanse(context.Background(), "file-1", f)
	require.NoError(t, err)

	assert.Equal(t, "zzaXczz aXc", f.Get("col"))
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.Message{
		SourceFileID: "file-1",
		Code:         "CL-001",
		Type:         domain.MessageInformation,
		Text:         `R1 | Attribute: col | Cleanse: "bb" -> "X" | Context: "zabbcz"`,
	}, msgs[0])
	assert.Equal(t, `R1 | Attribute: col | Cleanse: "b" -> "X" | Context: " abc"`, msgs[1].Text)
}

func TestEngine_NamedGroup(t *testing.T) {
	e := New([]Rule{{
		RuleID:         "R1",
		DetectionRegex: `x(?P<gap>\s+)y`,
		Group:          GroupRef{Name: "gap"},
		Scope:          []string{"col"},
	}})

	f := fields("col", "x   y")
	_, err := e.Cleanse(context.Background(), "f", f)
	require.NoError(t, err)
	assert.Equal(t, "xy", f.Get("col"))
}

func TestEngine_RulesChainInSortOrder(t *testing.T) {
	e := New([]Rule{
		{RuleID: "second", DetectionRegex: `(B)`, Group: GroupRef{Index: 1}, ReplaceValue: "C", Scope: []string{"col"}, SortOrder: 2},
		{RuleID: "first", DetectionRegex: `(A)`, Group: GroupRef{Index: 1}, ReplaceValue: "B", Scope: []string{"col"}, SortOrder: 1},
	})

	f := fields("col", "A")
	msgs, err := e.Cleanse(context.Background(), "f", f)
	require.NoError(t, err)

	assert.Equal(t, "C", f.Get("col"))
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "first |")
	assert.Contains(t, msgs[1].Text, "second |")
}

func TestEngine_SkipsAbsentAndNilColumns(t *testing.T) {
	e := New([]Rule{{
		RuleID:         "R1",
		DetectionRegex: `(a)`,
		Group:          GroupRef{Index: 1},
		ReplaceValue:   "b",
		Scope:          []string{"missing", "empty"},
	}})

	f := domain.Fields{"empty": nil}
	msgs, err := e.Cleanse(context.Background(), "f", f)
	require.NoError(t, err)

	assert.Empty(t, msgs)
	assert.Nil(t, f["empty"])
	_, ok := f["missing"]
	assert.False(t, ok)
}

func TestEngine_InvalidRulesReported(t *testing.T) {
	e := New([]Rule{
		{RuleID: "BAD-RE", DetectionRegex: `(unclosed`, Group: GroupRef{Index: 1}, Scope: []string{"col"}},
		{RuleID: "NO-GROUP", DetectionRegex: `abc`, Group: GroupRef{Index: 1}, Scope: []string{"col"}},
		{RuleID: "OUT-OF-RANGE", DetectionRegex: `(a)`, Group: GroupRef{Index: 2}, Scope: []string{"col"}},
		{RuleID: "NO-NAME", DetectionRegex: `(?P<x>a)`, Group: GroupRef{Name: "y"}, Scope: []string{"col"}},
	})

	f := fields("col", "abc")
	msgs, err := e.Cleanse(context.Background(), "f", f)
	require.NoError(t, err)

	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[0].Text, "BAD-RE - Skipped: invalid RegexPattern (")
	assert.Contains(t, msgs[1].Text, "NO-GROUP - Skipped: invalid group configuration (")
	assert.Contains(t, msgs[1].Text, "found 0")
	assert.Contains(t, msgs[2].Text, "valid indices: 1..1")
	assert.Contains(t, msgs[3].Text, `group name "y" not found. Available names: x`)
	assert.Equal(t, "abc", f.Get("col"))
}

func TestEngine_CancelledContext(t *testing.T) {
	e := New(Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Cleanse(ctx, "f", fields(domain.FieldSOW, "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaults_CleanWording(t *testing.T) {
	e := New(Defaults())

	f := fields(
		domain.FieldSOW, "Drove at **(..  SPECIFY PLACE  ..)** ‘fast’",
		domain.FieldTitle, "untouched title",
	)
	msgs, err := e.Cleanse(context.Background(), "f", f)
	require.NoError(t, err)

	assert.Equal(t, "Drove at **(..SPECIFY PLACE..)** 'fast'", f.Get(domain.FieldSOW))
	assert.Equal(t, "untouched title", f.Get(domain.FieldTitle))

	want := []string{"CL-NBSP", "CL-QUOTE", "CL-QUOTE", "CL-SPECIFY-OPEN", "CL-SPECIFY-CLOSE"}
	require.Len(t, msgs, len(want))
	for i, m := range msgs {
		assert.Equal(t, domain.CodeCleansed, m.Code)
		assert.True(t, strings.HasPrefix(m.Text, want[i]+" | Attribute: "+domain.FieldSOW), m.Text)
	}
}

func TestContextSlice(t *testing.T) {
	s := "ééabcéé"
	// "abc" starts after two 2-byte runes.
	assert.Equal(t, "éabcé", ContextSlice(s, 4, 7, 1))
	assert.Equal(t, s, ContextSlice(s, 4, 7, 10))
	assert.Equal(t, "abc", ContextSlice(s, 4, 7, 0))
}

func TestParse(t *testing.T) {
	data := []byte(`
- RuleID: R1
  DetectionRegex: '(a)'
  RegexReplacementGroupIndex: 1
  ReplaceValue: b
  Scope: [standardoffencewording]
  SortOrder: 2
- DetectionRegex: '(?P<n>a)'
  RegexReplacementGroupIndex: n
  SortOrder: 1
`)

	rules, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, GroupRef{Index: 1}, rules[0].Group)
	assert.Equal(t, []string{domain.FieldSOW}, rules[0].Scope)
	assert.Equal(t, "UnknownRule", rules[1].RuleID)
	assert.Equal(t, GroupRef{Name: "n"}, rules[1].Group)

	sorted := Sorted(rules)
	assert.Equal(t, "UnknownRule", sorted[0].RuleID)
	assert.Equal(t, "R1", rules[0].RuleID)
}

func TestParse_InvalidGroup(t *testing.T) {
	_, err := Parse([]byte("- RegexReplacementGroupIndex: [1, 2]\n"))
	assert.Error(t, err)
}

func TestGroupRef_String(t *testing.T) {
	assert.Equal(t, "3", GroupRef{Index: 3}.String())
	assert.Equal(t, `"gap"`, GroupRef{Name: "gap"}.String())
}
