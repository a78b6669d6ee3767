package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

func fields(kv ...string) domain.Fields {
	f := domain.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Set(kv[i], kv[i+1])
	}
	return f
}

func TestMaximumPenalty(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Fields
		want any
	}{
		{
			name: "summary custodial and unlimited fine",
			in: fields(domain.FieldCategory, "CS",
				domain.FieldMaxCustodialLength, "6",
				domain.FieldMaxCustodialUnit, "Months",
				domain.FieldMaxFineTypeCode, "S"),
			want: "S:6M &/or Ultd Fine",
		},
		{
			name: "either way level fine",
			in:   fields(domain.FieldCategory, "CE", domain.FieldMaxFineTypeCode, "4"),
			want: "EW:L4",
		},
		{
			name: "other fine type resets the prefix",
			in: fields(domain.FieldCategory, "CM",
				domain.FieldMaxFineTypeCode, "O",
				domain.FieldMaxFine, "1000"),
			want: "£1000",
		},
		{
			name: "amount with minimum points only",
			in: fields(domain.FieldCategory, "CS",
				domain.FieldMaxFine, "200",
				domain.FieldMinPenaltyPoints, "3"),
			want: "S:£200 LE 3pp",
		},
		{
			name: "disqualification and points range",
			in: fields(domain.FieldCategory, "CS",
				domain.FieldDisqualification, "O",
				domain.FieldMinPenaltyPoints, "3",
				domain.FieldMaxPenaltyPoints, "11"),
			want: "S:Oblig disq LE  LE 3-11pp",
		},
		{
			name: "indictable custodial without fine",
			in: fields(domain.FieldCategory, "CI",
				domain.FieldMaxCustodialLength, "2",
				domain.FieldMaxCustodialUnit, "Weeks"),
			want: "Indictable only2W",
		},
		{"breach has none", fields(domain.FieldCategory, "CB"), ""},
		{"unknown category", fields(domain.FieldCategory, "ZZ"), nil},
		{"absent category", fields(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maximumPenalty(tt.in))
		})
	}
}

func TestHOClassification(t *testing.T) {
	class, sub := hoClassification(" 12 / 3 ")
	assert.Equal(t, 12, class)
	assert.Equal(t, 3, sub)

	for _, raw := range []string{"", "12", "12/3/4", "a/3", "12/b"} {
		class, sub := hoClassification(raw)
		assert.Nil(t, class, raw)
		assert.Nil(t, sub, raw)
	}
}

func TestModeOfTrial(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Equal(t, "Either Way", modeOfTrial(str("ce")))
	assert.Equal(t, "Indictable", modeOfTrial(str("CI")))
	assert.Equal(t, "Summary", modeOfTrial(str(" CMX")))
	assert.Equal(t, "Summary", modeOfTrial(str("CS")))
	assert.Nil(t, modeOfTrial(str("CB")))
	assert.Nil(t, modeOfTrial(nil))
}

func TestEndorsableAndCustodial(t *testing.T) {
	str := func(s string) *string { return &s }

	assert.Equal(t, "N", endorsable(nil))
	assert.Equal(t, "N", endorsable(str("NE98")))
	assert.Equal(t, "Y", endorsable(str("SP30")))

	assert.Equal(t, "No", custodialIndicator(str("y")))
	assert.Equal(t, "Yes", custodialIndicator(str("0")))
	assert.Nil(t, custodialIndicator(str("maybe")))
	assert.Nil(t, custodialIndicator(nil))

	assert.Equal(t, "Y", locationFlag("in **(..SPECIFY TOWNSHIP..)**"))
	assert.Equal(t, "N", locationFlag("elsewhere"))
}
