package domain

import "strings"

// Flattened PNLD column names.
const (
	FieldReference          = "pnldref"
	FieldCJSCode            = "cjsoffencecode"
	FieldTitle              = "title"
	FieldStartDate          = "offencestartdate"
	FieldEndDate            = "offenceenddate"
	FieldLastUpdate         = "dateoflastupdate"
	FieldSOWRaw             = "sow_raw"
	FieldSOFRaw             = "sof_raw"
	FieldSOW                = "standardoffencewording"
	FieldSOF                = "standardstatementoffacts"
	FieldDVLACode           = "dvlacode"
	FieldHOClassification   = "hoclassification"
	FieldCategory           = "cjsoffencecategory"
	FieldMaxCustodialLength = "maxcustodialsentencelengthmagct"
	FieldMaxCustodialUnit   = "maxcustodialsentenceunitmagct"
	FieldMaxFineTypeCode    = "maxfinetypemagct_code"
	FieldMaxFineTypeDesc    = "maxfinetypemagct_desc"
	FieldMaxFine            = "maxfinemagct"
	FieldDisqualification   = "disqualificationclass"
	FieldMinPenaltyPoints   = "minpenaltypoints"
	FieldMaxPenaltyPoints   = "maxpenaltypoints"
	FieldCustodialIndicator = "custodialindicator"
	FieldRecordable         = "recordable"
	FieldReportable         = "reportable"
	FieldNotes              = "notes"
	FieldLegislation        = "legislation"
	FieldWelshTitle         = "welshoffencetitle"
	FieldWelshSOW           = "welshstandardoffencewording"
	FieldWelshSOF           = "welshstandardstatementoffacts"
	FieldWelshLegislation   = "welshlegislation"
	FieldTimeLimit          = "timelimitforprosecutions"
	FieldMISCode            = "miscode"
)

// Columns is every column a flattened record carries, in document order.
var Columns = []string{
	FieldReference, FieldCJSCode, FieldTitle, FieldStartDate, FieldEndDate,
	FieldLastUpdate, FieldSOWRaw, FieldSOFRaw, FieldSOW, FieldSOF,
	FieldDVLACode, FieldHOClassification, FieldCategory,
	FieldMaxCustodialLength, FieldMaxCustodialUnit, FieldMaxFineTypeCode,
	FieldMaxFineTypeDesc, FieldMaxFine, FieldDisqualification,
	FieldMinPenaltyPoints, FieldMaxPenaltyPoints, FieldCustodialIndicator,
	FieldRecordable, FieldReportable, FieldNotes, FieldLegislation,
	FieldWelshTitle, FieldWelshSOW, FieldWelshSOF, FieldWelshLegislation,
	FieldTimeLimit, FieldMISCode,
}

// Fields is a flattened PNLD record. A nil value means the element was absent.
type Fields map[string]*string

// Get returns the value of key, or "" when absent.
func (f Fields) Get(key string) string {
	if v := f[key]; v != nil {
		return *v
	}
	return ""
}

// Has reports whether key is present with a non-nil value.
func (f Fields) Has(key string) bool {
	return f[key] != nil
}

// Set stores a value for key.
func (f Fields) Set(key, value string) {
	f[key] = &value
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if v == nil {
			out[k] = nil
			continue
		}
		s := *v
		out[k] = &s
	}
	return out
}

// InputRecord is one file of a batch, already flattened.
type InputRecord struct {
	SourceFileID string `json:"SourceFileID"`
	BatchID      string `json:"BatchID"`
	UploadedBy   string `json:"UploadedBy"`
	CJSCode      string `json:"CJSCode"`
	Fields       Fields `json:"fields"`
}

// CJS returns the offence code, preferring the top-level value.
func (r InputRecord) CJS() string {
	if c := strings.TrimSpace(r.CJSCode); c != "" {
		return c
	}
	return r.Fields.Get(FieldCJSCode)
}

// Batch is the unit of ingestion.
type Batch struct {
	Records []InputRecord `json:"records"`
}

// RecordOutcome is the result of processing one record.
type RecordOutcome struct {
	SourceFile SourceFile
	Messages   []Message
	Revision   *OffenceRevision
	Menus      []Menu
	Options    []MenuOption
}
